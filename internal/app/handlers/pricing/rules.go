package pricing

import (
	"context"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
	domainpricing "stayhub/internal/domain/pricing"
)

const (
	listRulesKey  = "pricing.list_rules"
	deleteRuleKey = "pricing.delete_rule"
)

type ListRulesQuery struct {
	ListingID string
}

func (q ListRulesQuery) Key() string { return listRulesKey }

type ListRulesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListRulesHandler) Handle(ctx context.Context, q ListRulesQuery) ([]dto.PriceRule, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	listingID := domainlistings.ListingID(q.ListingID)
	if _, err := unit.Listings().ByID(execCtx, listingID); err != nil {
		return nil, err
	}
	rules, err := unit.PriceRules().ListByListing(execCtx, listingID)
	if err != nil {
		return nil, err
	}
	return dto.MapPriceRules(rules), nil
}

// DeleteRuleCommand removes one rule. OwnerID, when set, must match the
// owner of the listing the rule belongs to; an empty OwnerID skips the
// check and is reserved for admin callers.
type DeleteRuleCommand struct {
	RuleID  string
	OwnerID string
}

func (c DeleteRuleCommand) Key() string { return deleteRuleKey }

type DeleteRuleResult struct {
	Status string `json:"status"`
}

type DeleteRuleHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *DeleteRuleHandler) Handle(ctx context.Context, cmd DeleteRuleCommand) (*DeleteRuleResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	rule, err := unit.PriceRules().ByID(ctx, domainpricing.RuleID(cmd.RuleID))
	if err != nil {
		return nil, err
	}
	if cmd.OwnerID != "" {
		listing, err := unit.Listings().ByID(ctx, rule.ListingID)
		if err != nil {
			return nil, err
		}
		if listing.Owner != domainlistings.OwnerID(cmd.OwnerID) {
			return nil, domainlistings.ErrNotOwned
		}
	}
	if err := unit.PriceRules().Delete(ctx, rule.ID); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &DeleteRuleResult{Status: "ok"}, nil
}

var (
	_ queries.Handler[ListRulesQuery, []dto.PriceRule]       = (*ListRulesHandler)(nil)
	_ commands.Handler[DeleteRuleCommand, *DeleteRuleResult] = (*DeleteRuleHandler)(nil)
)
