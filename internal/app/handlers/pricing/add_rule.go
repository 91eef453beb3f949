package pricing

import (
	"context"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
	domainpricing "stayhub/internal/domain/pricing"
)

const addRuleKey = "pricing.add_rule"

// AddRuleCommand creates a date-ranged nightly price override. Overlap with
// existing rules is allowed; resolution picks the rule with the latest start.
type AddRuleCommand struct {
	CommandID string
	ListingID string
	StartDate time.Time
	EndDate   time.Time
	Price     int64
	Now       time.Time
}

func (c AddRuleCommand) Key() string { return addRuleKey }

type AddRuleResult struct {
	RuleID string `json:"rule_id"`
}

type AddRuleHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *AddRuleHandler) Handle(ctx context.Context, cmd AddRuleCommand) (*AddRuleResult, error) {
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

	listingID := domainlistings.ListingID(cmd.ListingID)
	if _, err := unit.Listings().ByID(ctx, listingID); err != nil {
		return nil, err
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}
	rule, err := domainpricing.NewRule(domainpricing.RuleID(cmd.CommandID), listingID, cmd.StartDate, cmd.EndDate, cmd.Price, now)
	if err != nil {
		return nil, err
	}
	if err := unit.PriceRules().Add(ctx, rule); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &AddRuleResult{RuleID: string(rule.ID)}, nil
}

var _ commands.Handler[AddRuleCommand, *AddRuleResult] = (*AddRuleHandler)(nil)
