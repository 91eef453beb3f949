package users

import (
	"context"
	"log/slog"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	handlersupport "stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainuser "stayhub/internal/domain/user"
)

const (
	setRoleKey    = "users.set_role"
	getProfileKey = "users.profile"
)

// SetRoleCommand promotes or demotes a user; admin only at the HTTP layer.
type SetRoleCommand struct {
	UserID string
	Role   string
	Now    time.Time
}

func (c SetRoleCommand) Key() string { return setRoleKey }

type SetRoleHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *SetRoleHandler) Handle(ctx context.Context, cmd SetRoleCommand) (dto.User, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return dto.User{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return dto.User{}, err
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

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	usr, err := unit.Users().ByID(ctx, domainuser.ID(cmd.UserID))
	if err != nil {
		return dto.User{}, err
	}
	if err := usr.SetRole(domainuser.Role(cmd.Role), now); err != nil {
		return dto.User{}, err
	}
	if err := unit.Users().Save(ctx, usr); err != nil {
		return dto.User{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.User{}, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("user role changed", "user_id", usr.ID, "role", usr.Role)
	}
	return dto.MapUser(usr), nil
}

// GetProfileQuery fetches a user by id.
type GetProfileQuery struct {
	UserID string
}

func (q GetProfileQuery) Key() string { return getProfileKey }

type GetProfileHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (dto.User, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.User{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	usr, err := unit.Users().ByID(execCtx, domainuser.ID(q.UserID))
	if err != nil {
		return dto.User{}, err
	}
	return dto.MapUser(usr), nil
}

var (
	_ commands.Handler[SetRoleCommand, dto.User] = (*SetRoleHandler)(nil)
	_ queries.Handler[GetProfileQuery, dto.User] = (*GetProfileHandler)(nil)
)
