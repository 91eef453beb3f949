package users

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/uow"
	domainuser "stayhub/internal/domain/user"
)

const registerUserKey = "users.register"

// RegisterUserCommand upserts a user on first contact. Repeated calls refresh
// the profile fields and keep the stored role.
type RegisterUserCommand struct {
	UserID    string
	Username  string
	FirstName string
	Now       time.Time
}

func (c RegisterUserCommand) Key() string { return registerUserKey }

type RegisterUserHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (dto.User, error) {
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

	existing, err := unit.Users().ByID(ctx, domainuser.ID(cmd.UserID))
	switch {
	case err == nil:
		existing.Username = cmd.Username
		if cmd.FirstName != "" {
			existing.FirstName = cmd.FirstName
		}
		existing.UpdatedAt = now
		if err := unit.Users().Save(ctx, existing); err != nil {
			return dto.User{}, err
		}
	case errors.Is(err, domainuser.ErrNotFound):
		existing, err = domainuser.New(domainuser.CreateParams{
			ID:        domainuser.ID(cmd.UserID),
			Username:  cmd.Username,
			FirstName: cmd.FirstName,
			Now:       now,
		})
		if err != nil {
			return dto.User{}, err
		}
		if err := unit.Users().Save(ctx, existing); err != nil {
			return dto.User{}, err
		}
		if h.Logger != nil {
			h.Logger.Info("user registered", "user_id", existing.ID)
		}
	default:
		return dto.User{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.User{}, err
		}
		committed = true
	}
	return dto.MapUser(existing), nil
}

var _ commands.Handler[RegisterUserCommand, dto.User] = (*RegisterUserHandler)(nil)
