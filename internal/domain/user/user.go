package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired   = errors.New("user: id is required")
	ErrNameRequired = errors.New("user: first name is required")
	ErrInvalidRole  = errors.New("user: invalid role")
	ErrNotFound     = errors.New("user: not found")
)

// ID carries the Telegram user id as a string.
type ID string

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// User is a marketplace participant. Roles are plain strings checked at the
// HTTP boundary; nothing beyond that is enforced.
type User struct {
	ID        ID
	Username  string
	FirstName string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	ID        ID
	Username  string
	FirstName string
	Now       time.Time
}

// New registers a user on first contact with the default role.
func New(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	firstName := strings.TrimSpace(params.FirstName)
	if firstName == "" {
		return nil, ErrNameRequired
	}
	now := params.Now.UTC()
	return &User{
		ID:        ID(id),
		Username:  strings.TrimSpace(params.Username),
		FirstName: firstName,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetRole replaces the user's role.
func (u *User) SetRole(role Role, now time.Time) error {
	switch NormalizeRole(role) {
	case RoleUser, RoleOwner, RoleAdmin:
		u.Role = NormalizeRole(role)
		u.UpdatedAt = now.UTC()
		return nil
	default:
		return ErrInvalidRole
	}
}

func (u *User) HasRole(role Role) bool {
	return NormalizeRole(u.Role) == NormalizeRole(role)
}

func NormalizeRole(role Role) Role {
	return Role(strings.ToLower(strings.TrimSpace(string(role))))
}
