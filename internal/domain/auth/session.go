package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/user"
)

var (
	ErrSecretRequired  = errors.New("auth: secret hash is required")
	ErrUserRequired    = errors.New("auth: user is required")
	ErrTTLInvalid      = errors.New("auth: ttl must be positive")
	ErrSessionNotFound = errors.New("auth: session not found")
)

type SessionID string

// Session authenticates web-app calls. The bearer token is "<id>.<secret>";
// only a hash of the secret is stored, the plain secret travels to the client
// once at issue time.
type Session struct {
	ID         SessionID
	SecretHash string
	UserID     user.ID
	Role       user.Role
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

type CreateSessionParams struct {
	ID         SessionID
	SecretHash string
	UserID     user.ID
	Role       user.Role
	TTL        time.Duration
	Now        time.Time
}

func NewSession(params CreateSessionParams) (*Session, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("auth: session id is required")
	}
	if strings.TrimSpace(params.SecretHash) == "" {
		return nil, ErrSecretRequired
	}
	if strings.TrimSpace(string(params.UserID)) == "" {
		return nil, ErrUserRequired
	}
	if params.TTL <= 0 {
		return nil, ErrTTLInvalid
	}
	now := params.Now.UTC()
	return &Session{
		ID:         params.ID,
		SecretHash: params.SecretHash,
		UserID:     params.UserID,
		Role:       params.Role,
		CreatedAt:  now,
		ExpiresAt:  now.Add(params.TTL),
	}, nil
}

func (s *Session) Expired(at time.Time) bool {
	return !s.ExpiresAt.After(at.UTC())
}

type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	ByID(ctx context.Context, id SessionID) (*Session, error)
	Delete(ctx context.Context, id SessionID) error
}
