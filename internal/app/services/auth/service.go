package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

var (
	ErrTokenRequired = errors.New("auth: token is required")
	ErrTokenInvalid  = errors.New("auth: token is invalid")
	ErrTokenExpired  = errors.New("auth: token is expired")
)

type SecretHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) error
}

type SecretGenerator interface {
	NewToken() (string, error)
}

// Service issues and resolves bearer tokens for the web-app API. A token is
// "<session-id>.<secret>"; the store keeps only a hash of the secret.
type Service struct {
	Users      domainuser.Repository
	Sessions   domainauth.SessionStore
	Secrets    SecretHasher
	Generator  SecretGenerator
	SessionTTL time.Duration
	Logger     *slog.Logger
}

type IssueResult struct {
	User  *domainuser.User
	Token string
}

type ResolveResult struct {
	User    *domainuser.User
	Session *domainauth.Session
}

// IssueToken creates a session for an already registered user.
func (s *Service) IssueToken(ctx context.Context, userID string) (*IssueResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	usr, err := s.Users.ByID(ctx, domainuser.ID(userID))
	if err != nil {
		return nil, err
	}

	secret, err := s.Generator.NewToken()
	if err != nil {
		return nil, err
	}
	hash, err := s.Secrets.Hash(secret)
	if err != nil {
		return nil, err
	}
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		ID:         domainauth.SessionID(uuid.NewString()),
		SecretHash: hash,
		UserID:     usr.ID,
		Role:       usr.Role,
		TTL:        s.sessionTTL(),
		Now:        time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("session issued", "user_id", usr.ID, "session_id", session.ID)
	}
	return &IssueResult{User: usr, Token: string(session.ID) + "." + secret}, nil
}

// ResolveToken validates a bearer token and loads its user.
func (s *Service) ResolveToken(ctx context.Context, token string) (*ResolveResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenRequired
	}
	sessionID, secret, ok := strings.Cut(token, ".")
	if !ok || sessionID == "" || secret == "" {
		return nil, ErrTokenInvalid
	}

	session, err := s.Sessions.ByID(ctx, domainauth.SessionID(sessionID))
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = s.Sessions.Delete(ctx, session.ID)
		return nil, ErrTokenExpired
	}
	if err := s.Secrets.Compare(session.SecretHash, secret); err != nil {
		return nil, ErrTokenInvalid
	}

	usr, err := s.Users.ByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			_ = s.Sessions.Delete(ctx, session.ID)
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	return &ResolveResult{User: usr, Session: session}, nil
}

// Logout removes the session behind the token; unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	sessionID, _, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || sessionID == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, domainauth.SessionID(sessionID)); err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("session terminated", "session_id", sessionID)
	}
	return nil
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Users == nil:
		return errors.New("auth: user repository required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Secrets == nil:
		return errors.New("auth: secret hasher required")
	case s.Generator == nil:
		return errors.New("auth: secret generator required")
	default:
		return nil
	}
}
