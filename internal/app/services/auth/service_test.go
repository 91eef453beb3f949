package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	authsvc "stayhub/internal/app/services/auth"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/storage/memory"
)

// plainHasher keeps secrets verbatim so tests can inspect tokens.
type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return "plain:" + secret, nil }

func (plainHasher) Compare(hash, secret string) error {
	if hash != "plain:"+secret {
		return errors.New("mismatch")
	}
	return nil
}

type staticGenerator struct{ secret string }

func (g staticGenerator) NewToken() (string, error) { return g.secret, nil }

func newService(t *testing.T, ttl time.Duration) (*authsvc.Service, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	usr, err := domainuser.New(domainuser.CreateParams{ID: "42", Username: "ivan", FirstName: "Ivan", Now: time.Now()})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := users.Save(context.Background(), usr); err != nil {
		t.Fatalf("save user: %v", err)
	}
	return &authsvc.Service{
		Users:      users,
		Sessions:   memory.NewSessionStore(),
		Secrets:    plainHasher{},
		Generator:  staticGenerator{secret: "s3cret"},
		SessionTTL: ttl,
	}, users
}

func TestIssueAndResolveToken(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, time.Hour)

	issued, err := svc.IssueToken(context.Background(), "42")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	sessionID, secret, ok := strings.Cut(issued.Token, ".")
	if !ok || sessionID == "" || secret != "s3cret" {
		t.Fatalf("token %q is not <session-id>.<secret>", issued.Token)
	}
	if issued.User.ID != "42" {
		t.Fatalf("issued user = %q", issued.User.ID)
	}

	resolved, err := svc.ResolveToken(context.Background(), issued.Token)
	if err != nil {
		t.Fatalf("ResolveToken failed: %v", err)
	}
	if resolved.User.ID != "42" || string(resolved.Session.ID) != sessionID {
		t.Fatalf("resolved = user %q session %q", resolved.User.ID, resolved.Session.ID)
	}
}

func TestResolveTokenRejectsBadTokens(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, time.Hour)
	issued, err := svc.IssueToken(context.Background(), "42")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	sessionID, _, _ := strings.Cut(issued.Token, ".")

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "   ", authsvc.ErrTokenRequired},
		{"no separator", "justonepart", authsvc.ErrTokenInvalid},
		{"unknown session", "nope.s3cret", authsvc.ErrTokenInvalid},
		{"wrong secret", sessionID + ".wrong", authsvc.ErrTokenInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := svc.ResolveToken(context.Background(), tc.token); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestResolveTokenExpiry(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, time.Nanosecond)

	issued, err := svc.IssueToken(context.Background(), "42")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := svc.ResolveToken(context.Background(), issued.Token); !errors.Is(err, authsvc.ErrTokenExpired) {
		t.Fatalf("error = %v, want ErrTokenExpired", err)
	}
	// The expired session is dropped, so a retry reports invalid instead.
	if _, err := svc.ResolveToken(context.Background(), issued.Token); !errors.Is(err, authsvc.ErrTokenInvalid) {
		t.Fatalf("retry error = %v, want ErrTokenInvalid", err)
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, time.Hour)

	issued, err := svc.IssueToken(context.Background(), "42")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if err := svc.Logout(context.Background(), issued.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := svc.ResolveToken(context.Background(), issued.Token); !errors.Is(err, authsvc.ErrTokenInvalid) {
		t.Fatalf("resolve after logout = %v, want ErrTokenInvalid", err)
	}
	// Logging out twice or with garbage is a no-op.
	if err := svc.Logout(context.Background(), issued.Token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if err := svc.Logout(context.Background(), "garbage"); err != nil {
		t.Fatalf("garbage logout: %v", err)
	}
}
