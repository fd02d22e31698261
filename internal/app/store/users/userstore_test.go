package userstore_test

import (
	"errors"
	"testing"
	"time"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
)

func newStore(t *testing.T) *userstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	s := userstore.New(db)
	if err := s.EnsureIndexes(testutil.TestContext(t)); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newStore(t)
	ctx := testutil.TestContext(t)

	u, err := s.Create(ctx, models.User{
		Name:  "Ada Lovelace",
		Email: "Ada@Example.COM",
		Role:  "Manager",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.Role != models.RoleManager {
		t.Errorf("role not normalized: %q", u.Role)
	}

	got, err := s.GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("GetByEmail ID = %v, want %v", got.ID, u.ID)
	}

	if _, err := s.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("missing email err = %v, want ErrNotFound", err)
	}

	// Duplicate email is rejected by the unique index.
	if _, err := s.Create(ctx, models.User{Name: "Dup", Email: "ADA@example.com"}); !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("duplicate err = %v, want ErrDuplicateEmail", err)
	}
}

func TestSetRole(t *testing.T) {
	s := newStore(t)
	ctx := testutil.TestContext(t)

	u, err := s.Create(ctx, models.User{Name: "Milo", Email: "milo@example.com", Role: models.RoleMember})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	got, err := s.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", got.Role)
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := testutil.TestContext(t)
	now := time.Now().UTC()

	u, err := s.Create(ctx, models.User{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	live := models.RefreshToken{Token: "live-token", ExpiresAt: now.Add(time.Hour)}
	stale := models.RefreshToken{Token: "stale-token", ExpiresAt: now.Add(-time.Hour)}
	for _, rt := range []models.RefreshToken{live, stale} {
		if err := s.AddRefreshToken(ctx, u.ID, rt); err != nil {
			t.Fatalf("AddRefreshToken(%q): %v", rt.Token, err)
		}
	}

	got, err := s.GetByRefreshToken(ctx, "live-token")
	if err != nil {
		t.Fatalf("GetByRefreshToken: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("GetByRefreshToken ID = %v, want %v", got.ID, u.ID)
	}
	if len(got.RefreshTokens) != 2 {
		t.Errorf("stored tokens = %d, want 2", len(got.RefreshTokens))
	}

	// The purge removes only expired tokens.
	purged, err := s.PurgeExpiredRefreshTokens(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpiredRefreshTokens: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d user records, want 1", purged)
	}
	got, err = s.GetByRefreshToken(ctx, "live-token")
	if err != nil {
		t.Fatalf("GetByRefreshToken after purge: %v", err)
	}
	if len(got.RefreshTokens) != 1 || got.RefreshTokens[0].Token != "live-token" {
		t.Errorf("tokens after purge = %+v", got.RefreshTokens)
	}

	// Remove reports how many records dropped the token.
	removed, err := s.RemoveRefreshToken(ctx, "live-token")
	if err != nil {
		t.Fatalf("RemoveRefreshToken: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := s.GetByRefreshToken(ctx, "live-token"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("token lookup after remove = %v, want ErrNotFound", err)
	}
}
