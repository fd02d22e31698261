package oauthstate_test

import (
	"testing"
	"time"

	"github.com/dalemusser/taskhub/internal/app/store/oauthstate"
	"github.com/dalemusser/taskhub/internal/testutil"
)

func TestSaveAndValidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := oauthstate.New(db)
	ctx := testutil.TestContext(t)

	if err := s.Save(ctx, "state-abc", "/projects/123", time.Now().UTC().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	returnURL, valid, err := s.Validate(ctx, "state-abc")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !valid {
		t.Fatal("fresh state reported invalid")
	}
	if returnURL != "/projects/123" {
		t.Errorf("returnURL = %q", returnURL)
	}

	// One-time use: the same state fails on replay.
	_, valid, err = s.Validate(ctx, "state-abc")
	if err != nil {
		t.Fatalf("Validate replay: %v", err)
	}
	if valid {
		t.Error("replayed state reported valid")
	}
}

func TestValidate_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := oauthstate.New(db)
	ctx := testutil.TestContext(t)

	if err := s.Save(ctx, "state-old", "", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, valid, err := s.Validate(ctx, "state-old")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if valid {
		t.Error("expired state reported valid")
	}
}

func TestValidate_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := oauthstate.New(db)
	ctx := testutil.TestContext(t)

	_, valid, err := s.Validate(ctx, "never-saved")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if valid {
		t.Error("unknown state reported valid")
	}
}
