package authutil

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "correct-horse", nil},
		{"exact minimum", "sixsix", nil},
		{"too short", "five5", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"too long", strings.Repeat("a", MaxPasswordLength+1), ErrPasswordTooLong},
		{"exact maximum", strings.Repeat("a", MaxPasswordLength), nil},
		{"common", "password", ErrPasswordCommon},
		{"common uppercased", "PASSWORD", ErrPasswordCommon},
		{"common mixed case", "LetMeIn", ErrPasswordCommon},
		{"common numeric", "123456789", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct-horse" {
		t.Fatal("hash equals the plain password")
	}

	if !CheckPassword("correct-horse", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong-horse", hash) {
		t.Error("wrong password accepted")
	}
	if CheckPassword("correct-horse", "not-a-bcrypt-hash") {
		t.Error("garbage hash accepted")
	}
}

func TestPasswordRules(t *testing.T) {
	if PasswordRules() == "" {
		t.Error("PasswordRules returned empty string")
	}
}
