package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/types"
)

func TestNormalizeUserFields(t *testing.T) {
	u := &types.User{
		Email:       "  Alice@Example.COM ",
		Password:    " hunter22 ",
		DisplayName: "  Alice  ",
	}
	NormalizeUserFields(u)
	if u.Email != "alice@example.com" {
		t.Fatalf("email = %q", u.Email)
	}
	if u.Password != "hunter22" {
		t.Fatalf("password = %q", u.Password)
	}
	if u.DisplayName != "Alice" {
		t.Fatalf("display_name = %q", u.DisplayName)
	}
}

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name     string
		user     *types.User
		wantFail bool
	}{
		{"valid", &types.User{Email: "a@b.com", Password: "longenough"}, false},
		{"nil user", nil, true},
		{"missing email", &types.User{Password: "longenough"}, true},
		{"bad email", &types.User{Email: "not-an-email", Password: "longenough"}, true},
		{"missing password", &types.User{Email: "a@b.com"}, true},
		{"short password", &types.User{Email: "a@b.com", Password: "short"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegistration(tc.user)
			if tc.wantFail && !apperr.IsCode(err, apperr.CodeValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
			if !tc.wantFail && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	u := &types.User{Password: "hunter22hunter22"}
	if err := HashPassword(u); err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if u.Password == "hunter22hunter22" {
		t.Fatalf("password left in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("hunter22hunter22")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}
