package utils

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/types"
)

func NormalizeInput(s string) string {
	return strings.TrimSpace(s)
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func NormalizeUserFields(user *types.User) {
	user.Email = NormalizeEmail(user.Email)
	user.Password = NormalizeInput(user.Password)
	user.DisplayName = NormalizeInput(user.DisplayName)
}

func ValidateRegistration(user *types.User) error {
	if user == nil {
		return apperr.Validation("no user given")
	}
	if user.Email == "" {
		return apperr.Validation("an email is required to register")
	}
	if !strings.Contains(user.Email, "@") {
		return apperr.Validation("email is not valid")
	}
	if user.Password == "" {
		return apperr.Validation("a password is required to register")
	}
	if len(user.Password) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}
	return nil
}

func ValidateLogin(email, password string) error {
	if email == "" {
		return apperr.Validation("email is required to login")
	}
	if password == "" {
		return apperr.Validation("password is required to login")
	}
	return nil
}

func HashPassword(user *types.User) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}
	user.Password = string(hashed)
	return nil
}
