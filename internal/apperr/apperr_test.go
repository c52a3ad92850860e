package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsCarryStatusAndCode(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   string
	}{
		{Authentication("x"), http.StatusUnauthorized, CodeAuthentication},
		{Authorization("x"), http.StatusForbidden, CodeAuthorization},
		{Referential("x"), http.StatusUnprocessableEntity, CodeReferential},
		{Validation("x"), http.StatusBadRequest, CodeValidation},
		{NotFound("x"), http.StatusNotFound, CodeNotFound},
		{Internal(errors.New("x")), http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		if tc.err.Status != tc.status {
			t.Fatalf("%s: status = %d, want %d", tc.code, tc.err.Status, tc.status)
		}
		if !IsCode(tc.err, tc.code) {
			t.Fatalf("IsCode(%s) = false", tc.code)
		}
	}
}

func TestWrappedErrorsKeepTheirCode(t *testing.T) {
	base := NotFound("profile not found")
	wrapped := fmt.Errorf("loading profile: %w", base)

	if !IsCode(wrapped, CodeNotFound) {
		t.Fatalf("IsCode lost the code through wrapping")
	}
	if StatusOf(wrapped) != http.StatusNotFound {
		t.Fatalf("StatusOf(wrapped) = %d", StatusOf(wrapped))
	}
	if CodeOf(wrapped) != CodeNotFound {
		t.Fatalf("CodeOf(wrapped) = %q", CodeOf(wrapped))
	}
}

func TestPlainErrorsMapToInternal(t *testing.T) {
	err := errors.New("disk on fire")
	if StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("StatusOf = %d", StatusOf(err))
	}
	if CodeOf(err) != CodeInternal {
		t.Fatalf("CodeOf = %q", CodeOf(err))
	}
	if IsCode(err, CodeValidation) {
		t.Fatalf("IsCode matched a plain error")
	}
}
