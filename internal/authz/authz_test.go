package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/requestdata"
)

func TestCallerFrom(t *testing.T) {
	userID := uuid.New()
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})

	got, err := CallerFrom(ctx)
	if err != nil {
		t.Fatalf("CallerFrom: %v", err)
	}
	if got != userID {
		t.Fatalf("caller = %v, want %v", got, userID)
	}

	if _, err := CallerFrom(context.Background()); !apperr.IsCode(err, apperr.CodeAuthentication) {
		t.Fatalf("empty context: want authentication error, got %v", err)
	}

	nilCtx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{})
	if _, err := CallerFrom(nilCtx); !apperr.IsCode(err, apperr.CodeAuthentication) {
		t.Fatalf("nil user id: want authentication error, got %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	if err := Authorize(owner, OpRead, owner); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if err := Authorize(other, OpRead, owner); !apperr.IsCode(err, apperr.CodeAuthorization) {
		t.Fatalf("foreign read: want authorization error, got %v", err)
	}
	if err := Authorize(uuid.Nil, OpRead, owner); !apperr.IsCode(err, apperr.CodeAuthentication) {
		t.Fatalf("nil caller: want authentication error, got %v", err)
	}
}

func TestAuthorizeCreate(t *testing.T) {
	caller := uuid.New()

	if err := AuthorizeCreate(caller, caller); err != nil {
		t.Fatalf("self create: %v", err)
	}
	if err := AuthorizeCreate(caller, uuid.New()); !apperr.IsCode(err, apperr.CodeAuthorization) {
		t.Fatalf("create for other: want authorization error, got %v", err)
	}
	if err := AuthorizeCreate(caller, uuid.Nil); !apperr.IsCode(err, apperr.CodeAuthorization) {
		t.Fatalf("create with no owner: want authorization error, got %v", err)
	}
	if err := AuthorizeCreate(uuid.Nil, caller); !apperr.IsCode(err, apperr.CodeAuthentication) {
		t.Fatalf("nil caller: want authentication error, got %v", err)
	}
}
