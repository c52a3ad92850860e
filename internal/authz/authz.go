// Package authz evaluates the per-row ownership predicate for every
// data-access path. Repos call into it before touching storage, so an
// application-layer bug cannot leak one user's rows to another.
package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/requestdata"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// CallerFrom resolves the authenticated caller from the request context.
// Owned-entity repos fail with an authentication error when it is absent.
func CallerFrom(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apperr.Authentication("no authenticated caller in context")
	}
	return rd.UserID, nil
}

// Authorize applies the ownership predicate for one row and one operation
// kind: the caller may touch the row only when it owns it.
func Authorize(caller uuid.UUID, op Operation, ownerID uuid.UUID) error {
	if caller == uuid.Nil {
		return apperr.Authentication("no authenticated caller")
	}
	if caller != ownerID {
		return apperr.Authorization("%s forbidden: row is owned by another user", op)
	}
	return nil
}

// AuthorizeCreate checks the owner id declared on a row being inserted.
// A mismatched or absent owner id fails; rows are never created on behalf
// of someone else.
func AuthorizeCreate(caller uuid.UUID, declaredOwner uuid.UUID) error {
	if caller == uuid.Nil {
		return apperr.Authentication("no authenticated caller")
	}
	if declaredOwner == uuid.Nil {
		return apperr.Authorization("create forbidden: row declares no owner")
	}
	if declaredOwner != caller {
		return apperr.Authorization("create forbidden: declared owner differs from caller")
	}
	return nil
}
