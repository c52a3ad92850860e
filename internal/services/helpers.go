package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/shadeapp/shade-backend/internal/authz"
)

func callerID(ctx context.Context) (uuid.UUID, error) {
	return authz.CallerFrom(ctx)
}

func pgvectorValue(embedding []float32) *pgvector.Vector {
	v := pgvector.NewVector(embedding)
	return &v
}
