package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/shadeapp/shade-backend/internal/apperr"
)

func TestCreateItemValidation(t *testing.T) {
	svc := &wardrobeService{}
	ctx := context.Background()

	if _, err := svc.CreateItem(ctx, &WardrobeItemInput{Category: "top"}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("missing name: want validation error, got %v", err)
	}
	if _, err := svc.CreateItem(ctx, &WardrobeItemInput{Name: "beanie"}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("missing category: want validation error, got %v", err)
	}

	// "hat" is a subcategory, not a category
	if _, err := svc.CreateItem(ctx, &WardrobeItemInput{Name: "beanie", Category: "hat"}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("unknown category: want validation error, got %v", err)
	}
	if _, err := svc.CreateItem(ctx, &WardrobeItemInput{Name: "beanie", Category: "accessory", Subcategory: "boots"}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("mismatched subcategory: want validation error, got %v", err)
	}

	// a valid pair passes validation and fails later on the missing caller
	_, err := svc.CreateItem(ctx, &WardrobeItemInput{Name: "beanie", Category: "accessory", Subcategory: "hat"})
	if !apperr.IsCode(err, apperr.CodeAuthentication) {
		t.Fatalf("valid input without caller: want authentication error, got %v", err)
	}
}

func TestSetEmbeddingDimension(t *testing.T) {
	svc := &wardrobeService{}

	err := svc.SetEmbedding(context.Background(), uuid.New(), make([]float32, 3), nil)
	if !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("short vector: want validation error, got %v", err)
	}
	err = svc.SetEmbedding(context.Background(), uuid.New(), nil, nil)
	if !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("nil vector: want validation error, got %v", err)
	}
}
