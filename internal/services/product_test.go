package services

import (
	"context"
	"testing"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/repos"
)

func TestListProductsFilterValidation(t *testing.T) {
	svc := &productService{}
	ctx := context.Background()

	if _, err := svc.ListProducts(ctx, repos.ProductFilter{Category: "sock"}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("unknown category: want validation error, got %v", err)
	}
	if _, err := svc.ListProducts(ctx, repos.ProductFilter{GenderStyle: "other"}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("unknown gender style: want validation error, got %v", err)
	}
	if _, err := svc.ListProducts(ctx, repos.ProductFilter{Tags: []string{"black", "not-a-tag"}}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("out-of-vocabulary tag: want validation error, got %v", err)
	}
}
