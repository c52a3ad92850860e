package services

import (
	"context"
	"testing"

	"github.com/shadeapp/shade-backend/internal/apperr"
)

// Validation failures are rejected before any storage access, so a zero
// service is enough here.
func TestUpdateMeValidation(t *testing.T) {
	svc := &profileService{}
	ctx := context.Background()

	sass := func(v int) *ProfileUpdate { return &ProfileUpdate{SassLevel: &v} }

	if _, err := svc.UpdateMe(ctx, sass(0)); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("sass_level 0: want validation error, got %v", err)
	}
	if _, err := svc.UpdateMe(ctx, sass(6)); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("sass_level 6: want validation error, got %v", err)
	}

	height := -3
	if _, err := svc.UpdateMe(ctx, &ProfileUpdate{HeightCm: &height}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("negative height: want validation error, got %v", err)
	}

	style := "robot"
	if _, err := svc.UpdateMe(ctx, &ProfileUpdate{GenderStyle: &style}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("unknown gender style: want validation error, got %v", err)
	}

	if _, err := svc.UpdateMe(ctx, &ProfileUpdate{}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("empty update: want validation error, got %v", err)
	}
	if _, err := svc.UpdateMe(ctx, nil); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("nil update: want validation error, got %v", err)
	}
}
