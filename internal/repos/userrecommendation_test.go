package repos

import (
	"context"
	"testing"
	"time"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/repos/testutil"
	"github.com/shadeapp/shade-backend/internal/types"
)

func TestUserRecommendationRepoOnePerDate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserRecommendationRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-rec@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	aliceCtx := testutil.CtxFor(alice.ID)
	outfit := testutil.SeedOutfit(t, ctx, tx, alice.ID, nil)

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	rec, err := repo.Create(aliceCtx, tx, &types.UserRecommendation{
		UserID:             alice.ID,
		OutfitID:           outfit.ID,
		RecommendationDate: date,
		Occasion:           "office",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// a second row for the same user and date is rejected as a validation
	// error, not surfaced as a raw unique-index failure
	if _, err := repo.Create(aliceCtx, tx, &types.UserRecommendation{
		UserID:             alice.ID,
		OutfitID:           outfit.ID,
		RecommendationDate: date,
	}); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("duplicate date Create: want validation error, got %v", err)
	}

	got, err := repo.GetByDate(aliceCtx, tx, date)
	if err != nil {
		t.Fatalf("GetByDate: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("GetByDate returned %v, want %v", got.ID, rec.ID)
	}

	if _, err := repo.GetByDate(aliceCtx, tx, date.AddDate(0, 0, 1)); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("GetByDate for empty date: want not_found, got %v", err)
	}
}

func TestUserRecommendationRepoFeedback(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserRecommendationRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-rec2@example.com")
	bob := testutil.SeedUser(t, ctx, tx, "bob-rec2@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	testutil.SeedProfile(t, ctx, tx, bob.ID)
	aliceCtx := testutil.CtxFor(alice.ID)
	outfit := testutil.SeedOutfit(t, ctx, tx, alice.ID, nil)

	rec, err := repo.Create(aliceCtx, tx, &types.UserRecommendation{
		UserID:             alice.ID,
		OutfitID:           outfit.ID,
		RecommendationDate: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Update(aliceCtx, tx, rec.ID, map[string]interface{}{
		"accepted":         false,
		"rejection_reason": "too warm for wool",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Accepted == nil || *got.Accepted {
		t.Fatalf("accepted = %v, want false", got.Accepted)
	}
	if got.RejectionReason != "too warm for wool" {
		t.Fatalf("rejection_reason = %q", got.RejectionReason)
	}

	// feedback from another user is forbidden
	if _, err := repo.Update(testutil.CtxFor(bob.ID), tx, rec.ID, map[string]interface{}{
		"accepted": true,
	}); !apperr.IsCode(err, apperr.CodeAuthorization) {
		t.Fatalf("cross-user Update: want authorization error, got %v", err)
	}
}
