package repos

import (
	"context"
	"testing"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/repos/testutil"
	"github.com/shadeapp/shade-backend/internal/types"
)

func TestUserProfileRepoUpsertIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserProfileRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-profile@example.com")
	aliceCtx := testutil.CtxFor(alice.ID)

	first, err := repo.Upsert(aliceCtx, tx, &types.UserProfile{
		UserID:      alice.ID,
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if first.SassLevel != types.DefaultSassLevel {
		t.Fatalf("sass_level = %d, want default %d", first.SassLevel, types.DefaultSassLevel)
	}

	// a second sign-in must not reset the existing profile
	second, err := repo.Upsert(aliceCtx, tx, &types.UserProfile{
		UserID:      alice.ID,
		DisplayName: "Someone Else",
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a second profile: %v vs %v", second.ID, first.ID)
	}
	if second.DisplayName != "Alice" {
		t.Fatalf("upsert overwrote display_name: %q", second.DisplayName)
	}
}

func TestUserProfileRepoUpdateOwn(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserProfileRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-profile2@example.com")
	bob := testutil.SeedUser(t, ctx, tx, "bob-profile2@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	aliceCtx := testutil.CtxFor(alice.ID)

	got, err := repo.UpdateOwn(aliceCtx, tx, map[string]interface{}{
		"display_name": "Alice B",
		"sass_level":   5,
		"user_id":      bob.ID, // must be stripped
	})
	if err != nil {
		t.Fatalf("UpdateOwn: %v", err)
	}
	if got.DisplayName != "Alice B" || got.SassLevel != 5 {
		t.Fatalf("update not applied: %q / %d", got.DisplayName, got.SassLevel)
	}
	if got.UserID != alice.ID {
		t.Fatalf("user_id reassigned to %v", got.UserID)
	}

	// bob has no profile yet
	if _, err := repo.GetOwn(testutil.CtxFor(bob.ID), tx); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("GetOwn without profile: want not_found, got %v", err)
	}
}
