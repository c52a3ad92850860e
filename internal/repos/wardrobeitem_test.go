package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/repos/testutil"
	"github.com/shadeapp/shade-backend/internal/types"
)

func TestWardrobeItemRepoOwnership(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewWardrobeItemRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-wardrobe@example.com")
	bob := testutil.SeedUser(t, ctx, tx, "bob-wardrobe@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	testutil.SeedProfile(t, ctx, tx, bob.ID)

	aliceCtx := testutil.CtxFor(alice.ID)
	bobCtx := testutil.CtxFor(bob.ID)

	item, err := repo.Create(aliceCtx, tx, &types.WardrobeItem{
		UserID:   alice.ID,
		Name:     "navy blazer",
		Category: "outerwear",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// owner reads succeed
	if _, err := repo.GetByID(aliceCtx, tx, item.ID); err != nil {
		t.Fatalf("owner GetByID: %v", err)
	}

	// a different authenticated user is forbidden, not told "not found"
	if _, err := repo.GetByID(bobCtx, tx, item.ID); !apperr.IsCode(err, apperr.CodeAuthorization) {
		t.Fatalf("cross-user GetByID: want authorization error, got %v", err)
	}

	// no caller in context is an authentication failure
	if _, err := repo.GetByID(ctx, tx, item.ID); !apperr.IsCode(err, apperr.CodeAuthentication) {
		t.Fatalf("anonymous GetByID: want authentication error, got %v", err)
	}

	// a write by the wrong user is forbidden and leaves the row unchanged
	if _, err := repo.Update(bobCtx, tx, item.ID, map[string]interface{}{"name": "stolen"}); !apperr.IsCode(err, apperr.CodeAuthorization) {
		t.Fatalf("cross-user Update: want authorization error, got %v", err)
	}
	got, err := repo.GetByID(aliceCtx, tx, item.ID)
	if err != nil {
		t.Fatalf("GetByID after forbidden update: %v", err)
	}
	if got.Name != "navy blazer" {
		t.Fatalf("forbidden update mutated row: name=%q", got.Name)
	}

	// deleting a row that never existed is not found
	if err := repo.Delete(aliceCtx, tx, uuid.New()); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("Delete missing: want not_found, got %v", err)
	}

	// lists are silently scoped to the caller
	bobItems, err := repo.ListByOwner(bobCtx, tx, WardrobeItemFilter{})
	if err != nil {
		t.Fatalf("bob ListByOwner: %v", err)
	}
	if len(bobItems) != 0 {
		t.Fatalf("bob sees %d of alice's items", len(bobItems))
	}
}

func TestWardrobeItemRepoCreateRequiresProfile(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewWardrobeItemRepo(db, testutil.Logger(t))

	orphan := testutil.SeedUser(t, ctx, tx, "orphan-wardrobe@example.com")
	orphanCtx := testutil.CtxFor(orphan.ID)

	_, err := repo.Create(orphanCtx, tx, &types.WardrobeItem{
		UserID:   orphan.ID,
		Name:     "white tee",
		Category: "top",
	})
	if !apperr.IsCode(err, apperr.CodeReferential) {
		t.Fatalf("Create without profile: want referential error, got %v", err)
	}
}

func TestWardrobeItemRepoCreateForOtherUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewWardrobeItemRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-create@example.com")
	bob := testutil.SeedUser(t, ctx, tx, "bob-create@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	testutil.SeedProfile(t, ctx, tx, bob.ID)

	_, err := repo.Create(testutil.CtxFor(bob.ID), tx, &types.WardrobeItem{
		UserID:   alice.ID,
		Name:     "planted item",
		Category: "top",
	})
	if !apperr.IsCode(err, apperr.CodeAuthorization) {
		t.Fatalf("Create for another owner: want authorization error, got %v", err)
	}
}

func TestWardrobeItemRepoLogWear(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewWardrobeItemRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-wear@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	aliceCtx := testutil.CtxFor(alice.ID)
	item := testutil.SeedItem(t, ctx, tx, alice.ID, "footwear")

	worn := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	got, err := repo.LogWear(aliceCtx, tx, item.ID, worn)
	if err != nil {
		t.Fatalf("LogWear: %v", err)
	}
	if got.WearCount != 1 {
		t.Fatalf("wear_count = %d, want 1", got.WearCount)
	}
	if got.LastWornAt == nil || !got.LastWornAt.Equal(worn) {
		t.Fatalf("last_worn_at = %v, want %v", got.LastWornAt, worn)
	}

	got, err = repo.LogWear(aliceCtx, tx, item.ID, worn.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("second LogWear: %v", err)
	}
	if got.WearCount != 2 {
		t.Fatalf("wear_count after second wear = %d, want 2", got.WearCount)
	}
}

func TestWardrobeItemRepoUpdateStripsStoreManaged(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewWardrobeItemRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-strip@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	aliceCtx := testutil.CtxFor(alice.ID)
	item := testutil.SeedItem(t, ctx, tx, alice.ID, "top")

	forged := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := repo.Update(aliceCtx, tx, item.ID, map[string]interface{}{
		"name":       "renamed",
		"updated_at": forged,
		"user_id":    uuid.New(),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "renamed" {
		t.Fatalf("name = %q, want renamed", got.Name)
	}
	if got.UserID != alice.ID {
		t.Fatalf("user_id was overwritten to %v", got.UserID)
	}
	if got.UpdatedAt.Equal(forged) {
		t.Fatalf("client-supplied updated_at survived")
	}
}
