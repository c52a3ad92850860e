package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/repos/testutil"
	"github.com/shadeapp/shade-backend/internal/types"
)

func TestSavedOutfitRepoItemListSemantics(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSavedOutfitRepo(db, testutil.Logger(t))
	itemRepo := NewWardrobeItemRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-outfit@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	aliceCtx := testutil.CtxFor(alice.ID)

	item := testutil.SeedItem(t, ctx, tx, alice.ID, "bottom")

	// duplicates and dangling ids are both accepted: the list is an ordered
	// record, not a set of live references
	dangling := uuid.New()
	outfit, err := repo.Create(aliceCtx, tx, &types.SavedOutfit{
		UserID:  alice.ID,
		Name:    "double denim",
		ItemIDs: []uuid.UUID{item.ID, item.ID, dangling},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(outfit.ItemIDs) != 3 {
		t.Fatalf("item_ids length = %d, want 3", len(outfit.ItemIDs))
	}

	// deleting a referenced item leaves the outfit untouched
	if err := itemRepo.Delete(aliceCtx, tx, item.ID); err != nil {
		t.Fatalf("delete referenced item: %v", err)
	}
	got, err := repo.GetByID(aliceCtx, tx, outfit.ID)
	if err != nil {
		t.Fatalf("GetByID after item delete: %v", err)
	}
	if len(got.ItemIDs) != 3 {
		t.Fatalf("item_ids after item delete = %d, want 3", len(got.ItemIDs))
	}
}

func TestSavedOutfitRepoCrossUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSavedOutfitRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-outfit2@example.com")
	bob := testutil.SeedUser(t, ctx, tx, "bob-outfit2@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	testutil.SeedProfile(t, ctx, tx, bob.ID)

	outfit := testutil.SeedOutfit(t, ctx, tx, alice.ID, nil)

	if _, err := repo.GetByID(testutil.CtxFor(bob.ID), tx, outfit.ID); !apperr.IsCode(err, apperr.CodeAuthorization) {
		t.Fatalf("cross-user GetByID: want authorization error, got %v", err)
	}
	if err := repo.Delete(testutil.CtxFor(bob.ID), tx, outfit.ID); !apperr.IsCode(err, apperr.CodeAuthorization) {
		t.Fatalf("cross-user Delete: want authorization error, got %v", err)
	}

	// GetByIDs silently drops rows the caller does not own
	rows, err := repo.GetByIDs(testutil.CtxFor(bob.ID), tx, []uuid.UUID{outfit.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("GetByIDs leaked %d foreign rows", len(rows))
	}
}
