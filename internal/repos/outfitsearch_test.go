package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/repos/testutil"
	"github.com/shadeapp/shade-backend/internal/types"
)

func TestOutfitSearchRepoAppendOnly(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewOutfitSearchRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "alice-search@example.com")
	bob := testutil.SeedUser(t, ctx, tx, "bob-search@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	testutil.SeedProfile(t, ctx, tx, bob.ID)
	aliceCtx := testutil.CtxFor(alice.ID)

	record, err := repo.Create(aliceCtx, tx, &types.OutfitSearch{
		UserID: alice.ID,
		Query:  "rainy day layers",
		Filters: datatypes.NewJSONType(types.SearchFilters{
			Category: "outerwear",
			Season:   "fall",
		}),
		ClickedItemIDs: []uuid.UUID{uuid.New()},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(aliceCtx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Query != "rainy day layers" {
		t.Fatalf("query = %q", got.Query)
	}
	if got.Filters.Data().Category != "outerwear" {
		t.Fatalf("filters did not round-trip: %+v", got.Filters.Data())
	}

	if _, err := repo.GetByID(testutil.CtxFor(bob.ID), tx, record.ID); !apperr.IsCode(err, apperr.CodeAuthorization) {
		t.Fatalf("cross-user GetByID: want authorization error, got %v", err)
	}

	records, err := repo.ListByOwner(aliceCtx, tx, 10)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListByOwner returned %d rows", len(records))
	}
}
