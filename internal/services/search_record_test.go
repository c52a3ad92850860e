package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/repos/testutil"
	"github.com/shadeapp/shade-backend/internal/types"
)

func TestGetSearchResolvesResultIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	searchRepo := repos.NewOutfitSearchRepo(tx, log)
	outfitRepo := repos.NewSavedOutfitRepo(tx, log)
	productRepo := repos.NewExternalProductRepo(tx, log)
	svc := NewSearchService(tx, log, searchRepo, outfitRepo, productRepo)

	alice := testutil.SeedUser(t, ctx, tx, "alice-searchlog@example.com")
	testutil.SeedProfile(t, ctx, tx, alice.ID)
	outfit := testutil.SeedOutfit(t, ctx, tx, alice.ID, nil)

	product := &types.ExternalProduct{
		Name:       "Wool Peacoat",
		Category:   "outerwear",
		Price:      120,
		Currency:   "USD",
		ProductURL: "https://shop.example.com/peacoat",
		Retailer:   "example-shop",
		InStock:    true,
	}
	if err := tx.WithContext(ctx).Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	aliceCtx := testutil.CtxFor(alice.ID)
	record, err := svc.Record(aliceCtx, &SearchRecordInput{
		Query:            "coat",
		ResultOutfitIDs:  []uuid.UUID{outfit.ID, uuid.New()},
		ResultProductIDs: []uuid.UUID{product.ID, uuid.New()},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	detail, err := svc.GetSearch(aliceCtx, record.ID)
	if err != nil {
		t.Fatalf("GetSearch: %v", err)
	}
	if detail.Search.ID != record.ID {
		t.Fatalf("GetSearch returned record %v, want %v", detail.Search.ID, record.ID)
	}

	// ids whose rows no longer exist are dropped, not errored on
	if len(detail.Outfits) != 1 || detail.Outfits[0].ID != outfit.ID {
		t.Fatalf("resolved outfits = %d, want just the live one", len(detail.Outfits))
	}
	if len(detail.Products) != 1 || detail.Products[0].ID != product.ID {
		t.Fatalf("resolved products = %d, want just the live one", len(detail.Products))
	}
}
