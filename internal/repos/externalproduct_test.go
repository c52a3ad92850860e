package repos

import (
	"context"
	"testing"

	"github.com/shadeapp/shade-backend/internal/repos/testutil"
	"github.com/shadeapp/shade-backend/internal/types"
)

func TestExternalProductRepoPublicRead(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewExternalProductRepo(db, testutil.Logger(t))

	seed := []*types.ExternalProduct{
		{
			Name:        "linen shirt",
			Category:    "top",
			Retailer:    "acme",
			ProductURL:  "https://acme.example/p/linen-shirt",
			Price:       49.0,
			GenderStyle: "unisex",
			InStock:     true,
		},
		{
			Name:        "wool coat",
			Category:    "outerwear",
			Retailer:    "acme",
			ProductURL:  "https://acme.example/p/wool-coat",
			Price:       240.0,
			GenderStyle: "womens",
			InStock:     true,
		},
	}
	if _, err := repo.IngestUpsert(ctx, tx, seed); err != nil {
		t.Fatalf("IngestUpsert: %v", err)
	}

	// catalog reads need no caller in context
	all, err := repo.List(ctx, tx, ProductFilter{})
	if err != nil {
		t.Fatalf("List without caller: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List returned %d rows, want 2", len(all))
	}

	tops, err := repo.List(ctx, tx, ProductFilter{Category: "top"})
	if err != nil {
		t.Fatalf("List by category: %v", err)
	}
	if len(tops) != 1 || tops[0].Name != "linen shirt" {
		t.Fatalf("category filter returned %d rows", len(tops))
	}

	cheap, err := repo.List(ctx, tx, ProductFilter{MaxPrice: testutil.PtrFloat(100)})
	if err != nil {
		t.Fatalf("List by max price: %v", err)
	}
	if len(cheap) != 1 || cheap[0].Name != "linen shirt" {
		t.Fatalf("price filter returned %d rows", len(cheap))
	}

	// womens filter also matches unisex rows
	womens, err := repo.List(ctx, tx, ProductFilter{GenderStyle: "womens"})
	if err != nil {
		t.Fatalf("List by gender style: %v", err)
	}
	if len(womens) != 2 {
		t.Fatalf("gender style filter returned %d rows, want 2", len(womens))
	}
}

func TestExternalProductRepoIngestDedupes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewExternalProductRepo(db, testutil.Logger(t))

	row := func(price float64) *types.ExternalProduct {
		return &types.ExternalProduct{
			Name:       "canvas sneaker",
			Category:   "footwear",
			Retailer:   "acme",
			ProductURL: "https://acme.example/p/canvas-sneaker",
			Price:      price,
			InStock:    true,
		}
	}
	if _, err := repo.IngestUpsert(ctx, tx, []*types.ExternalProduct{row(60)}); err != nil {
		t.Fatalf("first IngestUpsert: %v", err)
	}
	if _, err := repo.IngestUpsert(ctx, tx, []*types.ExternalProduct{row(45)}); err != nil {
		t.Fatalf("second IngestUpsert: %v", err)
	}

	rows, err := repo.List(ctx, tx, ProductFilter{Retailer: "acme", Category: "footwear"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("re-ingest duplicated the row: %d rows", len(rows))
	}
	if rows[0].Price != 45 {
		t.Fatalf("re-ingest did not refresh price: %v", rows[0].Price)
	}
}
