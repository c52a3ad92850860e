package services

import (
	"context"
	"testing"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/types"
)

func TestMatchOutfits(t *testing.T) {
	outfits := []*types.SavedOutfit{
		{Name: "Rainy Day Layers"},
		{Name: "Beach Fit", AICommentary: "great for rainy festivals"},
		{Name: "Office Classic"},
	}

	matched := matchOutfits(outfits, "rainy")
	if len(matched) != 2 {
		t.Fatalf("matched %d outfits, want 2", len(matched))
	}

	// empty query matches everything
	if got := matchOutfits(outfits, "  "); len(got) != 3 {
		t.Fatalf("empty query matched %d outfits, want 3", len(got))
	}

	if got := matchOutfits(outfits, "tuxedo"); len(got) != 0 {
		t.Fatalf("miss matched %d outfits, want 0", len(got))
	}
}

func TestFiltersEmpty(t *testing.T) {
	if !filtersEmpty(types.SearchFilters{}) {
		t.Fatalf("zero filters reported non-empty")
	}
	if filtersEmpty(types.SearchFilters{Category: "top"}) {
		t.Fatalf("category filter reported empty")
	}
	min := 10.0
	if filtersEmpty(types.SearchFilters{MinPrice: &min}) {
		t.Fatalf("price filter reported empty")
	}
}

func TestProductFilterFrom(t *testing.T) {
	min := 20.0
	got := productFilterFrom(types.SearchFilters{
		Category: "outerwear",
		Tags:     []string{"black"},
		Occasion: "formal",
		Season:   "winter",
		MinPrice: &min,
	})

	if got.Category != "outerwear" {
		t.Fatalf("category = %q", got.Category)
	}
	// occasion and season fold into the tag filter
	if len(got.Tags) != 3 {
		t.Fatalf("tags = %v, want 3 entries", got.Tags)
	}
	if !got.InStockOnly {
		t.Fatalf("search results must be in stock")
	}
	if got.MinPrice == nil || *got.MinPrice != 20.0 {
		t.Fatalf("min price not carried over")
	}
}

func TestExecuteFilterVocabulary(t *testing.T) {
	svc := &searchService{}
	ctx := context.Background()

	for _, req := range []*SearchRequest{
		{Filters: types.SearchFilters{Occasion: "commuting"}},
		{Filters: types.SearchFilters{Season: "monsoon"}},
	} {
		if _, err := svc.Execute(ctx, req); !apperr.IsCode(err, apperr.CodeValidation) {
			t.Fatalf("filters %+v: want validation error, got %v", req.Filters, err)
		}
	}

	// in-vocabulary filters pass and fail later on the missing caller
	_, err := svc.Execute(ctx, &SearchRequest{
		Filters: types.SearchFilters{Occasion: "wedding", Season: "summer"},
	})
	if !apperr.IsCode(err, apperr.CodeAuthentication) {
		t.Fatalf("valid filters without caller: want authentication error, got %v", err)
	}
}

func TestListCacheKeyDistinguishesFilters(t *testing.T) {
	a := listCacheKey(repos.ProductFilter{Category: "top", Limit: 50})
	b := listCacheKey(repos.ProductFilter{Category: "bottom", Limit: 50})
	c := listCacheKey(repos.ProductFilter{Category: "top", Limit: 50})

	if a == b {
		t.Fatalf("different filters share a cache key: %q", a)
	}
	if a != c {
		t.Fatalf("equal filters produce different keys: %q vs %q", a, c)
	}
}
