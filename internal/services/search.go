package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/taxonomy"
	"github.com/shadeapp/shade-backend/internal/types"
)

type SearchRequest struct {
	Query   string              `json:"query"`
	Filters types.SearchFilters `json:"filters"`
}

// SearchResult is the fan-out response: the caller's matching saved outfits
// plus catalog products, together with the logged search record.
type SearchResult struct {
	Search   *types.OutfitSearch      `json:"search"`
	Outfits  []*types.SavedOutfit     `json:"outfits"`
	Products []*types.ExternalProduct `json:"products"`
}

// SearchRecordInput appends a fully-formed search record. Interaction ids are
// supplied here because search rows are immutable once written.
type SearchRecordInput struct {
	Query            string              `json:"query"`
	Filters          types.SearchFilters `json:"filters"`
	ResultOutfitIDs  []uuid.UUID         `json:"result_outfit_ids"`
	ResultProductIDs []uuid.UUID         `json:"result_product_ids"`
	ClickedItemIDs   []uuid.UUID         `json:"clicked_item_ids"`
	SavedItemIDs     []uuid.UUID         `json:"saved_item_ids"`
}

// SearchRecordDetail resolves a stored record's result ids into rows. Ids
// whose rows have since been deleted are silently dropped.
type SearchRecordDetail struct {
	Search   *types.OutfitSearch      `json:"search"`
	Outfits  []*types.SavedOutfit     `json:"outfits"`
	Products []*types.ExternalProduct `json:"products"`
}

type SearchService interface {
	Execute(ctx context.Context, req *SearchRequest) (*SearchResult, error)
	Record(ctx context.Context, input *SearchRecordInput) (*types.OutfitSearch, error)
	GetSearch(ctx context.Context, id uuid.UUID) (*SearchRecordDetail, error)
	ListSearches(ctx context.Context, limit int) ([]*types.OutfitSearch, error)
}

type searchService struct {
	db          *gorm.DB
	log         *logger.Logger
	searchRepo  repos.OutfitSearchRepo
	outfitRepo  repos.SavedOutfitRepo
	productRepo repos.ExternalProductRepo
}

func NewSearchService(db *gorm.DB, log *logger.Logger, searchRepo repos.OutfitSearchRepo, outfitRepo repos.SavedOutfitRepo, productRepo repos.ExternalProductRepo) SearchService {
	return &searchService{
		db:          db,
		log:         log.With("service", "SearchService"),
		searchRepo:  searchRepo,
		outfitRepo:  outfitRepo,
		productRepo: productRepo,
	}
}

// Execute fans out over the caller's saved outfits and the shared catalog,
// then appends the query and its result ids to the search log.
func (ss *searchService) Execute(ctx context.Context, req *SearchRequest) (*SearchResult, error) {
	if req == nil {
		return nil, apperr.Validation("search body is required")
	}
	if strings.TrimSpace(req.Query) == "" && filtersEmpty(req.Filters) {
		return nil, apperr.Validation("a query or at least one filter is required")
	}
	if req.Filters.Category != "" && !taxonomy.IsValidCategory(req.Filters.Category, "") {
		return nil, apperr.Validation("unknown category %q", req.Filters.Category)
	}
	if req.Filters.Occasion != "" && !tagInCategory("occasion", req.Filters.Occasion) {
		return nil, apperr.Validation("unknown occasion %q", req.Filters.Occasion)
	}
	if req.Filters.Season != "" && !tagInCategory("season", req.Filters.Season) {
		return nil, apperr.Validation("unknown season %q", req.Filters.Season)
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var (
		outfits  []*types.SavedOutfit
		products []*types.ExternalProduct
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		all, err := ss.outfitRepo.ListByOwner(gctx, nil, repos.SavedOutfitFilter{})
		if err != nil {
			return err
		}
		outfits = matchOutfits(all, req.Query)
		return nil
	})
	g.Go(func() error {
		found, err := ss.productRepo.List(gctx, nil, productFilterFrom(req.Filters))
		if err != nil {
			return err
		}
		products = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outfitIDs := make([]uuid.UUID, 0, len(outfits))
	for _, o := range outfits {
		outfitIDs = append(outfitIDs, o.ID)
	}
	productIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	record := &types.OutfitSearch{
		UserID:           caller,
		Query:            req.Query,
		Filters:          datatypes.NewJSONType(req.Filters),
		ResultOutfitIDs:  datatypes.NewJSONSlice(outfitIDs),
		ResultProductIDs: datatypes.NewJSONSlice(productIDs),
		ClickedItemIDs:   datatypes.NewJSONSlice([]uuid.UUID{}),
		SavedItemIDs:     datatypes.NewJSONSlice([]uuid.UUID{}),
	}
	saved, err := ss.searchRepo.Create(ctx, nil, record)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Search: saved, Outfits: outfits, Products: products}, nil
}

func (ss *searchService) Record(ctx context.Context, input *SearchRecordInput) (*types.OutfitSearch, error) {
	if input == nil {
		return nil, apperr.Validation("search record body is required")
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	record := &types.OutfitSearch{
		UserID:           caller,
		Query:            input.Query,
		Filters:          datatypes.NewJSONType(input.Filters),
		ResultOutfitIDs:  datatypes.NewJSONSlice(input.ResultOutfitIDs),
		ResultProductIDs: datatypes.NewJSONSlice(input.ResultProductIDs),
		ClickedItemIDs:   datatypes.NewJSONSlice(input.ClickedItemIDs),
		SavedItemIDs:     datatypes.NewJSONSlice(input.SavedItemIDs),
	}
	return ss.searchRepo.Create(ctx, nil, record)
}

func (ss *searchService) GetSearch(ctx context.Context, id uuid.UUID) (*SearchRecordDetail, error) {
	record, err := ss.searchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	outfits, err := ss.outfitRepo.GetByIDs(ctx, nil, []uuid.UUID(record.ResultOutfitIDs))
	if err != nil {
		return nil, err
	}
	products, err := ss.productRepo.GetByIDs(ctx, nil, []uuid.UUID(record.ResultProductIDs))
	if err != nil {
		return nil, err
	}
	return &SearchRecordDetail{Search: record, Outfits: outfits, Products: products}, nil
}

func (ss *searchService) ListSearches(ctx context.Context, limit int) ([]*types.OutfitSearch, error) {
	return ss.searchRepo.ListByOwner(ctx, nil, limit)
}

func matchOutfits(outfits []*types.SavedOutfit, query string) []*types.SavedOutfit {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return outfits
	}
	matched := make([]*types.SavedOutfit, 0, len(outfits))
	for _, o := range outfits {
		if strings.Contains(strings.ToLower(o.Name), q) ||
			strings.Contains(strings.ToLower(o.AICommentary), q) {
			matched = append(matched, o)
		}
	}
	return matched
}

func tagInCategory(tagCategory, tag string) bool {
	for _, t := range taxonomy.TagsByCategory(tagCategory) {
		if t == tag {
			return true
		}
	}
	return false
}

func filtersEmpty(f types.SearchFilters) bool {
	return f.Category == "" && len(f.Tags) == 0 && f.Occasion == "" &&
		f.Season == "" && f.GenderStyle == "" && f.Retailer == "" &&
		f.MinPrice == nil && f.MaxPrice == nil
}

func productFilterFrom(f types.SearchFilters) repos.ProductFilter {
	tags := f.Tags
	if f.Occasion != "" {
		tags = append(tags, f.Occasion)
	}
	if f.Season != "" {
		tags = append(tags, f.Season)
	}
	return repos.ProductFilter{
		Category:    f.Category,
		Tags:        tags,
		Retailer:    f.Retailer,
		GenderStyle: f.GenderStyle,
		MinPrice:    f.MinPrice,
		MaxPrice:    f.MaxPrice,
		InStockOnly: true,
	}
}
