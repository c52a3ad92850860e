package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/clients/redis"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/taxonomy"
	"github.com/shadeapp/shade-backend/internal/types"
)

// ProductIngestInput is one catalog row from a retailer feed.
type ProductIngestInput struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Subcategory   string     `json:"subcategory"`
	Tags          []string   `json:"tags"`
	Colors        []string   `json:"colors"`
	Materials     []string   `json:"materials"`
	Seasons       []string   `json:"seasons"`
	Occasions     []string   `json:"occasions"`
	Sizes         []string   `json:"sizes"`
	GenderStyle   string     `json:"gender_style"`
	Price         float64    `json:"price"`
	Currency      string     `json:"currency"`
	OriginalPrice *float64   `json:"original_price"`
	ProductURL    string     `json:"product_url"`
	Retailer      string     `json:"retailer"`
	InStock       *bool      `json:"in_stock"`
	LastCheckedAt *time.Time `json:"last_checked_at"`
	Embedding     []float32  `json:"embedding"`
}

type ProductService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*types.ExternalProduct, error)
	ListProducts(ctx context.Context, filter repos.ProductFilter) ([]*types.ExternalProduct, error)
	SimilarToProduct(ctx context.Context, id uuid.UUID, limit int) ([]*types.ExternalProduct, error)
	IngestProducts(ctx context.Context, inputs []*ProductIngestInput) (int, error)
}

type productService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ExternalProductRepo
	cache       redis.CatalogCache
}

// NewProductService wires the catalog. The cache may be nil, in which case
// every list goes to postgres.
func NewProductService(db *gorm.DB, log *logger.Logger, productRepo repos.ExternalProductRepo, cache redis.CatalogCache) ProductService {
	return &productService{
		db:          db,
		log:         log.With("service", "ProductService"),
		productRepo: productRepo,
		cache:       cache,
	}
}

func (ps *productService) GetProduct(ctx context.Context, id uuid.UUID) (*types.ExternalProduct, error) {
	return ps.productRepo.GetByID(ctx, nil, id)
}

func (ps *productService) ListProducts(ctx context.Context, filter repos.ProductFilter) ([]*types.ExternalProduct, error) {
	if filter.Category != "" && !taxonomy.IsValidCategory(filter.Category, "") {
		return nil, apperr.Validation("unknown category %q", filter.Category)
	}
	if filter.GenderStyle != "" && !taxonomy.IsValidGenderStyle(filter.GenderStyle) {
		return nil, apperr.Validation("unknown gender style %q", filter.GenderStyle)
	}
	// catalog filter tags come from the controlled vocabulary; item tags stay
	// free-form
	if len(filter.Tags) > 0 && !taxonomy.ValidTags(filter.Tags) {
		return nil, apperr.Validation("unknown tag in filter")
	}

	key := listCacheKey(filter)
	if ps.cache != nil {
		if cached, ok := ps.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}
	products, err := ps.productRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	if ps.cache != nil {
		ps.cache.Set(ctx, key, products)
	}
	return products, nil
}

func (ps *productService) SimilarToProduct(ctx context.Context, id uuid.UUID, limit int) ([]*types.ExternalProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	anchor, err := ps.productRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if anchor.Embedding == nil {
		return nil, apperr.Validation("product has no embedding yet")
	}

	neighbors, err := ps.productRepo.NearestByEmbedding(ctx, nil, anchor.Embedding.Slice(), limit+1)
	if err != nil {
		return nil, err
	}
	results := make([]*types.ExternalProduct, 0, limit)
	for _, n := range neighbors {
		if n.ID == anchor.ID {
			continue
		}
		results = append(results, n)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// IngestProducts validates and upserts a retailer feed batch. Rows are keyed
// by retailer + product URL, so re-ingesting the same feed refreshes rather
// than duplicates.
func (ps *productService) IngestProducts(ctx context.Context, inputs []*ProductIngestInput) (int, error) {
	if len(inputs) == 0 {
		return 0, apperr.Validation("no products to ingest")
	}

	products := make([]*types.ExternalProduct, 0, len(inputs))
	for i, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			return 0, apperr.Validation("product %d: name is required", i)
		}
		if strings.TrimSpace(in.ProductURL) == "" {
			return 0, apperr.Validation("product %d: product_url is required", i)
		}
		if strings.TrimSpace(in.Retailer) == "" {
			return 0, apperr.Validation("product %d: retailer is required", i)
		}
		if err := validateCategory(in.Category, in.Subcategory); err != nil {
			return 0, apperr.Validation("product %d: %v", i, err)
		}
		if in.GenderStyle != "" && !taxonomy.IsValidGenderStyle(in.GenderStyle) {
			return 0, apperr.Validation("product %d: unknown gender style %q", i, in.GenderStyle)
		}
		if in.Embedding != nil && len(in.Embedding) != types.EmbeddingDim {
			return 0, apperr.Validation("product %d: embedding must have %d dimensions", i, types.EmbeddingDim)
		}

		currency := in.Currency
		if currency == "" {
			currency = "USD"
		}
		inStock := true
		if in.InStock != nil {
			inStock = *in.InStock
		}
		product := &types.ExternalProduct{
			Name:          strings.TrimSpace(in.Name),
			Description:   in.Description,
			Category:      in.Category,
			Subcategory:   in.Subcategory,
			Tags:          datatypes.NewJSONSlice(in.Tags),
			Colors:        datatypes.NewJSONSlice(in.Colors),
			Materials:     datatypes.NewJSONSlice(in.Materials),
			Seasons:       datatypes.NewJSONSlice(in.Seasons),
			Occasions:     datatypes.NewJSONSlice(in.Occasions),
			Sizes:         datatypes.NewJSONSlice(in.Sizes),
			GenderStyle:   in.GenderStyle,
			Price:         in.Price,
			Currency:      currency,
			OriginalPrice: in.OriginalPrice,
			ProductURL:    in.ProductURL,
			Retailer:      in.Retailer,
			InStock:       inStock,
			LastCheckedAt: in.LastCheckedAt,
		}
		if in.Embedding != nil {
			product.Embedding = pgvectorValue(in.Embedding)
		}
		products = append(products, product)
	}

	upserted, err := ps.productRepo.IngestUpsert(ctx, nil, products)
	if err != nil {
		return 0, err
	}
	ps.log.Info("ingested catalog products", "count", len(upserted))
	return len(upserted), nil
}

func listCacheKey(filter repos.ProductFilter) string {
	minPrice, maxPrice := "", ""
	if filter.MinPrice != nil {
		minPrice = fmt.Sprintf("%.2f", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		maxPrice = fmt.Sprintf("%.2f", *filter.MaxPrice)
	}
	return fmt.Sprintf("list:%s:%s:%s:%s:%s:%s:%t:%d:%d",
		filter.Category, strings.Join(filter.Tags, ","), filter.Retailer,
		filter.GenderStyle, minPrice, maxPrice, filter.InStockOnly,
		filter.Limit, filter.Offset)
}
