package repos

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/types"
)

type ProductFilter struct {
	Category    string
	Tags        []string
	Retailer    string
	GenderStyle string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
	Limit       int
	Offset      int
}

// ExternalProductRepo manages the catalog entity. Reads carry no ownership
// predicate and work for unauthenticated callers; writes exist only on the
// ingestion path and are not reachable from caller-facing routes.
type ExternalProductRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ExternalProduct, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ExternalProduct, error)
	List(ctx context.Context, tx *gorm.DB, filter ProductFilter) ([]*types.ExternalProduct, error)
	NearestByEmbedding(ctx context.Context, tx *gorm.DB, embedding []float32, limit int) ([]*types.ExternalProduct, error)
	IngestUpsert(ctx context.Context, tx *gorm.DB, products []*types.ExternalProduct) ([]*types.ExternalProduct, error)
}

type externalProductRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExternalProductRepo(db *gorm.DB, baseLog *logger.Logger) ExternalProductRepo {
	return &externalProductRepo{db: db, log: baseLog.With("repo", "ExternalProductRepo")}
}

func (r *externalProductRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ExternalProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var product types.ExternalProduct
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	return &product, nil
}

func (r *externalProductRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ExternalProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var products []*types.ExternalProduct
	if len(ids) == 0 {
		return products, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *externalProductRepo) List(ctx context.Context, tx *gorm.DB, filter ProductFilter) ([]*types.ExternalProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Model(&types.ExternalProduct{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Retailer != "" {
		q = q.Where("retailer = ?", filter.Retailer)
	}
	if filter.GenderStyle != "" && filter.GenderStyle != "all" {
		q = q.Where("gender_style IN ?", []string{filter.GenderStyle, "unisex", "all"})
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStockOnly {
		q = q.Where("in_stock = ?", true)
	}
	if len(filter.Tags) > 0 {
		// Any-of membership over the jsonb tag set, served by the GIN index.
		tagQ := transaction.Session(&gorm.Session{NewDB: true})
		for i, tag := range filter.Tags {
			member, err := json.Marshal([]string{tag})
			if err != nil {
				return nil, err
			}
			if i == 0 {
				tagQ = tagQ.Where("tags @> ?", string(member))
			} else {
				tagQ = tagQ.Or("tags @> ?", string(member))
			}
		}
		q = q.Where(tagQ)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var products []*types.ExternalProduct
	if err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *externalProductRepo) NearestByEmbedding(ctx context.Context, tx *gorm.DB, embedding []float32, limit int) ([]*types.ExternalProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(embedding) != types.EmbeddingDim {
		return nil, apperr.Validation("embedding must have %d dimensions, got %d", types.EmbeddingDim, len(embedding))
	}
	if limit <= 0 {
		limit = 10
	}

	var products []*types.ExternalProduct
	if err := transaction.WithContext(ctx).
		Where("embedding IS NOT NULL").
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding <=> ?",
			Vars: []interface{}{pgvector.NewVector(embedding)},
		}}).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// IngestUpsert inserts or refreshes catalog rows keyed by retailer + product
// URL. Privileged path: never exposed through caller-facing handlers.
func (r *externalProductRepo) IngestUpsert(ctx context.Context, tx *gorm.DB, products []*types.ExternalProduct) ([]*types.ExternalProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(products) == 0 {
		return []*types.ExternalProduct{}, nil
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "retailer"}, {Name: "url_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "category", "subcategory", "tags",
				"colors", "materials", "seasons", "occasions", "sizes",
				"gender_style", "price", "currency", "original_price",
				"in_stock", "last_checked_at", "embedding", "updated_at",
			}),
		}).
		Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
