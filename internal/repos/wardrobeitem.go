package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/authz"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/types"
)

type WardrobeItemFilter struct {
	Category     string
	FavoriteOnly bool
}

type WardrobeItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, item *types.WardrobeItem) (*types.WardrobeItem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WardrobeItem, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, filter WardrobeItemFilter) ([]*types.WardrobeItem, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (*types.WardrobeItem, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	LogWear(ctx context.Context, tx *gorm.DB, id uuid.UUID, wornAt time.Time) (*types.WardrobeItem, error)
	NearestByEmbedding(ctx context.Context, tx *gorm.DB, embedding []float32, limit int) ([]*types.WardrobeItem, error)
}

type wardrobeItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWardrobeItemRepo(db *gorm.DB, baseLog *logger.Logger) WardrobeItemRepo {
	return &wardrobeItemRepo{db: db, log: baseLog.With("repo", "WardrobeItemRepo")}
}

func (r *wardrobeItemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.WardrobeItem) (*types.WardrobeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeCreate(caller, item.UserID); err != nil {
		return nil, err
	}

	var owners int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProfile{}).
		Where("user_id = ?", item.UserID).
		Count(&owners).Error; err != nil {
		return nil, err
	}
	if owners == 0 {
		return nil, apperr.Referential("owner profile does not exist")
	}

	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *wardrobeItemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WardrobeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var item types.WardrobeItem
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("wardrobe item not found")
		}
		return nil, err
	}
	if err := authz.Authorize(caller, authz.OpRead, item.UserID); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *wardrobeItemRepo) ListByOwner(ctx context.Context, tx *gorm.DB, filter WardrobeItemFilter) ([]*types.WardrobeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	q := transaction.WithContext(ctx).Where("user_id = ?", caller)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.FavoriteOnly {
		q = q.Where("is_favorite = ?", true)
	}

	var items []*types.WardrobeItem
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *wardrobeItemRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (*types.WardrobeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	stripStoreManaged(updates)
	if len(updates) == 0 {
		return nil, apperr.Validation("no valid fields to update")
	}
	updates["updated_at"] = time.Now().UTC()

	res := transaction.WithContext(ctx).
		Model(&types.WardrobeItem{}).
		Where("id = ? AND user_id = ?", id, caller).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, r.probeOwnership(ctx, transaction, caller, id, authz.OpUpdate)
	}
	return r.GetByID(ctx, transaction, id)
}

func (r *wardrobeItemRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return err
	}

	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, caller).
		Delete(&types.WardrobeItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.probeOwnership(ctx, transaction, caller, id, authz.OpDelete)
	}
	return nil
}

// LogWear bumps the wear counter and sets the last-worn date in a single
// statement so concurrent wears never lose an increment.
func (r *wardrobeItemRepo) LogWear(ctx context.Context, tx *gorm.DB, id uuid.UUID, wornAt time.Time) (*types.WardrobeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	res := transaction.WithContext(ctx).
		Model(&types.WardrobeItem{}).
		Where("id = ? AND user_id = ?", id, caller).
		Updates(map[string]interface{}{
			"wear_count":   gorm.Expr("wear_count + 1"),
			"last_worn_at": wornAt,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, r.probeOwnership(ctx, transaction, caller, id, authz.OpUpdate)
	}
	return r.GetByID(ctx, transaction, id)
}

// NearestByEmbedding ranks the caller's items by cosine distance to the given
// vector. Items without an embedding are excluded, not treated as zero.
func (r *wardrobeItemRepo) NearestByEmbedding(ctx context.Context, tx *gorm.DB, embedding []float32, limit int) ([]*types.WardrobeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if len(embedding) != types.EmbeddingDim {
		return nil, apperr.Validation("embedding must have %d dimensions, got %d", types.EmbeddingDim, len(embedding))
	}
	if limit <= 0 {
		limit = 10
	}

	var items []*types.WardrobeItem
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND embedding IS NOT NULL", caller).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding <=> ?",
			Vars: []interface{}{pgvector.NewVector(embedding)},
		}}).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// probeOwnership distinguishes a forbidden row from a missing one after a
// zero-row write. Always returns a non-nil error.
func (r *wardrobeItemRepo) probeOwnership(ctx context.Context, tx *gorm.DB, caller uuid.UUID, id uuid.UUID, op authz.Operation) error {
	var item types.WardrobeItem
	if err := tx.WithContext(ctx).
		Select("id", "user_id").
		Where("id = ?", id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("wardrobe item not found")
		}
		return err
	}
	if err := authz.Authorize(caller, op, item.UserID); err != nil {
		return err
	}
	return apperr.NotFound("wardrobe item not found")
}
