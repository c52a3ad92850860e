package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/authz"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/types"
)

type SavedOutfitFilter struct {
	FavoriteOnly bool
	WornOnly     bool
}

type SavedOutfitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, outfit *types.SavedOutfit) (*types.SavedOutfit, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SavedOutfit, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SavedOutfit, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, filter SavedOutfitFilter) ([]*types.SavedOutfit, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (*types.SavedOutfit, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type savedOutfitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedOutfitRepo(db *gorm.DB, baseLog *logger.Logger) SavedOutfitRepo {
	return &savedOutfitRepo{db: db, log: baseLog.With("repo", "SavedOutfitRepo")}
}

// Create stores the outfit. The item-id list is deliberately not validated
// against the wardrobe: duplicates and references to deleted items are kept
// as a historical record.
func (r *savedOutfitRepo) Create(ctx context.Context, tx *gorm.DB, outfit *types.SavedOutfit) (*types.SavedOutfit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeCreate(caller, outfit.UserID); err != nil {
		return nil, err
	}

	var owners int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProfile{}).
		Where("user_id = ?", outfit.UserID).
		Count(&owners).Error; err != nil {
		return nil, err
	}
	if owners == 0 {
		return nil, apperr.Referential("owner profile does not exist")
	}

	if err := transaction.WithContext(ctx).Create(outfit).Error; err != nil {
		return nil, err
	}
	return outfit, nil
}

func (r *savedOutfitRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SavedOutfit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var outfit types.SavedOutfit
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&outfit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("outfit not found")
		}
		return nil, err
	}
	if err := authz.Authorize(caller, authz.OpRead, outfit.UserID); err != nil {
		return nil, err
	}
	return &outfit, nil
}

// GetByIDs returns the caller's outfits among ids; rows owned by other users
// are excluded, not errored.
func (r *savedOutfitRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SavedOutfit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var outfits []*types.SavedOutfit
	if len(ids) == 0 {
		return outfits, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, caller).
		Find(&outfits).Error; err != nil {
		return nil, err
	}
	return outfits, nil
}

func (r *savedOutfitRepo) ListByOwner(ctx context.Context, tx *gorm.DB, filter SavedOutfitFilter) ([]*types.SavedOutfit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	q := transaction.WithContext(ctx).Where("user_id = ?", caller)
	if filter.FavoriteOnly {
		q = q.Where("is_favorite = ?", true)
	}
	if filter.WornOnly {
		q = q.Where("worn_at IS NOT NULL")
	}

	var outfits []*types.SavedOutfit
	if err := q.Order("created_at DESC").Find(&outfits).Error; err != nil {
		return nil, err
	}
	return outfits, nil
}

func (r *savedOutfitRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (*types.SavedOutfit, error) {
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
		Model(&types.SavedOutfit{}).
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

func (r *savedOutfitRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
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
		Delete(&types.SavedOutfit{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.probeOwnership(ctx, transaction, caller, id, authz.OpDelete)
	}
	return nil
}

func (r *savedOutfitRepo) probeOwnership(ctx context.Context, tx *gorm.DB, caller uuid.UUID, id uuid.UUID, op authz.Operation) error {
	var outfit types.SavedOutfit
	if err := tx.WithContext(ctx).
		Select("id", "user_id").
		Where("id = ?", id).
		First(&outfit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("outfit not found")
		}
		return err
	}
	if err := authz.Authorize(caller, op, outfit.UserID); err != nil {
		return err
	}
	return apperr.NotFound("outfit not found")
}
