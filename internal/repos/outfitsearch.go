package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/authz"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/types"
)

// OutfitSearchRepo is append-only: search rows are immutable log records, so
// the interface deliberately exposes no update or delete.
type OutfitSearchRepo interface {
	Create(ctx context.Context, tx *gorm.DB, search *types.OutfitSearch) (*types.OutfitSearch, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.OutfitSearch, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, limit int) ([]*types.OutfitSearch, error)
}

type outfitSearchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutfitSearchRepo(db *gorm.DB, baseLog *logger.Logger) OutfitSearchRepo {
	return &outfitSearchRepo{db: db, log: baseLog.With("repo", "OutfitSearchRepo")}
}

func (r *outfitSearchRepo) Create(ctx context.Context, tx *gorm.DB, search *types.OutfitSearch) (*types.OutfitSearch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeCreate(caller, search.UserID); err != nil {
		return nil, err
	}

	var owners int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProfile{}).
		Where("user_id = ?", search.UserID).
		Count(&owners).Error; err != nil {
		return nil, err
	}
	if owners == 0 {
		return nil, apperr.Referential("owner profile does not exist")
	}

	if err := transaction.WithContext(ctx).Create(search).Error; err != nil {
		return nil, err
	}
	return search, nil
}

func (r *outfitSearchRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.OutfitSearch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var search types.OutfitSearch
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&search).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("search not found")
		}
		return nil, err
	}
	if err := authz.Authorize(caller, authz.OpRead, search.UserID); err != nil {
		return nil, err
	}
	return &search, nil
}

func (r *outfitSearchRepo) ListByOwner(ctx context.Context, tx *gorm.DB, limit int) ([]*types.OutfitSearch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var searches []*types.OutfitSearch
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", caller).
		Order("created_at DESC").
		Limit(limit).
		Find(&searches).Error; err != nil {
		return nil, err
	}
	return searches, nil
}
