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

// UserRecommendationRepo exposes create/read/update only. There is no delete:
// recommendations are a permanent record of what was suggested and how the
// user responded.
type UserRecommendationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *types.UserRecommendation) (*types.UserRecommendation, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UserRecommendation, error)
	GetByDate(ctx context.Context, tx *gorm.DB, date time.Time) (*types.UserRecommendation, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserRecommendation, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (*types.UserRecommendation, error)
}

type userRecommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) UserRecommendationRepo {
	return &userRecommendationRepo{db: db, log: baseLog.With("repo", "UserRecommendationRepo")}
}

func (r *userRecommendationRepo) Create(ctx context.Context, tx *gorm.DB, rec *types.UserRecommendation) (*types.UserRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeCreate(caller, rec.UserID); err != nil {
		return nil, err
	}
	if rec.RecommendationDate.IsZero() {
		return nil, apperr.Validation("recommendation date is required")
	}

	var owners int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProfile{}).
		Where("user_id = ?", rec.UserID).
		Count(&owners).Error; err != nil {
		return nil, err
	}
	if owners == 0 {
		return nil, apperr.Referential("owner profile does not exist")
	}

	// one recommendation per user per date; the unique index backstops this
	day := rec.RecommendationDate.Format("2006-01-02")
	var existing int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserRecommendation{}).
		Where("user_id = ? AND recommendation_date = ?", rec.UserID, day).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperr.Validation("a recommendation already exists for %s", day)
	}

	if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *userRecommendationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UserRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var rec types.UserRecommendation
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recommendation not found")
		}
		return nil, err
	}
	if err := authz.Authorize(caller, authz.OpRead, rec.UserID); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *userRecommendationRepo) GetByDate(ctx context.Context, tx *gorm.DB, date time.Time) (*types.UserRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	day := date.Format("2006-01-02")
	var rec types.UserRecommendation
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND recommendation_date = ?", caller, day).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no recommendation for %s", day)
		}
		return nil, err
	}
	return &rec, nil
}

func (r *userRecommendationRepo) ListByOwner(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 30
	}

	var recs []*types.UserRecommendation
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", caller).
		Order("recommendation_date DESC").
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *userRecommendationRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (*types.UserRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	stripStoreManaged(updates)
	delete(updates, "recommendation_date")
	if len(updates) == 0 {
		return nil, apperr.Validation("no valid fields to update")
	}
	updates["updated_at"] = time.Now().UTC()

	res := transaction.WithContext(ctx).
		Model(&types.UserRecommendation{}).
		Where("id = ? AND user_id = ?", id, caller).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var rec types.UserRecommendation
		if err := transaction.WithContext(ctx).
			Select("id", "user_id").
			Where("id = ?", id).
			First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("recommendation not found")
			}
			return nil, err
		}
		if err := authz.Authorize(caller, authz.OpUpdate, rec.UserID); err != nil {
			return nil, err
		}
		return nil, apperr.NotFound("recommendation not found")
	}
	return r.GetByID(ctx, transaction, id)
}
