package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/authz"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/types"
)

type UserProfileRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error)
	GetOwn(ctx context.Context, tx *gorm.DB) (*types.UserProfile, error)
	UpdateOwn(ctx context.Context, tx *gorm.DB, updates map[string]interface{}) (*types.UserProfile, error)
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

// Upsert creates the caller's profile at first sign-in, keyed by user id.
// Re-running it for an existing profile is a no-op that returns the row.
func (r *userProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeCreate(caller, profile.UserID); err != nil {
		return nil, err
	}

	var existing types.UserProfile
	findErr := transaction.WithContext(ctx).
		Where("user_id = ?", profile.UserID).
		First(&existing).Error
	if findErr == nil {
		return &existing, nil
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return nil, findErr
	}

	if err := transaction.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *userProfileRepo) GetOwn(ctx context.Context, tx *gorm.DB) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}

	var profile types.UserProfile
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", caller).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("profile not found")
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateOwn applies updates to the caller's own profile. The owner id and the
// store-managed timestamps are never client-writable.
func (r *userProfileRepo) UpdateOwn(ctx context.Context, tx *gorm.DB, updates map[string]interface{}) (*types.UserProfile, error) {
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
		Model(&types.UserProfile{}).
		Where("user_id = ?", caller).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("profile not found")
	}
	return r.GetOwn(ctx, transaction)
}

// stripStoreManaged removes fields callers are never allowed to set directly.
func stripStoreManaged(updates map[string]interface{}) {
	delete(updates, "id")
	delete(updates, "user_id")
	delete(updates, "created_at")
	delete(updates, "updated_at")
}
