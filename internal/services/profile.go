package services

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/authz"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/taxonomy"
	"github.com/shadeapp/shade-backend/internal/types"
)

// ProfileUpdate carries the client-writable profile fields. Nil pointers are
// left untouched; everything else maps onto the allowed-field list.
type ProfileUpdate struct {
	DisplayName         *string               `json:"display_name,omitempty"`
	AvatarURL           *string               `json:"avatar_url,omitempty"`
	BodyType            *string               `json:"body_type,omitempty"`
	HeightCm            *int                  `json:"height_cm,omitempty"`
	WeightKg            *int                  `json:"weight_kg,omitempty"`
	GenderStyle         *string               `json:"gender_style,omitempty"`
	Notes               *[]string             `json:"notes,omitempty"`
	TypicalSchedule     *types.WeeklySchedule `json:"typical_schedule,omitempty"`
	DefaultOccasions    *[]string             `json:"default_occasions,omitempty"`
	WorksFromHome       *bool                 `json:"works_from_home,omitempty"`
	HasDressCode        *bool                 `json:"has_dress_code,omitempty"`
	DressCodeNotes      *string               `json:"dress_code_notes,omitempty"`
	SassLevel           *int                  `json:"sass_level,omitempty"`
	Location            *string               `json:"location,omitempty"`
	BodyReferencePhotos *[]string             `json:"body_reference_photos,omitempty"`
}

type OnboardingStatus struct {
	Completed bool `json:"completed"`
	Steps     struct {
		DisplayName bool `json:"display_name"`
		BodyPhotos  bool `json:"body_photos"`
		Preferences bool `json:"preferences"`
	} `json:"steps"`
}

type ProfileService interface {
	GetMe(ctx context.Context) (*types.UserProfile, error)
	UpdateMe(ctx context.Context, update *ProfileUpdate) (*types.UserProfile, error)
	GetOnboardingStatus(ctx context.Context) (*OnboardingStatus, error)
	DeleteAccount(ctx context.Context) error
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.UserProfileRepo
	userRepo    repos.UserRepo
	tokenRepo   repos.UserTokenRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, profileRepo repos.UserProfileRepo, userRepo repos.UserRepo, tokenRepo repos.UserTokenRepo) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
	}
}

func (ps *profileService) GetMe(ctx context.Context) (*types.UserProfile, error) {
	return ps.profileRepo.GetOwn(ctx, nil)
}

func (ps *profileService) UpdateMe(ctx context.Context, update *ProfileUpdate) (*types.UserProfile, error) {
	if update == nil {
		return nil, apperr.Validation("no fields to update")
	}
	updates := map[string]interface{}{}
	if update.DisplayName != nil {
		updates["display_name"] = *update.DisplayName
	}
	if update.AvatarURL != nil {
		updates["avatar_url"] = *update.AvatarURL
	}
	if update.BodyType != nil {
		updates["body_type"] = *update.BodyType
	}
	if update.HeightCm != nil {
		if *update.HeightCm <= 0 || *update.HeightCm > 300 {
			return nil, apperr.Validation("height_cm must be between 1 and 300")
		}
		updates["height_cm"] = *update.HeightCm
	}
	if update.WeightKg != nil {
		if *update.WeightKg <= 0 || *update.WeightKg > 500 {
			return nil, apperr.Validation("weight_kg must be between 1 and 500")
		}
		updates["weight_kg"] = *update.WeightKg
	}
	if update.GenderStyle != nil {
		if *update.GenderStyle != "" && !taxonomy.IsValidGenderStyle(*update.GenderStyle) {
			return nil, apperr.Validation("unknown gender style %q", *update.GenderStyle)
		}
		updates["gender_style"] = *update.GenderStyle
	}
	if update.Notes != nil {
		updates["notes"] = datatypes.NewJSONSlice(*update.Notes)
	}
	if update.TypicalSchedule != nil {
		updates["typical_schedule"] = datatypes.NewJSONType(*update.TypicalSchedule)
	}
	if update.DefaultOccasions != nil {
		updates["default_occasions"] = datatypes.NewJSONSlice(*update.DefaultOccasions)
	}
	if update.WorksFromHome != nil {
		updates["works_from_home"] = *update.WorksFromHome
	}
	if update.HasDressCode != nil {
		updates["has_dress_code"] = *update.HasDressCode
	}
	if update.DressCodeNotes != nil {
		updates["dress_code_notes"] = *update.DressCodeNotes
	}
	if update.SassLevel != nil {
		if *update.SassLevel < 1 || *update.SassLevel > 5 {
			return nil, apperr.Validation("sass_level must be between 1 and 5")
		}
		updates["sass_level"] = *update.SassLevel
	}
	if update.Location != nil {
		updates["location"] = *update.Location
	}
	if update.BodyReferencePhotos != nil {
		updates["body_reference_photos"] = datatypes.NewJSONSlice(*update.BodyReferencePhotos)
	}
	if len(updates) == 0 {
		return nil, apperr.Validation("no fields to update")
	}
	return ps.profileRepo.UpdateOwn(ctx, nil, updates)
}

func (ps *profileService) GetOnboardingStatus(ctx context.Context) (*OnboardingStatus, error) {
	status := &OnboardingStatus{}
	profile, err := ps.profileRepo.GetOwn(ctx, nil)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return status, nil
		}
		return nil, err
	}
	status.Steps.DisplayName = profile.DisplayName != ""
	status.Steps.BodyPhotos = len(profile.BodyReferencePhotos) > 0
	status.Steps.Preferences = profile.GenderStyle != "" || profile.Location != ""
	status.Completed = status.Steps.DisplayName
	return status, nil
}

// DeleteAccount removes the identity and every owned row in one transaction.
// The same cascade exists as ON DELETE CASCADE in the postgres DDL; doing it
// explicitly keeps the behavior engine-independent.
func (ps *profileService) DeleteAccount(ctx context.Context) error {
	caller, err := authz.CallerFrom(ctx)
	if err != nil {
		return err
	}
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&types.UserRecommendation{},
			&types.OutfitSearch{},
			&types.SavedOutfit{},
			&types.WardrobeItem{},
			&types.UserProfile{},
		}
		for _, model := range owned {
			if err := tx.Where("user_id = ?", caller).Delete(model).Error; err != nil {
				return fmt.Errorf("cascade delete: %w", err)
			}
		}
		if err := ps.tokenRepo.DeleteByUserID(ctx, tx, caller); err != nil {
			return fmt.Errorf("delete tokens: %w", err)
		}
		if err := ps.userRepo.DeleteByID(ctx, tx, caller); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
