package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/types"
)

type RecommendationInput struct {
	OutfitID           uuid.UUID             `json:"outfit_id"`
	RecommendationDate time.Time             `json:"recommendation_date"`
	Weather            types.WeatherSnapshot `json:"weather"`
	Occasion           string                `json:"occasion"`
}

// RecommendationFeedback records the user's verdict. A rejection reason only
// makes sense alongside accepted=false.
type RecommendationFeedback struct {
	Accepted        *bool  `json:"accepted"`
	RejectionReason string `json:"rejection_reason"`
}

type RecommendationService interface {
	CreateDaily(ctx context.Context, input *RecommendationInput) (*types.UserRecommendation, error)
	GetRecommendation(ctx context.Context, id uuid.UUID) (*types.UserRecommendation, error)
	GetByDate(ctx context.Context, date time.Time) (*types.UserRecommendation, error)
	GetToday(ctx context.Context) (*types.UserRecommendation, error)
	ListRecommendations(ctx context.Context, limit int) ([]*types.UserRecommendation, error)
	SubmitFeedback(ctx context.Context, id uuid.UUID, feedback *RecommendationFeedback) (*types.UserRecommendation, error)
}

type recommendationService struct {
	db         *gorm.DB
	log        *logger.Logger
	recRepo    repos.UserRecommendationRepo
	outfitRepo repos.SavedOutfitRepo
}

func NewRecommendationService(db *gorm.DB, log *logger.Logger, recRepo repos.UserRecommendationRepo, outfitRepo repos.SavedOutfitRepo) RecommendationService {
	return &recommendationService{
		db:         db,
		log:        log.With("service", "RecommendationService"),
		recRepo:    recRepo,
		outfitRepo: outfitRepo,
	}
}

// CreateDaily writes the caller's recommendation for a date. Unlike the loose
// item-id lists on outfits, the outfit reference here must resolve to a live
// outfit the caller owns.
func (rs *recommendationService) CreateDaily(ctx context.Context, input *RecommendationInput) (*types.UserRecommendation, error) {
	if input == nil {
		return nil, apperr.Validation("recommendation body is required")
	}
	if input.OutfitID == uuid.Nil {
		return nil, apperr.Validation("outfit_id is required")
	}
	if input.RecommendationDate.IsZero() {
		return nil, apperr.Validation("recommendation_date is required")
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := rs.outfitRepo.GetByID(ctx, nil, input.OutfitID); err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) || apperr.IsCode(err, apperr.CodeAuthorization) {
			return nil, apperr.Referential("outfit %s does not exist", input.OutfitID)
		}
		return nil, err
	}

	rec := &types.UserRecommendation{
		UserID:             caller,
		OutfitID:           input.OutfitID,
		RecommendationDate: input.RecommendationDate,
		Weather:            datatypes.NewJSONType(input.Weather),
		Occasion:           input.Occasion,
	}
	return rs.recRepo.Create(ctx, nil, rec)
}

func (rs *recommendationService) GetRecommendation(ctx context.Context, id uuid.UUID) (*types.UserRecommendation, error) {
	return rs.recRepo.GetByID(ctx, nil, id)
}

func (rs *recommendationService) GetByDate(ctx context.Context, date time.Time) (*types.UserRecommendation, error) {
	return rs.recRepo.GetByDate(ctx, nil, date)
}

func (rs *recommendationService) GetToday(ctx context.Context) (*types.UserRecommendation, error) {
	return rs.recRepo.GetByDate(ctx, nil, time.Now().UTC())
}

func (rs *recommendationService) ListRecommendations(ctx context.Context, limit int) ([]*types.UserRecommendation, error) {
	return rs.recRepo.ListByOwner(ctx, nil, limit)
}

func (rs *recommendationService) SubmitFeedback(ctx context.Context, id uuid.UUID, feedback *RecommendationFeedback) (*types.UserRecommendation, error) {
	if feedback == nil || feedback.Accepted == nil {
		return nil, apperr.Validation("accepted is required")
	}
	if *feedback.Accepted && feedback.RejectionReason != "" {
		return nil, apperr.Validation("rejection_reason only applies to rejected recommendations")
	}
	updates := map[string]interface{}{
		"accepted":         *feedback.Accepted,
		"rejection_reason": feedback.RejectionReason,
	}
	return rs.recRepo.Update(ctx, nil, id, updates)
}
