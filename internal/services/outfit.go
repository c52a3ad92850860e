package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shadeapp/shade-backend/internal/apperr"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/types"
)

const defaultOutfitName = "Untitled outfit"

type SavedOutfitInput struct {
	Name         string      `json:"name"`
	ItemIDs      []uuid.UUID `json:"item_ids"`
	PhotoURL     string      `json:"photo_url"`
	WornAt       *time.Time  `json:"worn_at"`
	IsFavorite   bool        `json:"is_favorite"`
	AICommentary string      `json:"ai_commentary"`
}

type SavedOutfitUpdate struct {
	Name         *string      `json:"name,omitempty"`
	ItemIDs      *[]uuid.UUID `json:"item_ids,omitempty"`
	PhotoURL     *string      `json:"photo_url,omitempty"`
	WornAt       *time.Time   `json:"worn_at,omitempty"`
	IsFavorite   *bool        `json:"is_favorite,omitempty"`
	AICommentary *string      `json:"ai_commentary,omitempty"`
}

type OutfitService interface {
	CreateOutfit(ctx context.Context, input *SavedOutfitInput) (*types.SavedOutfit, error)
	GetOutfit(ctx context.Context, id uuid.UUID) (*types.SavedOutfit, error)
	ListOutfits(ctx context.Context, filter repos.SavedOutfitFilter) ([]*types.SavedOutfit, error)
	UpdateOutfit(ctx context.Context, id uuid.UUID, update *SavedOutfitUpdate) (*types.SavedOutfit, error)
	DeleteOutfit(ctx context.Context, id uuid.UUID) error
	MarkWorn(ctx context.Context, id uuid.UUID, wornAt *time.Time) (*types.SavedOutfit, error)
}

type outfitService struct {
	db         *gorm.DB
	log        *logger.Logger
	outfitRepo repos.SavedOutfitRepo
}

func NewOutfitService(db *gorm.DB, log *logger.Logger, outfitRepo repos.SavedOutfitRepo) OutfitService {
	return &outfitService{
		db:         db,
		log:        log.With("service", "OutfitService"),
		outfitRepo: outfitRepo,
	}
}

func (os *outfitService) CreateOutfit(ctx context.Context, input *SavedOutfitInput) (*types.SavedOutfit, error) {
	if input == nil {
		return nil, apperr.Validation("outfit body is required")
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = defaultOutfitName
	}

	outfit := &types.SavedOutfit{
		UserID:       caller,
		Name:         name,
		ItemIDs:      datatypes.NewJSONSlice(input.ItemIDs),
		PhotoURL:     input.PhotoURL,
		WornAt:       input.WornAt,
		IsFavorite:   input.IsFavorite,
		AICommentary: input.AICommentary,
	}
	return os.outfitRepo.Create(ctx, nil, outfit)
}

func (os *outfitService) GetOutfit(ctx context.Context, id uuid.UUID) (*types.SavedOutfit, error) {
	return os.outfitRepo.GetByID(ctx, nil, id)
}

func (os *outfitService) ListOutfits(ctx context.Context, filter repos.SavedOutfitFilter) ([]*types.SavedOutfit, error) {
	return os.outfitRepo.ListByOwner(ctx, nil, filter)
}

func (os *outfitService) UpdateOutfit(ctx context.Context, id uuid.UUID, update *SavedOutfitUpdate) (*types.SavedOutfit, error) {
	if update == nil {
		return nil, apperr.Validation("no fields to update")
	}
	updates := map[string]interface{}{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			name = defaultOutfitName
		}
		updates["name"] = name
	}
	if update.ItemIDs != nil {
		updates["item_ids"] = datatypes.NewJSONSlice(*update.ItemIDs)
	}
	if update.PhotoURL != nil {
		updates["photo_url"] = *update.PhotoURL
	}
	if update.WornAt != nil {
		updates["worn_at"] = *update.WornAt
	}
	if update.IsFavorite != nil {
		updates["is_favorite"] = *update.IsFavorite
	}
	if update.AICommentary != nil {
		updates["ai_commentary"] = *update.AICommentary
	}
	return os.outfitRepo.Update(ctx, nil, id, updates)
}

func (os *outfitService) DeleteOutfit(ctx context.Context, id uuid.UUID) error {
	return os.outfitRepo.Delete(ctx, nil, id)
}

func (os *outfitService) MarkWorn(ctx context.Context, id uuid.UUID, wornAt *time.Time) (*types.SavedOutfit, error) {
	when := time.Now().UTC()
	if wornAt != nil {
		when = *wornAt
	}
	return os.outfitRepo.Update(ctx, nil, id, map[string]interface{}{"worn_at": when})
}
