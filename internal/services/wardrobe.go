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
	"github.com/shadeapp/shade-backend/internal/taxonomy"
	"github.com/shadeapp/shade-backend/internal/types"
)

// WardrobeItemInput is the client payload for creating an item. The embedding
// and segmentation data are written by the indexing path, never by clients.
type WardrobeItemInput struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Category         string            `json:"category"`
	Subcategory      string            `json:"subcategory"`
	Photos           []types.ItemPhoto `json:"photos"`
	Tags             []string          `json:"tags"`
	PurchaseDate     *time.Time        `json:"purchase_date"`
	PurchasePrice    *float64          `json:"purchase_price"`
	PurchaseRetailer string            `json:"purchase_retailer"`
	Colors           []string          `json:"colors"`
	Materials        []string          `json:"materials"`
	Seasons          []string          `json:"seasons"`
	Occasions        []string          `json:"occasions"`
}

// WardrobeItemUpdate carries partial updates; nil pointers are skipped.
type WardrobeItemUpdate struct {
	Name             *string            `json:"name,omitempty"`
	Description      *string            `json:"description,omitempty"`
	Category         *string            `json:"category,omitempty"`
	Subcategory      *string            `json:"subcategory,omitempty"`
	Photos           *[]types.ItemPhoto `json:"photos,omitempty"`
	Tags             *[]string          `json:"tags,omitempty"`
	PurchaseDate     *time.Time         `json:"purchase_date,omitempty"`
	PurchasePrice    *float64           `json:"purchase_price,omitempty"`
	PurchaseRetailer *string            `json:"purchase_retailer,omitempty"`
	Colors           *[]string          `json:"colors,omitempty"`
	Materials        *[]string          `json:"materials,omitempty"`
	Seasons          *[]string          `json:"seasons,omitempty"`
	Occasions        *[]string          `json:"occasions,omitempty"`
}

type WardrobeService interface {
	CreateItem(ctx context.Context, input *WardrobeItemInput) (*types.WardrobeItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*types.WardrobeItem, error)
	ListItems(ctx context.Context, filter repos.WardrobeItemFilter) ([]*types.WardrobeItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, update *WardrobeItemUpdate) (*types.WardrobeItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	LogWear(ctx context.Context, id uuid.UUID, wornAt *time.Time) (*types.WardrobeItem, error)
	SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) (*types.WardrobeItem, error)
	SimilarToItem(ctx context.Context, id uuid.UUID, limit int) ([]*types.WardrobeItem, error)
	SetEmbedding(ctx context.Context, id uuid.UUID, embedding []float32, segmentation datatypes.JSON) error
}

type wardrobeService struct {
	db       *gorm.DB
	log      *logger.Logger
	itemRepo repos.WardrobeItemRepo
}

func NewWardrobeService(db *gorm.DB, log *logger.Logger, itemRepo repos.WardrobeItemRepo) WardrobeService {
	return &wardrobeService{
		db:       db,
		log:      log.With("service", "WardrobeService"),
		itemRepo: itemRepo,
	}
}

func validateCategory(category, subcategory string) error {
	if category == "" {
		return apperr.Validation("category is required")
	}
	if !taxonomy.IsValidCategory(category, subcategory) {
		if subcategory != "" {
			return apperr.Validation("unknown category/subcategory %q/%q", category, subcategory)
		}
		return apperr.Validation("unknown category %q", category)
	}
	return nil
}

func (ws *wardrobeService) CreateItem(ctx context.Context, input *WardrobeItemInput) (*types.WardrobeItem, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if err := validateCategory(input.Category, input.Subcategory); err != nil {
		return nil, err
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	item := &types.WardrobeItem{
		UserID:           caller,
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		Category:         input.Category,
		Subcategory:      input.Subcategory,
		Photos:           datatypes.NewJSONSlice(input.Photos),
		Tags:             datatypes.NewJSONSlice(input.Tags),
		PurchaseDate:     input.PurchaseDate,
		PurchasePrice:    input.PurchasePrice,
		PurchaseRetailer: input.PurchaseRetailer,
		Colors:           datatypes.NewJSONSlice(input.Colors),
		Materials:        datatypes.NewJSONSlice(input.Materials),
		Seasons:          datatypes.NewJSONSlice(input.Seasons),
		Occasions:        datatypes.NewJSONSlice(input.Occasions),
	}
	return ws.itemRepo.Create(ctx, nil, item)
}

func (ws *wardrobeService) GetItem(ctx context.Context, id uuid.UUID) (*types.WardrobeItem, error) {
	return ws.itemRepo.GetByID(ctx, nil, id)
}

func (ws *wardrobeService) ListItems(ctx context.Context, filter repos.WardrobeItemFilter) ([]*types.WardrobeItem, error) {
	if filter.Category != "" && !taxonomy.IsValidCategory(filter.Category, "") {
		return nil, apperr.Validation("unknown category %q", filter.Category)
	}
	return ws.itemRepo.ListByOwner(ctx, nil, filter)
}

func (ws *wardrobeService) UpdateItem(ctx context.Context, id uuid.UUID, update *WardrobeItemUpdate) (*types.WardrobeItem, error) {
	if update == nil {
		return nil, apperr.Validation("no fields to update")
	}
	updates := map[string]interface{}{}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Category != nil || update.Subcategory != nil {
		// category and subcategory are validated as a pair, so a change to
		// either needs the other's effective value
		current, err := ws.itemRepo.GetByID(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		category, subcategory := current.Category, current.Subcategory
		if update.Category != nil {
			category = *update.Category
		}
		if update.Subcategory != nil {
			subcategory = *update.Subcategory
		}
		if err := validateCategory(category, subcategory); err != nil {
			return nil, err
		}
		updates["category"] = category
		updates["subcategory"] = subcategory
	}
	if update.Photos != nil {
		updates["photos"] = datatypes.NewJSONSlice(*update.Photos)
	}
	if update.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(*update.Tags)
	}
	if update.PurchaseDate != nil {
		updates["purchase_date"] = *update.PurchaseDate
	}
	if update.PurchasePrice != nil {
		updates["purchase_price"] = *update.PurchasePrice
	}
	if update.PurchaseRetailer != nil {
		updates["purchase_retailer"] = *update.PurchaseRetailer
	}
	if update.Colors != nil {
		updates["colors"] = datatypes.NewJSONSlice(*update.Colors)
	}
	if update.Materials != nil {
		updates["materials"] = datatypes.NewJSONSlice(*update.Materials)
	}
	if update.Seasons != nil {
		updates["seasons"] = datatypes.NewJSONSlice(*update.Seasons)
	}
	if update.Occasions != nil {
		updates["occasions"] = datatypes.NewJSONSlice(*update.Occasions)
	}
	return ws.itemRepo.Update(ctx, nil, id, updates)
}

func (ws *wardrobeService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return ws.itemRepo.Delete(ctx, nil, id)
}

func (ws *wardrobeService) LogWear(ctx context.Context, id uuid.UUID, wornAt *time.Time) (*types.WardrobeItem, error) {
	when := time.Now().UTC()
	if wornAt != nil {
		when = *wornAt
	}
	return ws.itemRepo.LogWear(ctx, nil, id, when)
}

func (ws *wardrobeService) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) (*types.WardrobeItem, error) {
	return ws.itemRepo.Update(ctx, nil, id, map[string]interface{}{"is_favorite": favorite})
}

// SimilarToItem ranks the caller's other items by closeness to the given
// item's embedding. An item that has not been indexed yet cannot anchor a
// similarity query.
func (ws *wardrobeService) SimilarToItem(ctx context.Context, id uuid.UUID, limit int) ([]*types.WardrobeItem, error) {
	if limit <= 0 {
		limit = 10
	}
	anchor, err := ws.itemRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if anchor.Embedding == nil {
		return nil, apperr.Validation("item has no embedding yet")
	}

	// fetch one extra so the anchor itself can be dropped from the results
	neighbors, err := ws.itemRepo.NearestByEmbedding(ctx, nil, anchor.Embedding.Slice(), limit+1)
	if err != nil {
		return nil, err
	}
	results := make([]*types.WardrobeItem, 0, limit)
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

// SetEmbedding is the write-back path for the inference pipeline. It still
// runs under the owner's context; the vector is stored as-is.
func (ws *wardrobeService) SetEmbedding(ctx context.Context, id uuid.UUID, embedding []float32, segmentation datatypes.JSON) error {
	if len(embedding) != types.EmbeddingDim {
		return apperr.Validation("embedding must have %d dimensions, got %d", types.EmbeddingDim, len(embedding))
	}
	updates := map[string]interface{}{
		"embedding": pgvectorValue(embedding),
	}
	if segmentation != nil {
		updates["segmentation_data"] = segmentation
	}
	_, err := ws.itemRepo.Update(ctx, nil, id, updates)
	return err
}
