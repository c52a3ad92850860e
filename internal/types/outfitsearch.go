package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SearchFilters are the structured parameters of one outfit search.
type SearchFilters struct {
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Occasion    string   `json:"occasion,omitempty"`
	Season      string   `json:"season,omitempty"`
	GenderStyle string   `json:"gender_style,omitempty"`
	Retailer    string   `json:"retailer,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
}

// OutfitSearch is an immutable log record of one user query. There is no
// update path: clicked/saved ids are supplied when the row is written.
type OutfitSearch struct {
	ID               uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID                          `gorm:"type:uuid;not null;index" json:"user_id"`
	Query            string                             `gorm:"column:query" json:"query"`
	Filters          datatypes.JSONType[SearchFilters]  `gorm:"column:filters" json:"filters"`
	ResultOutfitIDs  datatypes.JSONSlice[uuid.UUID]     `gorm:"column:result_outfit_ids" json:"result_outfit_ids"`
	ResultProductIDs datatypes.JSONSlice[uuid.UUID]     `gorm:"column:result_product_ids" json:"result_product_ids"`
	ClickedItemIDs   datatypes.JSONSlice[uuid.UUID]     `gorm:"column:clicked_item_ids" json:"clicked_item_ids"`
	SavedItemIDs     datatypes.JSONSlice[uuid.UUID]     `gorm:"column:saved_item_ids" json:"saved_item_ids"`
	CreatedAt        time.Time                          `gorm:"not null" json:"created_at"`
}

func (OutfitSearch) TableName() string { return "outfit_search" }

func (s *OutfitSearch) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
