package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SavedOutfit is a named combination of wardrobe item ids. The item list is
// an ordered historical record, not a foreign key: duplicates are allowed and
// ids may point at items that have since been deleted.
type SavedOutfit struct {
	ID           uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID                      `gorm:"type:uuid;not null;index;index:idx_outfit_user_worn,priority:1" json:"user_id"`
	Name         string                         `gorm:"not null;column:name" json:"name"`
	ItemIDs      datatypes.JSONSlice[uuid.UUID] `gorm:"column:item_ids" json:"item_ids"`
	PhotoURL     string                         `gorm:"column:photo_url" json:"photo_url"`
	WornAt       *time.Time                     `gorm:"column:worn_at;index:idx_outfit_user_worn,priority:2" json:"worn_at,omitempty"`
	IsFavorite   bool                           `gorm:"column:is_favorite" json:"is_favorite"`
	AICommentary string                         `gorm:"column:ai_commentary" json:"ai_commentary"`
	CreatedAt    time.Time                      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time                      `gorm:"not null" json:"updated_at"`
}

func (SavedOutfit) TableName() string { return "saved_outfit" }

func (o *SavedOutfit) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
