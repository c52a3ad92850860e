package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EmbeddingDim is the fixed dimensionality of all similarity vectors
// (CLIP image embeddings).
const EmbeddingDim = 512

// ItemPhoto is one entry in a wardrobe item's ordered photo list.
type ItemPhoto struct {
	URL        string    `json:"url"`
	IsPrimary  bool      `json:"is_primary"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// WardrobeItem is a garment owned by exactly one profile's user. The
// embedding is nil until the inference service writes one back; nil and a
// zero vector are distinct states.
type WardrobeItem struct {
	ID               uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID                      `gorm:"type:uuid;not null;index;index:idx_wardrobe_user_category,priority:1;index:idx_wardrobe_user_favorite,priority:1" json:"user_id"`
	Name             string                         `gorm:"not null;column:name" json:"name"`
	Description      string                         `gorm:"column:description" json:"description"`
	Category         string                         `gorm:"not null;column:category;index:idx_wardrobe_user_category,priority:2" json:"category"`
	Subcategory      string                         `gorm:"column:subcategory" json:"subcategory"`
	Photos           datatypes.JSONSlice[ItemPhoto] `gorm:"column:photos" json:"photos"`
	Tags             datatypes.JSONSlice[string]    `gorm:"column:tags" json:"tags"`
	PurchaseDate     *time.Time                     `gorm:"column:purchase_date" json:"purchase_date,omitempty"`
	PurchasePrice    *float64                       `gorm:"column:purchase_price" json:"purchase_price,omitempty"`
	PurchaseRetailer string                         `gorm:"column:purchase_retailer" json:"purchase_retailer"`
	Colors           datatypes.JSONSlice[string]    `gorm:"column:colors" json:"colors"`
	Materials        datatypes.JSONSlice[string]    `gorm:"column:materials" json:"materials"`
	Seasons          datatypes.JSONSlice[string]    `gorm:"column:seasons" json:"seasons"`
	Occasions        datatypes.JSONSlice[string]    `gorm:"column:occasions" json:"occasions"`
	Embedding        *pgvector.Vector               `gorm:"type:vector(512)" json:"-"`
	SegmentationData datatypes.JSON                 `gorm:"column:segmentation_data" json:"segmentation_data,omitempty"`
	WearCount        int                            `gorm:"column:wear_count;default:0" json:"wear_count"`
	LastWornAt       *time.Time                     `gorm:"column:last_worn_at" json:"last_worn_at,omitempty"`
	IsFavorite       bool                           `gorm:"column:is_favorite;index:idx_wardrobe_user_favorite,priority:2" json:"is_favorite"`
	CreatedAt        time.Time                      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time                      `gorm:"not null" json:"updated_at"`
}

func (WardrobeItem) TableName() string { return "wardrobe_item" }

func (i *WardrobeItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
