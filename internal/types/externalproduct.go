package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ExternalProduct is a catalog entry ingested from third-party retailers.
// It carries no owner and is globally readable; writes go through the
// privileged ingestion path only.
type ExternalProduct struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string                      `gorm:"not null;column:name" json:"name"`
	Description   string                      `gorm:"column:description" json:"description"`
	Category      string                      `gorm:"not null;column:category;index" json:"category"`
	Subcategory   string                      `gorm:"column:subcategory" json:"subcategory"`
	Tags          datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	Colors        datatypes.JSONSlice[string] `gorm:"column:colors" json:"colors"`
	Materials     datatypes.JSONSlice[string] `gorm:"column:materials" json:"materials"`
	Seasons       datatypes.JSONSlice[string] `gorm:"column:seasons" json:"seasons"`
	Occasions     datatypes.JSONSlice[string] `gorm:"column:occasions" json:"occasions"`
	Sizes         datatypes.JSONSlice[string] `gorm:"column:sizes" json:"sizes"`
	GenderStyle   string                      `gorm:"column:gender_style;index" json:"gender_style"`
	Price         float64                     `gorm:"column:price;index" json:"price"`
	Currency      string                      `gorm:"column:currency;default:USD" json:"currency"`
	OriginalPrice *float64                    `gorm:"column:original_price" json:"original_price,omitempty"`
	ProductURL    string                      `gorm:"not null;column:product_url" json:"product_url"`
	Retailer      string                      `gorm:"not null;column:retailer;index;uniqueIndex:idx_product_retailer_url,priority:1" json:"retailer"`
	URLKey        string                      `gorm:"not null;column:url_key;uniqueIndex:idx_product_retailer_url,priority:2" json:"-"`
	InStock       bool                        `gorm:"column:in_stock;default:true" json:"in_stock"`
	LastCheckedAt *time.Time                  `gorm:"column:last_checked_at" json:"last_checked_at,omitempty"`
	Embedding     *pgvector.Vector            `gorm:"type:vector(512)" json:"-"`
	CreatedAt     time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"not null" json:"updated_at"`
}

func (ExternalProduct) TableName() string { return "external_product" }

func (p *ExternalProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.URLKey == "" {
		p.URLKey = p.ProductURL
	}
	return nil
}
