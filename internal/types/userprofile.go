package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultSassLevel = 3

// WeeklySchedule is the structured typical-schedule preference. Each field is
// a free-text description of what the user usually does that day; empty means
// unspecified.
type WeeklySchedule struct {
	Monday    string `json:"monday,omitempty"`
	Tuesday   string `json:"tuesday,omitempty"`
	Wednesday string `json:"wednesday,omitempty"`
	Thursday  string `json:"thursday,omitempty"`
	Friday    string `json:"friday,omitempty"`
	Saturday  string `json:"saturday,omitempty"`
	Sunday    string `json:"sunday,omitempty"`
}

// UserProfile is the per-identity profile. One row per user; owned entities
// hang off UserID and are cascade-deleted with it.
type UserProfile struct {
	ID                  uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID                           `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User                *User                               `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Email               string                              `gorm:"column:email" json:"email"`
	DisplayName         string                              `gorm:"column:display_name" json:"display_name"`
	AvatarURL           string                              `gorm:"column:avatar_url" json:"avatar_url"`
	BodyType            string                              `gorm:"column:body_type" json:"body_type"`
	HeightCm            *int                                `gorm:"column:height_cm" json:"height_cm,omitempty"`
	WeightKg            *int                                `gorm:"column:weight_kg" json:"weight_kg,omitempty"`
	GenderStyle         string                              `gorm:"column:gender_style" json:"gender_style"`
	Notes               datatypes.JSONSlice[string]         `gorm:"column:notes" json:"notes"`
	TypicalSchedule     datatypes.JSONType[WeeklySchedule]  `gorm:"column:typical_schedule" json:"typical_schedule"`
	DefaultOccasions    datatypes.JSONSlice[string]         `gorm:"column:default_occasions" json:"default_occasions"`
	WorksFromHome       bool                                `gorm:"column:works_from_home" json:"works_from_home"`
	HasDressCode        bool                                `gorm:"column:has_dress_code" json:"has_dress_code"`
	DressCodeNotes      string                              `gorm:"column:dress_code_notes" json:"dress_code_notes"`
	SassLevel           int                                 `gorm:"column:sass_level;default:3" json:"sass_level"`
	Location            string                              `gorm:"column:location" json:"location"`
	BodyReferencePhotos datatypes.JSONSlice[string]         `gorm:"column:body_reference_photos" json:"body_reference_photos"`
	CreatedAt           time.Time                           `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time                           `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.SassLevel == 0 {
		p.SassLevel = DefaultSassLevel
	}
	return nil
}
