package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WeatherSnapshot is the contextual weather data a recommendation was
// generated against.
type WeatherSnapshot struct {
	TempC       *float64 `json:"temp_c,omitempty"`
	FeelsLikeC  *float64 `json:"feels_like_c,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Humidity    *int     `json:"humidity,omitempty"`
	WindKph     *float64 `json:"wind_kph,omitempty"`
	Location    string   `json:"location,omitempty"`
	ObservedAt  string   `json:"observed_at,omitempty"`
}

// UserRecommendation is one system-generated daily outfit suggestion.
// One per user per date. Create/read/update only; no delete path exists.
type UserRecommendation struct {
	ID                 uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID                           `gorm:"type:uuid;not null;index;uniqueIndex:idx_rec_user_date,priority:1" json:"user_id"`
	OutfitID           uuid.UUID                           `gorm:"type:uuid;not null" json:"outfit_id"`
	RecommendationDate time.Time                           `gorm:"type:date;not null;uniqueIndex:idx_rec_user_date,priority:2" json:"recommendation_date"`
	Weather            datatypes.JSONType[WeatherSnapshot] `gorm:"column:weather" json:"weather"`
	Occasion           string                              `gorm:"column:occasion" json:"occasion"`
	Accepted           *bool                               `gorm:"column:accepted" json:"accepted,omitempty"`
	RejectionReason    string                              `gorm:"column:rejection_reason" json:"rejection_reason"`
	CreatedAt          time.Time                           `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time                           `gorm:"not null" json:"updated_at"`
}

func (UserRecommendation) TableName() string { return "user_recommendation" }

func (r *UserRecommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
