package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type POI struct {
	BaseModel
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	ProvinceID   string `gorm:"index"`
	Category     string
	Status       string
	OpeningHours string
	ContactInfo  string

	Details POIDetail
}

type POIDetail struct {
	BaseModel
	POIID       uuid.UUID `gorm:"type:uuid;unique"`
	Description string
	Images      pq.StringArray `gorm:"type:text[]"`
}
