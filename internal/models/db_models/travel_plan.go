package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TravelPlan stores a generated itinerary together with the request it came from.
// Both documents are kept as serialized JSON text.
type TravelPlan struct {
	BaseModel
	AccountID     uuid.UUID `gorm:"type:uuid;index"`
	Destination   string    `gorm:"index"`
	TravelDate    time.Time `gorm:"type:date"`
	Days          int
	GeneratedDays int
	HasMore       bool
	Tags          pq.StringArray `gorm:"type:text[]"`
	RequestJSON   string         `gorm:"type:text"`
	ResponseJSON  string         `gorm:"type:text"`
}
