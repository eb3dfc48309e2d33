package response_models

import (
	"math"

	"github.com/google/uuid"
	"tripplan/internal/models/request_models"
)

type ItineraryActivity struct {
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Description    string `json:"description"`
	Address        string `json:"address"`
	PlaceDetail    string `json:"place_detail"`
	EstimatedCost  int64  `json:"estimated_cost"`
	Transportation string `json:"transportation,omitempty"`
	Image          string `json:"image"`
	MapURL         string `json:"map_url"`
}

type ItineraryDay struct {
	Day        int                 `json:"day"`
	Date       string              `json:"date,omitempty"`
	Title      string              `json:"title"`
	Activities []ItineraryActivity `json:"activities"`
	DailyCost  int64               `json:"daily_cost"`
	Weather    string              `json:"weather,omitempty"`
}

// AddCost adds two non-negative amounts, saturating at math.MaxInt64.
func AddCost(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// ActivityCost sums the estimated cost of the day's activities.
func (d ItineraryDay) ActivityCost() int64 {
	var total int64
	for _, a := range d.Activities {
		total = AddCost(total, a.EstimatedCost)
	}
	return total
}

type ItineraryResponse struct {
	Destination            string               `json:"destination"`
	TravelDate             request_models.Date  `json:"travel_date"`
	Days                   int                  `json:"days"`
	TotalDays              int                  `json:"total_days"`
	Preferences            string               `json:"preferences,omitempty"`
	BudgetVND              int64                `json:"budget_vnd"`
	Transportation         string               `json:"transportation,omitempty"`
	Dining                 string               `json:"dining,omitempty"`
	Group                  string               `json:"group,omitempty"`
	Accommodation          string               `json:"accommodation,omitempty"`
	Itinerary              []ItineraryDay       `json:"itinerary"`
	TotalCost              int64                `json:"total_cost"`
	SuggestedAccommodation string               `json:"suggested_accommodation,omitempty"`
	HasMore                bool                 `json:"has_more"`
	NextStartDate          *request_models.Date `json:"next_start_date,omitempty"`
}

// DailyCostSum sums the daily costs of every day in the itinerary.
func (r *ItineraryResponse) DailyCostSum() int64 {
	var total int64
	for _, d := range r.Itinerary {
		total = AddCost(total, d.DailyCost)
	}
	return total
}

type ChunkResponse struct {
	ChunkIndex    int                  `json:"chunk_index"`
	StartDay      int                  `json:"start_day"`
	EndDay        int                  `json:"end_day"`
	StartDate     request_models.Date  `json:"start_date"`
	Days          []ItineraryDay       `json:"days"`
	ChunkCost     int64                `json:"chunk_cost"`
	HasMore       bool                 `json:"has_more"`
	NextStartDate *request_models.Date `json:"next_start_date,omitempty"`
	UsedAddresses []string             `json:"used_addresses"`
}

type UpdateResult struct {
	Itinerary *ItineraryResponse `json:"itinerary"`
	Changed   bool               `json:"changed"`
	Message   string             `json:"message"`
}

type TravelPlanResponse struct {
	PlanID    uuid.UUID          `json:"plan_id"`
	Itinerary *ItineraryResponse `json:"itinerary"`
	CreatedAt int64              `json:"created_at"`
	UpdatedAt int64              `json:"updated_at"`
}

type ChunkPlanResponse struct {
	PlanID    uuid.UUID          `json:"plan_id"`
	Chunk     *ChunkResponse     `json:"chunk"`
	Itinerary *ItineraryResponse `json:"itinerary"`
}

type UpdatePlanResponse struct {
	PlanID    uuid.UUID          `json:"plan_id"`
	Changed   bool               `json:"changed"`
	Message   string             `json:"message"`
	Itinerary *ItineraryResponse `json:"itinerary"`
}

type TravelPlanSummary struct {
	PlanID        uuid.UUID           `json:"plan_id"`
	Destination   string              `json:"destination"`
	TravelDate    request_models.Date `json:"travel_date"`
	Days          int                 `json:"days"`
	GeneratedDays int                 `json:"generated_days"`
	HasMore       bool                `json:"has_more"`
	Tags          []string            `json:"tags,omitempty"`
	CreatedAt     int64               `json:"created_at"`
}
