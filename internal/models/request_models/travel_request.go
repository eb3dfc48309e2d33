package request_models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tripplan/pkg/utils"
)

const (
	MinTripDays = 1
	MaxTripDays = 30
)

// Date is a calendar day serialized as "2006-01-02".
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	t = t.In(utils.VNLocation())
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, utils.VNLocation())}
}

func (d Date) AddDays(n int) Date {
	return Date{utils.AddDays(d.Time, n)}
}

func (d Date) String() string {
	return utils.FormatDate(d.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := utils.ParseTravelDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

type TravelRequest struct {
	Destination    string `json:"destination" binding:"required"`
	TravelDate     Date   `json:"travel_date"`
	Days           int    `json:"days" binding:"required,min=1,max=30"`
	Preferences    string `json:"preferences"`
	BudgetVND      int64  `json:"budget_vnd" binding:"min=0"`
	Transportation string `json:"transportation,omitempty"`
	Dining         string `json:"dining,omitempty"`
	Group          string `json:"group,omitempty"`
	Accommodation  string `json:"accommodation,omitempty"`
}

func (r TravelRequest) Validate() error {
	if strings.TrimSpace(r.Destination) == "" {
		return fmt.Errorf("%w: destination is required", utils.ErrInvalidInput)
	}
	if r.TravelDate.IsZero() {
		return fmt.Errorf("%w: travel_date is required", utils.ErrInvalidInput)
	}
	if r.Days < MinTripDays || r.Days > MaxTripDays {
		return fmt.Errorf("%w: days must be between %d and %d", utils.ErrInvalidInput, MinTripDays, MaxTripDays)
	}
	if r.BudgetVND < 0 {
		return fmt.Errorf("%w: budget must not be negative", utils.ErrInvalidInput)
	}
	return nil
}

// Tags lists the optional style tags that were provided.
func (r TravelRequest) Tags() []string {
	var tags []string
	for _, t := range []string{r.Transportation, r.Dining, r.Group, r.Accommodation} {
		if s := strings.TrimSpace(t); s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}
