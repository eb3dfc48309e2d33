package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"tripplan/internal/models/response_models"
	"tripplan/pkg/utils"
)

const (
	defaultDayStart    = "08:00"
	defaultActivityLen = time.Hour
	mapSearchURL       = "https://www.google.com/maps/search/?api=1&query="
)

// modelAmount accepts a JSON number or a string such as "150.000 VND".
// Values clamp to [0, math.MaxInt64].
type modelAmount int64

func (a *modelAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		var digits strings.Builder
		for _, r := range s {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		if digits.Len() == 0 {
			*a = 0
			return nil
		}
		n, err := strconv.ParseInt(digits.String(), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			n = math.MaxInt64
		} else if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		*a = modelAmount(n)
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("amount %s: %w", data, err)
	}
	switch {
	case f < 0:
		*a = 0
	case f >= math.MaxInt64:
		*a = math.MaxInt64
	default:
		*a = modelAmount(math.Round(f))
	}
	return nil
}

func amountOr(a *modelAmount, def int64) int64 {
	if a == nil {
		return def
	}
	return int64(*a)
}

type modelActivity struct {
	StartTime      string       `json:"startTime"`
	EndTime        string       `json:"endTime"`
	Description    string       `json:"description"`
	Address        string       `json:"address"`
	PlaceDetail    string       `json:"placeDetail"`
	EstimatedCost  *modelAmount `json:"estimatedCost"`
	Transportation string       `json:"transportation,omitempty"`
	Image          string       `json:"image,omitempty"`
}

type modelDay struct {
	Day        *modelAmount    `json:"day"`
	Title      string          `json:"title"`
	Weather    string          `json:"weather,omitempty"`
	DailyCost  *modelAmount    `json:"dailyCost"`
	Activities []modelActivity `json:"activities"`
}

// modelItinerary is the reply shape requested by every prompt.
type modelItinerary struct {
	Days                   []modelDay   `json:"days"`
	TotalCost              *modelAmount `json:"totalCost"`
	SuggestedAccommodation string       `json:"suggestedAccommodation"`
}

// decodeModelReply runs strict parse, then one repair pass, then a final parse.
func decodeModelReply(ctx context.Context, gateway ModelGatewayInterface, raw string, logger *zap.Logger) (*modelItinerary, error) {
	parsed, parseErr := parseModelItinerary(utils.ExtractJSON(raw))
	if parseErr == nil {
		return parsed, nil
	}

	logger.Warn("model reply is not valid JSON, attempting repair", zap.Error(parseErr))
	logger.Debug("raw model reply", zap.String("raw", raw))

	repaired, err := gateway.Repair(ctx, raw)
	if err != nil {
		return nil, err
	}
	if repaired == "" {
		return nil, &utils.UnparseableModelOutputError{Raw: raw, Err: parseErr}
	}

	parsed, err = parseModelItinerary(repaired)
	if err != nil {
		return nil, &utils.UnparseableModelOutputError{Raw: raw, Err: err}
	}
	return parsed, nil
}

func parseModelItinerary(candidate string) (*modelItinerary, error) {
	if strings.TrimSpace(candidate) == "" {
		return nil, errors.New("no JSON object in reply")
	}
	var out modelItinerary
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// toDays converts the reply into itinerary days. Missing day numbers fall back to the
// position in the reply, and missing daily costs to the sum of the activities.
func (m *modelItinerary) toDays(destination string) []response_models.ItineraryDay {
	days := make([]response_models.ItineraryDay, 0, len(m.Days))
	for i, d := range m.Days {
		day := response_models.ItineraryDay{
			Day:        int(amountOr(d.Day, int64(i+1))),
			Title:      strings.TrimSpace(d.Title),
			Weather:    strings.TrimSpace(d.Weather),
			Activities: convertActivities(d.Activities, destination),
		}
		if day.Title == "" {
			day.Title = fmt.Sprintf("Day %d", day.Day)
		}
		day.DailyCost = amountOr(d.DailyCost, day.ActivityCost())
		days = append(days, day)
	}
	return days
}

func convertActivities(in []modelActivity, destination string) []response_models.ItineraryActivity {
	out := make([]response_models.ItineraryActivity, 0, len(in))
	prevEnd := ""
	for _, a := range in {
		act := response_models.ItineraryActivity{
			Description:    strings.TrimSpace(a.Description),
			Address:        strings.TrimSpace(a.Address),
			PlaceDetail:    strings.TrimSpace(a.PlaceDetail),
			EstimatedCost:  amountOr(a.EstimatedCost, 0),
			Transportation: strings.TrimSpace(a.Transportation),
			Image:          strings.TrimSpace(a.Image),
		}

		start, ok := normalizeClock(a.StartTime)
		if !ok {
			start = prevEnd
			if start == "" {
				start = defaultDayStart
			}
		}
		end, ok := normalizeClock(a.EndTime)
		if !ok {
			end = addClock(start, defaultActivityLen)
		}
		act.StartTime, act.EndTime = start, end
		prevEnd = end

		if act.Address == "" {
			act.Address = destination
		}
		if act.Description == "" {
			act.Description = act.PlaceDetail
		}
		if act.Description == "" {
			act.Description = "Free time"
		}
		act.MapURL = MapSearchURL(act.Address)

		out = append(out, act)
	}
	return out
}

// toModelDays renders days in the reply shape so the model sees what it is expected to return.
func toModelDays(days []response_models.ItineraryDay) []modelDay {
	out := make([]modelDay, 0, len(days))
	for _, d := range days {
		dayNum := modelAmount(d.Day)
		cost := modelAmount(d.DailyCost)
		md := modelDay{
			Day:        &dayNum,
			Title:      d.Title,
			Weather:    d.Weather,
			DailyCost:  &cost,
			Activities: make([]modelActivity, 0, len(d.Activities)),
		}
		for _, a := range d.Activities {
			c := modelAmount(a.EstimatedCost)
			md.Activities = append(md.Activities, modelActivity{
				StartTime:      a.StartTime,
				EndTime:        a.EndTime,
				Description:    a.Description,
				Address:        a.Address,
				PlaceDetail:    a.PlaceDetail,
				EstimatedCost:  &c,
				Transportation: a.Transportation,
			})
		}
		out = append(out, md)
	}
	return out
}

func MapSearchURL(address string) string {
	return mapSearchURL + url.QueryEscape(address)
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})\s*[:hH.]\s*(\d{2})?\s*([AaPp][Mm])?$`)

// normalizeClock turns "9:00", "09h30" or "2:15 PM" into "HH:mm".
func normalizeClock(s string) (string, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

func addClock(clock string, d time.Duration) string {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return clock
	}
	next := t.Add(d)
	if next.Day() != t.Day() {
		return "23:59"
	}
	return next.Format("15:04")
}
