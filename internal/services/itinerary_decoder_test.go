package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"tripplan/internal/models/response_models"
	"tripplan/pkg/utils"
)

func TestModelAmountAcceptsNumbersAndStrings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"integer", `150000`, 150000},
		{"float rounds", `12.6`, 13},
		{"negative clamps", `-5000`, 0},
		{"formatted string", `"150.000 VND"`, 150000},
		{"comma string", `"1,200,000đ"`, 1200000},
		{"text only", `"free"`, 0},
		{"huge float clamps", `1e20`, math.MaxInt64},
		{"out of range float clamps", `1e400`, math.MaxInt64},
		{"huge string clamps", `"99999999999999999999999 VND"`, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a modelAmount
			require.NoError(t, json.Unmarshal([]byte(tt.in), &a))
			assert.Equal(t, tt.want, int64(a))
		})
	}
}

func TestModelAmountRejectsGarbage(t *testing.T) {
	var a modelAmount
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
}

func TestHugeCostsDoNotGoNegative(t *testing.T) {
	gw := &fakeGateway{}
	raw := `{"days": [{"day": 1, "activities": [
		{"startTime": "08:00", "endTime": "09:00", "description": "Boat", "address": "Pier", "estimatedCost": 1e20},
		{"startTime": "09:00", "endTime": "10:00", "description": "Lunch", "address": "Cafe", "estimatedCost": 50000}
	]}]}`

	parsed, err := decodeModelReply(context.Background(), gw, raw, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, gw.repairInputs)

	day := parsed.toDays("Da Lat")[0]
	assert.Equal(t, int64(math.MaxInt64), day.Activities[0].EstimatedCost)
	assert.Equal(t, int64(math.MaxInt64), day.DailyCost)
	assert.Equal(t, int64(math.MaxInt64), sumDailyCosts([]response_models.ItineraryDay{day, day}))
}

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"9:00", "09:00", true},
		{"14:30", "14:30", true},
		{"09h30", "09:30", true},
		{"9h", "09:00", true},
		{"2:15 PM", "14:15", true},
		{"12:00 am", "00:00", true},
		{"25:00", "", false},
		{"morning", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := normalizeClock(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestAddClockStopsAtMidnight(t *testing.T) {
	assert.Equal(t, "10:00", addClock("09:00", time.Hour))
	assert.Equal(t, "23:59", addClock("23:30", time.Hour))
	assert.Equal(t, "later", addClock("later", time.Hour))
}

func TestToDaysFillsDefaults(t *testing.T) {
	parsed, err := parseModelItinerary(`{
		"days": [
			{"activities": [
				{"description": "", "placeDetail": "Old French villa", "estimatedCost": "80.000"},
				{"startTime": "1:30 PM", "address": " 1 Yersin ", "estimatedCost": 20000}
			]},
			{"day": 5, "title": "Markets", "dailyCost": 999, "activities": []}
		]
	}`)
	require.NoError(t, err)

	days := parsed.toDays("Da Lat")
	require.Len(t, days, 2)

	first := days[0]
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "Day 1", first.Title)
	assert.Equal(t, int64(100000), first.DailyCost)

	require.Len(t, first.Activities, 2)
	a := first.Activities[0]
	assert.Equal(t, "08:00", a.StartTime)
	assert.Equal(t, "09:00", a.EndTime)
	assert.Equal(t, "Old French villa", a.Description)
	assert.Equal(t, "Da Lat", a.Address)
	assert.Equal(t, MapSearchURL("Da Lat"), a.MapURL)

	b := first.Activities[1]
	assert.Equal(t, "13:30", b.StartTime)
	assert.Equal(t, "14:30", b.EndTime)
	assert.Equal(t, "1 Yersin", b.Address)
	assert.Equal(t, "Free time", b.Description)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=1+Yersin", b.MapURL)

	assert.Equal(t, 5, days[1].Day)
	assert.Equal(t, "Markets", days[1].Title)
	assert.Equal(t, int64(999), days[1].DailyCost)
}

func TestMissingStartTimeFollowsPreviousEnd(t *testing.T) {
	parsed, err := parseModelItinerary(`{"days": [{"day": 1, "activities": [
		{"startTime": "10:00", "endTime": "11:45", "description": "Cafe"},
		{"description": "Walk"}
	]}]}`)
	require.NoError(t, err)

	acts := parsed.toDays("Da Lat")[0].Activities
	assert.Equal(t, "11:45", acts[1].StartTime)
	assert.Equal(t, "12:45", acts[1].EndTime)
}

func TestDecodeModelReplyParsesFencedReply(t *testing.T) {
	gw := &fakeGateway{}
	raw := "Here is the itinerary:\n```json\n{\"days\": [{\"day\": 1, \"activities\": []}], \"totalCost\": 0}\n```"

	parsed, err := decodeModelReply(context.Background(), gw, raw, zap.NewNop())

	require.NoError(t, err)
	assert.Len(t, parsed.Days, 1)
	require.NotNil(t, parsed.TotalCost)
	assert.Empty(t, gw.repairInputs)
}

func TestDecodeModelReplyRepairsBrokenJSON(t *testing.T) {
	gw := &fakeGateway{repairReply: `{"days": [{"day": 1, "activities": []}]}`}
	raw := `{"days": [{"day": 1, "activities": [],}]}`

	parsed, err := decodeModelReply(context.Background(), gw, raw, zap.NewNop())

	require.NoError(t, err)
	assert.Len(t, parsed.Days, 1)
	assert.Equal(t, []string{raw}, gw.repairInputs)
}

func TestDecodeModelReplyFailsWhenRepairHasNoObject(t *testing.T) {
	gw := &fakeGateway{repairReply: ""}

	_, err := decodeModelReply(context.Background(), gw, "I cannot plan this trip", zap.NewNop())

	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrUnparseableModelOutput))
	var unparseable *utils.UnparseableModelOutputError
	require.True(t, errors.As(err, &unparseable))
	assert.Equal(t, "I cannot plan this trip", unparseable.Raw)
}

func TestDecodeModelReplyFailsWhenRepairIsStillInvalid(t *testing.T) {
	gw := &fakeGateway{repairReply: `{"days": "many"}`}

	_, err := decodeModelReply(context.Background(), gw, `{"days": [}`, zap.NewNop())

	assert.ErrorIs(t, err, utils.ErrUnparseableModelOutput)
}

func TestDecodeModelReplyPropagatesRepairError(t *testing.T) {
	gw := &fakeGateway{repairErr: utils.ErrExternalService}

	_, err := decodeModelReply(context.Background(), gw, `{"days": [}`, zap.NewNop())

	assert.ErrorIs(t, err, utils.ErrExternalService)
}
