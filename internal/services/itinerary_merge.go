package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"tripplan/internal/models/request_models"
	"tripplan/internal/models/response_models"
	"tripplan/pkg/utils"
)

const NoChangeMessage = "No changes were required for this request"

// UpdateItinerary applies a free-form edit to the whole itinerary.
func (s *ItineraryService) UpdateItinerary(
	ctx context.Context,
	req request_models.TravelRequest,
	original *response_models.ItineraryResponse,
	userInstruction string,
) (*response_models.UpdateResult, error) {
	if original == nil || len(original.Itinerary) == 0 {
		return nil, fmt.Errorf("%w: itinerary has no days to update", utils.ErrInvalidInput)
	}
	return s.updateDays(ctx, req, original, original.Itinerary, userInstruction)
}

// UpdateItineraryChunk applies an edit to days [startDay, startDay+chunkSize) only.
func (s *ItineraryService) UpdateItineraryChunk(
	ctx context.Context,
	req request_models.TravelRequest,
	original *response_models.ItineraryResponse,
	userInstruction string,
	startDay, chunkSize int,
) (*response_models.UpdateResult, error) {
	if original == nil {
		return nil, fmt.Errorf("%w: itinerary is required", utils.ErrInvalidInput)
	}
	if startDay < 1 || chunkSize < 1 {
		return nil, fmt.Errorf("%w: start day and chunk size must be positive", utils.ErrInvalidInput)
	}

	end := startDay + chunkSize
	target := lo.Filter(original.Itinerary, func(d response_models.ItineraryDay, _ int) bool {
		return d.Day >= startDay && d.Day < end
	})
	if len(target) == 0 {
		return nil, fmt.Errorf("%w: no days in range [%d, %d)", utils.ErrInvalidInput, startDay, end)
	}
	return s.updateDays(ctx, req, original, target, userInstruction)
}

// updateDays re-generates the target days and splices replacements back by day number.
// Days outside the target, and target days the model leaves out, are kept as they are.
func (s *ItineraryService) updateDays(
	ctx context.Context,
	req request_models.TravelRequest,
	original *response_models.ItineraryResponse,
	target []response_models.ItineraryDay,
	userInstruction string,
) (*response_models.UpdateResult, error) {
	if strings.TrimSpace(userInstruction) == "" {
		return nil, fmt.Errorf("%w: instruction is required", utils.ErrInvalidInput)
	}

	targetDays := lo.SliceToMap(target, func(d response_models.ItineraryDay) (int, struct{}) {
		return d.Day, struct{}{}
	})
	outside := lo.Reject(original.Itinerary, func(d response_models.ItineraryDay, _ int) bool {
		_, ok := targetDays[d.Day]
		return ok
	})

	hint := DetectDestinationChange(userInstruction, req.Destination)
	prompt := s.builder.BuildUpdatePrompt(req, target, userInstruction, collectAddresses(outside), hint)

	parsed, err := s.runModel(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if len(parsed.Days) == 0 {
		s.logger.Info("update produced no days, keeping itinerary", zap.String("destination", req.Destination))
		return noChange(original), nil
	}

	replacements := make(map[int]response_models.ItineraryDay)
	for _, d := range parsed.toDays(req.Destination) {
		if _, ok := targetDays[d.Day]; !ok {
			s.logger.Debug("ignoring day outside update range", zap.Int("day", d.Day))
			continue
		}
		if _, dup := replacements[d.Day]; dup {
			continue
		}
		replacements[d.Day] = d
	}
	if len(replacements) == 0 {
		s.logger.Info("update matched no existing days, keeping itinerary", zap.String("destination", req.Destination))
		return noChange(original), nil
	}

	var kept, replaced []response_models.ItineraryDay
	for _, day := range original.Itinerary {
		if repl, ok := replacements[day.Day]; ok {
			repl.Date = day.Date
			replaced = append(replaced, repl)
		} else {
			kept = append(kept, day)
		}
	}

	used := NewUsedImages(collectImages(kept)...)
	s.images.ResolveDays(ctx, replaced, req.Destination, used)
	for i := range replaced {
		replaced[i].DailyCost = replaced[i].ActivityCost()
		replacements[replaced[i].Day] = replaced[i]
	}

	merged := make([]response_models.ItineraryDay, 0, len(original.Itinerary))
	for _, day := range original.Itinerary {
		if repl, ok := replacements[day.Day]; ok {
			merged = append(merged, repl)
		} else {
			merged = append(merged, day)
		}
	}

	updated := *original
	updated.Itinerary = merged
	updated.TotalCost = updated.DailyCostSum()

	s.logger.Info("itinerary updated",
		zap.String("destination", req.Destination),
		zap.Ints("days", lo.Keys(replacements)),
		zap.String("destination_hint", hint))
	return &response_models.UpdateResult{
		Itinerary: &updated,
		Changed:   true,
		Message:   fmt.Sprintf("Updated %d day(s)", len(replacements)),
	}, nil
}

func noChange(original *response_models.ItineraryResponse) *response_models.UpdateResult {
	return &response_models.UpdateResult{
		Itinerary: original,
		Changed:   false,
		Message:   NoChangeMessage,
	}
}

func collectImages(days []response_models.ItineraryDay) []string {
	var out []string
	for _, d := range days {
		for _, a := range d.Activities {
			if a.Image != "" {
				out = append(out, a.Image)
			}
		}
	}
	return out
}
