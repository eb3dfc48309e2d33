package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"tripplan/internal/models/request_models"
	"tripplan/internal/models/response_models"
	"tripplan/pkg/utils"
)

// MaxDaysPerChunk bounds the number of days requested from the model in one call.
const MaxDaysPerChunk = 3

type ItineraryServiceInterface interface {
	GenerateItinerary(ctx context.Context, req request_models.TravelRequest, relatedKnowledge string) (*response_models.ItineraryResponse, error)
	GenerateChunk(ctx context.Context, base request_models.TravelRequest, startDate request_models.Date, chunkSize, chunkIndex int, relatedKnowledge string, previousAddresses []string) (*response_models.ChunkResponse, error)
	UpdateItinerary(ctx context.Context, req request_models.TravelRequest, original *response_models.ItineraryResponse, userInstruction string) (*response_models.UpdateResult, error)
	UpdateItineraryChunk(ctx context.Context, req request_models.TravelRequest, original *response_models.ItineraryResponse, userInstruction string, startDay, chunkSize int) (*response_models.UpdateResult, error)
}

type ItineraryConfig struct {
	MaxOutputTokens int
	Temperature     float32
}

// ItineraryService drives prompt, model, decode and image resolution for generation and
// incremental updates. It keeps no state between calls.
type ItineraryService struct {
	builder *PromptBuilder
	gateway ModelGatewayInterface
	images  ImageResolverInterface
	cfg     ItineraryConfig
	logger  *zap.Logger
}

func NewItineraryService(
	builder *PromptBuilder,
	gateway ModelGatewayInterface,
	images ImageResolverInterface,
	cfg ItineraryConfig,
	logger *zap.Logger,
) ItineraryServiceInterface {
	return &ItineraryService{
		builder: builder,
		gateway: gateway,
		images:  images,
		cfg:     cfg,
		logger:  logger,
	}
}

// GenerateItinerary produces at most MaxDaysPerChunk days. Longer trips are marked
// HasMore and continue through GenerateChunk.
func (s *ItineraryService) GenerateItinerary(ctx context.Context, req request_models.TravelRequest, relatedKnowledge string) (*response_models.ItineraryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	daysToGenerate := min(req.Days, MaxDaysPerChunk)
	sub := req
	sub.Days = daysToGenerate

	budget := utils.FormatVND(req.BudgetVND)
	var prompt string
	if daysToGenerate == req.Days {
		prompt = s.builder.Build(sub, budget, relatedKnowledge)
	} else {
		prompt = s.builder.BuildChunk(sub, budget, relatedKnowledge, ChunkContext{TotalDays: req.Days})
	}

	parsed, err := s.runModel(ctx, prompt)
	if err != nil {
		return nil, err
	}

	days := selectChunkDays(parsed.toDays(req.Destination), daysToGenerate, 0)
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no usable days for %s", utils.ErrInvalidOrEmptyItinerary, req.Destination)
	}
	assignDates(days, req.TravelDate, 0)

	s.images.ResolveDays(ctx, days, req.Destination, NewUsedImages())

	resp := newItineraryResponse(req, days)
	resp.TotalCost = amountOr(parsed.TotalCost, resp.DailyCostSum())
	resp.SuggestedAccommodation = strings.TrimSpace(parsed.SuggestedAccommodation)
	if req.Days > daysToGenerate {
		next := req.TravelDate.AddDays(daysToGenerate)
		resp.HasMore = true
		resp.NextStartDate = &next
	}

	s.logger.Info("itinerary generated",
		zap.String("destination", req.Destination),
		zap.Int("days", resp.Days),
		zap.Int("total_days", req.Days),
		zap.Bool("has_more", resp.HasMore))
	return resp, nil
}

// GenerateChunk produces the days [chunkIndex*MaxDaysPerChunk+1, +chunkSize] of a longer trip.
func (s *ItineraryService) GenerateChunk(
	ctx context.Context,
	base request_models.TravelRequest,
	startDate request_models.Date,
	chunkSize, chunkIndex int,
	relatedKnowledge string,
	previousAddresses []string,
) (*response_models.ChunkResponse, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if chunkIndex < 0 {
		return nil, fmt.Errorf("%w: chunk index must not be negative", utils.ErrInvalidInput)
	}
	if chunkSize < 1 || chunkSize > MaxDaysPerChunk {
		return nil, fmt.Errorf("%w: chunk size must be between 1 and %d", utils.ErrInvalidInput, MaxDaysPerChunk)
	}
	offset := chunkIndex * MaxDaysPerChunk
	if offset >= base.Days {
		return nil, fmt.Errorf("%w: chunk %d starts after day %d", utils.ErrInvalidInput, chunkIndex, base.Days)
	}

	effective := min(chunkSize, base.Days-offset)
	if startDate.IsZero() {
		startDate = base.TravelDate.AddDays(offset)
	}
	previous := cleanAddresses(previousAddresses)

	sub := base
	sub.TravelDate = startDate
	sub.Days = effective
	prompt := s.builder.BuildChunk(sub, utils.FormatVND(base.BudgetVND), relatedKnowledge, ChunkContext{
		DayOffset:         offset,
		TotalDays:         base.Days,
		PreviousAddresses: previous,
	})

	parsed, err := s.runModel(ctx, prompt)
	if err != nil {
		return nil, err
	}

	days := selectChunkDays(parsed.toDays(base.Destination), effective, offset)
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: chunk %d returned no usable days", utils.ErrInvalidOrEmptyItinerary, chunkIndex)
	}
	assignDates(days, startDate, offset)

	s.images.ResolveDays(ctx, days, base.Destination, NewUsedImages())

	chunk := &response_models.ChunkResponse{
		ChunkIndex:    chunkIndex,
		StartDay:      offset + 1,
		EndDay:        offset + effective,
		StartDate:     startDate,
		Days:          days,
		HasMore:       (chunkIndex+1)*MaxDaysPerChunk < base.Days,
		UsedAddresses: lo.Uniq(append(previous, collectAddresses(days)...)),
	}
	chunk.ChunkCost = amountOr(parsed.TotalCost, sumDailyCosts(days))
	if chunk.HasMore {
		next := startDate.AddDays(MaxDaysPerChunk)
		chunk.NextStartDate = &next
	}

	s.logger.Info("itinerary chunk generated",
		zap.String("destination", base.Destination),
		zap.Int("chunk_index", chunkIndex),
		zap.Int("days", len(days)),
		zap.Bool("has_more", chunk.HasMore))
	return chunk, nil
}

func (s *ItineraryService) runModel(ctx context.Context, prompt string) (*modelItinerary, error) {
	raw, err := s.gateway.Generate(ctx, prompt, s.cfg.MaxOutputTokens, s.cfg.Temperature)
	if err != nil {
		return nil, err
	}
	return decodeModelReply(ctx, s.gateway, raw, s.logger)
}

func newItineraryResponse(req request_models.TravelRequest, days []response_models.ItineraryDay) *response_models.ItineraryResponse {
	return &response_models.ItineraryResponse{
		Destination:    req.Destination,
		TravelDate:     req.TravelDate,
		Days:           len(days),
		TotalDays:      req.Days,
		Preferences:    req.Preferences,
		BudgetVND:      req.BudgetVND,
		Transportation: req.Transportation,
		Dining:         req.Dining,
		Group:          req.Group,
		Accommodation:  req.Accommodation,
		Itinerary:      days,
	}
}

// selectChunkDays maps reply day numbers onto trip day numbers. Replies may number the
// chunk locally (1..size) or globally (offset+1..offset+size); anything else is dropped,
// as are repeats. The result is sorted by day.
func selectChunkDays(days []response_models.ItineraryDay, size, offset int) []response_models.ItineraryDay {
	seen := make(map[int]struct{}, len(days))
	out := make([]response_models.ItineraryDay, 0, len(days))
	for _, d := range days {
		n := d.Day
		switch {
		case n >= 1 && n <= size:
			n += offset
		case offset > 0 && n > offset && n <= offset+size:
		default:
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if d.Title == fmt.Sprintf("Day %d", d.Day) {
			d.Title = fmt.Sprintf("Day %d", n)
		}
		d.Day = n
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// assignDates sets each day's calendar date; start is the date of day offset+1.
func assignDates(days []response_models.ItineraryDay, start request_models.Date, offset int) {
	for i := range days {
		days[i].Date = start.AddDays(days[i].Day - offset - 1).String()
	}
}

func sumDailyCosts(days []response_models.ItineraryDay) int64 {
	return lo.Reduce(days, func(total int64, d response_models.ItineraryDay, _ int) int64 {
		return response_models.AddCost(total, d.DailyCost)
	}, 0)
}

func collectAddresses(days []response_models.ItineraryDay) []string {
	var out []string
	for _, d := range days {
		for _, a := range d.Activities {
			out = append(out, a.Address)
		}
	}
	return cleanAddresses(out)
}

func cleanAddresses(addresses []string) []string {
	trimmed := lo.Map(addresses, func(a string, _ int) string { return strings.TrimSpace(a) })
	return lo.Uniq(lo.Compact(trimmed))
}
