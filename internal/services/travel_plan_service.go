package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"tripplan/internal/models/db_models"
	"tripplan/internal/models/request_models"
	"tripplan/internal/models/response_models"
	"tripplan/internal/repositories"
	"tripplan/pkg/utils"
)

const maxPageSize = 100

type TravelPlanServiceInterface interface {
	CreatePlan(ctx context.Context, accountID uuid.UUID, req request_models.TravelRequest) (*response_models.TravelPlanResponse, error)
	GenerateNextChunk(ctx context.Context, accountID, planID uuid.UUID, req request_models.GenerateChunkRequest) (*response_models.ChunkPlanResponse, error)
	UpdatePlan(ctx context.Context, accountID, planID uuid.UUID, req request_models.UpdateItineraryRequest) (*response_models.UpdatePlanResponse, error)
	GetPlan(ctx context.Context, accountID, planID uuid.UUID) (*response_models.TravelPlanResponse, error)
	ListPlans(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]response_models.TravelPlanSummary, error)
	DeletePlan(ctx context.Context, accountID, planID uuid.UUID) error
}

type TravelPlanService struct {
	itineraries ItineraryServiceInterface
	knowledge   KnowledgeServiceInterface
	planRepo    repositories.TravelPlanRepository
	logger      *zap.Logger
}

func NewTravelPlanService(
	itineraries ItineraryServiceInterface,
	knowledge KnowledgeServiceInterface,
	planRepo repositories.TravelPlanRepository,
	logger *zap.Logger,
) TravelPlanServiceInterface {
	return &TravelPlanService{
		itineraries: itineraries,
		knowledge:   knowledge,
		planRepo:    planRepo,
		logger:      logger,
	}
}

func (s *TravelPlanService) CreatePlan(ctx context.Context, accountID uuid.UUID, req request_models.TravelRequest) (*response_models.TravelPlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	knowledge := s.knowledge.RelatedKnowledge(ctx, req)
	itinerary, err := s.itineraries.GenerateItinerary(ctx, req, knowledge)
	if err != nil {
		return nil, err
	}
	if want := chunkDays(0, req.Days); !coversDays(itinerary.Itinerary, 1, want) {
		s.logger.Warn("first chunk is incomplete, not storing plan",
			zap.Int("want_days", want),
			zap.Int("got_days", len(itinerary.Itinerary)))
		return nil, fmt.Errorf("%w: got %d of the first %d days", utils.ErrInvalidOrEmptyItinerary, len(itinerary.Itinerary), want)
	}

	requestJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode travel request: %w", err)
	}
	plan := &db_models.TravelPlan{
		AccountID:   accountID,
		Destination: req.Destination,
		TravelDate:  req.TravelDate.Time,
		Days:        req.Days,
		Tags:        req.Tags(),
		RequestJSON: string(requestJSON),
	}
	if err := setPlanItinerary(plan, itinerary); err != nil {
		return nil, err
	}

	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		s.logger.Error("failed to store travel plan", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	s.logger.Info("travel plan created",
		zap.String("plan_id", plan.ID.String()),
		zap.String("account_id", accountID.String()),
		zap.Int("generated_days", plan.GeneratedDays))
	return &response_models.TravelPlanResponse{
		PlanID:    plan.ID,
		Itinerary: itinerary,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}, nil
}

// GenerateNextChunk appends the next block of days to a plan. Chunks are generated in
// order, so an explicit chunk index must match the next missing block. A chunk that comes
// back with missing days is not stored, which keeps stored days on the chunk grid.
func (s *TravelPlanService) GenerateNextChunk(ctx context.Context, accountID, planID uuid.UUID, req request_models.GenerateChunkRequest) (*response_models.ChunkPlanResponse, error) {
	plan, travelReq, itinerary, err := s.loadPlan(ctx, accountID, planID)
	if err != nil {
		return nil, err
	}

	lastDay := 0
	if len(itinerary.Itinerary) > 0 {
		lastDay = lo.MaxBy(itinerary.Itinerary, func(a, b response_models.ItineraryDay) bool { return a.Day > b.Day }).Day
	}
	if lastDay >= travelReq.Days {
		return nil, fmt.Errorf("%w: all %d days are already generated", utils.ErrInvalidInput, travelReq.Days)
	}
	if lastDay%MaxDaysPerChunk != 0 {
		return nil, fmt.Errorf("%w: day %d does not end a chunk", utils.ErrInvalidInput, lastDay)
	}

	chunkIndex := lastDay / MaxDaysPerChunk
	if req.ChunkIndex != nil && *req.ChunkIndex != chunkIndex {
		return nil, fmt.Errorf("%w: next chunk is %d", utils.ErrInvalidInput, chunkIndex)
	}
	chunkSize := chunkDays(lastDay, travelReq.Days)
	if req.ChunkSize != 0 && req.ChunkSize < chunkSize {
		return nil, fmt.Errorf("%w: chunk %d needs %d days", utils.ErrInvalidInput, chunkIndex, chunkSize)
	}

	startDate := travelReq.TravelDate.AddDays(lastDay)
	if itinerary.NextStartDate != nil {
		startDate = *itinerary.NextStartDate
	}

	knowledge := s.knowledge.RelatedKnowledge(ctx, travelReq)
	chunk, err := s.itineraries.GenerateChunk(ctx, travelReq, startDate, chunkSize, chunkIndex, knowledge, collectAddresses(itinerary.Itinerary))
	if err != nil {
		return nil, err
	}
	if !coversDays(chunk.Days, lastDay+1, chunkSize) {
		s.logger.Warn("chunk is incomplete, not storing it",
			zap.String("plan_id", planID.String()),
			zap.Int("chunk_index", chunkIndex),
			zap.Int("want_days", chunkSize),
			zap.Int("got_days", len(chunk.Days)))
		return nil, fmt.Errorf("%w: chunk %d returned %d of %d days", utils.ErrInvalidOrEmptyItinerary, chunkIndex, len(chunk.Days), chunkSize)
	}

	itinerary.Itinerary = append(itinerary.Itinerary, chunk.Days...)
	itinerary.Days = len(itinerary.Itinerary)
	itinerary.TotalCost = response_models.AddCost(itinerary.TotalCost, chunk.ChunkCost)
	itinerary.HasMore = chunk.HasMore
	itinerary.NextStartDate = chunk.NextStartDate

	if err := s.saveItinerary(ctx, plan, itinerary); err != nil {
		return nil, err
	}

	s.logger.Info("travel plan chunk appended",
		zap.String("plan_id", planID.String()),
		zap.Int("chunk_index", chunkIndex),
		zap.Int("generated_days", plan.GeneratedDays))
	return &response_models.ChunkPlanResponse{
		PlanID:    planID,
		Chunk:     chunk,
		Itinerary: itinerary,
	}, nil
}

// UpdatePlan applies an edit instruction to the whole plan or to a day range. The plan is
// only written back when something changed.
func (s *TravelPlanService) UpdatePlan(ctx context.Context, accountID, planID uuid.UUID, req request_models.UpdateItineraryRequest) (*response_models.UpdatePlanResponse, error) {
	plan, travelReq, itinerary, err := s.loadPlan(ctx, accountID, planID)
	if err != nil {
		return nil, err
	}

	var result *response_models.UpdateResult
	if req.StartDay != nil {
		chunkSize := MaxDaysPerChunk
		if req.ChunkSize != nil {
			chunkSize = *req.ChunkSize
		}
		result, err = s.itineraries.UpdateItineraryChunk(ctx, travelReq, itinerary, req.Instruction, *req.StartDay, chunkSize)
	} else {
		result, err = s.itineraries.UpdateItinerary(ctx, travelReq, itinerary, req.Instruction)
	}
	if err != nil {
		return nil, err
	}

	if result.Changed {
		if err := s.saveItinerary(ctx, plan, result.Itinerary); err != nil {
			return nil, err
		}
	}

	return &response_models.UpdatePlanResponse{
		PlanID:    planID,
		Changed:   result.Changed,
		Message:   result.Message,
		Itinerary: result.Itinerary,
	}, nil
}

func (s *TravelPlanService) GetPlan(ctx context.Context, accountID, planID uuid.UUID) (*response_models.TravelPlanResponse, error) {
	plan, _, itinerary, err := s.loadPlan(ctx, accountID, planID)
	if err != nil {
		return nil, err
	}
	return &response_models.TravelPlanResponse{
		PlanID:    plan.ID,
		Itinerary: itinerary,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}, nil
}

func (s *TravelPlanService) ListPlans(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]response_models.TravelPlanSummary, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	plans, err := s.planRepo.ListByAccount(ctx, accountID, page, pageSize)
	if err != nil {
		s.logger.Error("failed to list travel plans", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	return lo.Map(plans, func(p db_models.TravelPlan, _ int) response_models.TravelPlanSummary {
		return response_models.TravelPlanSummary{
			PlanID:        p.ID,
			Destination:   p.Destination,
			TravelDate:    request_models.NewDate(p.TravelDate),
			Days:          p.Days,
			GeneratedDays: p.GeneratedDays,
			HasMore:       p.HasMore,
			Tags:          p.Tags,
			CreatedAt:     p.CreatedAt,
		}
	}), nil
}

func (s *TravelPlanService) DeletePlan(ctx context.Context, accountID, planID uuid.UUID) error {
	if _, err := s.ownedPlan(ctx, accountID, planID); err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, planID); err != nil {
		s.logger.Error("failed to delete travel plan", zap.String("plan_id", planID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

// ownedPlan hides plans of other accounts behind ErrPlanNotFound.
func (s *TravelPlanService) ownedPlan(ctx context.Context, accountID, planID uuid.UUID) (*db_models.TravelPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		s.logger.Error("failed to load travel plan", zap.String("plan_id", planID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if plan == nil || plan.AccountID != accountID {
		return nil, utils.ErrPlanNotFound
	}
	return plan, nil
}

func (s *TravelPlanService) loadPlan(ctx context.Context, accountID, planID uuid.UUID) (*db_models.TravelPlan, request_models.TravelRequest, *response_models.ItineraryResponse, error) {
	var req request_models.TravelRequest

	plan, err := s.ownedPlan(ctx, accountID, planID)
	if err != nil {
		return nil, req, nil, err
	}
	if err := json.Unmarshal([]byte(plan.RequestJSON), &req); err != nil {
		s.logger.Error("stored travel request is corrupt", zap.String("plan_id", planID.String()), zap.Error(err))
		return nil, req, nil, utils.ErrDatabaseError
	}
	var itinerary response_models.ItineraryResponse
	if err := json.Unmarshal([]byte(plan.ResponseJSON), &itinerary); err != nil {
		s.logger.Error("stored itinerary is corrupt", zap.String("plan_id", planID.String()), zap.Error(err))
		return nil, req, nil, utils.ErrDatabaseError
	}
	return plan, req, &itinerary, nil
}

func (s *TravelPlanService) saveItinerary(ctx context.Context, plan *db_models.TravelPlan, itinerary *response_models.ItineraryResponse) error {
	if err := setPlanItinerary(plan, itinerary); err != nil {
		return err
	}
	if err := s.planRepo.UpdateResponse(ctx, plan); err != nil {
		s.logger.Error("failed to update travel plan", zap.String("plan_id", plan.ID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

// chunkDays is the length of the block that follows lastDay. Only the final block of a
// trip may be shorter than MaxDaysPerChunk.
func chunkDays(lastDay, totalDays int) int {
	return min(MaxDaysPerChunk, totalDays-lastDay)
}

// coversDays reports whether days are exactly from, from+1, ..., from+n-1 in order.
func coversDays(days []response_models.ItineraryDay, from, n int) bool {
	if len(days) != n {
		return false
	}
	for i, d := range days {
		if d.Day != from+i {
			return false
		}
	}
	return true
}

func setPlanItinerary(plan *db_models.TravelPlan, itinerary *response_models.ItineraryResponse) error {
	data, err := json.Marshal(itinerary)
	if err != nil {
		return fmt.Errorf("failed to encode itinerary: %w", err)
	}
	plan.ResponseJSON = string(data)
	plan.GeneratedDays = len(itinerary.Itinerary)
	plan.HasMore = itinerary.HasMore
	return nil
}
