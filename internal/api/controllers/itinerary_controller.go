package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"tripplan/internal/models/request_models"
	"tripplan/internal/services"
	"tripplan/pkg/utils"
)

type ItineraryController struct {
	planService services.TravelPlanServiceInterface
	logger      *zap.Logger
}

func NewItineraryController(planService services.TravelPlanServiceInterface, logger *zap.Logger) *ItineraryController {
	return &ItineraryController{
		planService: planService,
		logger:      logger,
	}
}

// GenerateItinerary godoc
// @Summary Generate an itinerary
// @Description Generate the first days of a trip and store it as a travel plan. Trips longer than three days are continued through the chunks endpoint.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.TravelRequest true "Trip details"
// @Success 201 {object} response_models.TravelPlanResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/generate [post]
func (i *ItineraryController) GenerateItinerary(c *gin.Context) {
	accountID, ok := i.accountID(c)
	if !ok {
		return
	}

	var req request_models.TravelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	plan, err := i.planService.CreatePlan(c.Request.Context(), accountID, req)
	if err != nil {
		utils.HandleServiceError(c, i.logger, err)
		return
	}

	utils.RespondWithStatus(c, http.StatusCreated, plan, "Itinerary generated successfully")
}

// GenerateChunk godoc
// @Summary Generate the next chunk of days
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param request body request_models.GenerateChunkRequest false "Chunk index and size"
// @Success 200 {object} response_models.ChunkPlanResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{planId}/chunks [post]
func (i *ItineraryController) GenerateChunk(c *gin.Context) {
	accountID, ok := i.accountID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	var req request_models.GenerateChunkRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	chunk, err := i.planService.GenerateNextChunk(c.Request.Context(), accountID, planID, req)
	if err != nil {
		utils.HandleServiceError(c, i.logger, err)
		return
	}

	utils.RespondSuccess(c, chunk, "Chunk generated successfully")
}

// UpdateItinerary godoc
// @Summary Edit an itinerary
// @Description Apply a free-form instruction to the whole plan, or to the days starting at start_day.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param request body request_models.UpdateItineraryRequest true "Instruction and optional day range"
// @Success 200 {object} response_models.UpdatePlanResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{planId}/update [post]
func (i *ItineraryController) UpdateItinerary(c *gin.Context) {
	accountID, ok := i.accountID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	var req request_models.UpdateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Instruction is required")
		return
	}

	result, err := i.planService.UpdatePlan(c.Request.Context(), accountID, planID, req)
	if err != nil {
		utils.HandleServiceError(c, i.logger, err)
		return
	}

	utils.RespondSuccess(c, result, result.Message)
}

// GetItinerary godoc
// @Summary Get a stored itinerary
// @Tags Itinerary
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} response_models.TravelPlanResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{planId} [get]
func (i *ItineraryController) GetItinerary(c *gin.Context) {
	accountID, ok := i.accountID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	plan, err := i.planService.GetPlan(c.Request.Context(), accountID, planID)
	if err != nil {
		utils.HandleServiceError(c, i.logger, err)
		return
	}

	utils.RespondSuccess(c, plan, "Itinerary fetched successfully")
}

// ListItineraries godoc
// @Summary List stored itineraries
// @Tags Itinerary
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {array} response_models.TravelPlanSummary
// @Security BearerAuth
// @Router /itineraries [get]
func (i *ItineraryController) ListItineraries(c *gin.Context) {
	accountID, ok := i.accountID(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	plans, err := i.planService.ListPlans(c.Request.Context(), accountID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, i.logger, err)
		return
	}

	utils.RespondSuccess(c, plans, "Itineraries fetched successfully")
}

// DeleteItinerary godoc
// @Summary Delete a stored itinerary
// @Tags Itinerary
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{planId} [delete]
func (i *ItineraryController) DeleteItinerary(c *gin.Context) {
	accountID, ok := i.accountID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	if err := i.planService.DeletePlan(c.Request.Context(), accountID, planID); err != nil {
		utils.HandleServiceError(c, i.logger, err)
		return
	}

	utils.RespondSuccess(c, nil, "Itinerary deleted successfully")
}

func (i *ItineraryController) accountID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

func planIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("planId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan ID")
		return uuid.Nil, false
	}
	return id, true
}
