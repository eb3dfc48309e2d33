package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"tripplan/internal/models/request_models"
	"tripplan/internal/models/response_models"
	"tripplan/pkg/utils"
)

type fakePlanService struct {
	err error

	createdFor  uuid.UUID
	createdReq  request_models.TravelRequest
	chunkReq    request_models.GenerateChunkRequest
	updateReq   request_models.UpdateItineraryRequest
	listedPage  []int
	deletedPlan uuid.UUID
}

func (f *fakePlanService) CreatePlan(_ context.Context, accountID uuid.UUID, req request_models.TravelRequest) (*response_models.TravelPlanResponse, error) {
	f.createdFor, f.createdReq = accountID, req
	if f.err != nil {
		return nil, f.err
	}
	return &response_models.TravelPlanResponse{PlanID: uuid.New(), Itinerary: &response_models.ItineraryResponse{Destination: req.Destination}}, nil
}

func (f *fakePlanService) GenerateNextChunk(_ context.Context, _, planID uuid.UUID, req request_models.GenerateChunkRequest) (*response_models.ChunkPlanResponse, error) {
	f.chunkReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &response_models.ChunkPlanResponse{PlanID: planID}, nil
}

func (f *fakePlanService) UpdatePlan(_ context.Context, _, planID uuid.UUID, req request_models.UpdateItineraryRequest) (*response_models.UpdatePlanResponse, error) {
	f.updateReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &response_models.UpdatePlanResponse{PlanID: planID, Changed: false, Message: "No changes were required for this request"}, nil
}

func (f *fakePlanService) GetPlan(_ context.Context, _, planID uuid.UUID) (*response_models.TravelPlanResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &response_models.TravelPlanResponse{PlanID: planID}, nil
}

func (f *fakePlanService) ListPlans(_ context.Context, _ uuid.UUID, page, pageSize int) ([]response_models.TravelPlanSummary, error) {
	f.listedPage = []int{page, pageSize}
	if f.err != nil {
		return nil, f.err
	}
	return []response_models.TravelPlanSummary{}, nil
}

func (f *fakePlanService) DeletePlan(_ context.Context, _, planID uuid.UUID) error {
	f.deletedPlan = planID
	return f.err
}

func newTestRouter(svc *fakePlanService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})

	ctrl := NewItineraryController(svc, zap.NewNop())
	g := r.Group("/api/v1/itineraries")
	g.POST("/generate", ctrl.GenerateItinerary)
	g.POST("/:planId/chunks", ctrl.GenerateChunk)
	g.POST("/:planId/update", ctrl.UpdateItinerary)
	g.GET("/:planId", ctrl.GetItinerary)
	g.GET("", ctrl.ListItineraries)
	g.DELETE("/:planId", ctrl.DeleteItinerary)
	return r
}

func perform(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, utils.APIResponse) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp utils.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestGenerateItineraryCreatesPlan(t *testing.T) {
	svc := &fakePlanService{}
	user := uuid.New()
	r := newTestRouter(svc, user.String())

	w, resp := perform(r, http.MethodPost, "/api/v1/itineraries/generate",
		`{"destination": "Da Lat", "travel_date": "2025-03-10", "days": 5, "budget_vnd": 5000000, "preferences": "coffee"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, user, svc.createdFor)
	assert.Equal(t, "Da Lat", svc.createdReq.Destination)
	assert.Equal(t, 5, svc.createdReq.Days)
	assert.Equal(t, "2025-03-10", svc.createdReq.TravelDate.String())
}

func TestGenerateItineraryRejectsBadBody(t *testing.T) {
	r := newTestRouter(&fakePlanService{}, uuid.NewString())

	w, _ := perform(r, http.MethodPost, "/api/v1/itineraries/generate", `{"destination": "Da Lat", "days": 45}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(r, http.MethodPost, "/api/v1/itineraries/generate", `{"destination": "Da Lat", "travel_date": "next week", "days": 2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestsWithoutUserAreUnauthorized(t *testing.T) {
	r := newTestRouter(&fakePlanService{}, "")

	w, resp := perform(r, http.MethodGet, "/api/v1/itineraries", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "error", resp.Status)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{utils.ErrPlanNotFound, http.StatusNotFound},
		{utils.ErrInvalidInput, http.StatusBadRequest},
		{utils.ErrInvalidOrEmptyItinerary, http.StatusUnprocessableEntity},
		{&utils.UnparseableModelOutputError{Raw: "x"}, http.StatusBadGateway},
		{utils.ErrExternalService, http.StatusBadGateway},
		{utils.ErrDatabaseError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		r := newTestRouter(&fakePlanService{err: tt.err}, uuid.NewString())
		w, _ := perform(r, http.MethodGet, "/api/v1/itineraries/"+uuid.NewString(), "")
		assert.Equal(t, tt.want, w.Code, tt.err.Error())
	}
}

func TestInvalidPlanIDIsBadRequest(t *testing.T) {
	r := newTestRouter(&fakePlanService{}, uuid.NewString())

	w, _ := perform(r, http.MethodDelete, "/api/v1/itineraries/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateChunkAcceptsEmptyBody(t *testing.T) {
	svc := &fakePlanService{}
	r := newTestRouter(svc, uuid.NewString())

	w, _ := perform(r, http.MethodPost, "/api/v1/itineraries/"+uuid.NewString()+"/chunks", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.chunkReq.ChunkIndex)

	w, _ = perform(r, http.MethodPost, "/api/v1/itineraries/"+uuid.NewString()+"/chunks", `{"chunk_index": 1, "chunk_size": 2}`)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.chunkReq.ChunkIndex)
	assert.Equal(t, 1, *svc.chunkReq.ChunkIndex)
	assert.Equal(t, 2, svc.chunkReq.ChunkSize)

	w, _ = perform(r, http.MethodPost, "/api/v1/itineraries/"+uuid.NewString()+"/chunks", `{"chunk_size": 9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateItineraryReturnsServiceMessage(t *testing.T) {
	svc := &fakePlanService{}
	r := newTestRouter(svc, uuid.NewString())

	w, resp := perform(r, http.MethodPost, "/api/v1/itineraries/"+uuid.NewString()+"/update", `{"instruction": "more food", "start_day": 2}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No changes were required for this request", resp.Message)
	assert.Equal(t, "more food", svc.updateReq.Instruction)
	require.NotNil(t, svc.updateReq.StartDay)
	assert.Equal(t, 2, *svc.updateReq.StartDay)

	w, _ = perform(r, http.MethodPost, "/api/v1/itineraries/"+uuid.NewString()+"/update", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListItinerariesPagination(t *testing.T) {
	svc := &fakePlanService{}
	r := newTestRouter(svc, uuid.NewString())

	w, _ := perform(r, http.MethodGet, "/api/v1/itineraries?page=2&pageSize=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{2, 5}, svc.listedPage)

	w, _ = perform(r, http.MethodGet, "/api/v1/itineraries?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteItinerary(t *testing.T) {
	svc := &fakePlanService{}
	r := newTestRouter(svc, uuid.NewString())
	planID := uuid.New()

	w, _ := perform(r, http.MethodDelete, "/api/v1/itineraries/"+planID.String(), "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, planID, svc.deletedPlan)
}
