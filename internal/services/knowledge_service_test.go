package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"tripplan/internal/models/db_models"
)

type fakeEmbedder struct {
	err     error
	queries []string
}

func (f *fakeEmbedder) GetEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return pgvector.Vector{}, f.err
	}
	return pgvector.NewVector([]float32{0.1, 0.2}), nil
}

type fakeEmbeddingRepo struct {
	matches []db_models.PoiEmbedding
	err     error
	limit   int
}

func (f *fakeEmbeddingRepo) GetListOfPoiEmbededByVector(_ context.Context, _ pgvector.Vector, limit int) ([]db_models.PoiEmbedding, error) {
	f.limit = limit
	return f.matches, f.err
}

type fakePOIRepo struct {
	pois []db_models.POI
	err  error
	ids  []string
}

func (f *fakePOIRepo) ListPoisByPoisId(_ context.Context, ids []string) ([]db_models.POI, error) {
	f.ids = ids
	return f.pois, f.err
}

func TestRelatedKnowledgeFormatsPlaces(t *testing.T) {
	lakeID, marketID := uuid.New(), uuid.New()
	embedder := &fakeEmbedder{}
	embeddings := &fakeEmbeddingRepo{matches: []db_models.PoiEmbedding{
		{PoiID: lakeID.String(), Similarity: 0.91},
		{PoiID: marketID.String(), Similarity: 0.84},
	}}
	lake := db_models.POI{Name: "Xuan Huong Lake", Address: "Tran Quoc Toan, Da Lat", OpeningHours: "24/7"}
	lake.ID = lakeID
	lake.Details.Description = "Crescent lake in the city centre"
	market := db_models.POI{Name: "Da Lat Night Market"}
	market.ID = marketID
	pois := &fakePOIRepo{pois: []db_models.POI{lake, market}}

	svc := NewKnowledgeService(embedder, embeddings, pois, zap.NewNop())
	text := svc.RelatedKnowledge(context.Background(), newTestRequest(3))

	assert.Equal(t, []string{"Da Lat coffee, nature motorbike"}, embedder.queries)
	assert.Equal(t, relatedPlacesLimit, embeddings.limit)
	assert.Equal(t, []string{lakeID.String(), marketID.String()}, pois.ids)
	assert.Equal(t, "1. Xuan Huong Lake\n"+
		"   - Crescent lake in the city centre\n"+
		"   - Address: Tran Quoc Toan, Da Lat\n"+
		"   - Hours: 24/7\n"+
		"2. Da Lat Night Market", text)
}

func TestRelatedKnowledgeDegradesToEmpty(t *testing.T) {
	req := newTestRequest(2)

	t.Run("embedding error", func(t *testing.T) {
		svc := NewKnowledgeService(&fakeEmbedder{err: errors.New("down")}, &fakeEmbeddingRepo{}, &fakePOIRepo{}, zap.NewNop())
		assert.Empty(t, svc.RelatedKnowledge(context.Background(), req))
	})

	t.Run("no matches", func(t *testing.T) {
		pois := &fakePOIRepo{}
		svc := NewKnowledgeService(&fakeEmbedder{}, &fakeEmbeddingRepo{}, pois, zap.NewNop())
		assert.Empty(t, svc.RelatedKnowledge(context.Background(), req))
		assert.Nil(t, pois.ids)
	})

	t.Run("search error", func(t *testing.T) {
		svc := NewKnowledgeService(&fakeEmbedder{}, &fakeEmbeddingRepo{err: errors.New("no vector extension")}, &fakePOIRepo{}, zap.NewNop())
		assert.Empty(t, svc.RelatedKnowledge(context.Background(), req))
	})

	t.Run("poi lookup error", func(t *testing.T) {
		embeddings := &fakeEmbeddingRepo{matches: []db_models.PoiEmbedding{{PoiID: uuid.NewString()}}}
		svc := NewKnowledgeService(&fakeEmbedder{}, embeddings, &fakePOIRepo{err: errors.New("timeout")}, zap.NewNop())
		assert.Empty(t, svc.RelatedKnowledge(context.Background(), req))
	})
}
