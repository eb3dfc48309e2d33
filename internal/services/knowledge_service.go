package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"tripplan/internal/models/db_models"
	"tripplan/internal/models/request_models"
	"tripplan/internal/repositories"
	"tripplan/pkg/utils"
)

const relatedPlacesLimit = 15

type KnowledgeServiceInterface interface {
	// RelatedKnowledge returns a text block of places relevant to the request, or "" when
	// nothing relevant could be found.
	RelatedKnowledge(ctx context.Context, req request_models.TravelRequest) string
}

type KnowledgeService struct {
	embedder    utils.EmbeddingClientInterface
	embededRepo repositories.IPoiEmbededRepository
	poisRepo    repositories.POIRepository
	logger      *zap.Logger
}

func NewKnowledgeService(
	embedder utils.EmbeddingClientInterface,
	embededRepo repositories.IPoiEmbededRepository,
	poisRepo repositories.POIRepository,
	logger *zap.Logger,
) KnowledgeServiceInterface {
	return &KnowledgeService{
		embedder:    embedder,
		embededRepo: embededRepo,
		poisRepo:    poisRepo,
		logger:      logger,
	}
}

func (k *KnowledgeService) RelatedKnowledge(ctx context.Context, req request_models.TravelRequest) string {
	query := knowledgeQuery(req)

	vector, err := k.embedder.GetEmbedding(ctx, query)
	if err != nil {
		k.logger.Warn("knowledge embedding failed", zap.String("destination", req.Destination), zap.Error(err))
		return ""
	}

	matches, err := k.embededRepo.GetListOfPoiEmbededByVector(ctx, vector, relatedPlacesLimit)
	if err != nil {
		k.logger.Warn("knowledge similarity search failed", zap.Error(err))
		return ""
	}
	if len(matches) == 0 {
		return ""
	}

	ids := lo.Map(matches, func(m db_models.PoiEmbedding, _ int) string { return m.PoiID })
	pois, err := k.poisRepo.ListPoisByPoisId(ctx, ids)
	if err != nil {
		k.logger.Warn("knowledge poi lookup failed", zap.Error(err))
		return ""
	}

	k.logger.Debug("related places found",
		zap.String("destination", req.Destination),
		zap.Int("matches", len(matches)),
		zap.Int("pois", len(pois)))
	return formatRelatedPlaces(pois)
}

func knowledgeQuery(req request_models.TravelRequest) string {
	parts := []string{req.Destination, req.Preferences}
	parts = append(parts, req.Tags()...)
	return strings.Join(lo.Compact(lo.Map(parts, func(s string, _ int) string { return strings.TrimSpace(s) })), " ")
}

func formatRelatedPlaces(pois []db_models.POI) string {
	if len(pois) == 0 {
		return ""
	}

	var b strings.Builder
	for i, poi := range pois {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, poi.Name))
		if poi.Details.Description != "" {
			b.WriteString(fmt.Sprintf("   - %s\n", poi.Details.Description))
		}
		if poi.Address != "" {
			b.WriteString(fmt.Sprintf("   - Address: %s\n", poi.Address))
		}
		if poi.OpeningHours != "" {
			b.WriteString(fmt.Sprintf("   - Hours: %s\n", poi.OpeningHours))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
