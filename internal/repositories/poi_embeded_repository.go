package repositories

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"tripplan/internal/models/db_models"
)

const (
	defaultSimilarityThreshold = 0.7
	defaultSimilarityLimit     = 15
)

type IPoiEmbededRepository interface {
	GetListOfPoiEmbededByVector(ctx context.Context, vector pgvector.Vector, limit int) ([]db_models.PoiEmbedding, error)
}

type PoiEmbededRepository struct {
	db *gorm.DB
}

func NewPoiEmbededRepository(db *gorm.DB) IPoiEmbededRepository {
	return &PoiEmbededRepository{
		db: db,
	}
}

// GetListOfPoiEmbededByVector returns the closest POIs by cosine distance above the
// similarity threshold.
func (p *PoiEmbededRepository) GetListOfPoiEmbededByVector(ctx context.Context, vector pgvector.Vector, limit int) ([]db_models.PoiEmbedding, error) {
	if limit <= 0 {
		limit = defaultSimilarityLimit
	}

	var results []db_models.PoiEmbedding
	query := `
        SELECT poi_id, name, description, province_id, category_id, tags, created_at,
               (1 - (embedding <=> ?)) AS similarity
        FROM poi_embeddings
        WHERE (1 - (embedding <=> ?)) > ?
        ORDER BY embedding <=> ?
        LIMIT ?
    `

	err := p.db.WithContext(ctx).
		Raw(query, vector, vector, defaultSimilarityThreshold, vector, limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
