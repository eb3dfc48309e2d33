package repositories

import (
	"context"

	"gorm.io/gorm"
	"tripplan/internal/models/db_models"
)

type POIRepository interface {
	ListPoisByPoisId(ctx context.Context, ids []string) ([]db_models.POI, error)
}

type poiRepository struct {
	db *gorm.DB
}

func NewPOIRepository(db *gorm.DB) POIRepository {
	return &poiRepository{db: db}
}

// ListPoisByPoisId loads POIs with their details, keeping the order of ids.
func (r *poiRepository) ListPoisByPoisId(ctx context.Context, ids []string) ([]db_models.POI, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var pois []db_models.POI
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("id IN ?", ids).
		Find(&pois).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[string]db_models.POI, len(pois))
	for _, p := range pois {
		byID[p.ID.String()] = p
	}
	ordered := make([]db_models.POI, 0, len(pois))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
