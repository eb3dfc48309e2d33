package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"tripplan/internal/models/db_models"
)

type TravelPlanRepository interface {
	Create(ctx context.Context, plan *db_models.TravelPlan) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.TravelPlan, error)
	UpdateResponse(ctx context.Context, plan *db_models.TravelPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]db_models.TravelPlan, error)
}

type travelPlanRepository struct {
	db *gorm.DB
}

func NewTravelPlanRepository(db *gorm.DB) TravelPlanRepository {
	return &travelPlanRepository{db: db}
}

func (r *travelPlanRepository) Create(ctx context.Context, plan *db_models.TravelPlan) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return uuid.Nil, err
	}
	return plan.ID, nil
}

// GetByID returns nil, nil when no plan exists.
func (r *travelPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.TravelPlan, error) {
	var plan db_models.TravelPlan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *travelPlanRepository) UpdateResponse(ctx context.Context, plan *db_models.TravelPlan) error {
	result := r.db.WithContext(ctx).
		Model(plan).
		Select("response_json", "generated_days", "has_more", "destination", "updated_at").
		Updates(plan)
	if result.Error != nil {
		return fmt.Errorf("failed to update travel plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *travelPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&db_models.TravelPlan{}, "id = ?", id).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (r *travelPlanRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]db_models.TravelPlan, error) {
	var plans []db_models.TravelPlan
	err := r.db.WithContext(ctx).
		Omit("request_json", "response_json").
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}
