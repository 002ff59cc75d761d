package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
	"github.com/wealthcrm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPlanRepository implements crm.PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

func (r *GormPlanRepository) withCustomer(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.PlanModel{}).
		Select("communication_plans.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = communication_plans.customer_id")
}

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.CommunicationPlan, error) {
	var model models.PlanModel
	if err := r.withCustomer(ctx).Where("communication_plans.id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewStoreError("find plan", err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every plan in insertion order
func (r *GormPlanRepository) FindAll(ctx context.Context) ([]crm.CommunicationPlan, error) {
	var rows []models.PlanModel
	if err := r.withCustomer(ctx).Order(insertionOrder(r.db, "communication_plans")).Find(&rows).Error; err != nil {
		return nil, shared.NewStoreError("list plans", err)
	}

	plans := make([]crm.CommunicationPlan, len(rows))
	for i := range rows {
		plans[i] = *rows[i].ToDomain()
	}
	return plans, nil
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *crm.CommunicationPlan) error {
	model := models.PlanModelFromDomain(plan)
	return shared.NewStoreError("save plan", r.db.WithContext(ctx).Save(model).Error)
}

// Delete removes a plan, returning ErrNotFound when nothing was deleted
func (r *GormPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PlanModel{}, "id = ?", id)
	if result.Error != nil {
		return shared.NewStoreError("delete plan", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPlanRepository implements crm.PlanRepository
var _ crm.PlanRepository = (*GormPlanRepository)(nil)
