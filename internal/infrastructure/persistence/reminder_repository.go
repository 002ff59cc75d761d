package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
	"github.com/wealthcrm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReminderRepository implements crm.ReminderRepository using GORM
type GormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GormReminderRepository
func NewGormReminderRepository(db *gorm.DB) *GormReminderRepository {
	return &GormReminderRepository{db: db}
}

// withCustomer selects reminders joined with their customer's name
func (r *GormReminderRepository) withCustomer(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ReminderModel{}).
		Select("communication_reminders.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = communication_reminders.customer_id")
}

// FindByID finds a reminder by its ID
func (r *GormReminderRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.CommunicationReminder, error) {
	var model models.ReminderModel
	if err := r.withCustomer(ctx).Where("communication_reminders.id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewStoreError("find reminder", err)
	}
	return model.ToDomain(), nil
}

// FindAll returns reminders matching the query in insertion order
func (r *GormReminderRepository) FindAll(ctx context.Context, q crm.ReminderQuery) ([]crm.CommunicationReminder, error) {
	query := r.withCustomer(ctx)
	if q.Status != "" {
		query = query.Where("communication_reminders.status = ?", q.Status)
	}
	if q.CustomerID != uuid.Nil {
		query = query.Where("communication_reminders.customer_id = ?", q.CustomerID)
	}

	var rows []models.ReminderModel
	if err := query.Order(insertionOrder(r.db, "communication_reminders")).Find(&rows).Error; err != nil {
		return nil, shared.NewStoreError("list reminders", err)
	}

	reminders := make([]crm.CommunicationReminder, len(rows))
	for i := range rows {
		reminders[i] = *rows[i].ToDomain()
	}
	return reminders, nil
}

// Save creates or updates a reminder
func (r *GormReminderRepository) Save(ctx context.Context, reminder *crm.CommunicationReminder) error {
	model := models.ReminderModelFromDomain(reminder)
	return shared.NewStoreError("save reminder", r.db.WithContext(ctx).Save(model).Error)
}

// Delete removes a reminder, returning ErrNotFound when nothing was deleted
func (r *GormReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReminderModel{}, "id = ?", id)
	if result.Error != nil {
		return shared.NewStoreError("delete reminder", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of reminders per status
func (r *GormReminderRepository) CountByStatus(ctx context.Context) (map[crm.ReminderStatus]int64, error) {
	var rows []struct {
		Status crm.ReminderStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ReminderModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, shared.NewStoreError("count reminders", err)
	}

	counts := make(map[crm.ReminderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountOverdue counts pending reminders due strictly before now
func (r *GormReminderRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReminderModel{}).
		Where("status = ? AND due_date < ?", crm.ReminderStatusPending, now.UTC()).
		Count(&count).Error
	if err != nil {
		return 0, shared.NewStoreError("count overdue reminders", err)
	}
	return count, nil
}

// Ensure GormReminderRepository implements crm.ReminderRepository
var _ crm.ReminderRepository = (*GormReminderRepository)(nil)
