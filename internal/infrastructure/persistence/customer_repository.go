package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
	"github.com/wealthcrm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements crm.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewStoreError("find customer", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists customers ordered by name, optionally filtered by a
// case-insensitive name or email search
func (r *GormCustomerRepository) FindAll(ctx context.Context, search string) ([]crm.Customer, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var rows []models.CustomerModel
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, shared.NewStoreError("list customers", err)
	}

	customers := make([]crm.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, nil
}

// ExistsByID checks whether a customer exists
func (r *GormCustomerRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, shared.NewStoreError("check customer", err)
	}
	return count > 0, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *crm.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return shared.NewStoreError("save customer", r.db.WithContext(ctx).Save(model).Error)
}

// Ensure GormCustomerRepository implements crm.CustomerRepository
var _ crm.CustomerRepository = (*GormCustomerRepository)(nil)
