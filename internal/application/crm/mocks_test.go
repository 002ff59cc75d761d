package crm

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
)

// MockCustomerRepository is a mock implementation of crm.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, search string) ([]crm.Customer, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]crm.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *crm.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

// MockReminderRepository is a mock implementation of crm.ReminderRepository
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.CommunicationReminder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.CommunicationReminder), args.Error(1)
}

func (m *MockReminderRepository) FindAll(ctx context.Context, query crm.ReminderQuery) ([]crm.CommunicationReminder, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.CommunicationReminder), args.Error(1)
}

func (m *MockReminderRepository) Save(ctx context.Context, reminder *crm.CommunicationReminder) error {
	return m.Called(ctx, reminder).Error(0)
}

func (m *MockReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReminderRepository) CountByStatus(ctx context.Context) (map[crm.ReminderStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[crm.ReminderStatus]int64), args.Error(1)
}

func (m *MockReminderRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlanRepository is a mock implementation of crm.PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.CommunicationPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.CommunicationPlan), args.Error(1)
}

func (m *MockPlanRepository) FindAll(ctx context.Context) ([]crm.CommunicationPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.CommunicationPlan), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *crm.CommunicationPlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// memoryReminders is an insertion-ordered in-memory ReminderRepository
type memoryReminders struct {
	mu    sync.Mutex
	order []uuid.UUID
	rows  map[uuid.UUID]crm.CommunicationReminder
	names map[uuid.UUID]string
}

func newMemoryReminders(customers map[uuid.UUID]string) *memoryReminders {
	return &memoryReminders{rows: map[uuid.UUID]crm.CommunicationReminder{}, names: customers}
}

func (m *memoryReminders) FindByID(_ context.Context, id uuid.UUID) (*crm.CommunicationReminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	r.CustomerName = m.names[r.CustomerID]
	return &r, nil
}

func (m *memoryReminders) FindAll(_ context.Context, q crm.ReminderQuery) ([]crm.CommunicationReminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []crm.CommunicationReminder{}
	for _, id := range m.order {
		r := m.rows[id]
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		if q.CustomerID != uuid.Nil && r.CustomerID != q.CustomerID {
			continue
		}
		r.CustomerName = m.names[r.CustomerID]
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryReminders) Save(_ context.Context, r *crm.CommunicationReminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memoryReminders) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.rows, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryReminders) CountByStatus(_ context.Context) (map[crm.ReminderStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[crm.ReminderStatus]int64{}
	for _, r := range m.rows {
		out[r.Status]++
	}
	return out, nil
}

func (m *memoryReminders) CountOverdue(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.Status == crm.ReminderStatusPending && r.DueDate.Before(now) {
			n++
		}
	}
	return n, nil
}

type recordedCommand struct {
	op  string
	err error
}

type recorderStub struct {
	mu        sync.Mutex
	reminders []recordedCommand
	plans     []recordedCommand
}

func (r *recorderStub) RecordReminderCommand(_ context.Context, op string, err error) {
	r.mu.Lock()
	r.reminders = append(r.reminders, recordedCommand{op, err})
	r.mu.Unlock()
}

func (r *recorderStub) RecordPlanCommand(_ context.Context, op string, err error) {
	r.mu.Lock()
	r.plans = append(r.plans, recordedCommand{op, err})
	r.mu.Unlock()
}
