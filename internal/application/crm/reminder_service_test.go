package crm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
)

var fixedNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }

// newRoundTripService wires a ReminderService over in-memory storage with one known customer
func newRoundTripService(t *testing.T) (*ReminderService, uuid.UUID) {
	t.Helper()
	customerID := uuid.New()
	customers := new(MockCustomerRepository)
	customers.On("ExistsByID", mock.Anything, customerID).Return(true, nil)
	customers.On("ExistsByID", mock.Anything, mock.Anything).Return(false, nil)

	store := newMemoryReminders(map[uuid.UUID]string{customerID: "Alice Zhang"})
	return NewReminderService(store, customers, WithClock(fixedClock)), customerID
}

func TestReminderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and returns stored reminder", func(t *testing.T) {
		svc, customerID := newRoundTripService(t)

		resp, err := svc.Create(ctx, CreateReminderRequest{
			CustomerID: customerID.String(),
			Title:      "  Quarterly review  ",
			DueDate:    "2025-04-01",
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Equal(t, "Quarterly review", resp.Title)
		assert.Equal(t, "medium", resp.Priority)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "follow_up", resp.Type)
		assert.Equal(t, "Alice Zhang", resp.CustomerName)
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), resp.DueDate)
		assert.Equal(t, fixedNow, resp.CreatedAt)
		assert.Nil(t, resp.CompletedAt)
	})

	t.Run("accepts explicit values and unknown types", func(t *testing.T) {
		svc, customerID := newRoundTripService(t)

		resp, err := svc.Create(ctx, CreateReminderRequest{
			CustomerID: customerID.String(),
			Title:      "Send statement",
			DueDate:    "2025-04-01T09:30:00+08:00",
			Priority:   "HIGH",
			Status:     "completed",
			Type:       "newsletter",
		})

		require.NoError(t, err)
		assert.Equal(t, "high", resp.Priority)
		assert.Equal(t, time.Date(2025, 4, 1, 1, 30, 0, 0, time.UTC), resp.DueDate)
		assert.Equal(t, "newsletter", resp.Type)
		assert.Equal(t, "newsletter", resp.TypeLabel)
		require.NotNil(t, resp.CompletedAt)
		assert.Equal(t, fixedNow, *resp.CompletedAt)
	})

	tests := []struct {
		name  string
		req   func(customerID uuid.UUID) CreateReminderRequest
		field string
	}{
		{"empty title", func(id uuid.UUID) CreateReminderRequest {
			return CreateReminderRequest{CustomerID: id.String(), Title: "   ", DueDate: "2025-04-01"}
		}, "title"},
		{"missing due date", func(id uuid.UUID) CreateReminderRequest {
			return CreateReminderRequest{CustomerID: id.String(), Title: "Call"}
		}, "due_date"},
		{"unparseable due date", func(id uuid.UUID) CreateReminderRequest {
			return CreateReminderRequest{CustomerID: id.String(), Title: "Call", DueDate: "next tuesday"}
		}, "due_date"},
		{"missing customer", func(uuid.UUID) CreateReminderRequest {
			return CreateReminderRequest{Title: "Call", DueDate: "2025-04-01"}
		}, "customer_id"},
		{"malformed customer", func(uuid.UUID) CreateReminderRequest {
			return CreateReminderRequest{CustomerID: "abc", Title: "Call", DueDate: "2025-04-01"}
		}, "customer_id"},
		{"unknown customer", func(uuid.UUID) CreateReminderRequest {
			return CreateReminderRequest{CustomerID: uuid.NewString(), Title: "Call", DueDate: "2025-04-01"}
		}, "customer_id"},
		{"unknown priority", func(id uuid.UUID) CreateReminderRequest {
			return CreateReminderRequest{CustomerID: id.String(), Title: "Call", DueDate: "2025-04-01", Priority: "urgent"}
		}, "priority"},
		{"unknown status", func(id uuid.UUID) CreateReminderRequest {
			return CreateReminderRequest{CustomerID: id.String(), Title: "Call", DueDate: "2025-04-01", Status: "done"}
		}, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, customerID := newRoundTripService(t)

			_, err := svc.Create(ctx, tt.req(customerID))

			var ve *shared.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestReminderService_Create_StoreError(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	customers := new(MockCustomerRepository)
	customers.On("ExistsByID", ctx, customerID).Return(true, nil)
	reminders := new(MockReminderRepository)
	storeErr := shared.NewStoreError("save reminder", errors.New("disk full"))
	reminders.On("Save", ctx, mock.AnythingOfType("*crm.CommunicationReminder")).Return(storeErr)
	rec := &recorderStub{}

	svc := NewReminderService(reminders, customers, WithClock(fixedClock), WithRecorder(rec))
	_, err := svc.Create(ctx, CreateReminderRequest{CustomerID: customerID.String(), Title: "Call", DueDate: "2025-04-01"})

	var se *shared.StoreError
	require.ErrorAs(t, err, &se)
	require.Len(t, rec.reminders, 1)
	assert.Equal(t, "create", rec.reminders[0].op)
	assert.Error(t, rec.reminders[0].err)
}

func TestReminderService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id is NotFound", func(t *testing.T) {
		svc, _ := newRoundTripService(t)

		_, err := svc.Update(ctx, uuid.New(), UpdateReminderRequest{Title: strPtr("x")})

		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("partial update keeps unspecified fields", func(t *testing.T) {
		svc, customerID := newRoundTripService(t)
		created, err := svc.Create(ctx, CreateReminderRequest{
			CustomerID:  customerID.String(),
			Title:       "Call",
			Description: "about bonds",
			DueDate:     "2025-04-01",
			Priority:    "low",
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, UpdateReminderRequest{Priority: strPtr("high")})

		require.NoError(t, err)
		assert.Equal(t, "high", updated.Priority)
		assert.Equal(t, "Call", updated.Title)
		assert.Equal(t, "about bonds", updated.Description)
		assert.Equal(t, created.DueDate, updated.DueDate)
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		svc, customerID := newRoundTripService(t)
		created, err := svc.Create(ctx, CreateReminderRequest{CustomerID: customerID.String(), Title: "Call", DueDate: "2025-04-01"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, created.ID, UpdateReminderRequest{Title: strPtr(" ")})

		assert.True(t, shared.IsValidation(err))
	})

	t.Run("title length counts characters on create and update", func(t *testing.T) {
		svc, customerID := newRoundTripService(t)
		title := strings.Repeat("季度回顾", 20)

		created, err := svc.Create(ctx, CreateReminderRequest{CustomerID: customerID.String(), Title: title, DueDate: "2025-04-01"})
		require.NoError(t, err)
		assert.Equal(t, title, created.Title)

		_, err = svc.Update(ctx, created.ID, UpdateReminderRequest{Title: strPtr(strings.Repeat("a", 300))})
		assert.True(t, shared.IsValidation(err))

		got, err := svc.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, title, got.Title)
	})

	t.Run("leaving completed clears the timestamp", func(t *testing.T) {
		svc, customerID := newRoundTripService(t)
		created, err := svc.Create(ctx, CreateReminderRequest{CustomerID: customerID.String(), Title: "Call", DueDate: "2025-04-01"})
		require.NoError(t, err)

		done, err := svc.SetStatus(ctx, created.ID, "completed")
		require.NoError(t, err)
		require.NotNil(t, done.CompletedAt)

		reopened, err := svc.SetStatus(ctx, created.ID, "in_progress")
		require.NoError(t, err)
		assert.Nil(t, reopened.CompletedAt)
	})
}

func TestReminderService_CompleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, customerID := newRoundTripService(t)

	created, err := svc.Create(ctx, CreateReminderRequest{CustomerID: customerID.String(), Title: "Portfolio review", DueDate: "2025-03-20"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateReminderRequest{CustomerID: customerID.String(), Title: "Still open", DueDate: "2025-03-21"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, UpdateReminderRequest{Status: strPtr("completed")})
	require.NoError(t, err)

	completed, err := svc.List(ctx, ReminderListFilter{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, created.ID, completed[0].ID)
	require.NotNil(t, completed[0].CompletedAt)
	assert.Equal(t, fixedNow, *completed[0].CompletedAt)
	for _, r := range completed {
		assert.Equal(t, "completed", r.Status)
	}
}

func TestReminderService_List_Ordering(t *testing.T) {
	ctx := context.Background()
	svc, customerID := newRoundTripService(t)

	create := func(title, due, priority string) {
		_, err := svc.Create(ctx, CreateReminderRequest{CustomerID: customerID.String(), Title: title, DueDate: due, Priority: priority})
		require.NoError(t, err)
	}
	create("future-high", "2025-06-01", "high")
	create("past-low", "2025-01-01", "low")
	create("future-medium-late", "2025-08-01", "medium")
	create("future-medium-early", "2025-07-01", "medium")
	create("future-high-tie", "2025-06-01", "high")

	titles := func(rs []ReminderResponse) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Title
		}
		return out
	}

	pending, err := svc.List(ctx, ReminderListFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"past-low",
		"future-high",
		"future-high-tie",
		"future-medium-early",
		"future-medium-late",
	}, titles(pending))
	assert.True(t, pending[0].Overdue)
	assert.False(t, pending[1].Overdue)

	all, err := svc.List(ctx, ReminderListFilter{Status: "all"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"future-high",
		"future-high-tie",
		"future-medium-early",
		"future-medium-late",
		"past-low",
	}, titles(all), "overdue only applies to the pending scope")
	for _, r := range all {
		assert.False(t, r.Overdue)
	}

	high, err := svc.List(ctx, ReminderListFilter{Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, []string{"future-high", "future-high-tie"}, titles(high))
}

func TestReminderService_List_Filters(t *testing.T) {
	ctx := context.Background()
	reminders := new(MockReminderRepository)
	customerID := uuid.New()
	svc := NewReminderService(reminders, new(MockCustomerRepository), WithClock(fixedClock))

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := svc.List(ctx, ReminderListFilter{Status: "archived"})
		var ve *shared.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "status", ve.Field)
	})

	t.Run("unknown priority is rejected", func(t *testing.T) {
		_, err := svc.List(ctx, ReminderListFilter{Priority: "urgent"})
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("customer scope reaches the store", func(t *testing.T) {
		reminders.On("FindAll", ctx, crm.ReminderQuery{Status: crm.ReminderStatusPending, CustomerID: customerID}).
			Return([]crm.CommunicationReminder{}, nil).Once()

		out, err := svc.List(ctx, ReminderListFilter{Status: "pending", CustomerID: customerID.String()})

		require.NoError(t, err)
		assert.Empty(t, out)
		reminders.AssertExpectations(t)
	})

	t.Run("store errors surface unchanged", func(t *testing.T) {
		storeErr := shared.NewStoreError("list reminders", errors.New("timeout"))
		reminders.On("FindAll", ctx, crm.ReminderQuery{}).Return(nil, storeErr).Once()

		_, err := svc.List(ctx, ReminderListFilter{})

		assert.Equal(t, storeErr, err)
	})
}

func TestReminderService_List_UnknownPriorityInStore(t *testing.T) {
	ctx := context.Background()
	reminders := new(MockReminderRepository)
	customerID := uuid.New()
	svc := NewReminderService(reminders, new(MockCustomerRepository), WithClock(fixedClock))

	odd, err := crm.NewReminder(customerID, "legacy", fixedNow.Add(time.Hour), fixedNow)
	require.NoError(t, err)
	odd.Priority = "critical"
	low, err := crm.NewReminder(customerID, "low", fixedNow.Add(2*time.Hour), fixedNow)
	require.NoError(t, err)
	low.Priority = crm.PriorityLow

	reminders.On("FindAll", ctx, crm.ReminderQuery{}).Return([]crm.CommunicationReminder{*odd, *low}, nil)

	out, err := svc.List(ctx, ReminderListFilter{})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "low", out[0].Title)
	assert.Equal(t, "critical", out[1].PriorityLabel)
}

func TestReminderService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, customerID := newRoundTripService(t)
	created, err := svc.Create(ctx, CreateReminderRequest{CustomerID: customerID.String(), Title: "Call", DueDate: "2025-04-01"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.True(t, shared.IsNotFound(svc.Delete(ctx, created.ID)))

	_, err = svc.GetByID(ctx, created.ID)
	assert.True(t, shared.IsNotFound(err))
}

func TestReminderService_Stats(t *testing.T) {
	ctx := context.Background()
	svc, customerID := newRoundTripService(t)
	for _, due := range []string{"2025-03-01", "2025-03-02", "2025-05-01"} {
		_, err := svc.Create(ctx, CreateReminderRequest{CustomerID: customerID.String(), Title: "Call", DueDate: due})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, CreateReminderRequest{CustomerID: customerID.String(), Title: "Done", DueDate: "2025-01-01", Status: "completed"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Overdue)
	assert.Equal(t, int64(3), stats.ByStatus["pending"])
	assert.Equal(t, int64(1), stats.ByStatus["completed"])
	assert.Equal(t, int64(0), stats.ByStatus["cancelled"])
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-04-01", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-04-01 14:30", time.Date(2025, 4, 1, 14, 30, 0, 0, time.UTC)},
		{"2025-04-01T14:30", time.Date(2025, 4, 1, 14, 30, 0, 0, time.UTC)},
		{"2025-04-01T14:30:00Z", time.Date(2025, 4, 1, 14, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate("due_date", tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := ParseDate("due_date", "2025-02-30")
	assert.True(t, shared.IsValidation(err))
}
