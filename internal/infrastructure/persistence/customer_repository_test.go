package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthcrm/backend/internal/domain/shared"
	"github.com/wealthcrm/backend/tests/testutil"
)

var customerColumns = []string{"id", "created_at", "updated_at", "name", "total_assets", "risk_level", "investment_goal", "phone", "email", "notes"}

func TestGormCustomerRepository_FindByID_Postgres(t *testing.T) {
	t.Run("maps the row to a customer", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		repo := NewGormCustomerRepository(mockDB.DB)

		id := testutil.NewTestUUID("customer-alice")
		created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		rows := sqlmock.NewRows(customerColumns).
			AddRow(id.String(), created, created, "Alice", "250000.00", "Medium", "Retirement", "555-0100", "alice@example.com", "")

		mockDB.Mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, customer.ID)
		assert.Equal(t, "Alice", customer.Name)
		assert.Equal(t, "250000", customer.TotalAssets.String())
		assert.Equal(t, "Retirement", customer.InvestmentGoal)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("empty result is not found", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		repo := NewGormCustomerRepository(mockDB.DB)
		id := uuid.New()

		mockDB.Mock.ExpectQuery(`SELECT \* FROM "customers"`).
			WillReturnRows(sqlmock.NewRows(customerColumns))

		customer, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, customer)
		assert.True(t, shared.IsNotFound(err))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("driver failure becomes a store error", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		repo := NewGormCustomerRepository(mockDB.DB)

		mockDB.Mock.ExpectQuery(`SELECT \* FROM "customers"`).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.FindByID(context.Background(), uuid.New())

		var storeErr *shared.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "find customer", storeErr.Op)
		assert.False(t, shared.IsNotFound(err))
	})
}

func TestGormCustomerRepository_FindAll_Postgres(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := NewGormCustomerRepository(mockDB.DB)

	mockDB.Mock.ExpectQuery(`SELECT \* FROM "customers" WHERE LOWER\(name\) LIKE \$1 OR LOWER\(email\) LIKE \$2 ORDER BY name ASC`).
		WithArgs("%ali%", "%ali%").
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow(uuid.NewString(), time.Now(), time.Now(), "Alice", "10", "", "", "", "", "").
			AddRow(uuid.NewString(), time.Now(), time.Now(), "Natalie", "20", "", "", "", "", ""))

	customers, err := repo.FindAll(context.Background(), "  ALI ")

	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Alice", customers[0].Name)
	assert.Equal(t, "Natalie", customers[1].Name)
	mockDB.ExpectationsWereMet(t)
}

func TestGormCustomerRepository_ExistsByID_Postgres(t *testing.T) {
	t.Run("counts matching rows", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		repo := NewGormCustomerRepository(mockDB.DB)
		id := uuid.New()

		mockDB.Mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByID(context.Background(), id)

		require.NoError(t, err)
		assert.True(t, exists)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("driver failure becomes a store error", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		repo := NewGormCustomerRepository(mockDB.DB)

		mockDB.Mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).
			WillReturnError(errors.New("too many connections"))

		exists, err := repo.ExistsByID(context.Background(), uuid.New())

		assert.False(t, exists)
		var storeErr *shared.StoreError
		assert.ErrorAs(t, err, &storeErr)
	})
}
