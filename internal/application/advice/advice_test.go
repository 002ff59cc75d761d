package advice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wealthcrm/backend/internal/domain/advice"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MockProvider is a mock implementation of advice.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Generate(ctx context.Context, profile advice.Profile) (*advice.Advice, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*advice.Advice), args.Error(1)
}

type panickingProvider struct{}

func (panickingProvider) Generate(context.Context, advice.Profile) (*advice.Advice, error) {
	panic("remote client bug")
}

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

type recordingObserver struct {
	mu        sync.Mutex
	sources   []string
	fallbacks []string
}

func (o *recordingObserver) RecordAdvice(_ context.Context, source, _ string, _ time.Duration) {
	o.mu.Lock()
	o.sources = append(o.sources, source)
	o.mu.Unlock()
}

func (o *recordingObserver) RecordFallback(_ context.Context, reason string) {
	o.mu.Lock()
	o.fallbacks = append(o.fallbacks, reason)
	o.mu.Unlock()
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func remoteAdvice(p advice.Profile) *advice.Advice {
	a := advice.Build(p)
	a.Narrative = "remote words"
	a.Source = advice.SourceRemote
	return a
}

func TestFallbackAdvisor(t *testing.T) {
	ctx := context.Background()
	profile := advice.Profile{TotalAssets: dec(600_000), RiskLevel: "High"}
	want := advice.Build(profile)

	t.Run("primary success passes through", func(t *testing.T) {
		primary := new(MockProvider)
		primary.On("Generate", ctx, profile).Return(remoteAdvice(profile), nil)
		obs := &recordingObserver{}

		out, err := NewFallbackAdvisor(primary, nil, zap.NewNop(), obs).Generate(ctx, profile)

		require.NoError(t, err)
		assert.Equal(t, advice.SourceRemote, out.Source)
		assert.Empty(t, obs.fallbacks)
	})

	failures := map[string]error{
		"error":   errors.New("connection refused"),
		"timeout": context.DeadlineExceeded,
	}
	for reason, failure := range failures {
		t.Run("primary "+reason+" falls back", func(t *testing.T) {
			primary := new(MockProvider)
			primary.On("Generate", ctx, profile).Return(nil, failure)
			obs := &recordingObserver{}

			out, err := NewFallbackAdvisor(primary, advice.NewDeterministicAdvisor(), zap.NewNop(), obs).Generate(ctx, profile)

			require.NoError(t, err)
			assert.Equal(t, want, out)
			assert.Equal(t, []string{reason}, obs.fallbacks)
		})
	}

	t.Run("empty narrative falls back", func(t *testing.T) {
		primary := new(MockProvider)
		primary.On("Generate", ctx, profile).Return(&advice.Advice{Source: advice.SourceRemote}, nil)

		out, err := NewFallbackAdvisor(primary, nil, zap.NewNop(), nil).Generate(ctx, profile)

		require.NoError(t, err)
		assert.Equal(t, advice.SourceDeterministic, out.Source)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		obs := &recordingObserver{}

		out, err := NewFallbackAdvisor(panickingProvider{}, nil, zap.NewNop(), obs).Generate(ctx, profile)

		require.NoError(t, err)
		assert.Equal(t, want, out)
		assert.Equal(t, []string{"panic"}, obs.fallbacks)
	})
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func TestCachedAdvisor(t *testing.T) {
	ctx := context.Background()
	profile := advice.Profile{TotalAssets: dec(150_000), Goal: "Education"}

	t.Run("remote results are cached", func(t *testing.T) {
		inner := new(MockProvider)
		inner.On("Generate", ctx, profile).Return(remoteAdvice(profile), nil).Once()
		cache := &mapCache{data: map[string][]byte{}}
		c := NewCachedAdvisor(inner, cache, time.Hour, zap.NewNop())

		first, err := c.Generate(ctx, profile)
		require.NoError(t, err)
		second, err := c.Generate(ctx, profile)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		inner.AssertNumberOfCalls(t, "Generate", 1)
	})

	t.Run("deterministic results are not cached", func(t *testing.T) {
		inner := new(MockProvider)
		inner.On("Generate", ctx, profile).Return(advice.Build(profile), nil)
		cache := &mapCache{data: map[string][]byte{}}

		_, err := NewCachedAdvisor(inner, cache, time.Hour, zap.NewNop()).Generate(ctx, profile)

		require.NoError(t, err)
		assert.Empty(t, cache.data)
	})

	t.Run("inner error is returned", func(t *testing.T) {
		inner := new(MockProvider)
		inner.On("Generate", ctx, profile).Return(nil, errors.New("down"))

		_, err := NewCachedAdvisor(inner, &mapCache{data: map[string][]byte{}}, time.Hour, zap.NewNop()).Generate(ctx, profile)

		assert.Error(t, err)
	})

	t.Run("cache failures are ignored", func(t *testing.T) {
		inner := new(MockProvider)
		inner.On("Generate", ctx, profile).Return(remoteAdvice(profile), nil)

		out, err := NewCachedAdvisor(inner, &mapCache{err: errors.New("redis gone")}, time.Hour, zap.NewNop()).Generate(ctx, profile)

		require.NoError(t, err)
		assert.Equal(t, "remote words", out.Narrative)
	})
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint(advice.Profile{TotalAssets: dec(100), RiskLevel: "low"})
	b := Fingerprint(advice.Profile{TotalAssets: dec(100), RiskLevel: " LOW "})
	c := Fingerprint(advice.Profile{TotalAssets: dec(101), RiskLevel: "low"})
	d := Fingerprint(advice.Profile{RiskLevel: ""})
	e := Fingerprint(advice.Profile{TotalAssets: dec(0), RiskLevel: "Medium"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, d, e, "defaults are applied before hashing")
}

func TestAdviceService_ForCustomer(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("uses the stored profile", func(t *testing.T) {
		customer, err := crm.NewCustomer("Alice", decimal.NewFromInt(500_000), now)
		require.NoError(t, err)
		customer.RiskLevel = "Low"
		customer.InvestmentGoal = "Retirement"

		repo := new(MockCustomerRepository)
		repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		obs := &recordingObserver{}

		resp, err := NewAdviceService(repo, nil, obs).ForCustomer(ctx, customer.ID)

		require.NoError(t, err)
		assert.Equal(t, customer.ID, *resp.CustomerID)
		assert.Equal(t, "Alice", resp.CustomerName)
		assert.Equal(t, advice.TierBalanced, resp.Tier)
		assert.Equal(t, advice.Allocation{Equity: 50, Bond: 35, Cash: 15}, resp.Allocation)
		assert.Equal(t, "Low", resp.RiskLevel)
		assert.Equal(t, "Retirement", resp.Goal)
		assert.Equal(t, []string{"deterministic"}, obs.sources)
	})

	t.Run("unknown customer", func(t *testing.T) {
		id := uuid.New()
		repo := new(MockCustomerRepository)
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := NewAdviceService(repo, nil, nil).ForCustomer(ctx, id)

		assert.True(t, shared.IsNotFound(err))
	})
}

func TestAdviceService_ForProfile(t *testing.T) {
	svc := NewAdviceService(new(MockCustomerRepository), nil, nil)

	resp, err := svc.ForProfile(context.Background(), ProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, advice.TierConservativeStart, resp.Tier)
	assert.Equal(t, advice.DefaultRiskLevel, resp.RiskLevel)
	assert.Nil(t, resp.CustomerID)

	_, err = svc.ForProfile(context.Background(), ProfileRequest{TotalAssets: dec(-1)})
	assert.True(t, shared.IsValidation(err))
}
