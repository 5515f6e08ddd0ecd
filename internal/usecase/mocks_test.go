package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/ftl"
)

type MockDutyRepository struct {
	mock.Mock
}

func (m *MockDutyRepository) Create(ctx context.Context, entry *domain.DutyEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDutyRepository) ListByStaff(ctx context.Context, staffID string, from, to domain.Date) ([]domain.DutyEntry, error) {
	args := m.Called(ctx, staffID, from, to)
	entries, _ := args.Get(0).([]domain.DutyEntry)
	return entries, args.Error(1)
}

type MockFlightHourRepository struct {
	mock.Mock
}

func (m *MockFlightHourRepository) Create(ctx context.Context, entry *domain.FlightHourEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockFlightHourRepository) ListByStaff(ctx context.Context, staffID string, from, to domain.Date) ([]domain.FlightHourEntry, error) {
	args := m.Called(ctx, staffID, from, to)
	entries, _ := args.Get(0).([]domain.FlightHourEntry)
	return entries, args.Error(1)
}

type MockAircraftTypeRepository struct {
	mock.Mock
}

func (m *MockAircraftTypeRepository) List(ctx context.Context) ([]domain.AircraftType, error) {
	args := m.Called(ctx)
	types, _ := args.Get(0).([]domain.AircraftType)
	return types, args.Error(1)
}

func (m *MockAircraftTypeRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.AircraftType, error) {
	args := m.Called(ctx, ids)
	types, _ := args.Get(0).(map[string]domain.AircraftType)
	return types, args.Error(1)
}

type MockMetricsCache struct {
	mock.Mock
}

func (m *MockMetricsCache) Get(ctx context.Context, key string) (*ftl.FTLMetrics, bool, error) {
	args := m.Called(ctx, key)
	metrics, _ := args.Get(0).(*ftl.FTLMetrics)
	return metrics, args.Bool(1), args.Error(2)
}

func (m *MockMetricsCache) Set(ctx context.Context, key string, metrics *ftl.FTLMetrics) error {
	args := m.Called(ctx, key, metrics)
	return args.Error(0)
}

func (m *MockMetricsCache) Invalidate(ctx context.Context, staffID string) error {
	args := m.Called(ctx, staffID)
	return args.Error(0)
}
