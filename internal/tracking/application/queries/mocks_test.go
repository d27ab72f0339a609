package queries

import (
	"context"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockLogEntryRepo struct {
	mock.Mock
}

func (m *mockLogEntryRepo) Create(ctx context.Context, entry *domain.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockLogEntryRepo) ListByOwnerAndRange(ctx context.Context, ownerID uuid.UUID, from, to domain.LocalDate) ([]*domain.LogEntry, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LogEntry), args.Error(1)
}

func (m *mockLogEntryRepo) CountByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date domain.LocalDate) (int, error) {
	args := m.Called(ctx, ownerID, date)
	return args.Int(0), args.Error(1)
}

type mockGoalRepo struct {
	mock.Mock
}

func (m *mockGoalRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.GoalConfig, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoalConfig), args.Error(1)
}

func (m *mockGoalRepo) Save(ctx context.Context, goal *domain.GoalConfig) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *mockGoalRepo) CreateIfAbsent(ctx context.Context, goal *domain.GoalConfig) (bool, error) {
	args := m.Called(ctx, goal)
	return args.Bool(0), args.Error(1)
}

type mockCareTeamRepo struct {
	mock.Mock
}

func (m *mockCareTeamRepo) Link(ctx context.Context, link *domain.CareLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *mockCareTeamRepo) IsLinked(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	args := m.Called(ctx, doctorID, patientID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCareTeamRepo) ListPatients(ctx context.Context, doctorID uuid.UUID) ([]domain.PatientSummary, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PatientSummary), args.Error(1)
}

