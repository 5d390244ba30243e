package services_test

import (
	"context"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockProfileRepository is a mock implementation of ProfileRepositoryInterface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetAll(ctx context.Context) ([]*models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) InvalidateCache() {
	m.Called()
}

// MockMentorshipRequestRepository is a mock implementation of MentorshipRequestRepositoryInterface
type MockMentorshipRequestRepository struct {
	mock.Mock
}

func (m *MockMentorshipRequestRepository) Create(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error) {
	args := m.Called(ctx, requestorID, acceptorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorshipRequest), args.Error(1)
}

func (m *MockMentorshipRequestRepository) GetByID(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorshipRequest), args.Error(1)
}

func (m *MockMentorshipRequestRepository) GetByPair(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error) {
	args := m.Called(ctx, requestorID, acceptorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorshipRequest), args.Error(1)
}

func (m *MockMentorshipRequestRepository) ListIncoming(ctx context.Context, acceptorID string) ([]*models.IncomingRequest, error) {
	args := m.Called(ctx, acceptorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.IncomingRequest), args.Error(1)
}

func (m *MockMentorshipRequestRepository) Transition(ctx context.Context, id string, newStatus models.RequestStatus) (*models.MentorshipRequest, error) {
	args := m.Called(ctx, id, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorshipRequest), args.Error(1)
}
