package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	"github.com/mentorlink/mentorlink-api/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMentee(id string) *models.Profile {
	return &models.Profile{ID: id, Username: "mentee-" + id, Role: models.RoleMentee}
}

func testMentor(id string) *models.Profile {
	return &models.Profile{ID: id, Username: "mentor-" + id, Role: models.RoleMentor}
}

func TestMentorshipRequestService_Create(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	expected := &models.MentorshipRequest{
		ID:          "r1",
		RequestorID: "u1",
		AcceptorID:  "m1",
		Status:      models.StatusPending,
	}

	mockProfileRepo.On("GetByID", ctx, "u1").Return(testMentee("u1"), nil).Once()
	mockProfileRepo.On("GetByID", ctx, "m1").Return(testMentor("m1"), nil).Once()
	mockRequestRepo.On("Create", ctx, "u1", "m1").Return(expected, nil).Once()

	request, err := service.Create(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, expected, request)
	assert.Equal(t, models.StatusPending, request.Status)
	mockRequestRepo.AssertExpectations(t)
	mockProfileRepo.AssertExpectations(t)
}

func TestMentorshipRequestService_Create_RequestorNotFound(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	mockProfileRepo.On("GetByID", ctx, "ghost").
		Return(nil, apperrors.NotFoundError("profile ghost")).Once()

	request, err := service.Create(ctx, "ghost", "m1")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Nil(t, request)
	mockRequestRepo.AssertNotCalled(t, "Create")
}

func TestMentorshipRequestService_Create_AcceptorNotFound(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	mockProfileRepo.On("GetByID", ctx, "u1").Return(testMentee("u1"), nil).Once()
	mockProfileRepo.On("GetByID", ctx, "ghost").
		Return(nil, apperrors.NotFoundError("profile ghost")).Once()

	request, err := service.Create(ctx, "u1", "ghost")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Nil(t, request)
	mockRequestRepo.AssertNotCalled(t, "Create")
}

func TestMentorshipRequestService_Create_RequestorNotMentee(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	mockProfileRepo.On("GetByID", ctx, "m2").Return(testMentor("m2"), nil).Once()
	mockProfileRepo.On("GetByID", ctx, "m1").Return(testMentor("m1"), nil).Once()

	request, err := service.Create(ctx, "m2", "m1")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRole))
	assert.Nil(t, request)
	mockRequestRepo.AssertNotCalled(t, "Create")
}

func TestMentorshipRequestService_Create_AcceptorNotMentor(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	mockProfileRepo.On("GetByID", ctx, "u1").Return(testMentee("u1"), nil).Once()
	mockProfileRepo.On("GetByID", ctx, "u2").Return(testMentee("u2"), nil).Once()

	request, err := service.Create(ctx, "u1", "u2")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRole))
	assert.Nil(t, request)
	mockRequestRepo.AssertNotCalled(t, "Create")
}

func TestMentorshipRequestService_Create_Duplicate(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	mockProfileRepo.On("GetByID", ctx, "u1").Return(testMentee("u1"), nil).Once()
	mockProfileRepo.On("GetByID", ctx, "m1").Return(testMentor("m1"), nil).Once()
	mockRequestRepo.On("Create", ctx, "u1", "m1").
		Return(nil, apperrors.DuplicateError("request for pair already exists")).Once()

	request, err := service.Create(ctx, "u1", "m1")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicate))
	assert.Nil(t, request)
}

func TestMentorshipRequestService_GetStatus(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	now := time.Now()
	stored := &models.MentorshipRequest{
		ID:          "r1",
		RequestorID: "u1",
		AcceptorID:  "m1",
		Status:      models.StatusAccepted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mockRequestRepo.On("GetByPair", ctx, "u1", "m1").Return(stored, nil).Once()

	status, err := service.GetStatus(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, status.Status)
	assert.Equal(t, "u1", status.RequestorID)
	assert.Equal(t, "m1", status.AcceptorID)
}

func TestMentorshipRequestService_GetStatus_NotFound(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	mockRequestRepo.On("GetByPair", ctx, "u1", "m1").
		Return(nil, apperrors.NotFoundError("request for pair")).Once()

	status, err := service.GetStatus(ctx, "u1", "m1")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Nil(t, status)
}

func TestMentorshipRequestService_ListIncoming(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	incoming := []*models.IncomingRequest{
		{ID: "r2", RequestorID: "u2", RequestorUsername: "mentee-u2", Status: models.StatusPending},
		{ID: "r1", RequestorID: "u1", RequestorUsername: "mentee-u1", Status: models.StatusAccepted},
	}

	mockProfileRepo.On("GetByID", ctx, "m1").Return(testMentor("m1"), nil).Once()
	mockRequestRepo.On("ListIncoming", ctx, "m1").Return(incoming, nil).Once()

	resp, err := service.ListIncoming(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Requests, 2)
	assert.Equal(t, "r2", resp.Requests[0].ID)
	assert.Equal(t, "mentee-u2", resp.Requests[0].RequestorUsername)
}

func TestMentorshipRequestService_ListIncoming_EmptyInbox(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	mockProfileRepo.On("GetByID", ctx, "m1").Return(testMentor("m1"), nil).Once()
	mockRequestRepo.On("ListIncoming", ctx, "m1").
		Return([]*models.IncomingRequest{}, nil).Once()

	resp, err := service.ListIncoming(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Requests)
	assert.Empty(t, resp.Requests)
}

func TestMentorshipRequestService_ListIncoming_UnknownOwner(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	mockProfileRepo.On("GetByID", ctx, "ghost").
		Return(nil, apperrors.NotFoundError("profile ghost")).Once()

	resp, err := service.ListIncoming(ctx, "ghost")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Nil(t, resp)
	mockRequestRepo.AssertNotCalled(t, "ListIncoming")
}

func TestMentorshipRequestService_Accept(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	pending := &models.MentorshipRequest{
		ID: "r1", RequestorID: "u1", AcceptorID: "m1", Status: models.StatusPending,
	}
	accepted := &models.MentorshipRequest{
		ID: "r1", RequestorID: "u1", AcceptorID: "m1", Status: models.StatusAccepted,
	}

	mockRequestRepo.On("GetByID", ctx, "r1").Return(pending, nil).Once()
	mockRequestRepo.On("Transition", ctx, "r1", models.StatusAccepted).Return(accepted, nil).Once()

	request, err := service.Accept(ctx, "m1", "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, request.Status)
	mockRequestRepo.AssertExpectations(t)
}

func TestMentorshipRequestService_Accept_Forbidden(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	pending := &models.MentorshipRequest{
		ID: "r1", RequestorID: "u1", AcceptorID: "m1", Status: models.StatusPending,
	}

	// Neither the requestor nor a bystander may act on the request
	for _, caller := range []string{"u1", "somebody-else"} {
		mockRequestRepo.On("GetByID", ctx, "r1").Return(pending, nil).Once()

		request, err := service.Accept(ctx, caller, "r1")
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
		assert.Nil(t, request)
	}

	mockRequestRepo.AssertNotCalled(t, "Transition")
}

func TestMentorshipRequestService_Accept_NotFound(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	mockRequestRepo.On("GetByID", ctx, "missing").
		Return(nil, apperrors.NotFoundError("request missing")).Once()

	request, err := service.Accept(ctx, "m1", "missing")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Nil(t, request)
}

func TestMentorshipRequestService_TransitionFromTerminal(t *testing.T) {
	tests := []struct {
		name    string
		status  models.RequestStatus
		action  string
	}{
		{"accept already accepted", models.StatusAccepted, "accept"},
		{"accept already declined", models.StatusDeclined, "accept"},
		{"decline already accepted", models.StatusAccepted, "decline"},
		{"decline already declined", models.StatusDeclined, "decline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRequestRepo := new(MockMentorshipRequestRepository)
			mockProfileRepo := new(MockProfileRepository)
			service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
			ctx := context.Background()

			terminal := &models.MentorshipRequest{
				ID: "r1", RequestorID: "u1", AcceptorID: "m1", Status: tt.status,
			}
			mockRequestRepo.On("GetByID", ctx, "r1").Return(terminal, nil).Once()

			var request *models.MentorshipRequest
			var err error
			if tt.action == "accept" {
				request, err = service.Accept(ctx, "m1", "r1")
			} else {
				request, err = service.Decline(ctx, "m1", "r1")
			}

			assert.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
			assert.Nil(t, request)
			mockRequestRepo.AssertNotCalled(t, "Transition")
		})
	}
}

func TestMentorshipRequestService_Decline(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	pending := &models.MentorshipRequest{
		ID: "r1", RequestorID: "u1", AcceptorID: "m1", Status: models.StatusPending,
	}
	declined := &models.MentorshipRequest{
		ID: "r1", RequestorID: "u1", AcceptorID: "m1", Status: models.StatusDeclined,
	}

	mockRequestRepo.On("GetByID", ctx, "r1").Return(pending, nil).Once()
	mockRequestRepo.On("Transition", ctx, "r1", models.StatusDeclined).Return(declined, nil).Once()

	request, err := service.Decline(ctx, "m1", "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, request.Status)
}

func TestMentorshipRequestService_Accept_LosesRace(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	// The request reads as pending, but a concurrent transition wins between
	// the read and the conditional update.
	pending := &models.MentorshipRequest{
		ID: "r1", RequestorID: "u1", AcceptorID: "m1", Status: models.StatusPending,
	}

	mockRequestRepo.On("GetByID", ctx, "r1").Return(pending, nil).Once()
	mockRequestRepo.On("Transition", ctx, "r1", models.StatusAccepted).
		Return(nil, apperrors.ConflictError("request already declined")).Once()

	request, err := service.Accept(ctx, "m1", "r1")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Nil(t, request)
}

func TestMentorshipRequestService_Transition_RepositoryError(t *testing.T) {
	mockRequestRepo := new(MockMentorshipRequestRepository)
	mockProfileRepo := new(MockProfileRepository)
	service := services.NewMentorshipRequestService(mockRequestRepo, mockProfileRepo)
	ctx := context.Background()

	pending := &models.MentorshipRequest{
		ID: "r1", RequestorID: "u1", AcceptorID: "m1", Status: models.StatusPending,
	}

	mockRequestRepo.On("GetByID", ctx, "r1").Return(pending, nil).Once()
	mockRequestRepo.On("Transition", ctx, "r1", models.StatusAccepted).
		Return(nil, errors.New("connection refused")).Once()

	request, err := service.Accept(ctx, "m1", "r1")
	assert.Error(t, err)
	assert.False(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Nil(t, request)
}
