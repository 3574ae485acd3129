package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/engine/internal/models"
	"github.com/foodshare/engine/internal/notify"
	"github.com/foodshare/engine/internal/repository"
	appErr "github.com/foodshare/engine/pkg/errors"
	"github.com/foodshare/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by tasks)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

// Mock implementations. Embedded interfaces cover methods the handler never calls.
type mockRequestRepository struct {
	mock.Mock
	repository.RequestRepository
}

func (m *mockRequestRepository) GetByID(ctx context.Context, id any, dest *models.Request) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.Request)
	}
	return args.Error(0)
}

type mockDonationRepository struct {
	mock.Mock
	repository.DonationRepository
}

func (m *mockDonationRepository) GetByID(ctx context.Context, id any, dest *models.Donation) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.Donation)
	}
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
	repository.UserRepository
}

func (m *mockUserRepository) GetByID(ctx context.Context, id any, dest *models.User) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.User)
	}
	return args.Error(0)
}

func (m *mockUserRepository) GetDonorProfile(ctx context.Context, userID any, dest *models.DonorProfile) error {
	args := m.Called(ctx, userID, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.DonorProfile)
	}
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) DonationRequested(ctx context.Context, n notify.DonationRequested) error {
	return m.Called(ctx, n).Error(0)
}

type fixture struct {
	requests  *mockRequestRepository
	donations *mockDonationRepository
	users     *mockUserRepository
	notifier  *mockNotifier
	handler   *RequestNotifyHandler
}

func newFixture() *fixture {
	f := &fixture{
		requests:  &mockRequestRepository{},
		donations: &mockDonationRepository{},
		users:     &mockUserRepository{},
		notifier:  &mockNotifier{},
	}
	f.handler = NewRequestNotifyHandler(f.requests, f.donations, f.users, f.notifier)
	return f
}

func TestNewRequestNotifyTask(t *testing.T) {
	id := uuid.New()
	task, err := NewRequestNotifyTask(id)
	require.NoError(t, err)
	require.Equal(t, TypeRequestNotify, task.Type())

	var p RequestNotifyPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	require.Equal(t, id.String(), p.RequestID)
}

func TestHandleRequestNotifySendsToDonor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donorID, requesterID, donationID, requestID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	req := &models.Request{ID: requestID, DonationID: donationID, RequesterID: requesterID, Message: "for the shelter", CreatedAt: time.Now()}
	donation := &models.Donation{ID: donationID, DonorID: donorID, FoodType: "Rice"}

	f.requests.On("GetByID", ctx, requestID, mock.Anything).Return(nil, req)
	f.donations.On("GetByID", ctx, donationID, mock.Anything).Return(nil, donation)
	f.users.On("GetByID", ctx, donorID, mock.Anything).Return(nil, &models.User{ID: donorID, Username: "alice"})
	f.users.On("GetByID", ctx, requesterID, mock.Anything).Return(nil, &models.User{ID: requesterID, Username: "bob"})
	f.users.On("GetDonorProfile", ctx, donorID, mock.Anything).Return(nil, &models.DonorProfile{MobileNumber: "0711111111"})
	f.notifier.On("DonationRequested", ctx, mock.MatchedBy(func(n notify.DonationRequested) bool {
		return n.DonorUsername == "alice" && n.RequesterUsername == "bob" &&
			n.FoodType == "Rice" && n.DonorMobile == "0711111111" && n.Message == "for the shelter"
	})).Return(nil)

	task, err := NewRequestNotifyTask(requestID)
	require.NoError(t, err)
	require.NoError(t, f.handler.HandleRequestNotify(ctx, task))

	f.notifier.AssertExpectations(t)
	f.users.AssertExpectations(t)
}

func TestHandleRequestNotifySkipsDeletedRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	requestID := uuid.New()
	f.requests.On("GetByID", ctx, requestID, mock.Anything).Return(appErr.NotFound("request not found"), nil)

	task, err := NewRequestNotifyTask(requestID)
	require.NoError(t, err)
	require.NoError(t, f.handler.HandleRequestNotify(ctx, task))
	f.notifier.AssertNotCalled(t, "DonationRequested", mock.Anything, mock.Anything)
}

func TestHandleRequestNotifyRetriesNotifierFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donorID, requesterID, donationID, requestID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	f.requests.On("GetByID", ctx, requestID, mock.Anything).Return(nil, &models.Request{ID: requestID, DonationID: donationID, RequesterID: requesterID})
	f.donations.On("GetByID", ctx, donationID, mock.Anything).Return(nil, &models.Donation{ID: donationID, DonorID: donorID})
	f.users.On("GetByID", ctx, mock.Anything, mock.Anything).Return(nil, &models.User{Username: "someone"})
	f.users.On("GetDonorProfile", ctx, mock.Anything, mock.Anything).Return(appErr.NotFound("donor profile not found"), nil)
	boom := errors.New("gateway down")
	f.notifier.On("DonationRequested", ctx, mock.Anything).Return(boom)

	task, err := NewRequestNotifyTask(requestID)
	require.NoError(t, err)
	err = f.handler.HandleRequestNotify(ctx, task)
	require.ErrorIs(t, err, boom)
	require.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleRequestNotifyRejectsBadPayload(t *testing.T) {
	f := newFixture()
	err := f.handler.HandleRequestNotify(context.Background(), asynq.NewTask(TypeRequestNotify, []byte(`{"request_id":"nope"}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)

	err = f.handler.HandleRequestNotify(context.Background(), asynq.NewTask(TypeRequestNotify, []byte(`{`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
