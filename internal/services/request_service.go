package services

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/foodshare/engine/internal/models"
	"github.com/foodshare/engine/internal/queue/tasks"
	"github.com/foodshare/engine/internal/repository"
	appErr "github.com/foodshare/engine/pkg/errors"
	"github.com/foodshare/engine/pkg/logger"
)

// MaxRequestMessage bounds the free-text note a receiver attaches to a request.
const MaxRequestMessage = 1000

// TaskEnqueuer is the part of *asynq.Client the services use.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type RequestService interface {
	// RequestFood claims an Available donation for the receiver. Only one
	// receiver can ever win a given donation.
	RequestFood(ctx context.Context, receiver Receiver, donationID uuid.UUID, message string) (*models.Request, error)
}

type requestService struct {
	donations repository.DonationRepository
	queue     TaskEnqueuer
}

// NewRequestService wires the claim path. queue may be nil, in which case
// donors are not notified.
func NewRequestService(donations repository.DonationRepository, queue TaskEnqueuer) RequestService {
	return &requestService{donations: donations, queue: queue}
}

var _ RequestService = (*requestService)(nil)

func (s *requestService) RequestFood(ctx context.Context, receiver Receiver, donationID uuid.UUID, message string) (*models.Request, error) {
	if receiver.ID() == uuid.Nil {
		return nil, appErr.Forbidden("only receivers can request food")
	}
	if utf8.RuneCountInString(message) > MaxRequestMessage {
		return nil, appErr.Validation("message must be at most 1000 characters")
	}

	log := logger.FromContext(ctx).With(zap.String("donation_id", donationID.String()), zap.String("receiver_id", receiver.ID().String()))

	req := &models.Request{RequesterID: receiver.ID(), Message: message}
	if err := s.donations.Claim(ctx, donationID, req); err != nil {
		log.Info("food request refused", zap.Error(err))
		return nil, err
	}
	log.Info("food requested", zap.String("request_id", req.ID.String()))

	s.enqueueNotify(ctx, log, req.ID)
	return req, nil
}

func (s *requestService) enqueueNotify(ctx context.Context, log *zap.Logger, requestID uuid.UUID) {
	if s.queue == nil {
		log.Warn("asynq client not configured, skipping notify enqueue")
		return
	}
	task, err := tasks.NewRequestNotifyTask(requestID)
	if err != nil {
		log.Error("build notify task failed", zap.Error(err))
		return
	}
	if _, err := s.queue.EnqueueContext(ctx, task); err != nil {
		// the claim is already committed
		log.Error("enqueue notify task failed", zap.Error(err))
	}
}
