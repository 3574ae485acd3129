package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/foodshare/engine/internal/models"
	"github.com/foodshare/engine/internal/notify"
	"github.com/foodshare/engine/internal/repository"
	appErr "github.com/foodshare/engine/pkg/errors"
	"github.com/foodshare/engine/pkg/logger"
)

// TypeRequestNotify tells the donor that one of their donations was claimed.
const TypeRequestNotify = "request:notify"

// RequestNotifyPayload is the task payload for request:notify.
type RequestNotifyPayload struct {
	RequestID string `json:"request_id"`
}

// NewRequestNotifyTask builds the task enqueued after a successful claim.
func NewRequestNotifyTask(requestID uuid.UUID) (*asynq.Task, error) {
	b, err := json.Marshal(RequestNotifyPayload{RequestID: requestID.String()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRequestNotify, b, asynq.MaxRetry(5)), nil
}

// RequestNotifyHandler resolves a request into a donor notification.
type RequestNotifyHandler struct {
	requests  repository.RequestRepository
	donations repository.DonationRepository
	users     repository.UserRepository
	notifier  notify.Notifier
}

func NewRequestNotifyHandler(requests repository.RequestRepository, donations repository.DonationRepository, users repository.UserRepository, notifier notify.Notifier) *RequestNotifyHandler {
	return &RequestNotifyHandler{requests: requests, donations: donations, users: users, notifier: notifier}
}

func (h *RequestNotifyHandler) HandleRequestNotify(ctx context.Context, t *asynq.Task) error {
	var p RequestNotifyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid request notify payload", zap.Error(err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := uuid.Parse(p.RequestID)
	if err != nil {
		logger.L().Error("invalid request id in task", zap.String("request_id", p.RequestID), zap.Error(err))
		return fmt.Errorf("parse request id: %v: %w", err, asynq.SkipRetry)
	}

	log := logger.L().With(zap.String("request_id", id.String()))
	log.Info("handling request notify task")

	var req models.Request
	if err := h.requests.GetByID(ctx, id, &req); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			// donation deleted after the claim; its requests went with it
			log.Warn("request vanished before notification")
			return nil
		}
		return err
	}

	var donation models.Donation
	if err := h.donations.GetByID(ctx, req.DonationID, &donation); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			log.Warn("donation vanished before notification", zap.String("donation_id", req.DonationID.String()))
			return nil
		}
		return err
	}

	var donor, requester models.User
	if err := h.users.GetByID(ctx, donation.DonorID, &donor); err != nil {
		return err
	}
	if err := h.users.GetByID(ctx, req.RequesterID, &requester); err != nil {
		return err
	}

	var profile models.DonorProfile
	if err := h.users.GetDonorProfile(ctx, donor.ID, &profile); err != nil && !appErr.IsCode(err, appErr.CodeNotFound) {
		return err
	}

	err = h.notifier.DonationRequested(ctx, notify.DonationRequested{
		DonorUsername:     donor.Username,
		DonorMobile:       profile.MobileNumber,
		RequesterUsername: requester.Username,
		FoodType:          donation.FoodType,
		Message:           req.Message,
		RequestedAt:       req.CreatedAt,
	})
	if err != nil {
		log.Error("notify donor failed", zap.Error(err))
		return err
	}
	log.Info("donor notified", zap.String("donor", donor.Username))
	return nil
}
