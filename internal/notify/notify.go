// Package notify delivers messages to donors about activity on their donations.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/foodshare/engine/pkg/logger"
)

// DonationRequested describes a successful claim, addressed to the donor.
type DonationRequested struct {
	DonorUsername     string
	DonorMobile       string
	RequesterUsername string
	FoodType          string
	Message           string
	RequestedAt       time.Time
}

// Notifier sends DonationRequested events to a donor.
type Notifier interface {
	DonationRequested(ctx context.Context, n DonationRequested) error
}

// LogNotifier writes notifications to the structured log. It stands in for
// an SMS or mail gateway.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(l *zap.Logger) *LogNotifier {
	if l == nil {
		l = logger.L()
	}
	return &LogNotifier{log: l.Named("notify")}
}

func (n *LogNotifier) DonationRequested(ctx context.Context, ev DonationRequested) error {
	n.log.Info("donation requested",
		zap.String("request_id", logger.RequestID(ctx)),
		zap.String("donor", ev.DonorUsername),
		zap.String("donor_mobile", ev.DonorMobile),
		zap.String("requester", ev.RequesterUsername),
		zap.String("food_type", ev.FoodType),
		zap.String("message", ev.Message),
		zap.Time("requested_at", ev.RequestedAt),
	)
	return nil
}
