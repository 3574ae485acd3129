package services

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/foodshare/engine/internal/validators"
	"github.com/foodshare/engine/internal/models"
	"github.com/foodshare/engine/internal/repository"
	appErr "github.com/foodshare/engine/pkg/errors"
	"github.com/foodshare/engine/pkg/logger"
)

type DonationService interface {
	Create(ctx context.Context, donor Donor, in *DonationInput) (*models.Donation, error)
	Update(ctx context.Context, donor Donor, donationID uuid.UUID, in *DonationInput) (*models.Donation, error)
	Delete(ctx context.Context, donor Donor, donationID uuid.UUID) error
	// Dashboard returns the donor's donations and the requests made against them.
	Dashboard(ctx context.Context, donor Donor) (*Dashboard, error)
	// ListDonations returns listings for receivers. An empty status means
	// Available; "all" disables the filter.
	ListDonations(ctx context.Context, receiver Receiver, status string) ([]models.DonationListing, error)
}

// DonationInput carries the donor-editable fields of a donation.
type DonationInput struct {
	FoodType       string    `json:"food_type" validate:"required,max=100"`
	Quantity       string    `json:"quantity" validate:"required,max=50,quantity"`
	PickupLocation string    `json:"pickup_location" validate:"required,max=255"`
	PickupTime     time.Time `json:"pickup_time" validate:"required"`
	ExpiryDate     time.Time `json:"expiry_date" validate:"required"`
}

type Dashboard struct {
	Donations []models.Donation        `json:"donations"`
	Requests  []models.IncomingRequest `json:"requests"`
}

// StatusAll lifts the status filter on ListDonations.
const StatusAll = "all"

type donationService struct {
	donations repository.DonationRepository
	requests  repository.RequestRepository
	validate  *validator.Validate
}

func NewDonationService(donations repository.DonationRepository, requests repository.RequestRepository) DonationService {
	return &donationService{donations: donations, requests: requests, validate: validators.New()}
}

var _ DonationService = (*donationService)(nil)

func (s *donationService) check(in *DonationInput) error {
	if in == nil {
		return appErr.Validation("donation details are required")
	}
	if err := s.validate.Struct(in); err != nil {
		return appErr.Validation(validators.Describe(err))
	}
	// pickup_time is stored in UTC, so its calendar day is the UTC one.
	p := in.PickupTime.UTC()
	pickupDay := time.Date(p.Year(), p.Month(), p.Day(), 0, 0, 0, 0, time.UTC)
	e := in.ExpiryDate
	expiryDay := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	if expiryDay.Before(pickupDay) {
		return appErr.Validation("expiry_date must not be before the pickup date")
	}
	return nil
}

func expiryDate(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

func (s *donationService) Create(ctx context.Context, donor Donor, in *DonationInput) (*models.Donation, error) {
	if donor.ID() == uuid.Nil {
		return nil, appErr.Forbidden("only donors can manage donations")
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	d := &models.Donation{
		DonorID:        donor.ID(),
		FoodType:       in.FoodType,
		Quantity:       in.Quantity,
		PickupLocation: in.PickupLocation,
		PickupTime:     in.PickupTime.UTC(),
		ExpiryDate:     expiryDate(in.ExpiryDate),
		Status:         models.StatusAvailable,
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("donation created", zap.String("donation_id", d.ID.String()), zap.String("donor_id", donor.ID().String()))
	return d, nil
}

// owned loads the donation and checks that donor owns it.
func (s *donationService) owned(ctx context.Context, donor Donor, donationID uuid.UUID) (*models.Donation, error) {
	if donor.ID() == uuid.Nil {
		return nil, appErr.Forbidden("only donors can manage donations")
	}
	var d models.Donation
	if err := s.donations.GetByID(ctx, donationID, &d); err != nil {
		return nil, err
	}
	if d.DonorID != donor.ID() {
		return nil, appErr.Forbidden("donation belongs to another donor")
	}
	return &d, nil
}

func (s *donationService) Update(ctx context.Context, donor Donor, donationID uuid.UUID, in *DonationInput) (*models.Donation, error) {
	d, err := s.owned(ctx, donor, donationID)
	if err != nil {
		logger.FromContext(ctx).Info("donation update refused", zap.String("donation_id", donationID.String()), zap.Error(err))
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	d.FoodType = in.FoodType
	d.Quantity = in.Quantity
	d.PickupLocation = in.PickupLocation
	d.PickupTime = in.PickupTime.UTC()
	d.ExpiryDate = expiryDate(in.ExpiryDate)
	if err := s.donations.UpdateDetails(ctx, d); err != nil {
		return nil, err
	}

	var fresh models.Donation
	if err := s.donations.GetByID(ctx, donationID, &fresh); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("donation updated", zap.String("donation_id", donationID.String()))
	return &fresh, nil
}

func (s *donationService) Delete(ctx context.Context, donor Donor, donationID uuid.UUID) error {
	if _, err := s.owned(ctx, donor, donationID); err != nil {
		logger.FromContext(ctx).Info("donation delete refused", zap.String("donation_id", donationID.String()), zap.Error(err))
		return err
	}
	if err := s.donations.DeleteWithRequests(ctx, donationID, donor.ID()); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("donation deleted", zap.String("donation_id", donationID.String()))
	return nil
}

func (s *donationService) Dashboard(ctx context.Context, donor Donor) (*Dashboard, error) {
	if donor.ID() == uuid.Nil {
		return nil, appErr.Forbidden("only donors can manage donations")
	}
	donations, err := s.donations.ListByDonor(ctx, donor.ID())
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ListIncoming(ctx, donor.ID())
	if err != nil {
		return nil, err
	}
	if donations == nil {
		donations = []models.Donation{}
	}
	if requests == nil {
		requests = []models.IncomingRequest{}
	}
	return &Dashboard{Donations: donations, Requests: requests}, nil
}

func (s *donationService) ListDonations(ctx context.Context, receiver Receiver, status string) ([]models.DonationListing, error) {
	if receiver.ID() == uuid.Nil {
		return nil, appErr.Forbidden("only receivers can request food")
	}
	var filter models.DonationStatus
	switch status {
	case "", string(models.StatusAvailable):
		filter = models.StatusAvailable
	case string(models.StatusRequested):
		filter = models.StatusRequested
	case StatusAll:
	default:
		return nil, appErr.Validation("status must be one of: Available, Requested, all")
	}
	out, err := s.donations.ListListings(ctx, filter)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.DonationListing{}
	}
	return out, nil
}
