package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/engine/internal/models"
	appErr "github.com/foodshare/engine/pkg/errors"
)

// ErrNoLongerAvailable is returned when a claim loses the race for a donation.
var ErrNoLongerAvailable = appErr.Conflict("donation is no longer available")

type DonationRepository interface {
	BaseRepository[models.Donation]
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error)
	// ListListings returns donations joined with donor contact data. An empty
	// status returns every donation.
	ListListings(ctx context.Context, status models.DonationStatus) ([]models.DonationListing, error)
	// UpdateDetails writes the donor-editable columns of d. Status and owner
	// are never touched.
	UpdateDetails(ctx context.Context, d *models.Donation) error
	// DeleteWithRequests removes the donation owned by donorID together with
	// every request that references it.
	DeleteWithRequests(ctx context.Context, donationID, donorID uuid.UUID) error
	// Claim flips an Available donation to Requested and appends req in one
	// transaction. Exactly one concurrent caller can win a given donation.
	Claim(ctx context.Context, donationID uuid.UUID, req *models.Request) error
}

type donationRepository struct {
	BaseRepository[models.Donation]
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{BaseRepository: NewBaseRepository[models.Donation](db, "donation"), db: db}
}

func (r *donationRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error) {
	var out []models.Donation
	if err := r.db.WithContext(ctx).Where("donor_id = ?", donorID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list donations by donor failed")
	}
	return out, nil
}

func (r *donationRepository) ListListings(ctx context.Context, status models.DonationStatus) ([]models.DonationListing, error) {
	q := r.db.WithContext(ctx).
		Table("donations").
		Select("donations.*, users.username AS donor_username, COALESCE(donor_profiles.mobile_number, '') AS donor_mobile").
		Joins("JOIN users ON users.id = donations.donor_id").
		Joins("LEFT JOIN donor_profiles ON donor_profiles.user_id = donations.donor_id").
		Order("donations.created_at DESC")
	if status != "" {
		q = q.Where("donations.status = ?", status)
	}
	var out []models.DonationListing
	if err := q.Scan(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list donations failed")
	}
	return out, nil
}

func (r *donationRepository) UpdateDetails(ctx context.Context, d *models.Donation) error {
	res := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ? AND donor_id = ?", d.ID, d.DonorID).
		Updates(map[string]any{
			"food_type":       d.FoodType,
			"quantity":        d.Quantity,
			"pickup_location": d.PickupLocation,
			"pickup_time":     d.PickupTime,
			"expiry_date":     d.ExpiryDate,
		})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update donation failed")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound("donation not found")
	}
	return nil
}

func (r *donationRepository) DeleteWithRequests(ctx context.Context, donationID, donorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Donation{}).Select("id").Where("id = ? AND donor_id = ?", donationID, donorID)
		// The foreign key cascades too; deleting children first keeps stores without FK enforcement consistent.
		if err := tx.Where("donation_id IN (?)", owned).Delete(&models.Request{}).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "delete donation requests failed")
		}
		res := tx.Where("id = ? AND donor_id = ?", donationID, donorID).Delete(&models.Donation{})
		if res.Error != nil {
			return appErr.Wrap(res.Error, appErr.CodeInternal, "delete donation failed")
		}
		if res.RowsAffected == 0 {
			return appErr.NotFound("donation not found")
		}
		return nil
	})
}

func (r *donationRepository) Claim(ctx context.Context, donationID uuid.UUID, req *models.Request) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Donation{}).
			Where("id = ? AND status = ?", donationID, models.StatusAvailable).
			Update("status", models.StatusRequested)
		if res.Error != nil {
			return appErr.Wrap(res.Error, appErr.CodeInternal, "claim donation failed")
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Donation{}).Where("id = ?", donationID).Count(&count).Error; err != nil {
				return appErr.Wrap(err, appErr.CodeInternal, "check donation failed")
			}
			if count == 0 {
				return appErr.NotFound("donation not found")
			}
			return ErrNoLongerAvailable
		}

		req.DonationID = donationID
		if err := tx.Create(req).Error; err != nil {
			return wrapWriteErr(err, "create request failed")
		}
		return nil
	})
}
