package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DonationStatus is the lifecycle state of a donation.
type DonationStatus string

const (
	StatusAvailable DonationStatus = "Available"
	StatusRequested DonationStatus = "Requested"
)

// Donation is a food item offered by a donor.
type Donation struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DonorID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"donor_id"`
	Donor          *User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FoodType       string         `gorm:"type:varchar(100);not null" json:"food_type"`
	Quantity       string         `gorm:"type:varchar(50);not null" json:"quantity"`
	PickupLocation string         `gorm:"type:varchar(255);not null" json:"pickup_location"`
	PickupTime     time.Time      `gorm:"not null" json:"pickup_time"`
	ExpiryDate     datatypes.Date `gorm:"not null" json:"expiry_date" swaggertype:"string" format:"date"`
	Status         DonationStatus `gorm:"type:varchar(20);index;not null;default:'Available'" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (d *Donation) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = StatusAvailable
	}
	return nil
}

// DonationListing is a donation joined with its donor's public contact data.
type DonationListing struct {
	Donation
	DonorUsername string `json:"donor_username"`
	DonorMobile   string `json:"donor_mobile"`
}
