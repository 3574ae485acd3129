package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request is a receiver's claim on a donation. Rows are append-only.
type Request struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DonationID  uuid.UUID `gorm:"type:uuid;index;not null" json:"donation_id"`
	Donation    *Donation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RequesterID uuid.UUID `gorm:"type:uuid;index;not null" json:"requester_id"`
	Requester   *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `gorm:"autoCreateTime;<-:create" json:"created_at"`
}

func (r *Request) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IncomingRequest is a request as seen on the owning donor's dashboard.
type IncomingRequest struct {
	Request
	RequesterUsername string `json:"requester_username"`
	DonationFoodType  string `json:"donation_food_type"`
}
