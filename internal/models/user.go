package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role tags a user as donor or receiver. It is fixed at signup.
type Role string

const (
	RoleDonor    Role = "donor"
	RoleReceiver Role = "receiver"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleReceiver
}

// User represents a platform account.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(254);not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-" swaggerignore:"true"`
	Role         Role      `gorm:"type:varchar(10);index;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DonorProfile holds donor-only contact data. One per donor user.
type DonorProfile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MobileNumber string    `gorm:"type:varchar(15);not null" json:"mobile_number"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p *DonorProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ReceiverProfile holds receiver-only contact data. One per receiver user.
type ReceiverProfile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MobileNumber string    `gorm:"type:varchar(15);not null" json:"mobile_number"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p *ReceiverProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
