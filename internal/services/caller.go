package services

import (
	"github.com/google/uuid"

	"github.com/foodshare/engine/internal/models"
	appErr "github.com/foodshare/engine/pkg/errors"
)

// Caller is the verified identity behind a service call.
type Caller struct {
	UserID uuid.UUID
	Role   models.Role
}

// Donor is a Caller proven to hold the donor role. Obtain it with Caller.AsDonor.
type Donor struct{ id uuid.UUID }

// Receiver is a Caller proven to hold the receiver role. Obtain it with Caller.AsReceiver.
type Receiver struct{ id uuid.UUID }

func (d Donor) ID() uuid.UUID    { return d.id }
func (r Receiver) ID() uuid.UUID { return r.id }

func (c Caller) AsDonor() (Donor, error) {
	if c.UserID == uuid.Nil || c.Role != models.RoleDonor {
		return Donor{}, appErr.Forbidden("only donors can manage donations")
	}
	return Donor{id: c.UserID}, nil
}

func (c Caller) AsReceiver() (Receiver, error) {
	if c.UserID == uuid.Nil || c.Role != models.RoleReceiver {
		return Receiver{}, appErr.Forbidden("only receivers can request food")
	}
	return Receiver{id: c.UserID}, nil
}
