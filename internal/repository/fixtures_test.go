package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/foodshare/engine/internal/models"
)

func mustUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, NewUserRepository(db).CreateWithProfile(context.Background(), u, "0700000000"))
	return u
}

func mustDonation(t *testing.T, db *gorm.DB, donor *models.User, food string) *models.Donation {
	t.Helper()
	pickup := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)
	d := &models.Donation{
		DonorID:        donor.ID,
		FoodType:       food,
		Quantity:       "5kg",
		PickupLocation: "12 Market Street",
		PickupTime:     pickup,
		ExpiryDate:     datatypes.Date(pickup.AddDate(0, 0, 3)),
	}
	require.NoError(t, NewDonationRepository(db).Create(context.Background(), d))
	return d
}
