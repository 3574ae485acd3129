package types

import "time"

// SignupRequest is shared by the donor and receiver signup endpoints.
type SignupRequest struct {
	Username        string `json:"username" example:"alice"`
	Email           string `json:"email" example:"alice@example.com"`
	Password        string `json:"password" example:"s3cret-pass"`
	ConfirmPassword string `json:"confirm_password" example:"s3cret-pass"`
	MobileNumber    string `json:"mobile_number" example:"0712345678"`
}

type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"s3cret-pass"`
}

// DonationRequest creates or replaces a donation. ExpiryDate is YYYY-MM-DD.
type DonationRequest struct {
	FoodType       string    `json:"food_type" example:"Rice"`
	Quantity       string    `json:"quantity" example:"5kg"`
	PickupLocation string    `json:"pickup_location" example:"12 Market Street"`
	PickupTime     time.Time `json:"pickup_time" example:"2026-10-20T15:00:00Z"`
	ExpiryDate     string    `json:"expiry_date" example:"2026-10-22"`
}

type FoodRequestRequest struct {
	Message string `json:"message" example:"We can collect this afternoon."`
}
