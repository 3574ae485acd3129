package handlers

import (
	"net/http"
	"time"

	"github.com/foodshare/engine/internal/api/types"
	"github.com/foodshare/engine/internal/services"
	appErr "github.com/foodshare/engine/pkg/errors"
)

const dateLayout = "2006-01-02"

type DonorHandler struct {
	donations services.DonationService
}

func NewDonorHandler(donations services.DonationService) *DonorHandler {
	return &DonorHandler{donations: donations}
}

func donorFrom(r *http.Request) (services.Donor, error) {
	c, err := caller(r)
	if err != nil {
		return services.Donor{}, err
	}
	return c.AsDonor()
}

func donationInput(req *types.DonationRequest) (*services.DonationInput, error) {
	in := &services.DonationInput{
		FoodType:       req.FoodType,
		Quantity:       req.Quantity,
		PickupLocation: req.PickupLocation,
		PickupTime:     req.PickupTime,
	}
	if req.ExpiryDate != "" {
		d, err := time.Parse(dateLayout, req.ExpiryDate)
		if err != nil {
			return nil, appErr.Validation("expiry_date must be formatted as YYYY-MM-DD")
		}
		in.ExpiryDate = d
	}
	return in, nil
}

// hideForeign collapses ownership failures into 404 so other donors'
// donation ids cannot be probed.
func hideForeign(err error) error {
	if appErr.IsCode(err, appErr.CodeForbidden) {
		return appErr.NotFound("donation not found")
	}
	return err
}

// Dashboard godoc
// @Summary   Donor dashboard
// @Tags      donor
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} types.APIResponse{data=services.Dashboard}
// @Router    /donor/dashboard [get]
func (h *DonorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	donor, err := donorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dash, err := h.donations.Dashboard(r.Context(), donor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "", dash)
}

// Create godoc
// @Summary   Post a donation
// @Tags      donor
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body body types.DonationRequest true "donation"
// @Success   201 {object} types.APIResponse{data=models.Donation}
// @Failure   400 {object} types.APIResponse
// @Router    /donor/donations [post]
func (h *DonorHandler) Create(w http.ResponseWriter, r *http.Request) {
	donor, err := donorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.DonationRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := donationInput(&req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.donations.Create(r.Context(), donor, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, "Donation posted successfully!", d)
}

// Update godoc
// @Summary   Edit an owned donation
// @Tags      donor
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path string true "donation id"
// @Param     body body types.DonationRequest true "donation"
// @Success   200 {object} types.APIResponse{data=models.Donation}
// @Failure   404 {object} types.APIResponse
// @Router    /donor/donations/{id} [put]
func (h *DonorHandler) Update(w http.ResponseWriter, r *http.Request) {
	donor, err := donorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.DonationRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := donationInput(&req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.donations.Update(r.Context(), donor, id, in)
	if err != nil {
		writeError(w, r, hideForeign(err))
		return
	}
	writeOK(w, r, http.StatusOK, "Donation updated.", d)
}

// Delete godoc
// @Summary   Delete an owned donation and its requests
// @Tags      donor
// @Produce   json
// @Security  BearerAuth
// @Param     id path string true "donation id"
// @Success   200 {object} types.APIResponse
// @Failure   404 {object} types.APIResponse
// @Router    /donor/donations/{id} [delete]
func (h *DonorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	donor, err := donorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.donations.Delete(r.Context(), donor, id); err != nil {
		writeError(w, r, hideForeign(err))
		return
	}
	writeOK(w, r, http.StatusOK, "Donation deleted.", nil)
}
