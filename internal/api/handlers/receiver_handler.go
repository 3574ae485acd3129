package handlers

import (
	"errors"
	"net/http"

	"github.com/foodshare/engine/internal/api/types"
	"github.com/foodshare/engine/internal/services"
)

type ReceiverHandler struct {
	donations services.DonationService
	requests  services.RequestService
}

func NewReceiverHandler(donations services.DonationService, requests services.RequestService) *ReceiverHandler {
	return &ReceiverHandler{donations: donations, requests: requests}
}

func receiverFrom(r *http.Request) (services.Receiver, error) {
	c, err := caller(r)
	if err != nil {
		return services.Receiver{}, err
	}
	return c.AsReceiver()
}

// ListDonations godoc
// @Summary   Browse donations with donor contact details
// @Tags      receiver
// @Produce   json
// @Security  BearerAuth
// @Param     status query string false "Available (default), Requested or all"
// @Success   200 {object} types.APIResponse{data=[]models.DonationListing}
// @Router    /receiver/donations [get]
func (h *ReceiverHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	receiver, err := receiverFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.donations.ListDonations(r.Context(), receiver, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

// RequestFood godoc
// @Summary   Claim an available donation
// @Tags      receiver
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path string true "donation id"
// @Param     body body types.FoodRequestRequest false "optional note"
// @Success   201 {object} types.APIResponse{data=models.Request}
// @Failure   404 {object} types.APIResponse
// @Failure   409 {object} types.APIResponse
// @Router    /receiver/donations/{id}/request [post]
func (h *ReceiverHandler) RequestFood(w http.ResponseWriter, r *http.Request) {
	receiver, err := receiverFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// the note is optional; an empty body means no note
	var req types.FoodRequestRequest
	if err := decode(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, r, err)
		return
	}
	created, err := h.requests.RequestFood(r.Context(), receiver, id, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, "Food request submitted successfully.", created)
}
