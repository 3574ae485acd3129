package handlers

import (
	"net/http"
	"time"

	"github.com/foodshare/engine/internal/api/middleware"
	"github.com/foodshare/engine/internal/api/types"
	"github.com/foodshare/engine/internal/models"
	"github.com/foodshare/engine/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func toUser(u *models.User) types.UserResponse {
	return types.UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: string(u.Role)}
}

// DonorSignup godoc
// @Summary  Create a donor account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body types.SignupRequest true "signup"
// @Success  201 {object} types.APIResponse{data=types.UserResponse}
// @Failure  400 {object} types.APIResponse
// @Failure  409 {object} types.APIResponse
// @Router   /auth/donor/signup [post]
func (h *AuthHandler) DonorSignup(w http.ResponseWriter, r *http.Request) {
	h.signup(w, r, models.RoleDonor, "Donor account created successfully! You can now login.")
}

// ReceiverSignup godoc
// @Summary  Create a receiver account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body types.SignupRequest true "signup"
// @Success  201 {object} types.APIResponse{data=types.UserResponse}
// @Failure  400 {object} types.APIResponse
// @Failure  409 {object} types.APIResponse
// @Router   /auth/receiver/signup [post]
func (h *AuthHandler) ReceiverSignup(w http.ResponseWriter, r *http.Request) {
	h.signup(w, r, models.RoleReceiver, "Receiver account created successfully! You can now login.")
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request, role models.Role, message string) {
	var req types.SignupRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.auth.Signup(r.Context(), role, &services.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		MobileNumber:    req.MobileNumber,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, message, toUser(u))
}

// DonorLogin godoc
// @Summary  Log in as a donor
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body types.LoginRequest true "credentials"
// @Success  200 {object} types.APIResponse{data=types.TokenResponse}
// @Failure  401 {object} types.APIResponse
// @Router   /auth/donor/login [post]
func (h *AuthHandler) DonorLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.RoleDonor)
}

// ReceiverLogin godoc
// @Summary  Log in as a receiver
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body types.LoginRequest true "credentials"
// @Success  200 {object} types.APIResponse{data=types.TokenResponse}
// @Failure  401 {object} types.APIResponse
// @Router   /auth/receiver/login [post]
func (h *AuthHandler) ReceiverLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.RoleReceiver)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, role models.Role) {
	var req types.LoginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.auth.Login(r.Context(), role, req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "", types.TokenResponse{
		AccessToken: s.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(s.ExpiresAt).Seconds()),
		ExpiresAt:   s.ExpiresAt,
		User:        toUser(s.User),
	})
}

// Logout godoc
// @Summary   Revoke the current token
// @Tags      auth
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} types.APIResponse
// @Failure   401 {object} types.APIResponse
// @Router    /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), middleware.GetClaims(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, "Logged out.", nil)
}
