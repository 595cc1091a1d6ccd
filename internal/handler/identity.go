package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/gifboard/internal/service"
)

// IdentityHandler serves registration, login, and the password reset
// endpoints.
type IdentityHandler struct {
	identity *service.IdentityService
	logger   *slog.Logger
}

func NewIdentityHandler(identity *service.IdentityService, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{identity: identity, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse mirrors the original API's shape: the token plus a small
// user object.
type authResponse struct {
	Token string          `json:"token"`
	User  authUserPayload `json:"user"`
}

type authUserPayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// HandleRegister creates an account.
//
// HTTP: POST /api/register
// Body: {"email": "...", "password": "..."}
func (h *IdentityHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	result, err := h.identity.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token: result.Token,
		User:  authUserPayload{UserID: result.UserID, Email: result.Email},
	})
}

// HandleLogin authenticates and issues a fresh session token.
//
// HTTP: POST /api/login
func (h *IdentityHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	result, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token: result.Token,
		User:  authUserPayload{UserID: result.UserID, Email: result.Email},
	})
}

// HandleRequestReset issues a one-time verification code for the account.
// The code travels out-of-band (it is logged, not returned) — the response
// only acknowledges the request.
//
// HTTP: POST /api/password-reset/request
// Body: {"email": "..."}
func (h *IdentityHandler) HandleRequestReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	if _, err := h.identity.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "verification code issued"})
}

// HandleConfirmReset verifies the code and sets the new password.
//
// HTTP: POST /api/password-reset/confirm
// Body: {"email": "...", "code": "123456", "newPassword": "..."}
func (h *IdentityHandler) HandleConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	if err := h.identity.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
