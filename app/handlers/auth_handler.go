package handlers

import (
	"net/http"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/services"
	"github.com/UltraPon/SellUp/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Base
	auth         *services.AuthService
	sessionStore sessions.SessionStore
}

func NewAuthHandler(base Base, auth *services.AuthService, sessionStore sessions.SessionStore) *AuthHandler {
	return &AuthHandler{Base: base, auth: auth, sessionStore: sessionStore}
}

type userSummary struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

func summarize(u *models.User) userSummary {
	return userSummary{ID: u.ID, Email: u.Email, Username: u.Username, IsStaff: u.IsStaff}
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userSummary `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := helpers.DecodeJSON(r, h.Validator, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusCreated, map[string]interface{}{
		"message": "registration successful, check your email to confirm the address",
		"user":    summarize(user),
	})
}

func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	already, err := h.auth.ConfirmEmail(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if already {
		h.json(w, http.StatusOK, messageResponse{Message: "email already confirmed"})
		return
	}
	h.json(w, http.StatusOK, messageResponse{Message: "email confirmed"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := helpers.DecodeJSON(r, h.Validator, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	user, token, err := h.auth.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		h.Logger.Error("failed to save session", zap.Uint("user_id", user.ID), zap.Error(err))
		h.fail(w, r, apperrors.Internal(err))
		return
	}
	h.json(w, http.StatusOK, loginResponse{Message: "login successful", Token: token, User: summarize(user)})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if helpers.CurrentUser(r.Context()) == nil {
		h.fail(w, r, apperrors.ValidationField("non_field_errors", "not logged in"))
		return
	}
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		h.fail(w, r, apperrors.Internal(err))
		return
	}
	h.json(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r.Context())
	if user == nil {
		h.fail(w, r, apperrors.Unauthorized("not logged in"))
		return
	}
	h.json(w, http.StatusOK, summarize(user))
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, mustUser(r))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileInput
	if err := helpers.DecodeJSON(r, h.Validator, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.auth.UpdateProfile(r.Context(), mustUser(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, user)
}

func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := helpers.DecodeJSON(r, h.Validator, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), in.Email); err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, messageResponse{Message: "password reset link sent"})
}

func (h *AuthHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.ValidateResetToken(r.Context(), mux.Vars(r)["token"]); err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]bool{"valid": true})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in services.PasswordResetInput
	if err := helpers.DecodeJSON(r, h.Validator, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.auth.ResetPassword(r.Context(), mux.Vars(r)["token"], in); err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, messageResponse{Message: "password has been reset"})
}

func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, map[string]string{"csrfToken": csrf.Token(r)})
}
