// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-user-accounts/internal/logger"
	"github.com/MKhiriev/go-user-accounts/internal/service"
	"github.com/MKhiriev/go-user-accounts/internal/store"
	"github.com/MKhiriev/go-user-accounts/internal/utils"
	"github.com/MKhiriev/go-user-accounts/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSON(w, models.NewErrorResponse("invalid JSON was passed"), http.StatusBadRequest)
		return
	}

	registeredUser, err := h.services.AccountService.Register(ctx, req)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			log.Err(err).Msg("register request rejected")
			utils.WriteJSON(w, models.ErrorResponse{Errors: vErr.Fields}, http.StatusBadRequest)
			return
		case errors.Is(err, store.ErrEmailAlreadyExists):
			log.Err(err).Msg("email already exists")
			utils.WriteJSON(w, models.ErrorResponse{
				Errors: []models.FieldError{{Field: "email", Message: "email already exists"}},
			}, http.StatusConflict)
			return
		case errors.Is(err, store.ErrUsernameAlreadyExists):
			log.Err(err).Msg("username already exists")
			utils.WriteJSON(w, models.ErrorResponse{
				Errors: []models.FieldError{{Field: "username", Message: "username already exists"}},
			}, http.StatusConflict)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user registration")
			writeError(w, err, http.StatusText(statusFromError(err)))
			return
		}
	}

	log.Debug().Int64("id", registeredUser.UserID).Msg("user successfully registered")

	w.Header().Set("Location", fmt.Sprintf("/User/%d", registeredUser.UserID))
	utils.WriteJSON(w, models.RegisterResponse{ID: registeredUser.UserID}, http.StatusCreated)
}

func (h *Handler) confirmEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		log.Err(err).Msg("malformed userId query parameter")
		utils.WriteJSON(w, models.NewErrorResponse(invalidCodeMessage), http.StatusBadRequest)
		return
	}
	code := r.URL.Query().Get("code")

	if err := h.services.AccountService.ConfirmEmail(ctx, userID, code); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidToken):
			log.Err(err).Int64("user_id", userID).Msg("email confirmation rejected")
			utils.WriteJSON(w, models.NewErrorResponse(invalidCodeMessage), http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during email confirmation")
			writeError(w, err, http.StatusText(statusFromError(err)))
			return
		}
	}

	utils.WriteJSON(w, true, http.StatusOK)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSON(w, models.NewErrorResponse("invalid JSON was passed"), http.StatusBadRequest)
		return
	}

	if err := h.services.AccountService.ForgotPassword(ctx, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrNotEligible) || errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("password recovery rejected")
			utils.WriteJSON(w, models.NewErrorResponse("unable to start password recovery for this email"), http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during password recovery")
			writeError(w, err, http.StatusText(statusFromError(err)))
			return
		}
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "check your email to reset your password"}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSON(w, models.NewErrorResponse("invalid JSON was passed"), http.StatusBadRequest)
		return
	}

	if err := h.services.AccountService.ResetPassword(ctx, req); err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			log.Err(err).Msg("weak password rejected")
			utils.WriteJSON(w, models.ErrorResponse{
				Errors: []models.FieldError{{Field: "password", Message: service.ErrWeakPassword.Error()}},
			}, http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			utils.WriteJSON(w, models.NewErrorResponse("invalid data provided"), http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidToken):
			log.Err(err).Msg("password reset rejected")
			utils.WriteJSON(w, models.NewErrorResponse(invalidCodeMessage), http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during password reset")
			writeError(w, err, http.StatusText(statusFromError(err)))
			return
		}
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "your password has been reset"}, http.StatusOK)
}
