package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"sayabantu/internal/apperr"
	"sayabantu/internal/models"
	"sayabantu/internal/responses"
	"sayabantu/internal/services"
)

// RequestPasswordReset always answers with the same message unless the
// database fails, so callers cannot probe which emails are registered.
func RequestPasswordReset(svc *services.PasswordResetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ResetRequest
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			responses.SendError(w, http.StatusBadRequest, "Invalid request format")
			return
		}

		if err := svc.RequestReset(r.Context(), req.Email); err != nil {
			writeAppError(w, r, err, "POST /auth/request-reset")
			return
		}

		responses.SendJSON(w, http.StatusOK, models.MessageResponse{Message: services.ResetRequestedMessage})
	}
}

func ResetPassword(svc *services.PasswordResetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ResetPassword
		if !decodeJSON(w, r, &req) {
			return
		}

		err := svc.ResetPassword(r.Context(), req.Token, req.Password)
		switch {
		case err == nil:
			responses.SendJSON(w, http.StatusOK, models.MessageResponse{Message: services.ResetDoneMessage})
		case errors.Is(err, apperr.ErrValidation):
			responses.SendError(w, http.StatusBadRequest, "Token dan password wajib diisi")
		case errors.Is(err, apperr.ErrInvalidToken):
			responses.SendError(w, http.StatusBadRequest, services.InvalidTokenMessage)
		default:
			writeAppError(w, r, err, "POST /auth/reset-password")
		}
	}
}
