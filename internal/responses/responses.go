// Package responses writes JSON bodies in the shapes the admin panel and
// public site expect: payloads as-is and failures as {"error": ...}.
package responses

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"sayabantu/internal/database"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields []ValidationError `json:"fields"`
}

// OK is the body of successful deletes and similar acknowledgements.
type OK struct {
	OK bool `json:"ok"`
}

func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func SendError(w http.ResponseWriter, statusCode int, message string) {
	SendJSON(w, statusCode, ErrorResponse{Error: message})
}

// SendDatabaseError logs err under label and writes a 500 whose detail is
// the driver message, never the SQL text.
func SendDatabaseError(w http.ResponseWriter, r *http.Request, err error, label string) {
	log.FromContext(r.Context()).Error("database error", "at", label, "err", err)
	SendJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:  "Database error",
		Detail: database.Detail(err),
	})
}

// SendInternalError logs err under label and writes a 500 without any
// detail.
func SendInternalError(w http.ResponseWriter, r *http.Request, err error, label string) {
	log.FromContext(r.Context()).Error("internal error", "at", label, "err", err)
	SendError(w, http.StatusInternalServerError, "Internal server error")
}

func SendValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		SendError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, ValidationError{
			Field:   fe.Field(),
			Message: fe.Tag(),
		})
	}
	SendJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:  "Validation failed",
		Fields: fields,
	})
}
