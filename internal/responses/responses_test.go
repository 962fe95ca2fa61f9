package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matryer/is"

	"sayabantu/internal/utils"
)

func TestSendError(t *testing.T) {
	is := is.New(t)
	w := httptest.NewRecorder()
	SendError(w, http.StatusNotFound, "Logo not found")

	is.Equal(w.Code, http.StatusNotFound)
	is.Equal(w.Header().Get("Content-Type"), "application/json")
	var body map[string]string
	is.NoErr(json.NewDecoder(w.Body).Decode(&body))
	is.Equal(body, map[string]string{"error": "Logo not found"})
}

func TestSendDatabaseError(t *testing.T) {
	is := is.New(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/settings", nil)
	SendDatabaseError(w, r, errors.New("connection refused"), "GET /settings")

	is.Equal(w.Code, http.StatusInternalServerError)
	var body ErrorResponse
	is.NoErr(json.NewDecoder(w.Body).Decode(&body))
	is.Equal(body.Error, "Database error")
	is.Equal(body.Detail, "connection refused")
}

func TestSendInternalError(t *testing.T) {
	is := is.New(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/reset-password", nil)
	SendInternalError(w, r, errors.New("bcrypt: cost out of range"), "POST /auth/reset-password")

	is.Equal(w.Code, http.StatusInternalServerError)
	var body map[string]string
	is.NoErr(json.NewDecoder(w.Body).Decode(&body))
	is.Equal(body, map[string]string{"error": "Internal server error"})
}

func TestSendValidationError(t *testing.T) {
	is := is.New(t)
	req := struct {
		Name string `json:"name" validate:"required"`
		Slug string `json:"slug" validate:"required"`
	}{}

	w := httptest.NewRecorder()
	SendValidationError(w, utils.Validate.Struct(req))
	is.Equal(w.Code, http.StatusBadRequest)

	var body ValidationErrorResponse
	is.NoErr(json.NewDecoder(w.Body).Decode(&body))
	is.Equal(body.Error, "Validation failed")
	is.Equal(len(body.Fields), 2)
	is.Equal(body.Fields[0], ValidationError{Field: "name", Message: "required"})
}
