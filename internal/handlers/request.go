package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"sayabantu/internal/apperr"
	"sayabantu/internal/responses"
	"sayabantu/internal/utils"
)

const maxJSONBody = 1 << 20

// decodeJSON reads a JSON body into v and validates it. On failure the
// response is written and false returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := decodeBody(w, r, v); err != nil {
		responses.SendError(w, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return validate(w, v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v)
}

func validate(w http.ResponseWriter, v interface{}) bool {
	if err := utils.Validate.Struct(v); err != nil {
		responses.SendValidationError(w, err)
		return false
	}
	return true
}

// pathID parses the {id} route variable.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		responses.SendError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// writeAppError maps err to a status code. Storage failures are logged and
// reported as a database error; other internal failures get no detail.
func writeAppError(w http.ResponseWriter, r *http.Request, err error, label string) {
	if errors.Is(err, apperr.ErrInternal) {
		responses.SendInternalError(w, r, err, label)
		return
	}
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		responses.SendDatabaseError(w, r, err, label)
		return
	}
	responses.SendError(w, status, err.Error())
}

// sendAs writes msg with the status of kind, one of the apperr errors.
func sendAs(w http.ResponseWriter, kind error, msg string) {
	responses.SendError(w, apperr.Status(kind), msg)
}

// notFoundAs rewrites apperr.ErrNotFound to msg and leaves other errors
// to writeAppError.
func notFoundAs(w http.ResponseWriter, r *http.Request, err error, msg, label string) {
	if errors.Is(err, apperr.ErrNotFound) {
		responses.SendError(w, http.StatusNotFound, msg)
		return
	}
	writeAppError(w, r, err, label)
}
