package handlers

import (
	"errors"
	"net/http"

	"sayabantu/internal/apperr"
	"sayabantu/internal/database"
	"sayabantu/internal/models"
	"sayabantu/internal/responses"
	"sayabantu/internal/settings"
)

func GetSettings(db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := settings.Read(r.Context(), db)
		if err != nil {
			responses.SendDatabaseError(w, r, err, "GET /settings")
			return
		}
		responses.SendJSON(w, http.StatusOK, s)
	}
}

// formValue returns a pointer to the form field, or nil if it was not sent.
func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	vs, ok := r.MultipartForm.Value[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	return &vs[0]
}

// UpdateSettings accepts JSON or a multipart form with an optional "logo"
// file. The logo and WhatsApp rows are written in one transaction.
func UpdateSettings(db *database.Database, u *Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateSettingsRequest
		if isMultipart(r) {
			if !parseMultipart(w, r) {
				return
			}
			req.LogoURL = formValue(r, "logo_url")
			req.WhatsAppNumber = formValue(r, "whatsapp_number")
			req.WhatsAppMessage = formValue(r, "whatsapp_message")

			url, err := u.SaveFormFile(r, "logo")
			if err != nil {
				sendUploadError(w, r, err)
				return
			}
			if url != "" {
				req.LogoURL = &url
			}
		} else if !decodeJSON(w, r, &req) {
			return
		}

		s, err := settings.Update(r.Context(), db, req)
		if err != nil {
			responses.SendDatabaseError(w, r, err, "PUT /settings")
			return
		}
		responses.SendJSON(w, http.StatusOK, s)
	}
}

func UpdateWhatsApp(db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateWhatsAppRequest
		if err := decodeBody(w, r, &req); err != nil {
			responses.SendError(w, http.StatusBadRequest, "Invalid request format")
			return
		}
		if req.Number == "" || req.Message == "" {
			responses.SendError(w, http.StatusBadRequest, "Nomor WhatsApp dan pesan tidak boleh kosong.")
			return
		}

		if err := settings.SetWhatsApp(r.Context(), db, req.Number, req.Message); err != nil {
			responses.SendDatabaseError(w, r, err, "PUT /settings/whatsapp")
			return
		}
		responses.SendJSON(w, http.StatusOK, struct {
			OK bool `json:"ok"`
			models.UpdateWhatsAppRequest
		}{true, req})
	}
}

func deletePrimary(db *database.Database, del func(r *http.Request, h database.Handler) error, notFound, label string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := del(r, db)
		if errors.Is(err, apperr.ErrNotFound) {
			responses.SendError(w, http.StatusNotFound, notFound)
			return
		}
		if err != nil {
			responses.SendDatabaseError(w, r, err, label)
			return
		}
		responses.SendJSON(w, http.StatusOK, responses.OK{OK: true})
	}
}

func DeleteLogo(db *database.Database) http.HandlerFunc {
	return deletePrimary(db, func(r *http.Request, h database.Handler) error {
		return settings.LogoKind.Delete(r.Context(), h)
	}, "Logo not found", "DELETE /settings/logo")
}

func DeleteWhatsApp(db *database.Database) http.HandlerFunc {
	return deletePrimary(db, func(r *http.Request, h database.Handler) error {
		return settings.WhatsAppKind.Delete(r.Context(), h)
	}, "WhatsApp number not found", "DELETE /settings/whatsapp")
}
