package handlers

import (
	"net/http"

	"sayabantu/internal/database"
	"sayabantu/internal/models"
	"sayabantu/internal/responses"
	"sayabantu/internal/settings"
	"sayabantu/internal/store"
)

// PublicSite aggregates everything the homepage renders.
func PublicSite(db *database.Database, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s, err := settings.Public(ctx, db)
		if err != nil {
			responses.SendDatabaseError(w, r, err, "GET /public/site")
			return
		}
		site := models.PublicSite{
			LogoURL:         s.LogoURL,
			WhatsAppNumber:  s.WhatsAppNumber,
			WhatsAppMessage: s.WhatsAppMessage,
		}

		if site.Emails, err = st.Content.ListEmails(ctx, db, true); err != nil {
			responses.SendDatabaseError(w, r, err, "GET /public/site")
			return
		}
		if site.Addresses, err = st.Content.ListAddresses(ctx, db, true); err != nil {
			responses.SendDatabaseError(w, r, err, "GET /public/site")
			return
		}
		if site.Socials, err = st.Content.ListSocials(ctx, db, true); err != nil {
			responses.SendDatabaseError(w, r, err, "GET /public/site")
			return
		}

		responses.SendJSON(w, http.StatusOK, site)
	}
}

func PublicServices(db *database.Database, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := st.Content.ListActiveServices(r.Context(), db)
		if err != nil {
			responses.SendDatabaseError(w, r, err, "GET /public/services")
			return
		}
		responses.SendJSON(w, http.StatusOK, rows)
	}
}

func Health(db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Probe(r.Context()); err != nil {
			responses.SendDatabaseError(w, r, err, "GET /health")
			return
		}
		responses.SendJSON(w, http.StatusOK, responses.OK{OK: true})
	}
}
