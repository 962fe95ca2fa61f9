package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"sayabantu/internal/database"
	"sayabantu/internal/models"
	"sayabantu/internal/responses"
	"sayabantu/internal/store"
)

type created struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

// resource is the admin CRUD surface of one content table.
type resource[In any, Out any] struct {
	name   string
	path   string
	list   func(ctx context.Context, h database.Handler) ([]Out, error)
	create func(ctx context.Context, h database.Handler, in In) (int64, error)
	update func(ctx context.Context, h database.Handler, id int64, in In) error
	delete func(ctx context.Context, h database.Handler, id int64) error
}

func (res resource[In, Out]) List(db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := res.list(r.Context(), db)
		if err != nil {
			responses.SendDatabaseError(w, r, err, "GET "+res.path)
			return
		}
		responses.SendJSON(w, http.StatusOK, rows)
	}
}

func (res resource[In, Out]) Create(db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if !decodeJSON(w, r, &in) {
			return
		}
		id, err := res.create(r.Context(), db, in)
		if err != nil {
			writeAppError(w, r, err, "POST "+res.path)
			return
		}
		responses.SendJSON(w, http.StatusCreated, created{OK: true, ID: id})
	}
}

func (res resource[In, Out]) Update(db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var in In
		if !decodeJSON(w, r, &in) {
			return
		}
		if err := res.update(r.Context(), db, id, in); err != nil {
			notFoundAs(w, r, err, res.name+" not found", "PUT "+res.path+"/:id")
			return
		}
		responses.SendJSON(w, http.StatusOK, responses.OK{OK: true})
	}
}

func (res resource[In, Out]) Delete(db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := res.delete(r.Context(), db, id); err != nil {
			notFoundAs(w, r, err, res.name+" not found", "DELETE "+res.path+"/:id")
			return
		}
		responses.SendJSON(w, http.StatusOK, responses.OK{OK: true})
	}
}

func emailResource(st *store.Store) resource[models.EmailInput, models.Email] {
	return resource[models.EmailInput, models.Email]{
		name: "Email",
		path: "/emails",
		list: func(ctx context.Context, h database.Handler) ([]models.Email, error) {
			return st.Content.ListEmails(ctx, h, false)
		},
		create: st.Content.CreateEmail,
		update: st.Content.UpdateEmail,
		delete: st.Content.DeleteEmail,
	}
}

func addressResource(st *store.Store) resource[models.AddressInput, models.Address] {
	return resource[models.AddressInput, models.Address]{
		name: "Address",
		path: "/addresses",
		list: func(ctx context.Context, h database.Handler) ([]models.Address, error) {
			return st.Content.ListAddresses(ctx, h, false)
		},
		create: st.Content.CreateAddress,
		update: st.Content.UpdateAddress,
		delete: st.Content.DeleteAddress,
	}
}

func socialResource(st *store.Store) resource[models.SocialInput, models.SocialLink] {
	return resource[models.SocialInput, models.SocialLink]{
		name: "Social link",
		path: "/socials",
		list: func(ctx context.Context, h database.Handler) ([]models.SocialLink, error) {
			return st.Content.ListSocials(ctx, h, false)
		},
		create: st.Content.CreateSocial,
		update: st.Content.UpdateSocial,
		delete: st.Content.DeleteSocial,
	}
}

// Services accept JSON or a multipart form with an optional "icon_file".

func ListServices(db *database.Database, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := st.Content.ListServices(r.Context(), db)
		if err != nil {
			responses.SendDatabaseError(w, r, err, "GET /services")
			return
		}
		responses.SendJSON(w, http.StatusOK, rows)
	}
}

func optional(r *http.Request, key string) *string {
	v := formValue(r, key)
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

func optionalFlag(r *http.Request, key string) *models.Flag {
	v := formValue(r, key)
	if v == nil {
		return nil
	}
	f := models.ParseFlag(*v)
	return &f
}

// serviceForm reads a service from a multipart form.
func serviceForm(r *http.Request) (models.ServiceInput, error) {
	in := models.ServiceInput{
		Name:        r.FormValue("name"),
		ShortName:   optional(r, "short_name"),
		Slug:        r.FormValue("slug"),
		Summary:     optional(r, "summary"),
		Description: optional(r, "description"),
		IconType:    r.FormValue("icon_type"),
		IconValue:   r.FormValue("icon_value"),
		IconBg:      optional(r, "icon_bg"),
		PriceUnit:   optional(r, "price_unit"),
		IsPopular:   optionalFlag(r, "is_popular"),
		IsActive:    optionalFlag(r, "is_active"),
	}
	if v := optional(r, "price_min"); v != nil {
		p, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			return in, err
		}
		in.PriceMin = &p
	}
	if v := optional(r, "sort_order"); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return in, err
		}
		in.SortOrder = n
	}
	return in, nil
}

// readService decodes a service and stores its icon upload, if any.
func readService(w http.ResponseWriter, r *http.Request, u *Uploader) (models.ServiceInput, string, bool) {
	if !isMultipart(r) {
		var in models.ServiceInput
		return in, "", decodeJSON(w, r, &in)
	}

	if !parseMultipart(w, r) {
		return models.ServiceInput{}, "", false
	}
	in, err := serviceForm(r)
	if err != nil {
		responses.SendError(w, http.StatusBadRequest, "Invalid number in form")
		return in, "", false
	}
	if !validate(w, &in) {
		return in, "", false
	}
	icon, err := u.SaveFormFile(r, "icon_file")
	if err != nil {
		sendUploadError(w, r, err)
		return in, "", false
	}
	return in, icon, true
}

func CreateService(db *database.Database, st *store.Store, u *Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, icon, ok := readService(w, r, u)
		if !ok {
			return
		}
		id, err := st.Content.CreateService(r.Context(), db, in, icon)
		if err != nil {
			writeAppError(w, r, err, "POST /services")
			return
		}
		responses.SendJSON(w, http.StatusCreated, created{OK: true, ID: id})
	}
}

func UpdateService(db *database.Database, st *store.Store, u *Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		in, icon, ok := readService(w, r, u)
		if !ok {
			return
		}
		if err := st.Content.UpdateService(r.Context(), db, id, in, icon); err != nil {
			notFoundAs(w, r, err, "Service not found", "PUT /services/:id")
			return
		}
		responses.SendJSON(w, http.StatusOK, created{OK: true, ID: id})
	}
}

func DeleteService(db *database.Database, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := st.Content.DeleteService(r.Context(), db, id); err != nil {
			notFoundAs(w, r, err, "Service not found", "DELETE /services/:id")
			return
		}
		responses.SendJSON(w, http.StatusOK, models.MessageResponse{Message: "Service deleted successfully"})
	}
}
