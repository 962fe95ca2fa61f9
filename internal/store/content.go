package store

import (
	"context"
	"strings"

	"sayabantu/internal/database"
	"sayabantu/internal/models"
)

// ContentStore holds the plain CRUD tables shown on the public site.
type ContentStore struct{}

const serviceColumns = `id, name, short_name, slug, summary, description, icon_type, icon_value,
	icon_bg, price_min, price_unit, is_popular, is_active, sort_order`

func (ContentStore) ListServices(ctx context.Context, h database.Handler) ([]models.Service, error) {
	services := []models.Service{}
	err := h.SelectContext(ctx, &services, "SELECT "+serviceColumns+" FROM services ORDER BY sort_order ASC, id ASC")
	return services, err
}

// ListActiveServices is the public listing.
func (ContentStore) ListActiveServices(ctx context.Context, h database.Handler) ([]models.Service, error) {
	services := []models.Service{}
	err := h.SelectContext(ctx, &services, `SELECT id, name, short_name, slug, summary, NULL AS description, icon_type,
		icon_value, icon_bg, NULL AS price_min, NULL AS price_unit, is_popular, is_active, sort_order
		FROM services WHERE is_active = 1 ORDER BY sort_order ASC, name ASC`)
	return services, err
}

func serviceArgs(in models.ServiceInput, iconValue string) []interface{} {
	iconType := in.IconType
	if iconType == "" {
		iconType = "image"
	}
	return []interface{}{
		in.Name, in.ShortName, in.Slug, in.Summary, in.Description, iconType, iconValue,
		in.IconBg, in.PriceMin, in.PriceUnit,
		database.Bool(models.FlagOr(in.IsPopular, false)),
		database.Bool(models.FlagOr(in.IsActive, true)),
		in.SortOrder,
	}
}

// CreateService inserts a service. iconValue is the uploaded icon path, if
// any, else in.IconValue.
func (ContentStore) CreateService(ctx context.Context, h database.Handler, in models.ServiceInput, iconValue string) (int64, error) {
	if iconValue == "" {
		iconValue = in.IconValue
	}
	id, err := database.InsertID(ctx, h, `INSERT INTO services
		(name, short_name, slug, summary, description, icon_type, icon_value, icon_bg, price_min, price_unit, is_popular, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		serviceArgs(in, iconValue)...)
	if err != nil {
		return 0, conflict(err, "service slug")
	}
	return id, nil
}

// UpdateService overwrites service id. An empty icon keeps the current one.
func (ContentStore) UpdateService(ctx context.Context, h database.Handler, id int64, in models.ServiceInput, iconValue string) error {
	if iconValue == "" {
		iconValue = in.IconValue
	}
	args := append(serviceArgs(in, iconValue), id)
	res, err := h.ExecContext(ctx, h.Rebind(`UPDATE services SET
			name = ?, short_name = ?, slug = ?, summary = ?, description = ?, icon_type = ?,
			icon_value = COALESCE(NULLIF(?, ''), icon_value),
			icon_bg = ?, price_min = ?, price_unit = ?, is_popular = ?, is_active = ?, sort_order = ?
		WHERE id = ?`), args...)
	if err != nil {
		return conflict(err, "service slug")
	}
	return affected(res, "service")
}

func (ContentStore) DeleteService(ctx context.Context, h database.Handler, id int64) error {
	return deleteByID(ctx, h, "services", id, "service")
}

func deleteByID(ctx context.Context, h database.Handler, table string, id int64, what string) error {
	res, err := h.ExecContext(ctx, h.Rebind("DELETE FROM "+table+" WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return affected(res, what)
}

func labelOr(label, def string) string {
	if strings.TrimSpace(label) == "" {
		return def
	}
	return label
}

// Emails

func (ContentStore) ListEmails(ctx context.Context, h database.Handler, activeOnly bool) ([]models.Email, error) {
	emails := []models.Email{}
	query := "SELECT id, label, email, is_primary, is_active FROM emails"
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	err := h.SelectContext(ctx, &emails, query+" ORDER BY is_primary DESC, id ASC")
	return emails, err
}

func emailArgs(in models.EmailInput) []interface{} {
	return []interface{}{
		labelOr(in.Label, "umum"), in.Email,
		database.Bool(models.FlagOr(in.IsPrimary, false)),
		database.Bool(models.FlagOr(in.IsActive, true)),
	}
}

func (ContentStore) CreateEmail(ctx context.Context, h database.Handler, in models.EmailInput) (int64, error) {
	return database.InsertID(ctx, h,
		"INSERT INTO emails (label, email, is_primary, is_active) VALUES (?, ?, ?, ?)",
		emailArgs(in)...)
}

func (ContentStore) UpdateEmail(ctx context.Context, h database.Handler, id int64, in models.EmailInput) error {
	res, err := h.ExecContext(ctx,
		h.Rebind("UPDATE emails SET label = ?, email = ?, is_primary = ?, is_active = ? WHERE id = ?"),
		append(emailArgs(in), id)...)
	if err != nil {
		return err
	}
	return affected(res, "email")
}

func (ContentStore) DeleteEmail(ctx context.Context, h database.Handler, id int64) error {
	return deleteByID(ctx, h, "emails", id, "email")
}

// Addresses

const addressColumns = "id, label, address_line, city, province, postal_code, maps_url, lat, lng, is_primary, is_active"

func (ContentStore) ListAddresses(ctx context.Context, h database.Handler, activeOnly bool) ([]models.Address, error) {
	addresses := []models.Address{}
	query := "SELECT " + addressColumns + " FROM addresses"
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	err := h.SelectContext(ctx, &addresses, query+" ORDER BY is_primary DESC, id ASC")
	return addresses, err
}

func addressArgs(in models.AddressInput) []interface{} {
	return []interface{}{
		labelOr(in.Label, "kantor"), in.AddressLine, in.City, in.Province, in.PostalCode,
		in.MapsURL, in.Lat, in.Lng,
		database.Bool(models.FlagOr(in.IsPrimary, false)),
		database.Bool(models.FlagOr(in.IsActive, true)),
	}
}

func (ContentStore) CreateAddress(ctx context.Context, h database.Handler, in models.AddressInput) (int64, error) {
	return database.InsertID(ctx, h, `INSERT INTO addresses
		(label, address_line, city, province, postal_code, maps_url, lat, lng, is_primary, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		addressArgs(in)...)
}

func (ContentStore) UpdateAddress(ctx context.Context, h database.Handler, id int64, in models.AddressInput) error {
	res, err := h.ExecContext(ctx, h.Rebind(`UPDATE addresses SET
			label = ?, address_line = ?, city = ?, province = ?, postal_code = ?, maps_url = ?, lat = ?, lng = ?,
			is_primary = ?, is_active = ?
		WHERE id = ?`), append(addressArgs(in), id)...)
	if err != nil {
		return err
	}
	return affected(res, "address")
}

func (ContentStore) DeleteAddress(ctx context.Context, h database.Handler, id int64) error {
	return deleteByID(ctx, h, "addresses", id, "address")
}

// Social links

const socialColumns = "id, platform, handle, url, icon_type, icon_value, sort_order, is_active"

func (ContentStore) ListSocials(ctx context.Context, h database.Handler, activeOnly bool) ([]models.SocialLink, error) {
	socials := []models.SocialLink{}
	query := "SELECT " + socialColumns + " FROM social_links"
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	err := h.SelectContext(ctx, &socials, query+" ORDER BY sort_order ASC, id ASC")
	return socials, err
}

func socialArgs(in models.SocialInput) []interface{} {
	iconType := in.IconType
	if iconType == "" {
		iconType = "iconset"
	}
	return []interface{}{
		in.Platform, in.Handle, in.URL, iconType, in.IconValue, in.SortOrder,
		database.Bool(models.FlagOr(in.IsActive, true)),
	}
}

func (ContentStore) CreateSocial(ctx context.Context, h database.Handler, in models.SocialInput) (int64, error) {
	return database.InsertID(ctx, h, `INSERT INTO social_links
		(platform, handle, url, icon_type, icon_value, sort_order, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		socialArgs(in)...)
}

func (ContentStore) UpdateSocial(ctx context.Context, h database.Handler, id int64, in models.SocialInput) error {
	res, err := h.ExecContext(ctx, h.Rebind(`UPDATE social_links SET
			platform = ?, handle = ?, url = ?, icon_type = ?, icon_value = ?, sort_order = ?, is_active = ?
		WHERE id = ?`), append(socialArgs(in), id)...)
	if err != nil {
		return err
	}
	return affected(res, "social link")
}

func (ContentStore) DeleteSocial(ctx context.Context, h database.Handler, id int64) error {
	return deleteByID(ctx, h, "social_links", id, "social link")
}
