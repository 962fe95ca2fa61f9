package settings

import (
	"context"
	"database/sql"

	"sayabantu/internal/database"
	"sayabantu/internal/models"
)

// LogoKind is the header logo.
var LogoKind = Kind[models.Logo]{
	Name:    "logo",
	Table:   "logos",
	Columns: []string{"url"},
	Scope:   &Column{Name: "placement", Value: "header"},
	Values: func(l models.Logo) []interface{} {
		return []interface{}{l.URL}
	},
}

// WhatsAppKind is the public WhatsApp contact and its prefilled message.
var WhatsAppKind = Kind[models.WhatsApp]{
	Name:     "whatsapp number",
	Table:    "whatsapp_numbers",
	Columns:  []string{"phone", "whatsapp_message"},
	Defaults: []Column{{Name: "label", Value: "umum"}},
	Values: func(w models.WhatsApp) []interface{} {
		return []interface{}{w.Phone, w.Message}
	},
}

// Read returns the admin view of the current settings.
func Read(ctx context.Context, h database.Handler) (models.SettingsResponse, error) {
	logo, err := LogoKind.Get(ctx, h)
	if err != nil {
		return models.SettingsResponse{}, err
	}
	wa, err := WhatsAppKind.Get(ctx, h)
	if err != nil {
		return models.SettingsResponse{}, err
	}
	return models.SettingsResponse{
		LogoURL:         logo.URL,
		WhatsAppNumber:  wa.Phone,
		WhatsAppMessage: wa.Message.String,
	}, nil
}

// Update applies the non-nil fields of req in a single transaction, so the
// logo and the WhatsApp contact change together or not at all.
func Update(ctx context.Context, db *database.Database, req models.UpdateSettingsRequest) (models.SettingsResponse, error) {
	var out models.SettingsResponse
	err := db.TransactionContext(ctx, func(tx *database.Tx) error {
		if req.LogoURL != nil {
			if err := LogoKind.Set(ctx, tx, models.Logo{URL: *req.LogoURL}); err != nil {
				return err
			}
		}

		if req.WhatsAppNumber != nil || req.WhatsAppMessage != nil {
			wa, err := WhatsAppKind.Get(ctx, tx)
			if err != nil {
				return err
			}
			if req.WhatsAppNumber != nil {
				wa.Phone = *req.WhatsAppNumber
			}
			if req.WhatsAppMessage != nil {
				wa.Message = sql.NullString{String: *req.WhatsAppMessage, Valid: true}
			}
			if err := WhatsAppKind.Set(ctx, tx, wa); err != nil {
				return err
			}
		}

		var err error
		out, err = Read(ctx, tx)
		return err
	})
	return out, err
}

// SetWhatsApp replaces the primary WhatsApp number and message.
func SetWhatsApp(ctx context.Context, h database.Handler, number, message string) error {
	return WhatsAppKind.Set(ctx, h, models.WhatsApp{
		Phone:   number,
		Message: sql.NullString{String: message, Valid: true},
	})
}

// Public returns the values shown on the public site. A WhatsApp message
// that was never set reads as models.DefaultWhatsAppMessage; an empty one
// stays empty.
func Public(ctx context.Context, h database.Handler) (models.SettingsResponse, error) {
	logo, err := LogoKind.Get(ctx, h)
	if err != nil {
		return models.SettingsResponse{}, err
	}
	wa, err := WhatsAppKind.Get(ctx, h)
	if err != nil {
		return models.SettingsResponse{}, err
	}
	msg := models.DefaultWhatsAppMessage
	if wa.Message.Valid {
		msg = wa.Message.String
	}
	return models.SettingsResponse{
		LogoURL:         logo.URL,
		WhatsAppNumber:  wa.Phone,
		WhatsAppMessage: msg,
	}, nil
}
