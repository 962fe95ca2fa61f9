package models

import "database/sql"

// DefaultWhatsAppMessage is shown publicly when no message is configured.
const DefaultWhatsAppMessage = "Pesan default"

type Logo struct {
	ID  int64  `db:"id"`
	URL string `db:"url"`
}

type WhatsApp struct {
	ID      int64          `db:"id"`
	Phone   string         `db:"phone"`
	Message sql.NullString `db:"whatsapp_message"`
}

type SettingsResponse struct {
	LogoURL         string `json:"logo_url"`
	WhatsAppNumber  string `json:"whatsapp_number"`
	WhatsAppMessage string `json:"whatsapp_message"`
}

// UpdateSettingsRequest is the admin settings form. Absent fields are not
// touched.
type UpdateSettingsRequest struct {
	LogoURL         *string `json:"logo_url"`
	WhatsAppNumber  *string `json:"whatsapp_number"`
	WhatsAppMessage *string `json:"whatsapp_message"`
}

type UpdateWhatsAppRequest struct {
	Number  string `json:"whatsapp_number" validate:"required"`
	Message string `json:"whatsapp_message" validate:"required"`
}

type PublicSite struct {
	LogoURL         string       `json:"logo_url"`
	WhatsAppNumber  string       `json:"whatsapp_number"`
	WhatsAppMessage string       `json:"whatsapp_message"`
	Emails          []Email      `json:"emails"`
	Addresses       []Address    `json:"addresses"`
	Socials         []SocialLink `json:"socials"`
}
