package models

type Service struct {
	ID          int64    `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	ShortName   *string  `db:"short_name" json:"short_name"`
	Slug        string   `db:"slug" json:"slug"`
	Summary     *string  `db:"summary" json:"summary"`
	Description *string  `db:"description" json:"description,omitempty"`
	IconType    string   `db:"icon_type" json:"icon_type"`
	IconValue   string   `db:"icon_value" json:"icon_value"`
	IconBg      *string  `db:"icon_bg" json:"icon_bg"`
	PriceMin    *float64 `db:"price_min" json:"price_min,omitempty"`
	PriceUnit   *string  `db:"price_unit" json:"price_unit,omitempty"`
	IsPopular   bool     `db:"is_popular" json:"is_popular"`
	IsActive    bool     `db:"is_active" json:"is_active"`
	SortOrder   int      `db:"sort_order" json:"sort_order"`
}

type ServiceInput struct {
	Name        string   `json:"name" validate:"required"`
	ShortName   *string  `json:"short_name"`
	Slug        string   `json:"slug" validate:"required"`
	Summary     *string  `json:"summary"`
	Description *string  `json:"description"`
	IconType    string   `json:"icon_type"`
	IconValue   string   `json:"icon_value"`
	IconBg      *string  `json:"icon_bg"`
	PriceMin    *float64 `json:"price_min"`
	PriceUnit   *string  `json:"price_unit"`
	IsPopular   *Flag    `json:"is_popular"`
	IsActive    *Flag    `json:"is_active"`
	SortOrder   int      `json:"sort_order"`
}

type Email struct {
	ID        int64  `db:"id" json:"id"`
	Label     string `db:"label" json:"label"`
	Email     string `db:"email" json:"email"`
	IsPrimary bool   `db:"is_primary" json:"is_primary"`
	IsActive  bool   `db:"is_active" json:"is_active"`
}

type EmailInput struct {
	Label     string `json:"label"`
	Email     string `json:"email" validate:"required,email"`
	IsPrimary *Flag  `json:"is_primary"`
	IsActive  *Flag  `json:"is_active"`
}

type Address struct {
	ID          int64    `db:"id" json:"id"`
	Label       string   `db:"label" json:"label"`
	AddressLine string   `db:"address_line" json:"address_line"`
	City        *string  `db:"city" json:"city"`
	Province    *string  `db:"province" json:"province"`
	PostalCode  *string  `db:"postal_code" json:"postal_code"`
	MapsURL     *string  `db:"maps_url" json:"maps_url"`
	Lat         *float64 `db:"lat" json:"lat,omitempty"`
	Lng         *float64 `db:"lng" json:"lng,omitempty"`
	IsPrimary   bool     `db:"is_primary" json:"is_primary"`
	IsActive    bool     `db:"is_active" json:"is_active"`
}

type AddressInput struct {
	Label       string   `json:"label"`
	AddressLine string   `json:"address_line"`
	City        *string  `json:"city"`
	Province    *string  `json:"province"`
	PostalCode  *string  `json:"postal_code"`
	MapsURL     *string  `json:"maps_url" validate:"omitempty,url"`
	Lat         *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng         *float64 `json:"lng" validate:"omitempty,longitude"`
	IsPrimary   *Flag    `json:"is_primary"`
	IsActive    *Flag    `json:"is_active"`
}

type SocialLink struct {
	ID        int64   `db:"id" json:"id"`
	Platform  string  `db:"platform" json:"platform"`
	Handle    *string `db:"handle" json:"handle"`
	URL       string  `db:"url" json:"url"`
	IconType  string  `db:"icon_type" json:"icon_type"`
	IconValue *string `db:"icon_value" json:"icon_value"`
	SortOrder int     `db:"sort_order" json:"sort_order"`
	IsActive  bool    `db:"is_active" json:"is_active"`
}

type SocialInput struct {
	Platform  string  `json:"platform" validate:"required"`
	Handle    *string `json:"handle"`
	URL       string  `json:"url" validate:"required"`
	IconType  string  `json:"icon_type"`
	IconValue *string `json:"icon_value"`
	SortOrder int     `json:"sort_order"`
	IsActive  *Flag   `json:"is_active"`
}
