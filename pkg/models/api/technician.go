package api

import "time"

type Technician struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Trade           string     `json:"trade"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	Address         string     `json:"address,omitempty"`
	City            string     `json:"city,omitempty"`
	State           string     `json:"state,omitempty"`
	ZipCode         string     `json:"zip_code,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	HourlyRate      float64    `json:"hourly_rate"`
	Rating          float64    `json:"rating"`
	IsBlacklisted   bool       `json:"is_blacklisted"`
	BlacklistReason string     `json:"blacklist_reason,omitempty"`
	IsActive        bool       `json:"is_active"`
	MoneyMade       float64    `json:"money_made"`
	JobsDone        int        `json:"jobs_done"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

type CreateTechnicianRequest struct {
	Name       string  `json:"name"`
	Trade      string  `json:"trade"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	ZipCode    string  `json:"zip_code"`
	Notes      string  `json:"notes"`
	HourlyRate float64 `json:"hourly_rate"`
}

type UpdateTechnicianRequest struct {
	Name            *string  `json:"name"`
	Trade           *string  `json:"trade"`
	Phone           *string  `json:"phone"`
	Email           *string  `json:"email"`
	Address         *string  `json:"address"`
	City            *string  `json:"city"`
	State           *string  `json:"state"`
	ZipCode         *string  `json:"zip_code"`
	Notes           *string  `json:"notes"`
	HourlyRate      *float64 `json:"hourly_rate"`
	Rating          *float64 `json:"rating"`
	IsBlacklisted   *bool    `json:"is_blacklisted"`
	BlacklistReason *string  `json:"blacklist_reason"`
}
