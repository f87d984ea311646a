package domain

import "time"

const DefaultTechnicianRating = 5.0

// Technician is a field contractor dispatched to work orders. MoneyMade and
// JobsDone only grow when one of their payment requests is paid.
type Technician struct {
	ID              string
	Name            string
	Trade           string
	Phone           string
	Email           string
	Address         string
	City            string
	State           string
	ZipCode         string
	Notes           string
	HourlyRate      float64
	Rating          float64
	IsBlacklisted   bool
	BlacklistReason string
	IsActive        bool
	MoneyMade       float64
	JobsDone        int
	CreatedAt       *time.Time
	UpdatedAt       *time.Time
}

type TechnicianFilter struct {
	Trade              string
	Search             string
	IncludeBlacklisted bool
}

type TechnicianUpdate struct {
	Name            *string
	Trade           *string
	Phone           *string
	Email           *string
	Address         *string
	City            *string
	State           *string
	ZipCode         *string
	Notes           *string
	HourlyRate      *float64
	Rating          *float64
	IsBlacklisted   *bool
	BlacklistReason *string
}
