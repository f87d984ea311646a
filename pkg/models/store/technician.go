package store

import "time"

type Technician struct {
	ID              string
	Name            string
	Trade           string
	Phone           *string
	Email           *string
	Address         *string
	City            *string
	State           *string
	ZipCode         *string
	Notes           *string
	HourlyRate      *float64
	Rating          *float64
	IsBlacklisted   bool
	BlacklistReason *string
	IsActive        bool
	MoneyMade       float64
	JobsDone        int
	CreatedAt       *time.Time
	UpdatedAt       *time.Time
}
