package store

import "time"

type WorkOrder struct {
	ID           string
	WONumber     string
	Client       string
	Trade        string
	Description  *string
	NTE          *float64
	Status       string
	Priority     *string
	City         *string
	State        *string
	Address      *string
	Notes        *string
	TechnicianID *string
	ETAAt        *time.Time
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
	CompletedAt  *time.Time
}
