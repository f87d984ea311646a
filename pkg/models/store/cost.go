package store

import "time"

type Cost struct {
	ID           string
	WorkOrderID  string
	TechnicianID string
	Amount       *float64
	Status       string
	Note         *string
	RequestedAt  *time.Time
	ApprovedAt   *time.Time
	PaidAt       *time.Time
}
