package api

import "time"

type Cost struct {
	ID           string     `json:"id"`
	WorkOrderID  string     `json:"work_order_id"`
	TechnicianID string     `json:"technician_id"`
	Amount       float64    `json:"amount"`
	Status       string     `json:"status"`
	Note         string     `json:"note,omitempty"`
	RequestedAt  *time.Time `json:"requested_at,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
}

type CreateCostRequest struct {
	WorkOrderID  string  `json:"work_order_id"`
	TechnicianID string  `json:"technician_id"`
	Amount       float64 `json:"amount"`
	Note         string  `json:"note"`
}

type UpdateCostRequest struct {
	Amount *float64 `json:"amount"`
	Note   *string  `json:"note"`
	Status *string  `json:"status"`
}
