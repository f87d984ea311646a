package api

import "time"

type WorkOrder struct {
	ID           string     `json:"id"`
	WONumber     string     `json:"wo_number"`
	Client       string     `json:"client"`
	Trade        string     `json:"trade"`
	Description  string     `json:"description,omitempty"`
	NTE          float64    `json:"nte"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority,omitempty"`
	City         string     `json:"city,omitempty"`
	State        string     `json:"state,omitempty"`
	Address      string     `json:"address,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	TechnicianID string     `json:"technician_id,omitempty"`
	ETAAt        *time.Time `json:"eta_at,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type CreateWorkOrderRequest struct {
	Client       string     `json:"client"`
	Trade        string     `json:"trade"`
	Description  string     `json:"description"`
	NTE          float64    `json:"nte"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	Address      string     `json:"address"`
	Notes        string     `json:"notes"`
	TechnicianID string     `json:"technician_id"`
	ETAAt        *time.Time `json:"eta_at"`
}

type UpdateWorkOrderRequest struct {
	Client       *string    `json:"client"`
	Trade        *string    `json:"trade"`
	Description  *string    `json:"description"`
	NTE          *float64   `json:"nte"`
	Status       *string    `json:"status"`
	Priority     *string    `json:"priority"`
	City         *string    `json:"city"`
	State        *string    `json:"state"`
	Address      *string    `json:"address"`
	Notes        *string    `json:"notes"`
	TechnicianID *string    `json:"technician_id"`
	ETAAt        *time.Time `json:"eta_at"`
}
