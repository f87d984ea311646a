package domain

import "time"

type WorkOrderStatus string

const (
	WorkOrderStatusWaiting    WorkOrderStatus = "waiting"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusInvoiced   WorkOrderStatus = "invoiced"
	WorkOrderStatusPaid       WorkOrderStatus = "paid"
)

var WorkOrderStatuses = []WorkOrderStatus{
	WorkOrderStatusWaiting,
	WorkOrderStatusInProgress,
	WorkOrderStatusCompleted,
	WorkOrderStatusInvoiced,
	WorkOrderStatusPaid,
}

func (s WorkOrderStatus) Valid() bool {
	for _, known := range WorkOrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type WorkOrder struct {
	ID           string
	WONumber     string // WO-123456789
	Client       string
	Trade        string // HVAC, Plumbing, ...
	Description  string
	NTE          float64 // not-to-exceed amount
	Status       WorkOrderStatus
	Priority     string
	City         string
	State        string
	Address      string
	Notes        string
	TechnicianID string
	ETAAt        *time.Time
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
	CompletedAt  *time.Time
}

// ReferenceTime is the timestamp used for month bucketing: updated, then
// completed, then created. ok is false when none is set.
func (w WorkOrder) ReferenceTime() (t time.Time, ok bool) {
	for _, ts := range []*time.Time{w.UpdatedAt, w.CompletedAt, w.CreatedAt} {
		if ts != nil && !ts.IsZero() {
			return *ts, true
		}
	}
	return time.Time{}, false
}

type WorkOrderFilter struct {
	Status       string
	Search       string
	TechnicianID string
}

type WorkOrderUpdate struct {
	Client       *string
	Trade        *string
	Description  *string
	NTE          *float64
	Status       *WorkOrderStatus
	Priority     *string
	City         *string
	State        *string
	Address      *string
	Notes        *string
	TechnicianID *string
	ETAAt        *time.Time
}
