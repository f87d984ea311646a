package domain

import "time"

type CostStatus string

const (
	CostStatusRequested CostStatus = "requested"
	CostStatusApproved  CostStatus = "approved"
	CostStatusPaid      CostStatus = "paid"
)

func (s CostStatus) Valid() bool {
	switch s {
	case CostStatusRequested, CostStatusApproved, CostStatusPaid:
		return true
	}
	return false
}

// Open reports whether a payment request still awaits payout.
func (s CostStatus) Open() bool {
	return s == CostStatusRequested || s == CostStatusApproved
}

// Cost is a technician payment request against a work order.
type Cost struct {
	ID           string
	WorkOrderID  string
	TechnicianID string
	Amount       float64
	Status       CostStatus
	Note         string
	RequestedAt  *time.Time
	ApprovedAt   *time.Time
	PaidAt       *time.Time
}

// ReferenceTime is the timestamp used for month bucketing: paid, then
// approved, then requested. ok is false when none is set.
func (c Cost) ReferenceTime() (t time.Time, ok bool) {
	for _, ts := range []*time.Time{c.PaidAt, c.ApprovedAt, c.RequestedAt} {
		if ts != nil && !ts.IsZero() {
			return *ts, true
		}
	}
	return time.Time{}, false
}

type CostFilter struct {
	Status       string
	WorkOrderID  string
	TechnicianID string
}

type CostUpdate struct {
	Amount *float64
	Note   *string
	Status *CostStatus
}

var costTransitions = map[CostStatus]map[CostStatus]struct{}{
	CostStatusRequested: {CostStatusApproved: {}, CostStatusPaid: {}},
	CostStatusApproved:  {CostStatusPaid: {}},
	CostStatusPaid:      {},
}

// CanTransition reports whether a payment request may move from s to next.
// Staying in the same status is always allowed.
func (s CostStatus) CanTransition(next CostStatus) bool {
	if s == next {
		return true
	}
	_, ok := costTransitions[s][next]
	return ok
}

// NextStatuses lists the statuses reachable from s.
func (s CostStatus) NextStatuses() map[CostStatus]struct{} {
	return costTransitions[s]
}
