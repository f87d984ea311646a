package adapters

import (
	"fmt"
	"strings"

	"github.com/gmn-dev/dispatch/pkg/models/api"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/models/store"
)

const defaultPriority = "normal"

// MapStoreWorkOrderToDomain coerces missing columns to neutral values: no NTE
// is 0 and no notes is the empty string.
func MapStoreWorkOrderToDomain(r store.WorkOrder) domain.WorkOrder {
	return domain.WorkOrder{
		ID:           r.ID,
		WONumber:     r.WONumber,
		Client:       r.Client,
		Trade:        r.Trade,
		Description:  deref(r.Description),
		NTE:          deref(r.NTE),
		Status:       domain.WorkOrderStatus(r.Status),
		Priority:     deref(r.Priority),
		City:         deref(r.City),
		State:        deref(r.State),
		Address:      deref(r.Address),
		Notes:        deref(r.Notes),
		TechnicianID: deref(r.TechnicianID),
		ETAAt:        r.ETAAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		CompletedAt:  r.CompletedAt,
	}
}

func MapDomainWorkOrderToStore(w domain.WorkOrder) store.WorkOrder {
	nte := w.NTE
	return store.WorkOrder{
		ID:           w.ID,
		WONumber:     w.WONumber,
		Client:       w.Client,
		Trade:        w.Trade,
		Description:  optional(w.Description),
		NTE:          &nte,
		Status:       string(w.Status),
		Priority:     optional(w.Priority),
		City:         optional(w.City),
		State:        optional(w.State),
		Address:      optional(w.Address),
		Notes:        optional(w.Notes),
		TechnicianID: optional(w.TechnicianID),
		ETAAt:        w.ETAAt,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
		CompletedAt:  w.CompletedAt,
	}
}

func MapWorkOrderDomainToApi(w domain.WorkOrder) api.WorkOrder {
	return api.WorkOrder{
		ID:           w.ID,
		WONumber:     w.WONumber,
		Client:       w.Client,
		Trade:        w.Trade,
		Description:  w.Description,
		NTE:          w.NTE,
		Status:       string(w.Status),
		Priority:     w.Priority,
		City:         w.City,
		State:        w.State,
		Address:      w.Address,
		Notes:        w.Notes,
		TechnicianID: w.TechnicianID,
		ETAAt:        w.ETAAt,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
		CompletedAt:  w.CompletedAt,
	}
}

func MapCreateWorkOrderRequestToDomain(req api.CreateWorkOrderRequest) (domain.WorkOrder, error) {
	client := strings.TrimSpace(req.Client)
	trade := strings.TrimSpace(req.Trade)
	if client == "" || trade == "" {
		return domain.WorkOrder{}, fmt.Errorf("%w: client and trade are required", domain.ErrValidation)
	}
	if req.NTE < 0 {
		return domain.WorkOrder{}, fmt.Errorf("%w: nte must not be negative", domain.ErrValidation)
	}

	status := domain.WorkOrderStatusWaiting
	if req.Status != "" {
		status = domain.WorkOrderStatus(req.Status)
		if !status.Valid() {
			return domain.WorkOrder{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, req.Status)
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = defaultPriority
	}

	return domain.WorkOrder{
		Client:       client,
		Trade:        trade,
		Description:  req.Description,
		NTE:          req.NTE,
		Status:       status,
		Priority:     priority,
		City:         req.City,
		State:        req.State,
		Address:      req.Address,
		Notes:        req.Notes,
		TechnicianID: req.TechnicianID,
		ETAAt:        req.ETAAt,
	}, nil
}

func MapUpdateWorkOrderRequestToDomain(req api.UpdateWorkOrderRequest) (domain.WorkOrderUpdate, error) {
	update := domain.WorkOrderUpdate{
		Client:       req.Client,
		Trade:        req.Trade,
		Description:  req.Description,
		NTE:          req.NTE,
		Priority:     req.Priority,
		City:         req.City,
		State:        req.State,
		Address:      req.Address,
		Notes:        req.Notes,
		TechnicianID: req.TechnicianID,
		ETAAt:        req.ETAAt,
	}

	if req.NTE != nil && *req.NTE < 0 {
		return domain.WorkOrderUpdate{}, fmt.Errorf("%w: nte must not be negative", domain.ErrValidation)
	}
	if req.Status != nil {
		status := domain.WorkOrderStatus(*req.Status)
		if !status.Valid() {
			return domain.WorkOrderUpdate{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *req.Status)
		}
		update.Status = &status
	}

	return update, nil
}

// ApplyWorkOrderUpdate returns a copy of w with the set fields of u applied.
func ApplyWorkOrderUpdate(w domain.WorkOrder, u domain.WorkOrderUpdate) domain.WorkOrder {
	if u.Client != nil {
		w.Client = *u.Client
	}
	if u.Trade != nil {
		w.Trade = *u.Trade
	}
	if u.Description != nil {
		w.Description = *u.Description
	}
	if u.NTE != nil {
		w.NTE = *u.NTE
	}
	if u.Status != nil {
		w.Status = *u.Status
	}
	if u.Priority != nil {
		w.Priority = *u.Priority
	}
	if u.City != nil {
		w.City = *u.City
	}
	if u.State != nil {
		w.State = *u.State
	}
	if u.Address != nil {
		w.Address = *u.Address
	}
	if u.Notes != nil {
		w.Notes = *u.Notes
	}
	if u.TechnicianID != nil {
		w.TechnicianID = *u.TechnicianID
	}
	if u.ETAAt != nil {
		w.ETAAt = u.ETAAt
	}
	return w
}
