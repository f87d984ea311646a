package adapters

import (
	"fmt"
	"strings"

	"github.com/gmn-dev/dispatch/pkg/models/api"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/models/store"
)

func MapStoreCostToDomain(r store.Cost) domain.Cost {
	return domain.Cost{
		ID:           r.ID,
		WorkOrderID:  r.WorkOrderID,
		TechnicianID: r.TechnicianID,
		Amount:       deref(r.Amount),
		Status:       domain.CostStatus(r.Status),
		Note:         deref(r.Note),
		RequestedAt:  r.RequestedAt,
		ApprovedAt:   r.ApprovedAt,
		PaidAt:       r.PaidAt,
	}
}

func MapDomainCostToStore(c domain.Cost) store.Cost {
	amount := c.Amount
	return store.Cost{
		ID:           c.ID,
		WorkOrderID:  c.WorkOrderID,
		TechnicianID: c.TechnicianID,
		Amount:       &amount,
		Status:       string(c.Status),
		Note:         optional(c.Note),
		RequestedAt:  c.RequestedAt,
		ApprovedAt:   c.ApprovedAt,
		PaidAt:       c.PaidAt,
	}
}

func MapCostDomainToApi(c domain.Cost) api.Cost {
	return api.Cost{
		ID:           c.ID,
		WorkOrderID:  c.WorkOrderID,
		TechnicianID: c.TechnicianID,
		Amount:       c.Amount,
		Status:       string(c.Status),
		Note:         c.Note,
		RequestedAt:  c.RequestedAt,
		ApprovedAt:   c.ApprovedAt,
		PaidAt:       c.PaidAt,
	}
}

func MapCreateCostRequestToDomain(req api.CreateCostRequest) (domain.Cost, error) {
	workOrderID := strings.TrimSpace(req.WorkOrderID)
	technicianID := strings.TrimSpace(req.TechnicianID)
	if workOrderID == "" || technicianID == "" || req.Amount == 0 {
		return domain.Cost{}, fmt.Errorf("%w: work order, technician, and amount are required", domain.ErrValidation)
	}
	if req.Amount < 0 {
		return domain.Cost{}, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}

	return domain.Cost{
		WorkOrderID:  workOrderID,
		TechnicianID: technicianID,
		Amount:       req.Amount,
		Status:       domain.CostStatusRequested,
		Note:         req.Note,
	}, nil
}

func MapUpdateCostRequestToDomain(req api.UpdateCostRequest) (domain.CostUpdate, error) {
	update := domain.CostUpdate{
		Amount: req.Amount,
		Note:   req.Note,
	}

	if req.Amount != nil && *req.Amount <= 0 {
		return domain.CostUpdate{}, fmt.Errorf("%w: amount must be greater than zero", domain.ErrValidation)
	}
	if req.Status != nil {
		status := domain.CostStatus(*req.Status)
		if !status.Valid() {
			return domain.CostUpdate{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *req.Status)
		}
		update.Status = &status
	}

	return update, nil
}
