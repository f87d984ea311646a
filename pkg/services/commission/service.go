package commission

import (
	"context"
	"fmt"

	"github.com/gmn-dev/dispatch/pkg/adapters"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/models/store"
	"github.com/rs/zerolog"
)

type WorkOrderLister interface {
	ListAll(ctx context.Context) ([]store.WorkOrder, error)
}

type CostLister interface {
	ListAll(ctx context.Context) ([]store.Cost, error)
}

// Service computes commission reports over the current contents of the stores.
type Service interface {
	Report(ctx context.Context, month domain.Month) (*domain.CommissionReport, error)
	Tiers() TierTable
}

type reportService struct {
	workOrders WorkOrderLister
	costs      CostLister
	tiers      TierTable
}

func NewService(workOrders WorkOrderLister, costs CostLister, tiers TierTable) Service {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	return &reportService{
		workOrders: workOrders,
		costs:      costs,
		tiers:      tiers,
	}
}

func (s *reportService) Report(ctx context.Context, month domain.Month) (*domain.CommissionReport, error) {
	logger := zerolog.Ctx(ctx)

	woRecords, err := s.workOrders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load work orders: %w", err)
	}
	costRecords, err := s.costs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load costs: %w", err)
	}

	jobs := make([]domain.WorkOrder, 0, len(woRecords))
	for _, r := range woRecords {
		jobs = append(jobs, adapters.MapStoreWorkOrderToDomain(r))
	}
	costs := make([]domain.Cost, 0, len(costRecords))
	for _, r := range costRecords {
		costs = append(costs, adapters.MapStoreCostToDomain(r))
	}

	report := s.tiers.Compute(month, jobs, costs)

	logger.Debug().
		Str("month", month.String()).
		Int("work_orders", len(jobs)).
		Int("costs", len(costs)).
		Int("eligible", report.Stats.Total).
		Float64("total_count", report.TotalCount).
		Msg("commission report computed")

	return report, nil
}

func (s *reportService) Tiers() TierTable {
	return s.tiers
}
