package income

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

type Service interface {
	Statement(ctx context.Context, month domain.Month) (*domain.IncomeStatement, error)
}

type statementService struct {
	workOrders WorkOrderLister
	costs      CostLister
}

func NewService(workOrders WorkOrderLister, costs CostLister) Service {
	return &statementService{
		workOrders: workOrders,
		costs:      costs,
	}
}

func (s *statementService) Statement(ctx context.Context, month domain.Month) (*domain.IncomeStatement, error) {
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

	statement := Compute(month, jobs, costs)

	zerolog.Ctx(ctx).Debug().
		Str("month", month.String()).
		Int("paid_jobs", statement.JobCount).
		Float64("revenue", statement.Revenue).
		Float64("costs", statement.Costs).
		Msg("income statement computed")

	return statement, nil
}
