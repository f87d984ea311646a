package commission

import (
	"fmt"
	"math"
	"strings"

	"github.com/gmn-dev/dispatch/pkg/models/domain"
)

const (
	// LowNTEThreshold is the NTE at or below which a job counts as half.
	LowNTEThreshold = 225.0
	// MinProfitRatio is the profit ratio below which a job is excluded.
	MinProfitRatio = 0.75

	incurredMarker = "incurred"
	reassignMarker = "reassign"
)

// Compute builds the commission report for month using the default tier table.
func Compute(month domain.Month, jobs []domain.WorkOrder, costs []domain.Cost) *domain.CommissionReport {
	return DefaultTiers.Compute(month, jobs, costs)
}

// Compute classifies every paid job of month and prices the qualified count
// against the table. Inputs are read only.
func (t TierTable) Compute(month domain.Month, jobs []domain.WorkOrder, costs []domain.Cost) *domain.CommissionReport {
	report := &domain.CommissionReport{
		Month:         month,
		Jobs:          []domain.QualifiedJob{},
		QualifiedJobs: []domain.QualifiedJob{},
		ExcludedJobs:  []domain.QualifiedJob{},
	}

	paidCosts := paidCostsByWorkOrder(costs)

	for _, wo := range jobs {
		if !eligible(month, wo) {
			continue
		}

		job := classify(wo, paidCosts[wo.ID])
		report.Jobs = append(report.Jobs, job)

		if job.Qualification == domain.QualificationExcluded {
			report.ExcludedJobs = append(report.ExcludedJobs, job)
			report.Stats.Excluded++
			continue
		}

		report.QualifiedJobs = append(report.QualifiedJobs, job)
		report.TotalCount += job.CountValue

		switch {
		case job.Qualification == domain.QualificationPartial:
			report.Stats.Partial++
		case job.IsReassigned:
			report.Stats.Reassigned++
		case job.CountValue == 1:
			report.Stats.Qualified++
		}
	}

	report.Stats.Total = len(report.Jobs)
	report.CommissionRate = t.Rate(report.TotalCount)
	// The rate comes from the floored count but multiplies the fractional one.
	report.TotalCommission = report.TotalCount * report.CommissionRate

	return report
}

func eligible(month domain.Month, wo domain.WorkOrder) bool {
	if wo.Status != domain.WorkOrderStatusPaid {
		return false
	}
	ts, ok := wo.ReferenceTime()
	if !ok {
		return false
	}
	return month.Contains(ts)
}

func paidCostsByWorkOrder(costs []domain.Cost) map[string]float64 {
	totals := make(map[string]float64)
	for _, c := range costs {
		if c.Status != domain.CostStatusPaid {
			continue
		}
		totals[c.WorkOrderID] += c.Amount
	}
	return totals
}

// ProfitRatio returns (nte - cost) / cost, or +Inf when nothing was paid out.
func ProfitRatio(nte, cost float64) float64 {
	if cost == 0 {
		return math.Inf(1)
	}
	return (nte - cost) / cost
}

func classify(wo domain.WorkOrder, totalCost float64) domain.QualifiedJob {
	notes := strings.ToLower(wo.Notes)

	job := domain.QualifiedJob{
		WorkOrder:    wo,
		TotalCost:    totalCost,
		ProfitRatio:  ProfitRatio(wo.NTE, totalCost),
		IsIncurred:   strings.Contains(notes, incurredMarker),
		IsLowNTE:     wo.NTE <= LowNTEThreshold,
		IsReassigned: strings.Contains(notes, reassignMarker),
	}

	switch {
	case job.IsIncurred:
		job.Qualification = domain.QualificationPartial
		job.CountValue = 0.5
		job.Reason = "Incurred job (counts as 0.5)"
	case job.IsLowNTE:
		job.Qualification = domain.QualificationPartial
		job.CountValue = 0.5
		job.Reason = fmt.Sprintf("NTE ≤ $%.0f (counts as 0.5)", LowNTEThreshold)
	case job.ProfitRatio < MinProfitRatio:
		job.Qualification = domain.QualificationExcluded
		job.CountValue = 0
		job.Reason = fmt.Sprintf("Profit ratio %.1f%% < %.0f%%", job.ProfitRatio*100, MinProfitRatio*100)
	case job.IsReassigned:
		job.Qualification = domain.QualificationQualified
		job.CountValue = 2
		job.Reason = "Reassigned (counts as ×2)"
	default:
		job.Qualification = domain.QualificationQualified
		job.CountValue = 1
	}

	return job
}
