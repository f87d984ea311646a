package commission

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march2025 = domain.Month{Year: 2025, Month: time.March, Location: time.UTC}

func at(t time.Time) *time.Time {
	return &t
}

func midMarch() *time.Time {
	return at(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))
}

func paidJob(id string, nte float64, notes string) domain.WorkOrder {
	return domain.WorkOrder{
		ID:        id,
		WONumber:  "WO-" + id,
		Client:    "Client " + id,
		Trade:     "HVAC",
		NTE:       nte,
		Status:    domain.WorkOrderStatusPaid,
		Notes:     notes,
		UpdatedAt: midMarch(),
	}
}

func paidCost(workOrderID string, amount float64) domain.Cost {
	return domain.Cost{
		ID:          "cost-" + workOrderID + fmt.Sprint(amount),
		WorkOrderID: workOrderID,
		Amount:      amount,
		Status:      domain.CostStatusPaid,
	}
}

func findJob(t *testing.T, report *domain.CommissionReport, id string) domain.QualifiedJob {
	t.Helper()
	for _, job := range report.Jobs {
		if job.ID == id {
			return job
		}
	}
	require.FailNow(t, "job not found in report", id)
	return domain.QualifiedJob{}
}

func TestCompute_Classification(t *testing.T) {
	tests := []struct {
		name          string
		job           domain.WorkOrder
		costs         []domain.Cost
		expectedState domain.QualificationStatus
		expectedCount float64
		expectedRatio float64
		reason        string
	}{
		{
			name:          "regular qualified job",
			job:           paidJob("A", 1000, ""),
			costs:         []domain.Cost{paidCost("A", 200)},
			expectedState: domain.QualificationQualified,
			expectedCount: 1,
			expectedRatio: 4.0,
		},
		{
			name:          "low profit is excluded",
			job:           paidJob("B", 500, ""),
			costs:         []domain.Cost{paidCost("B", 400)},
			expectedState: domain.QualificationExcluded,
			expectedCount: 0,
			expectedRatio: 0.25,
			reason:        "Profit ratio 25.0% < 75%",
		},
		{
			name:          "incurred overrides a qualifying ratio",
			job:           paidJob("C", 800, "Incurred - trip only"),
			costs:         []domain.Cost{paidCost("C", 150)},
			expectedState: domain.QualificationPartial,
			expectedCount: 0.5,
			expectedRatio: 650.0 / 150.0,
			reason:        "Incurred job (counts as 0.5)",
		},
		{
			name:          "low NTE counts as half",
			job:           paidJob("D", 200, ""),
			costs:         []domain.Cost{paidCost("D", 40)},
			expectedState: domain.QualificationPartial,
			expectedCount: 0.5,
			expectedRatio: 4.0,
			reason:        "NTE ≤ $225 (counts as 0.5)",
		},
		{
			name:          "NTE exactly at threshold is low",
			job:           paidJob("D2", 225, ""),
			costs:         []domain.Cost{paidCost("D2", 10)},
			expectedState: domain.QualificationPartial,
			expectedCount: 0.5,
			expectedRatio: 21.5,
			reason:        "NTE ≤ $225 (counts as 0.5)",
		},
		{
			name:          "reassigned counts double",
			job:           paidJob("E", 900, "Reassigned from another dispatcher"),
			costs:         []domain.Cost{paidCost("E", 180)},
			expectedState: domain.QualificationQualified,
			expectedCount: 2,
			expectedRatio: 4.0,
			reason:        "Reassigned (counts as ×2)",
		},
		{
			name:          "ratio exactly at threshold qualifies",
			job:           paidJob("F", 700, ""),
			costs:         []domain.Cost{paidCost("F", 400)},
			expectedState: domain.QualificationQualified,
			expectedCount: 1,
			expectedRatio: 0.75,
		},
		{
			name:          "incurred and reassigned counts as half",
			job:           paidJob("G", 1000, "incurred, then REASSIGNED"),
			costs:         []domain.Cost{paidCost("G", 100)},
			expectedState: domain.QualificationPartial,
			expectedCount: 0.5,
			expectedRatio: 9.0,
			reason:        "Incurred job (counts as 0.5)",
		},
		{
			name:          "low NTE and reassigned counts as half",
			job:           paidJob("H", 150, "reassign"),
			costs:         []domain.Cost{paidCost("H", 50)},
			expectedState: domain.QualificationPartial,
			expectedCount: 0.5,
			expectedRatio: 2.0,
			reason:        "NTE ≤ $225 (counts as 0.5)",
		},
		{
			name:          "low NTE below profit threshold still counts as half",
			job:           paidJob("I", 200, ""),
			costs:         []domain.Cost{paidCost("I", 180)},
			expectedState: domain.QualificationPartial,
			expectedCount: 0.5,
			expectedRatio: 20.0 / 180.0,
			reason:        "NTE ≤ $225 (counts as 0.5)",
		},
		{
			name:          "incurred with a loss still counts as half",
			job:           paidJob("J", 300, "INCURRED"),
			costs:         []domain.Cost{paidCost("J", 600)},
			expectedState: domain.QualificationPartial,
			expectedCount: 0.5,
			expectedRatio: -0.5,
			reason:        "Incurred job (counts as 0.5)",
		},
		{
			name:          "reassigned below profit threshold is excluded",
			job:           paidJob("K", 500, "reassigned"),
			costs:         []domain.Cost{paidCost("K", 450)},
			expectedState: domain.QualificationExcluded,
			expectedCount: 0,
			expectedRatio: 50.0 / 450.0,
			reason:        "Profit ratio 11.1% < 75%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Compute(march2025, []domain.WorkOrder{tt.job}, tt.costs)
			require.Len(t, report.Jobs, 1)

			job := report.Jobs[0]
			assert.Equal(t, tt.expectedState, job.Qualification)
			assert.Equal(t, tt.expectedCount, job.CountValue)
			assert.InDelta(t, tt.expectedRatio, job.ProfitRatio, 1e-9)
			assert.Equal(t, tt.reason, job.Reason)
		})
	}
}

func TestCompute_Flags(t *testing.T) {
	job := paidJob("A", 100, "Incurred; reassigned later")
	report := Compute(march2025, []domain.WorkOrder{job}, nil)

	got := findJob(t, report, "A")
	assert.True(t, got.IsIncurred)
	assert.True(t, got.IsLowNTE)
	assert.True(t, got.IsReassigned)
	assert.Equal(t, 0.5, got.CountValue)
}

func TestCompute_Eligibility(t *testing.T) {
	start, end := march2025.Window()

	invoiced := paidJob("invoiced", 1000, "")
	invoiced.Status = domain.WorkOrderStatusInvoiced

	upperCase := paidJob("upper", 1000, "")
	upperCase.Status = "PAID"

	lastMonth := paidJob("february", 1000, "")
	lastMonth.UpdatedAt = at(time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC))

	nextMonth := paidJob("april", 1000, "")
	nextMonth.UpdatedAt = at(end.Add(time.Nanosecond))

	firstInstant := paidJob("first", 1000, "")
	firstInstant.UpdatedAt = at(start)

	lastInstant := paidJob("last", 1000, "")
	lastInstant.UpdatedAt = at(end)

	noDate := paidJob("undated", 1000, "")
	noDate.UpdatedAt = nil

	completedFallback := paidJob("completed", 1000, "")
	completedFallback.UpdatedAt = nil
	completedFallback.CompletedAt = midMarch()
	completedFallback.CreatedAt = at(time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC))

	createdFallback := paidJob("created", 1000, "")
	createdFallback.UpdatedAt = nil
	createdFallback.CreatedAt = midMarch()

	updatedWins := paidJob("updated-wins", 1000, "")
	updatedWins.UpdatedAt = at(time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC))
	updatedWins.CreatedAt = midMarch()

	jobs := []domain.WorkOrder{
		invoiced, upperCase, lastMonth, nextMonth, firstInstant,
		lastInstant, noDate, completedFallback, createdFallback, updatedWins,
	}

	report := Compute(march2025, jobs, nil)

	var ids []string
	for _, job := range report.Jobs {
		ids = append(ids, job.ID)
	}
	assert.Equal(t, []string{"first", "last", "completed", "created"}, ids)
	assert.Len(t, report.ExcludedJobs, 0)
	assert.Equal(t, 4, report.Stats.Total)
}

func TestCompute_MonthUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	month := domain.Month{Year: 2025, Month: time.April, Location: tokyo}

	// 2025-03-31T16:00Z is already April 1st in Tokyo.
	job := paidJob("A", 1000, "")
	job.UpdatedAt = at(time.Date(2025, 3, 31, 16, 0, 0, 0, time.UTC))

	assert.Len(t, Compute(month, []domain.WorkOrder{job}, nil).Jobs, 1)
	assert.Len(t, Compute(march2025, []domain.WorkOrder{job}, nil).Jobs, 1)

	utcApril := domain.Month{Year: 2025, Month: time.April, Location: time.UTC}
	assert.Len(t, Compute(utcApril, []domain.WorkOrder{job}, nil).Jobs, 0)
}

func TestCompute_CostAggregation(t *testing.T) {
	jobs := []domain.WorkOrder{
		paidJob("A", 1000, ""),
		paidJob("B", 1000, ""),
	}
	costs := []domain.Cost{
		paidCost("A", 100),
		paidCost("A", 150.5),
		{ID: "requested", WorkOrderID: "A", Amount: 900, Status: domain.CostStatusRequested},
		{ID: "approved", WorkOrderID: "A", Amount: 900, Status: domain.CostStatusApproved},
		{ID: "upper", WorkOrderID: "A", Amount: 900, Status: "PAID"},
		paidCost("B", 300),
		paidCost("unknown", 5000),
	}

	report := Compute(march2025, jobs, costs)

	assert.Equal(t, 250.5, findJob(t, report, "A").TotalCost)
	assert.Equal(t, 300.0, findJob(t, report, "B").TotalCost)
}

func TestCompute_ZeroCostIsInfinitelyProfitable(t *testing.T) {
	jobs := []domain.WorkOrder{
		paidJob("none", 1000, ""),
		paidJob("zero", 1000, ""),
		paidJob("unpaid", 1000, ""),
	}
	costs := []domain.Cost{
		paidCost("zero", 0),
		{ID: "req", WorkOrderID: "unpaid", Amount: 990, Status: domain.CostStatusRequested},
	}

	report := Compute(march2025, jobs, costs)

	for _, job := range report.Jobs {
		assert.True(t, math.IsInf(job.ProfitRatio, 1), job.ID)
		assert.Equal(t, domain.QualificationQualified, job.Qualification, job.ID)
		assert.Equal(t, "∞", job.ProfitDisplay())
	}
	assert.Len(t, report.ExcludedJobs, 0)
}

func TestCompute_Totals(t *testing.T) {
	t.Run("23 qualified jobs stay below the first paid tier", func(t *testing.T) {
		var jobs []domain.WorkOrder
		for i := 0; i < 23; i++ {
			jobs = append(jobs, paidJob(fmt.Sprintf("q%d", i), 1000, ""))
		}

		report := Compute(march2025, jobs, nil)

		assert.Equal(t, 23.0, report.TotalCount)
		assert.Equal(t, 0.0, report.CommissionRate)
		assert.Equal(t, 0.0, report.TotalCommission)
		assert.Equal(t, 23, report.Stats.Qualified)
	})

	// The rate is selected with floor(count) but multiplies the unfloored count:
	// 26.5 selects the 25-35 tier and pays 26.5 x $3. This asymmetry is kept as-is.
	t.Run("fractional count multiplies the floored tier rate", func(t *testing.T) {
		var jobs []domain.WorkOrder
		for i := 0; i < 25; i++ {
			jobs = append(jobs, paidJob(fmt.Sprintf("q%d", i), 1000, ""))
		}
		for i := 0; i < 3; i++ {
			jobs = append(jobs, paidJob(fmt.Sprintf("p%d", i), 1000, "incurred"))
		}
		jobs = append(jobs, paidJob("x", 500, ""))
		costs := []domain.Cost{paidCost("x", 400)}

		report := Compute(march2025, jobs, costs)

		assert.Equal(t, 26.5, report.TotalCount)
		assert.Equal(t, 3.0, report.CommissionRate)
		assert.InDelta(t, 79.50, report.TotalCommission, 1e-9)
		assert.Equal(t, report.TotalCount*report.CommissionRate, report.TotalCommission)
		assert.Equal(t, domain.CommissionStats{
			Total:     29,
			Qualified: 25,
			Partial:   3,
			Excluded:  1,
		}, report.Stats)
		assert.Len(t, report.QualifiedJobs, 28)
		assert.Len(t, report.ExcludedJobs, 1)
	})

	t.Run("24.5 floors into the zero tier", func(t *testing.T) {
		var jobs []domain.WorkOrder
		for i := 0; i < 24; i++ {
			jobs = append(jobs, paidJob(fmt.Sprintf("q%d", i), 1000, ""))
		}
		jobs = append(jobs, paidJob("half", 100, ""))

		report := Compute(march2025, jobs, nil)

		assert.Equal(t, 24.5, report.TotalCount)
		assert.Equal(t, 0.0, report.CommissionRate)
		assert.Equal(t, 0.0, report.TotalCommission)
	})

	t.Run("reassigned jobs count double", func(t *testing.T) {
		var jobs []domain.WorkOrder
		for i := 0; i < 20; i++ {
			jobs = append(jobs, paidJob(fmt.Sprintf("r%d", i), 1000, "reassigned"))
		}

		report := Compute(march2025, jobs, nil)

		assert.Equal(t, 40.0, report.TotalCount)
		assert.Equal(t, 4.0, report.CommissionRate)
		assert.Equal(t, 160.0, report.TotalCommission)
		assert.Equal(t, 20, report.Stats.Reassigned)
		assert.Equal(t, 0, report.Stats.Qualified)
	})
}

func TestCompute_EmptyInput(t *testing.T) {
	report := Compute(march2025, nil, nil)

	assert.Equal(t, 0.0, report.TotalCount)
	assert.Equal(t, 0.0, report.CommissionRate)
	assert.Equal(t, 0.0, report.TotalCommission)
	assert.NotNil(t, report.Jobs)
	assert.Empty(t, report.Jobs)
	assert.Empty(t, report.QualifiedJobs)
	assert.Empty(t, report.ExcludedJobs)
	assert.Equal(t, domain.CommissionStats{}, report.Stats)
	assert.Equal(t, march2025, report.Month)
}

func TestCompute_IsIdempotentAndLeavesInputsUntouched(t *testing.T) {
	jobs := []domain.WorkOrder{
		paidJob("A", 1000, "Reassigned"),
		paidJob("B", 500, ""),
		paidJob("C", 100, "incurred"),
		{ID: "D", NTE: 1000, Status: domain.WorkOrderStatusInvoiced, UpdatedAt: midMarch()},
	}
	costs := []domain.Cost{paidCost("A", 100), paidCost("B", 400)}

	jobsBefore := append([]domain.WorkOrder(nil), jobs...)
	costsBefore := append([]domain.Cost(nil), costs...)

	first := Compute(march2025, jobs, costs)
	second := Compute(march2025, jobs, costs)

	assert.Equal(t, first, second)
	assert.Equal(t, jobsBefore, jobs)
	assert.Equal(t, costsBefore, costs)

	// Dropping the ineligible job up front yields the same report.
	prefiltered := Compute(march2025, jobs[:3], costs)
	assert.Equal(t, first, prefiltered)
}

func TestCompute_ConcurrentCalls(t *testing.T) {
	jobs := []domain.WorkOrder{paidJob("A", 1000, ""), paidJob("B", 1000, "reassign")}
	costs := []domain.Cost{paidCost("A", 100)}
	expected := Compute(march2025, jobs, costs)

	results := make(chan *domain.CommissionReport, 8)
	for i := 0; i < 8; i++ {
		go func() {
			results <- Compute(march2025, jobs, costs)
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, expected, <-results)
	}
}

func TestProfitRatio(t *testing.T) {
	assert.Equal(t, 4.0, ProfitRatio(1000, 200))
	assert.Equal(t, -1.0, ProfitRatio(0, 50))
	assert.True(t, math.IsInf(ProfitRatio(0, 0), 1))
}
