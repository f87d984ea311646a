package income

import (
	"sort"

	"github.com/gmn-dev/dispatch/pkg/models/domain"
)

const (
	TrendMonths = 6
	OtherTrade  = "Other"
)

// Compute builds the income statement for month. Work orders count when they
// are paid and their reference time falls in the month; payment requests the
// same way. Inputs are not modified.
func Compute(month domain.Month, jobs []domain.WorkOrder, costs []domain.Cost) *domain.IncomeStatement {
	current := summarize(month, jobs, costs)
	previous := summarize(month.AddMonths(-1), jobs, costs)

	statement := &domain.IncomeStatement{
		Month:          month,
		Revenue:        current.Revenue,
		Costs:          current.Cost,
		GrossProfit:    current.Profit,
		GrossMargin:    margin(current.Profit, current.Revenue),
		JobCount:       current.Count,
		Trades:         tradeBreakdown(month, jobs, costs),
		Trend:          make([]domain.MonthIncome, 0, TrendMonths),
		RevenueChange:  change(current.Revenue, previous.Revenue),
		ProfitChange:   change(current.Profit, previous.Profit),
		JobCountChange: change(float64(current.Count), float64(previous.Count)),
	}
	for i := TrendMonths - 1; i > 0; i-- {
		statement.Trend = append(statement.Trend, summarize(month.AddMonths(-i), jobs, costs))
	}
	statement.Trend = append(statement.Trend, current)

	return statement
}

func paidJobs(month domain.Month, jobs []domain.WorkOrder) []domain.WorkOrder {
	var paid []domain.WorkOrder
	for _, job := range jobs {
		if job.Status != domain.WorkOrderStatusPaid {
			continue
		}
		if at, ok := job.ReferenceTime(); ok && month.Contains(at) {
			paid = append(paid, job)
		}
	}
	return paid
}

func paidCosts(month domain.Month, costs []domain.Cost) []domain.Cost {
	var paid []domain.Cost
	for _, c := range costs {
		if c.Status != domain.CostStatusPaid {
			continue
		}
		if at, ok := c.ReferenceTime(); ok && month.Contains(at) {
			paid = append(paid, c)
		}
	}
	return paid
}

func summarize(month domain.Month, jobs []domain.WorkOrder, costs []domain.Cost) domain.MonthIncome {
	summary := domain.MonthIncome{Month: month}
	for _, job := range paidJobs(month, jobs) {
		summary.Revenue += job.NTE
		summary.Count++
	}
	for _, c := range paidCosts(month, costs) {
		summary.Cost += c.Amount
	}
	summary.Profit = summary.Revenue - summary.Cost
	return summary
}

// tradeBreakdown groups the month's paid work orders by trade. A paid cost
// lands on the trade of its work order, but only when that trade has revenue
// in the month.
func tradeBreakdown(month domain.Month, jobs []domain.WorkOrder, costs []domain.Cost) []domain.TradeIncome {
	byTrade := map[string]*domain.TradeIncome{}
	for _, job := range paidJobs(month, jobs) {
		trade := tradeOf(job)
		entry, ok := byTrade[trade]
		if !ok {
			entry = &domain.TradeIncome{Trade: trade}
			byTrade[trade] = entry
		}
		entry.Revenue += job.NTE
		entry.Count++
	}

	tradeByJob := make(map[string]string, len(jobs))
	for _, job := range jobs {
		tradeByJob[job.ID] = tradeOf(job)
	}
	for _, c := range paidCosts(month, costs) {
		trade, known := tradeByJob[c.WorkOrderID]
		if !known {
			continue
		}
		if entry, ok := byTrade[trade]; ok {
			entry.Cost += c.Amount
		}
	}

	trades := make([]domain.TradeIncome, 0, len(byTrade))
	for _, entry := range byTrade {
		entry.Profit = entry.Revenue - entry.Cost
		entry.Margin = margin(entry.Profit, entry.Revenue)
		if entry.Count > 0 {
			entry.AvgTicket = entry.Revenue / float64(entry.Count)
		}
		trades = append(trades, *entry)
	}
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].Revenue != trades[j].Revenue {
			return trades[i].Revenue > trades[j].Revenue
		}
		return trades[i].Trade < trades[j].Trade
	})
	return trades
}

func tradeOf(job domain.WorkOrder) string {
	if job.Trade == "" {
		return OtherTrade
	}
	return job.Trade
}

func margin(profit, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return profit / revenue * 100
}

func change(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
