package adapters

import (
	"github.com/gmn-dev/dispatch/pkg/models/api"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
)

func MapIncomeStatementDomainToApi(s *domain.IncomeStatement) api.IncomeStatement {
	start, end := s.Month.Window()
	statement := api.IncomeStatement{
		Month:          s.Month.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
		Revenue:        s.Revenue,
		Costs:          s.Costs,
		GrossProfit:    s.GrossProfit,
		GrossMargin:    s.GrossMargin,
		JobCount:       s.JobCount,
		RevenueChange:  s.RevenueChange,
		ProfitChange:   s.ProfitChange,
		JobCountChange: s.JobCountChange,
		Trades:         make([]api.TradeIncome, 0, len(s.Trades)),
		Trend:          make([]api.MonthIncome, 0, len(s.Trend)),
	}
	for _, t := range s.Trades {
		statement.Trades = append(statement.Trades, api.TradeIncome{
			Trade:     t.Trade,
			Revenue:   t.Revenue,
			Cost:      t.Cost,
			Profit:    t.Profit,
			Margin:    t.Margin,
			AvgTicket: t.AvgTicket,
			Count:     t.Count,
		})
	}
	for _, m := range s.Trend {
		statement.Trend = append(statement.Trend, api.MonthIncome{
			Month:   m.Month.String(),
			Revenue: m.Revenue,
			Cost:    m.Cost,
			Profit:  m.Profit,
			Count:   m.Count,
		})
	}
	return statement
}
