package domain

// TradeIncome is one trade's share of a month's paid work.
type TradeIncome struct {
	Trade     string
	Revenue   float64
	Cost      float64
	Profit    float64
	Margin    float64 // percent of revenue
	AvgTicket float64
	Count     int
}

type MonthIncome struct {
	Month   Month
	Revenue float64
	Cost    float64
	Profit  float64
	Count   int
}

// IncomeStatement summarizes revenue (NTE of paid work orders) against paid
// payment requests for a month. Changes are percentages against the previous
// month and stay 0 when that month has nothing to compare with.
type IncomeStatement struct {
	Month          Month
	Revenue        float64
	Costs          float64
	GrossProfit    float64
	GrossMargin    float64
	JobCount       int
	Trades         []TradeIncome
	Trend          []MonthIncome // oldest first, ending at Month
	RevenueChange  float64
	ProfitChange   float64
	JobCountChange float64
}
