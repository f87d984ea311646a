package api

import "time"

type TradeIncome struct {
	Trade     string  `json:"trade"`
	Revenue   float64 `json:"revenue"`
	Cost      float64 `json:"cost"`
	Profit    float64 `json:"profit"`
	Margin    float64 `json:"margin"`
	AvgTicket float64 `json:"avg_ticket"`
	Count     int     `json:"count"`
}

type MonthIncome struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
	Count   int     `json:"count"`
}

type IncomeStatement struct {
	Month          string        `json:"month"`
	PeriodStart    time.Time     `json:"period_start"`
	PeriodEnd      time.Time     `json:"period_end"`
	Revenue        float64       `json:"revenue"`
	Costs          float64       `json:"costs"`
	GrossProfit    float64       `json:"gross_profit"`
	GrossMargin    float64       `json:"gross_margin"`
	JobCount       int           `json:"job_count"`
	RevenueChange  float64       `json:"revenue_change"`
	ProfitChange   float64       `json:"profit_change"`
	JobCountChange float64       `json:"job_count_change"`
	Trades         []TradeIncome `json:"trades"`
	Trend          []MonthIncome `json:"trend"`
}
