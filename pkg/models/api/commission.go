package api

import "time"

type QualifiedJob struct {
	ID            string   `json:"id"`
	WONumber      string   `json:"wo_number"`
	Client        string   `json:"client"`
	Trade         string   `json:"trade"`
	NTE           float64  `json:"nte"`
	TotalCost     float64  `json:"total_cost"`
	ProfitRatio   *float64 `json:"profit_ratio"` // null when no cost was paid (infinite)
	ProfitDisplay string   `json:"profit_display"`
	Qualification string   `json:"qualification_status"`
	CountValue    float64  `json:"count_value"`
	Reason        string   `json:"exclusion_reason,omitempty"`
	IsIncurred    bool     `json:"is_incurred"`
	IsLowNTE      bool     `json:"is_low_nte"`
	IsReassigned  bool     `json:"is_reassigned"`
}

type CommissionStats struct {
	Total      int `json:"total"`
	Qualified  int `json:"qualified"`
	Partial    int `json:"partial"`
	Reassigned int `json:"reassigned"`
	Excluded   int `json:"excluded"`
}

type CommissionReport struct {
	Month           string          `json:"month"`
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
	Jobs            []QualifiedJob  `json:"jobs"`
	QualifiedJobs   []QualifiedJob  `json:"qualified_jobs"`
	ExcludedJobs    []QualifiedJob  `json:"excluded_jobs"`
	TotalCount      float64         `json:"total_count"`
	CommissionRate  float64         `json:"commission_rate"`
	TotalCommission float64         `json:"total_commission"`
	Stats           CommissionStats `json:"stats"`
}

type CommissionTier struct {
	Min   int     `json:"min"`
	Max   *int    `json:"max"` // null for the open-ended top tier
	Rate  float64 `json:"rate"`
	Label string  `json:"label"`
}
