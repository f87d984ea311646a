package domain

import (
	"fmt"
	"math"
	"time"
)

type QualificationStatus string

const (
	QualificationQualified QualificationStatus = "qualified"
	QualificationPartial   QualificationStatus = "partial"
	QualificationExcluded  QualificationStatus = "excluded"
)

// Month identifies a calendar month in Location (time.Local when nil).
type Month struct {
	Year     int
	Month    time.Month
	Location *time.Location
}

func (m Month) location() *time.Location {
	if m.Location == nil {
		return time.Local
	}
	return m.Location
}

// Window returns the first and the last instant of the month, both inclusive.
func (m Month) Window() (start, end time.Time) {
	start = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, m.location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

func (m Month) Contains(t time.Time) bool {
	start, end := m.Window()
	return !t.Before(start) && !t.After(end)
}

// AddMonths returns the month n calendar months after m (before it when n < 0).
func (m Month) AddMonths(n int) Month {
	first := time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, m.location())
	return Month{Year: first.Year(), Month: first.Month(), Location: m.Location}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// QualifiedJob is a paid work order annotated with its commission classification.
type QualifiedJob struct {
	WorkOrder

	TotalCost     float64
	ProfitRatio   float64 // (NTE - cost) / cost, +Inf without cost
	Qualification QualificationStatus
	CountValue    float64 // 0, 0.5, 1 or 2
	Reason        string
	IsIncurred    bool
	IsLowNTE      bool
	IsReassigned  bool
}

// ProfitDisplay renders the profit ratio as a whole percentage, or ∞.
func (q QualifiedJob) ProfitDisplay() string {
	if math.IsInf(q.ProfitRatio, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.0f%%", q.ProfitRatio*100)
}

type CommissionStats struct {
	Total      int
	Qualified  int // qualified at a count of exactly 1
	Partial    int
	Reassigned int
	Excluded   int
}

type CommissionReport struct {
	Month           Month
	Jobs            []QualifiedJob
	QualifiedJobs   []QualifiedJob // qualified or partial
	ExcludedJobs    []QualifiedJob
	TotalCount      float64
	CommissionRate  float64
	TotalCommission float64
	Stats           CommissionStats
}

// CommissionTier maps an inclusive range of floored qualified counts to a per-unit rate.
// A negative Max leaves the range unbounded.
type CommissionTier struct {
	Min  int
	Max  int
	Rate float64
}

func (t CommissionTier) Contains(count int) bool {
	return count >= t.Min && (t.Max < 0 || count <= t.Max)
}

func (t CommissionTier) Label() string {
	if t.Max < 0 {
		return fmt.Sprintf("%d+", t.Min)
	}
	return fmt.Sprintf("%d-%d", t.Min, t.Max)
}
