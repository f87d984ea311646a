package adapters

import (
	"math"

	"github.com/gmn-dev/dispatch/pkg/models/api"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
)

func MapQualifiedJobDomainToApi(j domain.QualifiedJob) api.QualifiedJob {
	job := api.QualifiedJob{
		ID:            j.ID,
		WONumber:      j.WONumber,
		Client:        j.Client,
		Trade:         j.Trade,
		NTE:           j.NTE,
		TotalCost:     j.TotalCost,
		ProfitDisplay: j.ProfitDisplay(),
		Qualification: string(j.Qualification),
		CountValue:    j.CountValue,
		Reason:        j.Reason,
		IsIncurred:    j.IsIncurred,
		IsLowNTE:      j.IsLowNTE,
		IsReassigned:  j.IsReassigned,
	}
	// encoding/json rejects infinities.
	if !math.IsInf(j.ProfitRatio, 0) && !math.IsNaN(j.ProfitRatio) {
		ratio := j.ProfitRatio
		job.ProfitRatio = &ratio
	}
	return job
}

func mapQualifiedJobs(jobs []domain.QualifiedJob) []api.QualifiedJob {
	mapped := make([]api.QualifiedJob, 0, len(jobs))
	for _, j := range jobs {
		mapped = append(mapped, MapQualifiedJobDomainToApi(j))
	}
	return mapped
}

func MapCommissionReportDomainToApi(r *domain.CommissionReport) api.CommissionReport {
	start, end := r.Month.Window()
	return api.CommissionReport{
		Month:           r.Month.String(),
		PeriodStart:     start,
		PeriodEnd:       end,
		Jobs:            mapQualifiedJobs(r.Jobs),
		QualifiedJobs:   mapQualifiedJobs(r.QualifiedJobs),
		ExcludedJobs:    mapQualifiedJobs(r.ExcludedJobs),
		TotalCount:      r.TotalCount,
		CommissionRate:  r.CommissionRate,
		TotalCommission: r.TotalCommission,
		Stats: api.CommissionStats{
			Total:      r.Stats.Total,
			Qualified:  r.Stats.Qualified,
			Partial:    r.Stats.Partial,
			Reassigned: r.Stats.Reassigned,
			Excluded:   r.Stats.Excluded,
		},
	}
}

func MapCommissionTierDomainToApi(t domain.CommissionTier) api.CommissionTier {
	tier := api.CommissionTier{
		Min:   t.Min,
		Rate:  t.Rate,
		Label: t.Label(),
	}
	if t.Max >= 0 {
		upper := t.Max
		tier.Max = &upper
	}
	return tier
}
