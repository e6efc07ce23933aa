package listing

import (
	"strings"

	"github.com/spigell/doc-matcher/internal/matcher"
)

// Stats are the dashboard counters.
type Stats struct {
	TotalJobs            int `json:"totalJobs" yaml:"totalJobs"`
	PendingJobs          int `json:"pendingJobs" yaml:"pendingJobs"`
	TotalConsultants     int `json:"totalConsultants" yaml:"totalConsultants"`
	AvailableConsultants int `json:"availableConsultants" yaml:"availableConsultants"`
}

func ComputeStats(jobs []*matcher.JobDescription, consultants []*matcher.ConsultantProfile) Stats {
	stats := Stats{TotalJobs: len(jobs), TotalConsultants: len(consultants)}

	for _, job := range jobs {
		if strings.EqualFold(job.Status, matcher.JobStatusPending) {
			stats.PendingJobs++
		}
	}

	for _, p := range consultants {
		if p.Availability == matcher.Available {
			stats.AvailableConsultants++
		}
	}

	return stats
}
