package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	backofficeSubsystem = "backoffice"

	assignmentConflictsTotal = "assignment_conflicts_total"
	expiredReleasesTotal     = "expired_releases_total"
	repairedPlacementsTotal  = "repaired_placements_total"
)

/**
* Metrics definition
**/
var assignmentConflictsMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: backofficeSubsystem,
		Name:      assignmentConflictsTotal,
		Help:      "number of assignment writes lost to a concurrent owner change",
	},
)

var expiredReleasesMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: backofficeSubsystem,
		Name:      expiredReleasesTotal,
		Help:      "number of pairings released by the NFD expiry sweep",
	},
)

var repairedPlacementsMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: backofficeSubsystem,
		Name:      repairedPlacementsTotal,
		Help:      "number of calling-event placements corrected by the repair sweep",
	},
)

func IncAssignmentConflicts() {
	assignmentConflictsMetric.Inc()
}

func AddExpiredReleases(n int) {
	expiredReleasesMetric.Add(float64(n))
}

func AddRepairedPlacements(n int) {
	repairedPlacementsMetric.Add(float64(n))
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(assignmentConflictsMetric)
	prometheus.MustRegister(expiredReleasesMetric)
	prometheus.MustRegister(repairedPlacementsMetric)
}
