package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "groupby"
)

var (
	ChangeListRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "changelist", "rendered_total"),
		Help: "Number of change lists rendered, partitioned by listing and grouping outcome",
	}, []string{"listing", "outcome"})
	GroupedQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "groupby", "query_duration_seconds"),
		Help:    "Duration of the grouped aggregate query in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"listing"})
	UnavailableTotals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "groupby", "unavailable_totals_total"),
		Help: "Number of aggregate totals that could not be reduced",
	}, []string{"listing", "key"})
)
