package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveSubscriptions tracks open live record subscriptions across all
	// dashboard instances.
	ActiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "records_active_subscriptions",
		Help: "Number of open live record subscriptions.",
	})

	SnapshotsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "records_snapshots_delivered_total",
		Help: "Total record snapshots delivered to subscribers.",
	})

	RecordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "records_written_total",
		Help: "Total records appended to the store.",
	})
)
