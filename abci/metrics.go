package abci

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics mirrors the gauge/counter pattern the retrieved ABCI multiplexer
// uses for its own request accounting: a handful of package-level
// collectors, registered once, read by every Dispatcher instance.
var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_abci_requests_total",
			Help: "Total ABCI requests processed by the dispatcher, by method.",
		},
		[]string{"method"},
	)

	requestErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_abci_request_errors_total",
			Help: "Total ABCI requests whose handler returned an error, by method.",
		},
		[]string{"method"},
	)

	storeHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lattice_store_height",
			Help: "Last committed Merkle store height.",
		},
	)

	metricsCollectors = []prometheus.Collector{
		requestsTotal,
		requestErrorsTotal,
		storeHeight,
	}

	metricsOnce sync.Once
)

// registerMetrics registers the dispatcher's collectors exactly once per
// process, regardless of how many Dispatcher instances are constructed.
func registerMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(metricsCollectors...)
	})
}

func observeRequest(method string, err error) {
	requestsTotal.WithLabelValues(method).Inc()
	if err != nil {
		requestErrorsTotal.WithLabelValues(method).Inc()
	}
}
