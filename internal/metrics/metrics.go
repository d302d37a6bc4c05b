// Package metrics collects the Prometheus counters and histograms emitted
// by the object-store client, the change log, and the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ObjectstoreResponseTime is the elapsed time between the request for an
	// XML and the response, grounded on
	// documentstore.domain.OBJECTSTORE_RESPONSE_TIME_SECONDS.
	ObjectstoreResponseTime = promauto.NewSummary(prometheus.SummaryOpts{
		Name: "kernel_objectstore_response_time_seconds",
		Help: "Elapsed time between the request for an XML and the response",
	})

	// ObjectstoreRequestFailures counts exceptions raised while requesting
	// an XML from the object store, grounded on
	// documentstore.domain.OBJECTSTORE_REQUEST_FAILURES_TOTAL.
	ObjectstoreRequestFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kernel_objectstore_request_failures_total",
		Help: "Total number of exceptions raised when requesting for an XML from the object-store",
	})

	// HTTPRequestDuration is the HTTP handler latency by route and method,
	// grounded on documentstore.pyramid_prometheus.REQUEST_DURATION_SECONDS.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "kernel_restfulapi_request_duration_seconds",
		Help: "Time spent processing HTTP requests",
	}, []string{"handler", "method"})

	// HTTPRequestsInProgress is the current number of HTTP requests being
	// processed, grounded on
	// documentstore.pyramid_prometheus.REQUESTS_INPROGRESS.
	HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kernel_restfulapi_requests_inprogress",
		Help: "Current number of HTTP requests being processed",
	})

	// HTTPResponseSize is the response body size by route, grounded on
	// documentstore.pyramid_prometheus.RESPONSE_SIZE_BYTES.
	HTTPResponseSize = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Name: "kernel_restfulapi_response_size_bytes",
		Help: "Summary of response size for HTTP requests",
	}, []string{"handler"})

	// ChangesAppended counts successful change-log appends, one per
	// successful mutation per §4.7.
	ChangesAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kernel_changes_appended_total",
		Help: "Total number of change-log entries appended, by entity kind",
	}, []string{"entity"})
)
