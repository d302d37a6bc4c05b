package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scieloorg/kernel-sub000/internal/service"
)

// NewRouter builds the HTTP surface of spec.md §6.1 over svc.
func NewRouter(svc *service.Service) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/documents/", MetricsMiddleware("documents", documentsHandler(svc)))
	mux.Handle("/metrics", promhttp.Handler())

	return ApplyMiddleware(mux, RecoveryMiddleware, LoggingMiddleware)
}
