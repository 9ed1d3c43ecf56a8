package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StoreOperations counts the operations on monitored stores by their outcome.
var StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "registry_store_operations_total",
	Help: "Total number of store operations by store, operation and outcome",
}, []string{"store", "operation", "outcome"})

// CountStoreOperation increments the operation counter of the passed store.
func CountStoreOperation(store, operation, outcome string) {
	StoreOperations.WithLabelValues(store, operation, outcome).Inc()
}

// MetricsHandler serves the registered Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
