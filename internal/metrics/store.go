package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "neuralsearch"

// Vector database Prometheus metrics.
var (
	VectorQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vector_query_duration_seconds",
			Help:      "KNN query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"collection", "status"},
	)

	VectorQueryResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vector_query_results",
			Help:      "Number of hits returned per KNN query",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"collection"},
	)

	QdrantRPCDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "qdrant_rpc_duration_seconds",
			Help:      "Qdrant gRPC call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "code"},
	)
)

var storeMetricsRegistered bool

// RegisterStoreMetrics registers vector database metrics. Must be called once from main.
func RegisterStoreMetrics() {
	if storeMetricsRegistered {
		return
	}
	prometheus.MustRegister(VectorQueryDuration)
	prometheus.MustRegister(VectorQueryResults)
	prometheus.MustRegister(QdrantRPCDuration)
	storeMetricsRegistered = true
}
