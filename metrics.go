package cart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/pbanos/cart")

var (
	// fitTotal counts Fit calls by result
	fitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_fit_total",
		Help: "Total tree fits by result",
	}, []string{"result"})

	// fitDuration tracks the time spent growing trees
	fitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_fit_duration_seconds",
		Help:    "Tree fit duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	nodesAllocated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_nodes_allocated_total",
		Help: "Total nodes allocated while growing trees",
	})

	predictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_predictions_total",
		Help: "Total rows classified",
	})
)
