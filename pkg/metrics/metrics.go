package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type OrderMetrics struct {
	OrdersPlaced     *prometheus.CounterVec
	Verifications    *prometheus.CounterVec
	Cancellations    *prometheus.CounterVec
	StatusChanges    prometheus.Counter
	StockCommits     prometheus.Counter
	StockReleases    prometheus.Counter
	CommitRejections prometheus.Counter
}

func NewOrderMetrics() *OrderMetrics {
	m := &OrderMetrics{
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders placed, by payment method and confirmation.",
		}, []string{"payment_method", "confirmed"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "orders",
			Name:      "payment_verifications_total",
			Help:      "Payment verification decisions.",
		}, []string{"decision"}),
		Cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "orders",
			Name:      "cancellations_total",
			Help:      "Order cancellations, by actor.",
		}, []string{"actor"}),
		StatusChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "orders",
			Name:      "status_changes_total",
			Help:      "Forward status transitions.",
		}),
		StockCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "stock",
			Name:      "commits_total",
			Help:      "Successful stock commits (per line).",
		}),
		StockReleases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "stock",
			Name:      "releases_total",
			Help:      "Stock releases on cancellation (per line).",
		}),
		CommitRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "stock",
			Name:      "commit_rejections_total",
			Help:      "Stock commits rejected for insufficient stock.",
		}),
	}
	prometheus.MustRegister(
		m.OrdersPlaced, m.Verifications, m.Cancellations,
		m.StatusChanges, m.StockCommits, m.StockReleases, m.CommitRejections,
	)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}
