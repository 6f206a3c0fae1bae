package observ

import (
	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the Prometheus-backed usecase.Recorder.
type Metrics struct {
	mutations       *prometheus.CounterVec
	persistFailures prometheus.Counter
	handoffs        *prometheus.CounterVec
	storeOpen       prometheus.Gauge
	catalogItems    prometheus.Gauge
}

// NewMetrics registers the business metrics on reg (prometheus.DefaultRegisterer in main).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Cart quantity changes by outcome",
		}, []string{"outcome"}),
		persistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "cart_persist_failures_total",
			Help: "Cart snapshot writes that failed and were kept in memory only",
		}),
		handoffs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "order_handoffs_total",
			Help: "Orders handed off to WhatsApp",
		}, []string{"order_type"}),
		storeOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "store_open",
			Help: "1 while the kitchen accepts orders",
		}),
		catalogItems: f.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Items in the live catalog",
		}),
	}
}

func (m *Metrics) CartMutation(outcome string) { m.mutations.WithLabelValues(outcome).Inc() }
func (m *Metrics) PersistFailure()             { m.persistFailures.Inc() }
func (m *Metrics) Handoff(ot domain.OrderType) { m.handoffs.WithLabelValues(string(ot)).Inc() }
func (m *Metrics) CatalogLoaded(items int)     { m.catalogItems.Set(float64(items)) }

func (m *Metrics) StoreOpen(open bool) {
	if open {
		m.storeOpen.Set(1)
		return
	}
	m.storeOpen.Set(0)
}

var _ usecase.Recorder = (*Metrics)(nil)
