package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Metrics colectores Prometheus de la API y del libro de movimientos.
// Usa un registry propio para poder crear varias instancias (tests).
type Metrics struct {
	registry       *prometheus.Registry
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	movements      *prometheus.CounterVec
	movedUnits     *prometheus.CounterVec
	lowStock       *prometheus.CounterVec
}

// New crea y registra los colectores.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estoque_http_requests_total",
				Help: "Total de requests HTTP",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "estoque_http_request_duration_seconds",
				Help:    "Duración de los requests HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		movements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estoque_movements_total",
				Help: "Intentos de movimiento de stock por tipo y resultado",
			},
			[]string{"type", "outcome"},
		),
		movedUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estoque_moved_units_total",
				Help: "Unidades movidas en movimientos confirmados",
			},
			[]string{"type"},
		),
		lowStock: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estoque_low_stock_warnings_total",
				Help: "Avisos de stock bajo el mínimo emitidos",
			},
			[]string{"product"},
		),
	}
	m.registry.MustRegister(
		m.requestCounter,
		m.requestLatency,
		m.movements,
		m.movedUnits,
		m.lowStock,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry expone el registry (tests y colectores extra).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveMovement implementa inventory.MovementObserver.
func (m *Metrics) ObserveMovement(t entity.MovementType, outcome string, quantity int) {
	label := string(t)
	if label == "" {
		label = "desconocido"
	}
	m.movements.WithLabelValues(label, outcome).Inc()
	if outcome == "applied" && quantity > 0 {
		m.movedUnits.WithLabelValues(label).Add(float64(quantity))
	}
}

// NotifyLowStock implementa inventory.LowStockNotifier contando los avisos.
func (m *Metrics) NotifyLowStock(_ context.Context, w entity.LowStockWarning) error {
	m.lowStock.WithLabelValues(w.ProductName).Inc()
	return nil
}

// Middleware mide cada request por ruta registrada (no por path concreto).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := c.Route().Path
		m.requestLatency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		m.requestCounter.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return err
	}
}

// Handler expone /metrics en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
