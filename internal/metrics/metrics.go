package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	ordersPlaced   prometheus.Counter
	ordersFailed   *prometheus.CounterVec
	orderRevenue   prometheus.Counter
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Orders committed successfully",
		}),
		ordersFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_orders_failed_total",
			Help: "Orders rejected or rolled back, by reason",
		}, []string{"reason"}),
		orderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_order_revenue_total",
			Help: "Sum of committed order totals",
		}),
		requestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "endpoint", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}

	reg.MustRegister(m.ordersPlaced, m.ordersFailed, m.orderRevenue, m.requestCounter, m.requestLatency)
	return m
}

func (m *Metrics) OrderPlaced(total float64) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderRevenue.Add(total)
}

func (m *Metrics) OrderFailed(reason string) {
	if m == nil {
		return
	}
	m.ordersFailed.WithLabelValues(reason).Inc()
}

func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else if err != nil {
				status = 500
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			m.requestCounter.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.requestLatency.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
