package metrics

import (
	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectedClients tracks the current number of realtime subscribers.
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "urbaneye",
		Name:      "realtime_connected_clients",
		Help:      "Number of currently connected realtime subscribers.",
	})

	// BroadcastsTotal counts realtime broadcasts by event name.
	BroadcastsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbaneye",
		Name:      "realtime_broadcasts_total",
		Help:      "Total number of realtime broadcasts fanned out, by event.",
	}, []string{"event"})

	// HTTPRequestsTotal counts handled HTTP requests by method and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbaneye",
		Name:      "http_requests_total",
		Help:      "Total number of handled HTTP requests.",
	}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(
		ConnectedClients,
		BroadcastsTotal,
		HTTPRequestsTotal,
	)
}

// Handler exposes the prometheus registry for the /metrics route.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
