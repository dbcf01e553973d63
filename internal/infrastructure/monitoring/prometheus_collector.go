package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	commandsTotal       *prometheus.CounterVec
	eventsTotal         *prometheus.CounterVec
	unknownChannelTotal prometheus.Counter
	clientsConnected    prometheus.Gauge

	commandDuration *prometheus.HistogramVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		commandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vidboard_commands_total",
			Help: "Total number of UI commands dispatched, by channel",
		}, []string{"channel"}),

		eventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vidboard_events_total",
			Help: "Total number of events delivered to the UI, by channel",
		}, []string{"channel"}),

		unknownChannelTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vidboard_unknown_channel_total",
			Help: "Total number of envelopes naming an unknown channel",
		}),

		clientsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vidboard_clients_connected",
			Help: "Number of UI clients attached to the signal channel",
		}),

		commandDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vidboard_command_duration_seconds",
			Help:    "Duration of command handling, by channel",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"channel"}),
	}
}

func (p *PrometheusCollector) RecordCommand(channel string, duration time.Duration) {
	p.commandsTotal.WithLabelValues(channel).Inc()
	p.commandDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

func (p *PrometheusCollector) RecordEvent(channel string) {
	p.eventsTotal.WithLabelValues(channel).Inc()
}

func (p *PrometheusCollector) RecordUnknownChannel() {
	p.unknownChannelTotal.Inc()
}

func (p *PrometheusCollector) RecordClientConnected() {
	p.clientsConnected.Inc()
}

func (p *PrometheusCollector) RecordClientDisconnected() {
	p.clientsConnected.Dec()
}
