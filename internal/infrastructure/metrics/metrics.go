package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

const namespace = "inspector"

// Metrics метрики инспектора в отдельном реестре
type Metrics struct {
	registry *prometheus.Registry

	framesProcessed prometheus.Counter
	frameLatency    prometheus.Histogram
	faults          *prometheus.CounterVec
	items           *prometheus.CounterVec
	fps             prometheus.Gauge
	running         prometheus.Gauge
	clients         prometheus.Gauge
	eventsDropped   prometheus.Counter
}

// New создаёт метрики и регистрирует их
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_processed_total",
			Help:      "Frames that went through the inspection loop",
		}),
		frameLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_processing_seconds",
			Help:      "Per-frame processing time",
			Buckets:   []float64{0.005, 0.01, 0.02, 0.033, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_total",
			Help:      "Per-frame faults by stage",
		}, []string{"stage"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_inspected_total",
			Help:      "Counted inspection events by status",
		}, []string{"status"}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fps",
			Help:      "Frames processed during the last full second",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "Detection running (0=idle, 1=running)",
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected WebSocket clients",
		}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_events_dropped_total",
			Help:      "Events dropped for slow WebSocket clients",
		}),
	}

	m.registry.MustRegister(
		m.framesProcessed,
		m.frameLatency,
		m.faults,
		m.items,
		m.fps,
		m.running,
		m.clients,
		m.eventsDropped,
		collectors.NewGoCollector(),
	)

	return m
}

// FrameProcessed учитывает кадр и время его обработки
func (m *Metrics) FrameProcessed(latency time.Duration) {
	m.framesProcessed.Inc()
	m.frameLatency.Observe(latency.Seconds())
}

// InferenceFault сбой модели на кадре
func (m *Metrics) InferenceFault() { m.faults.WithLabelValues("inference").Inc() }

// EncodeFault кадр не удалось закодировать
func (m *Metrics) EncodeFault() { m.faults.WithLabelValues("encode").Inc() }

// ReadFault камера перестала отдавать кадры
func (m *Metrics) ReadFault() { m.faults.WithLabelValues("read").Inc() }

// ItemInspected засчитанное изделие по итогу проверки
func (m *Metrics) ItemInspected(status entity.InspectionStatus) {
	m.items.WithLabelValues(string(status)).Inc()
}

// SetFPS частота кадров за последнюю секунду
func (m *Metrics) SetFPS(fps int) { m.fps.Set(float64(fps)) }

// SetRunning состояние контроля
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.running.Set(1)
		return
	}
	m.running.Set(0)
}

// ClientConnected клиент панели подключился
func (m *Metrics) ClientConnected() { m.clients.Inc() }

// ClientDisconnected клиент панели отключился
func (m *Metrics) ClientDisconnected() { m.clients.Dec() }

// EventDropped событие не влезло в буфер клиента
func (m *Metrics) EventDropped() { m.eventsDropped.Inc() }

// Handler HTTP-обработчик /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry нужен тестам и для дополнительных коллекторов
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

var _ port.InspectionMetrics = (*Metrics)(nil)
