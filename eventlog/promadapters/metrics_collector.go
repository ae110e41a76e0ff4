// Package promadapters provides a Prometheus-backed implementation of the
// eventlog.MetricsCollector interface.
package promadapters

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector implements eventlog.MetricsCollector using the
// Prometheus client library. It maps the collector interface onto
// Prometheus instruments:
//   - RecordDuration -> Histogram (observed in seconds)
//   - IncrementCounter -> Counter
//   - RecordValue -> Gauge
//
// Instruments are created on demand the first time a metric name is used.
// A given metric name must always be recorded with the same label keys;
// Prometheus vectors are fixed to the label names seen on first use.
type MetricsCollector struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

// NewMetricsCollector creates a new Prometheus metrics collector that
// registers its instruments with the given registerer, typically
// prometheus.DefaultRegisterer.
func NewMetricsCollector(registerer prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		registerer: registerer,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

// RecordDuration records a duration measurement in seconds on a histogram.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	histogram := m.getOrCreateHistogram(metric, labelKeys(labels))
	if histogram == nil {
		return
	}

	histogram.With(prometheusLabels(labels)).Observe(duration.Seconds())
}

// IncrementCounter increments a counter.
func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	counter := m.getOrCreateCounter(metric, labelKeys(labels))
	if counter == nil {
		return
	}

	counter.With(prometheusLabels(labels)).Inc()
}

// RecordValue sets the current value of a gauge.
func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	gauge := m.getOrCreateGauge(metric, labelKeys(labels))
	if gauge == nil {
		return
	}

	gauge.With(prometheusLabels(labels)).Set(value)
}

func (m *MetricsCollector) getOrCreateHistogram(metric string, keys []string) *prometheus.HistogramVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := sanitizeMetricName(metric)
	if histogram, exists := m.histograms[name]; exists {
		return histogram
	}

	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: name,
		Help: "Duration histogram for " + metric + " in seconds.",
	}, keys)

	if err := m.registerer.Register(histogram); err != nil {
		return nil
	}

	m.histograms[name] = histogram

	return histogram
}

func (m *MetricsCollector) getOrCreateCounter(metric string, keys []string) *prometheus.CounterVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := sanitizeMetricName(metric)
	if counter, exists := m.counters[name]; exists {
		return counter
	}

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: "Counter for " + metric + ".",
	}, keys)

	if err := m.registerer.Register(counter); err != nil {
		return nil
	}

	m.counters[name] = counter

	return counter
}

func (m *MetricsCollector) getOrCreateGauge(metric string, keys []string) *prometheus.GaugeVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := sanitizeMetricName(metric)
	if gauge, exists := m.gauges[name]; exists {
		return gauge
	}

	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: "Gauge for " + metric + ".",
	}, keys)

	if err := m.registerer.Register(gauge); err != nil {
		return nil
	}

	m.gauges[name] = gauge

	return gauge
}

// sanitizeMetricName maps the dotted metric names used by the event log
// onto the Prometheus naming scheme.
func sanitizeMetricName(metric string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	return replacer.Replace(metric)
}

func labelKeys(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

func prometheusLabels(labels map[string]string) prometheus.Labels {
	if labels == nil {
		return prometheus.Labels{}
	}

	return prometheus.Labels(labels)
}
