// Package metrics provides Prometheus metrics for the dropforge loot engine.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by callers.
const (
	KindTier       = "tier"
	KindCustomItem = "custom_item"
	KindOther      = "other"

	PathMetadata = "metadata"
	PathLegacy   = "legacy"
	PathMiss     = "miss"
)

// Manager manages all Prometheus metrics for the loot engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Death event flow
	deathEvents     prometheus.Counter
	eventsFiltered  *prometheus.CounterVec
	eventsDuplicate prometheus.Counter
	dispatchLatency prometheus.Histogram

	// Drop resolution
	strategyInvocations *prometheus.CounterVec
	dropsTotal          *prometheus.CounterVec
	rollsFailed         prometheus.Counter
	broadcastsTotal     *prometheus.CounterVec
	equipmentStamped    *prometheus.CounterVec
	resolutions         *prometheus.CounterVec
	templateExpansions  *prometheus.CounterVec

	// Definitions
	definitionsLoaded *prometheus.GaugeVec

	// Queue and reactor
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec
	reactorErrors      prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dropforge",
		subsystem:        "loot",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.deathEvents = auto.NewCounter(m.counterOpts("death_events_total", "Total number of death events handled"))
	m.eventsFiltered = auto.NewCounterVec(m.counterOpts("death_events_filtered_total", "Death events rejected before drop resolution, by reason"), []string{"reason"})
	m.eventsDuplicate = auto.NewCounter(m.counterOpts("death_events_duplicate_total", "Death events submitted more than once"))
	m.dispatchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dispatch_latency_milliseconds",
		Help:        "Time spent resolving drops for one death event",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.strategyInvocations = auto.NewCounterVec(m.counterOpts("strategy_invocations_total", "Drop strategy invocations by strategy id"), []string{"strategy"})
	m.dropsTotal = auto.NewCounterVec(m.counterOpts("drops_total", "Items added to death drops by kind"), []string{"kind"})
	m.rollsFailed = auto.NewCounter(m.counterOpts("drop_rolls_failed_total", "Drop candidates discarded by their probability roll"))
	m.broadcastsTotal = auto.NewCounterVec(m.counterOpts("broadcasts_total", "Rare drop broadcasts by kind"), []string{"kind"})
	m.equipmentStamped = auto.NewCounterVec(m.counterOpts("equipment_stamped_total", "Visible equipment drops re-stamped by kind"), []string{"kind"})
	m.resolutions = auto.NewCounterVec(m.counterOpts("identity_resolutions_total", "Item identity resolutions by kind and path"), []string{"kind", "path"})
	m.templateExpansions = auto.NewCounterVec(m.counterOpts("template_expansions_total", "Template tokens expanded by operation"), []string{"operation"})

	m.definitionsLoaded = auto.NewGaugeVec(m.gaugeOpts("definitions_loaded", "Loaded definitions by kind"), []string{"kind"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of queued death events"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the death event queue"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Death events enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeued_total", "Death events dequeued by the reactor"))
	m.queueEnqueueErrors = auto.NewCounterVec(m.counterOpts("queue_enqueue_errors_total", "Rejected enqueues by reason"), []string{"reason"})
	m.reactorErrors = auto.NewCounter(m.counterOpts("reactor_errors_total", "Death events whose handling failed"))
}

// Gatherer exposes the registry backing the global manager.
func Gatherer() prometheus.Gatherer {
	return customRegistry
}

// WriteTextfile writes the current metric values in the text exposition
// format, suitable for a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// RecordDeathEvent counts a death event entering the dispatcher.
func RecordDeathEvent() {
	globalManager.deathEvents.Inc()
}

// RecordEventFiltered counts a death event rejected by the filter stage.
func RecordEventFiltered(reason string) {
	globalManager.eventsFiltered.WithLabelValues(reason).Inc()
}

// RecordEventDuplicate counts a death event that was already handled.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordDispatchLatency records the time spent handling one event.
func RecordDispatchLatency(ms float64) {
	globalManager.dispatchLatency.Observe(ms)
}

// RecordStrategyInvocation counts one strategy-mode pass.
func RecordStrategyInvocation(strategy string) {
	globalManager.strategyInvocations.WithLabelValues(strategy).Inc()
}

// RecordDrop counts an item added to the drop list.
func RecordDrop(kind string) {
	globalManager.dropsTotal.WithLabelValues(kind).Inc()
}

// RecordRollFailed counts a candidate discarded by its probability roll.
func RecordRollFailed() {
	globalManager.rollsFailed.Inc()
}

// RecordBroadcast counts a broadcast message.
func RecordBroadcast(kind string) {
	globalManager.broadcastsTotal.WithLabelValues(kind).Inc()
}

// RecordEquipmentStamped counts a drop list entry replaced in equipment mode.
func RecordEquipmentStamped(kind string) {
	globalManager.equipmentStamped.WithLabelValues(kind).Inc()
}

// RecordResolution counts an identity resolution result.
func RecordResolution(kind, path string) {
	globalManager.resolutions.WithLabelValues(kind, path).Inc()
}

// RecordTemplateExpansion counts a template token expansion.
func RecordTemplateExpansion(operation string) {
	globalManager.templateExpansions.WithLabelValues(operation).Inc()
}

// UpdateDefinitionsLoaded sets the number of loaded definitions of a kind.
func UpdateDefinitionsLoaded(kind string, n int) {
	globalManager.definitionsLoaded.WithLabelValues(kind).Set(float64(n))
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted enqueue.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordReactorError counts a failed event handling.
func RecordReactorError() {
	globalManager.reactorErrors.Inc()
}
