package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PipelineEvent represents a step of a batch run
type PipelineEvent struct {
	EventType    EventType              `json:"event_type"`
	Timestamp    time.Time              `json:"timestamp"`
	Metric       string                 `json:"metric,omitempty"`
	Artifact     string                 `json:"artifact,omitempty"`
	Count        int                    `json:"count,omitempty"`
	Duration     time.Duration          `json:"duration"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of pipeline event
type EventType string

const (
	// MetricStarted when processing of a metric column begins
	MetricStarted EventType = "metric_started"
	// MetricCompleted when every artifact of a metric has been written
	MetricCompleted EventType = "metric_completed"
	// MetricFailed when a metric aborts the run
	MetricFailed EventType = "metric_failed"
	// MetricSkipped when a metric produces no artifacts
	MetricSkipped EventType = "metric_skipped"
	// ImagesDecoded when a batch of images has been decoded
	ImagesDecoded EventType = "images_decoded"
	// ArtifactWritten when an output file has been written
	ArtifactWritten EventType = "artifact_written"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PipelineEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PipelineEvent)
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Entry
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Entry) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles pipeline events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
	}
	if event.Metric != "" {
		fields["metric"] = event.Metric
	}
	if event.Artifact != "" {
		fields["artifact"] = event.Artifact
	}
	if event.Count != 0 {
		fields["count"] = event.Count
	}
	if event.Duration != 0 {
		fields["duration_ms"] = event.Duration.Milliseconds()
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case MetricStarted:
		entry.Info("Metric processing started")
	case MetricCompleted:
		entry.Info("Metric processing completed")
	case MetricFailed:
		entry.Error("Metric processing failed")
	case MetricSkipped:
		entry.Warn("Metric skipped")
	case ImagesDecoded:
		entry.Debug("Images decoded")
	case ArtifactWritten:
		entry.Info("Artifact written")
	default:
		entry.Info("Pipeline event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// RunMetrics is a snapshot of the counters collected by MetricsObserver
type RunMetrics struct {
	MetricsStarted   int64
	MetricsCompleted int64
	MetricsFailed    int64
	MetricsSkipped   int64
	ImagesDecoded    int64
	ArtifactsWritten int64
	MetricDuration   time.Duration
}

// MetricsObserver counts pipeline events
type MetricsObserver struct {
	mu      sync.RWMutex
	metrics RunMetrics
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles pipeline events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case MetricStarted:
		o.metrics.MetricsStarted++
	case MetricCompleted:
		o.metrics.MetricsCompleted++
		o.metrics.MetricDuration += event.Duration
	case MetricFailed:
		o.metrics.MetricsFailed++
	case MetricSkipped:
		o.metrics.MetricsSkipped++
	case ImagesDecoded:
		o.metrics.ImagesDecoded += int64(event.Count)
	case ArtifactWritten:
		o.metrics.ArtifactsWritten++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() RunMetrics {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.metrics
}

// Fields renders the counters as log fields
func (m RunMetrics) Fields() logrus.Fields {
	avg := time.Duration(0)
	if m.MetricsCompleted > 0 {
		avg = m.MetricDuration / time.Duration(m.MetricsCompleted)
	}
	return logrus.Fields{
		"metrics_started":   m.MetricsStarted,
		"metrics_completed": m.MetricsCompleted,
		"metrics_failed":    m.MetricsFailed,
		"metrics_skipped":   m.MetricsSkipped,
		"images_decoded":    m.ImagesDecoded,
		"artifacts_written": m.ArtifactsWritten,
		"avg_metric_ms":     avg.Milliseconds(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer in subscription
// order before returning. A zero Timestamp is set to now.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event PipelineEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, obs := range observers {
		notify(ctx, obs, event)
	}
}

func notify(ctx context.Context, obs Observer, event PipelineEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
