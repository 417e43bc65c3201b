package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AphiweJoko/AgriAssist/internal/metrics"
)

// AnalysisEvent represents a step of the analysis pipeline
type AnalysisEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	RequestID      string                 `json:"request_id"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of pipeline event
type EventType string

const (
	// AnalysisStarted when a request enters the pipeline
	AnalysisStarted EventType = "analysis_started"
	// AnalysisCompleted when a merged message was produced
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisRejected when neither text nor image was supplied
	AnalysisRejected EventType = "analysis_rejected"
	// ImageDiagnosed when the image analyzer produced a diagnosis
	ImageDiagnosed EventType = "image_diagnosed"
	// ImageDiagnosisFailed when staging, decoding or processing failed
	ImageDiagnosisFailed EventType = "image_diagnosis_failed"
	// CompletionFailed when a text-completion call failed
	CompletionFailed EventType = "completion_failed"
)

// Metadata keys
const (
	MetaCondition   = "condition"
	MetaHealthScore = "health_score"
	MetaGenerator   = "generator"
	MetaHasText     = "has_text"
	MetaHasImage    = "has_image"
	MetaFormat      = "format"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AnalysisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AnalysisEvent)
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles pipeline events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"request_id":      event.RequestID,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case AnalysisStarted:
		entry.Info("Analysis started")
	case AnalysisCompleted:
		entry.Info("Analysis completed")
	case AnalysisRejected:
		entry.Warn("Analysis rejected")
	case ImageDiagnosed:
		entry.Debug("Image diagnosed")
	case ImageDiagnosisFailed:
		entry.Error("Image diagnosis failed")
	case CompletionFailed:
		entry.Error("Completion failed")
	default:
		entry.Info("Analysis event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver feeds pipeline events into the Prometheus collectors
type MetricsObserver struct{}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() Observer {
	return &MetricsObserver{}
}

// OnEvent handles pipeline events by updating the collectors
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	switch event.EventType {
	case AnalysisCompleted:
		metrics.AnalysesTotal.WithLabelValues("success").Inc()
		metrics.AnalysisDurationSeconds.WithLabelValues("success").Observe(event.ProcessingTime.Seconds())
	case AnalysisRejected:
		metrics.AnalysesTotal.WithLabelValues("rejected").Inc()
		metrics.AnalysisDurationSeconds.WithLabelValues("rejected").Observe(event.ProcessingTime.Seconds())
	case ImageDiagnosed:
		if condition, ok := event.Metadata[MetaCondition].(string); ok {
			metrics.DiagnosesTotal.WithLabelValues(condition).Inc()
		}
		if score, ok := event.Metadata[MetaHealthScore].(int); ok {
			metrics.HealthScore.Observe(float64(score))
		}
	case ImageDiagnosisFailed:
		metrics.DiagnosesTotal.WithLabelValues("failed").Inc()
	case CompletionFailed:
		generator, _ := event.Metadata[MetaGenerator].(string)
		metrics.CompletionFailuresTotal.WithLabelValues(generator).Inc()
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
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

// NotifyObservers delivers the event to every observer concurrently and
// returns once all of them have handled it
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AnalysisEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	var wg sync.WaitGroup
	for _, observer := range observers {
		wg.Add(1)
		go func(obs Observer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					// Log panic but don't crash the application
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
	wg.Wait()
}
