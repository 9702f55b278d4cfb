package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/image-quality-go/pkg/models"
)

// AssessmentEvent represents an assessment lifecycle event
type AssessmentEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Source         string                 `json:"source"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	OverallQuality models.QualityTier     `json:"overall_quality,omitempty"`
	OverallScore   float64                `json:"overall_score,omitempty"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of assessment event
type EventType string

const (
	// AssessmentStarted when an assessment begins
	AssessmentStarted EventType = "assessment_started"
	// AssessmentCompleted when an assessment produced a report
	AssessmentCompleted EventType = "assessment_completed"
	// AssessmentFailed when decoding or fetching failed
	AssessmentFailed EventType = "assessment_failed"
	// SourceFetched when a remote source was downloaded
	SourceFetched EventType = "source_fetched"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AssessmentEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AssessmentEvent)
}

// LoggingObserver logs assessment events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles assessment events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AssessmentEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"source":     event.Source,
	}

	if event.ProcessingTime > 0 {
		fields["processing_time_ms"] = event.ProcessingTime.Milliseconds()
	}
	if event.OverallQuality != "" {
		fields["overall_quality"] = event.OverallQuality
		fields["overall_score"] = event.OverallScore
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case AssessmentStarted:
		entry.Debug("Image assessment started")
	case AssessmentCompleted:
		entry.Info("Image assessment completed")
	case AssessmentFailed:
		entry.Error("Image assessment failed")
	case SourceFetched:
		entry.Debug("Source fetched")
	default:
		entry.Info("Assessment event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver keeps assessment counters
type MetricsObserver struct {
	mu                    sync.RWMutex
	totalAssessments      int64
	successfulAssessments int64
	failedAssessments     int64
	totalProcessingTime   time.Duration
	byOverallQuality      map[models.QualityTier]int64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		byOverallQuality: make(map[models.QualityTier]int64),
	}
}

// OnEvent handles assessment events by updating the counters
func (o *MetricsObserver) OnEvent(ctx context.Context, event AssessmentEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case AssessmentStarted:
		o.totalAssessments++
	case AssessmentCompleted:
		o.successfulAssessments++
		o.totalProcessingTime += event.ProcessingTime
		if event.OverallQuality != "" {
			o.byOverallQuality[event.OverallQuality]++
		}
	case AssessmentFailed:
		o.failedAssessments++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Stats returns a snapshot of the counters
func (o *MetricsObserver) Stats() models.AssessmentStats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var avg float64
	if o.successfulAssessments > 0 {
		avg = float64(o.totalProcessingTime.Milliseconds()) / float64(o.successfulAssessments)
	}

	byQuality := make(map[models.QualityTier]int64, len(o.byOverallQuality))
	for tier, n := range o.byOverallQuality {
		byQuality[tier] = n
	}

	return models.AssessmentStats{
		TotalAssessments:      o.totalAssessments,
		SuccessfulAssessments: o.successfulAssessments,
		FailedAssessments:     o.failedAssessments,
		AvgProcessingTimeMs:   avg,
		ByOverallQuality:      byQuality,
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

// NotifyObservers delivers event to every observer in subscription order.
// Delivery is synchronous so counters are current when the caller returns.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AssessmentEvent) {
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

func notify(ctx context.Context, obs Observer, event AssessmentEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
