package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/logger"
)

// Event is emitted by the sprite service around each operation
type Event struct {
	Type         EventType              `json:"event_type"`
	Operation    Operation              `json:"operation"`
	Timestamp    time.Time              `json:"timestamp"`
	Source       string                 `json:"source"`
	Duration     time.Duration          `json:"duration"`
	Success      bool                   `json:"success"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of event
type EventType string

const (
	OperationStarted   EventType = "operation_started"
	OperationCompleted EventType = "operation_completed"
	OperationFailed    EventType = "operation_failed"
	SheetFetched       EventType = "sheet_fetched"
	SheetFetchFailed   EventType = "sheet_fetch_failed"
	CellsSaved         EventType = "cells_saved"
)

// Operation names a service entry point
type Operation string

const (
	OpDetect  Operation = "detect"
	OpExtract Operation = "extract"
	OpSplit   Operation = "split"
	OpPreview Operation = "preview"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event Event)
	Name() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(ctx context.Context, event Event)
}

// LoggingObserver logs events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) *LoggingObserver {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent logs the event at a level matching its outcome
func (o *LoggingObserver) OnEvent(ctx context.Context, event Event) {
	fields := logrus.Fields{
		"event_type":  event.Type,
		"operation":   event.Operation,
		"source":      event.Source,
		"duration_ms": event.Duration.Milliseconds(),
		"success":     event.Success,
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.Type {
	case OperationStarted:
		entry.Debug("Sprite operation started")
	case OperationCompleted:
		entry.Info("Sprite operation completed")
	case OperationFailed:
		entry.Error("Sprite operation failed")
	case SheetFetched:
		entry.Debug("Sheet fetched")
	case SheetFetchFailed:
		entry.Warn("Sheet fetch failed")
	case CellsSaved:
		entry.Info("Cells saved")
	default:
		entry.Info("Sprite event occurred")
	}
}

// Name returns the observer name
func (o *LoggingObserver) Name() string {
	return "logging_observer"
}

// Metrics is a snapshot of MetricsObserver counters
type Metrics struct {
	Started           map[Operation]int64 `json:"started"`
	Completed         map[Operation]int64 `json:"completed"`
	Failed            map[Operation]int64 `json:"failed"`
	CellsSaved        int64               `json:"cells_saved"`
	AvgProcessingTime time.Duration       `json:"avg_processing_time"`
}

// MetricsObserver counts operations by outcome
type MetricsObserver struct {
	mu                  sync.RWMutex
	started             map[Operation]int64
	completed           map[Operation]int64
	failed              map[Operation]int64
	cellsSaved          int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		started:   map[Operation]int64{},
		completed: map[Operation]int64{},
		failed:    map[Operation]int64{},
	}
}

// OnEvent updates the counters
func (o *MetricsObserver) OnEvent(ctx context.Context, event Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.Type {
	case OperationStarted:
		o.started[event.Operation]++
	case OperationCompleted:
		o.completed[event.Operation]++
		o.totalProcessingTime += event.Duration
	case OperationFailed:
		o.failed[event.Operation]++
	case CellsSaved:
		if n, ok := event.Metadata["count"].(int); ok {
			o.cellsSaved += int64(n)
		}
	}
}

// Name returns the observer name
func (o *MetricsObserver) Name() string {
	return "metrics_observer"
}

// Metrics returns a copy of the current counters
func (o *MetricsObserver) Metrics() Metrics {
	o.mu.RLock()
	defer o.mu.RUnlock()

	m := Metrics{
		Started:    make(map[Operation]int64, len(o.started)),
		Completed:  make(map[Operation]int64, len(o.completed)),
		Failed:     make(map[Operation]int64, len(o.failed)),
		CellsSaved: o.cellsSaved,
	}
	var completed int64
	for k, v := range o.started {
		m.Started[k] = v
	}
	for k, v := range o.completed {
		m.Completed[k] = v
		completed += v
	}
	for k, v := range o.failed {
		m.Failed[k] = v
	}
	if completed > 0 {
		m.AvgProcessingTime = o.totalProcessingTime / time.Duration(completed)
	}
	return m
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes the first observer with the same name
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.Name() == observer.Name() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// Notify delivers event to every observer on its own goroutine. A panicking
// observer is logged and does not affect the others.
func (p *EventPublisher) Notify(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logger.WithFields(logrus.Fields{
						"observer": obs.Name(),
						"panic":    r,
					}).Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
