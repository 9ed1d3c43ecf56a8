package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eaugusto/registry/pkg/monitoring"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Store is an interface for storing identifiable entities of exactly one type.
// No two stored entities share an identifier.
type Store[T Identifiable] interface {
	// Register adds a copy of the entity to the store.
	// It returns false without modifying the store if an entity with the same identifier is already stored.
	// An error is returned iff the identifier of the entity cannot be resolved.
	Register(entity T) (bool, error)

	// Delete deletes the entity with the passed identifier from the store.
	// It does nothing if no entity with the identifier is present in the store.
	Delete(identifier string)

	// UpdateEntity merges the passed entity into the stored entity with the same identifier.
	// The identifier of the stored entity is never changed. It returns false without modifying the store
	// if no such entity is stored.
	// An error is returned iff the identifier of the entity cannot be resolved.
	UpdateEntity(entity T) (bool, error)

	// Search returns a copy of an entity from the store.
	// Iff the entity does not exist in the store, ok will be false.
	Search(identifier string) (entity T, ok bool)

	// SearchAll returns all entities from the store.
	// Like Search, it returns copies of the stored entities.
	SearchAll() []T

	// Length returns the number of currently stored entities.
	Length() uint

	// Purge removes all entities from the store.
	Purge()
}

// MergeFunc copies the values of the incoming entity onto the registered one.
// It must leave the identifier of the registered entity untouched.
type MergeFunc[T any] func(registered, incoming T)

// Kind selects the strategy a Store uses to hold its entities.
type Kind string

const (
	// MapKind indexes the entities by their identifier.
	MapKind Kind = "map"
	// SetKind holds the entities in a set and finds them by scanning it.
	SetKind Kind = "set"
)

var ErrUnknownKind = errors.New("unknown storage kind")

// ParseKind parses the name of a storage kind (case-insensitive).
func ParseKind(name string) (Kind, error) {
	switch kind := Kind(strings.ToLower(strings.TrimSpace(name))); kind {
	case MapKind, SetKind:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// New returns a Store of the requested kind.
func New[T Entity[T]](kind Kind, merge MergeFunc[T], options ...Option[T]) (Store[T], error) {
	switch kind {
	case MapKind:
		return NewMapStorage[T](merge, options...), nil
	case SetKind:
		return NewSetStorage[T](merge, options...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// EventType is an enum type to declare the different causes of a monitoring event.
type EventType string

const (
	Creation     EventType = "creation"
	Update       EventType = "update"
	Deletion     EventType = "deletion"
	Periodically EventType = "periodically"
)

// WriteCallback is called before an event gets monitored.
// Iff eventType is Periodically it is no entity provided.
type WriteCallback[T any] func(p *write.Point, entity T, eventType EventType)

// Option configures a Store on construction.
type Option[T any] func(m *monitor[T])

// WithMonitoring lets all write operations be monitored in the passed measurement.
// Iff callback is set, it will be called on a write operation.
func WithMonitoring[T any](measurement string, callback WriteCallback[T]) Option[T] {
	return func(m *monitor[T]) {
		m.measurement = measurement
		m.callback = callback
	}
}

// WithPeriodicMonitoring sends the length of the store every interval until ctx is done.
// It only has an effect together with WithMonitoring.
func WithPeriodicMonitoring[T any](ctx context.Context, interval time.Duration) Option[T] {
	return func(m *monitor[T]) {
		m.periodicCtx = ctx
		m.periodicInterval = interval
	}
}

// monitor holds the monitoring configuration shared by both store kinds.
type monitor[T any] struct {
	measurement      string
	callback         WriteCallback[T]
	periodicCtx      context.Context
	periodicInterval time.Duration
}

func newMonitor[T any](options []Option[T]) monitor[T] {
	m := monitor[T]{}
	for _, option := range options {
		option(&m)
	}
	return m
}

// startPeriodic starts the periodic monitoring if it was requested. length must be safe for concurrent use.
func (m *monitor[T]) startPeriodic(length func() uint) {
	if m.measurement == "" || m.periodicInterval == 0 || m.periodicCtx == nil {
		return
	}
	go m.periodicallySendMonitoringData(m.periodicCtx, m.periodicInterval, length)
}

func (m *monitor[T]) sendMonitoringData(id string, entity T, eventType EventType, count uint) {
	if m.measurement == "" {
		return
	}
	dataPoint := influxdb2.NewPointWithMeasurement(m.measurement)
	dataPoint.AddTag("id", id)
	dataPoint.AddTag("event_type", string(eventType))
	dataPoint.AddField("count", count)

	if m.callback != nil {
		m.callback(dataPoint, entity, eventType)
	}

	monitoring.WriteInfluxPoint(dataPoint)
}

// countOperation records the outcome of a store operation.
func (m *monitor[T]) countOperation(operation, outcome string) {
	if m.measurement == "" {
		return
	}
	monitoring.CountStoreOperation(m.measurement, operation, outcome)
}

func (m *monitor[T]) periodicallySendMonitoringData(ctx context.Context, d time.Duration, length func() uint) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(d):
			var stub T
			m.sendMonitoringData("", stub, Periodically, length())
		}
	}
}

// Operation and outcome labels of the store operation counter.
const (
	operationRegister = "register"
	operationDelete   = "delete"
	operationUpdate   = "update"
	operationSearch   = "search"

	outcomeSuccess   = "success"
	outcomeDuplicate = "duplicate"
	outcomeAbsent    = "absent"
	outcomeError     = "error"
)
