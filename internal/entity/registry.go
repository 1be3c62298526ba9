package entity

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// StateListener receives a snapshot whenever an entity's state may have changed.
type StateListener func(StateSnapshot)

type listenerEntry struct {
	id int
	fn StateListener
}

// Registry holds the entities registered by integrations, keyed by unique id.
//
// All public methods are thread-safe. Listeners are invoked synchronously
// on the goroutine that triggered the change and must not call back into
// Add.
type Registry struct {
	entities map[string]Entity
	mu       sync.RWMutex

	listeners  []listenerEntry
	nextID     int
	listenerMu sync.RWMutex

	logger Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]Entity),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Add registers a single entity.
// Returns ErrDuplicateUniqueID if the unique id is already taken.
func (r *Registry) Add(e Entity) error {
	uid := e.UniqueID()

	r.mu.Lock()
	if _, exists := r.entities[uid]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateUniqueID, uid)
	}
	r.entities[uid] = e
	r.mu.Unlock()

	r.logger.Debug("entity registered", "unique_id", uid, "name", e.Name())
	return nil
}

// AddEntities registers a batch handed over by an integration's setup.
// It satisfies AddEntitiesFunc; duplicates are logged and skipped.
func (r *Registry) AddEntities(entities []Entity) {
	added := 0
	for _, e := range entities {
		if err := r.Add(e); err != nil {
			r.logger.Warn("skipping entity", "unique_id", e.UniqueID(), "error", err)
			continue
		}
		added++
	}
	r.logger.Info("entities added", "count", added, "offered", len(entities))
}

// Get returns the entity registered under uniqueID.
func (r *Registry) Get(uniqueID string) (Entity, error) {
	r.mu.RLock()
	e, ok := r.entities[uniqueID]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, uniqueID)
	}
	return e, nil
}

// List returns all entities sorted by unique id.
func (r *Registry) List() []Entity {
	r.mu.RLock()
	out := make([]Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].UniqueID() < out[j].UniqueID()
	})
	return out
}

// Count returns the number of registered entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

// Snapshots returns the current state of every entity, sorted by unique id.
func (r *Registry) Snapshots() []StateSnapshot {
	entities := r.List()
	out := make([]StateSnapshot, 0, len(entities))
	for _, e := range entities {
		out = append(out, Snapshot(e))
	}
	return out
}

// SetTextValue is the host's set-value service for text entities.
//
// The value's length is checked against the entity's bounds before the
// entity sees it. An error from the entity is wrapped, so errors.Is still
// matches the integration's own sentinels. On success listeners receive the
// entity's fresh snapshot.
func (r *Registry) SetTextValue(ctx context.Context, uniqueID, value string) error {
	e, err := r.Get(uniqueID)
	if err != nil {
		return err
	}

	text, ok := e.(TextEntity)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotTextEntity, uniqueID)
	}

	if n := utf8.RuneCountInString(value); n < text.NativeMin() || n > text.NativeMax() {
		return fmt.Errorf("%w: %d characters, allowed %d-%d",
			ErrValueOutOfRange, n, text.NativeMin(), text.NativeMax())
	}

	if err := text.SetValue(ctx, value); err != nil {
		r.logger.Warn("set value failed", "unique_id", uniqueID, "error", err)
		return fmt.Errorf("setting value of %s: %w", uniqueID, err)
	}

	r.logger.Info("value set", "unique_id", uniqueID)
	r.notify(Snapshot(text))
	return nil
}

// AddListener registers fn for state-change notifications and returns a
// function that removes it.
func (r *Registry) AddListener(fn StateListener) func() {
	r.listenerMu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners = append(r.listeners, listenerEntry{id: id, fn: fn})
	r.listenerMu.Unlock()

	return func() {
		r.listenerMu.Lock()
		defer r.listenerMu.Unlock()
		for i, l := range r.listeners {
			if l.id == id {
				r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

// NotifyAll sends every entity's current snapshot to the listeners.
// Coordinators call this after a refresh.
func (r *Registry) NotifyAll() {
	for _, s := range r.Snapshots() {
		r.notify(s)
	}
}

func (r *Registry) notify(s StateSnapshot) {
	r.listenerMu.RLock()
	listeners := make([]StateListener, len(r.listeners))
	for i, l := range r.listeners {
		listeners[i] = l.fn
	}
	r.listenerMu.RUnlock()

	for _, fn := range listeners {
		fn(s)
	}
}
