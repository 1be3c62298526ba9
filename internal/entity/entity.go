package entity

import (
	"context"
	"time"
)

// Category groups entities that are not primary controls.
type Category string

// Entity categories.
const (
	CategoryNone       Category = ""
	CategoryConfig     Category = "config"
	CategoryDiagnostic Category = "diagnostic"
)

// TextMode selects how a text entity is rendered.
type TextMode string

// Text modes.
const (
	TextModeText     TextMode = "text"
	TextModePassword TextMode = "password"
)

// Default text length bounds applied by the host.
const (
	DefaultTextMin = 0
	DefaultTextMax = 255
)

// Entity is the read side every integration entity exposes to the host.
type Entity interface {
	UniqueID() string
	Name() string
	State() string
	Icon() string
	EntityCategory() Category
	EnabledByDefault() bool
	ExtraStateAttributes() map[string]string
	Available() bool
}

// TextEntity is an entity whose value the user can edit as a string.
type TextEntity interface {
	Entity

	NativeValue() string
	Mode() TextMode
	NativeMin() int
	NativeMax() int
	Pattern() string

	// SetValue applies a new value. Errors are returned to the caller
	// that invoked the service.
	SetValue(ctx context.Context, value string) error
}

// DeviceInfo links an entity to the physical device it belongs to.
type DeviceInfo struct {
	Identifiers  [][2]string `json:"identifiers"`
	Name         string      `json:"name"`
	Manufacturer string      `json:"manufacturer,omitempty"`
	Model        string      `json:"model,omitempty"`
}

// DeviceEntity is implemented by entities attached to a device.
type DeviceEntity interface {
	DeviceInfo() DeviceInfo
}

// AddEntitiesFunc is the callback an integration's setup uses to hand its
// entities to the host.
type AddEntitiesFunc func(entities []Entity)

// TextAttributes carries the editing constraints of a text entity.
type TextAttributes struct {
	Mode    TextMode `json:"mode"`
	Min     int      `json:"min"`
	Max     int      `json:"max"`
	Pattern string   `json:"pattern,omitempty"`
}

// StateSnapshot is the serialisable view of an entity at one point in time.
type StateSnapshot struct {
	UniqueID         string            `json:"unique_id"`
	Name             string            `json:"name"`
	State            string            `json:"state"`
	Icon             string            `json:"icon,omitempty"`
	Category         Category          `json:"entity_category,omitempty"`
	EnabledByDefault bool              `json:"enabled_by_default"`
	Available        bool              `json:"available"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	Text             *TextAttributes   `json:"text,omitempty"`
	Device           *DeviceInfo       `json:"device,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

// Snapshot reads e and returns its current state view.
func Snapshot(e Entity) StateSnapshot {
	s := StateSnapshot{
		UniqueID:         e.UniqueID(),
		Name:             e.Name(),
		State:            e.State(),
		Icon:             e.Icon(),
		Category:         e.EntityCategory(),
		EnabledByDefault: e.EnabledByDefault(),
		Available:        e.Available(),
		Attributes:       e.ExtraStateAttributes(),
		Timestamp:        time.Now().UTC(),
	}

	if t, ok := e.(TextEntity); ok {
		s.Text = &TextAttributes{
			Mode:    t.Mode(),
			Min:     t.NativeMin(),
			Max:     t.NativeMax(),
			Pattern: t.Pattern(),
		}
	}
	if d, ok := e.(DeviceEntity); ok {
		info := d.DeviceInfo()
		s.Device = &info
	}

	return s
}
