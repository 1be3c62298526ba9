package googlehome

import (
	"context"

	"github.com/nerrad567/gray-logic-googlehome/internal/entity"
)

// SetupTextEntry creates one IP address entity per device the entry's
// coordinator currently lists and hands them to add in coordinator order.
// An empty device list adds an empty batch.
func SetupTextEntry(store *Store, entryID string, add entity.AddEntitiesFunc) (bool, error) {
	data, err := store.Get(entryID)
	if err != nil {
		return false, err
	}

	devices := data.Coordinator.Data()
	entities := make([]entity.Entity, 0, len(devices))
	for _, d := range devices {
		entities = append(entities, NewIPAddressTextEntity(
			data.Coordinator,
			data.Client,
			d.DeviceID,
			d.Name,
			d.Hardware,
		))
	}
	add(entities)

	return true, nil
}

// IPAddressTextEntity exposes a device's IP address as an editable text field.
// It holds no value of its own; every read looks the device up in
// coordinator data.
type IPAddressTextEntity struct {
	baseEntity
}

var _ entity.TextEntity = (*IPAddressTextEntity)(nil)

// NewIPAddressTextEntity creates the entity for one device.
func NewIPAddressTextEntity(source DeviceSource, client Client, deviceID, deviceName, deviceModel string) *IPAddressTextEntity {
	return &IPAddressTextEntity{
		baseEntity: baseEntity{
			coordinator: source,
			client:      client,
			deviceID:    deviceID,
			deviceName:  deviceName,
			deviceModel: deviceModel,
		},
	}
}

// Label names what this entity edits.
func (e *IPAddressTextEntity) Label() string { return labelIPAddress }

// Name returns the entity's display name.
func (e *IPAddressTextEntity) Name() string { return labelIPAddress }

// UniqueID is the device id with the ip address suffix.
func (e *IPAddressTextEntity) UniqueID() string { return e.deviceID + ipAddressIDSuffix }

// Icon returns the icon token shown next to the value.
func (e *IPAddressTextEntity) Icon() string { return IconToken }

// Mode is plain text input.
func (e *IPAddressTextEntity) Mode() entity.TextMode { return entity.TextModeText }

// EntityCategory marks the entity as device configuration.
func (e *IPAddressTextEntity) EntityCategory() entity.Category { return entity.CategoryConfig }

// EnabledByDefault reports that the entity is enabled on registration.
func (e *IPAddressTextEntity) EnabledByDefault() bool { return true }

// NativeMin returns the minimum accepted value length.
func (e *IPAddressTextEntity) NativeMin() int { return entity.DefaultTextMin }

// NativeMax returns the maximum accepted value length.
func (e *IPAddressTextEntity) NativeMax() int { return entity.DefaultTextMax }

// Pattern is empty; addresses are validated by the client on write.
func (e *IPAddressTextEntity) Pattern() string { return "" }

// NativeValue returns the device's IP address, or UnknownIPAddress when the
// device is gone or has none.
func (e *IPAddressTextEntity) NativeValue() string {
	if d := e.Device(); d != nil && d.IPAddress != "" {
		return d.IPAddress
	}
	return UnknownIPAddress
}

// State is the same as NativeValue.
func (e *IPAddressTextEntity) State() string {
	return e.NativeValue()
}

// ExtraStateAttributes returns the device id, device name and editable flag.
func (e *IPAddressTextEntity) ExtraStateAttributes() map[string]string {
	return map[string]string{
		"device_id":   e.DeviceID(),
		"device_name": e.DeviceName(),
		"editable":    "true",
	}
}

// SetValue passes value to the client for the current device record. The
// client's error is returned as is.
func (e *IPAddressTextEntity) SetValue(ctx context.Context, value string) error {
	return e.client.UpdateDeviceIPAddress(ctx, e.Device(), value)
}
