package googlehome

import (
	"fmt"

	"github.com/nerrad567/gray-logic-googlehome/internal/entity"
)

// DeviceSource is the read side of the device coordinator.
type DeviceSource interface {
	Data() []Device
	LastUpdateSuccess() bool
}

// baseEntity carries what every Google Home entity shares: the device it
// belongs to and access to coordinator data.
type baseEntity struct {
	coordinator DeviceSource
	client      Client
	deviceID    string
	deviceName  string
	deviceModel string
}

// Device returns the current record for this entity's device, or nil when
// the coordinator no longer lists it.
func (b *baseEntity) Device() *Device {
	return findDevice(b.coordinator.Data(), b.deviceID)
}

// DeviceID returns the id the entity was built for.
func (b *baseEntity) DeviceID() string {
	return b.deviceID
}

// DeviceName returns the device name the entity was built with.
func (b *baseEntity) DeviceName() string {
	return b.deviceName
}

// Available reports whether the last coordinator refresh succeeded.
func (b *baseEntity) Available() bool {
	return b.coordinator.LastUpdateSuccess()
}

// DeviceInfo links the entity to its Google Home device.
func (b *baseEntity) DeviceInfo() entity.DeviceInfo {
	return entity.DeviceInfo{
		Identifiers:  [][2]string{{Domain, b.deviceID}},
		Name:         fmt.Sprintf("Google Home %s", b.deviceName),
		Manufacturer: Manufacturer,
		Model:        b.deviceModel,
	}
}
