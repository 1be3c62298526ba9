package googlehome

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// Device is a discovered Google Home unit.
//
// IPAddress is empty when no address is known.
type Device struct {
	DeviceID  string    `json:"device_id"`
	Name      string    `json:"name"`
	Hardware  string    `json:"hardware"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields the store requires.
func (d *Device) Validate() error {
	if strings.TrimSpace(d.DeviceID) == "" {
		return fmt.Errorf("%w: device id is required", ErrInvalidDevice)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDevice)
	}
	if d.IPAddress != "" {
		if _, err := NormalizeIPAddress(d.IPAddress); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeIPAddress parses value as an IPv4 or IPv6 address and returns its
// canonical form.
func NormalizeIPAddress(value string) (string, error) {
	ip := net.ParseIP(strings.TrimSpace(value))
	if ip == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIPAddress, value)
	}
	return ip.String(), nil
}

// findDevice returns a copy of the device with the given id, or nil.
func findDevice(devices []Device, id string) *Device {
	for i := range devices {
		if devices[i].DeviceID == id {
			d := devices[i]
			return &d
		}
	}
	return nil
}
