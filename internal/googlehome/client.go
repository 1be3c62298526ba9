package googlehome

import (
	"context"
	"fmt"
	"sync"
)

// Client is the vendor API surface the entities depend on.
type Client interface {
	// UpdateDeviceIPAddress records a new address for device. A nil device
	// means the device is no longer known.
	UpdateDeviceIPAddress(ctx context.Context, device *Device, ip string) error
}

// Telemetry receives IP change events. *influxdb.Client implements it.
type Telemetry interface {
	WriteIPAddressChange(deviceID, previous, current string)
}

// Refresher re-reads coordinated data after a write.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Logger defines the logging interface used by this package.
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

// LocalClient implements Client against the local device store.
//
// Updates are validated, persisted, optionally recorded as telemetry and
// followed by a coordinator refresh so entity reads see the new address.
type LocalClient struct {
	repo Repository

	mu        sync.RWMutex
	telemetry Telemetry
	refresher Refresher
	logger    Logger
}

// NewLocalClient creates a client over repo.
func NewLocalClient(repo Repository) *LocalClient {
	return &LocalClient{
		repo:   repo,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the client.
func (c *LocalClient) SetLogger(logger Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// SetTelemetry sets where IP changes are recorded. Nil disables recording.
func (c *LocalClient) SetTelemetry(t Telemetry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.telemetry = t
}

// SetRefresher sets the coordinator refreshed after each update.
func (c *LocalClient) SetRefresher(r Refresher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresher = r
}

// FetchDevices lists the stored devices. It is the coordinator's fetch function.
func (c *LocalClient) FetchDevices(ctx context.Context) ([]Device, error) {
	devices, err := c.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching devices: %w", err)
	}
	return devices, nil
}

// UpdateDeviceIPAddress validates ip and stores it for device.
func (c *LocalClient) UpdateDeviceIPAddress(ctx context.Context, device *Device, ip string) error {
	if device == nil {
		return ErrDeviceNotFound
	}

	normalized, err := NormalizeIPAddress(ip)
	if err != nil {
		return err
	}

	if err := c.repo.UpdateIPAddress(ctx, device.DeviceID, normalized); err != nil {
		return fmt.Errorf("storing ip address for %s: %w", device.DeviceID, err)
	}

	c.mu.RLock()
	telemetry, refresher, logger := c.telemetry, c.refresher, c.logger
	c.mu.RUnlock()

	logger.Info("device ip address updated",
		"device_id", device.DeviceID,
		"previous", device.IPAddress,
		"current", normalized,
	)

	if telemetry != nil {
		telemetry.WriteIPAddressChange(device.DeviceID, device.IPAddress, normalized)
	}

	// The address is stored; a failed refresh only delays when reads see it.
	if refresher != nil {
		if err := refresher.Refresh(ctx); err != nil {
			logger.Warn("refresh after ip update failed", "device_id", device.DeviceID, "error", err)
		}
	}

	return nil
}
