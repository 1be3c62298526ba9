package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementIPChange = "googlehome_ip_change"
	MeasurementRefresh  = "googlehome_refresh"
)

// WriteIPAddressChange records a successful IP address edit for a device.
// A nil client or a disconnected one drops the point silently.
func (c *Client) WriteIPAddressChange(deviceID, previous, current string) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(ipChangePoint(deviceID, previous, current, time.Now()))
}

// WriteRefresh records the outcome of a coordinator refresh.
func (c *Client) WriteRefresh(coordinator string, devices int, success bool, duration time.Duration) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(refreshPoint(coordinator, devices, success, duration, time.Now()))
}

func ipChangePoint(deviceID, previous, current string, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementIPChange,
		map[string]string{"device_id": deviceID},
		map[string]interface{}{
			"previous": previous,
			"current":  current,
		},
		ts,
	)
}

func refreshPoint(coordinator string, devices int, success bool, duration time.Duration, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementRefresh,
		map[string]string{"coordinator": coordinator},
		map[string]interface{}{
			"devices":     devices,
			"success":     success,
			"duration_ms": duration.Milliseconds(),
		},
		ts,
	)
}
