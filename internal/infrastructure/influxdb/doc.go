// Package influxdb records Google Home bridge telemetry in InfluxDB.
//
// It wraps influxdb-client-go v2 with a non-blocking, batched write API and
// two domain measurements:
//
//   - googlehome_ip_change: one point per successful IP address edit
//   - googlehome_refresh: one point per coordinator refresh
//
// InfluxDB is optional; when influxdb.enabled is false Connect returns
// ErrDisabled and callers run without telemetry.
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	client.WriteIPAddressChange("abc123", "192.168.1.20", "192.168.1.21")
package influxdb
