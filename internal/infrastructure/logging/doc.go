// Package logging provides structured logging for the Google Home bridge.
//
// It wraps the standard log/slog package so that every component logs with
// the same handler, level filter and default fields (service, version).
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Component("coordinator").Info("refreshed", "devices", 3)
//
// Never log MQTT passwords or InfluxDB tokens.
package logging
