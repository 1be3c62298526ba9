package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
integration:
  entry_id: "entry-1"
  poll_interval: 30
devices:
  - id: "kitchen-speaker"
    name: "Kitchen speaker"
    hardware: "Google Home Mini"
    ip_address: "192.168.1.20"
  - id: "office-display"
    name: "Office display"
    hardware: "Nest Hub"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8090
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Integration.EntryID != "entry-1" {
		t.Errorf("Integration.EntryID = %q, want %q", cfg.Integration.EntryID, "entry-1")
	}
	if got := cfg.GetPollInterval(); got != 30*time.Second {
		t.Errorf("GetPollInterval() = %v, want 30s", got)
	}
	if len(cfg.Devices) != 2 {
		t.Fatalf("len(Devices) = %d, want 2", len(cfg.Devices))
	}
	if cfg.Devices[0].IPAddress != "192.168.1.20" {
		t.Errorf("Devices[0].IPAddress = %q, want %q", cfg.Devices[0].IPAddress, "192.168.1.20")
	}
	if cfg.Devices[1].IPAddress != "" {
		t.Errorf("Devices[1].IPAddress = %q, want empty", cfg.Devices[1].IPAddress)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Integration.EntryID != "google_home" {
		t.Errorf("Integration.EntryID = %q, want default", cfg.Integration.EntryID)
	}
	if cfg.API.Port != 8090 {
		t.Errorf("API.Port = %d, want 8090", cfg.API.Port)
	}
	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = false, want true by default")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GOOGLEHOME_DATABASE_PATH", "/var/lib/googlehome.db")
	t.Setenv("GOOGLEHOME_API_PORT", "9000")
	t.Setenv("GOOGLEHOME_POLL_INTERVAL", "15")
	t.Setenv("GOOGLEHOME_MQTT_HOST", "broker.local")

	cfg, err := Load(writeConfig(t, "database:\n  path: /tmp/other.db\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/var/lib/googlehome.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.Integration.PollInterval != 15 {
		t.Errorf("Integration.PollInterval = %d, want 15", cfg.Integration.PollInterval)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want broker.local", cfg.MQTT.Broker.Host)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Devices = []DeviceConfig{{ID: "a", Name: "A", IPAddress: "10.0.0.1"}}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "empty entry id",
			mutate:  func(c *Config) { c.Integration.EntryID = "" },
			wantErr: "integration.entry_id",
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.Integration.PollInterval = 0 },
			wantErr: "integration.poll_interval",
		},
		{
			name:    "device without id",
			mutate:  func(c *Config) { c.Devices = append(c.Devices, DeviceConfig{Name: "nameless"}) },
			wantErr: "devices[1].id is required",
		},
		{
			name:    "duplicate device id",
			mutate:  func(c *Config) { c.Devices = append(c.Devices, DeviceConfig{ID: "a"}) },
			wantErr: "duplicated",
		},
		{
			name:    "invalid seeded ip",
			mutate:  func(c *Config) { c.Devices[0].IPAddress = "not-an-ip" },
			wantErr: "not a valid IP address",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: "api.port",
		},
		{
			name: "influxdb enabled without url",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.URL = ""
			},
			wantErr: "influxdb.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Timeouts(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.API.Timeouts.GetReadTimeout(); got != 30*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 30s", got)
	}
	if got := cfg.API.Timeouts.GetWriteTimeout(); got != 30*time.Second {
		t.Errorf("GetWriteTimeout() = %v, want 30s", got)
	}
	if got := cfg.API.Timeouts.GetIdleTimeout(); got != 60*time.Second {
		t.Errorf("GetIdleTimeout() = %v, want 60s", got)
	}
}
