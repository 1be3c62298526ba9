package googlehome

import (
	"context"
	"sync"
	"testing"

	"github.com/nerrad567/gray-logic-googlehome/internal/infrastructure/database"
	_ "github.com/nerrad567/gray-logic-googlehome/migrations" // registers the schema
)

// openTestRepo returns a repository over a migrated in-memory database.
func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{Path: ":memory:", BusyTimeout: 1})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close() //nolint:errcheck // Test cleanup
	})

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

// staticSource is a DeviceSource with fixed data.
type staticSource struct {
	mu      sync.Mutex
	devices []Device
	ok      bool
}

func newStaticSource(devices ...Device) *staticSource {
	return &staticSource{devices: devices, ok: true}
}

func (s *staticSource) Data() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devices
}

func (s *staticSource) LastUpdateSuccess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ok
}

func (s *staticSource) set(devices ...Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = devices
}

// clientCall records one UpdateDeviceIPAddress invocation.
type clientCall struct {
	device *Device
	ip     string
}

// mockClient records calls and returns err.
type mockClient struct {
	mu    sync.Mutex
	calls []clientCall
	err   error
}

func (m *mockClient) UpdateDeviceIPAddress(_ context.Context, device *Device, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, clientCall{device: device, ip: ip})
	return m.err
}

// recordingTelemetry records IP change events.
type recordingTelemetry struct {
	mu     sync.Mutex
	events [][3]string
}

func (r *recordingTelemetry) WriteIPAddressChange(deviceID, previous, current string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, [3]string{deviceID, previous, current})
}

// countingRefresher counts refreshes and returns err.
type countingRefresher struct {
	count int
	err   error
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.count++
	return c.err
}
