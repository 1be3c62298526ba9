package googlehome

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-googlehome/internal/coordinator"
	"github.com/nerrad567/gray-logic-googlehome/internal/entity"
)

func TestIPAddressTextEntity_NativeValue(t *testing.T) {
	tests := []struct {
		name    string
		devices []Device
		want    string
	}{
		{"address present", []Device{{DeviceID: "abc", IPAddress: "192.168.1.20"}}, "192.168.1.20"},
		{"ipv6 address", []Device{{DeviceID: "abc", IPAddress: "fe80::1"}}, "fe80::1"},
		{"empty address", []Device{{DeviceID: "abc"}}, UnknownIPAddress},
		{"device gone", []Device{{DeviceID: "other", IPAddress: "10.0.0.1"}}, UnknownIPAddress},
		{"no devices", nil, UnknownIPAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewIPAddressTextEntity(newStaticSource(tt.devices...), &mockClient{}, "abc", "Kitchen", "Nest Mini")

			if got := e.NativeValue(); got != tt.want {
				t.Errorf("NativeValue() = %q, want %q", got, tt.want)
			}
			if got := e.State(); got != tt.want {
				t.Errorf("State() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPAddressTextEntity_TracksCoordinatorData(t *testing.T) {
	source := newStaticSource(Device{DeviceID: "abc", IPAddress: "10.0.0.1"})
	e := NewIPAddressTextEntity(source, &mockClient{}, "abc", "Kitchen", "Nest Mini")

	source.set(Device{DeviceID: "abc", IPAddress: "10.0.0.2"})
	if got := e.NativeValue(); got != "10.0.0.2" {
		t.Errorf("NativeValue() = %q after data change, want 10.0.0.2", got)
	}

	source.set()
	if got := e.NativeValue(); got != UnknownIPAddress {
		t.Errorf("NativeValue() = %q after device removal, want Unknown", got)
	}
}

func TestIPAddressTextEntity_Metadata(t *testing.T) {
	e := NewIPAddressTextEntity(newStaticSource(), &mockClient{}, "abc123", "Kitchen", "Nest Mini")

	if e.UniqueID() != "abc123_ip_address" {
		t.Errorf("UniqueID() = %q", e.UniqueID())
	}
	if e.Name() != "IP Address" || e.Label() != "IP Address" {
		t.Errorf("Name() = %q, Label() = %q", e.Name(), e.Label())
	}
	if e.Mode() != entity.TextModeText {
		t.Errorf("Mode() = %q", e.Mode())
	}
	if e.Icon() != "mdi:form-textbox-password" {
		t.Errorf("Icon() = %q", e.Icon())
	}
	if e.EntityCategory() != entity.CategoryConfig {
		t.Errorf("EntityCategory() = %q", e.EntityCategory())
	}
	if !e.EnabledByDefault() {
		t.Error("EnabledByDefault() = false")
	}
	if e.NativeMin() != 0 || e.NativeMax() != 255 || e.Pattern() != "" {
		t.Errorf("constraints = %d/%d/%q", e.NativeMin(), e.NativeMax(), e.Pattern())
	}

	info := e.DeviceInfo()
	if len(info.Identifiers) != 1 || info.Identifiers[0] != [2]string{"google_home", "abc123"} {
		t.Errorf("Identifiers = %v", info.Identifiers)
	}
	if info.Name != "Google Home Kitchen" || info.Manufacturer != "Google" || info.Model != "Nest Mini" {
		t.Errorf("DeviceInfo() = %+v", info)
	}
}

func TestIPAddressTextEntity_ExtraStateAttributes(t *testing.T) {
	source := newStaticSource(Device{DeviceID: "abc", Name: "Renamed", IPAddress: "10.0.0.1"})
	e := NewIPAddressTextEntity(source, &mockClient{}, "abc", "Kitchen", "Nest Mini")

	attrs := e.ExtraStateAttributes()
	want := map[string]string{"device_id": "abc", "device_name": "Kitchen", "editable": "true"}
	if len(attrs) != len(want) {
		t.Fatalf("ExtraStateAttributes() = %v, want %v", attrs, want)
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attrs[%q] = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestIPAddressTextEntity_Available(t *testing.T) {
	source := newStaticSource()
	e := NewIPAddressTextEntity(source, &mockClient{}, "abc", "Kitchen", "")

	if !e.Available() {
		t.Error("Available() = false with successful coordinator")
	}
	source.ok = false
	if e.Available() {
		t.Error("Available() = true after failed refresh")
	}
}

func TestIPAddressTextEntity_SetValue(t *testing.T) {
	device := Device{DeviceID: "abc", Name: "Kitchen", Hardware: "Nest Mini", IPAddress: "10.0.0.1"}
	client := &mockClient{}
	e := NewIPAddressTextEntity(newStaticSource(device), client, "abc", "Kitchen", "Nest Mini")

	if err := e.SetValue(context.Background(), "10.0.0.2"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	if len(client.calls) != 1 {
		t.Fatalf("client calls = %d, want 1", len(client.calls))
	}
	call := client.calls[0]
	if call.ip != "10.0.0.2" {
		t.Errorf("client ip = %q, want 10.0.0.2", call.ip)
	}
	if call.device == nil || *call.device != device {
		t.Errorf("client device = %+v, want %+v", call.device, device)
	}
}

func TestIPAddressTextEntity_SetValuePassesValueUnvalidated(t *testing.T) {
	client := &mockClient{}
	e := NewIPAddressTextEntity(newStaticSource(Device{DeviceID: "abc"}), client, "abc", "Kitchen", "")

	if err := e.SetValue(context.Background(), "not an address"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if len(client.calls) != 1 || client.calls[0].ip != "not an address" {
		t.Errorf("client calls = %+v", client.calls)
	}
}

func TestIPAddressTextEntity_SetValueErrorUnchanged(t *testing.T) {
	clientErr := errors.New("cloud rejected update")
	client := &mockClient{err: clientErr}
	e := NewIPAddressTextEntity(newStaticSource(Device{DeviceID: "abc"}), client, "abc", "Kitchen", "")

	err := e.SetValue(context.Background(), "10.0.0.2")
	if err != clientErr { //nolint:errorlint // identity is the property under test
		t.Errorf("SetValue() error = %v, want the client's error unchanged", err)
	}
	if len(client.calls) != 1 {
		t.Errorf("client calls = %d, want exactly 1 (no retry)", len(client.calls))
	}
}

func TestIPAddressTextEntity_SetValueVanishedDevice(t *testing.T) {
	client := &mockClient{}
	e := NewIPAddressTextEntity(newStaticSource(), client, "abc", "Kitchen", "")

	_ = e.SetValue(context.Background(), "10.0.0.2")
	if len(client.calls) != 1 || client.calls[0].device != nil {
		t.Errorf("client calls = %+v, want one call with nil device", client.calls)
	}
}

func newTestStore(t *testing.T, devices ...Device) *Store {
	t.Helper()

	coord := coordinator.New("test", 0, func(context.Context) ([]Device, error) {
		return devices, nil
	})
	if err := coord.FirstRefresh(context.Background()); err != nil {
		t.Fatalf("FirstRefresh() error = %v", err)
	}

	store := NewStore()
	if err := store.Put("entry", &RuntimeData{Client: &mockClient{}, Coordinator: coord}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	return store
}

func TestSetupTextEntry(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("%d devices", n), func(t *testing.T) {
			devices := make([]Device, n)
			for i := range devices {
				devices[i] = Device{DeviceID: fmt.Sprintf("dev%d", i), Name: fmt.Sprintf("Speaker %d", i)}
			}
			store := newTestStore(t, devices...)

			var added []entity.Entity
			calls := 0
			ok, err := SetupTextEntry(store, "entry", func(entities []entity.Entity) {
				calls++
				added = entities
			})
			if err != nil || !ok {
				t.Fatalf("SetupTextEntry() = %v, %v", ok, err)
			}

			if calls != 1 {
				t.Errorf("add called %d times, want 1", calls)
			}
			if len(added) != n {
				t.Fatalf("added %d entities, want %d", len(added), n)
			}
			for i, e := range added {
				want := fmt.Sprintf("dev%d_ip_address", i)
				if e.UniqueID() != want {
					t.Errorf("entity %d unique id = %q, want %q", i, e.UniqueID(), want)
				}
				if e.ExtraStateAttributes()["device_name"] != devices[i].Name {
					t.Errorf("entity %d device_name = %q", i, e.ExtraStateAttributes()["device_name"])
				}
			}
		})
	}
}

func TestSetupTextEntry_EntryNotLoaded(t *testing.T) {
	ok, err := SetupTextEntry(NewStore(), "missing", func([]entity.Entity) {
		t.Error("add called for unknown entry")
	})
	if ok || !errors.Is(err, ErrEntryNotLoaded) {
		t.Errorf("SetupTextEntry() = %v, %v, want false, ErrEntryNotLoaded", ok, err)
	}
}

// TestEndToEnd wires repository, client, coordinator and registry together.
func TestEndToEnd(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &Device{DeviceID: "abc", Name: "Kitchen", Hardware: "Nest Mini"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	client := NewLocalClient(repo)
	coord := coordinator.New("google_home", time.Hour, client.FetchDevices)
	client.SetRefresher(coord)
	if err := coord.FirstRefresh(ctx); err != nil {
		t.Fatalf("FirstRefresh() error = %v", err)
	}

	store := NewStore()
	if err := store.Put("entry", &RuntimeData{Client: client, Coordinator: coord}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	registry := entity.NewRegistry()
	if _, err := SetupTextEntry(store, "entry", registry.AddEntities); err != nil {
		t.Fatalf("SetupTextEntry() error = %v", err)
	}

	e, err := registry.Get("abc_ip_address")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if e.State() != UnknownIPAddress {
		t.Errorf("initial state = %q, want Unknown", e.State())
	}

	if err := registry.SetTextValue(ctx, "abc_ip_address", "192.168.1.44"); err != nil {
		t.Fatalf("SetTextValue() error = %v", err)
	}
	if e.State() != "192.168.1.44" {
		t.Errorf("state after set = %q, want 192.168.1.44", e.State())
	}

	err = registry.SetTextValue(ctx, "abc_ip_address", "bogus")
	if !errors.Is(err, ErrInvalidIPAddress) {
		t.Errorf("SetTextValue(bogus) error = %v, want ErrInvalidIPAddress", err)
	}
	if e.State() != "192.168.1.44" {
		t.Errorf("state changed after failed set: %q", e.State())
	}
}
