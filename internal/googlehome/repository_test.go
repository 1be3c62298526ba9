package googlehome

import (
	"context"
	"errors"
	"testing"
)

func TestSQLiteRepository_UpsertAndGet(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	d := &Device{DeviceID: "abc", Name: "Kitchen", Hardware: "Nest Mini", IPAddress: "192.168.1.20"}
	if err := repo.Upsert(ctx, d); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Error("Upsert() did not set timestamps")
	}

	got, err := repo.GetByID(ctx, "abc")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Kitchen" || got.Hardware != "Nest Mini" || got.IPAddress != "192.168.1.20" {
		t.Errorf("GetByID() = %+v", got)
	}

	d.Name = "Kitchen Speaker"
	d.IPAddress = ""
	if err := repo.Upsert(ctx, d); err != nil {
		t.Fatalf("Upsert(update) error = %v", err)
	}
	got, _ = repo.GetByID(ctx, "abc")
	if got.Name != "Kitchen Speaker" || got.IPAddress != "" {
		t.Errorf("after update = %+v", got)
	}
}

func TestSQLiteRepository_GetByIDNotFound(t *testing.T) {
	repo := openTestRepo(t)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetByID() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestSQLiteRepository_UpsertValidation(t *testing.T) {
	repo := openTestRepo(t)

	tests := []struct {
		name    string
		device  Device
		wantErr error
	}{
		{"missing id", Device{Name: "x"}, ErrInvalidDevice},
		{"missing name", Device{DeviceID: "x"}, ErrInvalidDevice},
		{"bad ip", Device{DeviceID: "x", Name: "x", IPAddress: "999.1.1.1"}, ErrInvalidIPAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Upsert(context.Background(), &tt.device); !errors.Is(err, tt.wantErr) {
				t.Errorf("Upsert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSQLiteRepository_ListOrder(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, d := range []Device{
		{DeviceID: "3", Name: "Office"},
		{DeviceID: "1", Name: "Bedroom"},
		{DeviceID: "2", Name: "Bedroom"},
	} {
		if err := repo.Upsert(ctx, &d); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	devices, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var ids []string
	for _, d := range devices {
		ids = append(ids, d.DeviceID)
	}
	if len(ids) != 3 || ids[0] != "1" || ids[1] != "2" || ids[2] != "3" {
		t.Errorf("List() order = %v, want [1 2 3]", ids)
	}
}

func TestSQLiteRepository_ListEmpty(t *testing.T) {
	repo := openTestRepo(t)

	devices, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("List() = %d devices, want 0", len(devices))
	}
}

func TestSQLiteRepository_UpdateIPAddress(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &Device{DeviceID: "abc", Name: "Lounge"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := repo.UpdateIPAddress(ctx, "abc", "10.0.0.9"); err != nil {
		t.Fatalf("UpdateIPAddress() error = %v", err)
	}
	got, _ := repo.GetByID(ctx, "abc")
	if got.IPAddress != "10.0.0.9" {
		t.Errorf("IPAddress = %q, want 10.0.0.9", got.IPAddress)
	}

	if err := repo.UpdateIPAddress(ctx, "missing", "10.0.0.9"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("UpdateIPAddress(missing) error = %v, want ErrDeviceNotFound", err)
	}
}

func TestSQLiteRepository_Delete(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &Device{DeviceID: "abc", Name: "Lounge"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "abc"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("second Delete() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestNormalizeIPAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"192.168.1.20", "192.168.1.20", false},
		{" 10.0.0.1 ", "10.0.0.1", false},
		{"FE80::0001", "fe80::1", false},
		{"", "", true},
		{"Unknown", "", true},
		{"192.168.1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeIPAddress(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeIPAddress(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidIPAddress) {
				t.Errorf("error = %v, want ErrInvalidIPAddress", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeIPAddress(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
