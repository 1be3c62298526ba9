package googlehome

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository defines persistence for discovered devices.
type Repository interface {
	// List returns all devices ordered by name, then id.
	List(ctx context.Context) ([]Device, error)

	// GetByID returns ErrDeviceNotFound if the device does not exist.
	GetByID(ctx context.Context, id string) (*Device, error)

	// Upsert inserts the device or replaces its name, hardware and address.
	Upsert(ctx context.Context, d *Device) error

	// UpdateIPAddress sets only the address. An empty ip clears it.
	UpdateIPAddress(ctx context.Context, id, ip string) error

	// Delete removes a device by id.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository over an open, migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectDevices = `
	SELECT id, name, hardware, ip_address, created_at, updated_at
	FROM googlehome_devices`

// List returns all devices ordered by name, then id.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, selectDevices+` ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// GetByID retrieves a device by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	row := r.db.QueryRowContext(ctx, selectDevices+` WHERE id = ?`, id)
	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return d, nil
}

// Upsert inserts or updates a device. CreatedAt is kept on update.
func (r *SQLiteRepository) Upsert(ctx context.Context, d *Device) error {
	if err := d.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	query := `
		INSERT INTO googlehome_devices (id, name, hardware, ip_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			hardware = excluded.hardware,
			ip_address = excluded.ip_address,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		d.DeviceID,
		d.Name,
		d.Hardware,
		nullableString(d.IPAddress),
		d.CreatedAt.Format(time.RFC3339),
		d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting device: %w", err)
	}
	return nil
}

// UpdateIPAddress sets the address of an existing device.
func (r *SQLiteRepository) UpdateIPAddress(ctx context.Context, id, ip string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE googlehome_devices SET ip_address = ?, updated_at = ? WHERE id = ?`,
		nullableString(ip),
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating ip address: %w", err)
	}
	return requireOneRow(result)
}

// Delete removes a device by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM googlehome_devices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}
	return requireOneRow(result)
}

func requireOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(scanner rowScanner) (*Device, error) {
	var d Device
	var ip sql.NullString
	var createdAt, updatedAt string

	if err := scanner.Scan(&d.DeviceID, &d.Name, &d.Hardware, &ip, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if ip.Valid {
		d.IPAddress = ip.String
	}
	// Unparseable timestamps leave the zero time; the record is still usable.
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // see above
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // see above

	return &d, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
