package googlehome

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-googlehome/internal/infrastructure/config"
)

// SeedResult counts what Seed changed.
type SeedResult struct {
	Inserted int
	Updated  int
	Removed  int
}

// Seed makes the repository match the configured device list.
//
// The configuration is the discovery list: new devices are inserted, devices
// no longer configured are deleted. Existing devices take the configured
// name and hardware but keep a stored IP address, so edits made at runtime
// survive a restart.
func Seed(ctx context.Context, repo Repository, devices []config.DeviceConfig) (SeedResult, error) {
	var res SeedResult
	configured := make(map[string]struct{}, len(devices))

	for _, dc := range devices {
		configured[dc.ID] = struct{}{}
		d := Device{
			DeviceID:  dc.ID,
			Name:      dc.Name,
			Hardware:  dc.Hardware,
			IPAddress: dc.IPAddress,
		}

		existing, err := repo.GetByID(ctx, dc.ID)
		isNew := errors.Is(err, ErrDeviceNotFound)
		if err != nil && !isNew {
			return res, fmt.Errorf("seeding device %s: %w", dc.ID, err)
		}
		if !isNew {
			d.CreatedAt = existing.CreatedAt
			if existing.IPAddress != "" {
				d.IPAddress = existing.IPAddress
			}
		}

		if err := repo.Upsert(ctx, &d); err != nil {
			return res, fmt.Errorf("seeding device %s: %w", dc.ID, err)
		}
		if isNew {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	stored, err := repo.List(ctx)
	if err != nil {
		return res, fmt.Errorf("listing stored devices: %w", err)
	}
	for _, d := range stored {
		if _, ok := configured[d.DeviceID]; ok {
			continue
		}
		if err := repo.Delete(ctx, d.DeviceID); err != nil {
			return res, fmt.Errorf("removing device %s: %w", d.DeviceID, err)
		}
		res.Removed++
	}
	return res, nil
}
