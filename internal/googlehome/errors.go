package googlehome

import (
	"errors"

	"github.com/nerrad567/gray-logic-googlehome/internal/entity"
)

// Domain errors for the googlehome package.
//
//	if errors.Is(err, googlehome.ErrInvalidIPAddress) {
//	    // reject the edit
//	}
//
// Errors a text write can fail with also match an entity error class,
// so hosts can map them without knowing this package.
var (
	// ErrDeviceNotFound is returned when a device id does not exist, or when
	// an update is attempted for a device that has vanished.
	ErrDeviceNotFound error = &classifiedError{msg: "googlehome: device not found", class: entity.ErrTargetNotFound}

	// ErrInvalidDevice is returned when a device record fails validation.
	ErrInvalidDevice = errors.New("googlehome: invalid device")

	// ErrInvalidIPAddress is returned when a value is not an IPv4 or IPv6 address.
	ErrInvalidIPAddress error = &classifiedError{msg: "googlehome: invalid ip address", class: entity.ErrInvalidValue}

	// ErrEntryNotLoaded is returned when no runtime data exists for an entry id.
	ErrEntryNotLoaded = errors.New("googlehome: entry not loaded")

	// ErrEntryExists is returned when runtime data is stored twice for one entry id.
	ErrEntryExists = errors.New("googlehome: entry already loaded")
)

// classifiedError is a sentinel that unwraps to an entity error class.
type classifiedError struct {
	msg   string
	class error
}

func (e *classifiedError) Error() string { return e.msg }
func (e *classifiedError) Unwrap() error { return e.class }
