package entity

import "errors"

// Errors returned by the entity registry.
//
//	if errors.Is(err, entity.ErrEntityNotFound) {
//	    // unknown unique id
//	}
var (
	// ErrEntityNotFound is returned when a unique id is not registered.
	ErrEntityNotFound = errors.New("entity: not found")

	// ErrDuplicateUniqueID is returned when adding an entity whose unique id is already registered.
	ErrDuplicateUniqueID = errors.New("entity: duplicate unique id")

	// ErrNotTextEntity is returned when a text service call targets a non-text entity.
	ErrNotTextEntity = errors.New("entity: not a text entity")

	// ErrValueOutOfRange is returned when a text value's length falls outside the entity's bounds.
	ErrValueOutOfRange = errors.New("entity: value length out of range")

	// ErrInvalidValue is wrapped by integration errors that reject a written value.
	ErrInvalidValue = errors.New("entity: invalid value")

	// ErrTargetNotFound is wrapped by integration errors for a vanished backing device.
	ErrTargetNotFound = errors.New("entity: target not found")
)
