package coordinator

import "errors"

var (
	// ErrUpdateFailed wraps a failed fetch.
	ErrUpdateFailed = errors.New("coordinator: update failed")

	// ErrNotReady is returned by FirstRefresh when the initial fetch fails.
	ErrNotReady = errors.New("coordinator: not ready")

	// ErrAlreadyRunning is returned by Start when the polling loop is active.
	ErrAlreadyRunning = errors.New("coordinator: already running")
)
