package services

import (
	"errors"
	"fmt"
)

// Notification-path error kinds. Callers branch with errors.Is; the scheduling
// workflow treats every one of these as non-fatal.
var (
	// ErrPermissionDenied: the user declined notification permission.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrTokenUnavailable: the push provider could not issue a token.
	ErrTokenUnavailable = errors.New("device token unavailable")

	// ErrStorage: a read/write on device_tokens or notifications failed.
	ErrStorage = errors.New("storage error")

	// ErrProvider: the external notification send failed (network, auth, quota).
	ErrProvider = errors.New("provider error")
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

func providerErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrProvider, op, err)
}
