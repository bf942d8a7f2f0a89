package storage

import (
	"errors"

	"github.com/dmitrijs2005/gophdiary/internal/repositories/entries"
)

var (
	// ErrStorageUnavailable means the local storage substrate cannot be used
	// at all: the data directory cannot be created or the driver is missing.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInitializationFailed means the open/migrate/seed sequence failed.
	// Init may be retried.
	ErrInitializationFailed = errors.New("storage initialization failed")

	// ErrNotInitialized is returned by every operation invoked before Init.
	ErrNotInitialized = errors.New("storage not initialized")

	ErrEntryNotFound     = entries.ErrNotFound
	ErrInvalidTheme      = errors.New("invalid theme")
	ErrUnknownCollection = errors.New("unknown collection")
)
