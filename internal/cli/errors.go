package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/backup"
	"github.com/dmitrijs2005/gophdiary/internal/config"
	"github.com/dmitrijs2005/gophdiary/internal/models"
	"github.com/dmitrijs2005/gophdiary/internal/storage"
)

const (
	ExitCodeSuccess       = 0
	ExitCodeGeneric       = 1
	ExitCodeUsage         = 2
	ExitCodeNotFound      = 3
	ExitCodeInvalidBackup = 4
	ExitCodeStorage       = 5
)

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

func asExitError(code int, err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}
	return &ExitError{Code: code, Err: err}
}

func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrEntryNotFound), errors.Is(err, backup.ErrBackupNotFound):
		return asExitError(ExitCodeNotFound, err)
	case errors.Is(err, backup.ErrInvalidBackupFormat):
		return asExitError(ExitCodeInvalidBackup, err)
	case errors.Is(err, storage.ErrStorageUnavailable), errors.Is(err, storage.ErrInitializationFailed):
		return asExitError(ExitCodeStorage, err)
	case errors.Is(err, storage.ErrInvalidTheme),
		errors.Is(err, models.ErrUnknownTheme),
		errors.Is(err, storage.ErrUnknownCollection),
		errors.Is(err, config.ErrInvalidConfig):
		return asExitError(ExitCodeUsage, err)
	}
	return asExitError(ExitCodeGeneric, err)
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{
		Code: ExitCodeUsage,
		Err:  fmt.Errorf(format, args...),
	}
}

// ExitCode extracts the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return withExit.ExitCode()
	}
	return ExitCodeGeneric
}
