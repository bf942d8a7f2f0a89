package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/gophdiary/internal/backup"
	"github.com/dmitrijs2005/gophdiary/internal/config"
	"github.com/dmitrijs2005/gophdiary/internal/storage"
)

func TestMapCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("get entry x: %w", storage.ErrEntryNotFound), ExitCodeNotFound},
		{"backup not found", fmt.Errorf("restore: %w", backup.ErrBackupNotFound), ExitCodeNotFound},
		{"invalid backup", fmt.Errorf("%w: diaries must be an array", backup.ErrInvalidBackupFormat), ExitCodeInvalidBackup},
		{"restore failed", fmt.Errorf("%w: %w", backup.ErrRestoreFailed, errors.New("disk I/O error")), ExitCodeGeneric},
		{"unavailable", fmt.Errorf("%w: mkdir", storage.ErrStorageUnavailable), ExitCodeStorage},
		{"init failed", fmt.Errorf("%w: migrate", storage.ErrInitializationFailed), ExitCodeStorage},
		{"not initialized", storage.ErrNotInitialized, ExitCodeGeneric},
		{"theme", fmt.Errorf("%w: sepia", storage.ErrInvalidTheme), ExitCodeUsage},
		{"collection", storage.ErrUnknownCollection, ExitCodeUsage},
		{"config", config.ErrInvalidConfig, ExitCodeUsage},
		{"other", errors.New("boom"), ExitCodeGeneric},
		{"already mapped", &ExitError{Code: 42, Err: errors.New("x")}, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapCommandError(tt.err)
			assert.Equal(t, tt.want, ExitCode(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestMapCommandError_Nil(t *testing.T) {
	assert.NoError(t, mapCommandError(nil))
	assert.Equal(t, ExitCodeSuccess, ExitCode(nil))
}

func TestExitError_NilSafe(t *testing.T) {
	var e *ExitError
	assert.Equal(t, "", e.Error())
	assert.Nil(t, e.Unwrap())
	assert.Equal(t, ExitCodeGeneric, e.ExitCode())
}

func TestUsageErrorf(t *testing.T) {
	err := usageErrorf("bad %s", "thing")
	assert.EqualError(t, err, "bad thing")
	assert.Equal(t, ExitCodeUsage, ExitCode(err))
}
