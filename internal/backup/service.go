package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/metrics"
	"github.com/dmitrijs2005/gophdiary/internal/models"
)

// Store is the part of the storage engine the service needs.
type Store interface {
	Snapshot(ctx context.Context) ([]models.Entry, models.Settings, error)
	ReplaceAll(ctx context.Context, list []models.Entry, patch *models.Settings) error
	SetLastBackupTimestamp(ctx context.Context, t time.Time) error
}

type Service struct {
	store Store
	log   logging.Logger
	rec   metrics.Recorder
	now   func() time.Time
}

func NewService(store Store, log logging.Logger, rec metrics.Recorder) *Service {
	if log == nil {
		log = logging.Discard()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{
		store: store,
		log:   log,
		rec:   rec,
		now:   time.Now,
	}
}

// Export writes a snapshot of everything to w and records the export time in
// settings once the write has succeeded.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	return s.export(ctx, func(data []byte) error {
		_, err := w.Write(data)
		return err
	})
}

// ExportTo stores a snapshot in sink under name.
func (s *Service) ExportTo(ctx context.Context, sink Sink, name string) error {
	return s.export(ctx, func(data []byte) error {
		return sink.Put(ctx, name, data)
	})
}

func (s *Service) export(ctx context.Context, deliver func([]byte) error) (err error) {
	defer func() { s.rec.RecordBackup("export", err) }()

	list, st, err := s.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	at := s.now().UTC()
	data, err := Encode(Snapshot{Entries: list, Settings: st, ExportDate: at})
	if err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	if err := deliver(data); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	if err := s.store.SetLastBackupTimestamp(ctx, at); err != nil {
		return fmt.Errorf("export: record timestamp: %w", err)
	}

	s.log.Info(ctx, "backup exported", "entries", len(list), "bytes", len(data))
	return nil
}

// Restore replaces all entries with the ones in r and merges the settings
// fields the document carries. A malformed document is rejected before
// anything is written.
func (s *Service) Restore(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		s.rec.RecordBackup("restore", err)
		return fmt.Errorf("restore: read: %w", err)
	}
	return s.restore(ctx, data)
}

// RestoreFrom restores the snapshot stored in src under name.
func (s *Service) RestoreFrom(ctx context.Context, src Source, name string) error {
	data, err := src.Get(ctx, name)
	if err != nil {
		s.rec.RecordBackup("restore", err)
		return fmt.Errorf("restore %s: %w", name, err)
	}
	return s.restore(ctx, data)
}

func (s *Service) restore(ctx context.Context, data []byte) (err error) {
	defer func() { s.rec.RecordBackup("restore", err) }()

	snap, err := Decode(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), s.now().UTC())
	if err != nil {
		s.log.Warn(ctx, "backup rejected", "error", err)
		return err
	}

	var patch *models.Settings
	if !snap.Settings.Empty() {
		patch = &snap.Settings
	}
	if err := s.store.ReplaceAll(ctx, snap.Entries, patch); err != nil {
		s.log.Error(ctx, "restore failed", "error", err)
		return fmt.Errorf("%w: %w", ErrRestoreFailed, err)
	}

	s.log.Info(ctx, "backup restored", "entries", len(snap.Entries), "exported_at", snap.ExportDate)
	return nil
}

// BackupName is the default object or file name for a backup taken at t.
func BackupName(t time.Time) string {
	return "diary-backup-" + t.UTC().Format("20060102-150405") + ".json"
}
