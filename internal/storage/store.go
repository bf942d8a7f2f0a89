package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/filex"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/metrics"
	"github.com/dmitrijs2005/gophdiary/internal/migrations"
	"github.com/dmitrijs2005/gophdiary/internal/models"
	"github.com/dmitrijs2005/gophdiary/internal/repositories/settings"
	"github.com/dmitrijs2005/gophdiary/internal/wordcount"

	_ "modernc.org/sqlite"
)

const (
	// DBFileName is the fixed database name inside the data directory.
	DBFileName    = "diary.db"
	defaultDriver = "sqlite"
	dsnParams     = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate"
)

// Options configures a Store. Only Dir is required.
type Options struct {
	Dir          string
	Driver       string
	MaxOpenConns int
	Logger       logging.Logger
	Recorder     metrics.Recorder
	Now          func() time.Time
	WordCount    func(string) int
}

// Store owns the database handle and both collections.
type Store struct {
	mu   sync.RWMutex
	db   *sqlx.DB
	path string

	dir          string
	driver       string
	maxOpenConns int
	log          logging.Logger
	rec          metrics.Recorder
	now          func() time.Time
	count        func(string) int
	newID        func() (string, error)
}

// New builds an uninitialized Store. It performs no I/O.
func New(opts Options) *Store {
	s := &Store{
		dir:          opts.Dir,
		driver:       opts.Driver,
		maxOpenConns: opts.MaxOpenConns,
		log:          opts.Logger,
		rec:          opts.Recorder,
		now:          opts.Now,
		count:        opts.WordCount,
		newID:        newEntryID,
	}
	if s.driver == "" {
		s.driver = defaultDriver
	}
	if s.maxOpenConns <= 0 {
		s.maxOpenConns = 4
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.rec == nil {
		s.rec = metrics.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.count == nil {
		s.count = wordcount.Count
	}
	return s
}

func newEntryID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Init opens the database, migrates it to the latest schema and ensures the
// settings record exists. Calling Init on an initialized Store is a no-op.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if s.dir == "" {
		return fmt.Errorf("%w: data directory is not configured", ErrStorageUnavailable)
	}
	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	path := filepath.Join(dir, DBFileName)

	db, err := sqlx.Open(s.driver, path+"?"+dsnParams)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)

	version, err := s.bootstrap(ctx, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: %w", ErrInitializationFailed, err)
	}

	s.db, s.path = db, path
	s.log.Info(ctx, "storage initialized", "path", path, "schema_version", version)
	return nil
}

func (s *Store) bootstrap(ctx context.Context, db *sqlx.DB) (int64, error) {
	if err := db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("open %s: %w", s.dir, err)
	}

	version, err := runMigrations(ctx, db.DB)
	if err != nil {
		return 0, err
	}

	if err := s.ensureSettings(ctx, db); err != nil {
		return 0, err
	}
	return version, nil
}

// runMigrations applies every pending migration and returns the resulting
// schema version.
func runMigrations(ctx context.Context, db *sql.DB) (int64, error) {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	return p.GetDBVersion(ctx)
}

func (s *Store) ensureSettings(ctx context.Context, db *sqlx.DB) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		cur, err := repo.Load(ctx)
		if err != nil {
			s.log.Warn(ctx, "settings record unreadable, resetting to defaults", "err", err)
		} else if cur != nil {
			return nil
		}
		if err := repo.Save(ctx, models.DefaultSettings()); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
		return nil
	})
}

// SchemaVersion reports the applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0, ErrNotInitialized
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, s.db.DB, migrations.Migrations)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

// Path returns the database file path, or "" before Init.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Close releases the database handle. The Store may be initialized again.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db, s.path = nil, ""
	return err
}

// run executes fn in one transaction and records the outcome under op.
func (s *Store) run(ctx context.Context, op string, fn func(ctx context.Context, tx dbx.DBTX) error) (err error) {
	start := time.Now()
	defer func() { s.rec.ObserveOperation(op, err, time.Since(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrNotInitialized
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

func laterOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}
