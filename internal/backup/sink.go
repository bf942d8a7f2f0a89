package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophdiary/internal/filex"
)

var ErrBackupNotFound = errors.New("backup not found")

type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
}

type Source interface {
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// FileSink keeps backups as files in one directory.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) (*FileSink, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("backup dir: %w", err)
	}
	return &FileSink{dir: abs}, nil
}

func (f *FileSink) Dir() string {
	return f.dir
}

func (f *FileSink) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid backup name %q", name)
	}
	return filepath.Join(f.dir, name), nil
}

func (f *FileSink) Put(ctx context.Context, name string, data []byte) error {
	p, err := f.path(name)
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(p, data, 0o600)
}

func (f *FileSink) Get(ctx context.Context, name string) ([]byte, error) {
	p, err := f.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, name)
	}
	return data, err
}

// List returns the names of the .json files in the directory, oldest name first.
func (f *FileSink) List(ctx context.Context) ([]string, error) {
	des, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, de := range des {
		if de.Type().IsRegular() && strings.HasSuffix(de.Name(), ".json") {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
