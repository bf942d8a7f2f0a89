package entries

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophdiary/internal/models"
)

var ErrNotFound = errors.New("entry not found")

// Repository describes CRUD and query operations for Entry objects.
type Repository interface {
	// Insert stores a new entry. The id must not exist yet.
	Insert(ctx context.Context, e *models.Entry) error

	// Update overwrites every mutable column of an existing entry.
	// The id and created_at columns are never written.
	Update(ctx context.Context, e *models.Entry) error

	// GetByID returns the normalized entry or ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Entry, error)

	// GetAll returns every entry, archived ones included, in no particular order.
	GetAll(ctx context.Context) ([]models.Entry, error)

	// Query returns entries matching f, ordered as f requests.
	Query(ctx context.Context, f Filter) ([]models.Entry, error)

	// Delete removes an entry. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// IDs lists every primary key.
	IDs(ctx context.Context) ([]string, error)
}
