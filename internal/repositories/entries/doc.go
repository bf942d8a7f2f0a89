// Package entries provides the persistence layer for diary entries.
//
// # Overview
//
// The package defines a Repository interface for CRUD and query operations on
// models.Entry. The SQLite implementation (SQLiteRepository) builds its SQL
// with squirrel and scans rows with sqlx through a dbx.DBTX, so the same
// repository works against the pool or inside a transaction.
//
// # Normalization
//
// Rows are scanned into a nullable raw shape first and converted to
// models.Entry by a normalization pass: stored timestamps are parsed back to
// time.Time, NULL flags (rows written before the flag columns existed) read as
// false, and a NULL or unreadable edit history reads as an empty slice.
//
// # Concurrency
//
// Safe for concurrent use when backed by *sqlx.DB. When bound to *sqlx.Tx,
// follow normal transaction scoping rules.
//
// Typical Usage
//
//	repo := entries.NewSQLiteRepository(tx)
//	_ = repo.Insert(ctx, &entry)
//	one, _ := repo.GetByID(ctx, id)
//	list, _ := repo.Query(ctx, entries.Filter{Starred: models.Ptr(true)})
//	_ = repo.Delete(ctx, id)
package entries
