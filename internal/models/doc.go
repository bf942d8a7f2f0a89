// Package models defines the diary data model shared by the storage engine,
// the backup codec and the CLI: entries with their edit history, and the
// singleton settings record.
package models
