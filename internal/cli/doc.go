// Package cli implements the diary command line.
//
// Every command resolves configuration (see package config), opens the
// store, runs under the configured timeout and closes the store again.
// Errors are mapped to exit codes:
//
//	1  anything else
//	2  usage: bad flags, arguments, theme or collection names
//	3  entry or backup not found
//	4  backup file is not a valid snapshot
//	5  storage unavailable or initialization failed
//
// "diary shell" keeps one store open and runs the same commands from a REPL.
package cli
