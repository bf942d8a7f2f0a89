// Package backup serializes the whole diary to a portable JSON document and
// restores it, either through an io.Writer/io.Reader or a named Sink/Source
// (a local directory or an S3 bucket).
package backup
