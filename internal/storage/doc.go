// Package storage writes downloaded documents to the local output directory.
//
// Files are grouped in one sub-directory per form, named after the form slug
// (<output-dir>/<form-slug>/<file>). Writes overwrite any existing file with
// the same name. The default output location is the current directory.
package storage
