// Package rerr defines the sentinel errors returned across the request
// path (dataset resolution, request validation, serialization, storage).
// Callers compare against these with errors.Is; wrapped context is added
// with fmt.Errorf("...: %w", ...) at the point the error originates.
package rerr

import "errors"

var (
	// ErrInvalidRequest is returned for a malformed request: an empty
	// row or column, a non-positive num_versions, an argument
	// combination delete_row rejects, or a row/column containing a byte
	// the active key codec cannot encode.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownDataset is returned when a request names a dataset that
	// was not declared when the database was opened.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrNotOpen is returned by any operation performed on a database
	// that has already been closed.
	ErrNotOpen = errors.New("database is not open")

	// ErrSerialization wraps a failure from the configured value
	// serializer.
	ErrSerialization = errors.New("serialization failed")

	// ErrStorage wraps a failure from the underlying engine.
	ErrStorage = errors.New("storage failed")
)
