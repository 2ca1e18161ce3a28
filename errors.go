package epubconv

import "errors"

// Sentinel errors returned by the epubconv package.
var (
	// ErrNoInput indicates no archive bytes (or a nil reader) were supplied.
	ErrNoInput = errors.New("epubconv: no EPUB bytes provided")

	// ErrInvalidArchive indicates the input is not a readable ZIP container.
	ErrInvalidArchive = errors.New("epubconv: invalid ZIP archive")

	// ErrFileNotFound indicates the requested file does not exist
	// in the ePub archive.
	ErrFileNotFound = errors.New("epubconv: file not found in archive")

	// ErrInvalidDocument indicates a Document handle is invalid
	// (for example, a zero-value Document without an associated Book).
	ErrInvalidDocument = errors.New("epubconv: invalid document handle")
)
