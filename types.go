package epubconv

// Metadata holds the Dublin Core values read from the package document.
type Metadata struct {
	// Title is the first dc:title, trimmed. Empty when absent.
	Title string

	// Creators contains all non-empty dc:creator values in document order.
	Creators []string

	// Language is the first non-empty dc:language value (a BCP 47 tag, e.g. "en").
	Language string
}

// Document is one content document in reading order.
// Content is loaded lazily from the underlying ePub archive.
type Document struct {
	// Path is the ZIP-internal path of the content document.
	Path string

	// ID is the manifest item ID. Empty when the document was found by
	// scanning the archive instead of through the spine.
	ID string

	// MediaType is the declared manifest media-type, possibly empty.
	MediaType string

	// book is the archive the document is read from.
	book documentReader
}

// documentReader is a private interface for lazy content loading from the ePub archive.
// It is implemented by Book.
type documentReader interface {
	readFile(path string) ([]byte, error)
}
