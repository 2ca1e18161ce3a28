package epubconv

import "bytes"

// ArchiveToText converts an in-memory ePub archive to plain text.
//
// It fails only with ErrNoInput when data is nil, or ErrInvalidArchive when
// data is not a ZIP archive. Otherwise it returns the best-effort text of
// the book, which may be empty.
func ArchiveToText(data []byte) (string, error) {
	b, err := openBytes(data)
	if err != nil {
		return "", err
	}
	return b.Text(), nil
}

// ArchiveToHTML converts an in-memory ePub archive to a single printable
// HTML document. It fails under the same conditions as ArchiveToText and
// otherwise always returns a well-formed document.
func ArchiveToHTML(data []byte) (string, error) {
	b, err := openBytes(data)
	if err != nil {
		return "", err
	}
	return b.HTML(), nil
}

func openBytes(data []byte) (*Book, error) {
	if data == nil {
		return nil, ErrNoInput
	}
	return NewReader(bytes.NewReader(data), int64(len(data)))
}
