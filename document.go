package epubconv

// RawContent reads the raw bytes of this document from the ePub archive.
// Leading UTF-8 BOM is stripped if present.
func (d Document) RawContent() ([]byte, error) {
	if d.book == nil {
		return nil, ErrInvalidDocument
	}
	data, err := d.book.readFile(d.Path)
	if err != nil {
		return nil, err
	}
	return stripBOM(data), nil
}

// Content returns the document decoded to a string. Documents that are not
// valid UTF-8 are decoded with their declared legacy encoding, or
// Windows-1252 when they declare none.
func (d Document) Content() (string, error) {
	data, err := d.RawContent()
	if err != nil {
		return "", err
	}
	s, _ := decodeContent(data)
	return s, nil
}

// TextContent extracts the plain text of this document.
// Block-level elements produce line breaks; script and style content is skipped.
func (d Document) TextContent() (string, error) {
	s, err := d.Content()
	if err != nil {
		return "", err
	}
	return ExtractText(s), nil
}
