package epubconv

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
)

// expectedMimetype is the required content of the "mimetype" file in a valid ePub.
const expectedMimetype = "application/epub+zip"

// Book is an opened ePub archive with its reading order resolved.
// Use Open or NewReader to create a Book instance.
//
// A Book is not safe for concurrent use by multiple goroutines.
type Book struct {
	archive   *archive
	closer    io.Closer // non-nil only when created via Open()
	pkgPath   string
	metadata  Metadata
	documents []Document
	fromSpine bool
	warnings  []string
	text      string
	textDone  bool
}

// Open opens an ePub file at the given path.
// The caller must call Close when done reading from the book.
func Open(path string) (*Book, error) {
	zrc, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArchive, path, err)
		}
		return nil, fmt.Errorf("epubconv: open %s: %w", path, err)
	}

	return initBook(&zrc.Reader, zrc), nil
}

// NewReader creates a Book from an io.ReaderAt with the given size.
// The caller is responsible for the lifetime of r; Close only cleans
// up internal state.
func NewReader(r io.ReaderAt, size int64) (*Book, error) {
	if r == nil {
		return nil, ErrNoInput
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}

	return initBook(zr, nil), nil
}

// initBook resolves the package document and the reading order. Nothing
// past the ZIP directory can fail: every problem is recorded as a warning
// and the next-best source is used instead.
func initBook(zr *zip.Reader, closer io.Closer) *Book {
	b := &Book{
		archive: newArchive(zr),
		closer:  closer,
	}

	b.validateMimetype()
	b.warnings = append(b.warnings, checkEncryption(b.archive)...)

	var pkg packageDoc
	pkgPath, err := findPackagePath(b.archive)
	if err != nil {
		b.warnf("no package document: %v", err)
	} else {
		b.pkgPath = pkgPath
		pkg = b.loadPackage(pkgPath)
	}
	b.metadata = pkg.metadata

	docs, fromSpine := collectDocuments(b.archive, b.pkgPath, pkg)
	if !fromSpine && b.pkgPath != "" {
		b.warnf("spine of %s lists no content documents; scanning archive", b.pkgPath)
	}
	for i := range docs {
		docs[i].book = b
	}
	b.documents = docs
	b.fromSpine = fromSpine

	return b
}

// loadPackage reads and parses the package document. Failures yield an
// empty packageDoc, which the collector treats like a missing package.
func (b *Book) loadPackage(pkgPath string) packageDoc {
	data, err := b.archive.read(pkgPath)
	if err != nil {
		b.warnf("cannot read package document: %v", err)
		return packageDoc{}
	}

	pkg, err := parseOPF(data)
	if err != nil {
		b.warnf("%s: %v", pkgPath, err)
		return packageDoc{}
	}
	return pkg
}

// validateMimetype checks that the first ZIP entry is named "mimetype" and
// contains "application/epub+zip". Deviations are recorded as warnings.
func (b *Book) validateMimetype() {
	files := b.archive.zr.File
	if len(files) == 0 {
		b.warnf("empty ZIP archive; mimetype entry missing")
		return
	}

	first := files[0]
	if first.Name != "mimetype" {
		b.warnf("first ZIP entry is not %q", "mimetype")
		return
	}

	data, err := readZipFile(first)
	if err != nil {
		b.warnf("cannot read mimetype entry: %v", err)
		return
	}

	if string(data) != expectedMimetype {
		b.warnf("unexpected mimetype: %q", string(data))
	}
}

func (b *Book) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// Close releases resources held by the Book. When the Book was created via
// Open, Close closes the underlying file. Close is idempotent.
func (b *Book) Close() error {
	if b.closer != nil {
		err := b.closer.Close()
		b.closer = nil
		return err
	}
	return nil
}

// ReadFile reads a file from the ePub archive by its ZIP-internal path.
// The lookup is case-insensitive as a fallback.
func (b *Book) ReadFile(name string) ([]byte, error) {
	return b.archive.read(name)
}

// readFile implements the documentReader interface for lazy content loading.
func (b *Book) readFile(name string) ([]byte, error) {
	return b.ReadFile(name)
}

// PackagePath returns the archive path of the package document named by
// container.xml, or "" when there is none.
func (b *Book) PackagePath() string {
	return b.pkgPath
}

// Metadata returns the metadata read from the package document.
// It is the zero value when the package document is missing or malformed.
func (b *Book) Metadata() Metadata {
	return copyMetadata(b.metadata)
}

// Documents returns the content documents in reading order.
func (b *Book) Documents() []Document {
	return append([]Document(nil), b.documents...)
}

// FromSpine reports whether Documents follows the package spine. When it
// is false the documents are every HTML entry of the archive, sorted by name.
func (b *Book) FromSpine() bool {
	return b.fromSpine
}

// Warnings returns the list of non-fatal warnings accumulated so far.
// Text (and HTML) may add warnings about unreadable or mis-encoded documents.
func (b *Book) Warnings() []string {
	return append([]string(nil), b.warnings...)
}

// Text returns the plain text of every document in reading order,
// separated by blank lines and ending in a single newline. It is empty
// when no document yields text. The result is computed once per Book.
func (b *Book) Text() string {
	if b.textDone {
		return b.text
	}

	blocks := make([]string, 0, len(b.documents))
	for _, doc := range b.documents {
		raw, err := doc.RawContent()
		if err != nil {
			b.warnf("skipping %s: %v", doc.Path, err)
			continue
		}
		content, ok := decodeContent(raw)
		if !ok {
			b.warnf("%s is not valid UTF-8; decoded with a legacy encoding", doc.Path)
		}
		if text := ExtractText(content); text != "" {
			blocks = append(blocks, text)
		}
	}

	b.text = joinBlocks(blocks)
	b.textDone = true
	return b.text
}

// HTML returns a self-contained printable HTML document built from Text.
// Each blank-line separated paragraph becomes a <p>. The title comes from
// the package metadata when the reading order follows the spine; a book
// read by scanning the archive, or one without a title, is titled "EPUB".
func (b *Book) HTML() string {
	var title string
	if b.fromSpine {
		title = b.metadata.Title
	}
	return renderHTML(title, b.metadata.Language, b.Text())
}
