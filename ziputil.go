package epubconv

import (
	"archive/zip"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

// maxDecompressSize is the maximum allowed decompressed size for a single ZIP entry.
// This guards against zip bomb attacks. Defaults to 256 MB.
const maxDecompressSize int64 = 256 * 1024 * 1024

// htmlExtensions are the lower-cased name suffixes treated as content documents.
var htmlExtensions = []string{".xhtml", ".html", ".htm"}

// archive is a read-only view over a ZIP reader with exact and
// case-insensitive name indexes.
type archive struct {
	zr    *zip.Reader
	exact map[string]*zip.File
	lower map[string]*zip.File
}

// newArchive indexes every entry of zr. When names collide the first entry wins.
func newArchive(zr *zip.Reader) *archive {
	a := &archive{
		zr:    zr,
		exact: make(map[string]*zip.File, len(zr.File)),
		lower: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		if _, exists := a.exact[f.Name]; !exists {
			a.exact[f.Name] = f
		}
		l := strings.ToLower(f.Name)
		if _, exists := a.lower[l]; !exists {
			a.lower[l] = f
		}
	}
	return a
}

// find looks up a ZIP entry by path, first trying an exact match,
// then falling back to a case-insensitive comparison.
// Returns nil if no match is found.
func (a *archive) find(name string) *zip.File {
	if f, ok := a.exact[name]; ok {
		return f
	}
	if f, ok := a.lower[strings.ToLower(name)]; ok {
		return f
	}
	return nil
}

// read returns the contents of the named entry, or ErrFileNotFound.
func (a *archive) read(name string) ([]byte, error) {
	f := a.find(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return readZipFile(f)
}

// names returns every entry name in archive order.
func (a *archive) names() []string {
	out := make([]string, 0, len(a.zr.File))
	for _, f := range a.zr.File {
		out = append(out, f.Name)
	}
	return out
}

// isHTMLName reports whether name ends in .xhtml, .html or .htm (any case).
func isHTMLName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range htmlExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// resolveHref resolves a manifest href against the package document path.
// The href is percent-decoded when possible and its fragment dropped.
func resolveHref(basePath, href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	return joinPath(basePath, href)
}

// joinPath joins rel onto the directory containing base and normalises
// "." and ".." segments. A ".." at the archive root is dropped rather than
// escaping it; empty segments are ignored.
func joinPath(base, rel string) string {
	dir := ""
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		dir = base[:i]
	}

	var parts []string
	for _, seg := range strings.Split(dir+"/"+rel, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "/")
}

// isSafePath checks whether p is a safe ZIP-internal path that does not
// escape the archive root via path traversal (e.g., "../../../etc/passwd").
func isSafePath(p string) bool {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "/") {
		return false
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return false
	}
	return true
}

// stripBOM removes a leading UTF-8 BOM (0xEF 0xBB 0xBF) from data, if present.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// readZipFile reads the full contents of a ZIP entry.
// It enforces maxDecompressSize to guard against zip bombs and validates
// that the entry path is safe (no path traversal).
func readZipFile(f *zip.File) ([]byte, error) {
	return readZipFileWithLimit(f, maxDecompressSize)
}

// readZipFileWithLimit is the implementation of readZipFile with a configurable
// size limit. It is separated to allow tests to use a smaller limit.
func readZipFileWithLimit(f *zip.File, limit int64) ([]byte, error) {
	if !isSafePath(f.Name) {
		return nil, fmt.Errorf("epubconv: unsafe zip entry path: %s", f.Name)
	}

	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("epubconv: zip entry %s too large: %d bytes (max %d)", f.Name, f.UncompressedSize64, limit)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("epubconv: open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	// Read one byte past the limit; the declared size may be forged.
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("epubconv: read zip entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("epubconv: zip entry %s decompressed size exceeds limit (%d bytes)", f.Name, limit)
	}

	return data, nil
}
