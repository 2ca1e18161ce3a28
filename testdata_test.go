package epubconv

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// validContainerXML is a well-formed META-INF/container.xml pointing to an OPF.
const validContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// testOPF is a package document whose spine order differs from the
// lexicographic order of its content files.
const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package version="3.0" xmlns="http://www.idpf.org/2007/opf" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>  The Test Book  </dc:title>
    <dc:creator>Jane Doe</dc:creator>
    <dc:language>en-GB</dc:language>
  </metadata>
  <manifest>
    <item id="intro" href="text/intro.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
    <item id="img" href="images/cover.jpg" media-type="image/jpeg"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="css"/>
    <itemref idref="missing"/>
    <itemref idref="intro"/>
  </spine>
</package>`

// testBookFiles returns a small, valid ePub with two content documents.
func testBookFiles() map[string]string {
	return map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": validContainerXML,
		"OEBPS/content.opf":      testOPF,
		"OEBPS/style.css":        "p { margin: 0; }",
		"OEBPS/text/intro.xhtml": `<html><body><h1>Introduction</h1><p>Intro text.</p></body></html>`,
		"OEBPS/text/ch1.xhtml":   `<html><body><h1>Chapter One</h1><p>First line.</p></body></html>`,
	}
}

// buildTestZip creates an in-memory ZIP archive from the provided files map
// (path → content) and returns a *zip.Reader over the resulting bytes.
// It calls t.Fatal on any error.
func buildTestZip(t *testing.T, files map[string]string) *zip.Reader {
	t.Helper()
	data := buildTestEPubBytes(t, files)
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("buildTestZip: open reader: %v", err)
	}
	return r
}

// buildTestArchive wraps buildTestZip in the package's archive index.
func buildTestArchive(t *testing.T, files map[string]string) *archive {
	t.Helper()
	return newArchive(buildTestZip(t, files))
}

// buildTestEPubBytes writes files into a ZIP archive and returns its bytes.
// A "mimetype" entry, when present, is written first as ePub requires; the
// remaining entries follow in map iteration order.
func buildTestEPubBytes(t testing.TB, files map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	if mt, ok := files["mimetype"]; ok {
		fw, err := zw.Create("mimetype")
		if err != nil {
			t.Fatalf("buildTestEPubBytes: create mimetype: %v", err)
		}
		if _, err := io.WriteString(fw, mt); err != nil {
			t.Fatalf("buildTestEPubBytes: write mimetype: %v", err)
		}
	}
	for name, content := range files {
		if name == "mimetype" {
			continue
		}
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("buildTestEPubBytes: create %s: %v", name, err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			t.Fatalf("buildTestEPubBytes: write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("buildTestEPubBytes: close writer: %v", err)
	}
	return buf.Bytes()
}

// buildTestEPubFile writes an ePub (ZIP) archive to a temporary file and returns
// the file path. This variant is useful for testing Open() which requires a file path.
func buildTestEPubFile(t testing.TB, files map[string]string) string {
	t.Helper()
	fp := filepath.Join(t.TempDir(), "test.epub")
	if err := os.WriteFile(fp, buildTestEPubBytes(t, files), 0644); err != nil {
		t.Fatalf("buildTestEPubFile: write file: %v", err)
	}
	return fp
}

// documentPaths returns the Path of each document.
func documentPaths(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Path)
	}
	return out
}
