package epubconv

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func openTestBook(t *testing.T, files map[string]string) *Book {
	t.Helper()
	data := buildTestEPubBytes(t, files)
	book, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	t.Cleanup(func() { book.Close() })
	return book
}

func TestOpen_Valid(t *testing.T) {
	fp := buildTestEPubFile(t, testBookFiles())

	book, err := Open(fp)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer book.Close()

	if book.PackagePath() != "OEBPS/content.opf" {
		t.Errorf("PackagePath() = %q, want %q", book.PackagePath(), "OEBPS/content.opf")
	}
	if !book.FromSpine() {
		t.Error("FromSpine() = false; want true")
	}
	if len(book.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", book.Warnings())
	}
	if err := book.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOpen_NotZip(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "bad.epub")
	if err := os.WriteFile(fp, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(fp)
	if !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("Open(not zip) error = %v; want ErrInvalidArchive", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.epub"))
	if err == nil {
		t.Fatal("Open(missing) error = nil")
	}
	if errors.Is(err, ErrInvalidArchive) {
		t.Errorf("Open(missing) error = %v; should not be ErrInvalidArchive", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) error = %v; want os.ErrNotExist", err)
	}
}

func TestNewReader_NilReader(t *testing.T) {
	if _, err := NewReader(nil, 0); !errors.Is(err, ErrNoInput) {
		t.Errorf("NewReader(nil) error = %v; want ErrNoInput", err)
	}
}

func TestBook_SpineOrder(t *testing.T) {
	book := openTestBook(t, testBookFiles())

	want := []string{"OEBPS/text/ch1.xhtml", "OEBPS/text/intro.xhtml"}
	if got := documentPaths(book.Documents()); !reflect.DeepEqual(got, want) {
		t.Errorf("Documents() = %v; want %v", got, want)
	}

	md := book.Metadata()
	if md.Title != "The Test Book" || md.Language != "en-GB" {
		t.Errorf("Metadata() = %+v", md)
	}

	wantText := "Chapter One\n\nFirst line.\n\nIntroduction\n\nIntro text.\n"
	if got := book.Text(); got != wantText {
		t.Errorf("Text():\n got: %q\nwant: %q", got, wantText)
	}
}

func TestBook_Warnings(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		fromSpine bool
		contains  string
	}{
		{
			name:     "missing container",
			files:    map[string]string{"mimetype": "application/epub+zip", "a.xhtml": "<p>a</p>"},
			contains: "no package document",
		},
		{
			name: "malformed container",
			files: map[string]string{
				"mimetype":               "application/epub+zip",
				"META-INF/container.xml": "<container><rootfiles>",
				"a.xhtml":                "<p>a</p>",
			},
			contains: "parse container.xml",
		},
		{
			name: "package document missing",
			files: map[string]string{
				"mimetype":               "application/epub+zip",
				"META-INF/container.xml": validContainerXML,
				"a.xhtml":                "<p>a</p>",
			},
			contains: "cannot read package document",
		},
		{
			name: "malformed package document",
			files: map[string]string{
				"mimetype":               "application/epub+zip",
				"META-INF/container.xml": validContainerXML,
				"OEBPS/content.opf":      "<package><manifest>",
				"a.xhtml":                "<p>a</p>",
			},
			contains: "parse OPF",
		},
		{
			name: "empty spine",
			files: map[string]string{
				"mimetype":               "application/epub+zip",
				"META-INF/container.xml": validContainerXML,
				"OEBPS/content.opf":      `<package><manifest/><spine/></package>`,
				"a.xhtml":                "<p>a</p>",
			},
			contains: "lists no content documents",
		},
		{
			name: "mimetype not first",
			files: map[string]string{
				"a.xhtml": "<p>a</p>",
			},
			contains: "mimetype",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := openTestBook(t, tt.files)
			if book.FromSpine() != tt.fromSpine {
				t.Errorf("FromSpine() = %v; want %v", book.FromSpine(), tt.fromSpine)
			}
			joined := strings.Join(book.Warnings(), "\n")
			if !strings.Contains(joined, tt.contains) {
				t.Errorf("warnings %q do not mention %q", joined, tt.contains)
			}
			if got := book.Text(); got != "a\n" {
				t.Errorf("Text() = %q; want fallback text %q", got, "a\n")
			}
		})
	}
}

func TestBook_MissingMemberSkipped(t *testing.T) {
	files := testBookFiles()
	delete(files, "OEBPS/text/intro.xhtml")
	book := openTestBook(t, files)

	if got := len(book.Documents()); got != 2 {
		t.Fatalf("Documents() has %d entries; want 2", got)
	}
	if got := book.Text(); got != "Chapter One\n\nFirst line.\n" {
		t.Errorf("Text() = %q", got)
	}
	if !strings.Contains(strings.Join(book.Warnings(), "\n"), "skipping OEBPS/text/intro.xhtml") {
		t.Errorf("Warnings() = %v; want skipped member", book.Warnings())
	}

	// Text is computed once, so warnings are not duplicated.
	book.Text()
	n := 0
	for _, w := range book.Warnings() {
		if strings.HasPrefix(w, "skipping") {
			n++
		}
	}
	if n != 1 {
		t.Errorf("found %d skip warnings after two Text calls; want 1", n)
	}
}

func TestBook_DefensiveCopies(t *testing.T) {
	book := openTestBook(t, testBookFiles())

	docs := book.Documents()
	docs[0].Path = "mutated"
	if book.Documents()[0].Path == "mutated" {
		t.Error("Documents() exposed internal slice")
	}

	md := book.Metadata()
	md.Creators[0] = "mutated"
	if book.Metadata().Creators[0] != "Jane Doe" {
		t.Error("Metadata() exposed internal slice")
	}

	book.warnings = []string{"warning-a"}
	w := book.Warnings()
	w[0] = "mutated"
	if book.Warnings()[0] != "warning-a" {
		t.Error("Warnings() exposed internal slice")
	}
}

func TestBook_ReadFile(t *testing.T) {
	book := openTestBook(t, testBookFiles())

	data, err := book.ReadFile("oebps/STYLE.css")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "p { margin: 0; }" {
		t.Errorf("ReadFile() = %q", data)
	}

	if _, err := book.ReadFile("nope.txt"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v; want ErrFileNotFound", err)
	}
}

func TestBook_HTMLUsesText(t *testing.T) {
	book := openTestBook(t, testBookFiles())
	out := book.HTML()

	for _, want := range []string{
		`<html lang="en-GB">`,
		"<title>The Test Book</title>",
		"<h1>The Test Book</h1>",
		"<p>Chapter One</p>",
		"<p>Intro text.</p>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML() missing %q", want)
		}
	}
	if strings.Index(out, "Chapter One") > strings.Index(out, "Introduction") {
		t.Error("HTML() paragraphs not in reading order")
	}
}
