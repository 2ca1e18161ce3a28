package epubconv

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTags is the set of tags that emit a newline when they open and
// again when they close.
var blockTags = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Aside:      true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Li:         true,
	atom.Pre:        true,
	atom.Blockquote: true,
	atom.Hr:         true,
	atom.Br:         true,
	atom.Table:      true,
	atom.Tr:         true,
}

// skipTags is the set of tags whose content is never emitted.
var skipTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

var (
	horizontalSpacePattern = regexp.MustCompile(`[ \t\f\v]+`)
	excessNewlinePattern   = regexp.MustCompile(`\n{3,}`)
)

// textExtractor accumulates text fragments while tracking open tags.
type textExtractor struct {
	parts []string
	stack []string
}

func (e *textExtractor) startTag(name string) {
	e.stack = append(e.stack, name)
	if blockTags[atom.Lookup([]byte(name))] {
		e.parts = append(e.parts, "\n")
	}
}

// endTag drops the nearest open tag with the same name and everything
// opened after it. An end tag with no open match leaves the stack alone.
func (e *textExtractor) endTag(name string) {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if e.stack[i] == name {
			e.stack = e.stack[:i]
			break
		}
	}
	if blockTags[atom.Lookup([]byte(name))] {
		e.parts = append(e.parts, "\n")
	}
}

func (e *textExtractor) text(data string) {
	if data == "" {
		return
	}
	for _, name := range e.stack {
		if skipTags[atom.Lookup([]byte(name))] {
			return
		}
	}
	e.parts = append(e.parts, data)
}

func (e *textExtractor) String() string {
	return normalizeText(strings.Join(e.parts, ""))
}

// ExtractText converts XHTML or HTML markup into plain text.
//
// Block-level elements (paragraphs, divs, headings, list items, table rows,
// <br>, <hr> and similar) are separated by newlines, script and style
// content is dropped, and character references are resolved. Whitespace
// is normalised: runs of spaces and tabs become one space and three or
// more newlines become a blank line. Malformed markup never fails; the
// result is best-effort and may be empty.
func ExtractText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var e textExtractor

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader can produce.
			return e.String()

		case html.StartTagToken:
			name, _ := z.TagName()
			e.startTag(string(name))
			// The tokenizer reads title, textarea, noscript, iframe, xmp and
			// friends as raw text. Only script and style content stays raw;
			// the rest is tokenized as ordinary markup.
			if !skipTags[atom.Lookup(name)] {
				z.NextIsNotRawText()
			}

		case html.SelfClosingTagToken:
			// <title/>, <script/> and the like have no content to read raw.
			z.NextIsNotRawText()
			name, _ := z.TagName()
			e.startTag(string(name))
			e.endTag(string(name))

		case html.EndTagToken:
			name, _ := z.TagName()
			e.endTag(string(name))

		case html.TextToken:
			e.text(string(z.Text()))
		}
	}
}

// normalizeText unifies line endings, collapses horizontal whitespace and
// blank-line runs, and trims the result.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = horizontalSpacePattern.ReplaceAllString(s, " ")
	s = excessNewlinePattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
