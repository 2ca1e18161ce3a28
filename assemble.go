package epubconv

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// placeholderTitle is used when the package declares no usable title.
	placeholderTitle = "EPUB"

	// maxTitleRunes caps the title embedded in the printable document.
	maxTitleRunes = 200

	defaultLang = "en"
)

var (
	titleStripper    = strings.NewReplacer("<", "", ">", "", "&", "", `"`, "")
	paragraphEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	langTagPattern   = regexp.MustCompile(`^[A-Za-z0-9-]{1,35}$`)
)

// htmlShell is the printable document. Arguments: lang, title, title, body.
const htmlShell = `<!doctype html>
<html lang="%s">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width,initial-scale=1" />
  <title>%s</title>
  <style>
    body {
      font-family: Georgia, "Times New Roman", Times, serif;
      margin: 42px;
      line-height: 1.45;
      color: #111;
      max-width: 820px;
    }
    h1 {
      font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif;
      font-size: 20px;
      margin: 0 0 18px 0;
    }
    p { margin: 0 0 12px 0; }
    @page { margin: 18mm; }
  </style>
</head>
<body>
  <h1>%s</h1>
%s</body>
</html>
`

// joinBlocks joins extracted document texts with a blank line between
// them. A non-empty result ends with exactly one newline; an empty one
// stays empty.
func joinBlocks(blocks []string) string {
	txt := strings.TrimSpace(strings.Join(blocks, "\n\n"))
	txt = excessNewlinePattern.ReplaceAllString(txt, "\n\n")
	if txt == "" {
		return ""
	}
	return txt + "\n"
}

// sanitizeTitle removes the characters < > & " and truncates to
// maxTitleRunes. Blank titles become placeholderTitle.
func sanitizeTitle(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		t = placeholderTitle
	}
	t = titleStripper.Replace(t)
	if r := []rune(t); len(r) > maxTitleRunes {
		t = string(r[:maxTitleRunes])
	}
	if strings.TrimSpace(t) == "" {
		return placeholderTitle
	}
	return t
}

// htmlLang returns lang when it looks like a BCP 47 tag, else defaultLang.
func htmlLang(lang string) string {
	lang = strings.TrimSpace(lang)
	if langTagPattern.MatchString(lang) {
		return lang
	}
	return defaultLang
}

// renderParagraphs turns plain text into <p> elements, one per blank-line
// separated paragraph. Single newlines inside a paragraph become <br/>.
func renderParagraphs(text string) string {
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		p := strings.TrimSpace(para)
		if p == "" {
			continue
		}
		p = paragraphEscaper.Replace(p)
		p = strings.ReplaceAll(p, "\n", "<br/>")
		b.WriteString("  <p>")
		b.WriteString(p)
		b.WriteString("</p>\n")
	}
	return b.String()
}

// renderHTML wraps plain text in the printable document shell.
func renderHTML(title, lang, text string) string {
	t := sanitizeTitle(title)
	return fmt.Sprintf(htmlShell, htmlLang(lang), t, t, renderParagraphs(text))
}
