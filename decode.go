package epubconv

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// sniffLen bounds how much of a document is inspected for an encoding declaration.
const sniffLen = 1024

// xmlDeclEncodingPattern captures the encoding pseudo-attribute of an XML declaration.
var xmlDeclEncodingPattern = regexp.MustCompile(`^\s*<\?xml\s[^>]*?encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// decodeContent turns raw content document bytes into a string.
//
// Valid UTF-8 is returned unchanged (minus a BOM) with ok set. Anything else
// is decoded with the encoding the document declares, or Windows-1252 when
// it declares none; ok is then false. Bytes that still cannot be decoded
// become U+FFFD. decodeContent never fails.
func decodeContent(data []byte) (s string, ok bool) {
	data = stripBOM(data)
	if utf8.Valid(data) {
		return string(data), true
	}

	out, err := legacyEncoding(data).NewDecoder().Bytes(data)
	if err != nil {
		out, err = charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			out = data
		}
	}
	return strings.ToValidUTF8(string(out), "\uFFFD"), false
}

// legacyEncoding picks the decoder for data that is not valid UTF-8.
// A declaration claiming UTF-8 is ignored since the bytes disprove it.
func legacyEncoding(data []byte) encoding.Encoding {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	if m := xmlDeclEncodingPattern.FindSubmatch(head); m != nil {
		if e, err := htmlindex.Get(string(m[1])); err == nil && usableLegacy(e) {
			return e
		}
	}

	if e, _, _ := charset.DetermineEncoding(head, ""); e != nil && usableLegacy(e) {
		return e
	}

	return charmap.Windows1252
}

// usableLegacy rejects UTF-8 and the WHATWG "replacement" encoding.
func usableLegacy(e encoding.Encoding) bool {
	name, err := htmlindex.Name(e)
	if err != nil {
		return false
	}
	return name != "utf-8" && name != "replacement"
}
