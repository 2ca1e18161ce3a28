package epubconv

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

// opfPackage represents the root <package> element of an OPF file.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

// opfMetadata holds the Dublin Core elements this package reads.
type opfMetadata struct {
	Titles    []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators  []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Languages []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ language"`
}

// opfDCElement holds the text of a Dublin Core element.
type opfDCElement struct {
	Value string `xml:",chardata"`
}

// opfManifest wraps the <manifest> element.
type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

// opfManifestItem represents a single <item> in the manifest.
type opfManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// opfSpine wraps the <spine> element.
type opfSpine struct {
	ItemRefs []opfSpineItemRef `xml:"itemref"`
}

// opfSpineItemRef represents a single <itemref> in the spine.
type opfSpineItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// manifestItem is a processed manifest entry.
type manifestItem struct {
	// ID is the unique identifier of this manifest item.
	ID string

	// Href is the file path relative to the OPF file location.
	Href string

	// MediaType is the declared MIME type, possibly empty.
	MediaType string
}

// packageDoc is the part of the OPF the converter needs: metadata,
// the manifest keyed by id, and the spine idrefs in document order.
type packageDoc struct {
	metadata Metadata
	manifest map[string]manifestItem
	spine    []string
}

// parseOPF decodes OPF data into a packageDoc.
//
// Manifest items without an id or href and itemrefs without an idref are
// skipped. Duplicate manifest ids keep the last item; duplicate itemrefs
// are preserved.
func parseOPF(data []byte) (packageDoc, error) {
	data = preprocessHTMLEntities(stripBOM(data))

	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return packageDoc{}, fmt.Errorf("parse OPF: %w", err)
	}

	doc := packageDoc{
		metadata: extractMetadata(pkg.Metadata),
		manifest: make(map[string]manifestItem, len(pkg.Manifest.Items)),
		spine:    make([]string, 0, len(pkg.Spine.ItemRefs)),
	}

	for _, item := range pkg.Manifest.Items {
		if item.ID == "" || item.Href == "" {
			continue
		}
		doc.manifest[item.ID] = manifestItem{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		}
	}

	for _, ref := range pkg.Spine.ItemRefs {
		if ref.IDRef != "" {
			doc.spine = append(doc.spine, ref.IDRef)
		}
	}

	return doc, nil
}

// entityNameToNumeric maps lowercase HTML entity names to their XML numeric
// character references. encoding/xml does not recognise HTML named entities,
// so we convert them before parsing OPF files.
var entityNameToNumeric = map[string][]byte{
	"nbsp": []byte("&#160;"), "mdash": []byte("&#8212;"), "ndash": []byte("&#8211;"),
	"hellip": []byte("&#8230;"),
	"lsquo": []byte("&#8216;"), "rsquo": []byte("&#8217;"),
	"ldquo": []byte("&#8220;"), "rdquo": []byte("&#8221;"),
	"copy": []byte("&#169;"), "reg": []byte("&#174;"), "trade": []byte("&#8482;"),
	"bull": []byte("&#8226;"), "middot": []byte("&#183;"),
	"eacute": []byte("&#233;"), "egrave": []byte("&#232;"),
	"ecirc": []byte("&#234;"), "euml": []byte("&#235;"),
	"aacute": []byte("&#225;"), "agrave": []byte("&#224;"),
	"acirc": []byte("&#226;"), "auml": []byte("&#228;"),
	"iacute": []byte("&#237;"), "igrave": []byte("&#236;"),
	"icirc": []byte("&#238;"), "iuml": []byte("&#239;"),
	"oacute": []byte("&#243;"), "ograve": []byte("&#242;"),
	"ocirc": []byte("&#244;"), "ouml": []byte("&#246;"),
	"uacute": []byte("&#250;"), "ugrave": []byte("&#249;"),
	"ucirc": []byte("&#251;"), "uuml": []byte("&#252;"),
	"ntilde": []byte("&#241;"), "ccedil": []byte("&#231;"),
	"times": []byte("&#215;"), "divide": []byte("&#247;"),
	"deg": []byte("&#176;"), "para": []byte("&#182;"), "sect": []byte("&#167;"),
	"laquo": []byte("&#171;"), "raquo": []byte("&#187;"),
	"iexcl": []byte("&#161;"), "iquest": []byte("&#191;"),
}

// htmlEntityPattern matches the entity names above, case-insensitively.
var htmlEntityPattern = regexp.MustCompile(
	`(?i)&(nbsp|mdash|ndash|hellip|lsquo|rsquo|ldquo|rdquo|copy|reg|trade|bull|middot|` +
		`eacute|egrave|ecirc|euml|aacute|agrave|acirc|auml|iacute|igrave|icirc|iuml|` +
		`oacute|ograve|ocirc|ouml|uacute|ugrave|ucirc|uuml|ntilde|ccedil|` +
		`times|divide|deg|para|sect|laquo|raquo|iexcl|iquest);`)

// preprocessHTMLEntities replaces common HTML named entities with their
// numeric character references so that encoding/xml can parse the data.
func preprocessHTMLEntities(data []byte) []byte {
	return htmlEntityPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := strings.ToLower(string(match[1 : len(match)-1]))
		if replacement, ok := entityNameToNumeric[name]; ok {
			return replacement
		}
		return match
	})
}
