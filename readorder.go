package epubconv

import (
	"sort"
	"strings"
)

// isContentDocument reports whether a manifest entry should be read as
// narrative text: its media-type mentions html, or its resolved path has
// an HTML extension. The extension check covers packages with missing or
// wrong media-types.
func isContentDocument(mediaType, resolvedPath string) bool {
	return strings.Contains(mediaType, "html") || isHTMLName(resolvedPath)
}

// spineDocuments joins the spine and manifest into content documents in
// spine order. Unknown idrefs and non-HTML items are skipped; an idref
// repeated in the spine yields the document again.
func spineDocuments(pkgPath string, pkg packageDoc) []Document {
	var docs []Document
	for _, id := range pkg.spine {
		item, ok := pkg.manifest[id]
		if !ok {
			continue
		}
		p := resolveHref(pkgPath, item.Href)
		if p == "" || !isContentDocument(item.MediaType, p) {
			continue
		}
		docs = append(docs, Document{
			Path:      p,
			ID:        item.ID,
			MediaType: item.MediaType,
		})
	}
	return docs
}

// scanDocuments lists every archive entry with an HTML extension, sorted
// lexicographically since the archive carries no usable reading order.
func scanDocuments(a *archive) []Document {
	var names []string
	for _, name := range a.names() {
		if isHTMLName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		docs = append(docs, Document{Path: name})
	}
	return docs
}

// collectDocuments returns the reading order. The spine is preferred; the
// archive scan is used when there is no package document or the spine
// yields nothing. fromSpine reports which source was used.
func collectDocuments(a *archive, pkgPath string, pkg packageDoc) (docs []Document, fromSpine bool) {
	if pkgPath != "" {
		if docs := spineDocuments(pkgPath, pkg); len(docs) > 0 {
			return docs, true
		}
	}
	return scanDocuments(a), false
}
