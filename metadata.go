package epubconv

import "strings"

// extractMetadata converts the raw OPF metadata into the public Metadata struct.
// Only the first dc:title element counts, even if its text is blank.
func extractMetadata(om opfMetadata) Metadata {
	var md Metadata

	if len(om.Titles) > 0 {
		md.Title = strings.TrimSpace(om.Titles[0].Value)
	}

	for _, c := range om.Creators {
		if v := strings.TrimSpace(c.Value); v != "" {
			md.Creators = append(md.Creators, v)
		}
	}

	// First non-empty language.
	for _, l := range om.Languages {
		if v := strings.TrimSpace(l.Value); v != "" {
			md.Language = v
			break
		}
	}

	return md
}

func copyMetadata(in Metadata) Metadata {
	out := in
	out.Creators = append([]string(nil), in.Creators...)
	return out
}
