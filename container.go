package epubconv

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// containerXML models the META-INF/container.xml file used to locate the OPF.
type containerXML struct {
	XMLName   xml.Name   `xml:"container"`
	RootFiles []rootFile `xml:"rootfiles>rootfile"`
}

// rootFile represents a single <rootfile> element inside container.xml.
type rootFile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// containerPath is the well-known location of container.xml in an ePub archive.
const containerPath = "META-INF/container.xml"

// packageMediaType is the media-type declared for OPF rootfiles.
const packageMediaType = "application/oebps-package+xml"

// errNoRootFile is reported when container.xml names no usable rootfile.
var errNoRootFile = errors.New("container.xml declares no rootfile")

// findPackagePath locates the package document through container.xml.
//
// A non-nil error means "no package path" and is never fatal: callers
// record it as a warning and fall back to scanning the archive.
func findPackagePath(a *archive) (string, error) {
	f := a.find(containerPath)
	if f == nil {
		return "", fmt.Errorf("%s: %w", containerPath, ErrFileNotFound)
	}

	data, err := readZipFile(f)
	if err != nil {
		return "", fmt.Errorf("read container.xml: %w", err)
	}

	return parseContainerXML(data)
}

// parseContainerXML decodes container.xml and returns the full-path of the
// first rootfile. A rootfile declaring the OPF media-type wins over earlier
// rootfiles that declare something else.
func parseContainerXML(data []byte) (string, error) {
	var c containerXML
	if err := xml.Unmarshal(stripBOM(data), &c); err != nil {
		return "", fmt.Errorf("parse container.xml: %w", err)
	}

	var fallbackPath string
	for _, rf := range c.RootFiles {
		fullPath := strings.TrimSpace(rf.FullPath)
		if fullPath == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), packageMediaType) {
			return fullPath, nil
		}
		if fallbackPath == "" {
			fallbackPath = fullPath
		}
	}

	if fallbackPath == "" {
		return "", errNoRootFile
	}
	return fallbackPath, nil
}
