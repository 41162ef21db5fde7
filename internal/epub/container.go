package epub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// ContainerPath is the fixed bootstrap entry naming the package descriptor.
const ContainerPath = "META-INF/container.xml"

// LocatePackage streams META-INF/container.xml and returns the full-path of
// the first rootfile element found inside a rootfiles element.
func LocatePackage(r EntryOpener) (string, error) {
	rc, err := r.Open(ContainerPath)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return "", fmt.Errorf("%w: %w", ErrDescriptorNotFound, err)
		}
		return "", err
	}
	defer rc.Close()

	return locateRootfile(rc)
}

func locateRootfile(r io.Reader) (string, error) {
	dec := newXMLDecoder(r)
	depth := 0 // open rootfiles elements
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", ErrDescriptorNotFound
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w: %w", ContainerPath, ErrMalformedXML, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rootfiles":
				depth++
			case "rootfile":
				if depth == 0 {
					continue
				}
				for _, attr := range t.Attr {
					if attr.Name.Local == "full-path" {
						return attr.Value, nil
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "rootfiles" && depth > 0 {
				depth--
			}
		}
	}
}

// newXMLDecoder returns a decoder that understands non-UTF-8 encoding
// declarations and HTML named entities, both common in hand-made books.
// It stays strict otherwise: a bare "&" or a mismatched end tag is an error.
func newXMLDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity
	return dec
}
