package epub

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CoverInfo holds information about the detected cover image.
type CoverInfo struct {
	ManifestID      string
	Href            string
	MediaType       string
	DetectionMethod string // "properties", "meta", "guide", "guide-xhtml", "filename"
}

// DetectCover finds the cover image using, in priority order:
//  1. properties="cover-image" (EPUB 3)
//  2. <meta name="cover"> (EPUB 2)
//  3. guide type="cover" pointing at an image, or at an XHTML page whose
//     first image is used
//  4. an image whose file name contains "cover"
//
// r may be nil, in which case guide pages are not opened.
func (p *Package) DetectCover(r EntryOpener) (*CoverInfo, error) {
	for _, item := range p.orderedItems() {
		if !isImageMediaType(item.MediaType) {
			continue
		}
		for _, prop := range item.Properties {
			if strings.EqualFold(prop, "cover-image") {
				return newCoverInfo(item, "properties"), nil
			}
		}
	}

	if p.Metadata.CoverID != "" {
		if item, ok := p.Manifest[p.Metadata.CoverID]; ok && isImageMediaType(item.MediaType) {
			return newCoverInfo(item, "meta"), nil
		}
	}

	for _, ref := range p.Guide {
		if !strings.EqualFold(ref.Type, "cover") {
			continue
		}
		target := stripFragment(ref.Href)
		item, ok := p.itemByHref(target)
		if ok && isImageMediaType(item.MediaType) {
			return newCoverInfo(item, "guide"), nil
		}
		if r == nil || (ok && !strings.EqualFold(item.MediaType, xhtmlMediaType)) {
			continue
		}
		src, err := firstImageRef(r, target)
		if err != nil || src == "" {
			continue
		}
		if img, ok := p.itemByHref(src); ok && isImageMediaType(img.MediaType) {
			return newCoverInfo(img, "guide-xhtml"), nil
		}
	}

	for _, item := range p.orderedItems() {
		if !isImageMediaType(item.MediaType) {
			continue
		}
		base := item.Href[strings.LastIndex(item.Href, "/")+1:]
		if strings.Contains(strings.ToLower(base), "cover") {
			return newCoverInfo(item, "filename"), nil
		}
	}

	return nil, ErrNoCover
}

// firstImageRef returns the resolved source of the first <img> or SVG
// <image> in an XHTML page.
func firstImageRef(r EntryOpener, page string) (string, error) {
	data, err := ReadEntry(r, page)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse cover page %s: %w", page, err)
	}

	var src string
	doc.Find("img, image").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"src", "href", "xlink:href"} {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
				src = strings.TrimSpace(v)
				return false
			}
		}
		return true
	})
	if src == "" {
		return "", nil
	}
	return ResolvePath(Dir(page), stripFragment(src)), nil
}

func newCoverInfo(item ManifestItem, method string) *CoverInfo {
	return &CoverInfo{
		ManifestID:      item.ID,
		Href:            item.Href,
		MediaType:       item.MediaType,
		DetectionMethod: method,
	}
}

func (p *Package) orderedItems() []ManifestItem {
	items := make([]ManifestItem, 0, len(p.ManifestOrder))
	for _, id := range p.ManifestOrder {
		if item, ok := p.Manifest[id]; ok {
			items = append(items, item)
		}
	}
	return items
}

func (p *Package) itemByHref(href string) (ManifestItem, bool) {
	for _, item := range p.orderedItems() {
		if item.Href == href {
			return item, true
		}
	}
	return ManifestItem{}, false
}

// isImageMediaType reports raster images; SVG is excluded.
func isImageMediaType(mediaType string) bool {
	mediaType = strings.ToLower(mediaType)
	if mediaType == "image/svg+xml" {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
