package epub

import (
	"bytes"
	"fmt"
	"strings"
)

// xhtmlMediaType is the only manifest media type treated as a chapter.
const xhtmlMediaType = "application/xhtml+xml"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// opfPackage represents the OPF XML structure. Tags carry no namespace so
// elements match on local name whatever prefix the book uses.
type opfPackage struct {
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
	Guide    opfGuide    `xml:"guide"`
}

type opfMetadata struct {
	Title       []opfDCElement `xml:"title"`
	Creator     []opfDCElement `xml:"creator"`
	Language    []opfDCElement `xml:"language"`
	Description []opfDCElement `xml:"description"`
	Subject     []opfDCElement `xml:"subject"`
	Identifier  []opfDCElement `xml:"identifier"`
	Publisher   []opfDCElement `xml:"publisher"`
	Date        []opfDCElement `xml:"date"`
	Meta        []opfMeta      `xml:"meta"`
}

// opfDCElement holds a Dublin Core element. EPUB 2 puts the role in an
// opf:role attribute; EPUB 3 uses a refining meta element instead.
type opfDCElement struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr"`
	Role  string `xml:"role,attr"`
}

// opfMeta covers both <meta name content/> and <meta property refines>value</meta>.
type opfMeta struct {
	Name     string `xml:"name,attr"`
	Content  string `xml:"content,attr"`
	Property string `xml:"property,attr"`
	Refines  string `xml:"refines,attr"`
	Value    string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

type opfGuide struct {
	References []opfReference `xml:"reference"`
}

type opfReference struct {
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
	Href  string `xml:"href,attr"`
}

// ParsePackage reads the package descriptor at descriptorPath and resolves
// its spine into chapter entry names.
func ParsePackage(r EntryOpener, descriptorPath string) (*Package, error) {
	data, err := ReadEntry(r, descriptorPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read package descriptor: %w", err)
	}
	return ParsePackageData(data, descriptorPath)
}

// ParsePackageData parses descriptor content already read from the archive.
// descriptorPath is only used to resolve manifest hrefs.
func ParsePackageData(data []byte, descriptorPath string) (*Package, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var raw opfPackage
	if err := newXMLDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w: %w", descriptorPath, ErrMalformedXML, err)
	}

	dir := Dir(descriptorPath)
	pkg := &Package{
		Path:     descriptorPath,
		Dir:      dir,
		Metadata: parseMetadata(&raw.Metadata),
		Manifest: make(map[string]ManifestItem, len(raw.Manifest.Items)),
	}

	chapters := make(map[string]ManifestItem)
	for _, item := range raw.Manifest.Items {
		mi := ManifestItem{
			ID:         item.ID,
			Href:       ResolvePath(dir, item.Href),
			MediaType:  strings.TrimSpace(item.MediaType),
			Properties: strings.Fields(item.Properties),
		}
		if _, seen := pkg.Manifest[mi.ID]; !seen {
			pkg.ManifestOrder = append(pkg.ManifestOrder, mi.ID)
		}
		pkg.Manifest[mi.ID] = mi

		if isChapterItem(mi) {
			chapters[mi.ID] = mi
		}
	}

	for _, ref := range raw.Spine.ItemRefs {
		if isTextualSpineRef(ref.IDRef) {
			pkg.Spine = append(pkg.Spine, ref.IDRef)
		}
	}

	for _, ref := range raw.Guide.References {
		href := ref.Href
		if p, frag, ok := strings.Cut(href, "#"); ok {
			href = ResolvePath(dir, p) + "#" + frag
		} else {
			href = ResolvePath(dir, href)
		}
		pkg.Guide = append(pkg.Guide, GuideReference{
			Type:  strings.TrimSpace(ref.Type),
			Title: ref.Title,
			Href:  href,
		})
	}

	paths, err := resolveChapters(pkg.Spine, chapters)
	if err != nil {
		return nil, err
	}
	pkg.Chapters = paths

	return pkg, nil
}

// isChapterItem keeps XHTML documents that are not cover pages.
func isChapterItem(item ManifestItem) bool {
	return strings.EqualFold(item.MediaType, xhtmlMediaType) && !strings.Contains(item.ID, "cover")
}

// isTextualSpineRef drops navigation and cover documents from the spine.
func isTextualSpineRef(idref string) bool {
	return !strings.Contains(idref, "nav") && !strings.Contains(idref, "cover")
}

// resolveChapters joins the spine against the chapter manifest. Each manifest
// entry is consumed on first use, so a repeated idref contributes nothing.
// chapters is modified.
func resolveChapters(spine []string, chapters map[string]ManifestItem) ([]string, error) {
	consumed := make(map[string]struct{}, len(spine))
	paths := make([]string, 0, len(spine))
	for _, id := range spine {
		item, ok := chapters[id]
		if !ok {
			if _, dup := consumed[id]; dup {
				continue
			}
			return nil, &MissingChapterReferenceError{ID: id}
		}
		delete(chapters, id)
		consumed[id] = struct{}{}
		paths = append(paths, item.Href)
	}
	return paths, nil
}

func parseMetadata(meta *opfMetadata) Metadata {
	md := Metadata{
		Title:       firstValue(meta.Title),
		Language:    firstValue(meta.Language),
		Description: firstValue(meta.Description),
		Identifier:  firstValue(meta.Identifier),
		Publisher:   firstValue(meta.Publisher),
		Date:        firstValue(meta.Date),
	}

	for _, s := range meta.Subject {
		if v := strings.TrimSpace(s.Value); v != "" {
			md.Subjects = append(md.Subjects, v)
		}
	}

	refinedRoles := make(map[string]string)
	for _, m := range meta.Meta {
		if m.Property == "role" && strings.HasPrefix(m.Refines, "#") {
			role := strings.TrimSpace(m.Value)
			if role == "" {
				role = strings.TrimSpace(m.Content)
			}
			refinedRoles[strings.TrimPrefix(m.Refines, "#")] = role
		}
		if m.Name == "cover" && md.CoverID == "" {
			md.CoverID = strings.TrimSpace(m.Content)
		}
	}

	for _, c := range meta.Creator {
		name := strings.TrimSpace(c.Value)
		if name == "" {
			continue
		}
		role := strings.TrimSpace(c.Role)
		if role == "" && c.ID != "" {
			role = refinedRoles[c.ID]
		}
		md.Creators = append(md.Creators, Creator{Name: name, Role: role})
	}

	return md
}

// firstValue returns the first non-empty trimmed value.
func firstValue(elems []opfDCElement) string {
	for _, e := range elems {
		if v := strings.TrimSpace(e.Value); v != "" {
			return v
		}
	}
	return ""
}
