package epub

// Package is the parsed package descriptor (OPF) of one archive.
type Package struct {
	Path          string // descriptor entry name
	Dir           string // directory of Path, "" at the archive root
	Metadata      Metadata
	Manifest      map[string]ManifestItem // every item, id -> item, hrefs resolved
	ManifestOrder []string                // manifest ids in document order
	Spine         []string                // textual spine idrefs, nav/cover dropped
	Guide         []GuideReference
	Chapters      []string // chapter entry names in reading order
}

// Metadata is the bibliographic part of the package descriptor.
type Metadata struct {
	Title       string
	Creators    []Creator
	Language    string
	Description string
	Subjects    []string
	Identifier  string
	Publisher   string
	Date        string
	CoverID     string // EPUB 2 <meta name="cover"> manifest id
}

// Creator is a dc:creator entry. Role is the MARC relator code ("aut",
// "edt", ...) or empty when the descriptor gives none.
type Creator struct {
	Name string
	Role string
}

// ManifestItem is one manifest entry.
type ManifestItem struct {
	ID         string
	Href       string // resolved archive entry name
	MediaType  string
	Properties []string
}

// GuideReference is an EPUB 2 guide entry.
type GuideReference struct {
	Type  string
	Title string
	Href  string // resolved archive entry name, fragment kept
}
