package epub

import (
	"errors"
	"strings"
	"testing"
)

const fullOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
    <dc:title>  </dc:title>
    <dc:title>The Book</dc:title>
    <dc:title>Subtitle</dc:title>
    <dc:creator opf:role="aut">Jane Doe</dc:creator>
    <dc:creator id="ed1">Ed One</dc:creator>
    <dc:creator>  </dc:creator>
    <dc:creator opf:role=" trl ">Tran Slator</dc:creator>
    <meta refines="#ed1" property="role" scheme="marc:relators">edt</meta>
    <dc:language>ja</dc:language>
    <dc:description>About the book.</dc:description>
    <dc:subject>Fiction</dc:subject>
    <dc:subject></dc:subject>
    <dc:subject>Drama</dc:subject>
    <dc:identifier id="bookid">urn:uuid:1234</dc:identifier>
    <dc:publisher>Pub House</dc:publisher>
    <dc:date>2024-01-02</dc:date>
    <meta name="cover" content="cover-img"/>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="cover" href="cover.xhtml" media-type="application/xhtml+xml"/>
    <item id="cover-img" href="images/cover.jpg" media-type="image/jpeg"/>
    <item id="css" href="style.css" media-type="text/css"/>
    <item id="c1" href="text/c1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="../Text/c2.xhtml" media-type="Application/XHTML+XML"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="cover"/>
    <itemref idref="nav"/>
    <itemref idref="c1"/>
    <itemref idref="c2"/>
  </spine>
  <guide>
    <reference type="text" title="Start" href="text/c1.xhtml#start"/>
  </guide>
</package>`

func TestParsePackageData(t *testing.T) {
	pkg, err := ParsePackageData([]byte(fullOPF), "OEBPS/content.opf")
	if err != nil {
		t.Fatalf("ParsePackageData() error = %v", err)
	}

	if pkg.Dir != "OEBPS" {
		t.Errorf("Dir = %q", pkg.Dir)
	}
	wantChapters := []string{"OEBPS/text/c1.xhtml", "Text/c2.xhtml"}
	if strings.Join(pkg.Chapters, ",") != strings.Join(wantChapters, ",") {
		t.Errorf("Chapters = %v, want %v", pkg.Chapters, wantChapters)
	}
	if strings.Join(pkg.Spine, ",") != "c1,c2" {
		t.Errorf("Spine = %v, want [c1 c2]", pkg.Spine)
	}
	if strings.Join(pkg.ManifestOrder, ",") != "nav,cover,cover-img,css,c1,c2" {
		t.Errorf("ManifestOrder = %v", pkg.ManifestOrder)
	}
	if got := pkg.Manifest["cover-img"].Href; got != "OEBPS/images/cover.jpg" {
		t.Errorf("cover-img href = %q", got)
	}
	if props := pkg.Manifest["nav"].Properties; len(props) != 1 || props[0] != "nav" {
		t.Errorf("nav properties = %v", props)
	}
	if len(pkg.Guide) != 1 || pkg.Guide[0].Href != "OEBPS/text/c1.xhtml#start" {
		t.Errorf("Guide = %+v", pkg.Guide)
	}
}

func TestParsePackageData_Metadata(t *testing.T) {
	pkg, err := ParsePackageData([]byte(fullOPF), "OEBPS/content.opf")
	if err != nil {
		t.Fatalf("ParsePackageData() error = %v", err)
	}
	md := pkg.Metadata

	if md.Title != "The Book" {
		t.Errorf("Title = %q, want first non-empty title", md.Title)
	}
	wantCreators := []Creator{
		{Name: "Jane Doe", Role: "aut"},
		{Name: "Ed One", Role: "edt"},
		{Name: "Tran Slator", Role: "trl"},
	}
	if len(md.Creators) != len(wantCreators) {
		t.Fatalf("Creators = %+v, want %+v", md.Creators, wantCreators)
	}
	for i, c := range wantCreators {
		if md.Creators[i] != c {
			t.Errorf("Creators[%d] = %+v, want %+v", i, md.Creators[i], c)
		}
	}
	if md.Language != "ja" || md.Description != "About the book." {
		t.Errorf("Language/Description = %q/%q", md.Language, md.Description)
	}
	if strings.Join(md.Subjects, ",") != "Fiction,Drama" {
		t.Errorf("Subjects = %v", md.Subjects)
	}
	if md.Identifier != "urn:uuid:1234" || md.Publisher != "Pub House" || md.Date != "2024-01-02" {
		t.Errorf("Identifier/Publisher/Date = %q/%q/%q", md.Identifier, md.Publisher, md.Date)
	}
	if md.CoverID != "cover-img" {
		t.Errorf("CoverID = %q", md.CoverID)
	}
}

func opfWith(manifest, spine string) []byte {
	return []byte(`<package><metadata/><manifest>` + manifest + `</manifest><spine>` + spine + `</spine></package>`)
}

func TestParsePackageData_MissingChapterReference(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		spine    string
		wantID   string
	}{
		{
			name:     "unknown idref",
			manifest: `<item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>`,
			spine:    `<itemref idref="c1"/><itemref idref="ghost"/>`,
			wantID:   "ghost",
		},
		{
			name:     "non-xhtml item",
			manifest: `<item id="css" href="style.css" media-type="text/css"/>`,
			spine:    `<itemref idref="css"/>`,
			wantID:   "css",
		},
		{
			name: "cover items removed",
			manifest: `<item id="cover.html" href="cover.html" media-type="application/xhtml+xml"/>
<item id="book-cover.html" href="bc.html" media-type="application/xhtml+xml"/>
<item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>`,
			spine:  `<itemref idref="c1"/><itemref idref="c2"/><itemref idref="c3"/>`,
			wantID: "c2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePackageData(opfWith(tt.manifest, tt.spine), "content.opf")
			if !errors.Is(err, ErrMissingChapterReference) {
				t.Fatalf("error = %v, want ErrMissingChapterReference", err)
			}
			var mErr *MissingChapterReferenceError
			if !errors.As(err, &mErr) {
				t.Fatalf("error %T is not *MissingChapterReferenceError", err)
			}
			if mErr.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", mErr.ID, tt.wantID)
			}
		})
	}
}

func TestParsePackageData_DuplicateSpineEntry(t *testing.T) {
	manifest := `<item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>
<item id="c2" href="c2.xhtml" media-type="application/xhtml+xml"/>`
	spine := `<itemref idref="c1"/><itemref idref="c1"/><itemref idref="c2"/>`

	pkg, err := ParsePackageData(opfWith(manifest, spine), "content.opf")
	if err != nil {
		t.Fatalf("ParsePackageData() error = %v", err)
	}
	if strings.Join(pkg.Chapters, ",") != "c1.xhtml,c2.xhtml" {
		t.Errorf("Chapters = %v, want each chapter once", pkg.Chapters)
	}
}

func TestParsePackageData_Filters(t *testing.T) {
	manifest := `<item id="titlepage-cover" href="tp.xhtml" media-type="application/xhtml+xml"/>
<item id="unavailable" href="unavailable.xhtml" media-type="application/xhtml+xml"/>
<item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>`
	spine := `<itemref idref="titlepage-cover"/><itemref idref="unavailable"/><itemref idref="c1"/>`

	pkg, err := ParsePackageData(opfWith(manifest, spine), "content.opf")
	if err != nil {
		t.Fatalf("ParsePackageData() error = %v", err)
	}
	if strings.Join(pkg.Chapters, ",") != "c1.xhtml" {
		t.Errorf("Chapters = %v, want ids containing nav or cover dropped", pkg.Chapters)
	}
}

func TestParsePackageData_ByteOrderMark(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, opfWith(`<item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>`, `<itemref idref="c1"/>`)...)
	pkg, err := ParsePackageData(data, "content.opf")
	if err != nil {
		t.Fatalf("ParsePackageData() error = %v", err)
	}
	if len(pkg.Chapters) != 1 || pkg.Chapters[0] != "c1.xhtml" {
		t.Errorf("Chapters = %v", pkg.Chapters)
	}
}

func TestParsePackageData_Malformed(t *testing.T) {
	_, err := ParsePackageData([]byte(`<package><manifest></package>`), "content.opf")
	if !errors.Is(err, ErrMalformedXML) {
		t.Fatalf("error = %v, want ErrMalformedXML", err)
	}
}

func TestParsePackageData_Entities(t *testing.T) {
	const c1 = `<item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>`
	withTitle := func(title string) []byte {
		return []byte(`<package><metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>` + title +
			`</dc:title></metadata><manifest>` + c1 + `</manifest><spine><itemref idref="c1"/></spine></package>`)
	}

	pkg, err := ParsePackageData(withTitle("Tom&nbsp;&amp;&nbsp;Jerry"), "content.opf")
	if err != nil {
		t.Fatalf("ParsePackageData() error = %v", err)
	}
	if want := "Tom\u00a0&\u00a0Jerry"; pkg.Metadata.Title != want {
		t.Errorf("Title = %q, want %q", pkg.Metadata.Title, want)
	}

	// Bare ampersands are still malformed XML.
	_, err = ParsePackageData(withTitle("Tom & Jerry"), "content.opf")
	if !errors.Is(err, ErrMalformedXML) {
		t.Fatalf("error = %v, want ErrMalformedXML", err)
	}
}

func TestParsePackage(t *testing.T) {
	a := newTestArchive(t, map[string]string{
		ContainerPath:       testContainerXML,
		"OEBPS/content.opf": testPackageOPF,
	})

	pkg, err := ParsePackage(a, "OEBPS/content.opf")
	if err != nil {
		t.Fatalf("ParsePackage() error = %v", err)
	}
	if pkg.Metadata.Title != "Test Book" {
		t.Errorf("Title = %q", pkg.Metadata.Title)
	}
	if len(pkg.Chapters) != 1 || pkg.Chapters[0] != "OEBPS/chapter1.xhtml" {
		t.Errorf("Chapters = %v", pkg.Chapters)
	}

	if _, err := ParsePackage(a, "OEBPS/missing.opf"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("ParsePackage(missing) error = %v, want ErrEntryNotFound", err)
	}
}
