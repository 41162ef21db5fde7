package converter

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	goepub "github.com/go-shiori/go-epub"
	"github.com/stretchr/testify/require"

	"github.com/yuanying/epub2txt/internal/epub"
	"github.com/yuanying/epub2txt/internal/extract"
)

const testContainer = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`

// packageOPF wraps manifest and spine entries in a minimal descriptor.
func packageOPF(manifest, spine string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Hand Made</dc:title>
    <dc:creator>Some Body</dc:creator>
  </metadata>
  <manifest>` + manifest + `</manifest>
  <spine>` + spine + `</spine>
</package>`
}

// writeZip writes files into a new archive under dir.
func writeZip(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range names {
		w, err := zw.Create(n)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[n]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// writeFixtureBook builds a real EPUB 3 with go-epub holding two chapters.
func writeFixtureBook(t *testing.T, dir, name string) string {
	t.Helper()
	e, err := goepub.NewEpub("Fixture Book")
	require.NoError(t, err)
	e.SetAuthor("Jane Doe")
	e.SetDescription("Built for tests.")
	e.SetLang("en")

	_, err = e.AddSection("<h1>Chapter One</h1>\n<p>Hello from one.</p>", "Chapter One", "", "")
	require.NoError(t, err)
	_, err = e.AddSection("<h1>Chapter Two</h1>\n<p>Hello <em>from</em> two.</p>", "Chapter Two", "", "")
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, e.Write(path))
	return path
}

func readTestFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type recordedChapter struct {
	Index int
	extract.Chapter
}

// fakeSink records everything it is handed.
type fakeSink struct {
	metadata  *epub.Metadata
	cover     []byte
	coverInfo *epub.CoverInfo
	chapters  []recordedChapter
	closed    bool

	failChapter error
}

func (s *fakeSink) WriteMetadata(md epub.Metadata) error {
	s.metadata = &md
	return nil
}

func (s *fakeSink) WriteCover(info *epub.CoverInfo, data []byte) error {
	s.coverInfo = info
	s.cover = data
	return nil
}

func (s *fakeSink) WriteChapter(index int, ch extract.Chapter) error {
	if s.failChapter != nil {
		return s.failChapter
	}
	s.chapters = append(s.chapters, recordedChapter{Index: index, Chapter: ch})
	return nil
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}
