package converter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yuanying/epub2txt/internal/epub"
	"github.com/yuanying/epub2txt/internal/extract"
)

// Book is one opened archive together with its parsed package. It owns the
// archive reader; chapters are read strictly one at a time.
type Book struct {
	Path    string
	Package *epub.Package

	archive   *epub.Archive
	extractor *extract.Extractor
	opts      Options
	name      string
}

// OpenBook opens the archive at path, rejects DRM-protected books, locates
// and parses the package descriptor.
func OpenBook(path string, opts Options) (*Book, error) {
	archive, err := epub.Open(path)
	if err != nil {
		return nil, err
	}
	b, err := newBook(path, archive, opts)
	if err != nil {
		archive.Close()
		return nil, err
	}
	return b, nil
}

// NewBook reads an archive from r. name is used for messages and output
// naming only.
func NewBook(name string, r io.ReaderAt, size int64, opts Options) (*Book, error) {
	archive, err := epub.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	return newBook(name, archive, opts)
}

func newBook(path string, archive *epub.Archive, opts Options) (*Book, error) {
	if opts.MaxEntrySize != 0 {
		archive.MaxEntrySize = opts.MaxEntrySize
	}

	if err := epub.CheckDRM(archive); err != nil {
		return nil, err
	}

	descriptor, err := epub.LocatePackage(archive)
	if err != nil {
		return nil, fmt.Errorf("failed to locate package descriptor: %w", err)
	}

	pkg, err := epub.ParsePackage(archive, descriptor)
	if err != nil {
		return nil, fmt.Errorf("failed to parse package descriptor %s: %w", descriptor, err)
	}

	return &Book{
		Path:      path,
		Package:   pkg,
		archive:   archive,
		extractor: extract.New(opts.Classifier, extract.Options{MaxBuf: opts.MaxMarkupBuf}),
		opts:      opts,
	}, nil
}

// Close closes the archive.
func (b *Book) Close() error {
	return b.archive.Close()
}

// Name is the archive file name without directory and extension, unless a
// batch assigned the book a unique name.
func (b *Book) Name() string {
	if b.name != "" {
		return b.name
	}
	return stem(b.Path)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Metadata returns the parsed bibliographic metadata.
func (b *Book) Metadata() epub.Metadata {
	return b.Package.Metadata
}

// ChapterPaths returns chapter entry names in reading order.
func (b *Book) ChapterPaths() []string {
	return b.Package.Chapters
}

// Cover detects the cover image and returns its bytes.
func (b *Book) Cover() (*epub.CoverInfo, []byte, error) {
	info, err := b.Package.DetectCover(b.archive)
	if err != nil {
		return nil, nil, err
	}
	data, err := b.archive.ReadFile(info.Href)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cover %s: %w", info.Href, err)
	}
	return info, data, nil
}

// Chapters returns an iterator over the book's chapters in spine order.
func (b *Book) Chapters() *ChapterIter {
	return &ChapterIter{book: b}
}

// ExtractChapter reads and extracts the chapter at entry name.
func (b *Book) ExtractChapter(name string) (extract.Chapter, error) {
	rc, err := b.archive.Open(name)
	if err != nil {
		return extract.Chapter{}, err
	}
	defer rc.Close()

	ch, err := b.extractor.Extract(rc)
	if err != nil {
		return extract.Chapter{}, err
	}
	if b.opts.StripTitle {
		ch.Content = extract.StripLeadingTitle(ch.Content, ch.Title)
	}
	return ch, nil
}

// Chapter extracts the chapter at the 0-based spine index without touching
// the others.
func (b *Book) Chapter(index int) (Chapter, error) {
	paths := b.Package.Chapters
	if index < 0 || index >= len(paths) {
		return Chapter{}, fmt.Errorf("chapter %d out of range, book has %d chapters", index+1, len(paths))
	}
	ch, err := b.ExtractChapter(paths[index])
	if err != nil {
		return Chapter{}, &ChapterError{Index: index, Path: paths[index], Err: err}
	}
	return Chapter{Index: index, Path: paths[index], Chapter: ch}, nil
}

// ChapterError reports a chapter that could not be extracted. Chapters
// before it are unaffected.
type ChapterError struct {
	Index int
	Path  string
	Err   error
}

func (e *ChapterError) Error() string {
	return fmt.Sprintf("chapter %d (%s): %v", e.Index+1, e.Path, e.Err)
}

func (e *ChapterError) Unwrap() error {
	return e.Err
}

// ChapterIter yields chapters lazily, one archive entry at a time.
//
//	it := book.Chapters()
//	for {
//		ch, err := it.Next()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
//
// A *ChapterError does not end the iteration; calling Next again moves on to
// the following chapter.
type ChapterIter struct {
	book *Book
	next int
}

// Chapter is an extracted chapter with its position in the spine.
type Chapter struct {
	Index int
	Path  string
	extract.Chapter
}

// Next extracts the next chapter. It returns io.EOF after the last one.
func (it *ChapterIter) Next() (Chapter, error) {
	if it.next >= len(it.book.Package.Chapters) {
		return Chapter{}, io.EOF
	}
	idx := it.next
	it.next++
	return it.book.Chapter(idx)
}

// Remaining returns the number of chapters not yet visited.
func (it *ChapterIter) Remaining() int {
	return len(it.book.Package.Chapters) - it.next
}
