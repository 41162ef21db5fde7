package epub

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
)

// DefaultMaxEntrySize caps the decompressed size of a single entry.
const DefaultMaxEntrySize int64 = 256 * 1024 * 1024

// EntryOpener yields the byte stream of one archive entry by exact name.
type EntryOpener interface {
	Open(name string) (io.ReadCloser, error)
}

// Archive provides access to EPUB file contents.
//
// An Archive is not safe for concurrent use: each entry must be fully read
// and closed before the next one is opened.
type Archive struct {
	zipReader    *zip.Reader
	closer       io.Closer
	files        map[string]*zip.File
	lower        map[string]*zip.File
	MaxEntrySize int64
}

// Open opens an EPUB file at path.
func Open(path string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open EPUB: %w", err)
	}
	a := newArchive(&zr.Reader)
	a.closer = zr
	return a, nil
}

// NewReader creates an Archive from r. Close is a no-op for such archives;
// the caller owns r.
func NewReader(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open EPUB: %w", err)
	}
	return newArchive(zr), nil
}

func newArchive(zr *zip.Reader) *Archive {
	a := &Archive{
		zipReader:    zr,
		files:        make(map[string]*zip.File, len(zr.File)),
		lower:        make(map[string]*zip.File, len(zr.File)),
		MaxEntrySize: DefaultMaxEntrySize,
	}
	for _, f := range zr.File {
		name := normalizeEntryName(f.Name)
		if _, dup := a.files[name]; !dup {
			a.files[name] = f
		}
		low := strings.ToLower(name)
		if _, dup := a.lower[low]; !dup {
			a.lower[low] = f
		}
	}
	return a
}

// Close closes the underlying file, if Archive owns one.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Names returns every entry name in sorted order.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether an entry can be found under name.
func (a *Archive) Has(name string) bool {
	return a.lookup(name) != nil
}

// Open opens the named entry. Lookup is exact first, then case-insensitive,
// then with percent-escapes decoded.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f := a.lookup(name)
	if f == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrEntryNotFound)
	}
	if a.MaxEntrySize > 0 && f.UncompressedSize64 > uint64(a.MaxEntrySize) {
		return nil, fmt.Errorf("entry %s too large: %d bytes (max %d)", name, f.UncompressedSize64, a.MaxEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", name, err)
	}
	if a.MaxEntrySize <= 0 {
		return rc, nil
	}
	return &limitedEntry{rc: rc, name: name, remaining: a.MaxEntrySize}, nil
}

// ReadFile reads the full contents of the named entry.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	return ReadEntry(a, name)
}

// ReadEntry reads a whole entry from any EntryOpener.
func ReadEntry(r EntryOpener, name string) ([]byte, error) {
	rc, err := r.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", name, err)
	}
	return data, nil
}

func (a *Archive) lookup(name string) *zip.File {
	name = normalizeEntryName(name)
	if f, ok := a.files[name]; ok {
		return f
	}
	if f, ok := a.lower[strings.ToLower(name)]; ok {
		return f
	}
	if decoded, err := url.PathUnescape(name); err == nil && decoded != name {
		if f, ok := a.files[decoded]; ok {
			return f
		}
		if f, ok := a.lower[strings.ToLower(decoded)]; ok {
			return f
		}
	}
	return nil
}

// normalizeEntryName removes a leading "./" or "/" from an entry name.
func normalizeEntryName(name string) string {
	name = strings.TrimPrefix(name, "./")
	return strings.TrimPrefix(name, "/")
}

var errEntryTooLarge = errors.New("decompressed size exceeds limit")

type limitedEntry struct {
	rc        io.ReadCloser
	name      string
	remaining int64
}

func (l *limitedEntry) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// Probe one byte to tell a forged size header from a clean EOF.
		var probe [1]byte
		n, err := l.rc.Read(probe[:])
		if n > 0 {
			return 0, fmt.Errorf("entry %s: %w", l.name, errEntryTooLarge)
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.rc.Read(p)
	l.remaining -= int64(n)
	return n, err
}

func (l *limitedEntry) Close() error {
	return l.rc.Close()
}
