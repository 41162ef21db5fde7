package output

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuanying/epub2txt/internal/epub"
	"github.com/yuanying/epub2txt/internal/extract"
)

// ChaptersDir is the sub-directory holding one file per chapter.
const ChaptersDir = "chapters"

// Options controls what a Dir writes.
type Options struct {
	Split     bool   // one file per chapter
	Combine   bool   // one file for the whole book
	Metadata  bool   // metadata.toml
	Separator string // line between chapters in the combined file
	Heading   Heading
	Cover     CoverOptions
	Logger    *slog.Logger
}

// Dir writes one book into its own directory:
//
//	<root>/<book>/chapters/chapter_001.txt
//	<root>/<book>/<book>.txt
//	<root>/<book>/metadata.toml
//	<root>/<book>/cover.jpg
type Dir struct {
	Path string

	name     string
	opts     Options
	logger   *slog.Logger
	combined *os.File
	buf      *bufio.Writer
	written  int
}

// NewDir prepares the directory for a book. bookName is the fallback for
// naming when the book has no title.
func NewDir(root, bookName string, opts Options) *Dir {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := sanitizeFilename(bookName)
	if name == "" {
		name = "book"
	}
	return &Dir{
		Path:   filepath.Join(root, name),
		name:   name,
		opts:   opts,
		logger: logger,
	}
}

// WriteMetadata creates the book directory, writes metadata.toml and starts
// the combined file with its header.
func (d *Dir) WriteMetadata(md epub.Metadata) error {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if d.opts.Metadata {
		if err := d.writeMetadataFile(md); err != nil {
			return err
		}
	}

	if d.opts.Split {
		if err := os.MkdirAll(filepath.Join(d.Path, ChaptersDir), 0o755); err != nil {
			return fmt.Errorf("failed to create chapters directory: %w", err)
		}
	}

	if !d.opts.Combine {
		return nil
	}

	title := md.Title
	if title == "" {
		title = d.name
	}
	fileName := sanitizeFilename(title)
	if fileName == "" {
		fileName = d.name
	}
	f, err := os.Create(filepath.Join(d.Path, fileName+".txt"))
	if err != nil {
		return fmt.Errorf("failed to create combined file: %w", err)
	}
	d.combined = f
	d.buf = bufio.NewWriter(f)

	fmt.Fprintf(d.buf, "%s\n\n", title)
	if author := md.Author(); author != "" {
		fmt.Fprintf(d.buf, "Author: %s\n\n", author)
	}
	if md.Description != "" {
		fmt.Fprintf(d.buf, "Description: %s\n\n", md.Description)
	}
	return nil
}

func (d *Dir) writeMetadataFile(md epub.Metadata) error {
	f, err := os.Create(filepath.Join(d.Path, MetadataFile))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", MetadataFile, err)
	}
	if err := EncodeMetadata(f, md); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", MetadataFile, err)
	}
	return f.Close()
}

// WriteCover exports the cover as cover.jpg.
func (d *Dir) WriteCover(info *epub.CoverInfo, data []byte) error {
	path := filepath.Join(d.Path, CoverFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cover file: %w", err)
	}
	if err := EncodeCover(f, data, d.opts.Cover); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	d.logger.Debug("cover written", "source", info.Href, "path", path)
	return f.Close()
}

// WriteChapter writes the chapter file and appends the chapter to the
// combined file.
func (d *Dir) WriteChapter(index int, ch extract.Chapter) error {
	heading := d.opts.Heading.Format(index, ch.Title)

	if d.opts.Split {
		path := filepath.Join(d.Path, ChaptersDir, ChapterFileName(index))
		body := heading + "\n\n" + ch.Content + "\n"
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	if d.buf != nil {
		if d.written > 0 {
			if d.opts.Separator != "" {
				fmt.Fprintf(d.buf, "\n%s\n\n", d.opts.Separator)
			} else {
				d.buf.WriteString("\n")
			}
		}
		fmt.Fprintf(d.buf, "%s\n\n%s\n", heading, ch.Content)
	}
	d.written++
	return nil
}

// Close flushes and closes the combined file.
func (d *Dir) Close() error {
	if d.combined == nil {
		return nil
	}
	err := d.buf.Flush()
	err = errors.Join(err, d.combined.Close())
	d.combined = nil
	if err != nil {
		return fmt.Errorf("failed to close combined file: %w", err)
	}
	return nil
}

// ChapterFileName names the file for the chapter at 0-based index.
func ChapterFileName(index int) string {
	return fmt.Sprintf("chapter_%03d.txt", index+1)
}
