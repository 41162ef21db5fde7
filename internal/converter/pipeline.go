package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/yuanying/epub2txt/internal/epub"
	"github.com/yuanying/epub2txt/internal/extract"
	"github.com/yuanying/epub2txt/internal/output"
)

// Options holds options for the conversion pipeline.
type Options struct {
	Classifier      *extract.Classifier // nil uses the default tag sets
	StripTitle      bool                // drop a title repeated as the first body line
	SkipBadChapters bool                // log and skip chapters that fail to extract
	Cover           bool                // hand the cover image to the sink
	MaxMarkupBuf    int                 // tokenizer buffer limit, 0 = unlimited
	MaxEntrySize    int64               // per-entry decompression limit, 0 = default
	Logger          *slog.Logger
}

// Sink receives the output of one book.
type Sink interface {
	WriteMetadata(md epub.Metadata) error
	WriteCover(info *epub.CoverInfo, data []byte) error
	WriteChapter(index int, ch extract.Chapter) error
	Close() error
}

// SinkFactory creates the sink for an opened book.
type SinkFactory func(b *Book) (Sink, error)

// Stats summarises one converted book.
type Stats struct {
	Title    string
	Chapters int
	Skipped  int
	Cover    bool
}

// Pipeline orchestrates the EPUB to text conversion.
type Pipeline struct {
	Options Options
	newSink SinkFactory
	logger  *slog.Logger
}

// NewPipeline creates a new conversion pipeline.
func NewPipeline(opts Options, newSink SinkFactory) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Options: opts, newSink: newSink, logger: logger}
}

// Convert executes the pipeline for the archive at path. Chapters are read
// in spine order and handed to the sink as they are produced.
func (p *Pipeline) Convert(ctx context.Context, path string) (Stats, error) {
	return p.convert(ctx, path, "")
}

// convert is Convert with name overriding the book's output name.
func (p *Pipeline) convert(ctx context.Context, path, name string) (stats Stats, err error) {
	book, err := OpenBook(path, p.Options)
	if err != nil {
		return stats, err
	}
	defer book.Close()
	book.name = name

	logger := p.logger.With("book", path)
	md := book.Metadata()
	stats.Title = md.Title
	logger.Debug("package parsed",
		"descriptor", book.Package.Path,
		"title", md.Title,
		"chapters", len(book.ChapterPaths()))

	sink, err := p.newSink(book)
	if err != nil {
		return stats, fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()

	if err := sink.WriteMetadata(md); err != nil {
		return stats, fmt.Errorf("failed to write metadata: %w", err)
	}

	if p.Options.Cover {
		stats.Cover, err = p.writeCover(book, sink, logger)
		if err != nil {
			return stats, err
		}
	}

	it := book.Chapters()
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		ch, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var chErr *ChapterError
			if p.Options.SkipBadChapters && errors.As(err, &chErr) {
				logger.Warn("skipping chapter", "error", err)
				stats.Skipped++
				continue
			}
			return stats, err
		}

		if err := sink.WriteChapter(ch.Index, ch.Chapter); err != nil {
			return stats, fmt.Errorf("failed to write chapter %d: %w", ch.Index+1, err)
		}
		stats.Chapters++
		logger.Debug("chapter extracted", "index", ch.Index+1, "path", ch.Path, "title", ch.Title)
	}

	logger.Info("book converted", "chapters", stats.Chapters, "skipped", stats.Skipped)
	return stats, nil
}

// writeCover passes the cover to the sink. A book without a cover, or with an
// unreadable one, is not an error.
func (p *Pipeline) writeCover(book *Book, sink Sink, logger *slog.Logger) (bool, error) {
	info, data, err := book.Cover()
	if errors.Is(err, epub.ErrNoCover) {
		logger.Debug("no cover image found")
		return false, nil
	}
	if err != nil {
		logger.Warn("failed to read cover", "error", err)
		return false, nil
	}
	logger.Debug("cover detected", "href", info.Href, "method", info.DetectionMethod)
	if err := sink.WriteCover(info, data); err != nil {
		if errors.Is(err, output.ErrUnsupportedCover) {
			logger.Warn("skipping cover", "href", info.Href, "media_type", info.MediaType, "error", err)
			return false, nil
		}
		return false, fmt.Errorf("failed to write cover: %w", err)
	}
	return true, nil
}
