package converter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchConfig configures Batch.
type BatchConfig struct {
	MaxConcurrency int  // 0 or less means unbounded
	FailFast       bool // stop starting new archives after the first failure
}

// Result is the terminal outcome of one archive.
type Result struct {
	Path     string
	Stats    Stats
	Err      error
	Duration time.Duration
}

// Batch converts independent archives concurrently. Each archive gets its
// own reader; nothing is shared between tasks but the read-only options.
// Results are returned in the order of paths. Archives not started because
// of FailFast carry the context error.
//
// Archives sharing a file name get distinct book names ("book", "book-2")
// so their sinks never write to the same place.
func (p *Pipeline) Batch(ctx context.Context, paths []string, cfg BatchConfig) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.MaxConcurrency > 0 {
		g.SetLimit(cfg.MaxConcurrency)
	}

	names := uniqueNames(paths)
	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			start := time.Now()
			stats, err := p.convert(gctx, path, names[i])
			results[i].Stats = stats
			results[i].Err = err
			results[i].Duration = time.Since(start)

			if err != nil {
				p.logger.Error("conversion failed", "book", path, "error", err)
				if cfg.FailFast {
					return err
				}
			}
			return nil
		})
	}

	// Errors are already recorded per result.
	_ = g.Wait()
	return results
}

// uniqueNames returns one book name per path. The first archive with a
// given stem keeps it; later ones get a numeric suffix. Names are compared
// case-insensitively since the output may live on such a filesystem.
func uniqueNames(paths []string) []string {
	names := make([]string, len(paths))
	taken := make(map[string]bool, len(paths))
	for i, path := range paths {
		base := stem(path)
		name := base
		for n := 2; taken[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		taken[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}
