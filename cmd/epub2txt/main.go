package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuanying/epub2txt/internal/config"
	"github.com/yuanying/epub2txt/internal/converter"
	"github.com/yuanying/epub2txt/internal/output"
)

const defaultJPEGQuality = 85

type cliOptions struct {
	Inputs        []string
	InputDir      string
	OutputDir     string
	Jobs          int
	FailFast      bool
	List          bool
	Config        *config.Config
	ConverterOpts converter.Options
	OutputOpts    output.Options
	Logger        *slog.Logger
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epub2txt [book.epub ...]",
		Short: "Extract plain text from EPUB files",
		Long: `epub2txt reads EPUB ebooks and writes their chapters as plain text.

Each book gets its own directory under the output directory holding one
file per chapter, the whole book in a single file and a metadata.toml.
Without arguments every *.epub in the configured input directory is
converted.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.String("config", config.DefaultPath, "Configuration file (optional)")
	f.StringP("output", "o", "", "Output directory (default: output_dir from config)")
	f.String("input-dir", "", "Directory scanned for *.epub when no files are given")
	f.Bool("split", true, "Write one file per chapter")
	f.Bool("combine", true, "Write the whole book into one file")
	f.Bool("metadata", true, "Write metadata.toml")
	f.Bool("cover", false, "Export the cover image as cover.jpg")
	f.Int("cover-max-width", 0, "Maximum cover width in pixels, 0 keeps the original")
	f.Bool("strip-title", true, "Drop a chapter title repeated at the start of its text")
	f.String("separator", "", "Line written between chapters in the combined file")
	f.String("heading-style", "", "Chapter heading style: plain, chinese or number")
	f.Int("start-number", 0, "First heading number")
	f.Int("start-chapter", 0, "First chapter (1-based) that gets a number")
	f.Int("digits", 0, "Zero padding for the number heading style")
	f.IntP("jobs", "j", 4, "Books converted in parallel")
	f.Bool("fail-fast", false, "Stop starting new books after the first failure")
	f.Bool("skip-bad-chapters", false, "Skip chapters whose markup cannot be read")
	f.Bool("list", false, "Print metadata and chapter paths without writing anything")
	f.String("log-level", "info", "Log level: debug, info, warn, error")
	f.String("log-format", "text", "Log format: text, json")
	f.BoolP("verbose", "v", false, "Shorthand for --log-level debug")
	return cmd
}

func readCLIOptions(cmd *cobra.Command, args []string) (*cliOptions, error) {
	f := cmd.Flags()

	logLevel, _ := f.GetString("log-level")
	logFormat, _ := f.GetString("log-format")
	verbose, _ := f.GetBool("verbose")
	logLevel = strings.ToLower(logLevel)
	logFormat = strings.ToLower(logFormat)
	if _, err := parseLogLevel(logLevel); err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("invalid --log-format %q: must be text or json", logFormat)
	}
	if verbose {
		logLevel = "debug"
	}
	logger := buildLogger(cmd.ErrOrStderr(), logLevel, logFormat)

	configPath, _ := f.GetString("config")
	if f.Changed("config") && !config.Exists(configPath) {
		return nil, fmt.Errorf("config file %s not found", configPath)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	for _, key := range cfg.Unknown {
		logger.Warn("unknown config key", "key", key, "file", configPath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	jobs, _ := f.GetInt("jobs")
	if jobs < 1 {
		return nil, fmt.Errorf("invalid --jobs %d: must be at least 1", jobs)
	}
	failFast, _ := f.GetBool("fail-fast")
	skipBad, _ := f.GetBool("skip-bad-chapters")
	list, _ := f.GetBool("list")

	return &cliOptions{
		Inputs:    args,
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Jobs:      jobs,
		FailFast:  failFast,
		List:      list,
		Config:    cfg,
		ConverterOpts: converter.Options{
			Classifier:      cfg.Classifier(),
			StripTitle:      cfg.Options.StripTitle,
			SkipBadChapters: skipBad,
			Cover:           cfg.Options.Cover,
			Logger:          logger,
		},
		OutputOpts: output.Options{
			Split:     cfg.Options.Split,
			Combine:   cfg.Options.Combine,
			Metadata:  cfg.Options.Metadata,
			Separator: cfg.Separator,
			Heading:   cfg.OutputHeading(),
			Cover: output.CoverOptions{
				MaxWidth:    cfg.Options.CoverMaxWidth,
				JPEGQuality: defaultJPEGQuality,
			},
			Logger: logger,
		},
		Logger: logger,
	}, nil
}

// applyFlags overrides config values with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	setString := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	setBool := func(name string, dst *bool) {
		if f.Changed(name) {
			*dst, _ = f.GetBool(name)
		}
	}
	setInt := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}

	setString("output", &cfg.OutputDir)
	setString("input-dir", &cfg.InputDir)
	setString("separator", &cfg.Separator)
	setBool("split", &cfg.Options.Split)
	setBool("combine", &cfg.Options.Combine)
	setBool("metadata", &cfg.Options.Metadata)
	setBool("cover", &cfg.Options.Cover)
	setInt("cover-max-width", &cfg.Options.CoverMaxWidth)
	setBool("strip-title", &cfg.Options.StripTitle)
	setString("heading-style", &cfg.Heading.Style)
	setInt("start-number", &cfg.Heading.StartNumber)
	setInt("start-chapter", &cfg.Heading.StartChapter)
	setInt("digits", &cfg.Heading.Digits)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%q is not one of debug, info, warn, error", level)
}

func buildLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, err := parseLogLevel(strings.ToLower(level))
	if err != nil {
		lvl = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// resolveInputs returns args, or every *.epub directly inside dir when no
// args are given.
func resolveInputs(args []string, dir string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".epub") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .epub files found in %s", dir)
	}
	return paths, nil
}

func run(ctx context.Context, w io.Writer, opts *cliOptions) error {
	inputs, err := resolveInputs(opts.Inputs, opts.InputDir)
	if err != nil {
		return err
	}

	if opts.List {
		return listBooks(w, inputs, opts.ConverterOpts)
	}

	p := converter.NewPipeline(opts.ConverterOpts, func(b *converter.Book) (converter.Sink, error) {
		return output.NewDir(opts.OutputDir, b.Name(), opts.OutputOpts), nil
	})

	opts.Logger.Info("converting", "books", len(inputs), "output", opts.OutputDir, "jobs", opts.Jobs)
	results := p.Batch(ctx, inputs, converter.BatchConfig{
		MaxConcurrency: opts.Jobs,
		FailFast:       opts.FailFast,
	})

	fmt.Fprintln(w, renderSummary(results))

	if failed := countFailed(results); failed > 0 {
		return fmt.Errorf("%d of %d books failed", failed, len(results))
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
