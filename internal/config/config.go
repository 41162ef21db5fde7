// Package config loads the optional TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/yuanying/epub2txt/internal/extract"
	"github.com/yuanying/epub2txt/internal/output"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "config.toml"

// Config is the on-disk configuration. Omitted keys keep their defaults.
type Config struct {
	OutputDir string  `toml:"output_dir"`
	InputDir  string  `toml:"input_dir"`
	Separator string  `toml:"separator"`
	Tags      Tags    `toml:"tags"`
	Options   Options `toml:"options"`
	Heading   Heading `toml:"heading"`

	// Unknown lists keys present in the file that nothing reads.
	Unknown []string `toml:"-"`
}

type Tags struct {
	Title  []string `toml:"title"`
	Block  []string `toml:"block"`
	Inline []string `toml:"inline"`
}

type Options struct {
	Split         bool `toml:"split"`
	Combine       bool `toml:"combine"`
	Metadata      bool `toml:"metadata"`
	Cover         bool `toml:"cover"`
	CoverMaxWidth int  `toml:"cover_max_width"`
	StripTitle    bool `toml:"strip_title"`
}

type Heading struct {
	Style        string `toml:"style"`
	StartNumber  int    `toml:"start_number"`
	StartChapter int    `toml:"start_chapter"`
	Digits       int    `toml:"digits"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputDir: "output",
		InputDir:  "input",
		Tags: Tags{
			Title:  slices.Clone(extract.DefaultTitleTags),
			Block:  slices.Clone(extract.DefaultBlockTags),
			Inline: slices.Clone(extract.DefaultInlineTags),
		},
		Options: Options{
			Split:         true,
			Combine:       true,
			Metadata:      true,
			CoverMaxWidth: 1200,
			StripTitle:    true,
		},
		Heading: Heading{
			Style:        string(output.HeadingPlain),
			StartNumber:  1,
			StartChapter: 1,
			Digits:       2,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (c *Config) normalize() error {
	c.Tags.Title = lowerAll(c.Tags.Title)
	c.Tags.Block = lowerAll(c.Tags.Block)
	c.Tags.Inline = lowerAll(c.Tags.Inline)
	return c.Validate()
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if _, err := output.ParseHeadingStyle(c.Heading.Style); err != nil {
		return err
	}
	if c.Heading.StartChapter < 1 {
		return fmt.Errorf("heading.start_chapter must be at least 1, got %d", c.Heading.StartChapter)
	}
	if c.Heading.Digits < 0 {
		return fmt.Errorf("heading.digits must not be negative, got %d", c.Heading.Digits)
	}
	if c.Options.CoverMaxWidth < 0 {
		return fmt.Errorf("options.cover_max_width must not be negative, got %d", c.Options.CoverMaxWidth)
	}
	return nil
}

// Classifier builds the tag classifier for the configured tag sets.
func (c *Config) Classifier() *extract.Classifier {
	return extract.NewClassifier(c.Tags.Title, c.Tags.Block, c.Tags.Inline)
}

// OutputHeading converts the heading section for the output package.
func (c *Config) OutputHeading() output.Heading {
	style, err := output.ParseHeadingStyle(c.Heading.Style)
	if err != nil {
		style = output.HeadingPlain
	}
	return output.Heading{
		Style:        style,
		StartNumber:  c.Heading.StartNumber,
		StartChapter: c.Heading.StartChapter,
		Digits:       c.Heading.Digits,
	}
}

func lowerAll(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
