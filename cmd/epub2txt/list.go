package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/yuanying/epub2txt/internal/converter"
)

// listBooks prints what would be converted without writing anything.
func listBooks(w io.Writer, paths []string, opts converter.Options) error {
	var errs []error
	for _, path := range paths {
		if err := listBook(w, path, opts); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func listBook(w io.Writer, path string, opts converter.Options) error {
	book, err := converter.OpenBook(path, opts)
	if err != nil {
		return err
	}
	defer book.Close()

	md := book.Metadata()
	fmt.Fprintf(w, "%s\n", headerStyle.Render(path))
	fmt.Fprintf(w, "  title:       %s\n", md.Title)
	creators := md.CreatorsByLabel()
	for _, label := range slices.Sorted(maps.Keys(creators)) {
		fmt.Fprintf(w, "  %-12s %s\n", label+":", strings.Join(creators[label], ", "))
	}
	if md.Language != "" {
		fmt.Fprintf(w, "  language:    %s\n", md.Language)
	}
	if len(md.Subjects) > 0 {
		fmt.Fprintf(w, "  subjects:    %s\n", strings.Join(md.Subjects, ", "))
	}
	fmt.Fprintf(w, "  descriptor:  %s\n", book.Package.Path)
	fmt.Fprintf(w, "  chapters:    %d\n", len(book.ChapterPaths()))
	for i, p := range book.ChapterPaths() {
		fmt.Fprintf(w, "    %3d  %s\n", i+1, p)
	}
	return nil
}
