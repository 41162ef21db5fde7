// Test program for package descriptor parsing
//
// Usage:
//   go run ./cmd/test/opf_parser/main.go <epub-file-path>
//
// This program will:
// - Open the EPUB file
// - Parse the package descriptor
// - Display metadata (title, creators with role labels, language, etc.)
// - Summarise the manifest
// - Show the resolved chapter order
// - Show the cover image if found

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yuanying/epub2txt/internal/epub"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <epub-file-path>\n", os.Args[0])
		os.Exit(1)
	}

	epubPath := os.Args[1]

	fmt.Println("=== EPUB Package Parser Test ===")
	fmt.Printf("File: %s\n\n", epubPath)

	archive, err := epub.Open(epubPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening EPUB: %v\n", err)
		os.Exit(1)
	}
	defer archive.Close()

	descriptor, err := epub.LocatePackage(archive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating package descriptor: %v\n", err)
		os.Exit(1)
	}

	pkg, err := epub.ParsePackage(archive, descriptor)
	var missing *epub.MissingChapterReferenceError
	if errors.As(err, &missing) {
		fmt.Fprintf(os.Stderr, "Spine references %q but the manifest has no XHTML item for it\n", missing.ID)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing package: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ %s parsed successfully\n", pkg.Path)

	md := pkg.Metadata
	fmt.Println("--- Metadata ---")
	fmt.Printf("Title:       %s\n", md.Title)
	fmt.Printf("Language:    %s\n", md.Language)
	fmt.Printf("Identifier:  %s\n", md.Identifier)

	if len(md.Creators) > 0 {
		fmt.Println("Creators:")
		for i, creator := range md.Creators {
			fmt.Printf("  %d. %s (role: %q -> %s)\n", i+1, creator.Name, creator.Role, creator.Label())
		}
	}
	if md.Publisher != "" {
		fmt.Printf("Publisher:   %s\n", md.Publisher)
	}
	if md.Date != "" {
		fmt.Printf("Date:        %s\n", md.Date)
	}
	if md.Description != "" {
		fmt.Printf("Description: %s\n", md.Description)
	}
	for i, subject := range md.Subjects {
		fmt.Printf("Subject %d:   %s\n", i+1, subject)
	}

	fmt.Printf("\n--- Manifest ---\n")
	fmt.Printf("Total items: %d\n", len(pkg.ManifestOrder))
	mediaTypes := make(map[string]int)
	for _, id := range pkg.ManifestOrder {
		mediaTypes[pkg.Manifest[id].MediaType]++
	}
	for mediaType, count := range mediaTypes {
		fmt.Printf("  %s: %d\n", mediaType, count)
	}

	cover, err := pkg.DetectCover(archive)
	if err != nil {
		fmt.Printf("\nCover Image: (%v)\n", err)
	} else {
		fmt.Printf("\nCover Image: %s (via %s)\n", cover.Href, cover.DetectionMethod)
	}

	fmt.Printf("\n--- Chapters ---\n")
	fmt.Printf("Spine items: %d, chapters: %d\n\n", len(pkg.Spine), len(pkg.Chapters))
	for i, path := range pkg.Chapters {
		fmt.Printf("  %d. %s\n", i+1, path)
	}

	fmt.Println("\n=== Test Completed Successfully ===")
}
