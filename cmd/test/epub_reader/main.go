// Test program for the EPUB archive reader
//
// Usage:
//
//	go run ./cmd/test/epub_reader/main.go <epub-file> (<entry-name> ...)
//
// This program:
// - Opens the EPUB file (ZIP archive)
// - Checks for DRM markers
// - Locates the package descriptor through META-INF/container.xml
// - Lists all entries in the archive
// - Reads the named entries and prints them
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/yuanying/epub2txt/internal/epub"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/test/epub_reader/main.go <epub-file> (<entry-name> ...)")
		os.Exit(1)
	}

	epubPath := os.Args[1]
	entries := os.Args[2:]

	fmt.Printf("Opening EPUB file: %s\n", epubPath)
	archive, err := epub.Open(epubPath)
	if err != nil {
		log.Fatalf("Failed to open EPUB: %v", err)
	}
	defer archive.Close()
	fmt.Printf("✓ EPUB opened successfully\n")

	if err := epub.CheckDRM(archive); err != nil {
		fmt.Printf("! %v\n", err)
	}

	descriptor, err := epub.LocatePackage(archive)
	if err != nil {
		log.Fatalf("Failed to locate package descriptor: %v", err)
	}
	fmt.Printf("Package descriptor: %s\n\n", descriptor)

	names := archive.Names()
	fmt.Printf("Total entries: %d\n", len(names))
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}

	for _, name := range entries {
		fmt.Printf("\nReading entry: %s\n", name)
		content, err := epub.ReadEntry(archive, name)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", name, err)
		}
		fmt.Printf("✓ %s read successfully (%d bytes)\n", name, len(content))
		fmt.Printf("Content:\n%s\n", content)
	}
}
