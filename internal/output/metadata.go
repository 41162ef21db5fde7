package output

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/yuanying/epub2txt/internal/epub"
)

// MetadataFile is the metadata file name inside a book directory.
const MetadataFile = "metadata.toml"

// metadataDocument flattens metadata into TOML keys. Creators are keyed by
// their role label; two creators with the same label collapse to the last.
func metadataDocument(md epub.Metadata) map[string]any {
	doc := make(map[string]any)
	if md.Title != "" {
		doc["title"] = md.Title
	}
	for label, name := range md.Labelled() {
		doc[label] = name
	}
	if md.Language != "" {
		doc["language"] = md.Language
	}
	if md.Description != "" {
		doc["description"] = md.Description
	}
	if len(md.Subjects) > 0 {
		doc["subject"] = md.Subjects
	}
	return doc
}

// EncodeMetadata writes md as TOML.
func EncodeMetadata(w io.Writer, md epub.Metadata) error {
	return toml.NewEncoder(w).Encode(metadataDocument(md))
}
