package epub

import (
	"errors"
	"fmt"
)

var (
	ErrEntryNotFound      = errors.New("entry not found in archive")
	ErrDescriptorNotFound = errors.New("package descriptor path not found in container.xml")
	ErrMalformedXML       = errors.New("malformed XML")
	ErrDRMProtected       = errors.New("archive is DRM protected")
	ErrNoCover            = errors.New("no cover image found")

	// ErrMissingChapterReference matches any *MissingChapterReferenceError via errors.Is.
	ErrMissingChapterReference = errors.New("spine references a missing chapter")
)

// MissingChapterReferenceError reports a spine idref with no surviving
// manifest item. The whole package is rejected when this happens.
type MissingChapterReferenceError struct {
	ID string
}

func (e *MissingChapterReferenceError) Error() string {
	return fmt.Sprintf("spine item %q has no XHTML manifest entry", e.ID)
}

func (e *MissingChapterReferenceError) Is(target error) bool {
	return target == ErrMissingChapterReference
}
