package epub

import "strings"

// parentMarker is kept in a resolved path when ".." would climb above the
// archive root.
const parentMarker = ".."

// ResolvePath resolves a manifest href against the directory holding the
// package descriptor. It never touches the archive or the host filesystem.
//
//	ResolvePath("OEBPS", "../Images/x.jpg") // "Images/x.jpg"
//	ResolvePath("", "./a/b")                // "a/b"
//	ResolvePath("", "../x")                 // "../x"
//
// The result always uses "/" as separator since it names a zip entry.
func ResolvePath(baseDir, rel string) string {
	var parts []string
	parts = appendComponents(parts, baseDir)
	parts = appendComponents(parts, rel)
	return strings.Join(parts, "/")
}

func appendComponents(parts []string, p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, comp := range strings.Split(p, "/") {
		switch comp {
		case "", ".":
		case parentMarker:
			if n := len(parts); n > 0 && parts[n-1] != parentMarker {
				parts = parts[:n-1]
			} else {
				parts = append(parts, parentMarker)
			}
		default:
			parts = append(parts, comp)
		}
	}
	return parts
}

// Dir returns the directory part of an archive entry name, or "" for an entry
// at the archive root.
func Dir(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[:i]
	}
	return ""
}

// stripFragment drops a "#fragment" suffix from an href.
func stripFragment(href string) string {
	pathPart, _, _ := strings.Cut(href, "#")
	return pathPart
}
