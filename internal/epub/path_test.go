package epub

import "testing"

func TestResolvePath(t *testing.T) {
	tests := []struct {
		base string
		rel  string
		want string
	}{
		{"OEBPS", "../Images/x.jpg", "Images/x.jpg"},
		{"", "./a/b", "a/b"},
		{"", "../x", "../x"},
		{"a", "../../x", "../x"},
		{"..", "..", "../.."},
		{"OEBPS", "text/c1.xhtml", "OEBPS/text/c1.xhtml"},
		{"OEBPS/", "ch.xhtml", "OEBPS/ch.xhtml"},
		{"a/b", "./../c//d", "a/c/d"},
		{"OEBPS", `text\c.xhtml`, "OEBPS/text/c.xhtml"},
		{"", "", ""},
		{"OEBPS", "", "OEBPS"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.rel, func(t *testing.T) {
			if got := ResolvePath(tt.base, tt.rel); got != tt.want {
				t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.base, tt.rel, got, tt.want)
			}
		})
	}
}

func TestResolvePath_DoesNotTouchCase(t *testing.T) {
	if got := ResolvePath("OEBPS", "Text/Chapter.XHTML"); got != "OEBPS/Text/Chapter.XHTML" {
		t.Errorf("ResolvePath() = %q", got)
	}
}

func TestDir(t *testing.T) {
	tests := map[string]string{
		"OEBPS/content.opf": "OEBPS",
		"content.opf":       "",
		"a/b/c.opf":         "a/b",
		`a\b.opf`:           "a",
	}
	for in, want := range tests {
		if got := Dir(in); got != want {
			t.Errorf("Dir(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripFragment(t *testing.T) {
	if got := stripFragment("text/c1.xhtml#sec2"); got != "text/c1.xhtml" {
		t.Errorf("stripFragment() = %q", got)
	}
	if got := stripFragment("text/c1.xhtml"); got != "text/c1.xhtml" {
		t.Errorf("stripFragment() = %q", got)
	}
}
