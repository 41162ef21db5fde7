package epub

import "testing"

func TestRoleLabel(t *testing.T) {
	tests := map[string]string{
		"":    "author",
		"aut": "author",
		"edt": "editor",
		"trl": "translator",
		"ill": "illustrator",
		"nrt": "unknown",
		"AUT": "unknown",
	}
	for code, want := range tests {
		if got := RoleLabel(code); got != want {
			t.Errorf("RoleLabel(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestMetadataLabelled_LastWriterWins(t *testing.T) {
	md := Metadata{Creators: []Creator{
		{Name: "Writer", Role: "aut"},
		{Name: "First Editor", Role: "edt"},
		{Name: "Second Editor", Role: "edt"},
		{Name: "Someone", Role: "xyz"},
	}}

	got := md.Labelled()
	if len(got) != 3 {
		t.Fatalf("Labelled() = %v, want 3 labels", got)
	}
	if got["editor"] != "Second Editor" {
		t.Errorf("editor = %q, want the last editor", got["editor"])
	}
	if got["author"] != "Writer" || got["unknown"] != "Someone" {
		t.Errorf("Labelled() = %v", got)
	}

	all := md.CreatorsByLabel()
	if eds := all["editor"]; len(eds) != 2 || eds[0] != "First Editor" || eds[1] != "Second Editor" {
		t.Errorf("CreatorsByLabel()[editor] = %v", eds)
	}
}

func TestMetadataAuthor(t *testing.T) {
	md := Metadata{Creators: []Creator{
		{Name: "Ed", Role: "edt"},
		{Name: "First", Role: ""},
		{Name: "Second", Role: "aut"},
	}}
	if got := md.Author(); got != "First" {
		t.Errorf("Author() = %q, want %q", got, "First")
	}
	if got := (Metadata{}).Author(); got != "" {
		t.Errorf("Author() on empty metadata = %q", got)
	}
}
