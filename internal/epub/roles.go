package epub

// Role labels used when metadata is flattened into a single-valued map.
const (
	DefaultRoleLabel = "author"
	UnknownRoleLabel = "unknown"
)

var roleLabels = map[string]string{
	"aut": "author",
	"edt": "editor",
	"trl": "translator",
	"ill": "illustrator",
}

// RoleLabel maps a MARC relator code to a human label. An empty code is an
// author; codes outside the table map to UnknownRoleLabel.
func RoleLabel(code string) string {
	if code == "" {
		return DefaultRoleLabel
	}
	if label, ok := roleLabels[code]; ok {
		return label
	}
	return UnknownRoleLabel
}

// Label returns the human label for the creator's role.
func (c Creator) Label() string {
	return RoleLabel(c.Role)
}

// Labelled flattens creators into label -> name. Creators sharing a label
// overwrite each other in document order, so the last one wins.
func (m Metadata) Labelled() map[string]string {
	out := make(map[string]string, len(m.Creators))
	for _, c := range m.Creators {
		out[c.Label()] = c.Name
	}
	return out
}

// CreatorsByLabel groups every creator name under its label, keeping all of
// them. It is the lossless alternative to Labelled.
func (m Metadata) CreatorsByLabel() map[string][]string {
	out := make(map[string][]string, len(m.Creators))
	for _, c := range m.Creators {
		label := c.Label()
		out[label] = append(out[label], c.Name)
	}
	return out
}

// Author returns the first creator labelled as an author, or "".
func (m Metadata) Author() string {
	for _, c := range m.Creators {
		if c.Label() == DefaultRoleLabel {
			return c.Name
		}
	}
	return ""
}
