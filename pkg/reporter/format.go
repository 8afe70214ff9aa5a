package reporter

import "fmt"

// Format selects how run results are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDiff Format = "diff"
)

// ParseFormat maps a user-supplied format name to a Format. The empty
// string means text.
func ParseFormat(name string) (Format, error) {
	f := Format(name)
	if name == "" {
		f = FormatText
	}
	if !f.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: text, json, diff", name)
	}
	return f, nil
}

func (f Format) String() string { return string(f) }

// IsValid reports whether f names a supported format.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	}
	return false
}
