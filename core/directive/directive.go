// Package directive recognises quoted include lines and holds the table of
// system header names that are never inlined.
package directive

import "regexp"

// Kind classifies the target of an include directive.
type Kind int

const (
	Local Kind = iota
	SystemHeader
	Excluded
)

func (k Kind) String() string {
	switch k {
	case Local:
		return "Local"
	case SystemHeader:
		return "SystemHeader"
	case Excluded:
		return "Excluded"
	default:
		return "Unknown"
	}
}

// Directive is one parsed `#include "name"` line.
type Directive struct {
	Raw    string
	Target string
}

// The whole line must match. Angle-bracket includes and lines with trailing
// text are ordinary content.
var includePattern = regexp.MustCompile(`^\s*#include\s*"([^"]*)"\s*$`)

// Parse reports whether line is a quoted include directive.
func Parse(line string) (Directive, bool) {
	m := includePattern.FindStringSubmatch(line)
	if m == nil {
		return Directive{}, false
	}
	return Directive{Raw: line, Target: m[1]}, true
}
