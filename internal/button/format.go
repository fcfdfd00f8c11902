package button

import "sort"

// Format selects the visual style of a button.
type Format string

// Known formats. The zero value selects the neutral style.
const (
	FormatNone        Format = ""
	FormatPrimary     Format = "primary"
	FormatSubmit      Format = "submit"
	FormatLoading     Format = "loading"
	FormatCancel      Format = "cancel"
	FormatReset       Format = "reset"
	FormatExpected    Format = "expected"
	FormatFailure     Format = "failure"
	FormatOptional    Format = "optional"
	FormatAlternative Format = "alternative"
	FormatExceptional Format = "exceptional"
	FormatTerminate   Format = "terminate"
	FormatTile        Format = "tile"
)

// CSS classes applied by HTML renderers.
const (
	NeutralClass = "btn-light border-secondary"
	LoadingClass = "oxi-btn-loading"
)

var format2css = map[Format]string{
	FormatPrimary:     "btn-primary",
	FormatSubmit:      "oxi-btn-submit",
	FormatLoading:     "oxi-btn-loading",
	FormatCancel:      "oxi-btn-cancel",
	FormatReset:       "oxi-btn-reset",
	FormatExpected:    "oxi-btn-expected",
	FormatFailure:     "oxi-btn-failure",
	FormatOptional:    "oxi-btn-optional",
	FormatAlternative: "oxi-btn-alternative",
	FormatExceptional: "oxi-btn-exceptional",
	FormatTerminate:   "oxi-btn-terminate",
	FormatTile:        "oxi-btn-tile",
}

// CSSClass returns the CSS class for f. ok is false for unknown formats;
// the empty format maps to NeutralClass.
func CSSClass(f Format) (class string, ok bool) {
	if f == FormatNone {
		return NeutralClass, true
	}
	class, ok = format2css[f]
	return class, ok
}

// ClassFor returns the class of a button in format f. Loading takes
// precedence; unknown formats yield "".
func ClassFor(f Format, loading bool) string {
	if loading {
		return LoadingClass
	}
	class, _ := CSSClass(f)
	return class
}

// Known reports whether f is part of the format vocabulary (or empty).
func (f Format) Known() bool {
	_, ok := CSSClass(f)
	return ok
}

// Formats returns all named formats in alphabetical order.
func Formats() []Format {
	out := make([]Format, 0, len(format2css))
	for f := range format2css {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
