package entity

import "strconv"

// FrameContext is the identity snapshot of one frame inside a document.
// Index 0 is always the main document. Contexts are recomputed on every
// discovery pass and never mutated in place.
type FrameContext struct {
	Name            string
	Index           int
	SourceURL       string
	AccessibleLabel string
	Title           string
	IsAccessible    bool
	ParentIndex     *int
}

func (f FrameContext) IsMain() bool {
	return f.Index == 0
}

// Label returns the most human-meaningful identifier of the frame:
// accessible label, else declared name, else the index as a string.
func (f FrameContext) Label() string {
	switch {
	case f.AccessibleLabel != "":
		return f.AccessibleLabel
	case f.Name != "":
		return f.Name
	default:
		return strconv.Itoa(f.Index)
	}
}

// Matches reports whether a caller-supplied frame selector refers to this
// frame. A selector may be the declared name, the accessible label, the
// title or the index as a string; "main" matches the main document.
func (f FrameContext) Matches(selector string) bool {
	if selector == "" {
		return false
	}
	if selector == "main" {
		return f.IsMain()
	}
	if f.Name != "" && f.Name == selector {
		return true
	}
	if f.AccessibleLabel != "" && f.AccessibleLabel == selector {
		return true
	}
	if f.Title != "" && f.Title == selector {
		return true
	}
	return strconv.Itoa(f.Index) == selector
}
