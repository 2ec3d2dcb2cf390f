package interaction

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"frame-interactor/internal/application/port/output"
)

// ErrElementNotFound means every location strategy missed inside one
// frame. It is an expected per-frame failure, not a fatal one.
var ErrElementNotFound = errors.New("element not found")

// commonRoles are tried, in order, when the caller gives no role hint.
var commonRoles = []string{"button", "link", "textbox", "checkbox", "radio", "combobox"}

const maxSnapshotCandidates = 10

var quotedName = regexp.MustCompile(`"([^"]+)"`)

// Match is one located element and the strategy that found it.
type Match struct {
	Element output.ElementPort
	Method  string
}

// Locator resolves a natural-language description to an element inside
// one frame. Strategies run in a fixed order and the first hit wins;
// when a strategy matches several elements the first one is kept, which
// keeps repeated calls deterministic.
type Locator struct {
	logger output.LoggerPort
}

func NewLocator(logger output.LoggerPort) *Locator {
	return &Locator{logger: logger}
}

// Locate tries every strategy against the frame. Individual strategy
// errors are treated as misses; only having no match at the end is
// reported, as ErrElementNotFound.
func (l *Locator) Locate(ctx context.Context, frame output.Searchable, description, roleHint string) (*Match, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: empty description", ErrElementNotFound)
	}

	if m := l.locateByRoles(ctx, frame, description, roleHint); m != nil {
		return m, nil
	}

	type textStrategy struct {
		method string
		run    func(context.Context, string) ([]output.ElementPort, error)
	}
	strategies := []textStrategy{
		{"text", frame.LocateByText},
		{"label", frame.LocateByLabel},
		{"placeholder", frame.LocateByPlaceholder},
		{"title", frame.LocateByTitle},
		{"alt_text", frame.LocateByAltText},
	}
	for _, s := range strategies {
		if m := l.first(ctx, s.method, description, s.run); m != nil {
			return m, nil
		}
	}

	if m := l.locateViaSnapshot(ctx, frame, description, roleHint); m != nil {
		return m, nil
	}

	return nil, fmt.Errorf("%w: no element matching %q", ErrElementNotFound, description)
}

// locateByRoles runs the role-based strategies: the caller's hint first,
// then the common interactive roles, each paired with the description as
// the accessible name.
func (l *Locator) locateByRoles(ctx context.Context, frame output.Searchable, name, roleHint string) *Match {
	if roleHint != "" {
		if m := l.first(ctx, "role:"+roleHint, name, func(ctx context.Context, n string) ([]output.ElementPort, error) {
			return frame.LocateByRole(ctx, roleHint, n)
		}); m != nil {
			return m
		}
	}
	for _, role := range commonRoles {
		if role == roleHint {
			continue
		}
		role := role
		if m := l.first(ctx, "role:"+role, name, func(ctx context.Context, n string) ([]output.ElementPort, error) {
			return frame.LocateByRole(ctx, role, n)
		}); m != nil {
			return m
		}
	}
	return nil
}

// locateViaSnapshot is the last resort: pull the frame's accessibility
// outline, collect the quoted names that contain the description, and
// re-run the role and text strategies with each candidate name.
func (l *Locator) locateViaSnapshot(ctx context.Context, frame output.Searchable, description, roleHint string) *Match {
	snapshot, err := frame.StructureSnapshot(ctx)
	if err != nil || snapshot == "" {
		return nil
	}

	for _, name := range matchingNames(snapshot, description) {
		if name == description {
			continue
		}
		if m := l.locateByRoles(ctx, frame, name, roleHint); m != nil {
			m.Method = "snapshot/" + m.Method
			return m
		}
		if m := l.first(ctx, "snapshot/text", name, frame.LocateByText); m != nil {
			return m
		}
	}
	return nil
}

func (l *Locator) first(ctx context.Context, method, query string, run func(context.Context, string) ([]output.ElementPort, error)) *Match {
	els, err := run(ctx, query)
	if err != nil {
		l.logger.Debug("location strategy errored", "method", method, "error", err)
		return nil
	}
	if len(els) == 0 {
		return nil
	}
	if len(els) > 1 {
		l.logger.Debug("multiple matches, keeping first", "method", method, "count", len(els))
	}
	return &Match{Element: els[0], Method: method}
}

// matchingNames extracts quoted accessible names from a structure
// snapshot and keeps the ones containing the description, matched
// case-insensitively.
func matchingNames(snapshot, description string) []string {
	needle := strings.ToLower(description)
	seen := make(map[string]bool)
	var names []string

	for _, group := range quotedName.FindAllStringSubmatch(snapshot, -1) {
		name := group[1]
		if seen[name] || !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		seen[name] = true
		names = append(names, name)
		if len(names) >= maxSnapshotCandidates {
			break
		}
	}
	return names
}
