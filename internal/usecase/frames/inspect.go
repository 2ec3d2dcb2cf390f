package frames

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"frame-interactor/internal/application/port/input"
	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

var _ input.FrameInspector = (*Inspector)(nil)

// ErrFrameNotFound means no discovered frame matched the caller's
// selector.
var ErrFrameNotFound = errors.New("frame not found")

const (
	defaultContentLength = 5000
	truncationMarker     = "\n... (truncated)"
)

// Inspector answers questions about the document's frame structure
// without performing any interaction.
type Inspector struct {
	discovery *Discovery
	logger    output.LoggerPort
}

func NewInspector(discovery *Discovery, logger output.LoggerPort) *Inspector {
	return &Inspector{discovery: discovery, logger: logger}
}

func (i *Inspector) ListFrames(ctx context.Context) ([]entity.FrameContext, error) {
	found, err := i.discovery.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return Contexts(found), nil
}

// FrameContent extracts the text and/or HTML of one frame. The frame
// selector may be a name, accessible label, title, index or "main".
func (i *Inspector) FrameContent(ctx context.Context, req input.FrameContentRequest) (*entity.FrameContent, error) {
	frame, err := i.Resolve(ctx, req.FrameSelector)
	if err != nil {
		return nil, err
	}
	if !frame.Context.IsAccessible {
		return nil, fmt.Errorf("frame %q is not accessible (cross-origin or detached)", req.FrameSelector)
	}

	mode := req.Mode
	if mode == "" {
		mode = "text"
	}
	maxLength := req.MaxLength
	if maxLength <= 0 {
		maxLength = defaultContentLength
	}

	content := &entity.FrameContent{Frame: frame.Context}

	switch mode {
	case "text", "both":
		text, err := frame.Port.Text(ctx)
		if err != nil {
			return nil, fmt.Errorf("read frame text: %w", err)
		}
		content.Text, content.Truncated = clip(normalizeText(text), maxLength)
		if mode == "text" {
			return content, nil
		}
		fallthrough
	case "html":
		html, err := frame.Port.HTML(ctx)
		if err != nil {
			return nil, fmt.Errorf("read frame html: %w", err)
		}
		var truncated bool
		content.HTML, truncated = clip(html, maxLength)
		content.Truncated = content.Truncated || truncated
		return content, nil
	default:
		return nil, fmt.Errorf("unknown content mode %q (want text, html or both)", mode)
	}
}

// SwitchRecommendation tells the caller how to address a frame directly
// in later interactions: the most stable selector string plus how many
// interactive elements the frame holds.
func (i *Inspector) SwitchRecommendation(ctx context.Context, frameSelector string) (*entity.FrameSummary, error) {
	frame, err := i.Resolve(ctx, frameSelector)
	if err != nil {
		return nil, err
	}

	summary := &entity.FrameSummary{
		Frame:               frame.Context,
		RecommendedSelector: recommendSelector(frame.Context),
	}

	if frame.Context.IsAccessible {
		count, err := frame.Port.InteractiveCount(ctx)
		if err == nil {
			summary.InteractiveElements = count
		}
	}

	return summary, nil
}

func (i *Inspector) WaitForFrames(ctx context.Context, req input.WaitFramesRequest) ([]entity.FrameContext, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = entity.DefaultTimeoutPerFrame
	}
	found, err := i.discovery.WaitForFrames(ctx, req.MinCount, timeout)
	if err != nil {
		return Contexts(found), err
	}
	return Contexts(found), nil
}

// Resolve finds the discovered frame a selector refers to. The error for
// an unknown selector lists every available frame so callers can correct
// themselves.
func (i *Inspector) Resolve(ctx context.Context, selector string) (*DiscoveredFrame, error) {
	found, err := i.discovery.Discover(ctx)
	if err != nil {
		return nil, err
	}

	for idx := range found {
		if found[idx].Context.Matches(selector) {
			return &found[idx], nil
		}
	}

	labels := make([]string, len(found))
	for idx, f := range found {
		labels[idx] = f.Context.Label()
	}
	return nil, fmt.Errorf("%w: %q; available frames: [%s]", ErrFrameNotFound, selector, strings.Join(labels, ", "))
}

// recommendSelector picks the most stable identifier a caller should use
// to address the frame: accessible label, then name, then title, then
// the positional index.
func recommendSelector(fc entity.FrameContext) string {
	switch {
	case fc.IsMain():
		return "main"
	case fc.AccessibleLabel != "":
		return fc.AccessibleLabel
	case fc.Name != "":
		return fc.Name
	case fc.Title != "":
		return fc.Title
	default:
		return strconv.Itoa(fc.Index)
	}
}

func clip(s string, maxLength int) (string, bool) {
	if len(s) <= maxLength {
		return s, false
	}
	return s[:maxLength] + truncationMarker, true
}

// normalizeText collapses blank lines and trims each line, the way the
// rendered text of a frame reads best in a terminal.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
