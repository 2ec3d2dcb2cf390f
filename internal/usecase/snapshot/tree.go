// Package snapshot renders the accessibility outline of a document:
// the main frame's element tree followed by every nested frame's tree,
// each introduced by a marker line naming the frame. The output is the
// flat text a model or a human reads to pick interaction targets.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"frame-interactor/internal/application/port/input"
	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/usecase/frames"
)

// DefaultMaxDepth bounds how many levels of frame nesting the outline
// descends into. Depth 0 is the main document.
const DefaultMaxDepth = 3

const (
	frameMarkerFmt     = "--- [frame: %s, index: %d] ---"
	inaccessibleMarker = "[inaccessible frame]"
	emptyMarker        = "[empty frame]"
)

var errNoMainFrame = errors.New("document has no main frame")

var _ input.SnapshotTaker = (*Outliner)(nil)

// Outliner builds the combined accessibility outline across frames.
type Outliner struct {
	discovery *frames.Discovery
	logger    output.LoggerPort
}

func NewOutliner(discovery *frames.Discovery, logger output.LoggerPort) *Outliner {
	return &Outliner{discovery: discovery, logger: logger}
}

// AccessibilityTree renders the outline of every frame up to maxDepth
// levels of nesting, depth-first in document order. maxDepth <= 0 means
// DefaultMaxDepth. Frames whose content cannot be read still appear,
// annotated as inaccessible, so the reader knows they exist.
func (o *Outliner) AccessibilityTree(ctx context.Context, maxDepth int) (string, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	found, err := o.discovery.Discover(ctx)
	if err != nil {
		return "", err
	}

	var main *frames.DiscoveredFrame
	children := make(map[int][]frames.DiscoveredFrame)
	for i := range found {
		f := found[i]
		if f.Context.IsMain() {
			main = &found[i]
			continue
		}
		parent := 0
		if f.Context.ParentIndex != nil {
			parent = *f.Context.ParentIndex
		}
		children[parent] = append(children[parent], f)
	}
	if main == nil {
		return "", errNoMainFrame
	}

	var b strings.Builder
	o.render(ctx, &b, *main, children, 0, maxDepth)

	o.logger.Debug("accessibility outline built", "frames", len(found), "max_depth", maxDepth, "bytes", b.Len())
	return strings.TrimRight(b.String(), "\n"), nil
}

func (o *Outliner) render(ctx context.Context, b *strings.Builder, f frames.DiscoveredFrame, children map[int][]frames.DiscoveredFrame, depth, maxDepth int) {
	fc := f.Context
	if !fc.IsMain() {
		fmt.Fprintf(b, "\n"+frameMarkerFmt+"\n", fc.Label(), fc.Index)
	}

	b.WriteString(o.frameOutline(ctx, f))
	b.WriteString("\n")

	if depth >= maxDepth {
		if n := len(children[fc.Index]); n > 0 {
			o.logger.Debug("frame subtree beyond depth limit", "index", fc.Index, "skipped", n)
		}
		return
	}
	for _, child := range children[fc.Index] {
		o.render(ctx, b, child, children, depth+1, maxDepth)
	}
}

func (o *Outliner) frameOutline(ctx context.Context, f frames.DiscoveredFrame) string {
	if !f.Context.IsAccessible {
		return inaccessibleMarker
	}

	outline, err := f.Port.StructureSnapshot(ctx)
	if err != nil {
		o.logger.Debug("frame outline failed", "index", f.Context.Index, "error", err)
		return inaccessibleMarker
	}
	outline = strings.TrimRight(outline, "\n")
	if strings.TrimSpace(outline) == "" {
		return emptyMarker
	}
	return outline
}
