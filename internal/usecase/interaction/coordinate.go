package interaction

import (
	"context"
	"errors"
	"fmt"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

// ErrNoBoundingBox means the element has no rendered layout, so there is
// no point to click. No pointer event is dispatched in that case.
var ErrNoBoundingBox = errors.New("element has no bounding box")

// CoordinateResult records where a raw pointer click landed, for audit.
type CoordinateResult struct {
	Point entity.ClickPoint
	Box   entity.BoundingBox
}

// CoordinateClicker is the last-resort click path: when an element was
// located but normal interaction failed, click the center of its box
// with a raw pointer event that ignores hit-target interception.
type CoordinateClicker struct {
	doc    output.DocumentPort
	logger output.LoggerPort
}

func NewCoordinateClicker(doc output.DocumentPort, logger output.LoggerPort) *CoordinateClicker {
	return &CoordinateClicker{doc: doc, logger: logger}
}

// Click reads the element's box, scrolls it into view and dispatches a
// pointer click at the center of the refreshed box. An element with no
// rendered layout fails fast; no pointer event is dispatched for it.
func (c *CoordinateClicker) Click(ctx context.Context, el output.ElementPort) (*CoordinateResult, error) {
	box, err := el.BoundingBox(ctx)
	if err != nil {
		return nil, fmt.Errorf("read bounding box: %w", err)
	}
	if box == nil || box.IsZero() {
		return nil, ErrNoBoundingBox
	}

	if err := el.ScrollIntoView(ctx); err != nil {
		c.logger.Debug("scroll into view failed", "error", err)
	}

	// Scrolling moves the element relative to the viewport, so the box
	// read before the scroll is stale.
	box, err = el.BoundingBox(ctx)
	if err != nil {
		return nil, fmt.Errorf("re-read bounding box: %w", err)
	}
	if box == nil || box.IsZero() {
		return nil, ErrNoBoundingBox
	}

	center := box.Center()
	if err := c.doc.RawPointerClick(ctx, center.X, center.Y); err != nil {
		return nil, fmt.Errorf("pointer click at (%.1f, %.1f): %w", center.X, center.Y, err)
	}

	c.logger.Info("coordinate click dispatched", "x", center.X, "y", center.Y)
	return &CoordinateResult{Point: center, Box: *box}, nil
}
