package frames

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

var (
	// ErrNoFrames means the backend reported a document with no frames at
	// all, which only happens when the page itself is gone.
	ErrNoFrames = errors.New("document has no frames")

	// ErrWaitTimeout is returned by WaitForFrames together with the
	// frames found so far.
	ErrWaitTimeout = errors.New("timed out waiting for frames")
)

const waitPollInterval = 500 * time.Millisecond

// DiscoveredFrame pairs the identity snapshot of a frame with the live
// port it was built from. Ports go stale on navigation; contexts do not.
type DiscoveredFrame struct {
	Context entity.FrameContext
	Port    output.FramePort
}

// Discovery builds FrameContext snapshots for every frame of a document.
type Discovery struct {
	doc    output.DocumentPort
	logger output.LoggerPort
}

func NewDiscovery(doc output.DocumentPort, logger output.LoggerPort) *Discovery {
	return &Discovery{doc: doc, logger: logger}
}

// Discover enumerates all frames and builds a context for each, main
// frame first. Attribute extraction failures degrade to empty fields;
// only a document with zero frames is fatal.
func (d *Discovery) Discover(ctx context.Context) ([]DiscoveredFrame, error) {
	ports, err := d.doc.Frames(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate frames: %w", err)
	}
	if len(ports) == 0 {
		return nil, ErrNoFrames
	}

	result := make([]DiscoveredFrame, 0, len(ports))
	for _, port := range ports {
		result = append(result, DiscoveredFrame{
			Context: d.buildContext(ctx, port),
			Port:    port,
		})
	}

	d.logger.Debug("frames discovered", "count", len(result))
	return result, nil
}

func (d *Discovery) buildContext(ctx context.Context, port output.FramePort) entity.FrameContext {
	fc := entity.FrameContext{
		Name:      port.Name(),
		Index:     port.Index(),
		SourceURL: port.URL(),
	}
	if parent := port.ParentIndex(); parent >= 0 {
		fc.ParentIndex = &parent
	}

	// Identity attributes live on the hosting iframe element in the
	// parent frame, so they stay readable even for cross-origin frames.
	if !port.IsMain() {
		if host, err := port.HostElement(ctx); err == nil {
			if label, err := host.Attribute(ctx, "aria-label"); err == nil && label != nil {
				fc.AccessibleLabel = *label
			}
			if title, err := host.Attribute(ctx, "title"); err == nil && title != nil {
				fc.Title = *title
			}
		}
	}

	// A frame counts as accessible when we can read its document title.
	title, err := port.Title(ctx)
	if err != nil {
		d.logger.Debug("frame content not accessible", "index", fc.Index, "url", fc.SourceURL, "error", err)
		return fc
	}
	fc.IsAccessible = true
	if port.IsMain() {
		fc.Title = title
	}
	return fc
}

// WaitForFrames polls discovery until at least minCount frames exist or
// the timeout elapses. On timeout it returns the last discovered set
// together with ErrWaitTimeout so callers can still report what exists.
func (d *Discovery) WaitForFrames(ctx context.Context, minCount int, timeout time.Duration) ([]DiscoveredFrame, error) {
	if minCount < 1 {
		minCount = 1
	}
	deadline := time.Now().Add(timeout)

	var last []DiscoveredFrame
	for {
		found, err := d.Discover(ctx)
		if err == nil {
			last = found
			if len(found) >= minCount {
				return found, nil
			}
		} else if !errors.Is(err, ErrNoFrames) {
			return nil, err
		}

		if time.Now().After(deadline) {
			return last, fmt.Errorf("%w: wanted %d, found %d", ErrWaitTimeout, minCount, len(last))
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(waitPollInterval):
		}
	}
}

// Contexts strips the ports off a discovery result.
func Contexts(frames []DiscoveredFrame) []entity.FrameContext {
	out := make([]entity.FrameContext, len(frames))
	for i, f := range frames {
		out[i] = f.Context
	}
	return out
}
