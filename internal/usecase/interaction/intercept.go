package interaction

import (
	"context"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
	"frame-interactor/internal/usecase/frames"
)

// InterceptDetector diagnoses clicks swallowed by an overlaying frame:
// an iframe positioned over the target receives the pointer event
// instead of the element underneath. The diagnosis is advisory and never
// blocks the retry chain.
type InterceptDetector struct {
	discovery *frames.Discovery
	logger    output.LoggerPort
}

func NewInterceptDetector(discovery *frames.Discovery, logger output.LoggerPort) *InterceptDetector {
	return &InterceptDetector{discovery: discovery, logger: logger}
}

// DetectOverlap reports the first frame whose hosting iframe box
// contains the center of the target box. The frame the element lives in
// and its ancestors are skipped, since their boxes contain the element
// by construction. Hidden targets (zero box) never count as intercepted.
func (d *InterceptDetector) DetectOverlap(ctx context.Context, target entity.BoundingBox, elementFrameIndex int) (*entity.FrameContext, error) {
	if target.IsZero() {
		return nil, nil
	}

	found, err := d.discovery.Discover(ctx)
	if err != nil {
		return nil, err
	}

	skip := ancestry(found, elementFrameIndex)
	center := target.Center()

	for i := range found {
		fc := found[i].Context
		if fc.IsMain() || skip[fc.Index] {
			continue
		}

		host, err := found[i].Port.HostElement(ctx)
		if err != nil {
			continue
		}
		box, err := host.BoundingBox(ctx)
		if err != nil || box == nil || box.IsZero() {
			continue
		}

		if box.Contains(center) {
			d.logger.Warn("click target overlapped by frame",
				"frame", fc.Label(),
				"frame_index", fc.Index,
				"center_x", center.X,
				"center_y", center.Y,
			)
			return &fc, nil
		}
	}

	return nil, nil
}

// ancestry marks the element's own frame and every frame above it.
func ancestry(found []frames.DiscoveredFrame, frameIndex int) map[int]bool {
	byIndex := make(map[int]entity.FrameContext, len(found))
	for _, f := range found {
		byIndex[f.Context.Index] = f.Context
	}

	skip := make(map[int]bool)
	idx := frameIndex
	for {
		fc, ok := byIndex[idx]
		if !ok || skip[idx] {
			break
		}
		skip[idx] = true
		if fc.ParentIndex == nil {
			break
		}
		idx = *fc.ParentIndex
	}
	return skip
}
