package input

import (
	"context"
	"time"

	"frame-interactor/internal/domain/entity"
)

// ClickRequest describes one click interaction. Description is the
// human-readable target ("Submit button", "Search"); RoleHint narrows
// the first location strategy; ExplicitFrame pins the interaction to a
// named frame and disables frame retries.
type ClickRequest struct {
	Description     string
	RoleHint        string
	ExplicitFrame   string
	Double          bool
	Right           bool
	TimeoutPerFrame time.Duration
}

type TypeRequest struct {
	Description     string
	Text            string
	ClearFirst      bool
	PressEnter      bool
	ExplicitFrame   string
	TimeoutPerFrame time.Duration
}

type HoverRequest struct {
	Description     string
	RoleHint        string
	ExplicitFrame   string
	TimeoutPerFrame time.Duration
}

type SelectRequest struct {
	Description     string
	Option          string
	ExplicitFrame   string
	TimeoutPerFrame time.Duration
}

// Interactor performs element interactions across every frame of the
// current document. A failed interaction returns Success=false with the
// full retry report and a nil error; a non-nil error means the
// interaction could not even be attempted (no frames, blocked action,
// cancelled context).
type Interactor interface {
	Click(ctx context.Context, req ClickRequest) (*entity.InteractionOutcome, error)
	TypeText(ctx context.Context, req TypeRequest) (*entity.InteractionOutcome, error)
	Hover(ctx context.Context, req HoverRequest) (*entity.InteractionOutcome, error)
	SelectOption(ctx context.Context, req SelectRequest) (*entity.InteractionOutcome, error)
}

type FrameContentRequest struct {
	FrameSelector string
	Mode          string // "text", "html" or "both"; empty means "text"
	MaxLength     int
}

type WaitFramesRequest struct {
	MinCount int
	Timeout  time.Duration
}

// FrameInspector exposes the document's frame structure to callers.
type FrameInspector interface {
	ListFrames(ctx context.Context) ([]entity.FrameContext, error)
	FrameContent(ctx context.Context, req FrameContentRequest) (*entity.FrameContent, error)
	SwitchRecommendation(ctx context.Context, frameSelector string) (*entity.FrameSummary, error)
	WaitForFrames(ctx context.Context, req WaitFramesRequest) ([]entity.FrameContext, error)
}

// SnapshotTaker renders the accessibility outline of the whole document,
// frame subtrees included up to maxDepth levels of nesting.
type SnapshotTaker interface {
	AccessibilityTree(ctx context.Context, maxDepth int) (string, error)
}
