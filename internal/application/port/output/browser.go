package output

import (
	"context"
	"errors"

	"frame-interactor/internal/domain/entity"
)

// ErrNoHostElement is returned by FramePort.HostElement for the main
// document, which is not embedded anywhere.
var ErrNoHostElement = errors.New("main document has no host element")

// Searchable is the capability every frame exposes to the element
// locator. The main document and embedded frames implement it uniformly;
// the locator never distinguishes between them.
type Searchable interface {
	LocateByRole(ctx context.Context, role, name string) ([]ElementPort, error)
	LocateByText(ctx context.Context, text string) ([]ElementPort, error)
	LocateByLabel(ctx context.Context, label string) ([]ElementPort, error)
	LocateByPlaceholder(ctx context.Context, placeholder string) ([]ElementPort, error)
	LocateByTitle(ctx context.Context, title string) ([]ElementPort, error)
	LocateByAltText(ctx context.Context, alt string) ([]ElementPort, error)

	// StructureSnapshot returns a textual outline of the frame's
	// accessibility tree, one "- role \"name\"" line per node.
	StructureSnapshot(ctx context.Context) (string, error)
}

// FramePort is one addressable frame: the main document or an embedded
// one. Identity accessors never touch the browser; probing methods do.
type FramePort interface {
	Searchable

	Index() int
	Name() string
	URL() string
	IsMain() bool
	// ParentIndex returns the index of the parent frame, -1 for the main
	// document.
	ParentIndex() int

	// Title reads the frame's document title. It fails for cross-origin
	// or detached frames, which is how accessibility is classified.
	Title(ctx context.Context) (string, error)

	// HostElement returns the iframe element that embeds this frame in
	// its parent. Fails with ErrNoHostElement for the main document.
	HostElement(ctx context.Context) (ElementPort, error)

	Text(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	InteractiveCount(ctx context.Context) (int, error)
}

type DocumentPort interface {
	// Frames enumerates every frame of the document, main frame first,
	// in stable document order.
	Frames(ctx context.Context) ([]FramePort, error)

	// RawPointerClick dispatches a mouse click at page-level viewport
	// coordinates, bypassing element hit targets.
	RawPointerClick(ctx context.Context, x, y float64) error

	Navigate(ctx context.Context, url string) error
	CurrentURL() string
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	Scroll(ctx context.Context, direction string) error

	Close()
}

type ClickOptions struct {
	Double bool
	Right  bool
}

type ElementPort interface {
	WaitVisible(ctx context.Context) error
	Click(ctx context.Context, opts ClickOptions) error
	Fill(ctx context.Context, text string) error
	Clear(ctx context.Context) error
	PressKey(ctx context.Context, key string) error
	Hover(ctx context.Context) error
	SelectOption(ctx context.Context, option string) error

	// BoundingBox returns the element's box in main-document viewport
	// coordinates, or nil when the element has no rendered layout.
	BoundingBox(ctx context.Context) (*entity.BoundingBox, error)
	ScrollIntoView(ctx context.Context) error

	Attribute(ctx context.Context, name string) (*string, error)
	TagName(ctx context.Context) (string, error)
	Text(ctx context.Context) (string, error)
}
