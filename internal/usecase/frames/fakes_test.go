package frames

import (
	"context"
	"errors"
	"fmt"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

type fakeElement struct {
	attrs map[string]string
	box   *entity.BoundingBox
	tag   string
	text  string
}

func (e *fakeElement) WaitVisible(ctx context.Context) error                    { return nil }
func (e *fakeElement) Click(ctx context.Context, opts output.ClickOptions) error { return nil }
func (e *fakeElement) Fill(ctx context.Context, text string) error              { return nil }
func (e *fakeElement) Clear(ctx context.Context) error                          { return nil }
func (e *fakeElement) PressKey(ctx context.Context, key string) error           { return nil }
func (e *fakeElement) Hover(ctx context.Context) error                          { return nil }
func (e *fakeElement) SelectOption(ctx context.Context, option string) error    { return nil }
func (e *fakeElement) ScrollIntoView(ctx context.Context) error                 { return nil }

func (e *fakeElement) BoundingBox(ctx context.Context) (*entity.BoundingBox, error) {
	return e.box, nil
}

func (e *fakeElement) Attribute(ctx context.Context, name string) (*string, error) {
	if v, ok := e.attrs[name]; ok {
		return &v, nil
	}
	return nil, nil
}

func (e *fakeElement) TagName(ctx context.Context) (string, error) { return e.tag, nil }
func (e *fakeElement) Text(ctx context.Context) (string, error)    { return e.text, nil }

type fakeFrame struct {
	index       int
	parentIndex int
	name        string
	url         string
	isMain      bool

	title    string
	titleErr error

	host    output.ElementPort
	hostErr error

	text        string
	textErr     error
	html        string
	htmlErr     error
	interactive int
	snapshot    string
}

func (f *fakeFrame) Index() int       { return f.index }
func (f *fakeFrame) Name() string     { return f.name }
func (f *fakeFrame) URL() string      { return f.url }
func (f *fakeFrame) IsMain() bool     { return f.isMain }
func (f *fakeFrame) ParentIndex() int { return f.parentIndex }

func (f *fakeFrame) Title(ctx context.Context) (string, error) {
	return f.title, f.titleErr
}

func (f *fakeFrame) HostElement(ctx context.Context) (output.ElementPort, error) {
	if f.hostErr != nil {
		return nil, f.hostErr
	}
	if f.host == nil {
		return nil, errors.New("no host element")
	}
	return f.host, nil
}

func (f *fakeFrame) Text(ctx context.Context) (string, error) { return f.text, f.textErr }
func (f *fakeFrame) HTML(ctx context.Context) (string, error) { return f.html, f.htmlErr }

func (f *fakeFrame) InteractiveCount(ctx context.Context) (int, error) {
	return f.interactive, nil
}

func (f *fakeFrame) LocateByRole(ctx context.Context, role, name string) ([]output.ElementPort, error) {
	return nil, nil
}

func (f *fakeFrame) LocateByText(ctx context.Context, text string) ([]output.ElementPort, error) {
	return nil, nil
}

func (f *fakeFrame) LocateByLabel(ctx context.Context, label string) ([]output.ElementPort, error) {
	return nil, nil
}

func (f *fakeFrame) LocateByPlaceholder(ctx context.Context, placeholder string) ([]output.ElementPort, error) {
	return nil, nil
}

func (f *fakeFrame) LocateByTitle(ctx context.Context, title string) ([]output.ElementPort, error) {
	return nil, nil
}

func (f *fakeFrame) LocateByAltText(ctx context.Context, alt string) ([]output.ElementPort, error) {
	return nil, nil
}

func (f *fakeFrame) StructureSnapshot(ctx context.Context) (string, error) {
	return f.snapshot, nil
}

type fakeDocument struct {
	frames    []output.FramePort
	framesErr error
	// framesFn, when set, overrides frames per call; used to simulate
	// frames appearing over time.
	framesFn func(call int) []output.FramePort
	calls    int
}

func (d *fakeDocument) Frames(ctx context.Context) ([]output.FramePort, error) {
	d.calls++
	if d.framesErr != nil {
		return nil, d.framesErr
	}
	if d.framesFn != nil {
		return d.framesFn(d.calls), nil
	}
	return d.frames, nil
}

func (d *fakeDocument) RawPointerClick(ctx context.Context, x, y float64) error { return nil }
func (d *fakeDocument) Navigate(ctx context.Context, url string) error          { return nil }
func (d *fakeDocument) CurrentURL() string                                      { return "http://fake.test/" }

func (d *fakeDocument) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return &entity.Screenshot{Format: "jpeg"}, nil
}

func (d *fakeDocument) Scroll(ctx context.Context, direction string) error { return nil }
func (d *fakeDocument) Close()                                             {}

// nopLogger keeps unit tests silent.
type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                       {}
func (nopLogger) Info(msg string, args ...any)                        {}
func (nopLogger) Warn(msg string, args ...any)                        {}
func (nopLogger) Error(msg string, args ...any)                       {}
func (l nopLogger) WithField(key string, value any) output.LoggerPort { return l }
func (l nopLogger) WithFields(fields map[string]any) output.LoggerPort {
	return l
}
func (nopLogger) Close() error { return nil }

func mainFrame() *fakeFrame {
	return &fakeFrame{
		index:       0,
		parentIndex: -1,
		isMain:      true,
		url:         "http://fake.test/",
		title:       "Fake Page",
	}
}

func childFrame(index int, name string, attrs map[string]string) *fakeFrame {
	return &fakeFrame{
		index:       index,
		parentIndex: 0,
		name:        name,
		url:         fmt.Sprintf("http://fake.test/frame%d", index),
		title:       "frame document",
		host:        &fakeElement{attrs: attrs, tag: "iframe"},
	}
}
