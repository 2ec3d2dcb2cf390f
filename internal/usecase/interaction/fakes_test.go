package interaction

import (
	"context"
	"errors"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

var errMainHasNoHost = errors.New("main frame has no host element")

func els(e ...output.ElementPort) []output.ElementPort { return e }

func ports(f ...output.FramePort) []output.FramePort { return f }

// fakeElement records every interaction so tests can assert what the
// engine actually did.
type fakeElement struct {
	tag  string
	text string

	attrs map[string]string

	box            *entity.BoundingBox
	boxAfterScroll *entity.BoundingBox

	visibleErr error
	clickErr   error
	fillErr    error

	clicks   int
	lastOpts output.ClickOptions
	fills    []string
	cleared  int
	keys     []string
	hovers   int
	selected []string
	scrolls  int
}

func (e *fakeElement) WaitVisible(ctx context.Context) error { return e.visibleErr }

func (e *fakeElement) Click(ctx context.Context, opts output.ClickOptions) error {
	e.clicks++
	e.lastOpts = opts
	return e.clickErr
}

func (e *fakeElement) Fill(ctx context.Context, text string) error {
	if e.fillErr != nil {
		return e.fillErr
	}
	e.fills = append(e.fills, text)
	return nil
}

func (e *fakeElement) Clear(ctx context.Context) error {
	e.cleared++
	return nil
}

func (e *fakeElement) PressKey(ctx context.Context, key string) error {
	e.keys = append(e.keys, key)
	return nil
}

func (e *fakeElement) Hover(ctx context.Context) error {
	e.hovers++
	return nil
}

func (e *fakeElement) SelectOption(ctx context.Context, option string) error {
	e.selected = append(e.selected, option)
	return nil
}

func (e *fakeElement) BoundingBox(ctx context.Context) (*entity.BoundingBox, error) {
	return e.box, nil
}

func (e *fakeElement) ScrollIntoView(ctx context.Context) error {
	e.scrolls++
	if e.boxAfterScroll != nil {
		e.box = e.boxAfterScroll
	}
	return nil
}

func (e *fakeElement) Attribute(ctx context.Context, name string) (*string, error) {
	if v, ok := e.attrs[name]; ok {
		return &v, nil
	}
	return nil, nil
}

func (e *fakeElement) TagName(ctx context.Context) (string, error) { return e.tag, nil }
func (e *fakeElement) Text(ctx context.Context) (string, error)    { return e.text, nil }

// fakeFrame serves location queries from exact-key maps: tests register
// elements under the query string the locator will use.
type fakeFrame struct {
	index       int
	parentIndex int
	name        string
	url         string
	isMain      bool
	ariaLabel   string
	titleAttr   string

	titleErr error
	host     *fakeElement

	byRole        map[string][]output.ElementPort // key: role + "|" + name
	byText        map[string][]output.ElementPort
	byLabel       map[string][]output.ElementPort
	byPlaceholder map[string][]output.ElementPort
	byTitle       map[string][]output.ElementPort
	byAlt         map[string][]output.ElementPort

	snapshot    string
	snapshotErr error

	roleQueries []string
}

func newFakeFrame(index int, name string) *fakeFrame {
	parent := 0
	if index == 0 {
		parent = -1
	}
	return &fakeFrame{
		index:         index,
		parentIndex:   parent,
		name:          name,
		isMain:        index == 0,
		url:           "http://fake.test/",
		byRole:        map[string][]output.ElementPort{},
		byText:        map[string][]output.ElementPort{},
		byLabel:       map[string][]output.ElementPort{},
		byPlaceholder: map[string][]output.ElementPort{},
		byTitle:       map[string][]output.ElementPort{},
		byAlt:         map[string][]output.ElementPort{},
	}
}

func (f *fakeFrame) withAria(label string) *fakeFrame {
	f.ariaLabel = label
	return f
}

func (f *fakeFrame) serveRole(role, name string, els ...output.ElementPort) *fakeFrame {
	f.byRole[role+"|"+name] = els
	return f
}

func (f *fakeFrame) serveText(text string, els ...output.ElementPort) *fakeFrame {
	f.byText[text] = els
	return f
}

func (f *fakeFrame) Index() int       { return f.index }
func (f *fakeFrame) Name() string     { return f.name }
func (f *fakeFrame) URL() string      { return f.url }
func (f *fakeFrame) IsMain() bool     { return f.isMain }
func (f *fakeFrame) ParentIndex() int { return f.parentIndex }

func (f *fakeFrame) Title(ctx context.Context) (string, error) {
	return "fake document", f.titleErr
}

func (f *fakeFrame) HostElement(ctx context.Context) (output.ElementPort, error) {
	if f.host != nil {
		return f.host, nil
	}
	if f.isMain {
		return nil, errMainHasNoHost
	}
	host := &fakeElement{tag: "iframe", attrs: map[string]string{}}
	if f.ariaLabel != "" {
		host.attrs["aria-label"] = f.ariaLabel
	}
	if f.titleAttr != "" {
		host.attrs["title"] = f.titleAttr
	}
	f.host = host
	return host, nil
}

func (f *fakeFrame) Text(ctx context.Context) (string, error) { return "", nil }
func (f *fakeFrame) HTML(ctx context.Context) (string, error) { return "", nil }

func (f *fakeFrame) InteractiveCount(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeFrame) LocateByRole(ctx context.Context, role, name string) ([]output.ElementPort, error) {
	f.roleQueries = append(f.roleQueries, role+"|"+name)
	return f.byRole[role+"|"+name], nil
}

func (f *fakeFrame) LocateByText(ctx context.Context, text string) ([]output.ElementPort, error) {
	return f.byText[text], nil
}

func (f *fakeFrame) LocateByLabel(ctx context.Context, label string) ([]output.ElementPort, error) {
	return f.byLabel[label], nil
}

func (f *fakeFrame) LocateByPlaceholder(ctx context.Context, placeholder string) ([]output.ElementPort, error) {
	return f.byPlaceholder[placeholder], nil
}

func (f *fakeFrame) LocateByTitle(ctx context.Context, title string) ([]output.ElementPort, error) {
	return f.byTitle[title], nil
}

func (f *fakeFrame) LocateByAltText(ctx context.Context, alt string) ([]output.ElementPort, error) {
	return f.byAlt[alt], nil
}

func (f *fakeFrame) StructureSnapshot(ctx context.Context) (string, error) {
	return f.snapshot, f.snapshotErr
}

type fakeDocument struct {
	frames    []output.FramePort
	framesErr error
	calls     int

	rawClicks   []entity.ClickPoint
	rawClickErr error
}

func (d *fakeDocument) Frames(ctx context.Context) ([]output.FramePort, error) {
	d.calls++
	if d.framesErr != nil {
		return nil, d.framesErr
	}
	return d.frames, nil
}

func (d *fakeDocument) RawPointerClick(ctx context.Context, x, y float64) error {
	if d.rawClickErr != nil {
		return d.rawClickErr
	}
	d.rawClicks = append(d.rawClicks, entity.ClickPoint{X: x, Y: y})
	return nil
}

func (d *fakeDocument) Navigate(ctx context.Context, url string) error { return nil }
func (d *fakeDocument) CurrentURL() string                             { return "http://fake.test/" }

func (d *fakeDocument) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return &entity.Screenshot{Format: "jpeg"}, nil
}

func (d *fakeDocument) Scroll(ctx context.Context, direction string) error { return nil }
func (d *fakeDocument) Close()                                             {}

type fakeUI struct {
	confirmAnswer bool
	confirmErr    error
	confirmCalls  []string
	toolStarts    []string
	toolResults   []string
	reports       []*entity.RetryReport
}

func (u *fakeUI) Confirm(ctx context.Context, action, reason string) (bool, error) {
	u.confirmCalls = append(u.confirmCalls, action)
	return u.confirmAnswer, u.confirmErr
}

func (u *fakeUI) ShowToolStart(ctx context.Context, toolName, arguments string) {
	u.toolStarts = append(u.toolStarts, toolName)
}

func (u *fakeUI) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	u.toolResults = append(u.toolResults, result)
}

func (u *fakeUI) ShowAttempts(ctx context.Context, report *entity.RetryReport) {
	u.reports = append(u.reports, report)
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                        {}
func (nopLogger) Info(msg string, args ...any)                         {}
func (nopLogger) Warn(msg string, args ...any)                         {}
func (nopLogger) Error(msg string, args ...any)                        {}
func (l nopLogger) WithField(key string, value any) output.LoggerPort  { return l }
func (l nopLogger) WithFields(fields map[string]any) output.LoggerPort { return l }
func (nopLogger) Close() error                                         { return nil }
