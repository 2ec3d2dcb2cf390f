package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frame-interactor/internal/application/port/input"
	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

type fakeInspector struct {
	frames    []entity.FrameContext
	framesErr error

	content    *entity.FrameContent
	contentErr error
	contentReq input.FrameContentRequest

	summary    *entity.FrameSummary
	summaryErr error

	waitFrames []entity.FrameContext
	waitErr    error
	waitReq    input.WaitFramesRequest
}

func (f *fakeInspector) ListFrames(ctx context.Context) ([]entity.FrameContext, error) {
	return f.frames, f.framesErr
}

func (f *fakeInspector) FrameContent(ctx context.Context, req input.FrameContentRequest) (*entity.FrameContent, error) {
	f.contentReq = req
	return f.content, f.contentErr
}

func (f *fakeInspector) SwitchRecommendation(ctx context.Context, frameSelector string) (*entity.FrameSummary, error) {
	return f.summary, f.summaryErr
}

func (f *fakeInspector) WaitForFrames(ctx context.Context, req input.WaitFramesRequest) ([]entity.FrameContext, error) {
	f.waitReq = req
	return f.waitFrames, f.waitErr
}

type fakeSnapshot struct {
	outline   string
	err       error
	lastDepth int
}

func (f *fakeSnapshot) AccessibilityTree(ctx context.Context, maxDepth int) (string, error) {
	f.lastDepth = maxDepth
	return f.outline, f.err
}

type fakeDoc struct {
	navigated  []string
	navErr     error
	currentURL string
	shot       *entity.Screenshot
	shotErr    error
	scrolled   []string
	scrollErr  error
}

func (f *fakeDoc) Frames(ctx context.Context) ([]output.FramePort, error) { return nil, nil }
func (f *fakeDoc) RawPointerClick(ctx context.Context, x, y float64) error {
	return nil
}
func (f *fakeDoc) Navigate(ctx context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	return f.navErr
}
func (f *fakeDoc) CurrentURL() string { return f.currentURL }
func (f *fakeDoc) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return f.shot, f.shotErr
}
func (f *fakeDoc) Scroll(ctx context.Context, direction string) error {
	f.scrolled = append(f.scrolled, direction)
	return f.scrollErr
}
func (f *fakeDoc) Close() {}

func TestListFramesTool_Rendering(t *testing.T) {
	adsParent := 1
	inspector := &fakeInspector{frames: []entity.FrameContext{
		mainFrameContext(),
		widgetFrameContext(),
		{Index: 2, SourceURL: "https://ads.example/", IsAccessible: false, ParentIndex: &adsParent},
	}}
	tl := NewListFramesTool(inspector, nopLogger{})

	result, err := tl.Execute(context.Background(), `{}`)
	require.NoError(t, err)

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Found 3 frames:", lines[0])
	assert.Equal(t, `[0] main | title: "Shop - Home" | https://shop.example/`, lines[1])
	assert.Equal(t, `[1] iframe "Search Widget" | title: "Search" | https://widget.example/`, lines[2])
	assert.Equal(t, `[2] iframe | https://ads.example/ | inaccessible (cross-origin or detached) | nested in frame 1`, lines[3])
}

func TestListFramesTool_PropagatesError(t *testing.T) {
	inspector := &fakeInspector{framesErr: errors.New("no frames found in document")}
	tl := NewListFramesTool(inspector, nopLogger{})

	_, err := tl.Execute(context.Background(), `{}`)
	assert.ErrorContains(t, err, "no frames found")
}

func TestFrameContentTool_RendersBothModes(t *testing.T) {
	inspector := &fakeInspector{content: &entity.FrameContent{
		Frame:     widgetFrameContext(),
		Text:      "Search\nPopular: lamps",
		HTML:      "<form><input></form>",
		Truncated: true,
	}}
	tl := NewFrameContentTool(inspector, nopLogger{})

	result, err := tl.Execute(context.Background(), `{"frame":"search-widget","mode":"both","max_length":300}`)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result, `Content of frame "Search Widget" (truncated):`), "got %q", result)
	assert.Contains(t, result, "Popular: lamps")
	assert.Contains(t, result, "--- HTML ---\n<form><input></form>")

	assert.Equal(t, "search-widget", inspector.contentReq.FrameSelector)
	assert.Equal(t, "both", inspector.contentReq.Mode)
	assert.Equal(t, 300, inspector.contentReq.MaxLength)
}

func TestFrameContentTool_RequiresFrame(t *testing.T) {
	tl := NewFrameContentTool(&fakeInspector{}, nopLogger{})

	_, err := tl.Execute(context.Background(), `{}`)
	assert.ErrorContains(t, err, "'frame' is required")
}

func TestSwitchFrameTool_AccessibleFrame(t *testing.T) {
	inspector := &fakeInspector{summary: &entity.FrameSummary{
		Frame:               widgetFrameContext(),
		RecommendedSelector: "Search Widget",
		InteractiveElements: 12,
	}}
	tl := NewSwitchFrameTool(inspector, nopLogger{})

	result, err := tl.Execute(context.Background(), `{"frame":"1"}`)
	require.NoError(t, err)
	assert.Contains(t, result, `Frame [1] "Search Widget" resolves to selector "Search Widget".`)
	assert.Contains(t, result, "Interactive elements: 12.")
	assert.Contains(t, result, `Pass frame="Search Widget" to click/type_text/hover/select_option`)
}

func TestSwitchFrameTool_InaccessibleFrame(t *testing.T) {
	fc := entity.FrameContext{Index: 2, Name: "ads", IsAccessible: false}
	inspector := &fakeInspector{summary: &entity.FrameSummary{
		Frame:               fc,
		RecommendedSelector: "ads",
	}}
	tl := NewSwitchFrameTool(inspector, nopLogger{})

	result, err := tl.Execute(context.Background(), `{"frame":"ads"}`)
	require.NoError(t, err)
	assert.Contains(t, result, "not accessible (cross-origin or detached)")
	assert.NotContains(t, result, "Interactive elements")
}

func TestWaitFramesTool(t *testing.T) {
	t.Run("reports the reached count", func(t *testing.T) {
		inspector := &fakeInspector{waitFrames: make([]entity.FrameContext, 3)}
		tl := NewWaitFramesTool(inspector, nopLogger{})

		result, err := tl.Execute(context.Background(), `{"min_count":2,"timeout_ms":1500}`)
		require.NoError(t, err)
		assert.Equal(t, "Document has 3 frames (waited for at least 2).", result)
		assert.Equal(t, 2, inspector.waitReq.MinCount)
		assert.Equal(t, 1500*time.Millisecond, inspector.waitReq.Timeout)
	})

	t.Run("timeout includes how many frames appeared", func(t *testing.T) {
		inspector := &fakeInspector{
			waitFrames: make([]entity.FrameContext, 2),
			waitErr:    errors.New("timed out waiting for 3 frames"),
		}
		tl := NewWaitFramesTool(inspector, nopLogger{})

		_, err := tl.Execute(context.Background(), `{"min_count":3}`)
		require.Error(t, err)
		assert.ErrorContains(t, err, "timed out waiting for 3 frames")
		assert.ErrorContains(t, err, "(2 frames present)")
	})

	t.Run("rejects non-positive count", func(t *testing.T) {
		tl := NewWaitFramesTool(&fakeInspector{}, nopLogger{})

		_, err := tl.Execute(context.Background(), `{"min_count":0}`)
		assert.ErrorContains(t, err, "'min_count' must be positive")
	})
}

func TestAccessibilityTreeTool(t *testing.T) {
	t.Run("returns the outline and forwards depth", func(t *testing.T) {
		snapshot := &fakeSnapshot{outline: "- button \"Buy\"\n- iframe \"payment\""}
		tl := NewAccessibilityTreeTool(snapshot, nopLogger{})

		result, err := tl.Execute(context.Background(), `{"max_depth":2}`)
		require.NoError(t, err)
		assert.Equal(t, snapshot.outline, result)
		assert.Equal(t, 2, snapshot.lastDepth)
	})

	t.Run("empty arguments are allowed", func(t *testing.T) {
		snapshot := &fakeSnapshot{outline: "- text \"hi\""}
		tl := NewAccessibilityTreeTool(snapshot, nopLogger{})

		result, err := tl.Execute(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, snapshot.outline, result)
		assert.Zero(t, snapshot.lastDepth)
	})

	t.Run("empty outline gets a placeholder", func(t *testing.T) {
		tl := NewAccessibilityTreeTool(&fakeSnapshot{}, nopLogger{})

		result, err := tl.Execute(context.Background(), `{}`)
		require.NoError(t, err)
		assert.Equal(t, "(document has no accessible content)", result)
	})
}
