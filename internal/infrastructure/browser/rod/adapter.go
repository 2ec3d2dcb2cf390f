// Package rod binds the browser ports to a Chromium instance driven
// over the DevTools protocol.
package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

var _ output.DocumentPort = (*BrowserAdapter)(nil)

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	maxDepth int
	logger   output.LoggerPort
}

type Config struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool

	// MaxFrameDepth bounds the frame enumeration recursion. Nesting
	// deeper than this is almost always an ad chain, not content.
	MaxFrameDepth int
}

func DefaultConfig() Config {
	return Config{
		Headless:      false,
		SlowMotion:    500 * time.Millisecond,
		Timeout:       10 * time.Second,
		NoSandbox:     true,
		DevTools:      false,
		MaxFrameDepth: 5,
	}
}

func NewBrowserAdapter(cfg Config, logger output.LoggerPort) (*BrowserAdapter, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-web-security").
		Set("allow-running-insecure-content").
		Set("disable-setuid-sandbox")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		Trace(true).
		SlowMotion(cfg.SlowMotion).
		MustConnect()

	page := browser.MustPage("about:blank")

	if cfg.MaxFrameDepth <= 0 {
		cfg.MaxFrameDepth = DefaultConfig().MaxFrameDepth
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		maxDepth: cfg.MaxFrameDepth,
		logger:   logger,
	}, nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	page.MustWaitLoad()
	page.WaitIdle(5 * time.Second)
	return nil
}

// Frames walks the frame tree depth-first: the main document gets index
// 0, every iframe and frameset frame after it in document order. A
// frame that detaches mid-walk is skipped, not fatal.
func (b *BrowserAdapter) Frames(ctx context.Context) ([]output.FramePort, error) {
	page := b.page.Context(ctx)

	main := newFramePort(page, nil, frameIdentity{
		index:  0,
		parent: -1,
		url:    b.CurrentURL(),
	}, b.timeout)

	frames := []output.FramePort{main}
	next := 1
	if err := b.walkFrames(ctx, page, 0, 1, &next, &frames); err != nil {
		return nil, err
	}
	return frames, nil
}

func (b *BrowserAdapter) walkFrames(ctx context.Context, page *rod.Page, parentIdx, depth int, next *int, frames *[]output.FramePort) error {
	if depth > b.maxDepth {
		b.logger.Debug("frame recursion capped", "depth", depth, "parent", parentIdx)
		return nil
	}

	hosts, err := page.Elements("iframe, frame")
	if err != nil {
		return fmt.Errorf("list frame elements: %w", err)
	}

	for _, host := range hosts {
		sub, err := host.Frame()
		if err != nil {
			b.logger.Debug("frame handle unavailable", "parent", parentIdx, "error", err)
			continue
		}
		sub = sub.Context(ctx)

		id := frameIdentity{
			index:  *next,
			parent: parentIdx,
			name:   hostName(host),
			url:    frameURL(sub, host),
		}
		*frames = append(*frames, newFramePort(sub, host, id, b.timeout))
		*next++

		if err := b.walkFrames(ctx, sub, id.index, depth+1, next, frames); err != nil {
			// Children of a broken frame are unreachable; the frame
			// itself already made it into the list.
			b.logger.Debug("frame subtree not walkable", "index", id.index, "error", err)
		}
	}
	return nil
}

// hostName reads the frame's declared name, falling back to the host
// element id so anonymous-but-identified frames stay addressable.
func hostName(host *rod.Element) string {
	if name, err := host.Attribute("name"); err == nil && name != nil && *name != "" {
		return *name
	}
	if id, err := host.Attribute("id"); err == nil && id != nil && *id != "" {
		return *id
	}
	return ""
}

// frameURL prefers the live document location over the host's src
// attribute, which may be relative or stale after in-frame navigation.
func frameURL(sub *rod.Page, host *rod.Element) string {
	if obj, err := sub.Eval(`() => location.href`); err == nil {
		if url := obj.Value.Str(); url != "" {
			return url
		}
	}
	if src, err := host.Attribute("src"); err == nil && src != nil {
		return *src
	}
	return ""
}

// RawPointerClick moves the mouse to page coordinates and clicks there,
// bypassing element hit testing entirely.
func (b *BrowserAdapter) RawPointerClick(ctx context.Context, x, y float64) error {
	page := b.page.Context(ctx)

	if err := page.Mouse.MoveLinear(proto.Point{X: x, Y: y}, 10); err != nil {
		return fmt.Errorf("mouse move failed: %w", err)
	}
	if err := page.Mouse.Down(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("mouse down failed: %w", err)
	}
	if err := page.Mouse.Up(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("mouse up failed: %w", err)
	}

	page.WaitIdle(2 * time.Second)
	return nil
}

func (b *BrowserAdapter) Scroll(ctx context.Context, direction string) error {
	page := b.page.Context(ctx)
	direction = strings.ToLower(strings.TrimSpace(direction))

	switch direction {
	case "down":
		page.Eval(`() => window.scrollBy(0, window.innerHeight * 2)`)
	case "up":
		page.Eval(`() => window.scrollBy(0, -window.innerHeight * 2)`)
	case "top":
		page.Eval(`() => window.scrollTo(0, 0)`)
	case "bottom":
		page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	default:
		return fmt.Errorf("unknown scroll direction: %s", direction)
	}

	page.WaitIdle(800 * time.Millisecond)
	return nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := b.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > 1024 {
		img = imaging.Resize(img, 1024, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) CurrentURL() string {
	return b.page.MustInfo().URL
}

func (b *BrowserAdapter) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}
