package tool

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
	"frame-interactor/internal/security"
)

type NavigateTool struct {
	doc    output.DocumentPort
	guard  *security.Detector
	logger output.LoggerPort
}

func NewNavigateTool(doc output.DocumentPort, logger output.LoggerPort) *NavigateTool {
	return &NavigateTool{doc: doc, guard: security.NewDetector(), logger: logger}
}

func (t *NavigateTool) Name() entity.ToolName { return entity.ToolNavigate }
func (t *NavigateTool) Description() string {
	return "Navigate the browser to a URL and wait for the page to load. Returns the final URL after redirects. Landing on a payment or login page adds a warning to the result."
}
func (t *NavigateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL to navigate to",
			},
		},
		"required": []string{"url"},
	}
}

func (t *NavigateTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	if in.URL == "" {
		return "", fmt.Errorf("'url' is required")
	}

	if err := t.doc.Navigate(ctx, in.URL); err != nil {
		return "", err
	}

	finalURL := t.doc.CurrentURL()
	result := fmt.Sprintf("Navigated to %s", finalURL)
	for _, warning := range t.guard.CheckPage(finalURL, "") {
		result += "\n⚠ " + warning.Reason
	}
	return result, nil
}

type ScreenshotTool struct {
	doc    output.DocumentPort
	logger output.LoggerPort
}

func NewScreenshotTool(doc output.DocumentPort, logger output.LoggerPort) *ScreenshotTool {
	return &ScreenshotTool{doc: doc, logger: logger}
}

func (t *ScreenshotTool) Name() entity.ToolName { return entity.ToolScreenshot }
func (t *ScreenshotTool) Description() string {
	return "Take a screenshot of the visible page, downscaled to at most 1024px wide. Returns a data URI. Use it when the accessibility tree and frame content are not enough to understand the layout."
}
func (t *ScreenshotTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

func (t *ScreenshotTool) Execute(ctx context.Context, args string) (string, error) {
	screenshot, err := t.doc.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	b64 := base64.StdEncoding.EncodeToString(screenshot.Data)
	return fmt.Sprintf("data:image/%s;base64,%s", screenshot.Format, b64), nil
}

type ScrollTool struct {
	doc    output.DocumentPort
	logger output.LoggerPort
}

func NewScrollTool(doc output.DocumentPort, logger output.LoggerPort) *ScrollTool {
	return &ScrollTool{doc: doc, logger: logger}
}

func (t *ScrollTool) Name() entity.ToolName { return entity.ToolScroll }
func (t *ScrollTool) Description() string {
	return "Scroll the main document up, down, to the top or to the bottom. Scrolling can reveal lazily loaded iframes; run list_frames again after scrolling if a widget was missing."
}
func (t *ScrollTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"direction": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"up", "down", "top", "bottom"},
				"description": "Scroll direction",
			},
		},
		"required": []string{"direction"},
	}
}

func (t *ScrollTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		Direction string `json:"direction"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	direction := strings.ToLower(in.Direction)
	if direction == "" {
		return "", fmt.Errorf("'direction' is required")
	}

	if err := t.doc.Scroll(ctx, direction); err != nil {
		return "", err
	}
	return fmt.Sprintf("Scrolled %s", direction), nil
}
