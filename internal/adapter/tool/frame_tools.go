package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"frame-interactor/internal/application/port/input"
	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

type ListFramesTool struct {
	inspector input.FrameInspector
	logger    output.LoggerPort
}

func NewListFramesTool(inspector input.FrameInspector, logger output.LoggerPort) *ListFramesTool {
	return &ListFramesTool{inspector: inspector, logger: logger}
}

func (t *ListFramesTool) Name() entity.ToolName { return entity.ToolListFrames }
func (t *ListFramesTool) Description() string {
	return "List every frame of the current document: the main document plus all iframes, with their names, accessible labels, titles, URLs and nesting. Index 0 is always the main document. Use this when an element cannot be found, to see which frames exist and which are cross-origin."
}
func (t *ListFramesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

func (t *ListFramesTool) Execute(ctx context.Context, args string) (string, error) {
	frames, err := t.inspector.ListFrames(ctx)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(frames)+1)
	lines = append(lines, fmt.Sprintf("Found %d frames:", len(frames)))
	for _, fc := range frames {
		lines = append(lines, renderFrameLine(fc))
	}
	return strings.Join(lines, "\n"), nil
}

func renderFrameLine(fc entity.FrameContext) string {
	head := fmt.Sprintf("[%d] main", fc.Index)
	if !fc.IsMain() {
		head = fmt.Sprintf("[%d] iframe", fc.Index)
		if label := fc.Label(); label != strconv.Itoa(fc.Index) {
			head += fmt.Sprintf(" %q", label)
		}
	}

	parts := []string{head}
	if fc.Title != "" {
		parts = append(parts, fmt.Sprintf("title: %q", fc.Title))
	}
	if fc.SourceURL != "" {
		parts = append(parts, fc.SourceURL)
	}
	if !fc.IsAccessible {
		parts = append(parts, "inaccessible (cross-origin or detached)")
	}
	if fc.ParentIndex != nil && *fc.ParentIndex != 0 {
		parts = append(parts, fmt.Sprintf("nested in frame %d", *fc.ParentIndex))
	}
	return strings.Join(parts, " | ")
}

type FrameContentTool struct {
	inspector input.FrameInspector
	logger    output.LoggerPort
}

func NewFrameContentTool(inspector input.FrameInspector, logger output.LoggerPort) *FrameContentTool {
	return &FrameContentTool{inspector: inspector, logger: logger}
}

func (t *FrameContentTool) Name() entity.ToolName { return entity.ToolFrameContent }
func (t *FrameContentTool) Description() string {
	return "Read the content of one frame as rendered text, cleaned HTML, or both. The frame is addressed by name, aria-label, title, index or 'main'. Long content is truncated to 'max_length' characters. Fails for cross-origin frames."
}
func (t *FrameContentTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"frame": map[string]interface{}{
				"type":        "string",
				"description": "Frame selector: name, aria-label, title, index or 'main'",
			},
			"mode": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"text", "html", "both"},
				"description": "What to extract. Default: text",
				"default":     "text",
			},
			"max_length": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum content length in characters. Default 5000.",
			},
		},
		"required": []string{"frame"},
	}
}

func (t *FrameContentTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		Frame     string `json:"frame"`
		Mode      string `json:"mode"`
		MaxLength int    `json:"max_length"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	if in.Frame == "" {
		return "", fmt.Errorf("'frame' is required")
	}

	content, err := t.inspector.FrameContent(ctx, input.FrameContentRequest{
		FrameSelector: in.Frame,
		Mode:          in.Mode,
		MaxLength:     in.MaxLength,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Content of frame %q", content.Frame.Label())
	if content.Truncated {
		b.WriteString(" (truncated)")
	}
	b.WriteString(":\n")

	if content.Text != "" {
		b.WriteString(content.Text)
	}
	if content.HTML != "" {
		if content.Text != "" {
			b.WriteString("\n--- HTML ---\n")
		}
		b.WriteString(content.HTML)
	}
	return b.String(), nil
}

type SwitchFrameTool struct {
	inspector input.FrameInspector
	logger    output.LoggerPort
}

func NewSwitchFrameTool(inspector input.FrameInspector, logger output.LoggerPort) *SwitchFrameTool {
	return &SwitchFrameTool{inspector: inspector, logger: logger}
}

func (t *SwitchFrameTool) Name() entity.ToolName { return entity.ToolSwitchFrame }
func (t *SwitchFrameTool) Description() string {
	return "Inspect one frame and learn how to address it directly in later interactions: the most stable selector string and how many interactive elements it contains. Interactions do not need this (they search every frame automatically); use it to pin a series of actions to one frame via their 'frame' argument."
}
func (t *SwitchFrameTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"frame": map[string]interface{}{
				"type":        "string",
				"description": "Frame selector: name, aria-label, title, index or 'main'",
			},
		},
		"required": []string{"frame"},
	}
}

func (t *SwitchFrameTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		Frame string `json:"frame"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	if in.Frame == "" {
		return "", fmt.Errorf("'frame' is required")
	}

	summary, err := t.inspector.SwitchRecommendation(ctx, in.Frame)
	if err != nil {
		return "", err
	}

	lines := []string{
		fmt.Sprintf("Frame [%d] %q resolves to selector %q.", summary.Frame.Index, summary.Frame.Label(), summary.RecommendedSelector),
	}
	if summary.Frame.IsAccessible {
		lines = append(lines, fmt.Sprintf("Interactive elements: %d.", summary.InteractiveElements))
	} else {
		lines = append(lines, "The frame is not accessible (cross-origin or detached); only coordinate clicks can reach it.")
	}
	lines = append(lines, fmt.Sprintf("Pass frame=%q to click/type_text/hover/select_option to pin interactions to it.", summary.RecommendedSelector))
	return strings.Join(lines, "\n"), nil
}

type WaitFramesTool struct {
	inspector input.FrameInspector
	logger    output.LoggerPort
}

func NewWaitFramesTool(inspector input.FrameInspector, logger output.LoggerPort) *WaitFramesTool {
	return &WaitFramesTool{inspector: inspector, logger: logger}
}

func (t *WaitFramesTool) Name() entity.ToolName { return entity.ToolWaitFrames }
func (t *WaitFramesTool) Description() string {
	return "Wait until the document has at least 'min_count' frames. Embedded widgets (payment forms, chats, search) often inject their iframes late; call this before interacting with content that lives in such a widget."
}
func (t *WaitFramesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"min_count": map[string]interface{}{
				"type":        "integer",
				"description": "Minimum number of frames, main document included",
			},
			"timeout_ms": timeoutParam(),
		},
		"required": []string{"min_count"},
	}
}

func (t *WaitFramesTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		MinCount  int `json:"min_count"`
		TimeoutMS int `json:"timeout_ms"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	if in.MinCount <= 0 {
		return "", fmt.Errorf("'min_count' must be positive")
	}

	frames, err := t.inspector.WaitForFrames(ctx, input.WaitFramesRequest{
		MinCount: in.MinCount,
		Timeout:  timeoutFromMS(in.TimeoutMS),
	})
	if err != nil {
		return "", fmt.Errorf("%w (%d frames present)", err, len(frames))
	}
	return fmt.Sprintf("Document has %d frames (waited for at least %d).", len(frames), in.MinCount), nil
}

type AccessibilityTreeTool struct {
	snapshot input.SnapshotTaker
	logger   output.LoggerPort
}

func NewAccessibilityTreeTool(snapshot input.SnapshotTaker, logger output.LoggerPort) *AccessibilityTreeTool {
	return &AccessibilityTreeTool{snapshot: snapshot, logger: logger}
}

func (t *AccessibilityTreeTool) Name() entity.ToolName { return entity.ToolAccessibility }
func (t *AccessibilityTreeTool) Description() string {
	return "Render the accessibility outline of the whole document: roles and accessible names of every element, frame subtrees included and marked with their frame identity. This is the fastest way to see what can be interacted with and to pick exact element descriptions for click/type_text."
}
func (t *AccessibilityTreeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"max_depth": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum frame nesting depth to descend into. Default 3.",
			},
		},
		"required": []string{},
	}
}

func (t *AccessibilityTreeTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		MaxDepth int `json:"max_depth"`
	}
	if args != "" {
		if err := json.Unmarshal([]byte(args), &in); err != nil {
			return "", err
		}
	}

	outline, err := t.snapshot.AccessibilityTree(ctx, in.MaxDepth)
	if err != nil {
		return "", err
	}
	if outline == "" {
		return "(document has no accessible content)", nil
	}
	return outline, nil
}
