// Package tool adapts the interaction engine and frame inspector into
// named tools with JSON arguments, the calling convention of the REPL
// and of function-calling agents alike.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"frame-interactor/internal/application/port/input"
	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

// ExhaustedError is returned when every strategy of an interaction
// failed. It carries the full retry report so callers can show the
// attempt trail instead of a bare message.
type ExhaustedError struct {
	Description string
	Report      *entity.RetryReport
}

func (e *ExhaustedError) Error() string {
	lines := make([]string, 0, len(e.Report.Attempts)+2)
	lines = append(lines, fmt.Sprintf("all %d strategies exhausted for %q:", e.Report.AttemptCount, e.Description))
	for i, a := range e.Report.Attempts {
		lines = append(lines, fmt.Sprintf("  %d. %s: %s (%dms)", i+1, a.StrategyName, a.Error, a.DurationMS))
	}
	lines = append(lines, "hint: use list_frames or accessibility_tree to inspect the document")
	return strings.Join(lines, "\n")
}

func describeTarget(outcome *entity.InteractionOutcome) string {
	switch {
	case outcome.ElementTag != "" && outcome.ElementText != "":
		return fmt.Sprintf("%s %q", outcome.ElementTag, outcome.ElementText)
	case outcome.ElementTag != "":
		return outcome.ElementTag
	case outcome.ElementText != "":
		return fmt.Sprintf("%q", outcome.ElementText)
	default:
		return "element"
	}
}

func describeFrame(outcome *entity.InteractionOutcome) string {
	if outcome.FrameContext.IsMain() {
		return "main frame"
	}
	return fmt.Sprintf("frame %q", outcome.FrameContext.Label())
}

func timeoutFromMS(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// frameParam is shared by every interaction tool.
func frameParam() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Pin the interaction to one frame: its name, aria-label, title, index or 'main'. Disables cross-frame retries; the interaction fails after a single attempt if the frame is missing.",
	}
}

func timeoutParam() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Per-frame timeout in milliseconds. Default 10000.",
	}
}

type ClickTool struct {
	interactor input.Interactor
	logger     output.LoggerPort
}

func NewClickTool(interactor input.Interactor, logger output.LoggerPort) *ClickTool {
	return &ClickTool{interactor: interactor, logger: logger}
}

func (t *ClickTool) Name() entity.ToolName { return entity.ToolClick }
func (t *ClickTool) Description() string {
	return "Click an element described in natural language ('Add to cart button', 'Search'). The element is searched in the main frame first, then inside every iframe, and finally by raw coordinates, so you do not need to know which frame holds it. Use 'frame' only when you already know the frame; use 'role' to narrow the search (button, link, checkbox). On failure the result lists every attempted strategy with its reason."
}
func (t *ClickTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Human description of the element to click",
			},
			"role": map[string]interface{}{
				"type":        "string",
				"description": "ARIA role hint tried first: button, link, checkbox, radio, combobox, textbox",
			},
			"frame": frameParam(),
			"double": map[string]interface{}{
				"type":        "boolean",
				"description": "Double-click instead of single click",
				"default":     false,
			},
			"right": map[string]interface{}{
				"type":        "boolean",
				"description": "Right-click (context menu) instead of left click",
				"default":     false,
			},
			"timeout_ms": timeoutParam(),
		},
		"required": []string{"description"},
	}
}

func (t *ClickTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		Description string `json:"description"`
		Role        string `json:"role"`
		Frame       string `json:"frame"`
		Double      bool   `json:"double"`
		Right       bool   `json:"right"`
		TimeoutMS   int    `json:"timeout_ms"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	if in.Description == "" {
		return "", fmt.Errorf("'description' is required")
	}

	outcome, err := t.interactor.Click(ctx, input.ClickRequest{
		Description:     in.Description,
		RoleHint:        in.Role,
		ExplicitFrame:   in.Frame,
		Double:          in.Double,
		Right:           in.Right,
		TimeoutPerFrame: timeoutFromMS(in.TimeoutMS),
	})
	if err != nil {
		return "", err
	}
	if !outcome.Success {
		return "", &ExhaustedError{Description: in.Description, Report: outcome.Report}
	}

	verb := "Clicked"
	if in.Double {
		verb = "Double-clicked"
	} else if in.Right {
		verb = "Right-clicked"
	}
	return fmt.Sprintf("%s %s in %s (strategy: %s)", verb, describeTarget(outcome), describeFrame(outcome), outcome.StrategyUsed), nil
}

type TypeTextTool struct {
	interactor input.Interactor
	logger     output.LoggerPort
}

func NewTypeTextTool(interactor input.Interactor, logger output.LoggerPort) *TypeTextTool {
	return &TypeTextTool{interactor: interactor, logger: logger}
}

func (t *TypeTextTool) Name() entity.ToolName { return entity.ToolTypeText }
func (t *TypeTextTool) Description() string {
	return "Type text into an input described in natural language ('Search box', 'email field'). The field is searched across every frame of the document. The field is cleared first unless 'clear_first' is false; set 'press_enter' to submit after typing. Password fields are always refused."
}
func (t *TypeTextTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Human description of the input field",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to type into the field",
			},
			"clear_first": map[string]interface{}{
				"type":        "boolean",
				"description": "Clear the field before typing",
				"default":     true,
			},
			"press_enter": map[string]interface{}{
				"type":        "boolean",
				"description": "Press Enter after typing",
				"default":     false,
			},
			"frame":      frameParam(),
			"timeout_ms": timeoutParam(),
		},
		"required": []string{"description", "text"},
	}
}

func (t *TypeTextTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		Description string `json:"description"`
		Text        string `json:"text"`
		ClearFirst  *bool  `json:"clear_first"`
		PressEnter  bool   `json:"press_enter"`
		Frame       string `json:"frame"`
		TimeoutMS   int    `json:"timeout_ms"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	if in.Description == "" {
		return "", fmt.Errorf("'description' is required")
	}

	clearFirst := true
	if in.ClearFirst != nil {
		clearFirst = *in.ClearFirst
	}
	if in.Text == "" && !clearFirst {
		return "", fmt.Errorf("'text' is required unless clear_first is set")
	}

	outcome, err := t.interactor.TypeText(ctx, input.TypeRequest{
		Description:     in.Description,
		Text:            in.Text,
		ClearFirst:      clearFirst,
		PressEnter:      in.PressEnter,
		ExplicitFrame:   in.Frame,
		TimeoutPerFrame: timeoutFromMS(in.TimeoutMS),
	})
	if err != nil {
		return "", err
	}
	if !outcome.Success {
		return "", &ExhaustedError{Description: in.Description, Report: outcome.Report}
	}

	result := fmt.Sprintf("Typed %q into %s in %s (strategy: %s)", in.Text, describeTarget(outcome), describeFrame(outcome), outcome.StrategyUsed)
	if in.PressEnter {
		result += ", pressed Enter"
	}
	return result, nil
}

type HoverTool struct {
	interactor input.Interactor
	logger     output.LoggerPort
}

func NewHoverTool(interactor input.Interactor, logger output.LoggerPort) *HoverTool {
	return &HoverTool{interactor: interactor, logger: logger}
}

func (t *HoverTool) Name() entity.ToolName { return entity.ToolHover }
func (t *HoverTool) Description() string {
	return "Move the mouse over an element described in natural language, without clicking. Useful for opening hover menus and tooltips. The element is searched across every frame of the document."
}
func (t *HoverTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Human description of the element to hover over",
			},
			"role": map[string]interface{}{
				"type":        "string",
				"description": "ARIA role hint tried first",
			},
			"frame":      frameParam(),
			"timeout_ms": timeoutParam(),
		},
		"required": []string{"description"},
	}
}

func (t *HoverTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		Description string `json:"description"`
		Role        string `json:"role"`
		Frame       string `json:"frame"`
		TimeoutMS   int    `json:"timeout_ms"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	if in.Description == "" {
		return "", fmt.Errorf("'description' is required")
	}

	outcome, err := t.interactor.Hover(ctx, input.HoverRequest{
		Description:     in.Description,
		RoleHint:        in.Role,
		ExplicitFrame:   in.Frame,
		TimeoutPerFrame: timeoutFromMS(in.TimeoutMS),
	})
	if err != nil {
		return "", err
	}
	if !outcome.Success {
		return "", &ExhaustedError{Description: in.Description, Report: outcome.Report}
	}
	return fmt.Sprintf("Hovering over %s in %s (strategy: %s)", describeTarget(outcome), describeFrame(outcome), outcome.StrategyUsed), nil
}

type SelectOptionTool struct {
	interactor input.Interactor
	logger     output.LoggerPort
}

func NewSelectOptionTool(interactor input.Interactor, logger output.LoggerPort) *SelectOptionTool {
	return &SelectOptionTool{interactor: interactor, logger: logger}
}

func (t *SelectOptionTool) Name() entity.ToolName { return entity.ToolSelectOption }
func (t *SelectOptionTool) Description() string {
	return "Select an option from a dropdown (<select>) described in natural language. 'value' is matched against the visible option text first, then against CSS option values. The dropdown is searched across every frame of the document."
}
func (t *SelectOptionTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Human description of the dropdown",
			},
			"value": map[string]interface{}{
				"type":        "string",
				"description": "Visible text of the option to select",
			},
			"frame":      frameParam(),
			"timeout_ms": timeoutParam(),
		},
		"required": []string{"description", "value"},
	}
}

func (t *SelectOptionTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		Description string `json:"description"`
		Value       string `json:"value"`
		Frame       string `json:"frame"`
		TimeoutMS   int    `json:"timeout_ms"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	if in.Description == "" {
		return "", fmt.Errorf("'description' is required")
	}
	if in.Value == "" {
		return "", fmt.Errorf("'value' is required")
	}

	outcome, err := t.interactor.SelectOption(ctx, input.SelectRequest{
		Description:     in.Description,
		Option:          in.Value,
		ExplicitFrame:   in.Frame,
		TimeoutPerFrame: timeoutFromMS(in.TimeoutMS),
	})
	if err != nil {
		return "", err
	}
	if !outcome.Success {
		return "", &ExhaustedError{Description: in.Description, Report: outcome.Report}
	}
	return fmt.Sprintf("Selected %q in %s in %s (strategy: %s)", in.Value, describeTarget(outcome), describeFrame(outcome), outcome.StrategyUsed), nil
}
