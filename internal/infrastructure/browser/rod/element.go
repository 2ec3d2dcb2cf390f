package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
)

var _ output.ElementPort = (*elementPort)(nil)

// keyMap maps the key names callers use to rod key codes.
var keyMap = map[string]input.Key{
	"Enter":      input.Enter,
	"Tab":        input.Tab,
	"Escape":     input.Escape,
	"Backspace":  input.Backspace,
	"Delete":     input.Delete,
	"ArrowUp":    input.ArrowUp,
	"ArrowDown":  input.ArrowDown,
	"ArrowLeft":  input.ArrowLeft,
	"ArrowRight": input.ArrowRight,
	"Home":       input.Home,
	"End":        input.End,
	"PageUp":     input.PageUp,
	"PageDown":   input.PageDown,
	"Space":      input.Space,
}

type elementPort struct {
	el *rod.Element
}

func (e *elementPort) bound(ctx context.Context) *rod.Element {
	return e.el.Context(ctx)
}

func (e *elementPort) WaitVisible(ctx context.Context) error {
	if err := e.bound(ctx).WaitVisible(); err != nil {
		return fmt.Errorf("wait visible: %w", err)
	}
	return nil
}

func (e *elementPort) Click(ctx context.Context, opts output.ClickOptions) error {
	button := proto.InputMouseButtonLeft
	if opts.Right {
		button = proto.InputMouseButtonRight
	}
	count := 1
	if opts.Double {
		count = 2
	}

	if err := e.bound(ctx).Click(button, count); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (e *elementPort) Fill(ctx context.Context, text string) error {
	if err := e.bound(ctx).Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

// Clear selects the field's content and deletes it with a Backspace
// press. Inserting an empty string over a selection is not guaranteed to
// remove it; the key press is.
func (e *elementPort) Clear(ctx context.Context) error {
	el := e.bound(ctx)
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text failed: %w", err)
	}
	if err := el.Type(input.Backspace); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	return nil
}

func (e *elementPort) PressKey(ctx context.Context, key string) error {
	rodKey, ok := keyMap[key]
	if !ok {
		if len(key) != 1 {
			return fmt.Errorf("unknown key: %s", key)
		}
		rodKey = input.Key(rune(key[0]))
	}

	if err := e.bound(ctx).Type(rodKey); err != nil {
		return fmt.Errorf("press %s failed: %w", key, err)
	}
	return nil
}

func (e *elementPort) Hover(ctx context.Context) error {
	if err := e.bound(ctx).Hover(); err != nil {
		return fmt.Errorf("hover failed: %w", err)
	}
	return nil
}

// SelectOption picks a <select> option by its visible text, falling
// back to value/selector matching.
func (e *elementPort) SelectOption(ctx context.Context, option string) error {
	el := e.bound(ctx)
	if err := el.Select([]string{option}, true, rod.SelectorTypeText); err == nil {
		return nil
	}
	if err := el.Select([]string{option}, true, rod.SelectorTypeCSSSector); err != nil {
		return fmt.Errorf("select option %q failed: %w", option, err)
	}
	return nil
}

// BoundingBox returns nil without error when the element has no layout,
// so callers can tell "not rendered" from "browser broke".
func (e *elementPort) BoundingBox(ctx context.Context) (*entity.BoundingBox, error) {
	shape, err := e.bound(ctx).Shape()
	if err != nil {
		// display:none elements make DevTools refuse the quad
		// computation instead of returning an empty set.
		var cdpErr *cdp.Error
		if errors.As(err, &cdpErr) && strings.Contains(cdpErr.Message, "Could not compute content quads") {
			return nil, nil
		}
		return nil, fmt.Errorf("element shape: %w", err)
	}
	if len(shape.Quads) == 0 {
		return nil, nil
	}

	box := shape.Box()
	return &entity.BoundingBox{
		X:      box.X,
		Y:      box.Y,
		Width:  box.Width,
		Height: box.Height,
	}, nil
}

func (e *elementPort) ScrollIntoView(ctx context.Context) error {
	if err := e.bound(ctx).ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll into view: %w", err)
	}
	return nil
}

func (e *elementPort) Attribute(ctx context.Context, name string) (*string, error) {
	val, err := e.bound(ctx).Attribute(name)
	if err != nil {
		return nil, fmt.Errorf("read attribute %q: %w", name, err)
	}
	return val, nil
}

func (e *elementPort) TagName(ctx context.Context) (string, error) {
	obj, err := e.bound(ctx).Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return "", fmt.Errorf("read tag name: %w", err)
	}
	return obj.Value.Str(), nil
}

func (e *elementPort) Text(ctx context.Context) (string, error) {
	text, err := e.bound(ctx).Text()
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return text, nil
}
