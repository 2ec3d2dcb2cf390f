package interaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"frame-interactor/internal/application/port/input"
	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
	"frame-interactor/internal/security"
	"frame-interactor/internal/usecase/frames"
)

var (
	// ErrActionBlocked means the target is something the engine refuses
	// to touch (passwords, MFA codes). Blocked actions abort the whole
	// chain.
	ErrActionBlocked = errors.New("action blocked")

	// ErrActionDeclined means the user rejected a sensitive action at
	// the confirmation prompt.
	ErrActionDeclined = errors.New("action declined by user")
)

const elementTextLimit = 47

type Config struct {
	// ConfirmSensitive routes destructive-looking actions through the
	// user confirmation prompt before anything is clicked.
	ConfirmSensitive bool
}

var _ input.Interactor = (*Engine)(nil)

// Engine performs click and type interactions across every frame of a
// document: it plans the frame order, locates the element per frame,
// and drives the retry chain until one strategy lands or all are spent.
type Engine struct {
	discovery *frames.Discovery
	planner   *Planner
	locator   *Locator
	runner    *Runner
	coords    *CoordinateClicker
	intercept *InterceptDetector
	guard     *security.Detector
	ui        output.UserInteractionPort
	logger    output.LoggerPort
	cfg       Config
}

func NewEngine(
	doc output.DocumentPort,
	discovery *frames.Discovery,
	ui output.UserInteractionPort,
	logger output.LoggerPort,
	cfg Config,
) *Engine {
	return &Engine{
		discovery: discovery,
		planner:   NewPlanner(discovery, logger),
		locator:   NewLocator(logger),
		runner:    NewRunner(logger),
		coords:    NewCoordinateClicker(doc, logger),
		intercept: NewInterceptDetector(discovery, logger),
		guard:     security.NewDetector(),
		ui:        ui,
		logger:    logger,
		cfg:       cfg,
	}
}

// located remembers the best element an earlier strategy found, so the
// coordinate fallback has something to aim at.
type located struct {
	element output.ElementPort
	frame   *entity.FrameContext
	tag     string
	text    string
}

func (e *Engine) Click(ctx context.Context, req input.ClickRequest) (*entity.InteractionOutcome, error) {
	if err := e.authorize(ctx, "click", req.Description); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := e.logger.WithFields(map[string]any{
		"interaction_id": id,
		"action":         "click",
		"target":         req.Description,
	})

	steps, err := e.planner.Plan(ctx, req.ExplicitFrame, KindClick)
	if err != nil {
		return nil, err
	}
	chain := entity.NewRetryChain(id, Tags(steps), req.TimeoutPerFrame)
	log.Info("interaction started", "strategies", chain.Strategies, "timeout_per_frame_ms", chain.TimeoutPerFrame.Milliseconds())

	var last *located
	attempt := func(ctx context.Context, step Step) (*StepResult, error) {
		if step.Tag == TagCoordinate {
			return e.coordinateAttempt(ctx, last)
		}

		fc, port, err := e.resolveStep(ctx, step)
		if err != nil {
			return nil, err
		}

		match, err := e.locator.Locate(ctx, port, req.Description, req.RoleHint)
		if err != nil {
			return nil, err
		}
		last = &located{element: match.Element, frame: fc}
		last.tag, last.text = e.describeElement(ctx, match.Element)

		if err := match.Element.WaitVisible(ctx); err != nil {
			return nil, fmt.Errorf("element not visible: %w", err)
		}

		opts := output.ClickOptions{Double: req.Double, Right: req.Right}
		if err := match.Element.Click(ctx, opts); err != nil {
			return nil, e.diagnoseClickFailure(ctx, match.Element, fc, err)
		}

		return &StepResult{
			Frame:       fc,
			ElementTag:  last.tag,
			ElementText: last.text,
			Method:      match.Method,
		}, nil
	}

	res, err := e.runner.Run(ctx, chain, steps, attempt)
	if err != nil {
		return nil, err
	}
	return e.finish(log, chain, res), nil
}

func (e *Engine) TypeText(ctx context.Context, req input.TypeRequest) (*entity.InteractionOutcome, error) {
	if err := e.authorize(ctx, "type into", req.Description); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := e.logger.WithFields(map[string]any{
		"interaction_id": id,
		"action":         "type_text",
		"target":         req.Description,
	})

	steps, err := e.planner.Plan(ctx, req.ExplicitFrame, KindType)
	if err != nil {
		return nil, err
	}
	chain := entity.NewRetryChain(id, Tags(steps), req.TimeoutPerFrame)
	log.Info("interaction started", "strategies", chain.Strategies, "timeout_per_frame_ms", chain.TimeoutPerFrame.Milliseconds())

	attempt := func(ctx context.Context, step Step) (*StepResult, error) {
		fc, port, err := e.resolveStep(ctx, step)
		if err != nil {
			return nil, err
		}

		match, err := e.locator.Locate(ctx, port, req.Description, "textbox")
		if err != nil {
			return nil, err
		}
		if err := e.guardPasswordField(ctx, match.Element); err != nil {
			return nil, err
		}
		if err := match.Element.WaitVisible(ctx); err != nil {
			return nil, fmt.Errorf("element not visible: %w", err)
		}

		if req.ClearFirst {
			if err := match.Element.Clear(ctx); err != nil {
				return nil, fmt.Errorf("clear field: %w", err)
			}
		}
		if err := match.Element.Fill(ctx, req.Text); err != nil {
			return nil, fmt.Errorf("fill field: %w", err)
		}
		if req.PressEnter {
			if err := match.Element.PressKey(ctx, "Enter"); err != nil {
				return nil, fmt.Errorf("press enter: %w", err)
			}
		}

		tag, text := e.describeElement(ctx, match.Element)
		return &StepResult{Frame: fc, ElementTag: tag, ElementText: text, Method: match.Method}, nil
	}

	res, err := e.runner.Run(ctx, chain, steps, attempt)
	if err != nil {
		return nil, err
	}
	return e.finish(log, chain, res), nil
}

func (e *Engine) Hover(ctx context.Context, req input.HoverRequest) (*entity.InteractionOutcome, error) {
	id := uuid.NewString()
	log := e.logger.WithFields(map[string]any{
		"interaction_id": id,
		"action":         "hover",
		"target":         req.Description,
	})

	steps, err := e.planner.Plan(ctx, req.ExplicitFrame, KindHover)
	if err != nil {
		return nil, err
	}
	chain := entity.NewRetryChain(id, Tags(steps), req.TimeoutPerFrame)

	attempt := func(ctx context.Context, step Step) (*StepResult, error) {
		fc, port, err := e.resolveStep(ctx, step)
		if err != nil {
			return nil, err
		}
		match, err := e.locator.Locate(ctx, port, req.Description, req.RoleHint)
		if err != nil {
			return nil, err
		}
		if err := match.Element.WaitVisible(ctx); err != nil {
			return nil, fmt.Errorf("element not visible: %w", err)
		}
		if err := match.Element.Hover(ctx); err != nil {
			return nil, fmt.Errorf("hover failed: %w", err)
		}
		tag, text := e.describeElement(ctx, match.Element)
		return &StepResult{Frame: fc, ElementTag: tag, ElementText: text, Method: match.Method}, nil
	}

	res, err := e.runner.Run(ctx, chain, steps, attempt)
	if err != nil {
		return nil, err
	}
	return e.finish(log, chain, res), nil
}

func (e *Engine) SelectOption(ctx context.Context, req input.SelectRequest) (*entity.InteractionOutcome, error) {
	id := uuid.NewString()
	log := e.logger.WithFields(map[string]any{
		"interaction_id": id,
		"action":         "select_option",
		"target":         req.Description,
	})

	steps, err := e.planner.Plan(ctx, req.ExplicitFrame, KindSelect)
	if err != nil {
		return nil, err
	}
	chain := entity.NewRetryChain(id, Tags(steps), req.TimeoutPerFrame)

	attempt := func(ctx context.Context, step Step) (*StepResult, error) {
		fc, port, err := e.resolveStep(ctx, step)
		if err != nil {
			return nil, err
		}
		match, err := e.locator.Locate(ctx, port, req.Description, "combobox")
		if err != nil {
			return nil, err
		}
		if err := match.Element.WaitVisible(ctx); err != nil {
			return nil, fmt.Errorf("element not visible: %w", err)
		}
		if err := match.Element.SelectOption(ctx, req.Option); err != nil {
			return nil, fmt.Errorf("select option %q: %w", req.Option, err)
		}
		tag, text := e.describeElement(ctx, match.Element)
		return &StepResult{Frame: fc, ElementTag: tag, ElementText: text, Method: match.Method}, nil
	}

	res, err := e.runner.Run(ctx, chain, steps, attempt)
	if err != nil {
		return nil, err
	}
	return e.finish(log, chain, res), nil
}

// resolveStep returns the frame a step targets. Planned steps carry
// their port; explicit-frame steps are resolved here, at attempt time,
// so a frame that vanished since planning fails the attempt.
func (e *Engine) resolveStep(ctx context.Context, step Step) (*entity.FrameContext, output.FramePort, error) {
	if step.Port != nil {
		return step.Frame, step.Port, nil
	}

	found, err := e.discovery.Discover(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range found {
		if found[i].Context.Matches(step.Selector) {
			fc := found[i].Context
			return &fc, found[i].Port, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %q", frames.ErrFrameNotFound, step.Selector)
}

func (e *Engine) coordinateAttempt(ctx context.Context, last *located) (*StepResult, error) {
	if last == nil {
		return nil, errors.New("no element was located by any earlier strategy")
	}
	res, err := e.coords.Click(ctx, last.element)
	if err != nil {
		return nil, err
	}
	return &StepResult{
		Frame:       last.frame,
		ElementTag:  last.tag,
		ElementText: last.text,
		Method:      fmt.Sprintf("pointer at (%.1f, %.1f)", res.Point.X, res.Point.Y),
	}, nil
}

// diagnoseClickFailure enriches a click error with the overlapping frame
// when the click looks intercepted.
func (e *Engine) diagnoseClickFailure(ctx context.Context, el output.ElementPort, fc *entity.FrameContext, clickErr error) error {
	box, err := el.BoundingBox(ctx)
	if err != nil || box == nil {
		return fmt.Errorf("click failed: %w", clickErr)
	}

	frameIndex := 0
	if fc != nil {
		frameIndex = fc.Index
	}
	overlap, err := e.intercept.DetectOverlap(ctx, *box, frameIndex)
	if err != nil || overlap == nil {
		return fmt.Errorf("click failed: %w", clickErr)
	}
	return fmt.Errorf("click intercepted by frame %q: %w", overlap.Label(), clickErr)
}

// authorize refuses blocked targets and, when configured, asks the user
// before acting on sensitive ones.
func (e *Engine) authorize(ctx context.Context, action, description string) error {
	check := e.guard.Assess(description)
	if check.Blocked {
		e.logger.Warn("action blocked",
			"action", action,
			"target", description,
			"category", string(check.Type),
			"pattern", check.Matched,
		)
		return fmt.Errorf("%w: %s", ErrActionBlocked, check.Reason)
	}
	if !check.RequiresConfirmation || !e.cfg.ConfirmSensitive || e.ui == nil {
		return nil
	}

	ok, err := e.ui.Confirm(ctx, fmt.Sprintf("%s %q", action, description), check.Reason)
	if err != nil {
		return fmt.Errorf("confirm action: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrActionDeclined, action, description)
	}
	return nil
}

// guardPasswordField refuses to type into password inputs no matter how
// the target was described.
func (e *Engine) guardPasswordField(ctx context.Context, el output.ElementPort) error {
	typ, err := el.Attribute(ctx, "type")
	if err == nil && typ != nil && strings.EqualFold(*typ, "password") {
		return fmt.Errorf("%w: target is a password field", ErrActionBlocked)
	}
	return nil
}

func (e *Engine) finish(log output.LoggerPort, chain *entity.RetryChain, res *StepResult) *entity.InteractionOutcome {
	if res != nil && chain.HasSucceeded() {
		lastAttempt := chain.LastAttempt()
		var fc entity.FrameContext
		if res.Frame != nil {
			fc = *res.Frame
		}
		log.Info("interaction succeeded",
			"strategy", lastAttempt.StrategyName,
			"method", res.Method,
			"frame", fc.Label(),
			"attempts", len(chain.Attempts),
		)
		return entity.SuccessOutcome(fc, lastAttempt.StrategyName, res.ElementTag, res.ElementText)
	}

	report := chain.Report()
	log.Warn("interaction exhausted", "attempts", report.AttemptCount, "strategies", report.Strategies)
	return entity.FailureOutcome(report)
}

func (e *Engine) describeElement(ctx context.Context, el output.ElementPort) (string, string) {
	tag, err := el.TagName(ctx)
	if err != nil {
		tag = ""
	}
	text, err := el.Text(ctx)
	if err != nil {
		text = ""
	}
	return tag, truncateText(strings.TrimSpace(text), elementTextLimit)
}

func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
