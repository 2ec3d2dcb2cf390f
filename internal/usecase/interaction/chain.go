package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/domain/entity"
	"frame-interactor/internal/usecase/frames"
)

// Kind tells the planner which interaction the chain is for. Only
// clicks get the coordinate fallback; everything else needs a real
// element handle to act on.
type Kind string

const (
	KindClick  Kind = "click"
	KindType   Kind = "type"
	KindHover  Kind = "hover"
	KindSelect Kind = "select"
)

// Strategy tags as they appear in retry reports.
const (
	TagMainFrame   = "main_frame"
	TagCoordinate  = "coordinate_click"
	iframeTagFmt   = "iframe:%s"
	explicitTagFmt = "frame:%s"
)

// Step binds one chain strategy to the frame it operates on. Explicit
// frame steps carry only the selector and are resolved at attempt time,
// so a frame that vanished between planning and attempting fails the
// attempt instead of the plan. The coordinate step has neither frame nor
// selector.
type Step struct {
	Tag      string
	Frame    *entity.FrameContext
	Port     output.FramePort
	Selector string
}

// Planner turns a document's frame structure into the ordered strategy
// list for one interaction.
type Planner struct {
	discovery *frames.Discovery
	logger    output.LoggerPort
}

func NewPlanner(discovery *frames.Discovery, logger output.LoggerPort) *Planner {
	return &Planner{discovery: discovery, logger: logger}
}

// Plan builds the steps for one interaction. With an explicit frame the
// plan is a single step and no discovery runs; otherwise the prioritized
// accessible frames each get a step, plus the coordinate fallback for
// clicks.
func (p *Planner) Plan(ctx context.Context, explicitFrame string, kind Kind) ([]Step, error) {
	if explicitFrame != "" {
		return []Step{{
			Tag:      fmt.Sprintf(explicitTagFmt, explicitFrame),
			Selector: explicitFrame,
		}}, nil
	}

	found, err := p.discovery.Discover(ctx)
	if err != nil {
		return nil, err
	}

	ordered := frames.Prioritize(found, false)
	steps := make([]Step, 0, len(ordered)+1)
	for _, f := range ordered {
		fc := f.Context
		tag := TagMainFrame
		if !fc.IsMain() {
			tag = fmt.Sprintf(iframeTagFmt, fc.Label())
		}
		steps = append(steps, Step{Tag: tag, Frame: &fc, Port: f.Port})
	}

	if kind == KindClick {
		steps = append(steps, Step{Tag: TagCoordinate})
	}

	p.logger.Debug("interaction plan built", "kind", string(kind), "strategies", Tags(steps))
	return steps, nil
}

// Tags lists the strategy tags of a plan, in order.
func Tags(steps []Step) []string {
	tags := make([]string, len(steps))
	for i, s := range steps {
		tags[i] = s.Tag
	}
	return tags
}

// StepResult is what a successful attempt reports back: where the
// element was and what it looked like.
type StepResult struct {
	Frame       *entity.FrameContext
	ElementTag  string
	ElementText string
	Method      string
}

// AttemptFunc executes one strategy. The context carries the
// per-strategy timeout.
type AttemptFunc func(ctx context.Context, step Step) (*StepResult, error)

// Runner drives a retry chain to completion. It owns the state machine
// transitions; the attempt callback owns the actual browser work.
type Runner struct {
	logger output.LoggerPort
}

func NewRunner(logger output.LoggerPort) *Runner {
	return &Runner{logger: logger}
}

// Run executes attempts until the chain succeeds or exhausts. It returns
// the successful step's result, or (nil, nil) when the chain exhausted:
// exhaustion is an outcome the caller reports, not an error. A non-nil
// error means the run itself broke off (cancelled context, blocked
// action, corrupt chain) and the chain did not finish.
func (r *Runner) Run(ctx context.Context, chain *entity.RetryChain, steps []Step, attempt AttemptFunc) (*StepResult, error) {
	if len(steps) != len(chain.Strategies) {
		return nil, fmt.Errorf("chain has %d strategies but %d steps", len(chain.Strategies), len(steps))
	}

	var success *StepResult
	for {
		switch chain.State() {
		case entity.ChainSucceeded:
			return success, nil
		case entity.ChainExhausted:
			return nil, nil
		case entity.ChainAttempting:
			return nil, errors.New("retry chain already has an attempt in flight")
		case entity.ChainPending:
			// fall through to the attempt below
		default:
			return nil, fmt.Errorf("retry chain in unknown state %q", chain.State())
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tag, ok := chain.Begin()
		if !ok {
			continue
		}
		step := steps[chain.Cursor]

		attemptCtx, cancel := context.WithTimeout(ctx, chain.TimeoutPerFrame)
		start := time.Now()
		res, err := attempt(attemptCtx, step)
		cancel()

		rec := entity.InteractionAttempt{
			StrategyName: tag,
			FrameContext: step.Frame,
			DurationMS:   time.Since(start).Milliseconds(),
		}

		if err == nil {
			rec.Succeeded = true
			if rec.FrameContext == nil && res != nil {
				rec.FrameContext = res.Frame
			}
			chain.Succeed(rec)
			success = res
			r.logger.Info("strategy succeeded", "interaction_id", chain.ID, "strategy", tag, "duration_ms", rec.DurationMS)
			continue
		}

		rec.Error = classifyAttemptError(err, chain.TimeoutPerFrame)
		chain.Fail(rec)
		r.logger.Warn("strategy failed",
			"interaction_id", chain.ID,
			"strategy", tag,
			"error", rec.Error,
			"attempt", len(chain.Attempts),
			"total", len(chain.Strategies),
		)

		// The enclosing task was cancelled: abandon the remaining
		// strategies.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// A blocked action stays blocked in every frame.
		if errors.Is(err, ErrActionBlocked) {
			return nil, err
		}
	}
}

func classifyAttemptError(err error, timeout time.Duration) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("timeout after %dms", timeout.Milliseconds())
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return err.Error()
	}
}
