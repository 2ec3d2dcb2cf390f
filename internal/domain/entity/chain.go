package entity

import "time"

type ChainState string

const (
	ChainPending    ChainState = "pending"
	ChainAttempting ChainState = "attempting"
	ChainSucceeded  ChainState = "succeeded"
	ChainExhausted  ChainState = "exhausted"
)

func (s ChainState) String() string {
	return string(s)
}

// InteractionAttempt is the immutable record of one strategy execution.
type InteractionAttempt struct {
	StrategyName string
	FrameContext *FrameContext
	Succeeded    bool
	DurationMS   int64
	Error        string
}

// RetryChain is the state machine for one logical interaction. The
// strategy list is fixed at construction; the cursor only moves forward;
// attempts are append-only. A chain is created per click/type call and
// discarded afterwards, never reused.
type RetryChain struct {
	ID              string
	Strategies      []string
	Cursor          int
	TimeoutPerFrame time.Duration
	Attempts        []InteractionAttempt

	state ChainState
}

const DefaultTimeoutPerFrame = 10 * time.Second

func NewRetryChain(id string, strategies []string, timeoutPerFrame time.Duration) *RetryChain {
	if timeoutPerFrame <= 0 {
		timeoutPerFrame = DefaultTimeoutPerFrame
	}
	state := ChainPending
	if len(strategies) == 0 {
		state = ChainExhausted
	}
	return &RetryChain{
		ID:              id,
		Strategies:      strategies,
		TimeoutPerFrame: timeoutPerFrame,
		state:           state,
	}
}

func (c *RetryChain) State() ChainState {
	return c.state
}

// CurrentStrategy returns the strategy at the cursor, or false when the
// chain is exhausted.
func (c *RetryChain) CurrentStrategy() (string, bool) {
	if c.Cursor >= len(c.Strategies) {
		return "", false
	}
	return c.Strategies[c.Cursor], true
}

func (c *RetryChain) IsExhausted() bool {
	return c.state == ChainExhausted
}

func (c *RetryChain) HasSucceeded() bool {
	for _, a := range c.Attempts {
		if a.Succeeded {
			return true
		}
	}
	return false
}

// Begin moves the chain from pending into the attempt for the current
// strategy. The returned tag is only valid when ok is true.
func (c *RetryChain) Begin() (string, bool) {
	if c.state != ChainPending {
		return "", false
	}
	tag, ok := c.CurrentStrategy()
	if !ok {
		c.state = ChainExhausted
		return "", false
	}
	c.state = ChainAttempting
	return tag, true
}

// Succeed records a successful attempt and terminates the chain.
func (c *RetryChain) Succeed(attempt InteractionAttempt) {
	c.Attempts = append(c.Attempts, attempt)
	c.state = ChainSucceeded
}

// Fail records a failed attempt and advances the cursor; the chain
// becomes exhausted once every strategy has been tried.
func (c *RetryChain) Fail(attempt InteractionAttempt) {
	c.Attempts = append(c.Attempts, attempt)
	c.Cursor++
	if c.Cursor >= len(c.Strategies) {
		c.state = ChainExhausted
	} else {
		c.state = ChainPending
	}
}

func (c *RetryChain) LastAttempt() *InteractionAttempt {
	if len(c.Attempts) == 0 {
		return nil
	}
	return &c.Attempts[len(c.Attempts)-1]
}

// Report serializes the chain for the caller. Attempts are copied so the
// report stays valid after the chain is discarded.
func (c *RetryChain) Report() *RetryReport {
	strategies := make([]string, len(c.Strategies))
	copy(strategies, c.Strategies)
	attempts := make([]InteractionAttempt, len(c.Attempts))
	copy(attempts, c.Attempts)
	return &RetryReport{
		InteractionID: c.ID,
		Strategies:    strategies,
		Attempts:      attempts,
		AttemptCount:  len(attempts),
	}
}
