package entity

// RetryReport is the full serialized history of one retry chain: every
// strategy that was planned and every attempt with its failure reason.
// A failed interaction always carries one of these, never a bare error.
type RetryReport struct {
	InteractionID string
	Strategies    []string
	Attempts      []InteractionAttempt
	AttemptCount  int
}

// InteractionOutcome is what the engine returns for one click/type call:
// either a success payload with provenance, or the exhausted retry report.
type InteractionOutcome struct {
	Success bool

	FrameContext FrameContext
	StrategyUsed string
	ElementTag   string
	ElementText  string

	Report *RetryReport
}

func SuccessOutcome(frame FrameContext, strategy, tag, text string) *InteractionOutcome {
	return &InteractionOutcome{
		Success:      true,
		FrameContext: frame,
		StrategyUsed: strategy,
		ElementTag:   tag,
		ElementText:  text,
	}
}

func FailureOutcome(report *RetryReport) *InteractionOutcome {
	return &InteractionOutcome{
		Success: false,
		Report:  report,
	}
}
