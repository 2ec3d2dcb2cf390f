package output

import (
	"context"

	"frame-interactor/internal/domain/entity"
)

type UserInteractionPort interface {
	// Confirm asks the user to approve a sensitive action before the
	// engine performs it.
	Confirm(ctx context.Context, action, reason string) (bool, error)

	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
	ShowAttempts(ctx context.Context, report *entity.RetryReport)
}
