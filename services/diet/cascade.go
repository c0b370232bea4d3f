package diet

import (
	"fmt"

	"nutrilog/utils"

	"go.uber.org/multierr"
)

// cascade tracks the steps of a multi-document write. There is no rollback;
// the caller learns exactly which steps were applied.
type cascade struct {
	operation string
	completed []string
	failed    []string
	err       error
}

func newCascade(operation string) *cascade {
	return &cascade{operation: operation}
}

func (c *cascade) done(step string) {
	c.completed = append(c.completed, step)
}

func (c *cascade) fail(step string, err error) *cascade {
	c.failed = append(c.failed, step)
	c.err = multierr.Append(c.err, fmt.Errorf("%s: %w", step, err))
	return c
}

// result returns nil when no step failed, otherwise a utils.CascadeFailure.
func (c *cascade) result() error {
	if len(c.failed) == 0 {
		return nil
	}
	return utils.CascadeFailure{
		Operation: c.operation,
		Completed: c.completed,
		Failed:    c.failed,
		Err:       c.err,
	}
}
