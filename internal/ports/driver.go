package ports

import (
	"context"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/domain"
)

// Driver performs the actual triggered capture against the hardware. Sniff
// blocks for the whole sampling window; with a trigger configured it may
// block indefinitely until the trigger fires or ctx is cancelled. The
// returned slice holds exactly the requested number of samples in capture
// order.
type Driver interface {
	Sniff(ctx context.Context, triggerPin, samples, samplerate int) ([]domain.RawSample, error)
}
