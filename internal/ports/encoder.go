package ports

import "github.com/immunIT/owfmodules.logic.logic-analyzer/internal/domain"

// Encoder writes a completed capture to its output representation, one row
// per sample in the original order, truncated to the first channels bits.
type Encoder interface {
	Encode(samples []domain.RawSample, channels int, path string) error
}
