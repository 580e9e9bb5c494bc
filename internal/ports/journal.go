package ports

import "time"

// CaptureRecord summarizes one completed capture for the session journal.
type CaptureRecord struct {
	StartedAt  time.Time
	TriggerPin int
	Samples    int
	SampleRate int
	Channels   int
	OutputPath string
	Duration   time.Duration
}

// Journal persists capture session metadata. Journal failures never fail a
// capture; callers report them and move on.
type Journal interface {
	Record(rec CaptureRecord) error
	Name() string
}
