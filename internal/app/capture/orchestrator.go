package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/adapters/csvsink"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/domain"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/ports"
)

// State tracks where a capture run is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateAcquiring
	StateEncoding
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateAcquiring:
		return "acquiring"
	case StateEncoding:
		return "encoding"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Orchestrator runs one capture request end to end: validate, acquire,
// encode, report. No error crosses its boundary; every failure ends as an
// ERROR diagnostic and a Failed terminal state, so the host process never
// crashes over a bad capture.
type Orchestrator struct {
	validator *Validator
	driver    ports.Driver
	encoder   ports.Encoder
	journal   ports.Journal // optional
	obs       ports.Observability

	state State
}

func NewOrchestrator(limits Limits, driver ports.Driver, encoder ports.Encoder, journal ports.Journal, obs ports.Observability) *Orchestrator {
	return &Orchestrator{
		validator: NewValidator(limits, obs),
		driver:    driver,
		encoder:   encoder,
		journal:   journal,
		obs:       obs,
		state:     StateIdle,
	}
}

// State returns the state reached by the most recent run.
func (o *Orchestrator) State() State {
	return o.state
}

// Run processes a single capture request to completion and returns the
// terminal state. Requests are handled one at a time; the acquisition step
// may block indefinitely when a configured trigger never fires, in which
// case cancelling ctx (or disconnecting the device) unblocks it.
func (o *Orchestrator) Run(ctx context.Context, req domain.CaptureRequest) (final State) {
	defer func() {
		if r := recover(); r != nil {
			o.fail("capture aborted", fmt.Errorf("unexpected error: %v", r))
			final = o.state
		}
	}()

	// Extension policy is applied once, before anything touches the
	// hardware or the filesystem.
	outputPath := csvsink.NormalizePath(req.OutputPath)

	o.state = StateValidating
	if !o.validator.Validate(req.TriggerPin, req.Samples, req.SampleRate, req.Channels) {
		// The validator already reported the violated constraint.
		o.state = StateFailed
		o.obs.IncCounter("owf_capture_failures_total", 1)
		return o.state
	}

	o.state = StateAcquiring
	o.obs.LogInfo("Sniffing samples...")
	started := time.Now()

	samples, err := o.driver.Sniff(ctx, req.TriggerPin, req.Samples, req.SampleRate)
	if err != nil {
		o.fail("sniffing failed", err)
		return o.state
	}

	o.state = StateEncoding
	o.obs.LogInfo("Saving results to CSV file...")
	if err := o.encoder.Encode(samples, req.Channels, outputPath); err != nil {
		o.fail("saving capture failed", err)
		return o.state
	}

	duration := time.Since(started)
	o.obs.IncCounter("owf_captures_total", 1)
	o.obs.IncCounter("owf_samples_captured_total", float64(len(samples)))
	o.obs.SetGauge("owf_last_capture_samples", float64(len(samples)))
	o.obs.ObserveLatency("owf_capture_duration_seconds", duration.Seconds())

	o.obs.LogSuccess(fmt.Sprintf("Use the following command line to open the capture with pulseview: "+
		"'pulseview(.exe) -i %s -I csv:samplerate=%d'", outputPath, req.SampleRate))

	o.recordSession(started, req, outputPath, duration)

	o.state = StateDone
	return o.state
}

func (o *Orchestrator) fail(msg string, err error) {
	o.obs.LogError(msg, err)
	o.obs.IncCounter("owf_capture_failures_total", 1)
	o.state = StateFailed
}

// recordSession journals the capture when a journal is configured. Journal
// errors are reported but never turn a finished capture into a failure.
func (o *Orchestrator) recordSession(started time.Time, req domain.CaptureRequest, outputPath string, duration time.Duration) {
	if o.journal == nil {
		return
	}
	rec := ports.CaptureRecord{
		StartedAt:  started,
		TriggerPin: req.TriggerPin,
		Samples:    req.Samples,
		SampleRate: req.SampleRate,
		Channels:   req.Channels,
		OutputPath: outputPath,
		Duration:   duration,
	}
	if err := o.journal.Record(rec); err != nil {
		o.obs.LogError("journal record failed", err,
			ports.Field{Key: "journal", Value: o.journal.Name()})
	}
}
