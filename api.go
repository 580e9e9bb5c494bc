// Package logicanalyzer collects logic-level samples on the Octowire's 8
// GPIO channels (GPIO8-GPIO15) and saves the result in a CSV file for
// analysis in pulseview.
package logicanalyzer

import (
	base "github.com/immunIT/owfmodules.logic.logic-analyzer/pkg/logicanalyzer"
)

// Type aliases so consumers can import the module root directly.
type (
	Config         = base.Config
	CaptureConfig  = base.CaptureConfig
	DeviceProfile  = base.DeviceProfile
	MetricsConfig  = base.MetricsConfig
	JournalConfig  = base.JournalConfig
	SerialConfig   = base.SerialConfig
	Runtime        = base.Runtime
	Option         = base.Option
	CaptureRequest = base.CaptureRequest
	CaptureRecord  = base.CaptureRecord
	RawSample      = base.RawSample
	State          = base.State
	Limits         = base.Limits
	Driver         = base.Driver
	Encoder        = base.Encoder
	Journal        = base.Journal
	Observability  = base.Observability
	Field          = base.Field
)

// Device constants.
const (
	MaxChannels  = base.MaxChannels
	MaxSamples   = base.MaxSamples
	NoTriggerPin = base.NoTriggerPin
)

// Orchestrator states.
const (
	StateIdle       = base.StateIdle
	StateValidating = base.StateValidating
	StateAcquiring  = base.StateAcquiring
	StateEncoding   = base.StateEncoding
	StateDone       = base.StateDone
	StateFailed     = base.StateFailed
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Runtime construction and options.
func NewRuntime(cfg *Config, opts ...Option) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithDriver(d Driver) Option {
	return base.WithDriver(d)
}

func WithEncoder(e Encoder) Option {
	return base.WithEncoder(e)
}

func WithJournal(j Journal) Option {
	return base.WithJournal(j)
}

func WithObservability(obs Observability) Option {
	return base.WithObservability(obs)
}

// DecodeBits unpacks a raw sample into 8 per-channel bits, LSB first.
func DecodeBits(sample RawSample) [MaxChannels]byte {
	return base.DecodeBits(sample)
}
