package logicanalyzer

import (
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/adapters/octowire"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/app/capture"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/app/config"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/domain"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/ports"
)

// CaptureRequest is the immutable set of values driving one capture.
type CaptureRequest = domain.CaptureRequest

// RawSample is one 8-bit snapshot of all GPIO channels.
type RawSample = domain.RawSample

// Device constants, re-exported for embedders.
const (
	MaxChannels  = domain.MaxChannels
	MaxSamples   = domain.MaxSamples
	NoTriggerPin = domain.NoTriggerPin
)

// DecodeBits unpacks a raw sample into 8 per-channel bits, LSB first.
func DecodeBits(sample RawSample) [MaxChannels]byte {
	return domain.DecodeBits(sample)
}

// State is the orchestrator lifecycle state.
type State = capture.State

const (
	StateIdle       = capture.StateIdle
	StateValidating = capture.StateValidating
	StateAcquiring  = capture.StateAcquiring
	StateEncoding   = capture.StateEncoding
	StateDone       = capture.StateDone
	StateFailed     = capture.StateFailed
)

// Limits are the device-revision constraints used by validation.
type Limits = capture.Limits

// Driver performs the blocking triggered capture against the hardware.
type Driver = ports.Driver

// Encoder writes a completed capture to its output representation.
type Encoder = ports.Encoder

// Journal persists capture session metadata.
type Journal = ports.Journal

// CaptureRecord is the journal row for one completed capture.
type CaptureRecord = ports.CaptureRecord

// Observability is the diagnostic and metrics channel.
type Observability = ports.Observability

// Field is a structured diagnostic field.
type Field = ports.Field

// Configuration types, re-exported so hosts can build configs in code.
type (
	Config        = config.Config
	CaptureConfig = config.CaptureConfig
	DeviceProfile = config.DeviceProfile
	MetricsConfig = config.MetricsConfig
	JournalConfig = config.JournalConfig
	SerialConfig  = octowire.Config
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns a Config with all defaults applied; the serial
// device still has to be set before the default driver can open it.
func DefaultConfig() *Config {
	return config.Default()
}
