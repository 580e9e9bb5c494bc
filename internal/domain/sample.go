package domain

// RawSample is one 8-bit snapshot of the logic level on all 8 GPIO channels
// at a single sampling instant. Bit i carries the level of channel i.
type RawSample = byte

// Device constants for the Octowire logic peripheral.
const (
	// MaxChannels is the number of physical GPIO channels exposed by the
	// hardware (GPIO8-GPIO15).
	MaxChannels = 8

	// MaxSamples is the capacity of the device's sample buffer.
	MaxSamples = 131072

	// NoTriggerPin is the threshold above which the trigger pin is treated
	// as "no trigger": the device starts sampling immediately instead of
	// waiting for an I/O change. Device protocol convention, fixed at 16
	// for the 8-channel hardware.
	NoTriggerPin = 16
)

// CaptureRequest carries the five user-supplied values for one capture.
// It is treated as immutable once validated.
type CaptureRequest struct {
	// TriggerPin gates sampling on a change of the given GPIO pin.
	// Values >= NoTriggerPin start the capture immediately.
	TriggerPin int

	// Samples is the number of raw samples to collect (1..MaxSamples).
	Samples int

	// SampleRate is the sampling frequency in samples per second. It must
	// be one of the rates supported by the target device revision.
	SampleRate int

	// Channels is how many of the 8 decoded bits end up in the output
	// file (1..MaxChannels). Channels beyond this count are dropped.
	Channels int

	// OutputPath is the destination file. A ".csv" extension is appended
	// before the capture starts when the path carries a different one.
	OutputPath string
}

// DecodeBits unpacks one raw sample into its 8 per-channel bit values,
// least-significant bit first so that index 0 is the lowest GPIO channel.
// Downstream viewers rely on this column order; it is a wire contract.
func DecodeBits(sample RawSample) [MaxChannels]byte {
	var bits [MaxChannels]byte
	for i := 0; i < MaxChannels; i++ {
		bits[i] = (sample >> i) & 1
	}
	return bits
}
