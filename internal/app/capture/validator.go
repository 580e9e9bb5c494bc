package capture

import (
	"fmt"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/domain"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/ports"
)

// Limits holds the device-revision constraints the validator checks against.
type Limits struct {
	MaxSamples   int
	AllowedRates []int
}

// DefaultLimits matches the 3 MSPS Octowire revision.
func DefaultLimits() Limits {
	return Limits{
		MaxSamples:   domain.MaxSamples,
		AllowedRates: []int{100_000, 500_000, 1_000_000, 3_000_000},
	}
}

// Validator checks capture parameters against the device constraints before
// any hardware interaction. Every violation is reported through the
// diagnostic channel rather than returned as an error.
type Validator struct {
	limits Limits
	obs    ports.Observability
}

func NewValidator(limits Limits, obs ports.Observability) *Validator {
	if limits.MaxSamples == 0 {
		limits.MaxSamples = domain.MaxSamples
	}
	if len(limits.AllowedRates) == 0 {
		limits.AllowedRates = DefaultLimits().AllowedRates
	}
	return &Validator{limits: limits, obs: obs}
}

// Validate reports the first violated constraint and returns false; true
// means the parameters are safe to hand to the driver.
func (v *Validator) Validate(trigger, samples, samplerate, channels int) bool {
	if trigger < 0 {
		v.obs.LogError("Trigger GPIO pin must be >= 0. Setting it to an invalid pin number "+
			"(16 or higher) will start the sniffing process immediately, "+
			"without waiting for any I/O change.", nil)
		return false
	}
	if samples < 1 || samples > v.limits.MaxSamples {
		v.obs.LogError(fmt.Sprintf("The number of samples must be defined between 1 and %d.",
			v.limits.MaxSamples), nil)
		return false
	}
	if !v.rateAllowed(samplerate) {
		v.obs.LogError(fmt.Sprintf("The sample rate must be one of %v.", v.limits.AllowedRates), nil)
		return false
	}
	if channels < 1 || channels > domain.MaxChannels {
		v.obs.LogError(fmt.Sprintf("The channels parameter must be defined between 1 and %d.",
			domain.MaxChannels), nil)
		return false
	}
	return true
}

func (v *Validator) rateAllowed(samplerate int) bool {
	for _, r := range v.limits.AllowedRates {
		if samplerate == r {
			return true
		}
	}
	return false
}
