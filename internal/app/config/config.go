package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/adapters/octowire"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/domain"
)

type Config struct {
	Serial  octowire.Config `yaml:"serial"`
	Capture CaptureConfig   `yaml:"capture"`
	Device  DeviceProfile   `yaml:"device"`
	Metrics MetricsConfig   `yaml:"metrics"`
	Journal JournalConfig   `yaml:"journal"`
}

// CaptureConfig holds the per-capture defaults. TriggerPin is a pointer
// because pin 0 is a legal trigger and must survive the defaulting pass.
type CaptureConfig struct {
	TriggerPin *int   `yaml:"trigger_gpio_pin"`
	Samples    int    `yaml:"samples"`
	SampleRate int    `yaml:"samplerate"`
	Channels   int    `yaml:"channels"`
	OutputFile string `yaml:"output_file"`
}

// DeviceProfile describes the constraints of the target hardware revision.
// The allowed-rate set differs across Octowire revisions, so it lives in
// config rather than code.
type DeviceProfile struct {
	MaxSamples   int   `yaml:"max_samples"`
	AllowedRates []int `yaml:"allowed_rates"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// JournalConfig enables the Postgres capture journal when ConnString is set.
type JournalConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a Config carrying the capture, device, metrics, and
// journal defaults. The serial device is deliberately left empty; callers
// building a config in code still have to point it at their hardware.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Capture.TriggerPin == nil {
		noTrigger := domain.NoTriggerPin
		c.Capture.TriggerPin = &noTrigger
	}
	if c.Capture.Samples == 0 {
		c.Capture.Samples = domain.MaxSamples
	}
	if c.Capture.SampleRate == 0 {
		c.Capture.SampleRate = 1_000_000
	}
	if c.Capture.Channels == 0 {
		c.Capture.Channels = domain.MaxChannels
	}
	if c.Device.MaxSamples == 0 {
		c.Device.MaxSamples = domain.MaxSamples
	}
	if len(c.Device.AllowedRates) == 0 {
		c.Device.AllowedRates = []int{100_000, 500_000, 1_000_000, 3_000_000}
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Journal.Table == "" {
		c.Journal.Table = "captures"
	}

	c.Serial.ApplyDefaults()
}

func (c *Config) validate() error {
	if err := c.Serial.Validate(); err != nil {
		return fmt.Errorf("serial config: %w", err)
	}
	if c.Device.MaxSamples <= 0 {
		return fmt.Errorf("device.max_samples must be > 0")
	}
	if len(c.Device.AllowedRates) == 0 {
		return fmt.Errorf("device.allowed_rates must not be empty")
	}
	return nil
}

// Request builds the capture request from the configured defaults. Output
// path is left as configured; extension normalization belongs to the
// orchestrator.
func (c *Config) Request() domain.CaptureRequest {
	trigger := domain.NoTriggerPin
	if c.Capture.TriggerPin != nil {
		trigger = *c.Capture.TriggerPin
	}
	return domain.CaptureRequest{
		TriggerPin: trigger,
		Samples:    c.Capture.Samples,
		SampleRate: c.Capture.SampleRate,
		Channels:   c.Capture.Channels,
		OutputPath: c.Capture.OutputFile,
	}
}
