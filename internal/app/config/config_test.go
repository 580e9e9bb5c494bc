package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := `
serial:
  device: /dev/ttyACM0
capture:
  samples: 1024
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Serial.Baud != 7372800 {
		t.Fatalf("expected default baud 7372800, got %d", cfg.Serial.Baud)
	}
	if cfg.Capture.TriggerPin == nil || *cfg.Capture.TriggerPin != 16 {
		t.Fatalf("expected default trigger pin 16, got %v", cfg.Capture.TriggerPin)
	}
	if cfg.Capture.Samples != 1024 {
		t.Fatalf("expected configured samples 1024, got %d", cfg.Capture.Samples)
	}
	if cfg.Capture.SampleRate != 1_000_000 {
		t.Fatalf("expected default samplerate 1000000, got %d", cfg.Capture.SampleRate)
	}
	if cfg.Capture.Channels != 8 {
		t.Fatalf("expected default channels 8, got %d", cfg.Capture.Channels)
	}
	if cfg.Device.MaxSamples != 131072 {
		t.Fatalf("expected default max samples 131072, got %d", cfg.Device.MaxSamples)
	}
	if len(cfg.Device.AllowedRates) != 4 {
		t.Fatalf("expected 4 default allowed rates, got %v", cfg.Device.AllowedRates)
	}
	if cfg.Metrics.Addr != ":9100" {
		t.Fatalf("expected default metrics addr :9100, got %s", cfg.Metrics.Addr)
	}
	if cfg.Journal.Table != "captures" {
		t.Fatalf("expected default journal table captures, got %s", cfg.Journal.Table)
	}
}

func TestLoadKeepsTriggerPinZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := `
serial:
  device: /dev/ttyACM0
capture:
  trigger_gpio_pin: 0
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Capture.TriggerPin == nil || *cfg.Capture.TriggerPin != 0 {
		t.Fatalf("trigger pin 0 must survive defaulting, got %v", cfg.Capture.TriggerPin)
	}

	req := cfg.Request()
	if req.TriggerPin != 0 {
		t.Fatalf("expected request trigger pin 0, got %d", req.TriggerPin)
	}
}

func TestDefaultCarriesCaptureDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Capture.TriggerPin == nil || *cfg.Capture.TriggerPin != 16 {
		t.Fatalf("expected default trigger pin 16, got %v", cfg.Capture.TriggerPin)
	}
	if cfg.Capture.Samples != 131072 {
		t.Fatalf("expected default samples 131072, got %d", cfg.Capture.Samples)
	}
	if cfg.Capture.SampleRate != 1_000_000 {
		t.Fatalf("expected default samplerate 1000000, got %d", cfg.Capture.SampleRate)
	}
	if cfg.Serial.Baud != 7372800 {
		t.Fatalf("expected default baud 7372800, got %d", cfg.Serial.Baud)
	}
	if cfg.Serial.Device != "" {
		t.Fatalf("Default must not invent a serial device, got %q", cfg.Serial.Device)
	}
	if len(cfg.Device.AllowedRates) != 4 {
		t.Fatalf("expected 4 default allowed rates, got %v", cfg.Device.AllowedRates)
	}
}

func TestLoadRejectsMissingDevice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("capture:\n  samples: 8\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing serial.device")
	}
}
