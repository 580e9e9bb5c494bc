package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	logicanalyzer "github.com/immunIT/owfmodules.logic.logic-analyzer"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "capture":
		err = captureCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("owf-logic %s: %v", cmd, err)
	}
}

func captureCommand(args []string) error {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file")
	trigger := fs.Int("trigger", 0, "Trigger GPIO pin; 16 or higher starts sampling immediately")
	samples := fs.Int("samples", 0, "Number of samples to collect")
	samplerate := fs.Int("samplerate", 0, "Sample rate in samples per second")
	channels := fs.Int("channels", 0, "Number of channels to save in the output file")
	output := fs.String("output", "", "Output filename (.csv is appended when missing)")
	serveMetrics := fs.Bool("metrics", false, "Expose Prometheus metrics while the capture runs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := logicanalyzer.LoadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	req := cfg.Request()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trigger":
			req.TriggerPin = *trigger
		case "samples":
			req.Samples = *samples
		case "samplerate":
			req.SampleRate = *samplerate
		case "channels":
			req.Channels = *channels
		case "output":
			req.OutputPath = *output
		}
	})
	// Catch a missing output filename before the runtime dials the port.
	if req.OutputPath == "" {
		return fmt.Errorf("an output filename is required (-output or capture.output_file)")
	}

	rt, err := logicanalyzer.NewRuntime(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *serveMetrics {
		rt.StartMetrics()
	}

	state := rt.Capture(ctx, req)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.Close(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	if state != logicanalyzer.StateDone {
		return fmt.Errorf("capture ended in state %s", state)
	}
	return nil
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := logicanalyzer.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"owf_captures_total":         0,
		"owf_capture_failures_total": 0,
		"owf_samples_captured_total": 0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %f", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] captures=%.0f failures=%.0f samples=%.0f\n",
		time.Now().Format(time.RFC3339),
		targets["owf_captures_total"],
		targets["owf_capture_failures_total"],
		targets["owf_samples_captured_total"],
	)
	return nil
}

func printUsage() {
	fmt.Printf(`Octowire Logic Analyzer

Usage:
  owf-logic <command> [flags]

Commands:
  capture    Run one logic capture and save the samples to a CSV file
  validate   Load and validate a config file without touching the hardware
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  owf-logic capture -config ./config.yaml -samples 4096 -channels 2 -output trace
  owf-logic validate -config ./config.yaml
  owf-logic stats -url http://localhost:9100/metrics -interval 1s
`)
}
