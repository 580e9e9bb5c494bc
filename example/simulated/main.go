// Runs a capture against a simulated driver instead of real hardware, which
// is handy for trying the CSV output without an Octowire attached.
package main

import (
	"context"
	"log"

	logicanalyzer "github.com/immunIT/owfmodules.logic.logic-analyzer"
)

type countingDriver struct{}

func (countingDriver) Sniff(ctx context.Context, triggerPin, samples, samplerate int) ([]logicanalyzer.RawSample, error) {
	out := make([]logicanalyzer.RawSample, samples)
	for i := range out {
		out[i] = byte(i)
	}
	return out, nil
}

func main() {
	cfg := logicanalyzer.DefaultConfig()
	cfg.Serial.Device = "unused" // the simulated driver never opens it
	cfg.Capture.OutputFile = "simulated"

	rt, err := logicanalyzer.NewRuntime(cfg, logicanalyzer.WithDriver(countingDriver{}))
	if err != nil {
		log.Fatalf("new runtime: %v", err)
	}
	defer rt.Close(context.Background())

	req := rt.DefaultRequest()
	req.Samples = 64
	req.Channels = 4

	if state := rt.Capture(context.Background(), req); state != logicanalyzer.StateDone {
		log.Fatalf("capture ended in state %s", state)
	}
}
