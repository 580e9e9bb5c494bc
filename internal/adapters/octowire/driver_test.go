package octowire

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/domain"
)

// fakePort scripts the device side of a sniff exchange: it records whatever
// the driver writes and serves canned response bytes to reads.
type fakePort struct {
	wrote    bytes.Buffer
	response *bytes.Reader
	closed   bool
}

func newFakePort(response []byte) *fakePort {
	return &fakePort{response: bytes.NewReader(response)}
}

func (p *fakePort) Read(b []byte) (int, error)  { return p.response.Read(b) }
func (p *fakePort) Write(b []byte) (int, error) { return p.wrote.Write(b) }
func (p *fakePort) Close() error                { p.closed = true; return nil }

func TestSniffCommandFramingAndSamples(t *testing.T) {
	want := []byte{1, 2, 3, 255}
	port := newFakePort(append([]byte{statusOK}, want...))
	d := New(port)

	got, err := d.Sniff(context.Background(), 16, len(want), 1000000)
	if err != nil {
		t.Fatalf("sniff: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("samples = %v, want %v", got, want)
	}

	cmd := port.wrote.Bytes()
	if len(cmd) != sniffCmdLen {
		t.Fatalf("command length %d, want %d", len(cmd), sniffCmdLen)
	}
	if cmd[0] != opSniff {
		t.Fatalf("opcode 0x%02x, want 0x%02x", cmd[0], opSniff)
	}
	if cmd[1] != 16 {
		t.Fatalf("trigger byte %d, want 16", cmd[1])
	}
	if n := binary.LittleEndian.Uint32(cmd[2:6]); n != uint32(len(want)) {
		t.Fatalf("sample count field %d, want %d", n, len(want))
	}
	if r := binary.LittleEndian.Uint32(cmd[6:10]); r != 1000000 {
		t.Fatalf("samplerate field %d, want 1000000", r)
	}
}

func TestSniffCanonicalizesNoTriggerPins(t *testing.T) {
	// Every pin at or past the no-trigger threshold must hit the wire as
	// the threshold byte itself; larger values would otherwise wrap and
	// arm a trigger on the wrong pin.
	for _, pin := range []int{16, 17, 255, 256, 1 << 20} {
		port := newFakePort([]byte{statusOK, 0})
		d := New(port)

		if _, err := d.Sniff(context.Background(), pin, 1, 1000000); err != nil {
			t.Fatalf("sniff with pin %d: %v", pin, err)
		}
		if got := port.wrote.Bytes()[1]; got != domain.NoTriggerPin {
			t.Fatalf("trigger pin %d framed as %d, want %d", pin, got, domain.NoTriggerPin)
		}
	}
}

func TestSniffKeepsRealTriggerPins(t *testing.T) {
	for _, pin := range []int{0, 7, 15} {
		port := newFakePort([]byte{statusOK, 0})
		d := New(port)

		if _, err := d.Sniff(context.Background(), pin, 1, 1000000); err != nil {
			t.Fatalf("sniff with pin %d: %v", pin, err)
		}
		if got := port.wrote.Bytes()[1]; got != byte(pin) {
			t.Fatalf("trigger pin %d framed as %d", pin, got)
		}
	}
}

func TestSniffErrorStatus(t *testing.T) {
	d := New(newFakePort([]byte{0x42}))

	if _, err := d.Sniff(context.Background(), 0, 4, 1000000); err == nil {
		t.Fatalf("expected error for non-zero status byte")
	}
}

func TestSniffShortRead(t *testing.T) {
	// Device disconnects after two of four samples.
	d := New(newFakePort([]byte{statusOK, 1, 2}))

	_, err := d.Sniff(context.Background(), 0, 4, 1000000)
	if err == nil {
		t.Fatalf("expected error for truncated sample stream")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF-style error, got %v", err)
	}
}

// blockingPort never produces data, standing in for a trigger that never fires.
type blockingPort struct {
	wrote bytes.Buffer
	stop  chan struct{}
}

func (p *blockingPort) Read(b []byte) (int, error)  { <-p.stop; return 0, io.EOF }
func (p *blockingPort) Write(b []byte) (int, error) { return p.wrote.Write(b) }
func (p *blockingPort) Close() error                { close(p.stop); return nil }

func TestSniffContextCancellation(t *testing.T) {
	port := &blockingPort{stop: make(chan struct{})}
	defer port.Close()
	d := New(port)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := d.Sniff(ctx, 2, 16, 1000000)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}

func TestConfigDefaultsAndValidation(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Baud != 7372800 {
		t.Fatalf("expected default baud 7372800, got %d", cfg.Baud)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for missing device")
	}

	cfg.Device = "/dev/ttyACM0"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
