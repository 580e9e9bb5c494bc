package octowire

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/domain"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/ports"
)

// Sniff command framing. The Octowire answers with a single status byte once
// the capture completed, followed by the raw sample bytes.
const (
	opSniff  = 0x0B
	statusOK = 0x00

	sniffCmdLen = 10
)

// Config captures the serial link details for the Octowire hardware.
type Config struct {
	Device      string        `yaml:"device"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.Baud == 0 {
		c.Baud = 7372800
	}
}

func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("serial device is required")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	return nil
}

// Driver speaks the sniff operation to an Octowire over a serial port. The
// wire protocol past the sniff command is opaque to the rest of the module.
type Driver struct {
	port io.ReadWriteCloser
}

// Open dials the configured serial device. The read timeout is left at zero
// (blocking) by default: a triggered sniff legitimately waits forever until
// the trigger fires.
func Open(cfg Config) (*Driver, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}
	return New(port), nil
}

// New wraps an already-open port. Tests inject an in-memory one.
func New(port io.ReadWriteCloser) *Driver {
	return &Driver{port: port}
}

// Sniff arms the capture and blocks until the device returns the full sample
// buffer. The read runs in its own goroutine so a cancelled context unblocks
// the caller; the port read itself only ends on data, error, or disconnect.
func (d *Driver) Sniff(ctx context.Context, triggerPin, samples, samplerate int) ([]domain.RawSample, error) {
	// The wire field is a single byte and every pin past the trigger range
	// means "start immediately", so canonicalize before framing: a plain
	// byte conversion would wrap pin 256 to 0 and arm a trigger instead.
	trigger := triggerPin
	if trigger >= domain.NoTriggerPin {
		trigger = domain.NoTriggerPin
	}

	cmd := make([]byte, sniffCmdLen)
	cmd[0] = opSniff
	cmd[1] = byte(trigger)
	binary.LittleEndian.PutUint32(cmd[2:6], uint32(samples))
	binary.LittleEndian.PutUint32(cmd[6:10], uint32(samplerate))

	if _, err := d.port.Write(cmd); err != nil {
		return nil, fmt.Errorf("send sniff command: %w", err)
	}

	type result struct {
		buf []byte
		err error
	}
	done := make(chan result, 1)

	go func() {
		var status [1]byte
		if _, err := io.ReadFull(d.port, status[:]); err != nil {
			done <- result{err: fmt.Errorf("read sniff status: %w", err)}
			return
		}
		if status[0] != statusOK {
			done <- result{err: fmt.Errorf("device rejected sniff: status 0x%02x", status[0])}
			return
		}

		buf := make([]byte, samples)
		if _, err := io.ReadFull(d.port, buf); err != nil {
			done <- result{err: fmt.Errorf("read samples: %w", err)}
			return
		}
		done <- result{buf: buf}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.buf, r.err
	}
}

func (d *Driver) Close() error {
	if d.port != nil {
		return d.port.Close()
	}
	return nil
}

var _ ports.Driver = (*Driver)(nil)
