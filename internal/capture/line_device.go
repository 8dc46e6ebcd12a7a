package capture

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrStopped is returned by Next after Stop.
var ErrStopped = errors.New("capture device stopped")

// LineDevice reads newline-terminated payloads from r. Keyboard-wedge
// scanners and manually typed codes both arrive this way. Blank lines are
// skipped.
type LineDevice struct {
	readMu  sync.Mutex
	scanner *bufio.Scanner
	stopped atomic.Bool
}

// NewLineDevice creates a LineDevice over r.
func NewLineDevice(r io.Reader) *LineDevice {
	d := &LineDevice{scanner: bufio.NewScanner(r)}
	d.stopped.Store(true)
	return d
}

// Start implements Device.
func (d *LineDevice) Start(context.Context) error {
	d.stopped.Store(false)
	return nil
}

// Next implements Device. It returns io.EOF when the input is exhausted.
func (d *LineDevice) Next(ctx context.Context) (string, error) {
	d.readMu.Lock()
	defer d.readMu.Unlock()

	for {
		if d.stopped.Load() {
			return "", ErrStopped
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !d.scanner.Scan() {
			if err := d.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		if d.stopped.Load() {
			return "", ErrStopped
		}
		if line := strings.TrimSpace(d.scanner.Text()); line != "" {
			return line, nil
		}
	}
}

// Stop implements Device. A Next blocked on input returns ErrStopped once
// that input arrives.
func (d *LineDevice) Stop() error {
	d.stopped.Store(true)
	return nil
}
