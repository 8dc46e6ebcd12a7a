// Package capture owns the QR capture device used at the check-in desk.
// Only one capture session may be active at a time.
package capture

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrSessionActive is returned by Start while another session holds the device.
	ErrSessionActive = errors.New("capture session already active")
	// ErrNoSession is returned by Read when no session is active.
	ErrNoSession = errors.New("no active capture session")
)

// Device is a source of scanned QR payloads.
type Device interface {
	Start(ctx context.Context) error
	// Next blocks until the next payload is read.
	Next(ctx context.Context) (string, error)
	Stop() error
}

// Scanner guards exclusive access to a Device.
type Scanner struct {
	mu     sync.Mutex
	device Device
	active bool
	logger *zap.Logger
}

// NewScanner creates a Scanner for device.
func NewScanner(device Device, logger *zap.Logger) *Scanner {
	return &Scanner{device: device, logger: logger}
}

// Start opens a capture session. It fails with ErrSessionActive if one is
// already open.
func (s *Scanner) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return ErrSessionActive
	}
	if err := s.device.Start(ctx); err != nil {
		return err
	}
	s.active = true
	s.logger.Debug("capture session started")
	return nil
}

// Read returns the next payload from the active session.
func (s *Scanner) Read(ctx context.Context) (string, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()

	if !active {
		return "", ErrNoSession
	}
	return s.device.Next(ctx)
}

// Active reports whether a session is open.
func (s *Scanner) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Release stops the active session. Stop errors are logged and swallowed;
// calling Release with no session is a no-op.
func (s *Scanner) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	s.active = false
	if err := s.device.Stop(); err != nil {
		s.logger.Warn("failed to stop capture device", zap.Error(err))
		return
	}
	s.logger.Debug("capture session released")
}
