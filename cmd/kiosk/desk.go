package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Seascape-Charters/service-booking/internal/application"
	"github.com/Seascape-Charters/service-booking/internal/capture"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
)

const (
	cmdBoard = "board"
	cmdReset = "reset"
)

// desk runs the check-in loop: every captured line is either a command or a
// QR payload to scan.
type desk struct {
	scanner  *capture.Scanner
	checkins *application.CheckInService
	session  auth.Session
	out      io.Writer
	prompt   string
	logger   *zap.Logger

	last *application.VerdictDTO
}

// run processes input until it is exhausted or ctx ends. The capture session
// is released on every exit path.
func (d *desk) run(ctx context.Context) error {
	if err := d.scanner.Start(ctx); err != nil {
		return err
	}
	defer d.scanner.Release()

	for {
		fmt.Fprint(d.out, d.prompt)
		line, err := d.scanner.Read(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, capture.ErrStopped) || errors.Is(err, context.Canceled) {
				fmt.Fprintln(d.out)
				return nil
			}
			return err
		}
		d.handle(ctx, line)
	}
}

func (d *desk) handle(ctx context.Context, line string) {
	switch strings.ToLower(line) {
	case cmdReset:
		d.last = nil
		fmt.Fprintln(d.out, "ready for next guest")
	case cmdBoard:
		d.board(ctx)
	default:
		d.scan(ctx, line)
	}
}

func (d *desk) scan(ctx context.Context, code string) {
	v, err := d.checkins.Scan(ctx, d.session, code)
	if err != nil {
		d.last = nil
		d.logger.Error("scan failed", zap.Error(err))
		fmt.Fprintf(d.out, "ERROR  %v\n", err)
		return
	}
	d.last = v

	fmt.Fprintf(d.out, "%s  %s\n", v.Title, v.Message)
	if v.Booking != nil {
		b := v.Booking
		fmt.Fprintf(d.out, "  %s  %s  %s %s  %d seat(s)  %s\n",
			b.Reference, b.GuestName, b.Date, b.TimeSlot, b.Seats, b.YachtName)
	}
	if v.CanBoard {
		fmt.Fprintf(d.out, "  type %q to confirm boarding or %q to skip\n", cmdBoard, cmdReset)
	}
}

func (d *desk) board(ctx context.Context) {
	if d.last == nil || !d.last.CanBoard {
		fmt.Fprintln(d.out, "nothing to board; scan a valid ticket first")
		return
	}
	id := d.last.Booking.BookingID
	d.last = nil

	bk, err := d.checkins.MarkUsed(ctx, d.session, id)
	if err != nil {
		fmt.Fprintf(d.out, "NOT BOARDED  %v\n", err)
		return
	}
	fmt.Fprintf(d.out, "BOARDED  %s (%d seat(s))\n", bk.Reference, bk.Seats)
}
