// Package ticket renders the printable e-ticket of a booking.
package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

// Render returns a one-page A4 PDF for b. qrURL is printed under the token so
// staff can scan from a phone screen or type the code manually.
func Render(b *booking.Booking, qrURL string) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("ticket: booking is nil")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("E-Ticket "+b.Reference(), false)
	pdf.SetAuthor("Seascape Charters", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 10, "SEASCAPE E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Reference: "+b.Reference())
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Status         : " + statusLabel(b.Status()),
		"Guest          : " + safe(b.Guest().Name),
		"Email          : " + safe(b.Guest().Email),
		"Yacht          : " + safe(b.Yacht().Name),
		"Location       : " + safe(b.Yacht().Location),
		"Date           : " + b.Date().Format(booking.DateLayout),
		"Departure      : " + b.TimeSlot(),
		fmt.Sprintf("Seats          : %d", b.Seats()),
		"Payment method : " + string(b.PaymentMethod()),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, tr(l))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Price")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Subtotal       : "+money(b.Subtotal()))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Platform fee (%d%%): %s", booking.PlatformFeePercent, money(b.PlatformFee())))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total          : "+money(b.Total()))
	pdf.Ln(12)

	if b.QRToken() != "" && b.Status().HoldsQRCode() {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Check-in code")
		pdf.Ln(8)
		pdf.SetFont("Courier", "", 11)
		pdf.MultiCell(0, 6, b.QRToken(), "1", "C", false)
		if qrURL != "" {
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 5, "QR image: "+qrURL, "", "", false)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, tr(footnote(b.Status())), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}
	return buf.Bytes(), nil
}

func footnote(s booking.BookingStatus) string {
	switch s {
	case booking.StatusPendingPayment:
		return "Payment is not yet confirmed. Boarding is refused until payment is received."
	case booking.StatusCancelled:
		return "This booking was cancelled and is not valid for boarding."
	case booking.StatusBoarded:
		return "This ticket has already been used."
	}
	return "Please present this ticket at the marina 30 minutes before departure."
}

func statusLabel(s booking.BookingStatus) string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

func money(v int64) string {
	return fmt.Sprintf("%d %s", v, domain.CurrencyEGP)
}

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
