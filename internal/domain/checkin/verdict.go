// Package checkin turns ledger scan and boarding responses into the verdicts
// shown to staff at the gangway.
package checkin

import (
	"errors"
	"strings"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
)

// Category is the display class of a scan verdict.
type Category string

const (
	CategoryValidReady     Category = "valid_ready"
	CategoryPaymentPending Category = "payment_pending"
	CategoryCancelled      Category = "cancelled"
	CategoryAlreadyUsed    Category = "already_used"
	CategoryInvalid        Category = "invalid"
)

var (
	ErrPaymentPending = errors.New("payment not confirmed")
	ErrCancelled      = errors.New("booking cancelled")
	ErrAlreadyUsed    = errors.New("booking already used")
	ErrInvalid        = errors.New("qr code not recognized")
)

type reasonRule struct {
	fragment string
	category Category
}

// reasonTable maps ledger reason text to a category. Rules are tried in
// order and matched case-insensitively; the ledger owns the wording.
var reasonTable = []reasonRule{
	{"PAYMENT NOT CONFIRMED", CategoryPaymentPending},
	{"PENDING", CategoryPaymentPending},
	{"CANCELLED", CategoryCancelled},
	{"ALREADY USED", CategoryAlreadyUsed},
	{"ALREADY BOARDED", CategoryAlreadyUsed},
}

// statusTable classifies a snapshot when the reason text matched nothing.
var statusTable = map[booking.BookingStatus]Category{
	booking.StatusPendingPayment: CategoryPaymentPending,
	booking.StatusConfirmed:      CategoryValidReady,
	booking.StatusCancelled:      CategoryCancelled,
	booking.StatusBoarded:        CategoryAlreadyUsed,
}

type display struct {
	title    string
	subtitle string
	err      error
}

var displayTable = map[Category]display{
	CategoryValidReady:     {"VALID BOOKING", "Ready for boarding", nil},
	CategoryPaymentPending: {"PAYMENT PENDING", "Payment not yet confirmed", ErrPaymentPending},
	CategoryCancelled:      {"BOOKING CANCELLED", "This booking was cancelled", ErrCancelled},
	CategoryAlreadyUsed:    {"ALREADY USED", "This booking has already been used", ErrAlreadyUsed},
	CategoryInvalid:        {"INVALID", "QR code not recognized", ErrInvalid},
}

// ClassifyReason maps a ledger reason to a category. ok is false when no rule
// matched.
func ClassifyReason(reason string) (category Category, ok bool) {
	upper := strings.ToUpper(reason)
	for _, rule := range reasonTable {
		if strings.Contains(upper, rule.fragment) {
			return rule.category, true
		}
	}
	return CategoryInvalid, false
}

// Verdict is the classified outcome of scanning a QR token.
type Verdict struct {
	Category Category          `json:"category"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	Booking  *booking.ScanInfo `json:"booking,omitempty"`
}

// CanBoard reports whether staff may confirm boarding for this verdict.
func (v Verdict) CanBoard() bool {
	return v.Category == CategoryValidReady && v.Booking != nil
}

// Err returns the sentinel for a non-boardable verdict, or nil.
func (v Verdict) Err() error {
	if v.CanBoard() {
		return nil
	}
	return &RejectionError{Category: v.Category, Message: v.Message}
}

// Classify builds a Verdict from a raw scan result. Anything the tables do
// not recognise is CategoryInvalid.
func Classify(result booking.ScanResult) Verdict {
	category := CategoryInvalid

	switch {
	case result.Success && result.Info != nil:
		category = CategoryValidReady
		if c, ok := classifyStatus(result.Info); ok {
			category = c
		}
	case result.Success:
		// success without a snapshot has nothing to board
	default:
		if c, ok := ClassifyReason(result.ErrorMessage); ok {
			category = c
		} else if c, ok := classifyStatus(result.Info); ok && c != CategoryValidReady {
			category = c
		}
	}

	d := displayTable[category]
	message := d.subtitle
	if !result.Success && result.ErrorMessage != "" {
		message = result.ErrorMessage
	}
	return Verdict{
		Category: category,
		Title:    d.title,
		Message:  message,
		Booking:  result.Info,
	}
}

func classifyStatus(info *booking.ScanInfo) (Category, bool) {
	if info == nil {
		return "", false
	}
	status, err := booking.ParseBookingStatus(info.Status)
	if err != nil {
		return "", false
	}
	c, ok := statusTable[status]
	return c, ok
}

// RejectionError is a classified refusal from the ledger. errors.Is matches it
// against the category sentinels.
type RejectionError struct {
	Category Category
	Message  string
}

func (e *RejectionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return displayTable[e.Category].subtitle
}

// Is matches the sentinel of the rejection's category.
func (e *RejectionError) Is(target error) bool {
	d, ok := displayTable[e.Category]
	return ok && d.err != nil && d.err == target
}

// Reject classifies the reason of a failed boarding mutation.
func Reject(reason string) *RejectionError {
	category, _ := ClassifyReason(reason)
	return &RejectionError{Category: category, Message: reason}
}
