// Package memory is an in-process booking ledger. It enforces the same rules
// as the Postgres stored functions and backs local runs and tests.
package memory

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

// Reason texts returned in failed results.
const (
	reasonYachtUnavailable = "Yacht not found or unavailable"
	reasonBookingNotFound  = "Booking not found"
	reasonInvalidQR        = "Invalid QR code - booking not found"
	reasonPaymentPending   = "PAYMENT NOT CONFIRMED - Booking is awaiting payment"
	reasonCancelled        = "BOOKING CANCELLED - This booking is no longer valid"
	reasonAlreadyUsed      = "ALREADY USED - This booking has been used"
)

// ScanEvent is the audit record appended when a booking is boarded.
type ScanEvent struct {
	BookingID uuid.UUID
	StaffID   uuid.UUID
	ScannedAt time.Time
}

// InitialStatusPolicy decides the status of a new booking from its payment
// method.
type InitialStatusPolicy func(booking.PaymentMethod) booking.BookingStatus

// AwaitPayment leaves every new booking pending until payment is confirmed.
func AwaitPayment(booking.PaymentMethod) booking.BookingStatus {
	return booking.StatusPendingPayment
}

const maxReferenceAttempts = 10

// Option configures a Ledger.
type Option func(*Ledger)

// WithInitialStatusPolicy overrides AwaitPayment.
func WithInitialStatusPolicy(p InitialStatusPolicy) Option {
	return func(l *Ledger) { l.policy = p }
}

// WithReferenceGenerator overrides booking.GenerateReference.
func WithReferenceGenerator(gen func() (string, error)) Option {
	return func(l *Ledger) { l.newReference = gen }
}

type availabilityKey struct {
	yachtID uuid.UUID
	date    string
}

// Ledger implements booking.Ledger and yacht.Catalog in memory. All methods
// are safe for concurrent use; seat allocation is serialised per ledger.
type Ledger struct {
	mu           sync.RWMutex
	policy       InitialStatusPolicy
	newReference func() (string, error)
	yachts       map[uuid.UUID]*yacht.Yacht
	profiles     map[uuid.UUID]booking.Guest
	availability map[availabilityKey]int
	bookings     map[uuid.UUID]*booking.Booking
	tokens       map[string]uuid.UUID
	references   map[string]uuid.UUID
	history      map[uuid.UUID][]booking.StatusChange
	scans        []ScanEvent
}

var (
	_ booking.Ledger = (*Ledger)(nil)
	_ yacht.Catalog  = (*Ledger)(nil)
)

// New creates an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		policy:       AwaitPayment,
		newReference: booking.GenerateReference,
		yachts:       make(map[uuid.UUID]*yacht.Yacht),
		profiles:     make(map[uuid.UUID]booking.Guest),
		availability: make(map[availabilityKey]int),
		bookings:     make(map[uuid.UUID]*booking.Booking),
		tokens:       make(map[string]uuid.UUID),
		references:   make(map[string]uuid.UUID),
		history:      make(map[uuid.UUID][]booking.StatusChange),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Ping always succeeds.
func (l *Ledger) Ping(context.Context) error { return nil }

// --- Seeding ---

// AddYacht registers a listing.
func (l *Ledger) AddYacht(y yacht.Yacht) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if y.ID == uuid.Nil {
		y.ID = uuid.New()
	}
	l.yachts[y.ID] = &y
}

// AddProfile registers the profile shown for userID's bookings.
func (l *Ledger) AddProfile(userID uuid.UUID, g booking.Guest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profiles[userID] = g
}

// SetAvailability sets the remaining seats of a yacht on a date.
func (l *Ledger) SetAvailability(yachtID uuid.UUID, date time.Time, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.availability[availabilityKey{yachtID, date.Format(booking.DateLayout)}] = remaining
}

// Scans returns the boarding audit records of a booking.
func (l *Ledger) Scans(bookingID uuid.UUID) []ScanEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []ScanEvent
	for _, s := range l.scans {
		if s.BookingID == bookingID {
			out = append(out, s)
		}
	}
	return out
}

// --- booking.Ledger ---

// CreateBooking allocates seats and creates the booking.
func (l *Ledger) CreateBooking(_ context.Context, userID uuid.UUID, req booking.CreateRequest) (booking.CreateResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	y, ok := l.yachts[req.YachtID]
	if !ok || !y.IsAvailable {
		return booking.CreateResult{ErrorMessage: reasonYachtUnavailable}, nil
	}
	if req.Seats < 1 {
		return booking.CreateResult{ErrorMessage: "Seats must be at least 1"}, nil
	}

	key := availabilityKey{y.ID, req.Date.Format(booking.DateLayout)}
	remaining, exists := l.availability[key]
	if !exists {
		remaining = y.Capacity
	}
	if req.Seats > remaining || req.Seats > y.Capacity {
		return booking.CreateResult{
			ErrorMessage: fmt.Sprintf("Not enough seats available. Only %d remaining", booking.MaxSeats(y.Capacity, remaining)),
		}, nil
	}

	reference, err := l.uniqueReferenceLocked()
	if err != nil {
		return booking.CreateResult{}, err
	}

	price := ledgerPrice(y.PricePerPerson, req.Seats)
	bk, err := booking.NewBooking(
		reference,
		userID,
		y.ID,
		booking.YachtSummary{Name: y.Name, Location: string(y.Location), OwnerID: y.OwnerID},
		l.profiles[userID],
		req.Date,
		req.TimeSlot,
		price,
		req.PaymentMethod,
		l.policy(req.PaymentMethod),
		req.Notes,
	)
	if err != nil {
		if domain.IsValidation(err) {
			return booking.CreateResult{ErrorMessage: err.Error()}, nil
		}
		return booking.CreateResult{}, err
	}
	if _, taken := l.tokens[bk.QRToken()]; taken {
		return booking.CreateResult{}, fmt.Errorf("qr token collision for %s", bk.Reference())
	}

	l.availability[key] = remaining - req.Seats
	l.bookings[bk.ID()] = bk
	l.tokens[bk.QRToken()] = bk.ID()
	l.references[bk.Reference()] = bk.ID()
	l.recordLocked(bk.ID(), "", bk.Status(), &userID, "")

	return booking.CreateResult{Success: true, BookingID: bk.ID(), Reference: bk.Reference()}, nil
}

func (l *Ledger) uniqueReferenceLocked() (string, error) {
	for i := 0; i < maxReferenceAttempts; i++ {
		ref, err := l.newReference()
		if err != nil {
			return "", err
		}
		if _, taken := l.references[ref]; !taken {
			return ref, nil
		}
	}
	return "", fmt.Errorf("no unused booking reference after %d attempts", maxReferenceAttempts)
}

// CancelBooking cancels and returns the seats to availability.
func (l *Ledger) CancelBooking(_ context.Context, actorID, bookingID uuid.UUID) (booking.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bk, ok := l.bookings[bookingID]
	if !ok {
		return booking.Result{ErrorMessage: reasonBookingNotFound}, nil
	}
	prev := bk.Status()
	if err := bk.Cancel(); err != nil {
		return booking.Result{ErrorMessage: fmt.Sprintf("Booking cannot be cancelled (status: %s)", prev)}, nil
	}
	l.restoreSeatsLocked(bk)
	l.recordLocked(bk.ID(), prev, bk.Status(), &actorID, "")
	return booking.Result{Success: true}, nil
}

// ScanBooking reports whether the token's booking may board.
func (l *Ledger) ScanBooking(_ context.Context, token string) (booking.ScanResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.tokens[token]
	if !ok {
		return booking.ScanResult{ErrorMessage: reasonInvalidQR}, nil
	}
	bk := l.bookings[id]
	info := l.scanInfoLocked(bk)

	switch bk.Status() {
	case booking.StatusConfirmed:
		return booking.ScanResult{Success: true, Info: info}, nil
	case booking.StatusPendingPayment:
		return booking.ScanResult{ErrorMessage: reasonPaymentPending, Info: info}, nil
	case booking.StatusCancelled:
		return booking.ScanResult{ErrorMessage: reasonCancelled, Info: info}, nil
	default:
		return booking.ScanResult{ErrorMessage: reasonAlreadyUsed, Info: info}, nil
	}
}

// MarkBookingUsed boards a confirmed booking.
func (l *Ledger) MarkBookingUsed(_ context.Context, staffID, bookingID uuid.UUID) (booking.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bk, ok := l.bookings[bookingID]
	if !ok {
		return booking.Result{ErrorMessage: reasonBookingNotFound}, nil
	}
	switch bk.Status() {
	case booking.StatusBoarded:
		return booking.Result{ErrorMessage: reasonAlreadyUsed}, nil
	case booking.StatusCancelled:
		return booking.Result{ErrorMessage: reasonCancelled}, nil
	case booking.StatusPendingPayment:
		return booking.Result{ErrorMessage: reasonPaymentPending}, nil
	}

	prev := bk.Status()
	if err := bk.Board(); err != nil {
		return booking.Result{ErrorMessage: err.Error()}, nil
	}
	l.scans = append(l.scans, ScanEvent{BookingID: bk.ID(), StaffID: staffID, ScannedAt: time.Now().UTC()})
	l.recordLocked(bk.ID(), prev, bk.Status(), &staffID, "checked in")
	return booking.Result{Success: true}, nil
}

// UpdateBookingStatus applies an administrative transition.
func (l *Ledger) UpdateBookingStatus(_ context.Context, actorID, bookingID uuid.UUID, status booking.BookingStatus, notes string) (booking.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bk, ok := l.bookings[bookingID]
	if !ok {
		return booking.Result{ErrorMessage: reasonBookingNotFound}, nil
	}
	prev := bk.Status()
	if err := bk.TransitionTo(status, notes); err != nil {
		return booking.Result{ErrorMessage: fmt.Sprintf("Invalid status transition from %s to %s", prev, status)}, nil
	}
	switch status {
	case booking.StatusCancelled:
		l.restoreSeatsLocked(bk)
	case booking.StatusBoarded:
		l.scans = append(l.scans, ScanEvent{BookingID: bk.ID(), StaffID: actorID, ScannedAt: time.Now().UTC()})
	}
	l.recordLocked(bk.ID(), prev, status, &actorID, notes)
	return booking.Result{Success: true}, nil
}

// RegenerateQRCode issues a new token and retires the old one.
func (l *Ledger) RegenerateQRCode(_ context.Context, bookingID uuid.UUID) (booking.RegenerateResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bk, ok := l.bookings[bookingID]
	if !ok {
		return booking.RegenerateResult{ErrorMessage: reasonBookingNotFound}, nil
	}
	old := bk.QRToken()
	token, err := bk.RegenerateQRToken()
	if err != nil {
		return booking.RegenerateResult{ErrorMessage: fmt.Sprintf("Cannot regenerate QR code (status: %s)", bk.Status())}, nil
	}
	delete(l.tokens, old)
	l.tokens[token] = bk.ID()
	return booking.RegenerateResult{Success: true, QRToken: token}, nil
}

// FindBooking returns a copy of the booking.
func (l *Ledger) FindBooking(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	bk, ok := l.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk.Clone(), nil
}

// ListUserBookings returns userID's bookings, newest first.
func (l *Ledger) ListUserBookings(_ context.Context, userID uuid.UUID) ([]*booking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sortedLocked(func(b *booking.Booking) bool { return b.UserID() == userID }), nil
}

// ListBookings returns every booking, newest first.
func (l *Ledger) ListBookings(_ context.Context) ([]*booking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sortedLocked(func(*booking.Booking) bool { return true }), nil
}

// StatusHistory returns the recorded transitions, oldest first.
func (l *Ledger) StatusHistory(_ context.Context, bookingID uuid.UUID) ([]booking.StatusChange, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.bookings[bookingID]; !ok {
		return nil, domain.NewNotFoundError("Booking", bookingID.String())
	}
	out := make([]booking.StatusChange, len(l.history[bookingID]))
	copy(out, l.history[bookingID])
	return out, nil
}

// --- yacht.Catalog ---

// SearchYachts lists available yachts matching criteria, highest rated first.
func (l *Ledger) SearchYachts(_ context.Context, criteria yacht.Criteria) ([]*yacht.Yacht, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []*yacht.Yacht
	for _, y := range l.yachts {
		if criteria.Matches(y) {
			c := *y
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// FindYacht returns a copy of the listing.
func (l *Ledger) FindYacht(_ context.Context, id uuid.UUID) (*yacht.Yacht, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	y, ok := l.yachts[id]
	if !ok {
		return nil, domain.NewNotFoundError("Yacht", id.String())
	}
	c := *y
	return &c, nil
}

// ListYachts returns every listing, optionally only ownerID's, by name.
func (l *Ledger) ListYachts(_ context.Context, ownerID *uuid.UUID) ([]*yacht.Yacht, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []*yacht.Yacht
	for _, y := range l.yachts {
		if ownerID != nil && !y.OwnedBy(*ownerID) {
			continue
		}
		c := *y
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RemainingSeats returns the counter for (yachtID, date).
func (l *Ledger) RemainingSeats(_ context.Context, yachtID uuid.UUID, date time.Time) (int, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n, ok := l.availability[availabilityKey{yachtID, date.Format(booking.DateLayout)}]
	return n, ok, nil
}

// --- helpers ---

func (l *Ledger) restoreSeatsLocked(bk *booking.Booking) {
	key := availabilityKey{bk.YachtID(), bk.Date().Format(booking.DateLayout)}
	remaining, ok := l.availability[key]
	if !ok {
		return
	}
	remaining += bk.Seats()
	if y, ok := l.yachts[bk.YachtID()]; ok && remaining > y.Capacity {
		remaining = y.Capacity
	}
	l.availability[key] = remaining
}

func (l *Ledger) recordLocked(id uuid.UUID, prev, next booking.BookingStatus, by *uuid.UUID, notes string) {
	var changedBy *uuid.UUID
	if by != nil && *by != uuid.Nil {
		v := *by
		changedBy = &v
	}
	l.history[id] = append(l.history[id], booking.StatusChange{
		BookingID:      id,
		PreviousStatus: string(prev),
		NewStatus:      string(next),
		ChangedBy:      changedBy,
		Notes:          notes,
		CreatedAt:      time.Now().UTC(),
	})
}

func (l *Ledger) scanInfoLocked(bk *booking.Booking) *booking.ScanInfo {
	return &booking.ScanInfo{
		BookingID:     bk.ID(),
		Reference:     bk.Reference(),
		GuestName:     bk.Guest().Name,
		GuestEmail:    bk.Guest().Email,
		GuestPhone:    bk.Guest().Phone,
		YachtName:     bk.Yacht().Name,
		YachtLocation: bk.Yacht().Location,
		Date:          bk.Date().Format(booking.DateLayout),
		TimeSlot:      bk.TimeSlot(),
		Seats:         bk.Seats(),
		Total:         bk.Total(),
		Status:        string(bk.Status()),
		PaymentMethod: string(bk.PaymentMethod()),
	}
}

func (l *Ledger) sortedLocked(keep func(*booking.Booking) bool) []*booking.Booking {
	out := make([]*booking.Booking, 0, len(l.bookings))
	for _, b := range l.bookings {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].Reference() < out[j].Reference()
	})
	return out
}

// ledgerPrice computes the persisted price with exact rational arithmetic,
// independently of the quote shown to the guest.
func ledgerPrice(pricePerPerson int64, seats int) booking.PriceBreakdown {
	subtotal := pricePerPerson * int64(seats)

	fee := new(big.Rat).Mul(big.NewRat(subtotal, 1), big.NewRat(5, 100))
	fee.Add(fee, big.NewRat(1, 2))
	feeUnits := new(big.Int).Quo(fee.Num(), fee.Denom()).Int64()

	return booking.PriceBreakdown{
		PricePerPerson: pricePerPerson,
		Seats:          seats,
		Subtotal:       subtotal,
		PlatformFee:    feeUnits,
		Total:          subtotal + feeUnits,
		Currency:       domain.CurrencyEGP,
	}
}
