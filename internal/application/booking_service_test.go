package application

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

func TestBookingService_Quote(t *testing.T) {
	f := newFixture(t)

	price, err := f.bookings.Quote(context.Background(), QuoteRequest{YachtID: f.yacht.ID, Seats: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(2550), price.Subtotal)
	assert.Equal(t, int64(128), price.PlatformFee)
	assert.Equal(t, int64(2678), price.Total)

	_, err = f.bookings.Quote(context.Background(), QuoteRequest{YachtID: uuid.New(), Seats: 1})
	assert.True(t, domain.IsNotFound(err))
}

func TestBookingService_CreateBooking(t *testing.T) {
	f := newFixture(t)

	dto := f.book(t, f.guest, 3)

	assert.Equal(t, "pending_payment", dto.Status)
	assert.Equal(t, int64(2550), dto.Subtotal)
	assert.Equal(t, int64(128), dto.PlatformFee)
	assert.Equal(t, int64(2678), dto.Total)
	assert.Equal(t, "Mona", dto.Guest.Name)
	assert.Equal(t, tripDate, dto.Date)
	assert.NotEmpty(t, dto.QRToken)
	assert.Contains(t, dto.QRImageURL, "api.qrserver.com")
	assert.True(t, dto.CanCancel)
	assert.Equal(t, []string{booking.EventBookingCreated}, f.publisher.types())
	assert.Equal(t, booking.TopicBookingEvents, f.publisher.topics[0])

	avail, err := f.yachts.Availability(context.Background(), f.yacht.ID, tripDate)
	require.NoError(t, err)
	assert.Equal(t, 9, avail.SeatsRemaining)
}

func TestBookingService_CreateBooking_LocalValidationSkipsLedger(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateBookingRequest)
		message string
	}{
		{"too many seats", func(r *CreateBookingRequest) { r.Seats = 13 }, "Only 12 spots available for this date"},
		{"missing date", func(r *CreateBookingRequest) { r.Date = "" }, "Please select date and time"},
		{"missing time", func(r *CreateBookingRequest) { r.TimeSlot = "" }, "Please select date and time"},
		{"past date", func(r *CreateBookingRequest) { r.Date = "2030-05-31" }, "date cannot be in the past"},
		{"zero seats", func(r *CreateBookingRequest) { r.Seats = 0 }, "at least one seat is required"},
		{"bad slot", func(r *CreateBookingRequest) { r.TimeSlot = "07:30" }, "invalid time slot: 07:30"},
		{"bad payment", func(r *CreateBookingRequest) { r.PaymentMethod = "card" }, "invalid payment method: card"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := f.createRequest(2)
			tt.mutate(&req)

			_, err := f.bookings.CreateBooking(context.Background(), f.guest, req)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
			assert.Equal(t, tt.message, err.Error())
			assert.Zero(t, f.ledger.creates)
		})
	}
}

func TestBookingService_CreateBooking_UsesRemainingSeats(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.other, 10)

	_, err := f.bookings.CreateBooking(context.Background(), f.guest, f.createRequest(3))
	require.Error(t, err)
	assert.Equal(t, "Only 2 spots available for this date", err.Error())
	assert.Equal(t, 1, f.ledger.creates)
}

func TestBookingService_CreateBooking_TodayIsAllowed(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(1)
	req.Date = "2030-06-01"

	_, err := f.bookings.CreateBooking(context.Background(), f.guest, req)
	assert.NoError(t, err)
}

func TestBookingService_CreateBooking_LedgerRejectionIsVerbatim(t *testing.T) {
	f := newFixture(t)
	f.ledger.createFn = func() (booking.CreateResult, error) {
		return booking.CreateResult{ErrorMessage: "Not enough seats available. Only 1 remaining"}, nil
	}

	_, err := f.bookings.CreateBooking(context.Background(), f.guest, f.createRequest(2))
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
	assert.Equal(t, "Not enough seats available. Only 1 remaining", err.Error())
	assert.Empty(t, f.publisher.types())
}

func TestBookingService_CreateBooking_TransportError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection refused")
	f.ledger.createFn = func() (booking.CreateResult, error) { return booking.CreateResult{}, boom }

	_, err := f.bookings.CreateBooking(context.Background(), f.guest, f.createRequest(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, domain.IsBusinessRule(err))
}

func TestBookingService_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("kafka down")

	dto := f.book(t, f.guest, 1)
	assert.Equal(t, "pending_payment", dto.Status)
}

func TestBookingService_CancelBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.book(t, f.guest, 3)

	_, err := f.bookings.CancelBooking(ctx, f.other, dto.ID)
	var forbidden *domain.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	cancelled, err := f.bookings.CancelBooking(ctx, f.guest, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.False(t, cancelled.CanCancel)
	assert.Empty(t, cancelled.QRToken)

	avail, err := f.yachts.Availability(ctx, f.yacht.ID, tripDate)
	require.NoError(t, err)
	assert.Equal(t, 12, avail.SeatsRemaining)

	_, err = f.bookings.CancelBooking(ctx, f.guest, dto.ID)
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
	assert.Contains(t, err.Error(), "cannot be cancelled")

	assert.Equal(t, []string{booking.EventBookingCreated, booking.EventBookingCancelled}, f.publisher.types())
}

func TestBookingService_AdminCanCancelAnyBooking(t *testing.T) {
	f := newFixture(t)
	dto := f.book(t, f.guest, 1)

	cancelled, err := f.bookings.CancelBooking(context.Background(), f.admin, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
}

func TestBookingService_Visibility(t *testing.T) {
	f := newFixture(t)
	dto := f.book(t, f.guest, 1)

	tests := []struct {
		name    string
		sess    auth.Session
		allowed bool
	}{
		{"guest", f.guest, true},
		{"other guest", f.other, false},
		{"staff", f.staff, true},
		{"admin", f.admin, true},
		{"yacht owner", f.owner, true},
		{"unrelated owner", auth.Session{UserID: uuid.New(), Role: auth.RoleOwner}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bookings.GetBooking(context.Background(), tt.sess, dto.ID)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			var forbidden *domain.ForbiddenError
			assert.ErrorAs(t, err, &forbidden)
		})
	}

	_, err := f.bookings.GetBooking(context.Background(), f.guest, uuid.New())
	assert.True(t, domain.IsNotFound(err))
}

func TestBookingService_ListAndFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.book(t, f.guest, 1)
	f.book(t, f.other, 1)
	f.confirm(t, first.ID)

	mine, err := f.bookings.ListMyBookings(ctx, f.guest)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	_, err = f.bookings.ListBookings(ctx, f.staff, booking.Filter{})
	var forbidden *domain.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	all, err := f.bookings.ListBookings(ctx, f.admin, booking.Filter{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	confirmed, err := f.bookings.ListBookings(ctx, f.admin, booking.Filter{Status: "confirmed", Search: "mona"})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, first.Reference, confirmed[0].Reference)

	none, err := f.bookings.ListBookings(ctx, f.admin, booking.Filter{Status: "refunded"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookingService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.book(t, f.guest, 1)

	_, err := f.bookings.UpdateStatus(ctx, f.guest, dto.ID, UpdateStatusRequest{Status: "confirmed"})
	var forbidden *domain.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	_, err = f.bookings.UpdateStatus(ctx, f.admin, dto.ID, UpdateStatusRequest{Status: "refunded"})
	assert.True(t, domain.IsValidation(err))

	_, err = f.bookings.UpdateStatus(ctx, f.admin, dto.ID, UpdateStatusRequest{Status: "used"})
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))
	assert.Contains(t, err.Error(), "Invalid status transition")

	confirmed := f.confirm(t, dto.ID)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.Equal(t, "paid at desk", confirmed.AdminNotes)

	history, err := f.bookings.StatusHistory(ctx, f.admin, dto.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "confirmed", history[1].NewStatus)

	assert.Contains(t, f.publisher.types(), booking.EventBookingStatusChanged)
}

func TestBookingService_RegenerateQRCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.book(t, f.guest, 1)

	regenerated, err := f.bookings.RegenerateQRCode(ctx, f.admin, dto.ID)
	require.NoError(t, err)
	assert.NotEqual(t, dto.QRToken, regenerated.QRToken)

	verdict, err := f.checkins.Scan(ctx, f.staff, dto.QRToken)
	require.NoError(t, err)
	assert.Equal(t, "invalid", verdict.Category)

	verdict, err = f.checkins.Scan(ctx, f.staff, regenerated.QRToken)
	require.NoError(t, err)
	assert.Equal(t, "payment_pending", verdict.Category)
}

func TestBookingService_ConfirmPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.book(t, f.guest, 3)

	err := f.bookings.ConfirmPayment(ctx, booking.PaymentCapturedEvent{BookingID: dto.ID, PaymentID: "pay_1", Amount: 100, Currency: "EGP"})
	require.Error(t, err)
	assert.True(t, domain.IsBusinessRule(err))

	err = f.bookings.ConfirmPayment(ctx, booking.PaymentCapturedEvent{BookingID: dto.ID, PaymentID: "pay_1", Amount: 2678, Currency: "USD"})
	assert.True(t, domain.IsBusinessRule(err))

	require.NoError(t, f.bookings.ConfirmPayment(ctx, booking.PaymentCapturedEvent{BookingID: dto.ID, PaymentID: "pay_1", Amount: 2678, Currency: "EGP"}))

	got, err := f.bookings.GetBooking(ctx, f.guest, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, "payment pay_1 captured", got.AdminNotes)

	require.NoError(t, f.bookings.ConfirmPayment(ctx, booking.PaymentCapturedEvent{BookingID: dto.ID, PaymentID: "pay_1", Amount: 2678}))

	history, err := f.bookings.StatusHistory(ctx, f.admin, dto.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestBookingService_Ticket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.book(t, f.guest, 2)

	pdf, name, err := f.bookings.Ticket(ctx, f.guest, dto.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Equal(t, dto.Reference+".pdf", name)

	_, _, err = f.bookings.Ticket(ctx, f.other, dto.ID)
	var forbidden *domain.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}
