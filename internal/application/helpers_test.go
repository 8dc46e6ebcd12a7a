package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/ledger/memory"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/kafka"
	"github.com/Seascape-Charters/service-booking/internal/qrcode"
)

const tripDate = "2030-06-15"

var clock = time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []kafka.CloudEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// countingLedger records calls and can override mutation results.
type countingLedger struct {
	booking.Ledger
	mu       sync.Mutex
	creates  int
	markUsed int
	createFn func() (booking.CreateResult, error)
}

func (l *countingLedger) CreateBooking(ctx context.Context, userID uuid.UUID, req booking.CreateRequest) (booking.CreateResult, error) {
	l.mu.Lock()
	l.creates++
	fn := l.createFn
	l.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return l.Ledger.CreateBooking(ctx, userID, req)
}

func (l *countingLedger) MarkBookingUsed(ctx context.Context, staffID, bookingID uuid.UUID) (booking.Result, error) {
	l.mu.Lock()
	l.markUsed++
	l.mu.Unlock()
	return l.Ledger.MarkBookingUsed(ctx, staffID, bookingID)
}

type fixture struct {
	mem       *memory.Ledger
	ledger    *countingLedger
	yacht     yacht.Yacht
	publisher *recordingPublisher

	bookings *BookingService
	checkins *CheckInService
	yachts   *YachtService
	stats    *StatsService

	guest auth.Session
	other auth.Session
	staff auth.Session
	admin auth.Session
	owner auth.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.New()
	ownerID := uuid.New()
	y := yacht.Yacht{
		ID:             uuid.New(),
		OwnerID:        &ownerID,
		Name:           "Blue Horizon",
		Type:           yacht.ActivityPrivateYacht,
		Location:       yacht.LocationMarsaMatruh,
		Capacity:       12,
		PricePerPerson: 850,
		Rating:         4.8,
		IsAvailable:    true,
	}
	mem.AddYacht(y)

	f := &fixture{
		mem:       mem,
		ledger:    &countingLedger{Ledger: mem},
		yacht:     y,
		publisher: &recordingPublisher{},
		guest:     auth.Session{UserID: uuid.New(), Role: auth.RoleGuest, Email: "mona@example.com", Name: "Mona"},
		other:     auth.Session{UserID: uuid.New(), Role: auth.RoleGuest},
		staff:     auth.Session{UserID: uuid.New(), Role: auth.RoleStaff},
		admin:     auth.Session{UserID: uuid.New(), Role: auth.RoleAdmin},
		owner:     auth.Session{UserID: ownerID, Role: auth.RoleOwner},
	}
	mem.AddProfile(f.guest.UserID, booking.Guest{Name: "Mona", Email: "mona@example.com"})

	qr, err := qrcode.NewRenderer("")
	require.NoError(t, err)

	log := zap.NewNop()
	f.bookings = NewBookingService(f.ledger, mem, booking.NewStandardPricingStrategy(), qr, f.publisher, time.UTC, log)
	f.bookings.now = func() time.Time { return clock }
	f.checkins = NewCheckInService(f.ledger, f.publisher, log)
	f.yachts = NewYachtService(mem, log)
	f.stats = NewStatsService(mem, mem, log)
	return f
}

func (f *fixture) createRequest(seats int) CreateBookingRequest {
	return CreateBookingRequest{
		YachtID:       f.yacht.ID,
		Date:          tripDate,
		TimeSlot:      "10:00",
		Seats:         seats,
		PaymentMethod: "cash",
	}
}

func (f *fixture) book(t *testing.T, sess auth.Session, seats int) *BookingDTO {
	t.Helper()
	dto, err := f.bookings.CreateBooking(context.Background(), sess, f.createRequest(seats))
	require.NoError(t, err)
	return dto
}

func (f *fixture) confirm(t *testing.T, id uuid.UUID) *BookingDTO {
	t.Helper()
	dto, err := f.bookings.UpdateStatus(context.Background(), f.admin, id, UpdateStatusRequest{Status: "confirmed", Notes: "paid at desk"})
	require.NoError(t, err)
	return dto
}
