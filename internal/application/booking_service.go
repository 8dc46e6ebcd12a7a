package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
	"github.com/Seascape-Charters/service-booking/internal/platform/kafka"
	"github.com/Seascape-Charters/service-booking/internal/qrcode"
	"github.com/Seascape-Charters/service-booking/internal/ticket"
)

const eventSource = "service-booking"

// EventPublisher publishes CloudEvents. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingService is the application service orchestrating booking use cases.
// It never changes booking state itself: every mutation is requested from the
// ledger and the result is read back from it.
type BookingService struct {
	ledger    booking.Ledger
	catalog   yacht.Catalog
	pricing   booking.PricingStrategy
	qr        *qrcode.Renderer
	publisher EventPublisher
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewBookingService creates a new BookingService. publisher may be nil, in
// which case lifecycle events are not published.
func NewBookingService(
	ledger booking.Ledger,
	catalog yacht.Catalog,
	pricing booking.PricingStrategy,
	qr *qrcode.Renderer,
	publisher EventPublisher,
	location *time.Location,
	logger *zap.Logger,
) *BookingService {
	if location == nil {
		location = time.UTC
	}
	return &BookingService{
		ledger:    ledger,
		catalog:   catalog,
		pricing:   pricing,
		qr:        qr,
		publisher: publisher,
		logger:    logger,
		location:  location,
		now:       time.Now,
	}
}

// Quote prices seats on a yacht without creating anything.
func (s *BookingService) Quote(ctx context.Context, req QuoteRequest) (*booking.PriceBreakdown, error) {
	y, err := s.catalog.FindYacht(ctx, req.YachtID)
	if err != nil {
		return nil, err
	}
	price, err := s.pricing.Quote(y.PricePerPerson, req.Seats)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// CreateBooking validates the request locally, asks the ledger to allocate
// the seats and returns the booking as the ledger recorded it.
func (s *BookingService) CreateBooking(ctx context.Context, sess auth.Session, req CreateBookingRequest) (*BookingDTO, error) {
	if !sess.IsAuthenticated() {
		return nil, domain.NewForbiddenError("sign in to book a trip")
	}

	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := booking.ParseDate(strings.TrimSpace(req.Date))
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	y, err := s.catalog.FindYacht(ctx, req.YachtID)
	if err != nil {
		return nil, err
	}
	if !y.IsAvailable {
		return nil, domain.NewBusinessRuleError("Yacht not found or unavailable")
	}

	remaining := y.Capacity
	if !date.IsZero() {
		n, ok, err := s.catalog.RemainingSeats(ctx, y.ID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to read availability: %w", err)
		}
		if ok {
			remaining = n
		}
	}

	createReq := booking.CreateRequest{
		YachtID:       y.ID,
		Date:          date,
		TimeSlot:      strings.TrimSpace(req.TimeSlot),
		Seats:         req.Seats,
		PaymentMethod: booking.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := createReq.Validate(s.now().In(s.location), y.Capacity, remaining); err != nil {
		return nil, err
	}

	res, err := s.ledger.CreateBooking(ctx, sess.UserID, createReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	if !res.Success {
		s.logger.Info("booking rejected by ledger",
			zap.String("user_id", sess.UserID.String()),
			zap.String("yacht_id", y.ID.String()),
			zap.String("reason", res.ErrorMessage),
		)
		return nil, domain.NewBusinessRuleError(res.ErrorMessage)
	}

	bk, err := s.ledger.FindBooking(ctx, res.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("reference", bk.Reference()),
		zap.Int("seats", bk.Seats()),
		zap.Int64("total", bk.Total()),
	)
	s.publishLifecycle(ctx, booking.EventBookingCreated, bk, "", sess.UserID)

	result := s.toDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking on behalf of its guest or an admin.
func (s *BookingService) CancelBooking(ctx context.Context, sess auth.Session, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.ledger.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.UserID() != sess.UserID && !sess.IsAdmin() {
		return nil, domain.NewForbiddenError("you can only cancel your own bookings")
	}
	previous := bk.Status()

	res, err := s.ledger.CancelBooking(ctx, sess.UserID, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if !res.Success {
		return nil, domain.NewBusinessRuleError(res.ErrorMessage)
	}

	bk, err = s.ledger.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cancelled booking: %w", err)
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bk.ID().String()),
		zap.String("actor_id", sess.UserID.String()),
	)
	s.publishLifecycle(ctx, booking.EventBookingCancelled, bk, previous, sess.UserID)

	result := s.toDTO(bk)
	return &result, nil
}

// GetBooking returns a booking visible to the session.
func (s *BookingService) GetBooking(ctx context.Context, sess auth.Session, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.visibleBooking(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}
	result := s.toDTO(bk)
	return &result, nil
}

// ListMyBookings returns the session user's bookings, newest first.
func (s *BookingService) ListMyBookings(ctx context.Context, sess auth.Session) ([]BookingDTO, error) {
	bookings, err := s.ledger.ListUserBookings(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings, s.qrURL), nil
}

// ListBookings returns every booking matching filter (admin).
func (s *BookingService) ListBookings(ctx context.Context, sess auth.Session, filter booking.Filter) ([]BookingDTO, error) {
	if !sess.IsAdmin() {
		return nil, domain.NewForbiddenError("admin role required")
	}
	bookings, err := s.ledger.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(filter.Apply(bookings), s.qrURL), nil
}

// StatusHistory returns the status changes of a booking (admin).
func (s *BookingService) StatusHistory(ctx context.Context, sess auth.Session, bookingID uuid.UUID) ([]booking.StatusChange, error) {
	if !sess.IsAdmin() {
		return nil, domain.NewForbiddenError("admin role required")
	}
	return s.ledger.StatusHistory(ctx, bookingID)
}

// UpdateStatus applies an administrative status override.
func (s *BookingService) UpdateStatus(ctx context.Context, sess auth.Session, bookingID uuid.UUID, req UpdateStatusRequest) (*BookingDTO, error) {
	if !sess.IsAdmin() {
		return nil, domain.NewForbiddenError("admin role required")
	}
	target, err := booking.ParseBookingStatus(req.Status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	return s.changeStatus(ctx, sess.UserID, bookingID, target, strings.TrimSpace(req.Notes))
}

// RegenerateQRCode replaces a booking's check-in token (admin). The previous
// token stops being recognised.
func (s *BookingService) RegenerateQRCode(ctx context.Context, sess auth.Session, bookingID uuid.UUID) (*BookingDTO, error) {
	if !sess.IsAdmin() {
		return nil, domain.NewForbiddenError("admin role required")
	}

	res, err := s.ledger.RegenerateQRCode(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate qr code: %w", err)
	}
	if !res.Success {
		return nil, domain.NewBusinessRuleError(res.ErrorMessage)
	}

	bk, err := s.ledger.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	s.logger.Info("qr code regenerated", zap.String("booking_id", bk.ID().String()))
	s.publishLifecycle(ctx, booking.EventBookingQRRegenerated, bk, bk.Status(), sess.UserID)

	result := s.toDTO(bk)
	return &result, nil
}

// ConfirmPayment confirms a pending booking once its payment is captured.
// Bookings that are no longer pending are left untouched.
func (s *BookingService) ConfirmPayment(ctx context.Context, evt booking.PaymentCapturedEvent) error {
	bk, err := s.ledger.FindBooking(ctx, evt.BookingID)
	if err != nil {
		return err
	}
	if bk.Status() != booking.StatusPendingPayment {
		s.logger.Info("payment for non-pending booking ignored",
			zap.String("booking_id", bk.ID().String()),
			zap.String("status", string(bk.Status())),
			zap.String("payment_id", evt.PaymentID),
		)
		return nil
	}
	if evt.Currency != "" && !strings.EqualFold(evt.Currency, domain.CurrencyEGP) {
		return domain.NewBusinessRuleError(fmt.Sprintf("payment currency %s does not match %s", evt.Currency, domain.CurrencyEGP))
	}
	if evt.Amount != bk.Total() {
		return domain.NewBusinessRuleError(fmt.Sprintf("payment amount %d does not match booking total %d", evt.Amount, bk.Total()))
	}

	system := auth.SystemSession()
	_, err = s.changeStatus(ctx, system.UserID, bk.ID(), booking.StatusConfirmed, "payment "+evt.PaymentID+" captured")
	return err
}

// Ticket renders the e-ticket PDF of a booking visible to the session.
func (s *BookingService) Ticket(ctx context.Context, sess auth.Session, bookingID uuid.UUID) ([]byte, string, error) {
	bk, err := s.visibleBooking(ctx, sess, bookingID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := ticket.Render(bk, s.qrURL(bk.QRToken()))
	if err != nil {
		return nil, "", err
	}
	return pdf, bk.Reference() + ".pdf", nil
}

func (s *BookingService) changeStatus(ctx context.Context, actorID, bookingID uuid.UUID, target booking.BookingStatus, notes string) (*BookingDTO, error) {
	bk, err := s.ledger.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	previous := bk.Status()

	res, err := s.ledger.UpdateBookingStatus(ctx, actorID, bookingID, target, notes)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if !res.Success {
		return nil, domain.NewBusinessRuleError(res.ErrorMessage)
	}

	bk, err = s.ledger.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", string(previous)),
		zap.String("to", string(bk.Status())),
		zap.String("actor_id", actorID.String()),
	)
	s.publishLifecycle(ctx, booking.EventBookingStatusChanged, bk, previous, actorID)

	result := s.toDTO(bk)
	return &result, nil
}

func (s *BookingService) visibleBooking(ctx context.Context, sess auth.Session, bookingID uuid.UUID) (*booking.Booking, error) {
	bk, err := s.ledger.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canView(sess, bk) {
		return nil, domain.NewForbiddenError("you do not have access to this booking")
	}
	return bk, nil
}

func canView(sess auth.Session, bk *booking.Booking) bool {
	if bk.UserID() == sess.UserID || sess.IsStaff() {
		return true
	}
	owner := bk.Yacht().OwnerID
	return sess.IsOwner() && owner != nil && *owner == sess.UserID
}

func (s *BookingService) toDTO(bk *booking.Booking) BookingDTO {
	return toBookingDTO(bk, s.qrURL)
}

func (s *BookingService) qrURL(token string) string {
	if s.qr == nil {
		return ""
	}
	return s.qr.URL(token)
}

func (s *BookingService) publishLifecycle(ctx context.Context, eventType string, bk *booking.Booking, previous booking.BookingStatus, actorID uuid.UUID) {
	publishEvent(ctx, s.publisher, s.logger, booking.TopicBookingEvents, eventType,
		booking.NewLifecycleEvent(bk, previous, actorID))
}

// publishEvent logs and drops publish failures; the ledger change has already
// been committed.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType string, data interface{}) {
	if publisher == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
