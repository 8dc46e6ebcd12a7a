package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/checkin"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

// CheckInService verifies QR tokens at the gangway and boards guests.
type CheckInService struct {
	ledger    booking.Ledger
	publisher EventPublisher
	logger    *zap.Logger
}

// NewCheckInService creates a new CheckInService.
func NewCheckInService(ledger booking.Ledger, publisher EventPublisher, logger *zap.Logger) *CheckInService {
	return &CheckInService{
		ledger:    ledger,
		publisher: publisher,
		logger:    logger,
	}
}

// Scan classifies a token without changing anything. Camera and manual entry
// both end up here.
func (s *CheckInService) Scan(ctx context.Context, sess auth.Session, token string) (*VerdictDTO, error) {
	v, err := s.scan(ctx, sess, token)
	if err != nil {
		return nil, err
	}
	result := toVerdictDTO(v)
	return &result, nil
}

// Board rescans token and marks the booking used only when the fresh verdict
// is valid_ready. Any other verdict is returned as a rejection.
func (s *CheckInService) Board(ctx context.Context, sess auth.Session, token string) (*BookingDTO, error) {
	v, err := s.scan(ctx, sess, token)
	if err != nil {
		return nil, err
	}
	if !v.CanBoard() {
		return nil, domain.NewRejection(string(v.Category), v.Message, v.Err())
	}
	return s.MarkUsed(ctx, sess, v.Booking.BookingID)
}

// MarkUsed boards a booking by ID. A repeated call is rejected with
// checkin.ErrAlreadyUsed.
func (s *CheckInService) MarkUsed(ctx context.Context, sess auth.Session, bookingID uuid.UUID) (*BookingDTO, error) {
	if !sess.IsStaff() {
		return nil, domain.NewForbiddenError("staff role required")
	}

	res, err := s.ledger.MarkBookingUsed(ctx, sess.UserID, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark booking used: %w", err)
	}
	if !res.Success {
		rejection := checkin.Reject(res.ErrorMessage)
		s.logger.Info("boarding refused",
			zap.String("booking_id", bookingID.String()),
			zap.String("category", string(rejection.Category)),
			zap.String("reason", res.ErrorMessage),
		)
		return nil, domain.NewRejection(string(rejection.Category), rejection.Message, rejection)
	}

	bk, err := s.ledger.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load boarded booking: %w", err)
	}

	s.logger.Info("guest boarded",
		zap.String("booking_id", bk.ID().String()),
		zap.String("reference", bk.Reference()),
		zap.String("staff_id", sess.UserID.String()),
	)
	publishEvent(ctx, s.publisher, s.logger, booking.TopicBookingEvents, booking.EventBookingBoarded,
		booking.NewLifecycleEvent(bk, booking.StatusConfirmed, sess.UserID))

	result := toBookingDTO(bk, nil)
	return &result, nil
}

func (s *CheckInService) scan(ctx context.Context, sess auth.Session, token string) (checkin.Verdict, error) {
	if !sess.IsStaff() {
		return checkin.Verdict{}, domain.NewForbiddenError("staff role required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return checkin.Verdict{}, domain.NewValidationError("QR code is required")
	}

	res, err := s.ledger.ScanBooking(ctx, token)
	if err != nil {
		return checkin.Verdict{}, fmt.Errorf("failed to scan booking: %w", err)
	}

	v := checkin.Classify(res)
	fields := []zap.Field{
		zap.String("category", string(v.Category)),
		zap.String("staff_id", sess.UserID.String()),
	}
	if v.Booking != nil {
		fields = append(fields, zap.String("reference", v.Booking.Reference))
	}
	s.logger.Info("qr code scanned", fields...)
	return v, nil
}
