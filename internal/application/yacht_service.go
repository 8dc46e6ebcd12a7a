package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

// YachtService serves the read-only catalog.
type YachtService struct {
	catalog yacht.Catalog
	logger  *zap.Logger
}

// NewYachtService creates a new YachtService.
func NewYachtService(catalog yacht.Catalog, logger *zap.Logger) *YachtService {
	return &YachtService{catalog: catalog, logger: logger}
}

// Search lists bookable yachts.
func (s *YachtService) Search(ctx context.Context, criteria yacht.Criteria) ([]YachtDTO, error) {
	yachts, err := s.catalog.SearchYachts(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search yachts: %w", err)
	}
	return toYachtDTOs(yachts), nil
}

// GetYacht returns one listing.
func (s *YachtService) GetYacht(ctx context.Context, id uuid.UUID) (*YachtDTO, error) {
	y, err := s.catalog.FindYacht(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toYachtDTO(y)
	return &result, nil
}

// Availability reports how many seats can still be booked on date.
func (s *YachtService) Availability(ctx context.Context, id uuid.UUID, date string) (*AvailabilityDTO, error) {
	d, err := booking.ParseDate(date)
	if err != nil {
		return nil, err
	}
	y, err := s.catalog.FindYacht(ctx, id)
	if err != nil {
		return nil, err
	}

	remaining := y.Capacity
	n, ok, err := s.catalog.RemainingSeats(ctx, id, d)
	if err != nil {
		return nil, fmt.Errorf("failed to read availability: %w", err)
	}
	if ok {
		remaining = n
	}

	return &AvailabilityDTO{
		YachtID:        y.ID,
		Date:           d.Format(booking.DateLayout),
		Capacity:       y.Capacity,
		SeatsRemaining: remaining,
		MaxSeats:       booking.MaxSeats(y.Capacity, remaining),
		TimeSlots:      booking.TimeSlots(),
	}, nil
}

// ListForOperator returns the admin yacht list: every yacht for admins, the
// owner's own yachts for owners.
func (s *YachtService) ListForOperator(ctx context.Context, sess auth.Session, filter yacht.Filter) ([]YachtDTO, error) {
	ownerID, err := operatorScope(sess)
	if err != nil {
		return nil, err
	}
	yachts, err := s.catalog.ListYachts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list yachts: %w", err)
	}
	return toYachtDTOs(filter.Apply(yachts)), nil
}

// operatorScope returns nil for admins and the owner's ID for owners.
func operatorScope(sess auth.Session) (*uuid.UUID, error) {
	switch {
	case sess.IsAdmin():
		return nil, nil
	case sess.IsOwner():
		id := sess.UserID
		return &id, nil
	default:
		return nil, domain.NewForbiddenError("admin or owner role required")
	}
}
