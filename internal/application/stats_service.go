package application

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

const (
	occupancyWindowDays = 30
	recentBookingsLimit = 5
)

// StatsService computes the operator dashboard.
type StatsService struct {
	ledger  booking.Ledger
	catalog yacht.Catalog
	logger  *zap.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(ledger booking.Ledger, catalog yacht.Catalog, logger *zap.Logger) *StatsService {
	return &StatsService{ledger: ledger, catalog: catalog, logger: logger}
}

// Dashboard summarises bookings for admins (all yachts) and owners (their own
// yachts only).
func (s *StatsService) Dashboard(ctx context.Context, sess auth.Session) (*StatsDTO, error) {
	ownerID, err := operatorScope(sess)
	if err != nil {
		return nil, err
	}

	yachts, err := s.catalog.ListYachts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list yachts: %w", err)
	}
	bookings, err := s.ledger.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if ownerID != nil {
		owned := make([]*booking.Booking, 0, len(bookings))
		for _, b := range bookings {
			if o := b.Yacht().OwnerID; o != nil && *o == *ownerID {
				owned = append(owned, b)
			}
		}
		bookings = owned
	}

	stats := ComputeStats(bookings, len(yachts))
	recent := bookings
	if len(recent) > recentBookingsLimit {
		recent = recent[:recentBookingsLimit]
	}
	stats.RecentBookings = toBookingDTOs(recent, nil)
	return &stats, nil
}

// ComputeStats derives the dashboard figures from bookings and a yacht count.
func ComputeStats(bookings []*booking.Booking, yachtCount int) StatsDTO {
	stats := StatsDTO{
		Currency:         domain.CurrencyEGP,
		TotalBookings:    len(bookings),
		TotalYachts:      yachtCount,
		BookingsByStatus: make(map[string]int, len(booking.AllStatuses())),
		RecentBookings:   []BookingDTO{},
	}
	for _, st := range booking.AllStatuses() {
		stats.BookingsByStatus[string(st)] = 0
	}

	for _, b := range bookings {
		stats.BookingsByStatus[string(b.Status())]++
		if b.Status() != booking.StatusCancelled {
			stats.TotalRevenue += b.Total()
		}
	}

	if slots := yachtCount * occupancyWindowDays; slots > 0 {
		booked := stats.BookingsByStatus[string(booking.StatusConfirmed)] +
			stats.BookingsByStatus[string(booking.StatusBoarded)]
		rate := math.Min(100, float64(booked)/float64(slots)*100)
		stats.OccupancyPercent = math.Round(rate*10) / 10
	}
	return stats
}
