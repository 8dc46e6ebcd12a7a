package yacht

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Criteria narrows the public catalog. Zero values are inactive. Only
// available yachts are returned, highest rated first.
type Criteria struct {
	Location    Location
	Type        ActivityType
	MinCapacity int
	MaxPrice    int64
}

// Matches reports whether y satisfies every active criterion.
func (c Criteria) Matches(y *Yacht) bool {
	if !y.IsAvailable {
		return false
	}
	if c.Location != "" && y.Location != c.Location {
		return false
	}
	if c.Type != "" && y.Type != c.Type {
		return false
	}
	if c.MinCapacity > 0 && y.Capacity < c.MinCapacity {
		return false
	}
	if c.MaxPrice > 0 && y.PricePerPerson > c.MaxPrice {
		return false
	}
	return true
}

// Catalog is the ledger's read path for yachts and seat availability.
type Catalog interface {
	// SearchYachts lists available yachts matching criteria.
	SearchYachts(ctx context.Context, criteria Criteria) ([]*Yacht, error)

	// FindYacht returns a yacht by ID.
	FindYacht(ctx context.Context, id uuid.UUID) (*Yacht, error)

	// ListYachts returns every yacht, optionally only those of ownerID.
	ListYachts(ctx context.Context, ownerID *uuid.UUID) ([]*Yacht, error)

	// RemainingSeats returns the seats left for (yachtID, date). The boolean is
	// false when no counter exists yet, meaning the full capacity is free.
	RemainingSeats(ctx context.Context, yachtID uuid.UUID, date time.Time) (int, bool, error)
}
