package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
)

// SeedDemoFleet adds a small fleet for local runs and returns the listings.
func SeedDemoFleet(l *Ledger) []yacht.Yacht {
	now := time.Now().UTC()
	fleet := []yacht.Yacht{
		{
			Name: "Blue Horizon", NameAr: "الأفق الأزرق",
			Type: yacht.ActivityPrivateYacht, Location: yacht.LocationMarsaMatruh,
			Capacity: 12, PricePerPerson: 850, PricePerHour: 4500,
			Description: "Luxury motor yacht with a sun deck and swim platform.",
			Amenities:   []string{"sun deck", "snorkeling gear", "sound system"},
			Included:    []string{"soft drinks", "lunch"},
			Rating:      4.8, ReviewCount: 124, IsAvailable: true,
		},
		{
			Name: "Sea Breeze", NameAr: "نسيم البحر",
			Type: yacht.ActivitySharedTrip, Location: yacht.LocationNorthCoast,
			Capacity: 30, PricePerPerson: 450, PricePerHour: 0,
			Description: "Shared day trip along the coast.",
			Amenities:   []string{"shade", "music"},
			Included:    []string{"water"},
			Rating:      4.5, ReviewCount: 310, IsAvailable: true,
		},
		{
			Name: "Pharos Cat", NameAr: "قطمران فاروس",
			Type: yacht.ActivityCatamaran, Location: yacht.LocationAlexandria,
			Capacity: 20, PricePerPerson: 650, PricePerHour: 3800,
			Description: "Stable catamaran cruise around the eastern harbour.",
			Rating:      4.6, ReviewCount: 87, IsAvailable: true,
		},
		{
			Name: "Red Sea Rocket", NameAr: "صاروخ البحر الأحمر",
			Type: yacht.ActivitySpeedBoat, Location: yacht.LocationElGouna,
			Capacity: 6, PricePerPerson: 1200, PricePerHour: 5000,
			Description: "Fast speed boat to the islands.",
			Rating:      4.9, ReviewCount: 45, IsAvailable: true,
		},
	}
	for i := range fleet {
		fleet[i].ID = uuid.New()
		fleet[i].CreatedAt = now
		fleet[i].UpdatedAt = now
		l.AddYacht(fleet[i])
	}
	return fleet
}
