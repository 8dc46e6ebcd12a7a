// Package yacht models the bookable listings the catalog exposes.
package yacht

import (
	"time"

	"github.com/google/uuid"
)

// Location is a marina the fleet operates from.
type Location string

const (
	LocationMarsaMatruh Location = "marsa-matruh"
	LocationNorthCoast  Location = "north-coast"
	LocationAlexandria  Location = "alexandria"
	LocationElGouna     Location = "el-gouna"
)

// IsValid returns true if the location is recognized.
func (l Location) IsValid() bool {
	switch l {
	case LocationMarsaMatruh, LocationNorthCoast, LocationAlexandria, LocationElGouna:
		return true
	}
	return false
}

// ActivityType is the kind of trip a listing offers.
type ActivityType string

const (
	ActivityPrivateYacht ActivityType = "private-yacht"
	ActivitySharedTrip   ActivityType = "shared-trip"
	ActivityJetSki       ActivityType = "jet-ski"
	ActivitySpeedBoat    ActivityType = "speed-boat"
	ActivityCatamaran    ActivityType = "catamaran"
)

// IsValid returns true if the activity type is recognized.
func (a ActivityType) IsValid() bool {
	switch a {
	case ActivityPrivateYacht, ActivitySharedTrip, ActivityJetSki, ActivitySpeedBoat, ActivityCatamaran:
		return true
	}
	return false
}

// Yacht is a read-only listing.
type Yacht struct {
	ID             uuid.UUID    `json:"id"`
	OwnerID        *uuid.UUID   `json:"owner_id,omitempty"`
	Name           string       `json:"name"`
	NameAr         string       `json:"name_ar,omitempty"`
	Type           ActivityType `json:"type"`
	Location       Location     `json:"location"`
	Capacity       int          `json:"capacity"`
	PricePerPerson int64        `json:"price_per_person"`
	PricePerHour   int64        `json:"price_per_hour"`
	Description    string       `json:"description,omitempty"`
	Amenities      []string     `json:"amenities,omitempty"`
	Included       []string     `json:"included,omitempty"`
	ImageURLs      []string     `json:"image_urls,omitempty"`
	Rating         float64      `json:"rating"`
	ReviewCount    int          `json:"review_count"`
	IsAvailable    bool         `json:"is_available"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// OwnedBy reports whether userID operates this yacht.
func (y *Yacht) OwnedBy(userID uuid.UUID) bool {
	return y.OwnerID != nil && *y.OwnerID == userID
}
