package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newID() uuid.UUID { return uuid.New() }

func now() time.Time { return time.Now().UTC() }

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func withStatus(ref, guest, email, yacht, location string, status BookingStatus) *Booking {
	return ReconstructBooking(uuid.New(), ref, uuid.New(), uuid.New(),
		YachtSummary{Name: yacht, Location: location},
		Guest{Name: guest, Email: email},
		time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), "10:00", 1, 100, 5, 105,
		PaymentCash, status, "", "", "", time.Now(), time.Now())
}
