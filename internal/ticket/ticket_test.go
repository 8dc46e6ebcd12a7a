package ticket

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
)

func sampleBooking(status booking.BookingStatus) *booking.Booking {
	return booking.ReconstructBooking(
		uuid.New(), "SC-ABC234", uuid.New(), uuid.New(),
		booking.YachtSummary{Name: "Blue Horizon", Location: "marsa-matruh"},
		booking.Guest{Name: "Mona Éid", Email: "mona@example.com"},
		time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC), "10:00", 3,
		2550, 128, 2678, booking.PaymentCash, status,
		"SEASCAPE:SC-ABC234:k2m9p3q4r5s6", "", "", time.Now(), time.Now(),
	)
}

func TestRender_ProducesPDF(t *testing.T) {
	for _, status := range booking.AllStatuses() {
		t.Run(string(status), func(t *testing.T) {
			out, err := Render(sampleBooking(status), "https://api.qrserver.com/v1/create-qr-code/?data=x")
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
			assert.Greater(t, len(out), 500)
		})
	}
}

func TestRender_NilBooking(t *testing.T) {
	_, err := Render(nil, "")
	assert.Error(t, err)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "PENDING PAYMENT", statusLabel(booking.StatusPendingPayment))
	assert.Equal(t, "-", safe("  "))
	assert.Equal(t, "2678 EGP", money(2678))
}
