package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingStatus_FoldsAliases(t *testing.T) {
	cases := map[string]BookingStatus{
		"pending":         StatusPendingPayment,
		"pending_payment": StatusPendingPayment,
		"confirmed":       StatusConfirmed,
		"used":            StatusBoarded,
		"boarded":         StatusBoarded,
		"CANCELLED":       StatusCancelled,
	}
	for in, want := range cases {
		got, err := ParseBookingStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBookingStatus("refunded")
	assert.Error(t, err)
}

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPendingPayment.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPendingPayment.CanBeCancelled())
	assert.False(t, StatusPendingPayment.CanBoard())

	assert.True(t, StatusConfirmed.CanBoard())
	assert.True(t, StatusConfirmed.CanBeCancelled())
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusPendingPayment))

	for _, terminal := range []BookingStatus{StatusBoarded, StatusCancelled} {
		assert.True(t, terminal.IsTerminal())
		assert.False(t, terminal.CanBeCancelled())
		assert.False(t, terminal.CanBoard())
		assert.False(t, terminal.HoldsQRCode())
	}
}

func TestBooking_CancelFromTerminalLeavesStatus(t *testing.T) {
	for _, s := range []BookingStatus{StatusBoarded, StatusCancelled} {
		b := ReconstructBooking(newID(), "SC-AAAAAA", newID(), newID(), YachtSummary{}, Guest{},
			mustDate(t, "2026-11-01"), "10:00", 2, 100, 5, 105, PaymentCash, s, "tok", "", "", now(), now())

		err := b.Cancel()
		assert.Error(t, err)
		assert.Equal(t, s, b.Status())
	}
}

func TestBooking_BoardOnlyOnce(t *testing.T) {
	b := ReconstructBooking(newID(), "SC-AAAAAA", newID(), newID(), YachtSummary{}, Guest{},
		mustDate(t, "2026-11-01"), "10:00", 2, 100, 5, 105, PaymentCash, StatusConfirmed, "tok", "", "", now(), now())

	require.NoError(t, b.Board())
	assert.Equal(t, StatusBoarded, b.Status())
	assert.Error(t, b.Board())
}

func TestBooking_RegenerateQRToken(t *testing.T) {
	b := ReconstructBooking(newID(), "SC-AAAAAA", newID(), newID(), YachtSummary{}, Guest{},
		mustDate(t, "2026-11-01"), "10:00", 2, 100, 5, 105, PaymentCash, StatusPendingPayment, "old", "", "", now(), now())

	token, err := b.RegenerateQRToken()
	require.NoError(t, err)
	assert.NotEqual(t, "old", token)
	assert.Equal(t, token, b.QRToken())

	require.NoError(t, b.Cancel())
	_, err = b.RegenerateQRToken()
	assert.Error(t, err)
}
