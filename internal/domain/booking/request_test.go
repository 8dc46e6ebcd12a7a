package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateRequest_Validate(t *testing.T) {
	today := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	valid := CreateRequest{
		YachtID:       uuid.New(),
		Date:          time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		TimeSlot:      "10:00",
		Seats:         3,
		PaymentMethod: PaymentCash,
	}
	assert.NoError(t, valid.Validate(today, 10, 5))

	sameDay := valid
	sameDay.Date = time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, sameDay.Validate(today, 10, 5))

	cases := map[string]func(r *CreateRequest){
		"missing date":   func(r *CreateRequest) { r.Date = time.Time{} },
		"missing slot":   func(r *CreateRequest) { r.TimeSlot = "" },
		"unknown slot":   func(r *CreateRequest) { r.TimeSlot = "07:30" },
		"past date":      func(r *CreateRequest) { r.Date = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) },
		"zero seats":     func(r *CreateRequest) { r.Seats = 0 },
		"over remaining": func(r *CreateRequest) { r.Seats = 6 },
		"bad payment":    func(r *CreateRequest) { r.PaymentMethod = "card" },
		"missing yacht":  func(r *CreateRequest) { r.YachtID = uuid.Nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := valid
			mutate(&r)
			assert.Error(t, r.Validate(today, 10, 5))
		})
	}
}

func TestCreateRequest_SeatLimitMessage(t *testing.T) {
	r := CreateRequest{
		YachtID:       uuid.New(),
		Date:          time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		TimeSlot:      "10:00",
		Seats:         9,
		PaymentMethod: PaymentOnline,
	}
	err := r.Validate(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), 8, 20)
	assert.EqualError(t, err, "Only 8 spots available for this date")
}

func TestMaxSeats(t *testing.T) {
	assert.Equal(t, 4, MaxSeats(10, 4))
	assert.Equal(t, 10, MaxSeats(10, 12))
	assert.Equal(t, 0, MaxSeats(10, 0))
}
