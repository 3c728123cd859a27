package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mertdogan/sportspot-api/internal/domain"
)

func TestPriceFor(t *testing.T) {
	tests := []struct {
		name            string
		perHourRate     int
		durationMinutes int
		want            int
	}{
		{
			name:            "exact hour",
			perHourRate:     50,
			durationMinutes: 60,
			want:            50,
		},
		{
			name:            "partial hour rounds up",
			perHourRate:     50,
			durationMinutes: 90,
			want:            75,
		},
		{
			name:            "single extra minute is billed",
			perHourRate:     50,
			durationMinutes: 61,
			want:            51,
		},
		{
			name:            "sub-hour rental",
			perHourRate:     40,
			durationMinutes: 30,
			want:            20,
		},
		{
			name:            "zero duration",
			perHourRate:     50,
			durationMinutes: 0,
			want:            0,
		},
		{
			name:            "negative duration",
			perHourRate:     50,
			durationMinutes: -30,
			want:            0,
		},
		{
			name:            "zero rate",
			perHourRate:     0,
			durationMinutes: 120,
			want:            0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.PriceFor(tt.perHourRate, tt.durationMinutes)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from domain.ReservationStatus
		to   domain.ReservationStatus
	}{
		{domain.ReservationPending, domain.ReservationConfirmed},
		{domain.ReservationPending, domain.ReservationCancelled},
		{domain.ReservationConfirmed, domain.ReservationActive},
		{domain.ReservationConfirmed, domain.ReservationCompleted},
		{domain.ReservationConfirmed, domain.ReservationCancelled},
		{domain.ReservationConfirmed, domain.ReservationNoShow},
		{domain.ReservationActive, domain.ReservationCompleted},
		{domain.ReservationActive, domain.ReservationCancelled},
		{domain.ReservationActive, domain.ReservationNoShow},
	}
	for _, tt := range allowed {
		assert.True(t, domain.CanTransition(tt.from, tt.to), "%v -> %v should be allowed", tt.from, tt.to)
	}

	forbidden := []struct {
		from domain.ReservationStatus
		to   domain.ReservationStatus
	}{
		{domain.ReservationPending, domain.ReservationActive},
		{domain.ReservationActive, domain.ReservationConfirmed},
		{domain.ReservationCompleted, domain.ReservationActive},
		{domain.ReservationCompleted, domain.ReservationCancelled},
		{domain.ReservationCancelled, domain.ReservationConfirmed},
		{domain.ReservationNoShow, domain.ReservationActive},
		{domain.ReservationNoShow, domain.ReservationCompleted},
	}
	for _, tt := range forbidden {
		assert.False(t, domain.CanTransition(tt.from, tt.to), "%v -> %v should be rejected", tt.from, tt.to)
	}
}

func TestReservationStatusIsTerminal(t *testing.T) {
	assert.True(t, domain.ReservationCompleted.IsTerminal())
	assert.True(t, domain.ReservationCancelled.IsTerminal())
	assert.True(t, domain.ReservationNoShow.IsTerminal())

	assert.False(t, domain.ReservationPending.IsTerminal())
	assert.False(t, domain.ReservationConfirmed.IsTerminal())
	assert.False(t, domain.ReservationActive.IsTerminal())
}
