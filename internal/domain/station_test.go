package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mertdogan/sportspot-api/internal/domain"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}

	return parsed
}

func TestOperatingHoursContains(t *testing.T) {
	hours := domain.OperatingHours{
		Open:   "06:00",
		Close:  "23:00",
		IsOpen: true,
	}

	tests := []struct {
		name  string
		hours domain.OperatingHours
		start string
		end   string
		want  bool
	}{
		{
			name:  "inside the window",
			hours: hours,
			start: "2026-08-29T10:00:00Z",
			end:   "2026-08-29T12:00:00Z",
			want:  true,
		},
		{
			name:  "starts at open and ends at close",
			hours: hours,
			start: "2026-08-29T06:00:00Z",
			end:   "2026-08-29T23:00:00Z",
			want:  true,
		},
		{
			name:  "starts before open",
			hours: hours,
			start: "2026-08-29T05:30:00Z",
			end:   "2026-08-29T07:00:00Z",
			want:  false,
		},
		{
			name:  "ends after close",
			hours: hours,
			start: "2026-08-29T22:00:00Z",
			end:   "2026-08-29T23:30:00Z",
			want:  false,
		},
		{
			name:  "spans midnight",
			hours: hours,
			start: "2026-08-29T22:00:00Z",
			end:   "2026-08-30T00:30:00Z",
			want:  false,
		},
		{
			name:  "station marked closed",
			hours: domain.OperatingHours{Open: "06:00", Close: "23:00", IsOpen: false},
			start: "2026-08-29T10:00:00Z",
			end:   "2026-08-29T11:00:00Z",
			want:  false,
		},
		{
			name:  "malformed open time",
			hours: domain.OperatingHours{Open: "6am", Close: "23:00", IsOpen: true},
			start: "2026-08-29T10:00:00Z",
			end:   "2026-08-29T11:00:00Z",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.hours.Contains(mustTime(t, tt.start), mustTime(t, tt.end))

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStationSlotBookable(t *testing.T) {
	equipment := &domain.Equipment{ID: 1, Type: domain.EquipmentBasketball, Condition: domain.ConditionGood}

	tests := []struct {
		name string
		slot domain.StationSlot
		want bool
	}{
		{
			name: "available with equipment",
			slot: domain.StationSlot{Equipment: equipment, IsAvailable: true, Condition: domain.ConditionGood},
			want: true,
		},
		{
			name: "empty slot",
			slot: domain.StationSlot{Equipment: nil, IsAvailable: true, Condition: domain.ConditionGood},
			want: false,
		},
		{
			name: "under maintenance",
			slot: domain.StationSlot{Equipment: equipment, IsAvailable: true, Condition: domain.ConditionMaintenance},
			want: false,
		},
		{
			name: "already held",
			slot: domain.StationSlot{Equipment: equipment, IsAvailable: false, Condition: domain.ConditionGood},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.Bookable())
		})
	}
}

func TestStationSlotLookup(t *testing.T) {
	station := domain.Station{
		ID: 1,
		Slots: []domain.StationSlot{
			{ID: 10, SlotNumber: 1},
			{ID: 11, SlotNumber: 2},
		},
	}

	slot, ok := station.Slot(11)
	assert.True(t, ok)
	assert.Equal(t, 2, slot.SlotNumber)

	_, ok = station.Slot(99)
	assert.False(t, ok)
}
