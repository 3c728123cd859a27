package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationNoShow    ReservationStatus = "no_show"
)

// IsTerminal reports whether the status can never change again. Terminal
// reservations are kept as an audit trail, never deleted.
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case ReservationCompleted, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationActive, ReservationCompleted, ReservationCancelled, ReservationNoShow},
	ReservationActive:    {ReservationCompleted, ReservationCancelled, ReservationNoShow},
}

// CanTransition reports whether the status machine allows from -> to.
// confirmed -> completed is allowed so a user who never checked in through
// the unlock flow can still return the equipment.
func CanTransition(from, to ReservationStatus) bool {
	for _, next := range reservationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Reservation struct {
	ID     uint `json:"id"`
	UserID uint `json:"user_id"`

	StationID   uint `json:"station_id"`
	SlotID      uint `json:"slot_id"`
	EquipmentID uint `json:"equipment_id"`

	// Snapshot of the terms agreed at booking time. Station pricing and
	// equipment assignments may change later; these never do.
	StationName   string        `json:"station_name"`
	SlotNumber    int           `json:"slot_number"`
	EquipmentType EquipmentType `json:"equipment_type"`
	HourlyRate    int           `json:"hourly_rate"`

	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`

	Status ReservationStatus `json:"status"`

	// UnlockCode is the short-lived credential handed to the physical
	// unlock collaborator. Never logged.
	UnlockCode string `json:"unlock_code,omitempty"`

	Price    int    `json:"price"`
	Currency string `json:"currency"`

	// PaymentStatus is owned by the payment provider and only mirrored here.
	PaymentStatus PaymentStatus `json:"payment_status"`

	Rating   int    `json:"rating,omitempty"`
	Feedback string `json:"feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReservationPatch carries the only fields UpdateReservation may touch.
// Status, price and slot changes go through the dedicated transitions.
type ReservationPatch struct {
	Rating   *int
	Feedback *string
}

// PriceFor computes the reservation price in whole currency units, rounding
// any started hour up so partial hours are never underbilled.
func PriceFor(perHourRate, durationMinutes int) int {
	if perHourRate <= 0 || durationMinutes <= 0 {
		return 0
	}
	return (perHourRate*durationMinutes + 59) / 60
}
