package domain

import "time"

type Station struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	District  string  `json:"district"`

	Slots          []StationSlot `json:"slots"`
	TotalSlots     int           `json:"total_slots"`
	AvailableSlots int           `json:"available_slots"`

	OperatingHours OperatingHours `json:"operating_hours"`
	IsActive       bool           `json:"is_active"`

	// Pricing holds the current rate card per equipment type. Reservations
	// snapshot the agreed rate at booking time, so later edits here never
	// reprice an existing booking.
	Pricing map[EquipmentType]Price `json:"pricing"`

	Rating       float64 `json:"rating"`
	TotalRatings int     `json:"total_ratings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slot returns the slot with the given id, or false when the slot does not
// belong to this station.
func (s *Station) Slot(slotID uint) (StationSlot, bool) {
	for _, slot := range s.Slots {
		if slot.ID == slotID {
			return slot, true
		}
	}
	return StationSlot{}, false
}

type StationSlot struct {
	ID          uint       `json:"id"`
	StationID   uint       `json:"station_id"`
	SlotNumber  int        `json:"slot_number"`
	Equipment   *Equipment `json:"equipment"`
	IsAvailable bool       `json:"is_available"`

	// IsLocked is the mechanical lock state. A slot can be reserved while
	// still physically locked, until the user presents the unlock code.
	IsLocked bool `json:"is_locked"`

	Condition           Condition  `json:"condition"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date,omitempty"`
}

// Bookable reports whether the slot can accept a new reservation: it must
// hold equipment, not be under maintenance and not be held already.
func (s *StationSlot) Bookable() bool {
	return s.Equipment != nil && s.Condition != ConditionMaintenance && s.IsAvailable
}

type Price struct {
	PerHour  int    `json:"per_hour"`
	PerDay   int    `json:"per_day,omitempty"`
	Currency string `json:"currency"`
}

// OperatingHours is the station's daily window. Open and Close are local
// times of day in "HH:MM" form; over-midnight windows are not supported.
type OperatingHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	IsOpen bool   `json:"is_open"`
}

// Contains reports whether the whole interval [start, end] falls inside the
// operating window on a single day.
func (h OperatingHours) Contains(start, end time.Time) bool {
	if !h.IsOpen {
		return false
	}
	if start.YearDay() != end.YearDay() || start.Year() != end.Year() {
		return false
	}

	openMin, err := parseClock(h.Open)
	if err != nil {
		return false
	}
	closeMin, err := parseClock(h.Close)
	if err != nil {
		return false
	}

	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	return startMin >= openMin && endMin <= closeMin
}

func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// StationFilter narrows ListStations results. Zero values mean "no filter".
type StationFilter struct {
	City          string
	EquipmentType EquipmentType
	OnlyAvailable bool
}
