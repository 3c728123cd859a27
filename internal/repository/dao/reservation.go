package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSlotUnavailable     = errors.New("slot is not available")
	ErrReservationState    = errors.New("reservation is not in a valid state for this operation")
)

// activeReservationIndex backs the invariant that at most one non-terminal
// reservation holds a slot. The conditional slot update catches conflicts
// first; the index catches whatever slips past it.
const activeReservationIndex = "uniq_active_reservation_per_slot"

type Reservation struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index;not null"`

	StationID   uint `gorm:"not null"`
	SlotID      uint `gorm:"index;not null"`
	EquipmentID uint `gorm:"not null"`

	StationName   string `gorm:"not null"`
	SlotNumber    int    `gorm:"not null"`
	EquipmentType string `gorm:"not null"`
	HourlyRate    int    `gorm:"not null"`

	StartTime       time.Time `gorm:"not null"`
	EndTime         time.Time `gorm:"not null"`
	ActualStartTime *time.Time
	ActualEndTime   *time.Time
	DurationMinutes int `gorm:"not null"`

	Status string `gorm:"index;not null"`

	UnlockCode string `gorm:"not null"`

	Price    int    `gorm:"not null"`
	Currency string `gorm:"not null;default:'TRY'"`

	PaymentStatus string `gorm:"not null;default:'pending'"`

	Rating   int
	Feedback string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReservationDAO struct {
	db *gorm.DB
}

func NewReservationDAO(db *gorm.DB) *ReservationDAO {
	return &ReservationDAO{
		db: db,
	}
}

// InsertWithSlotClaim creates the reservation and marks its slot unavailable
// in one transaction. The slot update only matches while is_available is
// still true, so two concurrent claims can never both commit: the loser sees
// zero rows affected and fails with ErrSlotUnavailable.
func (d *ReservationDAO) InsertWithSlotClaim(ctx context.Context, reservation Reservation) (Reservation, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&StationSlot{}).
			Where("id = ? AND station_id = ? AND is_available = ?", reservation.SlotID, reservation.StationID, true).
			Update("is_available", false)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrSlotUnavailable
		}

		if err := tx.Model(&Station{}).
			Where("id = ?", reservation.StationID).
			UpdateColumn("available_slots", gorm.Expr("available_slots - 1")).Error; err != nil {
			return err
		}

		if err := tx.Create(&reservation).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, activeReservationIndex) {
				return ErrSlotUnavailable
			}

			return err
		}

		return nil
	})
	if err != nil {
		return Reservation{}, err
	}

	return reservation, nil
}

func (d *ReservationDAO) FindByID(ctx context.Context, id uint) (Reservation, error) {
	var reservation Reservation

	result := d.db.WithContext(ctx).First(&reservation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Reservation{}, ErrReservationNotFound
		}

		return Reservation{}, result.Error
	}

	return reservation, nil
}

func (d *ReservationDAO) FindByUserID(ctx context.Context, userID uint) ([]Reservation, error) {
	var reservations []Reservation

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}

	return reservations, nil
}

// MarkActive moves a confirmed reservation to active and stamps the actual
// pickup time. The status guard makes the check-in race-safe against the
// no-show sweep: whichever commits first wins, the other matches no rows.
func (d *ReservationDAO) MarkActive(ctx context.Context, id uint, at time.Time) (Reservation, error) {
	result := d.db.WithContext(ctx).Model(&Reservation{}).
		Where("id = ? AND status = ?", id, "confirmed").
		Updates(map[string]interface{}{
			"status":            "active",
			"actual_start_time": at,
		})
	if result.Error != nil {
		return Reservation{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Reservation{}, ErrReservationState
	}

	return d.FindByID(ctx, id)
}

// TerminalizeAndRelease moves the reservation to a terminal status and frees
// its slot as one transaction. The from-set guard rejects reservations that
// already reached a terminal state. The slot only becomes available again if
// it still holds equipment and is not under maintenance, and the station
// counter is incremented only when the slot actually flipped.
func (d *ReservationDAO) TerminalizeAndRelease(ctx context.Context, id uint, to string, from []string, at time.Time) (Reservation, error) {
	var reservation Reservation

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}

			return err
		}

		transition := tx.Model(&Reservation{}).
			Where("id = ? AND status IN ?", id, from).
			Updates(map[string]interface{}{
				"status":          to,
				"actual_end_time": at,
			})
		if transition.Error != nil {
			return transition.Error
		}
		if transition.RowsAffected == 0 {
			return ErrReservationState
		}

		release := tx.Model(&StationSlot{}).
			Where("id = ? AND is_available = ? AND equipment_id IS NOT NULL AND condition <> ?",
				reservation.SlotID, false, "maintenance").
			Update("is_available", true)
		if release.Error != nil {
			return release.Error
		}
		if release.RowsAffected > 0 {
			if err := tx.Model(&Station{}).
				Where("id = ?", reservation.StationID).
				UpdateColumn("available_slots", gorm.Expr("available_slots + 1")).Error; err != nil {
				return err
			}
		}

		reservation.Status = to
		reservation.ActualEndTime = &at

		return nil
	})
	if err != nil {
		return Reservation{}, err
	}

	return reservation, nil
}

// UpdateFeedback patches the post-completion fields only.
func (d *ReservationDAO) UpdateFeedback(ctx context.Context, id uint, rating int, feedback string) (Reservation, error) {
	updates := map[string]interface{}{}
	if rating != 0 {
		updates["rating"] = rating
	}
	if feedback != "" {
		updates["feedback"] = feedback
	}
	if len(updates) > 0 {
		result := d.db.WithContext(ctx).Model(&Reservation{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return Reservation{}, result.Error
		}
		if result.RowsAffected == 0 {
			return Reservation{}, ErrReservationNotFound
		}
	}

	return d.FindByID(ctx, id)
}

// FindNoShowCandidates lists confirmed reservations whose grace period ran
// out without a check-in.
func (d *ReservationDAO) FindNoShowCandidates(ctx context.Context, cutoff time.Time) ([]Reservation, error) {
	var reservations []Reservation

	result := d.db.WithContext(ctx).
		Where("status = ? AND actual_start_time IS NULL AND start_time < ?", "confirmed", cutoff).
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}

	return reservations, nil
}
