package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrStationNotFound = errors.New("station not found")
	ErrSlotNotFound    = errors.New("slot not found")
)

type Station struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"not null"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	Address   string  `gorm:"not null"`
	City      string  `gorm:"index;not null"`
	District  string

	Slots   []StationSlot    `gorm:"foreignKey:StationID"`
	Pricing []StationPricing `gorm:"foreignKey:StationID"`

	TotalSlots     int `gorm:"not null;default:0"`
	AvailableSlots int `gorm:"not null;default:0"`

	OpenTime  string `gorm:"not null"`
	CloseTime string `gorm:"not null"`
	IsOpen    bool   `gorm:"not null;default:true"`
	IsActive  bool   `gorm:"not null;default:true"`

	Rating       float64 `gorm:"default:0"`
	TotalRatings int     `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type StationSlot struct {
	ID         uint `gorm:"primaryKey"`
	StationID  uint `gorm:"not null;uniqueIndex:uniq_station_slot_number"`
	SlotNumber int  `gorm:"not null;uniqueIndex:uniq_station_slot_number"`

	EquipmentID *uint
	Equipment   *Equipment `gorm:"foreignKey:EquipmentID"`

	IsAvailable bool   `gorm:"not null;default:false"`
	IsLocked    bool   `gorm:"not null;default:true"`
	Condition   string `gorm:"not null;default:'good'"`

	LastMaintenanceDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Equipment struct {
	ID              uint   `gorm:"primaryKey"`
	Type            string `gorm:"not null"`
	Brand           string
	Model           string
	Condition       string `gorm:"not null;default:'good'"`
	Size            string
	LastCleanedDate time.Time
	TotalUsageHours float64 `gorm:"not null;default:0"`
	QRCode          string  `gorm:"uniqueIndex;not null"`
	NFCTag          string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StationPricing is one row of a station's rate card, keyed by equipment
// type. PerDay of zero means no daily rate is offered.
type StationPricing struct {
	ID            uint   `gorm:"primaryKey"`
	StationID     uint   `gorm:"not null;uniqueIndex:uniq_station_equipment_type"`
	EquipmentType string `gorm:"not null;uniqueIndex:uniq_station_equipment_type"`
	PerHour       int    `gorm:"not null"`
	PerDay        int    `gorm:"not null;default:0"`
	Currency      string `gorm:"not null;default:'TRY'"`
}

type StationDAO struct {
	db *gorm.DB
}

func NewStationDAO(db *gorm.DB) *StationDAO {
	return &StationDAO{
		db: db,
	}
}

func (d *StationDAO) FindByID(ctx context.Context, id uint) (Station, error) {
	var station Station

	result := d.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("station_slots.slot_number ASC")
		}).
		Preload("Slots.Equipment").
		Preload("Pricing").
		First(&station, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Station{}, ErrStationNotFound
		}

		return Station{}, result.Error
	}

	return station, nil
}

type StationQuery struct {
	City          string
	EquipmentType string
	OnlyAvailable bool
}

func (d *StationDAO) FindAll(ctx context.Context, q StationQuery) ([]Station, error) {
	tx := d.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("station_slots.slot_number ASC")
		}).
		Preload("Slots.Equipment").
		Preload("Pricing")

	if q.City != "" {
		tx = tx.Where("city = ?", q.City)
	}
	if q.OnlyAvailable {
		tx = tx.Where("available_slots > 0")
	}
	if q.EquipmentType != "" {
		tx = tx.Where(
			"id IN (?)",
			d.db.Model(&StationSlot{}).
				Select("station_id").
				Joins("JOIN equipment ON equipment.id = station_slots.equipment_id").
				Where("equipment.type = ?", q.EquipmentType),
		)
	}

	var stations []Station
	if err := tx.Order("id ASC").Find(&stations).Error; err != nil {
		return nil, err
	}

	return stations, nil
}

func (d *StationDAO) FindSlot(ctx context.Context, stationID, slotID uint) (StationSlot, error) {
	var slot StationSlot

	result := d.db.WithContext(ctx).
		Preload("Equipment").
		First(&slot, "id = ? AND station_id = ?", slotID, stationID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return StationSlot{}, ErrSlotNotFound
		}

		return StationSlot{}, result.Error
	}

	return slot, nil
}
