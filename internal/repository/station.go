package repository

import (
	"context"
	"fmt"

	"github.com/mertdogan/sportspot-api/internal/domain"
	"github.com/mertdogan/sportspot-api/internal/repository/dao"
)

var (
	ErrStationNotFound = dao.ErrStationNotFound
	ErrSlotNotFound    = dao.ErrSlotNotFound
)

type StationDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Station, error)
	FindAll(ctx context.Context, q dao.StationQuery) ([]dao.Station, error)
	FindSlot(ctx context.Context, stationID, slotID uint) (dao.StationSlot, error)
}

type StationRepository struct {
	dao StationDAO
}

func NewStationRepository(dao StationDAO) *StationRepository {
	return &StationRepository{
		dao: dao,
	}
}

func (r *StationRepository) FindByID(ctx context.Context, id uint) (domain.Station, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Station{}, wrapStoreErr(fmt.Errorf("r.dao.FindByID -> %w", err))
	}

	return r.daoToDomain(found), nil
}

func (r *StationRepository) FindAll(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error) {
	found, err := r.dao.FindAll(ctx, dao.StationQuery{
		City:          filter.City,
		EquipmentType: string(filter.EquipmentType),
		OnlyAvailable: filter.OnlyAvailable,
	})
	if err != nil {
		return nil, wrapStoreErr(fmt.Errorf("r.dao.FindAll -> %w", err))
	}

	stations := make([]domain.Station, len(found))
	for i, s := range found {
		stations[i] = r.daoToDomain(s)
	}

	return stations, nil
}

func (r *StationRepository) FindSlot(ctx context.Context, stationID, slotID uint) (domain.StationSlot, error) {
	found, err := r.dao.FindSlot(ctx, stationID, slotID)
	if err != nil {
		return domain.StationSlot{}, wrapStoreErr(fmt.Errorf("r.dao.FindSlot -> %w", err))
	}

	return r.slotDaoToDomain(found), nil
}

func (r *StationRepository) daoToDomain(s dao.Station) domain.Station {
	slots := make([]domain.StationSlot, len(s.Slots))
	for i, slot := range s.Slots {
		slots[i] = r.slotDaoToDomain(slot)
	}

	pricing := make(map[domain.EquipmentType]domain.Price, len(s.Pricing))
	for _, p := range s.Pricing {
		pricing[domain.EquipmentType(p.EquipmentType)] = domain.Price{
			PerHour:  p.PerHour,
			PerDay:   p.PerDay,
			Currency: p.Currency,
		}
	}

	return domain.Station{
		ID:             s.ID,
		Name:           s.Name,
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		Address:        s.Address,
		City:           s.City,
		District:       s.District,
		Slots:          slots,
		TotalSlots:     s.TotalSlots,
		AvailableSlots: s.AvailableSlots,
		OperatingHours: domain.OperatingHours{
			Open:   s.OpenTime,
			Close:  s.CloseTime,
			IsOpen: s.IsOpen,
		},
		IsActive:     s.IsActive,
		Pricing:      pricing,
		Rating:       s.Rating,
		TotalRatings: s.TotalRatings,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (r *StationRepository) slotDaoToDomain(s dao.StationSlot) domain.StationSlot {
	slot := domain.StationSlot{
		ID:                  s.ID,
		StationID:           s.StationID,
		SlotNumber:          s.SlotNumber,
		IsAvailable:         s.IsAvailable,
		IsLocked:            s.IsLocked,
		Condition:           domain.Condition(s.Condition),
		LastMaintenanceDate: s.LastMaintenanceDate,
	}

	if s.Equipment != nil {
		equipment := r.equipmentDaoToDomain(*s.Equipment)
		slot.Equipment = &equipment
	}

	return slot
}

func (r *StationRepository) equipmentDaoToDomain(e dao.Equipment) domain.Equipment {
	return domain.Equipment{
		ID:              e.ID,
		Type:            domain.EquipmentType(e.Type),
		Brand:           e.Brand,
		Model:           e.Model,
		Condition:       domain.Condition(e.Condition),
		Size:            e.Size,
		LastCleanedDate: e.LastCleanedDate,
		TotalUsageHours: e.TotalUsageHours,
		QRCode:          e.QRCode,
		NFCTag:          e.NFCTag,
	}
}
