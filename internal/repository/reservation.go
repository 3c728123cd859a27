package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mertdogan/sportspot-api/internal/domain"
	"github.com/mertdogan/sportspot-api/internal/repository/dao"
)

var (
	ErrReservationNotFound = dao.ErrReservationNotFound
	ErrSlotUnavailable     = dao.ErrSlotUnavailable
	ErrReservationState    = dao.ErrReservationState
)

type ReservationDAO interface {
	InsertWithSlotClaim(ctx context.Context, reservation dao.Reservation) (dao.Reservation, error)
	FindByID(ctx context.Context, id uint) (dao.Reservation, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Reservation, error)
	MarkActive(ctx context.Context, id uint, at time.Time) (dao.Reservation, error)
	TerminalizeAndRelease(ctx context.Context, id uint, to string, from []string, at time.Time) (dao.Reservation, error)
	UpdateFeedback(ctx context.Context, id uint, rating int, feedback string) (dao.Reservation, error)
	FindNoShowCandidates(ctx context.Context, cutoff time.Time) ([]dao.Reservation, error)
}

type ReservationRepository struct {
	dao ReservationDAO
}

func NewReservationRepository(dao ReservationDAO) *ReservationRepository {
	return &ReservationRepository{
		dao: dao,
	}
}

func (r *ReservationRepository) CreateWithSlotClaim(ctx context.Context, reservation domain.Reservation) (domain.Reservation, error) {
	created, err := r.dao.InsertWithSlotClaim(ctx, r.domainToDao(reservation))
	if err != nil {
		return domain.Reservation{}, wrapStoreErr(fmt.Errorf("r.dao.InsertWithSlotClaim -> %w", err))
	}

	return r.daoToDomain(created), nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uint) (domain.Reservation, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, wrapStoreErr(fmt.Errorf("r.dao.FindByID -> %w", err))
	}

	return r.daoToDomain(found), nil
}

func (r *ReservationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Reservation, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, wrapStoreErr(fmt.Errorf("r.dao.FindByUserID -> %w", err))
	}

	reservations := make([]domain.Reservation, len(found))
	for i, res := range found {
		reservations[i] = r.daoToDomain(res)
	}

	return reservations, nil
}

func (r *ReservationRepository) MarkActive(ctx context.Context, id uint, at time.Time) (domain.Reservation, error) {
	updated, err := r.dao.MarkActive(ctx, id, at)
	if err != nil {
		return domain.Reservation{}, wrapStoreErr(fmt.Errorf("r.dao.MarkActive -> %w", err))
	}

	return r.daoToDomain(updated), nil
}

func (r *ReservationRepository) TerminalizeAndRelease(ctx context.Context, id uint, to domain.ReservationStatus, from []domain.ReservationStatus, at time.Time) (domain.Reservation, error) {
	fromStatuses := make([]string, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	updated, err := r.dao.TerminalizeAndRelease(ctx, id, string(to), fromStatuses, at)
	if err != nil {
		return domain.Reservation{}, wrapStoreErr(fmt.Errorf("r.dao.TerminalizeAndRelease -> %w", err))
	}

	return r.daoToDomain(updated), nil
}

func (r *ReservationRepository) UpdateFeedback(ctx context.Context, id uint, rating int, feedback string) (domain.Reservation, error) {
	updated, err := r.dao.UpdateFeedback(ctx, id, rating, feedback)
	if err != nil {
		return domain.Reservation{}, wrapStoreErr(fmt.Errorf("r.dao.UpdateFeedback -> %w", err))
	}

	return r.daoToDomain(updated), nil
}

func (r *ReservationRepository) FindNoShowCandidates(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	found, err := r.dao.FindNoShowCandidates(ctx, cutoff)
	if err != nil {
		return nil, wrapStoreErr(fmt.Errorf("r.dao.FindNoShowCandidates -> %w", err))
	}

	reservations := make([]domain.Reservation, len(found))
	for i, res := range found {
		reservations[i] = r.daoToDomain(res)
	}

	return reservations, nil
}

func (r *ReservationRepository) domainToDao(res domain.Reservation) dao.Reservation {
	return dao.Reservation{
		ID:              res.ID,
		UserID:          res.UserID,
		StationID:       res.StationID,
		SlotID:          res.SlotID,
		EquipmentID:     res.EquipmentID,
		StationName:     res.StationName,
		SlotNumber:      res.SlotNumber,
		EquipmentType:   string(res.EquipmentType),
		HourlyRate:      res.HourlyRate,
		StartTime:       res.StartTime,
		EndTime:         res.EndTime,
		ActualStartTime: res.ActualStartTime,
		ActualEndTime:   res.ActualEndTime,
		DurationMinutes: res.DurationMinutes,
		Status:          string(res.Status),
		UnlockCode:      res.UnlockCode,
		Price:           res.Price,
		Currency:        res.Currency,
		PaymentStatus:   string(res.PaymentStatus),
		Rating:          res.Rating,
		Feedback:        res.Feedback,
		CreatedAt:       res.CreatedAt,
		UpdatedAt:       res.UpdatedAt,
	}
}

func (r *ReservationRepository) daoToDomain(res dao.Reservation) domain.Reservation {
	return domain.Reservation{
		ID:              res.ID,
		UserID:          res.UserID,
		StationID:       res.StationID,
		SlotID:          res.SlotID,
		EquipmentID:     res.EquipmentID,
		StationName:     res.StationName,
		SlotNumber:      res.SlotNumber,
		EquipmentType:   domain.EquipmentType(res.EquipmentType),
		HourlyRate:      res.HourlyRate,
		StartTime:       res.StartTime,
		EndTime:         res.EndTime,
		ActualStartTime: res.ActualStartTime,
		ActualEndTime:   res.ActualEndTime,
		DurationMinutes: res.DurationMinutes,
		Status:          domain.ReservationStatus(res.Status),
		UnlockCode:      res.UnlockCode,
		Price:           res.Price,
		Currency:        res.Currency,
		PaymentStatus:   domain.PaymentStatus(res.PaymentStatus),
		Rating:          res.Rating,
		Feedback:        res.Feedback,
		CreatedAt:       res.CreatedAt,
		UpdatedAt:       res.UpdatedAt,
	}
}
