package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mertdogan/sportspot-api/internal/domain"
	"github.com/mertdogan/sportspot-api/internal/events"
	"github.com/mertdogan/sportspot-api/internal/livefeed"
	"github.com/mertdogan/sportspot-api/internal/pkg/unlockcode"
	"github.com/mertdogan/sportspot-api/internal/repository"
)

var (
	ErrStationNotFound     = repository.ErrStationNotFound
	ErrSlotNotFound        = repository.ErrSlotNotFound
	ErrReservationNotFound = repository.ErrReservationNotFound
	ErrSlotUnavailable     = repository.ErrSlotUnavailable
	ErrStoreUnavailable    = repository.ErrStoreUnavailable

	ErrStationInactive       = errors.New("station is not active")
	ErrOutsideOperatingHours = errors.New("reservation falls outside station operating hours")
	ErrInvalidState          = errors.New("operation is not allowed from the current reservation status")
	ErrValidation            = errors.New("invalid reservation input")
	ErrNotOwner              = errors.New("reservation belongs to another user")
	ErrUnlockCodeMismatch    = errors.New("unlock code does not match")
)

type ReservationRepository interface {
	CreateWithSlotClaim(ctx context.Context, reservation domain.Reservation) (domain.Reservation, error)
	FindByID(ctx context.Context, id uint) (domain.Reservation, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Reservation, error)
	MarkActive(ctx context.Context, id uint, at time.Time) (domain.Reservation, error)
	TerminalizeAndRelease(ctx context.Context, id uint, to domain.ReservationStatus, from []domain.ReservationStatus, at time.Time) (domain.Reservation, error)
	UpdateFeedback(ctx context.Context, id uint, rating int, feedback string) (domain.Reservation, error)
	FindNoShowCandidates(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error)
}

type ReservationStationRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Station, error)
}

// SlotFeed receives slot-state changes for live subscribers.
type SlotFeed interface {
	Publish(ctx context.Context, update livefeed.SlotUpdate)
}

type noopFeed struct{}

func (noopFeed) Publish(context.Context, livefeed.SlotUpdate) {}

// ReservationConfig bounds reservation durations and drives the no-show
// policy. Durations outside [MinDurationMinutes, MaxDurationMinutes] are
// rejected; zero bounds disable the corresponding check.
type ReservationConfig struct {
	MinDurationMinutes int
	MaxDurationMinutes int
	NoShowGrace        time.Duration

	// LegacyUnlockCodes switches to the 4-digit keypad format for stations
	// whose firmware predates token codes.
	LegacyUnlockCodes bool
}

// ReservationService is the sole authority over reservation creation,
// lifecycle transitions, pricing and slot availability.
type ReservationService struct {
	repo        ReservationRepository
	stationRepo ReservationStationRepository
	recorder    events.Recorder
	feed        SlotFeed
	conf        ReservationConfig
	now         func() time.Time
}

func NewReservationService(repo ReservationRepository, stationRepo ReservationStationRepository, recorder events.Recorder, feed SlotFeed, conf ReservationConfig) *ReservationService {
	if feed == nil {
		feed = noopFeed{}
	}
	if conf.NoShowGrace <= 0 {
		conf.NoShowGrace = 15 * time.Minute
	}

	return &ReservationService{
		repo:        repo,
		stationRepo: stationRepo,
		recorder:    recorder,
		feed:        feed,
		conf:        conf,
		now:         time.Now,
	}
}

// WithClock overrides the wall-time source. Tests use it; production code
// never should.
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

// CreateReservation books the slot for the user. The availability check and
// the claim are a single atomic store operation; when two calls race on the
// same slot exactly one succeeds and the other fails with ErrSlotUnavailable.
func (s *ReservationService) CreateReservation(ctx context.Context, userID, stationID, slotID uint, durationMinutes int) (domain.Reservation, error) {
	if durationMinutes <= 0 {
		return domain.Reservation{}, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	if s.conf.MinDurationMinutes > 0 && durationMinutes < s.conf.MinDurationMinutes {
		return domain.Reservation{}, fmt.Errorf("%w: duration below minimum of %d minutes", ErrValidation, s.conf.MinDurationMinutes)
	}
	if s.conf.MaxDurationMinutes > 0 && durationMinutes > s.conf.MaxDurationMinutes {
		return domain.Reservation{}, fmt.Errorf("%w: duration above maximum of %d minutes", ErrValidation, s.conf.MaxDurationMinutes)
	}

	station, err := s.stationRepo.FindByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return domain.Reservation{}, ErrStationNotFound
		}

		return domain.Reservation{}, fmt.Errorf("s.stationRepo.FindByID -> %w", err)
	}

	if !station.IsActive {
		return domain.Reservation{}, ErrStationInactive
	}

	now := s.now()
	endTime := now.Add(time.Duration(durationMinutes) * time.Minute)
	if !station.OperatingHours.Contains(now, endTime) {
		return domain.Reservation{}, ErrOutsideOperatingHours
	}

	slot, ok := station.Slot(slotID)
	if !ok {
		return domain.Reservation{}, ErrSlotNotFound
	}
	if !slot.Bookable() {
		return domain.Reservation{}, ErrSlotUnavailable
	}

	price, ok := station.Pricing[slot.Equipment.Type]
	if !ok {
		return domain.Reservation{}, fmt.Errorf("%w: station has no rate for equipment type %q", ErrValidation, slot.Equipment.Type)
	}

	code, err := s.newUnlockCode()
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.newUnlockCode -> %w", err)
	}

	reservation := domain.Reservation{
		UserID:          userID,
		StationID:       station.ID,
		SlotID:          slot.ID,
		EquipmentID:     slot.Equipment.ID,
		StationName:     station.Name,
		SlotNumber:      slot.SlotNumber,
		EquipmentType:   slot.Equipment.Type,
		HourlyRate:      price.PerHour,
		StartTime:       now,
		EndTime:         endTime,
		DurationMinutes: durationMinutes,
		Status:          domain.ReservationConfirmed,
		UnlockCode:      code,
		Price:           domain.PriceFor(price.PerHour, durationMinutes),
		Currency:        price.Currency,
		PaymentStatus:   domain.PaymentPending,
	}

	created, err := s.repo.CreateWithSlotClaim(ctx, reservation)
	if err != nil {
		if errors.Is(err, repository.ErrSlotUnavailable) {
			return domain.Reservation{}, ErrSlotUnavailable
		}

		return domain.Reservation{}, fmt.Errorf("s.repo.CreateWithSlotClaim -> %w", err)
	}

	s.recorder.Record(ctx, "reservation_created", map[string]interface{}{
		"reservation_id": created.ID,
		"station_id":     created.StationID,
		"slot_id":        created.SlotID,
		"equipment_type": string(created.EquipmentType),
		"duration":       created.DurationMinutes,
		"price":          created.Price,
	})
	s.feed.Publish(ctx, livefeed.SlotUpdate{
		StationID:   created.StationID,
		SlotID:      created.SlotID,
		SlotNumber:  created.SlotNumber,
		IsAvailable: false,
		UpdatedAt:   now,
	})

	return created, nil
}

// StartReservation checks the user in: the unlock code presented at the
// station must match, and the reservation must still be confirmed.
func (s *ReservationService) StartReservation(ctx context.Context, userID, reservationID uint, presentedCode string) (domain.Reservation, error) {
	reservation, err := s.ownedReservation(ctx, userID, reservationID)
	if err != nil {
		return domain.Reservation{}, err
	}

	if !unlockcode.Matches(reservation.UnlockCode, presentedCode) {
		return domain.Reservation{}, ErrUnlockCodeMismatch
	}

	if !domain.CanTransition(reservation.Status, domain.ReservationActive) {
		return domain.Reservation{}, ErrInvalidState
	}

	started, err := s.repo.MarkActive(ctx, reservationID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrReservationState) {
			return domain.Reservation{}, ErrInvalidState
		}

		return domain.Reservation{}, fmt.Errorf("s.repo.MarkActive -> %w", err)
	}

	s.recorder.Record(ctx, "reservation_started", map[string]interface{}{
		"reservation_id": started.ID,
		"station_id":     started.StationID,
	})

	return started, nil
}

// CancelReservation aborts a booking before physical use and releases the
// slot. Calling it on an already-terminal reservation fails with
// ErrInvalidState rather than silently succeeding.
func (s *ReservationService) CancelReservation(ctx context.Context, userID, reservationID uint) (domain.Reservation, error) {
	reservation, err := s.ownedReservation(ctx, userID, reservationID)
	if err != nil {
		return domain.Reservation{}, err
	}

	if !domain.CanTransition(reservation.Status, domain.ReservationCancelled) {
		return domain.Reservation{}, ErrInvalidState
	}

	now := s.now()
	cancelled, err := s.terminalize(ctx, reservationID, domain.ReservationCancelled,
		[]domain.ReservationStatus{domain.ReservationPending, domain.ReservationConfirmed, domain.ReservationActive}, now)
	if err != nil {
		return domain.Reservation{}, err
	}

	s.recorder.Record(ctx, "reservation_cancelled", map[string]interface{}{
		"reservation_id": cancelled.ID,
		"station_id":     cancelled.StationID,
	})

	return cancelled, nil
}

// EndReservation completes the rental, releases the slot and reports the
// actual usage duration to the analytics sink.
func (s *ReservationService) EndReservation(ctx context.Context, userID, reservationID uint) (domain.Reservation, error) {
	reservation, err := s.ownedReservation(ctx, userID, reservationID)
	if err != nil {
		return domain.Reservation{}, err
	}

	if !domain.CanTransition(reservation.Status, domain.ReservationCompleted) {
		return domain.Reservation{}, ErrInvalidState
	}

	now := s.now()
	completed, err := s.terminalize(ctx, reservationID, domain.ReservationCompleted,
		[]domain.ReservationStatus{domain.ReservationConfirmed, domain.ReservationActive}, now)
	if err != nil {
		return domain.Reservation{}, err
	}

	usageStart := completed.StartTime
	if completed.ActualStartTime != nil {
		usageStart = *completed.ActualStartTime
	}
	usageMinutes := int(now.Sub(usageStart).Round(time.Minute) / time.Minute)

	s.recorder.Record(ctx, "reservation_completed", map[string]interface{}{
		"reservation_id": completed.ID,
		"station_id":     completed.StationID,
		"sport_type":     string(completed.EquipmentType),
		"usage_minutes":  usageMinutes,
	})

	return completed, nil
}

// UpdateReservation applies the post-completion patch. Rating requires a
// completed reservation; status, price and slot changes are rejected at the
// handler layer and can never reach this path.
func (s *ReservationService) UpdateReservation(ctx context.Context, userID, reservationID uint, patch domain.ReservationPatch) (domain.Reservation, error) {
	reservation, err := s.ownedReservation(ctx, userID, reservationID)
	if err != nil {
		return domain.Reservation{}, err
	}

	if patch.Rating == nil && patch.Feedback == nil {
		return reservation, nil
	}

	if reservation.Status != domain.ReservationCompleted {
		return domain.Reservation{}, ErrInvalidState
	}

	rating := 0
	if patch.Rating != nil {
		if *patch.Rating < 1 || *patch.Rating > 5 {
			return domain.Reservation{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
		}
		rating = *patch.Rating
	}

	feedback := ""
	if patch.Feedback != nil {
		feedback = *patch.Feedback
	}

	updated, err := s.repo.UpdateFeedback(ctx, reservationID, rating, feedback)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.repo.UpdateFeedback -> %w", err)
	}

	return updated, nil
}

// ListUserReservations returns the user's reservations, newest first.
func (s *ReservationService) ListUserReservations(ctx context.Context, userID uint) ([]domain.Reservation, error) {
	reservations, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return reservations, nil
}

// GetReservation returns one reservation owned by the user.
func (s *ReservationService) GetReservation(ctx context.Context, userID, reservationID uint) (domain.Reservation, error) {
	return s.ownedReservation(ctx, userID, reservationID)
}

// ExpireNoShows transitions confirmed reservations whose grace period
// elapsed without a check-in to no_show and releases their slots. Races
// against a late check-in are resolved by the store's status guard; the
// loser is skipped silently.
func (s *ReservationService) ExpireNoShows(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.Add(-s.conf.NoShowGrace)

	candidates, err := s.repo.FindNoShowCandidates(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("s.repo.FindNoShowCandidates -> %w", err)
	}

	expired := 0
	for _, candidate := range candidates {
		_, err := s.terminalize(ctx, candidate.ID, domain.ReservationNoShow,
			[]domain.ReservationStatus{domain.ReservationConfirmed}, now)
		if err != nil {
			if errors.Is(err, ErrInvalidState) {
				// Lost the race to a check-in or cancellation.
				continue
			}

			zap.L().Error("no-show transition failed",
				zap.Uint("reservation_id", candidate.ID),
				zap.Error(err),
			)
			continue
		}

		expired++
		s.recorder.Record(ctx, "reservation_no_show", map[string]interface{}{
			"reservation_id": candidate.ID,
			"station_id":     candidate.StationID,
		})
	}

	return expired, nil
}

func (s *ReservationService) terminalize(ctx context.Context, id uint, to domain.ReservationStatus, from []domain.ReservationStatus, at time.Time) (domain.Reservation, error) {
	updated, err := s.repo.TerminalizeAndRelease(ctx, id, to, from, at)
	if err != nil {
		if errors.Is(err, repository.ErrReservationState) {
			return domain.Reservation{}, ErrInvalidState
		}
		if errors.Is(err, repository.ErrReservationNotFound) {
			return domain.Reservation{}, ErrReservationNotFound
		}

		return domain.Reservation{}, fmt.Errorf("s.repo.TerminalizeAndRelease -> %w", err)
	}

	s.feed.Publish(ctx, livefeed.SlotUpdate{
		StationID:   updated.StationID,
		SlotID:      updated.SlotID,
		SlotNumber:  updated.SlotNumber,
		IsAvailable: true,
		UpdatedAt:   at,
	})

	return updated, nil
}

func (s *ReservationService) ownedReservation(ctx context.Context, userID, reservationID uint) (domain.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return domain.Reservation{}, ErrReservationNotFound
		}

		return domain.Reservation{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if reservation.UserID != userID {
		return domain.Reservation{}, ErrNotOwner
	}

	return reservation, nil
}

func (s *ReservationService) newUnlockCode() (string, error) {
	if s.conf.LegacyUnlockCodes {
		return unlockcode.NewLegacy()
	}

	return unlockcode.New()
}
