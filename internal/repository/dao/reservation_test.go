package dao_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mertdogan/sportspot-api/internal/repository/dao"
)

// openTestDB starts a throwaway Postgres container. Tests are skipped when
// Docker is not reachable or -short is set.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=sportspot_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=sportspot_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	pool.MaxWait = 60 * time.Second
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, openErr := db.DB()
		if openErr != nil {
			return openErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, dao.InitTables(db))

	return db
}

func seedStation(t *testing.T, db *gorm.DB) (dao.Station, dao.StationSlot) {
	t.Helper()

	equipment := dao.Equipment{
		Type:      "basketball",
		Condition: "good",
		QRCode:    "QR-TEST-1",
	}
	require.NoError(t, db.Create(&equipment).Error)

	station := dao.Station{
		Name:           "Kadikoy Sahil",
		Latitude:       40.98,
		Longitude:      29.03,
		Address:        "Sahil Yolu 1",
		City:           "Istanbul",
		TotalSlots:     1,
		AvailableSlots: 1,
		OpenTime:       "06:00",
		CloseTime:      "23:00",
		IsOpen:         true,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&station).Error)

	slot := dao.StationSlot{
		StationID:   station.ID,
		SlotNumber:  1,
		EquipmentID: &equipment.ID,
		IsAvailable: true,
		Condition:   "good",
	}
	require.NoError(t, db.Create(&slot).Error)

	pricing := dao.StationPricing{
		StationID:     station.ID,
		EquipmentType: "basketball",
		PerHour:       50,
		Currency:      "TRY",
	}
	require.NoError(t, db.Create(&pricing).Error)

	return station, slot
}

func buildReservation(station dao.Station, slot dao.StationSlot, userID uint) dao.Reservation {
	now := time.Now().UTC().Truncate(time.Second)

	return dao.Reservation{
		UserID:          userID,
		StationID:       station.ID,
		SlotID:          slot.ID,
		EquipmentID:     *slot.EquipmentID,
		StationName:     station.Name,
		SlotNumber:      slot.SlotNumber,
		EquipmentType:   "basketball",
		HourlyRate:      50,
		StartTime:       now,
		EndTime:         now.Add(time.Hour),
		DurationMinutes: 60,
		Status:          "confirmed",
		UnlockCode:      "ABCD2345",
		Price:           50,
		Currency:        "TRY",
		PaymentStatus:   "pending",
	}
}

func TestInsertWithSlotClaim(t *testing.T) {
	db := openTestDB(t)
	station, slot := seedStation(t, db)
	d := dao.NewReservationDAO(db)
	ctx := context.Background()

	created, err := d.InsertWithSlotClaim(ctx, buildReservation(station, slot, 1))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	var updatedSlot dao.StationSlot
	require.NoError(t, db.First(&updatedSlot, slot.ID).Error)
	assert.False(t, updatedSlot.IsAvailable)

	var updatedStation dao.Station
	require.NoError(t, db.First(&updatedStation, station.ID).Error)
	assert.Equal(t, 0, updatedStation.AvailableSlots)

	// The slot is taken now.
	_, err = d.InsertWithSlotClaim(ctx, buildReservation(station, slot, 2))
	assert.ErrorIs(t, err, dao.ErrSlotUnavailable)
}

func TestInsertWithSlotClaimConcurrent(t *testing.T) {
	db := openTestDB(t)
	station, slot := seedStation(t, db)
	d := dao.NewReservationDAO(db)
	ctx := context.Background()

	const attempts = 10
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := d.InsertWithSlotClaim(ctx, buildReservation(station, slot, userID))
			errs <- err
		}(uint(i + 1))
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, dao.ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, db.Model(&dao.Reservation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTerminalizeAndRelease(t *testing.T) {
	db := openTestDB(t)
	station, slot := seedStation(t, db)
	d := dao.NewReservationDAO(db)
	ctx := context.Background()

	created, err := d.InsertWithSlotClaim(ctx, buildReservation(station, slot, 1))
	require.NoError(t, err)

	released, err := d.TerminalizeAndRelease(ctx, created.ID, "cancelled", []string{"pending", "confirmed", "active"}, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, "cancelled", released.Status)
	require.NotNil(t, released.ActualEndTime)

	var updatedSlot dao.StationSlot
	require.NoError(t, db.First(&updatedSlot, slot.ID).Error)
	assert.True(t, updatedSlot.IsAvailable)

	var updatedStation dao.Station
	require.NoError(t, db.First(&updatedStation, station.ID).Error)
	assert.Equal(t, 1, updatedStation.AvailableSlots)

	// Terminal reservations reject further transitions.
	_, err = d.TerminalizeAndRelease(ctx, created.ID, "cancelled", []string{"pending", "confirmed", "active"}, time.Now().UTC())
	assert.ErrorIs(t, err, dao.ErrReservationState)

	// The released slot accepts a fresh claim.
	_, err = d.InsertWithSlotClaim(ctx, buildReservation(station, slot, 2))
	assert.NoError(t, err)
}

func TestTerminalizeAndReleaseSkipsAlreadyFreeSlot(t *testing.T) {
	db := openTestDB(t)
	station, slot := seedStation(t, db)
	d := dao.NewReservationDAO(db)
	ctx := context.Background()

	created, err := d.InsertWithSlotClaim(ctx, buildReservation(station, slot, 1))
	require.NoError(t, err)

	// A maintenance pass frees the slot out of band; the counter moves
	// with it.
	require.NoError(t, db.Model(&dao.StationSlot{}).
		Where("id = ?", slot.ID).
		Update("is_available", true).Error)
	require.NoError(t, db.Model(&dao.Station{}).
		Where("id = ?", station.ID).
		Update("available_slots", 1).Error)

	_, err = d.TerminalizeAndRelease(ctx, created.ID, "cancelled", []string{"pending", "confirmed", "active"}, time.Now().UTC())
	require.NoError(t, err)

	// The slot was already free, so the counter must not be bumped again.
	var updatedStation dao.Station
	require.NoError(t, db.First(&updatedStation, station.ID).Error)
	assert.Equal(t, 1, updatedStation.AvailableSlots)
}

func TestMarkActive(t *testing.T) {
	db := openTestDB(t)
	station, slot := seedStation(t, db)
	d := dao.NewReservationDAO(db)
	ctx := context.Background()

	created, err := d.InsertWithSlotClaim(ctx, buildReservation(station, slot, 1))
	require.NoError(t, err)

	at := time.Now().UTC().Truncate(time.Second)
	started, err := d.MarkActive(ctx, created.ID, at)
	require.NoError(t, err)
	assert.Equal(t, "active", started.Status)
	require.NotNil(t, started.ActualStartTime)

	_, err = d.MarkActive(ctx, created.ID, at)
	assert.ErrorIs(t, err, dao.ErrReservationState)
}

func TestFindNoShowCandidates(t *testing.T) {
	db := openTestDB(t)
	station, slot := seedStation(t, db)
	d := dao.NewReservationDAO(db)
	ctx := context.Background()

	reservation := buildReservation(station, slot, 1)
	reservation.StartTime = time.Now().UTC().Add(-30 * time.Minute)
	created, err := d.InsertWithSlotClaim(ctx, reservation)
	require.NoError(t, err)

	candidates, err := d.FindNoShowCandidates(ctx, time.Now().UTC().Add(-15*time.Minute))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, created.ID, candidates[0].ID)

	// A checked-in reservation is never a candidate.
	_, err = d.MarkActive(ctx, created.ID, time.Now().UTC())
	require.NoError(t, err)

	candidates, err = d.FindNoShowCandidates(ctx, time.Now().UTC().Add(-15*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
