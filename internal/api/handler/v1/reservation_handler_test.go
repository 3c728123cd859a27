package v1_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	v1 "github.com/mertdogan/sportspot-api/internal/api/handler/v1"
	"github.com/mertdogan/sportspot-api/internal/api/middleware"
	"github.com/mertdogan/sportspot-api/internal/domain"
	"github.com/mertdogan/sportspot-api/internal/service"
)

type stubUserService struct{}

func (stubUserService) GetUser(_ context.Context, id uint) (domain.User, error) {
	return domain.User{ID: id, Email: "test@example.com"}, nil
}

// stubReservationService returns a fixed error from every operation so the
// handler's status mapping can be checked in isolation.
type stubReservationService struct {
	err error
}

func (s *stubReservationService) CreateReservation(context.Context, uint, uint, uint, int) (domain.Reservation, error) {
	return domain.Reservation{}, s.err
}

func (s *stubReservationService) StartReservation(context.Context, uint, uint, string) (domain.Reservation, error) {
	return domain.Reservation{}, s.err
}

func (s *stubReservationService) CancelReservation(context.Context, uint, uint) (domain.Reservation, error) {
	return domain.Reservation{}, s.err
}

func (s *stubReservationService) EndReservation(context.Context, uint, uint) (domain.Reservation, error) {
	return domain.Reservation{}, s.err
}

func (s *stubReservationService) UpdateReservation(context.Context, uint, uint, domain.ReservationPatch) (domain.Reservation, error) {
	return domain.Reservation{}, s.err
}

func (s *stubReservationService) GetReservation(context.Context, uint, uint) (domain.Reservation, error) {
	return domain.Reservation{}, s.err
}

func (s *stubReservationService) ListUserReservations(context.Context, uint) ([]domain.Reservation, error) {
	return nil, s.err
}

func (s *stubReservationService) ExpireNoShows(context.Context) (int, error) {
	return 0, s.err
}

func newTestRouter(svcErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := v1.NewReservationHandler(&stubReservationService{err: svcErr}, stubUserService{})

	authenticated := router.Group("/api/v1", func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, uint(7))
	})
	authenticated.POST("/reservations", handler.HandleCreateReservation)
	authenticated.GET("/reservations/:reservationID", handler.HandleGetReservation)
	authenticated.PATCH("/reservations/:reservationID", handler.HandleUpdateReservation)
	authenticated.POST("/reservations/:reservationID/cancel", handler.HandleCancelReservation)

	return router
}

func TestCreateReservationStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{
			name:       "slot taken",
			svcErr:     service.ErrSlotUnavailable,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "station missing",
			svcErr:     service.ErrStationNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "station inactive",
			svcErr:     service.ErrStationInactive,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "outside operating hours",
			svcErr:     service.ErrOutsideOperatingHours,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "validation failure",
			svcErr:     service.ErrValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store down",
			svcErr:     service.ErrStoreUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.svcErr)

			body := `{"station_id": 1, "slot_id": 10, "duration_minutes": 60}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCreateReservationUnknownStationMessage(t *testing.T) {
	router := newTestRouter(service.ErrStationNotFound)

	body := `{"station_id": 42, "slot_id": 10, "duration_minutes": 60}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	// The message names the station the client asked for.
	assert.Contains(t, rec.Body.String(), "station not found with ID 42")
}

func TestCancelReservationStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{
			name:       "already terminal",
			svcErr:     service.ErrInvalidState,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "someone else's reservation",
			svcErr:     service.ErrNotOwner,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown reservation",
			svcErr:     service.ErrReservationNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.svcErr)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/5/cancel", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUpdateReservationRejectsProtectedFields(t *testing.T) {
	router := newTestRouter(nil)

	body := `{"status": "completed"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/reservations/5", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status")
}

func TestGetReservationBadID(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/abc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
