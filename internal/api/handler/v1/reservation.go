package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mertdogan/sportspot-api/internal/api/handler/v1/request"
	"github.com/mertdogan/sportspot-api/internal/api/handler/v1/response"
	"github.com/mertdogan/sportspot-api/internal/domain"
	"github.com/mertdogan/sportspot-api/internal/service"
)

type ReservationService interface {
	CreateReservation(ctx context.Context, userID, stationID, slotID uint, durationMinutes int) (domain.Reservation, error)
	StartReservation(ctx context.Context, userID, reservationID uint, presentedCode string) (domain.Reservation, error)
	CancelReservation(ctx context.Context, userID, reservationID uint) (domain.Reservation, error)
	EndReservation(ctx context.Context, userID, reservationID uint) (domain.Reservation, error)
	UpdateReservation(ctx context.Context, userID, reservationID uint, patch domain.ReservationPatch) (domain.Reservation, error)
	GetReservation(ctx context.Context, userID, reservationID uint) (domain.Reservation, error)
	ListUserReservations(ctx context.Context, userID uint) ([]domain.Reservation, error)
	ExpireNoShows(ctx context.Context) (int, error)
}

type ReservationHandler struct {
	svc  ReservationService
	uSvc UserService
}

func NewReservationHandler(svc ReservationService, uSvc UserService) *ReservationHandler {
	return &ReservationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateReservation godoc
// @Summary      Create a reservation
// @Description  Books an available slot for the authenticated user. Exactly one of two concurrent attempts on the same slot succeeds.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateReservationRequest true "request body"
// @Success      201      {object}  domain.Reservation
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      503      {object}  response.Err
// @Router       /reservations [post]
// @Security BearerAuth
func (h *ReservationHandler) HandleCreateReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reservation, err := h.svc.CreateReservation(ctx.Request.Context(), user.ID, req.StationID, req.SlotID, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, service.ErrStationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("station", "ID", req.StationID))
			return
		}

		h.renderReservationErr(ctx, "HandleCreateReservation", err)
		return
	}

	ctx.JSON(http.StatusCreated, reservation)
}

// HandleListReservations godoc
// @Summary      List own reservations
// @Tags         reservations
// @Produce      json
// @Success      200  {array}   domain.Reservation
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reservations [get]
// @Security BearerAuth
func (h *ReservationHandler) HandleListReservations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reservations, err := h.svc.ListUserReservations(ctx.Request.Context(), user.ID)
	if err != nil {
		h.renderReservationErr(ctx, "HandleListReservations", err)
		return
	}

	ctx.JSON(http.StatusOK, reservations)
}

// HandleGetReservation godoc
// @Summary      Get one reservation
// @Tags         reservations
// @Produce      json
// @Param        reservationID  path  int  true  "Reservation ID"
// @Success      200  {object}  domain.Reservation
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /reservations/{reservationID} [get]
// @Security BearerAuth
func (h *ReservationHandler) HandleGetReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reservationID, err := parseUintParam(ctx, "reservationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reservation, err := h.svc.GetReservation(ctx.Request.Context(), user.ID, reservationID)
	if err != nil {
		h.renderReservationErr(ctx, "HandleGetReservation", err)
		return
	}

	ctx.JSON(http.StatusOK, reservation)
}

// HandleStartReservation godoc
// @Summary      Check in to a reservation
// @Description  Verifies the unlock code presented at the station and marks the reservation active.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        reservationID  path  int  true  "Reservation ID"
// @Param        request  body      request.StartReservationRequest true "request body"
// @Success      200      {object}  domain.Reservation
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /reservations/{reservationID}/start [post]
// @Security BearerAuth
func (h *ReservationHandler) HandleStartReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reservationID, err := parseUintParam(ctx, "reservationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.StartReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reservation, err := h.svc.StartReservation(ctx.Request.Context(), user.ID, reservationID, req.UnlockCode)
	if err != nil {
		h.renderReservationErr(ctx, "HandleStartReservation", err)
		return
	}

	ctx.JSON(http.StatusOK, reservation)
}

// HandleCancelReservation godoc
// @Summary      Cancel a reservation
// @Description  Cancels a not-yet-completed reservation and releases its slot.
// @Tags         reservations
// @Produce      json
// @Param        reservationID  path  int  true  "Reservation ID"
// @Success      200  {object}  domain.Reservation
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /reservations/{reservationID}/cancel [post]
// @Security BearerAuth
func (h *ReservationHandler) HandleCancelReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reservationID, err := parseUintParam(ctx, "reservationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reservation, err := h.svc.CancelReservation(ctx.Request.Context(), user.ID, reservationID)
	if err != nil {
		h.renderReservationErr(ctx, "HandleCancelReservation", err)
		return
	}

	ctx.JSON(http.StatusOK, reservation)
}

// HandleEndReservation godoc
// @Summary      End a reservation
// @Description  Completes the rental, releases the slot and records actual usage.
// @Tags         reservations
// @Produce      json
// @Param        reservationID  path  int  true  "Reservation ID"
// @Success      200  {object}  domain.Reservation
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /reservations/{reservationID}/end [post]
// @Security BearerAuth
func (h *ReservationHandler) HandleEndReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reservationID, err := parseUintParam(ctx, "reservationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reservation, err := h.svc.EndReservation(ctx.Request.Context(), user.ID, reservationID)
	if err != nil {
		h.renderReservationErr(ctx, "HandleEndReservation", err)
		return
	}

	ctx.JSON(http.StatusOK, reservation)
}

// HandleUpdateReservation godoc
// @Summary      Update a reservation
// @Description  Patches rating and feedback after completion. Status, price and slot changes are rejected.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        reservationID  path  int  true  "Reservation ID"
// @Param        request  body      request.UpdateReservationRequest true "request body"
// @Success      200      {object}  domain.Reservation
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /reservations/{reservationID} [patch]
// @Security BearerAuth
func (h *ReservationHandler) HandleUpdateReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reservationID, err := parseUintParam(ctx, "reservationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	req, err := request.ParseUpdateReservation(body)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reservation, err := h.svc.UpdateReservation(ctx.Request.Context(), user.ID, reservationID, domain.ReservationPatch{
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		h.renderReservationErr(ctx, "HandleUpdateReservation", err)
		return
	}

	ctx.JSON(http.StatusOK, reservation)
}

// HandleSweepNoShows godoc
// @Summary      Expire no-show reservations now
// @Description  Runs the no-show sweep immediately instead of waiting for the next scheduled pass.
// @Tags         reservations
// @Produce      json
// @Success      200  {object}  response.SweepResult
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/no-show-sweep [post]
// @Security BearerAuth
func (h *ReservationHandler) HandleSweepNoShows(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	expired, err := h.svc.ExpireNoShows(ctx.Request.Context())
	if err != nil {
		h.renderReservationErr(ctx, "HandleSweepNoShows", err)
		return
	}

	ctx.JSON(http.StatusOK, response.SweepResult{Expired: expired})
}

func (h *ReservationHandler) renderReservationErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("slot does not belong to this station")))
	case errors.Is(err, service.ErrReservationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("reservation", "ID", ctx.Param("reservationID")))
	case errors.Is(err, service.ErrSlotUnavailable):
		response.RenderErr(ctx, response.ErrConflict(errors.New("slot is no longer available, pick another")))
	case errors.Is(err, service.ErrInvalidState):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrStationInactive),
		errors.Is(err, service.ErrOutsideOperatingHours):
		response.RenderErr(ctx, response.ErrUnprocessableEntity(err))
	case errors.Is(err, service.ErrValidation):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrUnlockCodeMismatch):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrStoreUnavailable):
		response.RenderErr(ctx, response.ErrServiceUnavailable(errors.New("store temporarily unavailable, retry shortly")))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("v1.%v -> %w", op, err)))
	}
}
