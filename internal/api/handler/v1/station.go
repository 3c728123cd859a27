package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mertdogan/sportspot-api/internal/api/handler/v1/response"
	"github.com/mertdogan/sportspot-api/internal/domain"
	"github.com/mertdogan/sportspot-api/internal/service"
)

type StationService interface {
	GetStation(ctx context.Context, id uint) (domain.Station, error)
	ListStations(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error)
}

type StationHandler struct {
	svc StationService
}

func NewStationHandler(svc StationService) *StationHandler {
	return &StationHandler{
		svc: svc,
	}
}

// HandleListStations godoc
// @Summary      List stations
// @Description  Lists rental stations, optionally filtered by city, equipment type or current availability
// @Tags         stations
// @Produce      json
// @Param        city            query     string  false  "filter by city"
// @Param        equipment_type  query     string  false  "filter by equipment type"
// @Param        only_available  query     bool    false  "only stations with free slots"
// @Success      200  {array}   domain.Station
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /stations [get]
// @Security BearerAuth
func (h *StationHandler) HandleListStations(ctx *gin.Context) {
	filter := domain.StationFilter{
		City:          ctx.Query("city"),
		OnlyAvailable: ctx.Query("only_available") == "true",
	}

	if raw := ctx.Query("equipment_type"); raw != "" {
		equipmentType := domain.EquipmentType(raw)
		if !equipmentType.IsValid() {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("unknown equipment type %q", raw)))
			return
		}
		filter.EquipmentType = equipmentType
	}

	stations, err := h.svc.ListStations(ctx.Request.Context(), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleListStations -> h.svc.ListStations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stations)
}

// HandleGetStation godoc
// @Summary      Get a station
// @Description  Retrieves one station with its slots, equipment and pricing
// @Tags         stations
// @Produce      json
// @Param        stationID  path      int  true  "Station ID"
// @Success      200  {object}  domain.Station
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /stations/{stationID} [get]
// @Security BearerAuth
func (h *StationHandler) HandleGetStation(ctx *gin.Context) {
	stationID, err := parseUintParam(ctx, "stationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	station, err := h.svc.GetStation(ctx.Request.Context(), stationID)
	if err != nil {
		if errors.Is(err, service.ErrStationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("station", "ID", stationID))
			return
		}

		err = fmt.Errorf("v1.HandleGetStation -> h.svc.GetStation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, station)
}

func parseUintParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %v %q", name, raw)
	}

	return uint(parsed), nil
}
