package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mertdogan/sportspot-api/internal/api/handler/v1/response"
	"github.com/mertdogan/sportspot-api/internal/livefeed"
)

const liveWriteTimeout = 10 * time.Second

type LiveHandler struct {
	feed     *livefeed.Feed
	upgrader websocket.Upgrader
}

func NewLiveHandler(feed *livefeed.Feed) *LiveHandler {
	return &LiveHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleStationLive godoc
// @Summary      Stream slot updates for a station
// @Description  Upgrades to a websocket and pushes a JSON message every time a slot at the station is claimed or released.
// @Tags         stations
// @Param        stationID  path  int  true  "Station ID"
// @Success      101
// @Failure      400  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /stations/{stationID}/live [get]
// @Security BearerAuth
func (h *LiveHandler) HandleStationLive(ctx *gin.Context) {
	if h.feed == nil {
		response.RenderErr(ctx, response.ErrServiceUnavailable(errors.New("live updates are not enabled")))
		return
	}

	stationID, err := parseUintParam(ctx, "stationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, stop := h.feed.Subscribe(ctx.Request.Context(), stationID)
	defer stop()

	// Reader goroutine drains control frames and detects the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteJSON(update); err != nil {
				return
			}
		}
	}
}
