package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mertdogan/sportspot-api/internal/api/handler/v1/response"
	"github.com/mertdogan/sportspot-api/internal/api/middleware"
	"github.com/mertdogan/sportspot-api/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Produce      plain
// @Success      200 {string} string "ok"
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.String(http.StatusOK, "ok")
}

func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	rawID, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized(errors.New("not authenticated"))
	}

	userID, ok := rawID.(uint)
	if !ok {
		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("unexpected user id type %T", rawID))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrNotFound("user", "ID", userID)
	}

	return user, nil
}
