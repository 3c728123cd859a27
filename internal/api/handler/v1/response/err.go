package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	statusCode int

	ErrorMsg string `json:"error"`
}

func (e *Err) Error() string {
	return e.ErrorMsg
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.statusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		statusCode: http.StatusBadRequest,
		ErrorMsg:   err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		statusCode: http.StatusUnauthorized,
		ErrorMsg:   err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		statusCode: http.StatusForbidden,
		ErrorMsg:   err.Error(),
	}
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	return &Err{
		statusCode: http.StatusNotFound,
		ErrorMsg:   fmt.Sprintf("%v not found with %v %v", resource, key, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		statusCode: http.StatusConflict,
		ErrorMsg:   err.Error(),
	}
}

func ErrUnprocessableEntity(err error) *Err {
	return &Err{
		statusCode: http.StatusUnprocessableEntity,
		ErrorMsg:   err.Error(),
	}
}

func ErrServiceUnavailable(err error) *Err {
	return &Err{
		statusCode: http.StatusServiceUnavailable,
		ErrorMsg:   err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		statusCode: http.StatusInternalServerError,
		ErrorMsg:   "internal server error",
	}
}
