package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/The-OnlyPlants/onlyplants/internal/service"
)

// HandleServiceError 把服务层错误映射为 HTTP 响应。
// 校验失败回显结构化结果 (原因 + 提交的原始名称)，调用方据此重新渲染表单。
func HandleServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  verr.Error(),
			"reason": verr.Reason,
			"name":   verr.Name,
		})
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrRegistrationFailed):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRoomNotFound), errors.Is(err, service.ErrUserNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrLastRoomUndeletable):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrStore):
		logrus.WithError(err).Error("Persistent store failure surfaced to handler")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
