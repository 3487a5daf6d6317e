package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-library-lending/internal/apperror"
)

// ErrorBody 统一错误体。
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Fail 把领域错误翻译成状态码 + 错误体。
// 不认识的错误一律按 500 下发，不外露内部细节。
func Fail(c *gin.Context, err error) {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		c.JSON(http.StatusInternalServerError, ErrorBody{Error: KindInternal, Message: "internal server error"})
		return
	}
	c.JSON(StatusOf(err), ErrorBody{Error: KindOf(err), Message: ae.Message})
}

// Abort 中间件用：按给定状态码直接落错误体并中断后续处理。
func Abort(c *gin.Context, status int, kind, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: kind, Message: msg})
}
