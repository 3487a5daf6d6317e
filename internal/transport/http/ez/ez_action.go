package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-library-lending/internal/apperror"
	resp "go-library-lending/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Binder 输入绑定方式。
type Binder int

const (
	BindNone Binder = iota
	BindJSON
	BindQuery
)

// Action 声明式路由动作：方法 + 路径 + 绑定方式 + 业务闭包。
// Status 是成功状态码，零值按 200。
type Action[I, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 挂载动作：绑定失败按 400 验证错误处理，
// 业务错误交 response 统一翻译，成功按 Status 直接出 JSON。
func RegisterAction[I, O any](e EZ, a Action[I, O]) {
	e.g.Handle(a.Method, a.Path, func(c *gin.Context) {
		var in I
		switch a.Binder {
		case BindJSON:
			if err := c.ShouldBindJSON(&in); err != nil {
				var mbe *http.MaxBytesError
				if errors.As(err, &mbe) {
					resp.Abort(c, http.StatusRequestEntityTooLarge, "too_large", "request body too large")
					return
				}
				resp.Fail(c, apperror.Validation("invalid request body"))
				return
			}
		case BindQuery:
			if err := c.ShouldBindQuery(&in); err != nil {
				resp.Fail(c, apperror.Validation("invalid query parameters"))
				return
			}
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	})
}
