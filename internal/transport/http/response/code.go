package response

import (
	"errors"
	"net/http"

	"go-library-lending/internal/apperror"
)

// 错误种类标识，随错误体下发，给调用方做程序化判断。
const (
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindInvalidState = "invalid_state"
	KindValidation   = "validation"
	KindInternal     = "internal"
)

// StatusOf 领域错误 → HTTP 状态码。
// 借阅冲突与状态类错误统一按 400 下发。
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict),
		errors.Is(err, apperror.ErrInvalidState),
		errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func KindOf(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return KindNotFound
	case errors.Is(err, apperror.ErrConflict):
		return KindConflict
	case errors.Is(err, apperror.ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, apperror.ErrValidation):
		return KindValidation
	default:
		return KindInternal
	}
}
