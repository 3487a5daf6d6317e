package apperror

import "errors"

// 领域错误的五种分类，边界层据此决定 HTTP 状态码。
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrPersistence  = errors.New("persistence failure")
)

// Error 携带分类哨兵与面向调用方的可读信息。
// Cause 保留底层原因（如 gorm 报错），只进日志、不出响应。
type Error struct {
	Err     error
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error     { return &Error{Err: ErrNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Err: ErrConflict, Message: msg} }
func InvalidState(msg string) *Error { return &Error{Err: ErrInvalidState, Message: msg} }
func Validation(msg string) *Error   { return &Error{Err: ErrValidation, Message: msg} }

// Persistence 包装非预期的存储错误，对外只给笼统信息。
func Persistence(cause error) *Error {
	return &Error{Err: ErrPersistence, Message: "storage failure", Cause: cause}
}
