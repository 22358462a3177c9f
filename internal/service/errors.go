package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid     = errors.New("参数错误")
	ErrEntityKind       = errors.New("不支持的实体类型")
	ErrEntityNotFound   = errors.New("实体不存在")
	ErrPropertyNotFound = errors.New("房源不存在")
	UnauthorizedError   = errors.New("权限不足")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:     BadRequest,
	ErrEntityKind:       BadRequest,
	ErrEntityNotFound:   NotFound,
	ErrPropertyNotFound: NotFound,
	UnauthorizedError:   Unauthorized,
	UnExpectedError:     InternalServerError,
}
