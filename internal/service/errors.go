package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserEmailExist     = errors.New("邮箱已注册")
	ErrPasswordIncorrect  = errors.New("密码错误")
	ErrSubmissionNotFound = errors.New("投递不存在")
	ErrSubmissionLimit    = errors.New("投递数量已达上限")
	ErrFileNotSupported   = errors.New("不支持的文件类型")
	ErrFileMissing        = errors.New("缺少上传文件")
	ErrSessionNotFound    = errors.New("会话不存在")
	UnauthorizedError     = errors.New("权限不足")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrUserNotFound:       NotFound,
	ErrUserEmailExist:     BadRequest,
	ErrPasswordIncorrect:  Unauthorized,
	ErrSubmissionNotFound: NotFound,
	ErrSubmissionLimit:    BadRequest,
	ErrFileNotSupported:   BadRequest,
	ErrFileMissing:        BadRequest,
	ErrSessionNotFound:    NotFound,
	UnauthorizedError:     Forbidden,
	UnExpectedError:       InternalServerError,
}
