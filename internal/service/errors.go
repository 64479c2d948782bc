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
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserExist               = errors.New("用户已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrConversationNotFound    = errors.New("会话不存在")
	ErrNotParticipant          = errors.New("不是会话参与者")
	ErrMessageNotFound         = errors.New("消息不存在")
	ErrMessageNotOwn           = errors.New("只能操作自己的消息")
	ErrDraftNotFound           = errors.New("草稿不存在")
	ErrEmptyContent            = errors.New("消息内容不能为空")
	ErrNoParticipants          = errors.New("会话至少需要一个对方参与者")
	ErrPropertyNotFound        = errors.New("物业不存在")
	ErrMaintenanceNotFound     = errors.New("工单不存在")
	ErrStatusInvalid           = errors.New("状态无效")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrNoticeNotFound          = errors.New("通知不存在")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserExist:               BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrConversationNotFound:    NotFound,
	ErrNotParticipant:          Forbidden,
	ErrMessageNotFound:         NotFound,
	ErrMessageNotOwn:           Forbidden,
	ErrDraftNotFound:           NotFound,
	ErrEmptyContent:            BadRequest,
	ErrNoParticipants:          BadRequest,
	ErrPropertyNotFound:        NotFound,
	ErrMaintenanceNotFound:     NotFound,
	ErrStatusInvalid:           BadRequest,
	ErrFileNotSupported:        BadRequest,
	ErrNoticeNotFound:          NotFound,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
