package service

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	// ErrLastRoomUndeletable 表示策略拒绝：用户只剩一个房间时不能删除它。
	ErrLastRoomUndeletable = errors.New("you only have one room, you can't delete it")
	// ErrStore 表示底层持久化失败。所有仓库层的意外错误都包装成它向上传递，
	// 绝不静默吞掉 (调用方据此返回 5xx)。
	ErrStore = errors.New("persistent store failure")
)

// storeErr 把仓库层错误包装成可辨识的 ErrStore
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}

// ValidationReason 标识名称校验失败的具体原因，供调用方选择提示文案。
type ValidationReason string

const (
	ReasonMissingField  ValidationReason = "missing_field"
	ReasonTooShort      ValidationReason = "too_short"
	ReasonTooLong       ValidationReason = "too_long"
	ReasonDuplicateName ValidationReason = "duplicate_name"
)

// ValidationError 是名称校验失败的结构化结果：携带原因和用户提交的原始输入，
// 由调用方直接用于重新渲染表单。校验失败从不产生任何状态变更，
// 也不经过任何会话槽位中转 (每次变更操作显式返回它)。
type ValidationError struct {
	Reason ValidationReason `json:"reason"`
	Name   string           `json:"name"` // 提交的原始名称，回显用
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingField:
		return "Please fill out all required fields."
	case ReasonTooShort:
		return "The name of the room must contain at least 3 characters."
	case ReasonTooLong:
		return "The name of the room should be 15 characters maximum."
	case ReasonDuplicateName:
		return fmt.Sprintf("You already have a room %q. Please choose another name.", e.Name)
	default:
		return "invalid room name"
	}
}
