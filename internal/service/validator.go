package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/The-OnlyPlants/onlyplants/internal/repository"
)

// 房间名长度限制 (按去除首尾空白后的字符数计)
const (
	MinRoomNameLen = 3
	MaxRoomNameLen = 15
)

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// RoomValidator 负责房间名称约束和按拥有者的唯一性检查。
type RoomValidator struct {
	userRepo repository.UserRepository
}

// NewRoomValidator 创建 RoomValidator 实例。
func NewRoomValidator(userRepo repository.UserRepository) *RoomValidator {
	if userRepo == nil {
		panic("UserRepository cannot be nil for RoomValidator")
	}
	return &RoomValidator{userRepo: userRepo}
}

// ValidateName 校验房间名。name 应当已去除首尾空白。
// 返回 nil 表示通过；否则返回携带具体原因的 *ValidationError。
func (v *RoomValidator) ValidateName(name string) *ValidationError {
	if name == "" {
		return &ValidationError{Reason: ReasonMissingField, Name: name}
	}
	if len([]rune(name)) < MinRoomNameLen {
		return &ValidationError{Reason: ReasonTooShort, Name: name}
	}
	if len([]rune(name)) > MaxRoomNameLen {
		return &ValidationError{Reason: ReasonTooLong, Name: name}
	}
	return nil
}

// DeriveSlug 从名称确定性地派生 URL 安全的 slug：
// 去掉既非单词字符也非空白的字符，把连续空白替换成 "-"，再转小写。
// 派生是有损的 ("My Room!" 和 "My Room?" 都得到 "my-room")，
// slug 不参与唯一性约束。
func (v *RoomValidator) DeriveSlug(name string) string {
	s := nonWordRe.ReplaceAllString(name, "")
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "-")
	return strings.ToLower(s)
}

// IsNameAvailable 检查名称在拥有者的房间集合内是否可用 (区分大小写的精确比较)。
// excludeRoomID 非 0 时跳过该房间，这样把房间改回它现在的名字是允许的。
// 注意：检查和后续写入之间存在竞态窗口，并发创建同名房间可能都成功，
// 这是本核心接受的限制 (存储层没有 (owner, name) 唯一索引)。
func (v *RoomValidator) IsNameAvailable(ctx context.Context, ownerID uint, name string, excludeRoomID uint) (bool, error) {
	rooms, err := v.userRepo.RoomsOf(ctx, ownerID)
	if err != nil {
		return false, storeErr(err)
	}
	for _, room := range rooms {
		if room.ID == excludeRoomID {
			continue
		}
		if room.Name == name {
			return false, nil
		}
	}
	return true, nil
}
