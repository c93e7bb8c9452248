// Package tasks 定义后台任务类型和载荷。
package tasks

import "encoding/json"

// 定义任务类型常量
const (
	// TypeInviteePrune 周期性清理受邀者悬挂引用：
	// 用户被删除后，指向它的 room_invitees 连接行不应累积。
	TypeInviteePrune = "invitee:prune"
)

// InviteePrunePayload 定义受邀者清理任务的数据结构。
// 清理是全量扫描，目前不需要参数；保留结构体便于将来加范围限定。
type InviteePrunePayload struct{}

// NewInviteePruneTask 创建受邀者清理任务的载荷
func NewInviteePruneTask() ([]byte, error) {
	return json.Marshal(InviteePrunePayload{})
}
