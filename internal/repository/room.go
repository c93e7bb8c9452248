package repository

import (
	"context"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
)

// RoomRepository 定义了房间数据的存储和检索操作 (Room Store)。
// 注意：这里的操作只负责 Room 记录和它的受邀者集合；
// 拥有者房间列表、植物级联等多实体一致性由服务层编排。
type RoomRepository interface {
	// Create 插入一个新房间 (受邀者集合为空)。不触碰拥有者的房间列表。
	Create(ctx context.Context, room *domain.Room) error

	// FindByID 根据房间 ID 查找房间。
	// 如果房间不存在，应返回 ErrRoomNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// Rename 更新房间的名称和 slug，返回更新后的房间。
	// OwnerID 创建后不可变，这里不会改动它。
	Rename(ctx context.Context, id uint, name, slug string) (*domain.Room, error)

	// ReplaceInvitees 整体覆盖房间的受邀者集合 ("替换"而非"合并")：
	// 传入空列表即清空所有受邀者。
	ReplaceInvitees(ctx context.Context, id uint, inviteeIDs []uint) error

	// InviteeIDs 返回房间当前的受邀者用户 ID 列表。
	InviteeIDs(ctx context.Context, id uint) ([]uint, error)

	// Delete 删除房间记录 (连同受邀者连接行) 并返回被删除的快照，
	// 供编排层决定清理哪些植物。
	Delete(ctx context.Context, id uint) (*domain.Room, error)

	// PruneInvitees 删除指向已不存在用户的受邀者连接行，
	// 返回清理掉的行数。由后台周期任务调用。
	PruneInvitees(ctx context.Context) (int64, error)
}
