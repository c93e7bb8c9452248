package repository

import (
	"context"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// FindByUsername 根据用户名查找用户。
	// 如果用户不存在，应返回 ErrUserNotFound。
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。
	// 如果用户不存在，应返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindAllExcept 返回除 excludeID 以外的所有用户 (只含 id/username/avatar_url)，
	// 用于填充邀请候选列表。excludeID 为 0 时返回全部用户。
	FindAllExcept(ctx context.Context, excludeID uint) ([]domain.User, error)

	// Save 保存用户信息。
	// 如果用户已存在 (基于 ID)，则更新；否则创建新用户。
	// 违反用户名/邮箱唯一约束时返回 ErrDuplicateEntry。
	Save(ctx context.Context, user *domain.User) error

	// RoomsOf 返回用户拥有房间的引用列表 (user_rooms 连接表)，按加入顺序。
	RoomsOf(ctx context.Context, userID uint) ([]domain.Room, error)

	// AppendRoom 把房间追加到用户的房间列表。房间记录本身由 RoomRepository 创建，
	// 这里只维护引用 (编排层负责先创建再追加)。
	AppendRoom(ctx context.Context, userID uint, room *domain.Room) error

	// RemoveRoom 从用户的房间列表中移除指定房间的引用。
	RemoveRoom(ctx context.Context, userID uint, roomID uint) error
}
