package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
	"github.com/The-OnlyPlants/onlyplants/internal/repository"
)

// GormRoomRepository 是 RoomRepository 接口的 GORM 实现
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository 创建 GormRoomRepository 实例
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

// Create 实现插入新房间。受邀者集合初始为空，拥有者的房间列表由编排层维护。
func (r *GormRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	// 只插入 Room 行本身，不级联写入任何关联
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(room).Error
	if err != nil {
		return fmt.Errorf("gorm: create room '%s' for owner %d: %w", room.Name, room.OwnerID, err)
	}
	return nil
}

// FindByID 实现根据房间 ID 查找房间
func (r *GormRoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id %d: %w", id, err)
	}
	return &room, nil
}

// Rename 实现更新房间名称和 slug。OwnerID 不在更新列内，保持不可变。
func (r *GormRoomRepository) Rename(ctx context.Context, id uint, name, slug string) (*domain.Room, error) {
	room, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Model(room).
		Updates(map[string]interface{}{"name": name, "slug": slug}).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: rename room %d to '%s': %w", id, name, err)
	}
	return room, nil
}

// ReplaceInvitees 实现整体覆盖房间的受邀者集合。
// 空列表即清空 (编辑语义是"替换"而不是"合并")。
func (r *GormRoomRepository) ReplaceInvitees(ctx context.Context, id uint, inviteeIDs []uint) error {
	room, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	assoc := r.db.WithContext(ctx).Model(room).Association("Invitees")
	if len(inviteeIDs) == 0 {
		if err := assoc.Clear(); err != nil {
			return fmt.Errorf("gorm: clear invitees of room %d: %w", id, err)
		}
		return nil
	}
	invitees := make([]domain.User, 0, len(inviteeIDs))
	for _, uid := range inviteeIDs {
		invitees = append(invitees, domain.User{ID: uid})
	}
	if err := assoc.Replace(&invitees); err != nil {
		return fmt.Errorf("gorm: replace invitees of room %d: %w", id, err)
	}
	return nil
}

// InviteeIDs 实现读取房间当前的受邀者用户 ID 列表
func (r *GormRoomRepository) InviteeIDs(ctx context.Context, id uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("room_invitees").
		Where("room_id = ?", id).
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find invitee ids of room %d: %w", id, err)
	}
	return ids, nil
}

// Delete 实现删除房间并返回被删除的快照。
// Select(clause.Associations) 让 GORM 连同 room_invitees 连接行一起删除。
func (r *GormRoomRepository) Delete(ctx context.Context, id uint) (*domain.Room, error) {
	room, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Select(clause.Associations).Delete(room).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: delete room %d: %w", id, err)
	}
	return room, nil
}

// PruneInvitees 实现清理指向已删除用户的受邀者连接行
func (r *GormRoomRepository) PruneInvitees(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Exec("DELETE FROM room_invitees WHERE user_id NOT IN (SELECT id FROM users)")
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: prune stale invitee links: %w", result.Error)
	}
	return result.RowsAffected, nil
}
