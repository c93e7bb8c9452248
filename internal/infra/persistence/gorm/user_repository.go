// Package gormpersistence 提供 repository 接口的 GORM/MySQL 实现。
package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
	"github.com/The-OnlyPlants/onlyplants/internal/repository"
)

// GormUserRepository 是 UserRepository 接口的 GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository 创建 GormUserRepository 实例
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	if db == nil {
		panic("database connection cannot be nil for GormUserRepository")
	}
	return &GormUserRepository{db: db}
}

// FindByUsername 实现根据用户名查找用户
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("gorm: find user by username '%s': %w", username, err)
	}
	return &user, nil
}

// FindByID 实现根据用户 ID 查找用户
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("gorm: find user by id %d: %w", id, err)
	}
	return &user, nil
}

// FindAllExcept 实现查询邀请候选用户列表。
// 只选取展示需要的列，避免把密码哈希带出仓库层。
func (r *GormUserRepository) FindAllExcept(ctx context.Context, excludeID uint) ([]domain.User, error) {
	var users []domain.User
	q := r.db.WithContext(ctx).Model(&domain.User{}).Select("id", "username", "avatar_url")
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("gorm: find invitee candidates (excluding %d): %w", excludeID, err)
	}
	return users, nil
}

// Save 实现保存用户信息（创建或更新）
// GORM 的 Save 方法会根据主键是否为零值决定是 INSERT 还是 UPDATE。
func (r *GormUserRepository) Save(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save user (id: %d, username: %s): %w", user.ID, user.Username, err)
	}
	return nil
}

// RoomsOf 实现读取用户的房间引用列表。
// 按连接表主键顺序返回，即加入列表的顺序。
func (r *GormUserRepository) RoomsOf(ctx context.Context, userID uint) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Joins("JOIN user_rooms ON user_rooms.room_id = rooms.id").
		Where("user_rooms.user_id = ?", userID).
		Order("rooms.id").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find rooms of user %d: %w", userID, err)
	}
	return rooms, nil
}

// AppendRoom 实现把房间引用追加到用户的房间列表 (user_rooms 连接表)
func (r *GormUserRepository) AppendRoom(ctx context.Context, userID uint, room *domain.Room) error {
	user := domain.User{ID: userID}
	err := r.db.WithContext(ctx).Model(&user).Association("Rooms").Append(room)
	if err != nil {
		return fmt.Errorf("gorm: append room %d to user %d: %w", room.ID, userID, err)
	}
	return nil
}

// RemoveRoom 实现从用户的房间列表中移除房间引用
func (r *GormUserRepository) RemoveRoom(ctx context.Context, userID uint, roomID uint) error {
	user := domain.User{ID: userID}
	err := r.db.WithContext(ctx).Model(&user).Association("Rooms").Delete(&domain.Room{ID: roomID})
	if err != nil {
		return fmt.Errorf("gorm: remove room %d from user %d: %w", roomID, userID, err)
	}
	return nil
}
