package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
)

// GormPlantRepository 是 PlantRepository 接口的 GORM 实现
type GormPlantRepository struct {
	db *gorm.DB
}

// NewGormPlantRepository 创建 GormPlantRepository 实例
func NewGormPlantRepository(db *gorm.DB) *GormPlantRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPlantRepository")
	}
	return &GormPlantRepository{db: db}
}

// Save 实现保存植物信息（创建或更新）
func (r *GormPlantRepository) Save(ctx context.Context, plant *domain.Plant) error {
	if err := r.db.WithContext(ctx).Save(plant).Error; err != nil {
		return fmt.Errorf("gorm: save plant (id: %d): %w", plant.ID, err)
	}
	return nil
}

// FindByOwner 实现查询用户拥有的全部植物
func (r *GormPlantRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Plant, error) {
	var plants []domain.Plant
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&plants).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find plants of owner %d: %w", ownerID, err)
	}
	return plants, nil
}

// DeleteByRoom 实现删除房间内的所有植物。
// 批量删除没有 ErrRecordNotFound：房间里没有植物时删除 0 行，不算错误。
func (r *GormPlantRepository) DeleteByRoom(ctx context.Context, roomID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&domain.Plant{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete plants of room %d: %w", roomID, result.Error)
	}
	return result.RowsAffected, nil
}
