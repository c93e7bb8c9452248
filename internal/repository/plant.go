package repository

import (
	"context"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
)

// PlantRepository 定义了植物数据的存储和检索操作。
// 植物的增删改查界面不属于本核心，这里只保留房间生命周期需要的操作。
type PlantRepository interface {
	// Save 保存植物信息 (已存在则更新)。
	Save(ctx context.Context, plant *domain.Plant) error

	// FindByOwner 返回用户拥有的全部植物。
	FindByOwner(ctx context.Context, ownerID uint) ([]domain.Plant, error)

	// DeleteByRoom 删除房间引用指向 roomID 的所有植物，返回删除数量。
	// 房间删除级联的一部分。
	DeleteByRoom(ctx context.Context, roomID uint) (int64, error)
}
