package setup

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/The-OnlyPlants/onlyplants/internal/domain"
)

// MigrateDB 执行数据库迁移。
// 模型里索引列都限定为 varchar(191)，避免 utf8mb4 下 MySQL 索引长度超限，
// 因此 AutoMigrate 即可，不需要手写建表 SQL。
// 连接表 user_rooms / room_invitees 由 GORM 根据 many2many 标签一并创建。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Room{},
		&domain.Plant{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}
	return nil
}
