// Package domain 定义了应用程序中使用的数据结构 (数据库模型)。
package domain

import "time"

// User 表示应用程序中的用户。
// 用户不拥有 Room 对象本身，只持有引用：Rooms 是其拥有房间的引用列表
// (user_rooms 连接表)，由编排层维护；Room.OwnerID 才是所有权字段。
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"` // 用户唯一标识符 (主键)
	Username  string `gorm:"type:varchar(191);uniqueIndex:idx_username;not null" json:"username"`
	Password  string `gorm:"type:text;not null" json:"-"` // 存储的是哈希后的密码，不能为空
	Email     string `gorm:"type:varchar(191);uniqueIndex:idx_email" json:"email,omitempty"`
	AvatarURL string `gorm:"type:text" json:"avatar_url,omitempty"` // 头像地址，邀请候选列表会展示

	// Rooms 是用户拥有房间的有序引用列表。创建房间后该列表始终 >= 1
	// (最后一个房间不可删除，由服务层策略保证)。
	Rooms []Room `gorm:"many2many:user_rooms" json:"rooms,omitempty"`
	// Plants 是用户拥有的植物。
	Plants []Plant `gorm:"foreignKey:OwnerID" json:"plants,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"` // 用户记录创建时间 (GORM 自动填充)
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"` // 用户记录最后更新时间 (GORM 自动填充)
}
