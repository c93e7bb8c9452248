package domain

import "time"

// Room 表示一个植物房间：同一拥有者名下名称唯一 (区分大小写)，
// 可以把其他用户作为受邀者加入。
type Room struct {
	ID   uint   `gorm:"primaryKey" json:"id"`                                   // 房间唯一标识符 (主键)
	Name string `gorm:"type:varchar(191);not null;index:idx_name" json:"name"` // 房间名，3-15 字符，按拥有者唯一 (由验证层保证)
	// Slug 是由名称派生的 URL 安全形式。派生是有损的，两个不同名称可能
	// 得到相同 slug，因此 slug 不做唯一约束，仅用于展示/路径。
	Slug    string `gorm:"type:varchar(191);not null;index:idx_slug" json:"slug"`
	OwnerID uint   `gorm:"index;not null" json:"owner_id"` // 拥有者 (外键关联到 User.ID)，创建后不可变

	// Invitees 是受邀者集合 (room_invitees 连接表)：无重复，且永远不包含拥有者本人。
	Invitees []User `gorm:"many2many:room_invitees" json:"invitees,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"` // 房间创建时间 (GORM 自动填充)
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"` // 记录最后更新时间 (GORM 自动填充)
}
