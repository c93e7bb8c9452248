package domain

import "time"

// Plant 表示一株植物。每株植物属于一个用户并放在一个房间里；
// 房间被删除时其中的植物一并删除 (级联由服务层执行)。
// 描述性字段 (CommonName 及以下) 来自外部植物 API，本核心不解释它们。
type Plant struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Nickname string `gorm:"type:varchar(191)" json:"nickname,omitempty"` // 可选昵称
	OwnerID  uint   `gorm:"index;not null" json:"owner_id"`              // 拥有者 (外键关联到 User.ID)
	RoomID   uint   `gorm:"index;not null" json:"room_id"`               // 当前所在房间 (外键关联到 Room.ID)

	CommonName     string `gorm:"type:varchar(191)" json:"common_name,omitempty"`
	ImageURL       string `gorm:"type:text" json:"image_url,omitempty"`
	Light          string `gorm:"type:varchar(191)" json:"light,omitempty"`
	ToleratedLight string `gorm:"type:varchar(191)" json:"tolerated_light,omitempty"`
	WaterSchedule  string `gorm:"type:varchar(191)" json:"water_schedule,omitempty"`
	MinTemp        string `gorm:"type:varchar(64)" json:"min_temp,omitempty"`
	MaxTemp        string `gorm:"type:varchar(64)" json:"max_temp,omitempty"`
	LatinName      string `gorm:"type:varchar(191)" json:"latin_name,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
