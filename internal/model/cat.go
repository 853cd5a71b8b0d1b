package model

import "time"

const (
	CatNameMaxLength  = 16
	CatImageUploadDir = "cats/images"
)

// swagger:model Cat
type Cat struct {
	BaseModel
	Name         string        `gorm:"size:16;not null" json:"name"`
	Color        string        `gorm:"size:32;not null" json:"color"` // 以颜色名称存储，对外接收十六进制
	BirthYear    int           `gorm:"not null" json:"birthYear"`
	Image        *string       `gorm:"size:255" json:"image"` // 存储中的对象 key，nil 表示没有图片
	OwnerID      uint          `gorm:"index;not null" json:"ownerId"`
	Owner        User          `gorm:"foreignKey:OwnerID" json:"-"`
	Achievements []Achievement `gorm:"many2many:achievement_cats;" json:"achievements"`
}

func (Cat) TableName() string {
	return "cats"
}

// Age 按自然年计算，不落库
func (c *Cat) Age(now time.Time) int {
	return now.Year() - c.BirthYear
}

func (c *Cat) HasImage() bool {
	return c.Image != nil && *c.Image != ""
}
