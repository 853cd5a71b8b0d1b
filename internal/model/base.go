package model

import (
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 软删除的公共字段
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewCatImageKey 生成图片在存储中的对象 key：cats/images/<uuid>.<ext>
func NewCatImageKey(ext string) string {
	return path.Join(CatImageUploadDir, uuid.NewString()+"."+ext)
}
