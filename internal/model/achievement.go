package model

import "time"

const AchievementNameMaxLength = 64

// Achievement 成就，按名称唯一
type Achievement struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:64;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// AchievementCat 猫与成就的关联表，(cat_id, achievement_id) 联合主键
type AchievementCat struct {
	CatID         uint `gorm:"primaryKey;autoIncrement:false"`
	AchievementID uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt     time.Time
}

func (AchievementCat) TableName() string {
	return "achievement_cats"
}
