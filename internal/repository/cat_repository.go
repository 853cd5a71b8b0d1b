package repository

import (
	"context"
	"fmt"
	"kittygram_backend/internal/model"

	"gorm.io/gorm"
)

type CatRepository struct {
	DB *gorm.DB
}

func NewCatRepository(db *gorm.DB) *CatRepository {
	return &CatRepository{DB: db}
}

func (r *CatRepository) WithTx(tx *gorm.DB) *CatRepository {
	return &CatRepository{DB: tx}
}

func (r *CatRepository) withAchievements(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("Achievements", func(db *gorm.DB) *gorm.DB {
		return db.Order("achievements.id ASC")
	})
}

func (r *CatRepository) Create(ctx context.Context, cat *model.Cat) error {
	return r.DB.WithContext(ctx).Omit("Achievements", "Owner").Create(cat).Error
}

// Save 只更新猫本身的字段，关联由 ReplaceAchievements 维护
func (r *CatRepository) Save(ctx context.Context, cat *model.Cat) error {
	return r.DB.WithContext(ctx).Omit("Achievements", "Owner").Save(cat).Error
}

func (r *CatRepository) FindByID(ctx context.Context, id uint) (*model.Cat, error) {
	var cat model.Cat
	if err := r.withAchievements(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *CatRepository) List(ctx context.Context, page, limit int) ([]model.Cat, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&model.Cat{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cats []model.Cat
	err := r.withAchievements(ctx).
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&cats).Error
	if err != nil {
		return nil, 0, err
	}
	return cats, total, nil
}

// AddAchievements 为猫追加成就关联，已存在的关联忽略
func (r *CatRepository) AddAchievements(ctx context.Context, catID uint, achievementIDs []uint) error {
	if len(achievementIDs) == 0 {
		return nil
	}
	links := make([]model.AchievementCat, 0, len(achievementIDs))
	seen := make(map[uint]bool, len(achievementIDs))
	for _, id := range achievementIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, model.AchievementCat{CatID: catID, AchievementID: id})
	}
	if err := r.DB.WithContext(ctx).Create(&links).Error; err != nil {
		return fmt.Errorf("link achievements: %w", err)
	}
	return nil
}

// ReplaceAchievements 用给定列表整体替换猫的成就关联
func (r *CatRepository) ReplaceAchievements(ctx context.Context, catID uint, achievementIDs []uint) error {
	if err := r.DB.WithContext(ctx).Where("cat_id = ?", catID).Delete(&model.AchievementCat{}).Error; err != nil {
		return fmt.Errorf("unlink achievements: %w", err)
	}
	return r.AddAchievements(ctx, catID, achievementIDs)
}

func (r *CatRepository) Delete(ctx context.Context, id uint) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("cat_id = ?", id).Delete(&model.AchievementCat{}).Error; err != nil {
		return fmt.Errorf("unlink achievements: %w", err)
	}
	return db.Delete(&model.Cat{}, id).Error
}
