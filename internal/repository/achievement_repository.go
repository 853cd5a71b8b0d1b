package repository

import (
	"context"
	"fmt"
	"kittygram_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) WithTx(tx *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: tx}
}

// findByName 未命中时返回 nil, nil
func (r *AchievementRepository) findByName(db *gorm.DB, name string) (*model.Achievement, error) {
	var achievement model.Achievement
	result := db.Where("name = ?", name).Limit(1).Find(&achievement)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &achievement, nil
}

// GetOrCreate 按名称查找成就，不存在则创建。并发插入同名记录时依赖唯一索引回退为查询
func (r *AchievementRepository) GetOrCreate(ctx context.Context, name string) (*model.Achievement, bool, error) {
	db := r.DB.WithContext(ctx)

	existing, err := r.findByName(db, name)
	if err != nil {
		return nil, false, fmt.Errorf("find achievement: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	achievement := model.Achievement{Name: name}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&achievement)
	if result.Error != nil {
		return nil, false, fmt.Errorf("create achievement: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return &achievement, true, nil
	}

	existing, err = r.findByName(db, name)
	if err != nil {
		return nil, false, fmt.Errorf("find achievement after conflict: %w", err)
	}
	if existing == nil {
		return nil, false, fmt.Errorf("achievement %q vanished after conflict", name)
	}
	return existing, false, nil
}

func (r *AchievementRepository) FindByID(ctx context.Context, id uint) (*model.Achievement, error) {
	var achievement model.Achievement
	if err := r.DB.WithContext(ctx).First(&achievement, id).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementRepository) List(ctx context.Context) ([]model.Achievement, error) {
	var achievements []model.Achievement
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *AchievementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Achievement{}).Count(&count).Error
	return count, err
}
