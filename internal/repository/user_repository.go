package repository

import (
	"context"
	"errors"
	"fmt"
	"kittygram_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ErrUserConflict token 中的用户名已被另一个 id 占用
var ErrUserConflict = errors.New("username is registered with a different id")

// Ensure 按 token 中的 id/用户名建档，已存在则不修改。用户名被其他 id 占用时返回 ErrUserConflict
func (r *UserRepository) Ensure(ctx context.Context, id uint, username string) error {
	db := r.DB.WithContext(ctx)
	user := model.User{Username: username}
	user.ID = id
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ErrUserConflict, username)
	}
	return nil
}

// GetOrCreateByUsername 用于签发开发 token
func (r *UserRepository) GetOrCreateByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where(model.User{Username: username}).FirstOrCreate(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
