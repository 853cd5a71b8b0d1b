package service

import (
	"context"
	"errors"
	"kittygram_backend/internal/model"
	"kittygram_backend/internal/repository"
	"kittygram_backend/internal/util"
	"kittygram_backend/pkg/monitoring"
	"strconv"

	"gorm.io/gorm"
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
}

func NewAchievementService(achievementRepo *repository.AchievementRepository) *AchievementService {
	return &AchievementService{AchievementRepo: achievementRepo}
}

type AchievementRequest struct {
	AchievementName *string `json:"achievement_name"`
}

func (s *AchievementService) List(ctx context.Context) ([]model.Achievement, error) {
	return s.AchievementRepo.List(ctx)
}

func (s *AchievementService) Get(ctx context.Context, id uint) (*model.Achievement, error) {
	achievement, err := s.AchievementRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAchievementNotFound
		}
		return nil, err
	}
	return achievement, nil
}

// Create 按名称 get-or-create，created 表示是否新建
func (s *AchievementService) Create(ctx context.Context, req AchievementRequest) (*model.Achievement, bool, error) {
	errs := util.FieldErrors{}
	name := validateCharField(errs, "achievement_name", req.AchievementName, true, model.AchievementNameMaxLength)
	if !errs.Empty() {
		return nil, false, errs
	}

	achievement, created, err := s.AchievementRepo.GetOrCreate(ctx, *name)
	if err != nil {
		return nil, false, err
	}
	monitoring.AchievementsResolved.WithLabelValues(strconv.FormatBool(created)).Inc()
	return achievement, created, nil
}
