package service

import (
	"context"
	"errors"
	"fmt"
	"kittygram_backend/internal/model"
	"kittygram_backend/internal/repository"
	"kittygram_backend/internal/util"
	"kittygram_backend/pkg/logger"
	"kittygram_backend/pkg/monitoring"
	"kittygram_backend/pkg/tracing"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CatService struct {
	CatRepo         *repository.CatRepository
	AchievementRepo *repository.AchievementRepository
	Storage         *StorageService
	Cache           repository.CatCache
}

func NewCatService(
	catRepo *repository.CatRepository,
	achievementRepo *repository.AchievementRepository,
	storage *StorageService,
	cache repository.CatCache,
) *CatService {
	return &CatService{
		CatRepo:         catRepo,
		AchievementRepo: achievementRepo,
		Storage:         storage,
		Cache:           cache,
	}
}

// resolveAchievements 按名称逐个 get-or-create，返回成就 ID
func resolveAchievements(ctx context.Context, repo *repository.AchievementRepository, names []string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		achievement, created, err := repo.GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		monitoring.AchievementsResolved.WithLabelValues(strconv.FormatBool(created)).Inc()
		ids = append(ids, achievement.ID)
	}
	return ids, nil
}

// storeImage 事务外先写入存储，事务失败时由调用方回滚删除
func (s *CatService) storeImage(ctx context.Context, in *CatInput) (*string, error) {
	if in.Image == nil {
		return nil, nil
	}
	key, err := s.Storage.SaveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (s *CatService) Create(ctx context.Context, ownerID uint, in *CatInput) (*model.Cat, error) {
	ctx, span := tracing.Tracer.Start(ctx, "CatService.Create")
	defer span.End()

	imageKey, err := s.storeImage(ctx, in)
	if err != nil {
		return nil, err
	}

	cat := &model.Cat{
		OwnerID: ownerID,
		Image:   imageKey,
	}
	if in.Name != nil {
		cat.Name = *in.Name
	}
	if in.Color != nil {
		cat.Color = *in.Color
	}
	if in.BirthYear != nil {
		cat.BirthYear = *in.BirthYear
	}

	err = s.CatRepo.DB.Transaction(func(tx *gorm.DB) error {
		catRepo := s.CatRepo.WithTx(tx)
		if err := catRepo.Create(ctx, cat); err != nil {
			return fmt.Errorf("create cat: %w", err)
		}

		if !in.HasAchievements {
			return nil
		}
		ids, err := resolveAchievements(ctx, s.AchievementRepo.WithTx(tx), in.AchievementNames)
		if err != nil {
			return err
		}
		return catRepo.AddAchievements(ctx, cat.ID, ids)
	})
	if err != nil {
		if imageKey != nil {
			s.Storage.DeleteQuietly(ctx, *imageKey)
		}
		return nil, err
	}

	monitoring.CatsWritten.WithLabelValues("create").Inc()
	span.SetAttributes(attribute.Int("cat.id", int(cat.ID)))
	logger.Log.Info("cat created",
		zap.Uint("cat_id", cat.ID),
		zap.Uint("owner_id", ownerID),
		zap.Int("achievements", len(in.AchievementNames)),
	)

	return s.CatRepo.FindByID(ctx, cat.ID)
}

func (s *CatService) findCat(ctx context.Context, id uint) (*model.Cat, error) {
	cat, err := s.CatRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCatNotFound
		}
		return nil, err
	}
	return cat, nil
}

func (s *CatService) invalidate(ctx context.Context, id uint) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, id)
	}
}

func (s *CatService) Get(ctx context.Context, id uint) (*model.Cat, error) {
	if s.Cache != nil {
		if cat, ok := s.Cache.Get(ctx, id); ok {
			monitoring.CatCacheLookups.WithLabelValues("hit").Inc()
			return cat, nil
		}
		monitoring.CatCacheLookups.WithLabelValues("miss").Inc()
	}

	cat, err := s.findCat(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, cat)
	}
	return cat, nil
}

func (s *CatService) List(ctx context.Context, page, limit int) ([]model.Cat, int64, error) {
	return s.CatRepo.List(ctx, page, limit)
}

// Update 仅主人可修改。缺省字段保留原值；传入 achievements 时整体替换成就列表
func (s *CatService) Update(ctx context.Context, actorID, id uint, in *CatInput) (*model.Cat, error) {
	ctx, span := tracing.Tracer.Start(ctx, "CatService.Update")
	defer span.End()

	cat, err := s.findCat(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat.OwnerID != actorID {
		return nil, util.ErrNotCatOwner
	}

	imageKey, err := s.storeImage(ctx, in)
	if err != nil {
		return nil, err
	}

	// 事务前后各失效一次，事务期间并发 Get 回填的旧值在提交后被清掉
	s.invalidate(ctx, id)

	oldImage := cat.Image
	if in.Name != nil {
		cat.Name = *in.Name
	}
	if in.Color != nil {
		cat.Color = *in.Color
	}
	if in.BirthYear != nil {
		cat.BirthYear = *in.BirthYear
	}
	switch {
	case imageKey != nil:
		cat.Image = imageKey
	case in.ClearImage:
		cat.Image = nil
	}

	err = s.CatRepo.DB.Transaction(func(tx *gorm.DB) error {
		catRepo := s.CatRepo.WithTx(tx)
		if err := catRepo.Save(ctx, cat); err != nil {
			return fmt.Errorf("update cat: %w", err)
		}

		if !in.HasAchievements {
			return nil
		}
		ids, err := resolveAchievements(ctx, s.AchievementRepo.WithTx(tx), in.AchievementNames)
		if err != nil {
			return err
		}
		return catRepo.ReplaceAchievements(ctx, cat.ID, ids)
	})
	if err != nil {
		if imageKey != nil {
			s.Storage.DeleteQuietly(ctx, *imageKey)
		}
		return nil, err
	}

	if oldImage != nil && (imageKey != nil || in.ClearImage) {
		s.Storage.DeleteQuietly(ctx, *oldImage)
	}
	s.invalidate(ctx, id)

	monitoring.CatsWritten.WithLabelValues("update").Inc()
	logger.Log.Info("cat updated", zap.Uint("cat_id", id), zap.Bool("achievements_replaced", in.HasAchievements))

	return s.CatRepo.FindByID(ctx, id)
}

func (s *CatService) Delete(ctx context.Context, actorID, id uint) error {
	cat, err := s.findCat(ctx, id)
	if err != nil {
		return err
	}
	if cat.OwnerID != actorID {
		return util.ErrNotCatOwner
	}

	s.invalidate(ctx, id)
	err = s.CatRepo.DB.Transaction(func(tx *gorm.DB) error {
		return s.CatRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete cat: %w", err)
	}

	if cat.HasImage() {
		s.Storage.DeleteQuietly(ctx, *cat.Image)
	}
	s.invalidate(ctx, id)

	monitoring.CatsWritten.WithLabelValues("delete").Inc()
	logger.Log.Info("cat deleted", zap.Uint("cat_id", id))
	return nil
}
