package repository

import (
	"Homeport/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ProfileRepo interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, userID uint64) (*model.Profile, error)
	GetByIDs(ctx context.Context, userIDs []uint64) ([]*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	UpdateAvatar(ctx context.Context, userID uint64, objectKey string) error
}

type profileRepoImpl struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepo {
	return &profileRepoImpl{db: db}
}

// Create 创建用户档案
func (s *profileRepoImpl) Create(ctx context.Context, profile *model.Profile) error {
	return s.db.WithContext(ctx).Create(profile).Error
}

// GetByID 按 ID 获取档案，不存在返回 nil
func (s *profileRepoImpl) GetByID(ctx context.Context, userID uint64) (*model.Profile, error) {
	var profile model.Profile
	err := s.db.WithContext(ctx).First(&profile, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByIDs 批量获取档案，缺失的 ID 直接缺席结果集
func (s *profileRepoImpl) GetByIDs(ctx context.Context, userIDs []uint64) ([]*model.Profile, error) {
	if len(userIDs) == 0 {
		return []*model.Profile{}, nil
	}
	var profiles []*model.Profile
	err := s.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&profiles).Error
	return profiles, err
}

// GetByEmail 按邮箱获取档案，登录用，不存在返回 nil
func (s *profileRepoImpl) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateAvatar 更新头像对象键
func (s *profileRepoImpl) UpdateAvatar(ctx context.Context, userID uint64, objectKey string) error {
	return s.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", userID).
		Update("avatar_url", objectKey).Error
}
