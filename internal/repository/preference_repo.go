package repository

import (
	"Homeport/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepo interface {
	Get(ctx context.Context, userID uint64) (*model.NotificationPreference, error)
	GetByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*model.NotificationPreference, error)
	Upsert(ctx context.Context, pref *model.NotificationPreference) error
}

type preferenceRepoImpl struct {
	db *gorm.DB
}

func NewPreferenceRepo(db *gorm.DB) PreferenceRepo {
	return &preferenceRepoImpl{db: db}
}

// Get 获取用户通知偏好，未设置过返回 nil，由调用方决定默认值
func (s *preferenceRepoImpl) Get(ctx context.Context, userID uint64) (*model.NotificationPreference, error) {
	var pref model.NotificationPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// GetByIDs 批量取偏好，缺失的用户由调用方补默认值
func (s *preferenceRepoImpl) GetByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*model.NotificationPreference, error) {
	result := make(map[uint64]*model.NotificationPreference)
	if len(userIDs) == 0 {
		return result, nil
	}
	var prefs []*model.NotificationPreference
	err := s.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	for _, p := range prefs {
		result[p.UserID] = p
	}
	return result, nil
}

// Upsert 写入或覆盖用户偏好
func (s *preferenceRepoImpl) Upsert(ctx context.Context, pref *model.NotificationPreference) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(pref).Error
}
