package repository

import (
	"Homeport/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type PropertyRepo interface {
	Create(ctx context.Context, property *model.Property) error
	GetByID(ctx context.Context, propertyID uint64) (*model.Property, error)
	ListVisible(ctx context.Context, viewerID uint64) ([]*model.Property, error)
	Update(ctx context.Context, property *model.Property) error
}

type propertyRepoImpl struct {
	db *gorm.DB
}

func NewPropertyRepo(db *gorm.DB) PropertyRepo {
	return &propertyRepoImpl{db: db}
}

// Create 创建物业
func (s *propertyRepoImpl) Create(ctx context.Context, property *model.Property) error {
	return s.db.WithContext(ctx).Create(property).Error
}

// GetByID 按 ID 获取物业，不存在返回 nil
func (s *propertyRepoImpl) GetByID(ctx context.Context, propertyID uint64) (*model.Property, error) {
	var property model.Property
	err := s.db.WithContext(ctx).First(&property, propertyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// ListVisible 查看者名下或托管的物业
func (s *propertyRepoImpl) ListVisible(ctx context.Context, viewerID uint64) ([]*model.Property, error) {
	var properties []*model.Property
	err := s.db.WithContext(ctx).
		Where("owner_id = ? OR manager_id = ?", viewerID, viewerID).
		Order("created_at DESC").
		Find(&properties).Error
	return properties, err
}

// Update 覆盖更新物业字段
func (s *propertyRepoImpl) Update(ctx context.Context, property *model.Property) error {
	property.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Save(property).Error
}
