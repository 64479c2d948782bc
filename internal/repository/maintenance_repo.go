package repository

import (
	"Homeport/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type MaintenanceRepo interface {
	Create(ctx context.Context, request *model.MaintenanceRequest) error
	GetByID(ctx context.Context, requestID uint64) (*model.MaintenanceRequest, error)
	ListByProperty(ctx context.Context, propertyID uint64) ([]*model.MaintenanceRequest, error)
	ListByTenant(ctx context.Context, tenantID uint64) ([]*model.MaintenanceRequest, error)
	UpdateStatus(ctx context.Context, requestID uint64, status string) error
}

type maintenanceRepoImpl struct {
	db *gorm.DB
}

func NewMaintenanceRepo(db *gorm.DB) MaintenanceRepo {
	return &maintenanceRepoImpl{db: db}
}

// Create 创建维修工单
func (s *maintenanceRepoImpl) Create(ctx context.Context, request *model.MaintenanceRequest) error {
	return s.db.WithContext(ctx).Create(request).Error
}

// GetByID 按 ID 获取工单，不存在返回 nil
func (s *maintenanceRepoImpl) GetByID(ctx context.Context, requestID uint64) (*model.MaintenanceRequest, error) {
	var request model.MaintenanceRequest
	err := s.db.WithContext(ctx).First(&request, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByProperty 物业下的全部工单
func (s *maintenanceRepoImpl) ListByProperty(ctx context.Context, propertyID uint64) ([]*model.MaintenanceRequest, error) {
	var requests []*model.MaintenanceRequest
	err := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// ListByTenant 租户提交的全部工单
func (s *maintenanceRepoImpl) ListByTenant(ctx context.Context, tenantID uint64) ([]*model.MaintenanceRequest, error) {
	var requests []*model.MaintenanceRequest
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// UpdateStatus 更新工单状态
func (s *maintenanceRepoImpl) UpdateStatus(ctx context.Context, requestID uint64, status string) error {
	return s.db.WithContext(ctx).Model(&model.MaintenanceRequest{}).
		Where("id = ?", requestID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
