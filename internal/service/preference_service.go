package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/model"
	"Homeport/internal/repository"
	"context"
	"time"
)

type PreferenceService interface {
	GetPreference(ctx context.Context, viewerID uint64) (*model.NotificationPreference, error)
	UpdatePreference(ctx context.Context, viewerID uint64, req *dto.PreferenceReq) (*model.NotificationPreference, error)
}

type preferenceServiceImpl struct {
	preferenceRepo repository.PreferenceRepo
}

func NewPreferenceService(preferenceRepo repository.PreferenceRepo) PreferenceService {
	return &preferenceServiceImpl{preferenceRepo: preferenceRepo}
}

// GetPreference 未设置过的用户返回默认偏好而不是空
func (s *preferenceServiceImpl) GetPreference(ctx context.Context, viewerID uint64) (*model.NotificationPreference, error) {
	pref, err := s.preferenceRepo.Get(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return model.DefaultPreference(viewerID), nil
	}
	return pref, nil
}

func (s *preferenceServiceImpl) UpdatePreference(ctx context.Context, viewerID uint64, req *dto.PreferenceReq) (*model.NotificationPreference, error) {
	pref := &model.NotificationPreference{
		UserID:       viewerID,
		EmailEnabled: *req.EmailEnabled,
		SMSEnabled:   *req.SMSEnabled,
		PushEnabled:  *req.PushEnabled,
		MutedUntil:   req.MutedUntil,
		UpdatedAt:    time.Now(),
	}
	if err := s.preferenceRepo.Upsert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}
