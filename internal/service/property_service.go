package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/model"
	"Homeport/internal/repository"
	"context"

	"github.com/jinzhu/copier"
)

type PropertyService interface {
	CreateProperty(ctx context.Context, viewerID uint64, req *dto.CreatePropertyReq) (*dto.PropertyDTO, error)
	GetProperty(ctx context.Context, viewerID uint64, propertyID uint64) (*dto.PropertyDTO, error)
	ListProperties(ctx context.Context, viewerID uint64) ([]*dto.PropertyDTO, error)
}

type propertyServiceImpl struct {
	propertyRepo repository.PropertyRepo
}

func NewPropertyService(propertyRepo repository.PropertyRepo) PropertyService {
	return &propertyServiceImpl{propertyRepo: propertyRepo}
}

func (s *propertyServiceImpl) CreateProperty(ctx context.Context, viewerID uint64, req *dto.CreatePropertyReq) (*dto.PropertyDTO, error) {
	property := &model.Property{
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		OwnerID:   viewerID,
		ManagerID: req.ManagerID,
		Status:    "active",
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}
	return toPropertyDTO(property)
}

func (s *propertyServiceImpl) GetProperty(ctx context.Context, viewerID uint64, propertyID uint64) (*dto.PropertyDTO, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	return toPropertyDTO(property)
}

func (s *propertyServiceImpl) ListProperties(ctx context.Context, viewerID uint64) ([]*dto.PropertyDTO, error) {
	properties, err := s.propertyRepo.ListVisible(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*dto.PropertyDTO, 0, len(properties))
	for _, p := range properties {
		d, err := toPropertyDTO(p)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, d)
	}
	return dtos, nil
}

func toPropertyDTO(property *model.Property) (*dto.PropertyDTO, error) {
	propertyDTO := &dto.PropertyDTO{}
	if err := copier.Copy(propertyDTO, property); err != nil {
		return nil, err
	}
	return propertyDTO, nil
}
