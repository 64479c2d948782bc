package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/model"
	"Homeport/internal/pkg/consts"
	"Homeport/internal/repository"
	"context"
	log "log/slog"

	"github.com/jinzhu/copier"
)

type MaintenanceService interface {
	CreateRequest(ctx context.Context, viewerID uint64, req *dto.CreateMaintenanceReq) (*dto.MaintenanceDTO, error)
	GetRequest(ctx context.Context, viewerID uint64, requestID uint64) (*dto.MaintenanceDTO, error)
	ListByProperty(ctx context.Context, viewerID uint64, propertyID uint64) ([]*dto.MaintenanceDTO, error)
	ListMine(ctx context.Context, viewerID uint64) ([]*dto.MaintenanceDTO, error)
	UpdateStatus(ctx context.Context, viewerID uint64, requestID uint64, status string) error
}

type maintenanceServiceImpl struct {
	maintenanceRepo repository.MaintenanceRepo
	propertyRepo    repository.PropertyRepo
	convService     ConversationService
}

func NewMaintenanceService(
	maintenanceRepo repository.MaintenanceRepo,
	propertyRepo repository.PropertyRepo,
	convService ConversationService,
) MaintenanceService {
	return &maintenanceServiceImpl{
		maintenanceRepo: maintenanceRepo,
		propertyRepo:    propertyRepo,
		convService:     convService,
	}
}

// CreateRequest 建工单并顺手开一条 maintenance 会话，
// 业主与物管自动入会，后续沟通都走这条线程
func (s *maintenanceServiceImpl) CreateRequest(ctx context.Context, viewerID uint64, req *dto.CreateMaintenanceReq) (*dto.MaintenanceDTO, error) {
	property, err := s.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	priority := req.Priority
	if priority == "" {
		priority = consts.ImportanceNormal
	}
	request := &model.MaintenanceRequest{
		PropertyID:  req.PropertyID,
		TenantID:    viewerID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      model.MaintenanceOpen,
	}
	if err := s.maintenanceRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	result, err := toMaintenanceDTO(request)
	if err != nil {
		return nil, err
	}

	participantIDs := []uint64{property.OwnerID}
	if property.ManagerID != nil {
		participantIDs = append(participantIDs, *property.ManagerID)
	}
	content := req.Description
	if content == "" {
		content = req.Title
	}
	summary, err := s.convService.CreateConversation(ctx, viewerID, &dto.CreateConversationReq{
		Title:                req.Title,
		Type:                 consts.ConversationMaintenance,
		Importance:           priority,
		ParticipantIDs:       participantIDs,
		PropertyID:           &request.PropertyID,
		MaintenanceRequestID: &request.ID,
		Content:              content,
	})
	if err != nil {
		// 工单已立，会话开失败不回滚，沟通线程可以后续手动补
		log.Error("open maintenance conversation error", "request_id", request.ID, "err", err)
		return result, nil
	}
	result.ConversationID = summary.ID
	return result, nil
}

func (s *maintenanceServiceImpl) GetRequest(ctx context.Context, viewerID uint64, requestID uint64) (*dto.MaintenanceDTO, error) {
	request, err := s.maintenanceRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrMaintenanceNotFound
	}
	return toMaintenanceDTO(request)
}

func (s *maintenanceServiceImpl) ListByProperty(ctx context.Context, viewerID uint64, propertyID uint64) ([]*dto.MaintenanceDTO, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	requests, err := s.maintenanceRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return toMaintenanceDTOs(requests)
}

func (s *maintenanceServiceImpl) ListMine(ctx context.Context, viewerID uint64) ([]*dto.MaintenanceDTO, error) {
	requests, err := s.maintenanceRepo.ListByTenant(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return toMaintenanceDTOs(requests)
}

func (s *maintenanceServiceImpl) UpdateStatus(ctx context.Context, viewerID uint64, requestID uint64, status string) error {
	switch status {
	case model.MaintenanceOpen, model.MaintenanceInProgress, model.MaintenanceResolved, model.MaintenanceClosed:
	default:
		return ErrStatusInvalid
	}

	request, err := s.maintenanceRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return ErrMaintenanceNotFound
	}
	return s.maintenanceRepo.UpdateStatus(ctx, requestID, status)
}

func toMaintenanceDTO(request *model.MaintenanceRequest) (*dto.MaintenanceDTO, error) {
	maintenanceDTO := &dto.MaintenanceDTO{}
	if err := copier.Copy(maintenanceDTO, request); err != nil {
		return nil, err
	}
	return maintenanceDTO, nil
}

func toMaintenanceDTOs(requests []*model.MaintenanceRequest) ([]*dto.MaintenanceDTO, error) {
	dtos := make([]*dto.MaintenanceDTO, 0, len(requests))
	for _, r := range requests {
		d, err := toMaintenanceDTO(r)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, d)
	}
	return dtos, nil
}
