package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/model"
	"Homeport/internal/pkg/consts"
	"Homeport/internal/pkg/querycache"
	"Homeport/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ConversationService interface {
	CreateConversation(ctx context.Context, viewerID uint64, req *dto.CreateConversationReq) (*dto.ConversationSummaryDTO, error)
	GetConversation(ctx context.Context, viewerID uint64, convID uint64) (*dto.ConversationSummaryDTO, error)
	SetStarred(ctx context.Context, viewerID uint64, convID uint64, starred bool) error
	SetArchived(ctx context.Context, viewerID uint64, convID uint64, archived bool) error
	AddLabel(ctx context.Context, viewerID uint64, convID uint64, label string) error
	RemoveLabel(ctx context.Context, viewerID uint64, convID uint64, label string) error
	ToggleMute(ctx context.Context, viewerID uint64, convID uint64) (bool, error)
	MarkRead(ctx context.Context, viewerID uint64, convID uint64) (*dto.MarkReadResp, error)
}

type conversationServiceImpl struct {
	convRepo     repository.ConversationRepo
	msgRepo      repository.MessageRepo
	deliveryRepo repository.DeliveryRepo
	labelRepo    repository.LabelRepo
	profileRepo  repository.ProfileRepo
	notify       NotifyService
	cache        *querycache.Cache
}

func NewConversationService(
	convRepo repository.ConversationRepo,
	msgRepo repository.MessageRepo,
	deliveryRepo repository.DeliveryRepo,
	labelRepo repository.LabelRepo,
	profileRepo repository.ProfileRepo,
	notify NotifyService,
	cache *querycache.Cache,
) ConversationService {
	return &conversationServiceImpl{
		convRepo:     convRepo,
		msgRepo:      msgRepo,
		deliveryRepo: deliveryRepo,
		labelRepo:    labelRepo,
		profileRepo:  profileRepo,
		notify:       notify,
		cache:        cache,
	}
}

// CreateConversation 创建会话。参与者去重后必须含创建者之外的至少一人，
// 会话、参与者、首条消息与投递行在一个事务里落库。
func (s *conversationServiceImpl) CreateConversation(ctx context.Context, viewerID uint64, req *dto.CreateConversationReq) (*dto.ConversationSummaryDTO, error) {
	if req.Content == "" {
		return nil, ErrEmptyContent
	}

	// 参与者去重，创建者固定入列
	seen := map[uint64]struct{}{viewerID: {}}
	others := make([]uint64, 0, len(req.ParticipantIDs))
	for _, id := range req.ParticipantIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		others = append(others, id)
	}
	if len(others) == 0 {
		return nil, ErrNoParticipants
	}

	senderName := resolveDisplayName(ctx, s.profileRepo, viewerID)
	now := time.Now()

	convType := req.Type
	if convType == "" {
		convType = consts.ConversationDirect
	}
	importance := req.Importance
	if importance == "" {
		importance = consts.ImportanceNormal
	}

	conv := &model.Conversation{
		Title:                req.Title,
		Type:                 convType,
		Importance:           importance,
		PropertyID:           req.PropertyID,
		MaintenanceRequestID: req.MaintenanceRequestID,
		CreatedBy:            viewerID,
		Status:               "active",
		ThreadCount:          1,
		LastMessageAt:        &now,
		LastSenderName:       senderName,
	}

	participants := make([]*model.ConversationParticipant, 0, len(others)+1)
	participants = append(participants, &model.ConversationParticipant{
		UserID:   viewerID,
		Role:     consts.ParticipantAdmin,
		JoinedAt: now,
	})
	for _, id := range others {
		participants = append(participants, &model.ConversationParticipant{
			UserID:   id,
			Role:     consts.ParticipantMember,
			JoinedAt: now,
		})
	}

	first := &model.Message{
		SenderID:    viewerID,
		Content:     req.Content,
		Importance:  importance,
		Attachments: toModelAttachments(req.Attachments),
		CreatedAt:   now,
	}
	deliveries := buildDeliveries(participants, viewerID, now)

	if err := s.convRepo.CreateConversation(ctx, conv, participants, first, deliveries); err != nil {
		return nil, err
	}

	for _, p := range participants {
		s.cache.InvalidatePrefix(inboxPrefix(p.UserID))
	}
	s.notify.PublishNewMessage(ctx, conv, first, senderName, others)

	return &dto.ConversationSummaryDTO{
		ID:                   conv.ID,
		Title:                conv.Title,
		Type:                 conv.Type,
		Importance:           conv.Importance,
		PropertyID:           conv.PropertyID,
		MaintenanceRequestID: conv.MaintenanceRequestID,
		CreatedBy:            conv.CreatedBy,
		ThreadCount:          conv.ThreadCount,
		LastMessagePreview:   truncatePreview(first.Content),
		LastMessageAt:        conv.LastMessageAt,
		LastSenderName:       conv.LastSenderName,
		Labels:               []string{},
		CreatedAt:            conv.CreatedAt,
	}, nil
}

// GetConversation 会话详情，带查看者视角的未读数与标签
func (s *conversationServiceImpl) GetConversation(ctx context.Context, viewerID uint64, convID uint64) (*dto.ConversationSummaryDTO, error) {
	conv, err := s.requireParticipant(ctx, viewerID, convID)
	if err != nil {
		return nil, err
	}

	unread, err := s.deliveryRepo.UnreadCounts(ctx, viewerID, []uint64{convID})
	if err != nil {
		return nil, err
	}
	labels, err := s.labelRepo.GetLabels(ctx, viewerID, convID)
	if err != nil {
		return nil, err
	}

	summary := &dto.ConversationSummaryDTO{
		ID:                   conv.ID,
		Title:                conv.Title,
		Type:                 conv.Type,
		Importance:           conv.Importance,
		PropertyID:           conv.PropertyID,
		MaintenanceRequestID: conv.MaintenanceRequestID,
		CreatedBy:            conv.CreatedBy,
		ThreadCount:          conv.ThreadCount,
		UnreadCount:          unread[convID],
		LastMessageAt:        conv.LastMessageAt,
		LastSenderName:       conv.LastSenderName,
		IsStarred:            conv.IsStarred,
		IsArchived:           conv.IsArchived,
		Labels:               labels,
		CreatedAt:            conv.CreatedAt,
	}
	for _, label := range labels {
		if label == consts.MuteLabel {
			summary.IsMuted = true
			break
		}
	}
	if last, err := s.msgRepo.LastMessages(ctx, []uint64{convID}); err == nil {
		if m, ok := last[convID]; ok {
			summary.LastMessagePreview = truncatePreview(m.Content)
		}
	}
	return summary, nil
}

func (s *conversationServiceImpl) SetStarred(ctx context.Context, viewerID uint64, convID uint64, starred bool) error {
	if _, err := s.requireParticipant(ctx, viewerID, convID); err != nil {
		return err
	}
	if err := s.convRepo.SetStarred(ctx, convID, starred); err != nil {
		return err
	}
	s.invalidateParticipantInboxes(ctx, convID)
	return nil
}

func (s *conversationServiceImpl) SetArchived(ctx context.Context, viewerID uint64, convID uint64, archived bool) error {
	if _, err := s.requireParticipant(ctx, viewerID, convID); err != nil {
		return err
	}
	if err := s.convRepo.SetArchived(ctx, convID, archived); err != nil {
		return err
	}
	s.invalidateParticipantInboxes(ctx, convID)
	return nil
}

func (s *conversationServiceImpl) AddLabel(ctx context.Context, viewerID uint64, convID uint64, label string) error {
	if _, err := s.requireParticipant(ctx, viewerID, convID); err != nil {
		return err
	}
	if err := s.labelRepo.Add(ctx, viewerID, convID, label); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(inboxPrefix(viewerID))
	return nil
}

func (s *conversationServiceImpl) RemoveLabel(ctx context.Context, viewerID uint64, convID uint64, label string) error {
	if _, err := s.requireParticipant(ctx, viewerID, convID); err != nil {
		return err
	}
	if err := s.labelRepo.Remove(ctx, viewerID, convID, label); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(inboxPrefix(viewerID))
	return nil
}

// ToggleMute 静音就是 muted 标签的有无，返回切换后的状态
func (s *conversationServiceImpl) ToggleMute(ctx context.Context, viewerID uint64, convID uint64) (bool, error) {
	if _, err := s.requireParticipant(ctx, viewerID, convID); err != nil {
		return false, err
	}

	muted, err := s.labelRepo.HasLabel(ctx, viewerID, convID, consts.MuteLabel)
	if err != nil {
		return false, err
	}
	if muted {
		err = s.labelRepo.Remove(ctx, viewerID, convID, consts.MuteLabel)
	} else {
		err = s.labelRepo.Add(ctx, viewerID, convID, consts.MuteLabel)
	}
	if err != nil {
		return muted, err
	}
	s.cache.InvalidatePrefix(inboxPrefix(viewerID))
	return !muted, nil
}

// MarkRead 把查看者在会话里的全部未读投递置读。
// 只动自己的投递行，重复调用第二次起置读 0 行。
func (s *conversationServiceImpl) MarkRead(ctx context.Context, viewerID uint64, convID uint64) (*dto.MarkReadResp, error) {
	if _, err := s.requireParticipant(ctx, viewerID, convID); err != nil {
		return nil, err
	}

	now := time.Now()
	marked, err := s.deliveryRepo.MarkConversationRead(ctx, viewerID, convID, now)
	if err != nil {
		return nil, err
	}
	if err := s.convRepo.TouchLastRead(ctx, convID, viewerID, now); err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(inboxPrefix(viewerID))
	return &dto.MarkReadResp{Marked: marked}, nil
}

func (s *conversationServiceImpl) requireParticipant(ctx context.Context, viewerID uint64, convID uint64) (*model.Conversation, error) {
	conv, err := s.convRepo.GetConversation(ctx, convID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.convRepo.IsParticipant(ctx, convID, viewerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

func (s *conversationServiceImpl) invalidateParticipantInboxes(ctx context.Context, convID uint64) {
	participants, err := s.convRepo.GetParticipants(ctx, convID)
	if err != nil {
		// 失效失败只影响新鲜度，靠 TTL 兜底
		return
	}
	for _, p := range participants {
		s.cache.InvalidatePrefix(inboxPrefix(p.UserID))
	}
}
