package service

import (
	"Homeport/internal/api/dto"
	mongodb "Homeport/internal/pkg/mongo"
	"Homeport/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NoticeService interface {
	GetNoticeList(ctx context.Context, viewerID uint64, page, pageSize int) (*dto.NoticeListResp, error)
	MarkAsRead(ctx context.Context, viewerID uint64, noticeID string) error
	MarkAllAsRead(ctx context.Context, viewerID uint64) error
	GetUnreadCount(ctx context.Context, viewerID uint64) (int64, error)
}

type noticeServiceImpl struct {
	noticeRepo  mongodb.NoticeRepo
	profileRepo repository.ProfileRepo
}

func NewNoticeService(noticeRepo mongodb.NoticeRepo, profileRepo repository.ProfileRepo) NoticeService {
	return &noticeServiceImpl{
		noticeRepo:  noticeRepo,
		profileRepo: profileRepo,
	}
}

// GetNoticeList 通知盒子分页，发送者资料批量解析
func (s *noticeServiceImpl) GetNoticeList(ctx context.Context, viewerID uint64, page, pageSize int) (*dto.NoticeListResp, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notices, err := s.noticeRepo.GetNoticeList(ctx, viewerID, int64(pageSize), int64((page-1)*pageSize))
	if err != nil {
		return nil, err
	}
	unread, err := s.noticeRepo.GetUnreadCount(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(notices))
	seen := make(map[uint64]struct{}, len(notices))
	for _, n := range notices {
		if n.SenderID == 0 {
			continue
		}
		if _, ok := seen[n.SenderID]; !ok {
			seen[n.SenderID] = struct{}{}
			senderIDs = append(senderIDs, n.SenderID)
		}
	}
	profiles, err := s.profileRepo.GetByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	profileDTOs := make(map[uint64]*dto.ProfileDTO, len(profiles))
	for _, p := range profiles {
		d, err := toProfileDTO(p)
		if err != nil {
			return nil, err
		}
		profileDTOs[p.ID] = d
	}

	resp := &dto.NoticeListResp{
		Notices:     make([]*dto.NoticeDTO, 0, len(notices)),
		UnreadCount: unread,
	}
	for _, n := range notices {
		noticeDTO := &dto.NoticeDTO{
			ID:             n.ID.Hex(),
			Type:           noticeTypeName(n.Type),
			SenderID:       n.SenderID,
			ConversationID: n.ConversationID,
			MessageID:      n.MessageID,
			Content:        n.Content,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt,
		}
		if p, ok := profileDTOs[n.SenderID]; ok {
			noticeDTO.SenderName = p.DisplayName
			noticeDTO.SenderAvatar = p.AvatarURL
		} else if name, ok := n.Payload["sender_name"].(string); ok {
			// 资料已注销时退回事件里的显示名快照
			noticeDTO.SenderName = name
		}
		resp.Notices = append(resp.Notices, noticeDTO)
	}
	return resp, nil
}

func (s *noticeServiceImpl) MarkAsRead(ctx context.Context, viewerID uint64, noticeID string) error {
	if _, err := primitive.ObjectIDFromHex(noticeID); err != nil {
		return ErrParamInvalid
	}
	if err := s.noticeRepo.MarkAsRead(ctx, viewerID, noticeID); err != nil {
		return ErrNoticeNotFound
	}
	return nil
}

func (s *noticeServiceImpl) MarkAllAsRead(ctx context.Context, viewerID uint64) error {
	return s.noticeRepo.MarkAllAsRead(ctx, viewerID)
}

func (s *noticeServiceImpl) GetUnreadCount(ctx context.Context, viewerID uint64) (int64, error) {
	return s.noticeRepo.GetUnreadCount(ctx, viewerID)
}

func noticeTypeName(t int8) string {
	switch t {
	case mongodb.NoticeBroadcast:
		return "broadcast"
	case mongodb.NoticeMaintenance:
		return "maintenance"
	default:
		return "new_message"
	}
}
