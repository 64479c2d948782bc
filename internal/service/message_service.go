package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/model"
	"Homeport/internal/pkg/consts"
	"Homeport/internal/pkg/querycache"
	"Homeport/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageService interface {
	GetThread(ctx context.Context, viewerID uint64, convID uint64) (*dto.ThreadResp, error)
	GetThreadPage(ctx context.Context, viewerID uint64, convID uint64, page int) (*dto.ThreadPageResp, error)
	GetMessage(ctx context.Context, viewerID uint64, msgID uint64) (*dto.MessageDTO, error)
	SendMessage(ctx context.Context, viewerID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	EditMessage(ctx context.Context, viewerID uint64, msgID uint64, req *dto.EditMessageReq) error
	DeleteMessage(ctx context.Context, viewerID uint64, msgID uint64) error
	SaveDraft(ctx context.Context, viewerID uint64, req *dto.SaveDraftReq) (*dto.MessageDTO, error)
	SendDraft(ctx context.Context, viewerID uint64, draftID uint64) (*dto.MessageDTO, error)
	ListDrafts(ctx context.Context, viewerID uint64, convID uint64) ([]*dto.MessageDTO, error)
}

type messageServiceImpl struct {
	convRepo    repository.ConversationRepo
	msgRepo     repository.MessageRepo
	profileRepo repository.ProfileRepo
	notify      NotifyService
	cache       *querycache.Cache
}

func NewMessageService(
	convRepo repository.ConversationRepo,
	msgRepo repository.MessageRepo,
	profileRepo repository.ProfileRepo,
	notify NotifyService,
	cache *querycache.Cache,
) MessageService {
	return &messageServiceImpl{
		convRepo:    convRepo,
		msgRepo:     msgRepo,
		profileRepo: profileRepo,
		notify:      notify,
		cache:       cache,
	}
}

// GetThread 线程全量视图，时间正序，只含已发送消息
func (s *messageServiceImpl) GetThread(ctx context.Context, viewerID uint64, convID uint64) (*dto.ThreadResp, error) {
	if err := s.requireParticipant(ctx, viewerID, convID); err != nil {
		return nil, err
	}

	key := threadKey(convID, viewerID)
	return querycache.Do(ctx, s.cache, key, querycache.TierRealtime, func(ctx context.Context) (*dto.ThreadResp, error) {
		msgs, err := s.msgRepo.ListThread(ctx, convID, viewerID, false)
		if err != nil {
			return nil, err
		}
		dtos, err := s.toMessageDTOs(ctx, msgs)
		if err != nil {
			return nil, err
		}
		return &dto.ThreadResp{ConversationID: convID, Messages: dtos}, nil
	})
}

// GetThreadPage 无限滚动的倒序分页，固定页大小
func (s *messageServiceImpl) GetThreadPage(ctx context.Context, viewerID uint64, convID uint64, page int) (*dto.ThreadPageResp, error) {
	if err := s.requireParticipant(ctx, viewerID, convID); err != nil {
		return nil, err
	}
	if page < 0 {
		return nil, ErrParamInvalid
	}

	key := threadPageKey(convID, viewerID, page)
	return querycache.Do(ctx, s.cache, key, querycache.TierRealtime, func(ctx context.Context) (*dto.ThreadPageResp, error) {
		msgs, err := s.msgRepo.ListThreadPage(ctx, convID, page, consts.ThreadPageSize)
		if err != nil {
			return nil, err
		}
		dtos, err := s.toMessageDTOs(ctx, msgs)
		if err != nil {
			return nil, err
		}
		return &dto.ThreadPageResp{
			ConversationID: convID,
			Page:           page,
			PageSize:       consts.ThreadPageSize,
			Messages:       dtos,
			HasMore:        len(msgs) == consts.ThreadPageSize,
		}, nil
	})
}

// GetMessage 按 ID 取消息，软删除的消息仍可取回并带删除标记
func (s *messageServiceImpl) GetMessage(ctx context.Context, viewerID uint64, msgID uint64) (*dto.MessageDTO, error) {
	msg, err := s.msgRepo.GetMessageByID(ctx, msgID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if err := s.requireParticipant(ctx, viewerID, msg.ConversationID); err != nil {
		return nil, err
	}
	if msg.IsDraft && msg.SenderID != viewerID {
		return nil, ErrMessageNotFound
	}
	return toMessageDTO(msg, resolveDisplayName(ctx, s.profileRepo, msg.SenderID)), nil
}

// SendMessage 乐观发送：先把带临时 ID 的占位消息写进线程缓存，
// 落库失败按快照逐字节回滚，线程视图回到发送前的确切状态。
func (s *messageServiceImpl) SendMessage(ctx context.Context, viewerID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	if req.Content == "" {
		return nil, ErrEmptyContent
	}
	conv, err := s.convRepo.GetConversation(ctx, req.ConversationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, viewerID, conv.ID); err != nil {
		return nil, err
	}

	senderName := resolveDisplayName(ctx, s.profileRepo, viewerID)
	now := time.Now()

	key := threadKey(conv.ID, viewerID)
	snap := s.cache.Snapshot(key)
	pending := &dto.MessageDTO{
		ID:             "tmp-" + uuid.NewString(),
		ConversationID: conv.ID,
		SenderID:       viewerID,
		SenderName:     senderName,
		Content:        req.Content,
		Subject:        req.Subject,
		Importance:     importanceOrDefault(req.Importance),
		Attachments:    toAttachmentDTOs(toModelAttachments(req.Attachments)),
		Pending:        true,
		CreatedAt:      now,
	}
	if err := querycache.Mutate(s.cache, key, func(resp *dto.ThreadResp) *dto.ThreadResp {
		resp.Messages = append(resp.Messages, pending)
		return resp
	}); err != nil {
		log.Warn("optimistic thread append error", "conversation_id", conv.ID, "err", err)
	}

	participants, err := s.convRepo.GetParticipants(ctx, conv.ID)
	if err != nil {
		s.cache.Restore(snap)
		return nil, err
	}

	msg := &model.Message{
		ConversationID: conv.ID,
		SenderID:       viewerID,
		Content:        req.Content,
		Subject:        req.Subject,
		Importance:     importanceOrDefault(req.Importance),
		Attachments:    toModelAttachments(req.Attachments),
		CreatedAt:      now,
	}
	if err := s.msgRepo.CreateMessage(ctx, msg, buildDeliveries(participants, viewerID, now)); err != nil {
		s.cache.Restore(snap)
		return nil, err
	}

	if err := s.convRepo.BumpThread(ctx, conv.ID, senderName, now); err != nil {
		log.Error("bump thread error", "conversation_id", conv.ID, "err", err)
	}

	s.cache.InvalidatePrefix(threadPrefix(conv.ID))
	recipients := make([]uint64, 0, len(participants))
	for _, p := range participants {
		s.cache.InvalidatePrefix(inboxPrefix(p.UserID))
		if p.UserID != viewerID {
			recipients = append(recipients, p.UserID)
		}
	}
	s.notify.PublishNewMessage(ctx, conv, msg, senderName, recipients)

	return toMessageDTO(msg, senderName), nil
}

// EditMessage 只允许编辑自己的已发送消息，created_at 不动，排序位置不变
func (s *messageServiceImpl) EditMessage(ctx context.Context, viewerID uint64, msgID uint64, req *dto.EditMessageReq) error {
	if req.Content == "" {
		return ErrEmptyContent
	}
	msg, err := s.ownSentMessage(ctx, viewerID, msgID)
	if err != nil {
		return err
	}

	if err := s.msgRepo.UpdateContent(ctx, msgID, req.Content, time.Now()); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(threadPrefix(msg.ConversationID))
	return nil
}

// DeleteMessage 软删除自己的消息，列表即刻不可见
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, viewerID uint64, msgID uint64) error {
	msg, err := s.ownSentMessage(ctx, viewerID, msgID)
	if err != nil {
		return err
	}

	if err := s.msgRepo.SoftDelete(ctx, msgID); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(threadPrefix(msg.ConversationID))
	s.invalidateParticipantInboxes(ctx, msg.ConversationID)
	return nil
}

// SaveDraft 新建或覆盖草稿。草稿不产生投递行，不计入线程计数。
func (s *messageServiceImpl) SaveDraft(ctx context.Context, viewerID uint64, req *dto.SaveDraftReq) (*dto.MessageDTO, error) {
	if err := s.requireParticipant(ctx, viewerID, req.ConversationID); err != nil {
		return nil, err
	}

	senderName := resolveDisplayName(ctx, s.profileRepo, viewerID)

	if req.DraftID != 0 {
		draft, err := s.ownDraft(ctx, viewerID, req.DraftID)
		if err != nil {
			return nil, err
		}
		if draft.ConversationID != req.ConversationID {
			return nil, ErrDraftNotFound
		}
		if err := s.msgRepo.UpdateDraft(ctx, req.DraftID, req.Content, req.Subject, importanceOrDefault(req.Importance), toModelAttachments(req.Attachments)); err != nil {
			return nil, err
		}
		draft.Content = req.Content
		draft.Subject = req.Subject
		draft.Importance = importanceOrDefault(req.Importance)
		draft.Attachments = toModelAttachments(req.Attachments)
		s.cache.InvalidatePrefix(inboxPrefix(viewerID))
		return toMessageDTO(draft, senderName), nil
	}

	draft := &model.Message{
		ConversationID: req.ConversationID,
		SenderID:       viewerID,
		Content:        req.Content,
		Subject:        req.Subject,
		Importance:     importanceOrDefault(req.Importance),
		Attachments:    toModelAttachments(req.Attachments),
		IsDraft:        true,
	}
	if err := s.msgRepo.CreateMessage(ctx, draft, nil); err != nil {
		return nil, err
	}
	s.cache.InvalidatePrefix(inboxPrefix(viewerID))
	return toMessageDTO(draft, senderName), nil
}

// SendDraft 草稿转正，发送时刻起进入线程与各参与者的未读
func (s *messageServiceImpl) SendDraft(ctx context.Context, viewerID uint64, draftID uint64) (*dto.MessageDTO, error) {
	draft, err := s.ownDraft(ctx, viewerID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Content == "" {
		return nil, ErrEmptyContent
	}
	conv, err := s.convRepo.GetConversation(ctx, draft.ConversationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}

	participants, err := s.convRepo.GetParticipants(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	senderName := resolveDisplayName(ctx, s.profileRepo, viewerID)

	if err := s.msgRepo.PromoteDraft(ctx, draftID, now, buildDeliveries(participants, viewerID, now)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	if err := s.convRepo.BumpThread(ctx, conv.ID, senderName, now); err != nil {
		log.Error("bump thread error", "conversation_id", conv.ID, "err", err)
	}

	s.cache.InvalidatePrefix(threadPrefix(conv.ID))
	recipients := make([]uint64, 0, len(participants))
	for _, p := range participants {
		s.cache.InvalidatePrefix(inboxPrefix(p.UserID))
		if p.UserID != viewerID {
			recipients = append(recipients, p.UserID)
		}
	}

	draft.IsDraft = false
	draft.CreatedAt = now
	s.notify.PublishNewMessage(ctx, conv, draft, senderName, recipients)
	return toMessageDTO(draft, senderName), nil
}

// ListDrafts 查看者在会话里的草稿，别人的草稿永远不可见
func (s *messageServiceImpl) ListDrafts(ctx context.Context, viewerID uint64, convID uint64) ([]*dto.MessageDTO, error) {
	if err := s.requireParticipant(ctx, viewerID, convID); err != nil {
		return nil, err
	}
	drafts, err := s.msgRepo.ListThread(ctx, convID, viewerID, true)
	if err != nil {
		return nil, err
	}
	return s.toMessageDTOs(ctx, drafts)
}

// toMessageDTOs 发送者显示名批量解析，一次资料查询
func (s *messageServiceImpl) toMessageDTOs(ctx context.Context, msgs []*model.Message) ([]*dto.MessageDTO, error) {
	senderIDs := make([]uint64, 0, len(msgs))
	seen := make(map[uint64]struct{}, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.SenderID]; !ok {
			seen[m.SenderID] = struct{}{}
			senderIDs = append(senderIDs, m.SenderID)
		}
	}

	profiles, err := s.profileRepo.GetByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.DisplayName
	}

	dtos := make([]*dto.MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		name, ok := names[m.SenderID]
		if !ok || name == "" {
			name = consts.UnknownUserName
		}
		dtos = append(dtos, toMessageDTO(m, name))
	}
	return dtos, nil
}

func (s *messageServiceImpl) requireParticipant(ctx context.Context, viewerID uint64, convID uint64) error {
	ok, err := s.convRepo.IsParticipant(ctx, convID, viewerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotParticipant
	}
	return nil
}

func (s *messageServiceImpl) ownSentMessage(ctx context.Context, viewerID uint64, msgID uint64) (*model.Message, error) {
	msg, err := s.msgRepo.GetMessageByID(ctx, msgID)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.DeletedAt.Valid || msg.IsDraft {
		return nil, ErrMessageNotFound
	}
	if msg.SenderID != viewerID {
		return nil, ErrMessageNotOwn
	}
	return msg, nil
}

func (s *messageServiceImpl) ownDraft(ctx context.Context, viewerID uint64, draftID uint64) (*model.Message, error) {
	msg, err := s.msgRepo.GetMessageByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.DeletedAt.Valid || !msg.IsDraft {
		return nil, ErrDraftNotFound
	}
	if msg.SenderID != viewerID {
		return nil, ErrDraftNotFound
	}
	return msg, nil
}

func (s *messageServiceImpl) invalidateParticipantInboxes(ctx context.Context, convID uint64) {
	participants, err := s.convRepo.GetParticipants(ctx, convID)
	if err != nil {
		return
	}
	for _, p := range participants {
		s.cache.InvalidatePrefix(inboxPrefix(p.UserID))
	}
}
