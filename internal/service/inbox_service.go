package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/model"
	"Homeport/internal/pkg/consts"
	"Homeport/internal/pkg/querycache"
	"Homeport/internal/repository"
	"context"
	"unicode/utf8"
)

const previewMaxRunes = 120

type InboxService interface {
	ListConversations(ctx context.Context, viewerID uint64, query *dto.InboxQuery) (*dto.InboxResp, error)
}

type inboxServiceImpl struct {
	convRepo     repository.ConversationRepo
	msgRepo      repository.MessageRepo
	deliveryRepo repository.DeliveryRepo
	labelRepo    repository.LabelRepo
	profileRepo  repository.ProfileRepo
	cache        *querycache.Cache
}

func NewInboxService(
	convRepo repository.ConversationRepo,
	msgRepo repository.MessageRepo,
	deliveryRepo repository.DeliveryRepo,
	labelRepo repository.LabelRepo,
	profileRepo repository.ProfileRepo,
	cache *querycache.Cache,
) InboxService {
	return &inboxServiceImpl{
		convRepo:     convRepo,
		msgRepo:      msgRepo,
		deliveryRepo: deliveryRepo,
		labelRepo:    labelRepo,
		profileRepo:  profileRepo,
		cache:        cache,
	}
}

// ListConversations 收件箱列表。未读数要跟手，整个响应走最短档位缓存。
func (s *inboxServiceImpl) ListConversations(ctx context.Context, viewerID uint64, query *dto.InboxQuery) (*dto.InboxResp, error) {
	filter := query.Filter
	if filter == "" {
		filter = consts.FilterInbox
	}

	key := querycache.Key("inbox", viewerID, filter, query.Search)
	return querycache.Do(ctx, s.cache, key, querycache.TierRealtime, func(ctx context.Context) (*dto.InboxResp, error) {
		return s.buildInbox(ctx, viewerID, filter, query.Search)
	})
}

// buildInbox 富化全部用批量查询完成，查询次数与会话数无关
func (s *inboxServiceImpl) buildInbox(ctx context.Context, viewerID uint64, filter, search string) (*dto.InboxResp, error) {
	q := repository.ConversationQuery{Filter: filter, Search: search}
	if filter == consts.FilterDrafts {
		draftIDs, err := s.msgRepo.DraftConversationIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		q.DraftIDs = draftIDs
	}

	convs, err := s.convRepo.ListVisible(ctx, viewerID, q)
	if err != nil {
		return nil, err
	}

	unreadTotal, err := s.deliveryRepo.UnreadTotal(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.InboxResp{
		Conversations: make([]*dto.ConversationSummaryDTO, 0, len(convs)),
		UnreadTotal:   unreadTotal,
	}
	if len(convs) == 0 {
		return resp, nil
	}

	convIDs := make([]uint64, 0, len(convs))
	for _, c := range convs {
		convIDs = append(convIDs, c.ID)
	}

	lastMsgs, err := s.msgRepo.LastMessages(ctx, convIDs)
	if err != nil {
		return nil, err
	}
	unread, err := s.deliveryRepo.UnreadCounts(ctx, viewerID, convIDs)
	if err != nil {
		return nil, err
	}
	labels, err := s.labelRepo.ListByViewer(ctx, viewerID, convIDs)
	if err != nil {
		return nil, err
	}

	// drafts 过滤时预览展示草稿本身
	var lastDrafts map[uint64]*model.Message
	if filter == consts.FilterDrafts {
		lastDrafts, err = s.msgRepo.LastDrafts(ctx, convIDs, viewerID)
		if err != nil {
			return nil, err
		}
	}

	senderNames, err := s.resolveSenderNames(ctx, convs, lastMsgs)
	if err != nil {
		return nil, err
	}

	for _, c := range convs {
		summary := &dto.ConversationSummaryDTO{
			ID:                   c.ID,
			Title:                c.Title,
			Type:                 c.Type,
			Importance:           c.Importance,
			PropertyID:           c.PropertyID,
			MaintenanceRequestID: c.MaintenanceRequestID,
			CreatedBy:            c.CreatedBy,
			ThreadCount:          c.ThreadCount,
			UnreadCount:          unread[c.ID],
			LastMessageAt:        c.LastMessageAt,
			LastSenderName:       senderNames[c.ID],
			IsStarred:            c.IsStarred,
			IsArchived:           c.IsArchived,
			Labels:               labels[c.ID],
			CreatedAt:            c.CreatedAt,
		}
		if summary.Labels == nil {
			summary.Labels = []string{}
		}
		for _, label := range summary.Labels {
			if label == consts.MuteLabel {
				summary.IsMuted = true
				break
			}
		}

		if draft, ok := lastDrafts[c.ID]; ok {
			summary.LastMessagePreview = truncatePreview(draft.Content)
		} else if last, ok := lastMsgs[c.ID]; ok {
			summary.LastMessagePreview = truncatePreview(last.Content)
		}

		resp.Conversations = append(resp.Conversations, summary)
	}
	return resp, nil
}

// resolveSenderNames 优先用会话上的冗余显示名，缺失时批量回源资料表，
// 资料也缺席的按占位名兜底
func (s *inboxServiceImpl) resolveSenderNames(ctx context.Context, convs []*model.Conversation, lastMsgs map[uint64]*model.Message) (map[uint64]string, error) {
	names := make(map[uint64]string, len(convs))

	missingSenders := make(map[uint64]struct{})
	for _, c := range convs {
		if c.LastSenderName != "" {
			names[c.ID] = c.LastSenderName
			continue
		}
		if last, ok := lastMsgs[c.ID]; ok {
			missingSenders[last.SenderID] = struct{}{}
		}
	}
	if len(missingSenders) == 0 {
		return names, nil
	}

	senderIDs := make([]uint64, 0, len(missingSenders))
	for id := range missingSenders {
		senderIDs = append(senderIDs, id)
	}
	profiles, err := s.profileRepo.GetByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	for _, c := range convs {
		if _, done := names[c.ID]; done {
			continue
		}
		last, ok := lastMsgs[c.ID]
		if !ok {
			continue
		}
		if p, ok := byID[last.SenderID]; ok && p.DisplayName != "" {
			names[c.ID] = p.DisplayName
		} else {
			names[c.ID] = consts.UnknownUserName
		}
	}
	return names, nil
}

func truncatePreview(content string) string {
	if utf8.RuneCountInString(content) <= previewMaxRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewMaxRunes]) + "…"
}
