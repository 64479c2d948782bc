package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/model"
	"Homeport/internal/pkg/consts"
	"Homeport/internal/pkg/kafka"
	"Homeport/internal/pkg/querycache"
	"Homeport/internal/repository"
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memStore 内存版数据层，语义对齐真实仓储的查询谓词，
// 各 fake 仓储共享同一份数据。
type memStore struct {
	nextConvID    uint64
	nextMsgID     uint64
	nextProfileID uint64

	conversations map[uint64]*model.Conversation
	participants  []*model.ConversationParticipant
	messages      map[uint64]*model.Message
	deliveries    []*model.MessageDelivery
	labels        []*model.ConversationLabel
	profiles      map[uint64]*model.Profile
	preferences   map[uint64]*model.NotificationPreference

	failCreateMessage bool
	failBumpThread    bool
}

func newMemStore() *memStore {
	return &memStore{
		conversations: make(map[uint64]*model.Conversation),
		messages:      make(map[uint64]*model.Message),
		profiles:      make(map[uint64]*model.Profile),
		preferences:   make(map[uint64]*model.NotificationPreference),
	}
}

func (st *memStore) addProfile(name string) *model.Profile {
	st.nextProfileID++
	p := &model.Profile{ID: st.nextProfileID, DisplayName: name, Email: name + "@example.com", Role: model.RoleTenant}
	st.profiles[p.ID] = p
	return p
}

// ---- ConversationRepo ----

type fakeConvRepo struct{ st *memStore }

func (s *fakeConvRepo) CreateConversation(ctx context.Context, conv *model.Conversation, participants []*model.ConversationParticipant, first *model.Message, deliveries []*model.MessageDelivery) error {
	s.st.nextConvID++
	conv.ID = s.st.nextConvID
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	s.st.conversations[conv.ID] = conv
	for _, p := range participants {
		p.ConversationID = conv.ID
		s.st.participants = append(s.st.participants, p)
	}
	if first != nil {
		first.ConversationID = conv.ID
		s.st.nextMsgID++
		first.ID = s.st.nextMsgID
		s.st.messages[first.ID] = first
		for _, d := range deliveries {
			d.MessageID = first.ID
			d.ConversationID = conv.ID
			s.st.deliveries = append(s.st.deliveries, d)
		}
	}
	return nil
}

func (s *fakeConvRepo) GetConversation(ctx context.Context, convID uint64) (*model.Conversation, error) {
	conv, ok := s.st.conversations[convID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return conv, nil
}

func (s *fakeConvRepo) ListVisible(ctx context.Context, viewerID uint64, q repository.ConversationQuery) ([]*model.Conversation, error) {
	var result []*model.Conversation
	for _, conv := range s.st.conversations {
		if !s.isMember(conv.ID, viewerID) {
			continue
		}
		switch q.Filter {
		case consts.FilterStarred:
			if !conv.IsStarred {
				continue
			}
		case consts.FilterArchived:
			if !conv.IsArchived {
				continue
			}
		case consts.FilterSent:
			if conv.CreatedBy != viewerID || conv.IsArchived {
				continue
			}
		case consts.FilterDrafts:
			if len(q.DraftIDs) == 0 {
				return []*model.Conversation{}, nil
			}
			found := false
			for _, id := range q.DraftIDs {
				if id == conv.ID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		case consts.FilterMaintenance:
			if conv.Type != consts.ConversationMaintenance {
				continue
			}
		case consts.FilterProperties:
			if conv.Type != consts.ConversationProperty {
				continue
			}
		case consts.FilterTenants:
			if conv.Type != consts.ConversationTenant {
				continue
			}
		default:
			if conv.IsArchived || conv.CreatedBy == viewerID {
				continue
			}
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(conv.Title), needle) &&
				!strings.Contains(strings.ToLower(conv.LastSenderName), needle) {
				continue
			}
		}
		result = append(result, conv)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch {
		case a.LastMessageAt == nil && b.LastMessageAt != nil:
			return false
		case a.LastMessageAt != nil && b.LastMessageAt == nil:
			return true
		case a.LastMessageAt != nil && b.LastMessageAt != nil && !a.LastMessageAt.Equal(*b.LastMessageAt):
			return a.LastMessageAt.After(*b.LastMessageAt)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return result, nil
}

func (s *fakeConvRepo) isMember(convID, userID uint64) bool {
	for _, p := range s.st.participants {
		if p.ConversationID == convID && p.UserID == userID && p.LeftAt == nil {
			return true
		}
	}
	return false
}

func (s *fakeConvRepo) IsParticipant(ctx context.Context, convID uint64, userID uint64) (bool, error) {
	return s.isMember(convID, userID), nil
}

func (s *fakeConvRepo) GetParticipants(ctx context.Context, convID uint64) ([]*model.ConversationParticipant, error) {
	var result []*model.ConversationParticipant
	for _, p := range s.st.participants {
		if p.ConversationID == convID && p.LeftAt == nil {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *fakeConvRepo) BumpThread(ctx context.Context, convID uint64, senderName string, at time.Time) error {
	if s.st.failBumpThread {
		return errors.New("bump failed")
	}
	conv, ok := s.st.conversations[convID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	conv.ThreadCount++
	bumped := at
	conv.LastMessageAt = &bumped
	conv.LastSenderName = senderName
	return nil
}

func (s *fakeConvRepo) SetStarred(ctx context.Context, convID uint64, starred bool) error {
	if conv, ok := s.st.conversations[convID]; ok {
		conv.IsStarred = starred
	}
	return nil
}

func (s *fakeConvRepo) SetArchived(ctx context.Context, convID uint64, archived bool) error {
	if conv, ok := s.st.conversations[convID]; ok {
		conv.IsArchived = archived
	}
	return nil
}

func (s *fakeConvRepo) TouchLastRead(ctx context.Context, convID uint64, userID uint64, at time.Time) error {
	for _, p := range s.st.participants {
		if p.ConversationID == convID && p.UserID == userID {
			touched := at
			p.LastReadAt = &touched
		}
	}
	return nil
}

func (s *fakeConvRepo) RecountThreads(ctx context.Context) (int64, error) {
	var affected int64
	for _, conv := range s.st.conversations {
		var count uint64
		for _, m := range s.st.messages {
			if m.ConversationID == conv.ID && !m.DeletedAt.Valid && !m.IsDraft {
				count++
			}
		}
		conv.ThreadCount = count
		affected++
	}
	return affected, nil
}

// ---- MessageRepo ----

type fakeMsgRepo struct{ st *memStore }

func (s *fakeMsgRepo) CreateMessage(ctx context.Context, msg *model.Message, deliveries []*model.MessageDelivery) error {
	if s.st.failCreateMessage {
		return errors.New("insert failed")
	}
	s.st.nextMsgID++
	msg.ID = s.st.nextMsgID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.st.messages[msg.ID] = msg
	for _, d := range deliveries {
		d.MessageID = msg.ID
		d.ConversationID = msg.ConversationID
		s.st.deliveries = append(s.st.deliveries, d)
	}
	return nil
}

func (s *fakeMsgRepo) GetMessageByID(ctx context.Context, msgID uint64) (*model.Message, error) {
	msg, ok := s.st.messages[msgID]
	if !ok {
		return nil, nil
	}
	return msg, nil
}

func (s *fakeMsgRepo) ListThread(ctx context.Context, convID uint64, viewerID uint64, draftsOnly bool) ([]*model.Message, error) {
	var result []*model.Message
	for _, m := range s.st.messages {
		if m.ConversationID != convID || m.DeletedAt.Valid {
			continue
		}
		if draftsOnly {
			if !m.IsDraft || m.SenderID != viewerID {
				continue
			}
		} else if m.IsDraft {
			continue
		}
		result = append(result, m)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *fakeMsgRepo) ListThreadPage(ctx context.Context, convID uint64, page int, pageSize int) ([]*model.Message, error) {
	all, _ := s.ListThread(ctx, convID, 0, false)
	// 倒序
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	start := page * pageSize
	if start >= len(all) {
		return []*model.Message{}, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (s *fakeMsgRepo) LastMessages(ctx context.Context, convIDs []uint64) (map[uint64]*model.Message, error) {
	result := make(map[uint64]*model.Message)
	for _, convID := range convIDs {
		msgs, _ := s.ListThread(ctx, convID, 0, false)
		if len(msgs) > 0 {
			result[convID] = msgs[len(msgs)-1]
		}
	}
	return result, nil
}

func (s *fakeMsgRepo) LastDrafts(ctx context.Context, convIDs []uint64, viewerID uint64) (map[uint64]*model.Message, error) {
	result := make(map[uint64]*model.Message)
	for _, convID := range convIDs {
		drafts, _ := s.ListThread(ctx, convID, viewerID, true)
		if len(drafts) > 0 {
			result[convID] = drafts[len(drafts)-1]
		}
	}
	return result, nil
}

func (s *fakeMsgRepo) DraftConversationIDs(ctx context.Context, viewerID uint64) ([]uint64, error) {
	seen := make(map[uint64]struct{})
	var ids []uint64
	for _, m := range s.st.messages {
		if m.IsDraft && m.SenderID == viewerID && !m.DeletedAt.Valid {
			if _, ok := seen[m.ConversationID]; !ok {
				seen[m.ConversationID] = struct{}{}
				ids = append(ids, m.ConversationID)
			}
		}
	}
	return ids, nil
}

func (s *fakeMsgRepo) UpdateContent(ctx context.Context, msgID uint64, content string, editedAt time.Time) error {
	if m, ok := s.st.messages[msgID]; ok {
		m.Content = content
		edited := editedAt
		m.EditedAt = &edited
	}
	return nil
}

func (s *fakeMsgRepo) SoftDelete(ctx context.Context, msgID uint64) error {
	if m, ok := s.st.messages[msgID]; ok {
		m.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

func (s *fakeMsgRepo) PromoteDraft(ctx context.Context, msgID uint64, at time.Time, deliveries []*model.MessageDelivery) error {
	m, ok := s.st.messages[msgID]
	if !ok || !m.IsDraft {
		return gorm.ErrRecordNotFound
	}
	m.IsDraft = false
	m.CreatedAt = at
	for _, d := range deliveries {
		d.MessageID = msgID
		d.ConversationID = m.ConversationID
		s.st.deliveries = append(s.st.deliveries, d)
	}
	return nil
}

func (s *fakeMsgRepo) UpdateDraft(ctx context.Context, msgID uint64, content string, subject string, importance string, attachments []model.Attachment) error {
	if m, ok := s.st.messages[msgID]; ok && m.IsDraft {
		m.Content = content
		m.Subject = subject
		m.Importance = importance
		m.Attachments = attachments
	}
	return nil
}

// ---- DeliveryRepo ----

type fakeDeliveryRepo struct{ st *memStore }

func (s *fakeDeliveryRepo) unread(viewerID uint64, convID uint64) int64 {
	var count int64
	for _, d := range s.st.deliveries {
		if d.UserID != viewerID || d.ReadAt != nil {
			continue
		}
		if convID != 0 && d.ConversationID != convID {
			continue
		}
		m, ok := s.st.messages[d.MessageID]
		if !ok || m.IsDraft || m.DeletedAt.Valid {
			continue
		}
		count++
	}
	return count
}

func (s *fakeDeliveryRepo) UnreadCounts(ctx context.Context, viewerID uint64, convIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64)
	for _, convID := range convIDs {
		if n := s.unread(viewerID, convID); n > 0 {
			result[convID] = n
		}
	}
	return result, nil
}

func (s *fakeDeliveryRepo) UnreadTotal(ctx context.Context, viewerID uint64) (int64, error) {
	return s.unread(viewerID, 0), nil
}

func (s *fakeDeliveryRepo) MarkConversationRead(ctx context.Context, viewerID uint64, convID uint64, at time.Time) (int64, error) {
	var marked int64
	for _, d := range s.st.deliveries {
		if d.UserID == viewerID && d.ConversationID == convID && d.ReadAt == nil {
			readAt := at
			d.ReadAt = &readAt
			marked++
		}
	}
	return marked, nil
}

// ---- LabelRepo ----

type fakeLabelRepo struct{ st *memStore }

func (s *fakeLabelRepo) Add(ctx context.Context, userID uint64, convID uint64, label string) error {
	if has, _ := s.HasLabel(ctx, userID, convID, label); has {
		return nil
	}
	s.st.labels = append(s.st.labels, &model.ConversationLabel{UserID: userID, ConversationID: convID, Label: label})
	return nil
}

func (s *fakeLabelRepo) Remove(ctx context.Context, userID uint64, convID uint64, label string) error {
	kept := s.st.labels[:0]
	for _, l := range s.st.labels {
		if l.UserID == userID && l.ConversationID == convID && l.Label == label {
			continue
		}
		kept = append(kept, l)
	}
	s.st.labels = kept
	return nil
}

func (s *fakeLabelRepo) GetLabels(ctx context.Context, userID uint64, convID uint64) ([]string, error) {
	var labels []string
	for _, l := range s.st.labels {
		if l.UserID == userID && l.ConversationID == convID {
			labels = append(labels, l.Label)
		}
	}
	sort.Strings(labels)
	return labels, nil
}

func (s *fakeLabelRepo) ListByViewer(ctx context.Context, userID uint64, convIDs []uint64) (map[uint64][]string, error) {
	result := make(map[uint64][]string)
	for _, convID := range convIDs {
		labels, _ := s.GetLabels(ctx, userID, convID)
		if len(labels) > 0 {
			result[convID] = labels
		}
	}
	return result, nil
}

func (s *fakeLabelRepo) HasLabel(ctx context.Context, userID uint64, convID uint64, label string) (bool, error) {
	for _, l := range s.st.labels {
		if l.UserID == userID && l.ConversationID == convID && l.Label == label {
			return true, nil
		}
	}
	return false, nil
}

// ---- ProfileRepo ----

type fakeProfileRepo struct{ st *memStore }

func (s *fakeProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	s.st.nextProfileID++
	profile.ID = s.st.nextProfileID
	s.st.profiles[profile.ID] = profile
	return nil
}

func (s *fakeProfileRepo) GetByID(ctx context.Context, userID uint64) (*model.Profile, error) {
	return s.st.profiles[userID], nil
}

func (s *fakeProfileRepo) GetByIDs(ctx context.Context, userIDs []uint64) ([]*model.Profile, error) {
	var result []*model.Profile
	for _, id := range userIDs {
		if p, ok := s.st.profiles[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	for _, p := range s.st.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (s *fakeProfileRepo) UpdateAvatar(ctx context.Context, userID uint64, objectKey string) error {
	if p, ok := s.st.profiles[userID]; ok {
		p.AvatarURL = objectKey
	}
	return nil
}

// ---- NotifyProducer ----

type fakeNotifyProducer struct {
	events []*kafka.NotifyEvent
}

func (s *fakeNotifyProducer) SendNotify(event *kafka.NotifyEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *fakeNotifyProducer) Close() error { return nil }

// ---- 组装 ----

type fixture struct {
	st       *memStore
	cache    *querycache.Cache
	producer *fakeNotifyProducer

	inbox    InboxService
	convs    ConversationService
	messages MessageService
	notify   NotifyService
}

func newFixture() *fixture {
	st := newMemStore()
	cache := querycache.New()
	producer := &fakeNotifyProducer{}

	convRepo := &fakeConvRepo{st: st}
	msgRepo := &fakeMsgRepo{st: st}
	deliveryRepo := &fakeDeliveryRepo{st: st}
	labelRepo := &fakeLabelRepo{st: st}
	profileRepo := &fakeProfileRepo{st: st}
	preferenceRepo := &fakePreferenceRepo{st: st}

	notify := NewNotifyService(preferenceRepo, labelRepo, producer)
	return &fixture{
		st:       st,
		cache:    cache,
		producer: producer,
		inbox:    NewInboxService(convRepo, msgRepo, deliveryRepo, labelRepo, profileRepo, cache),
		convs:    NewConversationService(convRepo, msgRepo, deliveryRepo, labelRepo, profileRepo, notify, cache),
		messages: NewMessageService(convRepo, msgRepo, profileRepo, notify, cache),
		notify:   notify,
	}
}

// createConversation 以 creator 视角建会话并返回摘要，建好即含一条首消息
func (f *fixture) createConversation(ctx context.Context, creatorID uint64, title string, others []uint64, content string) *dto.ConversationSummaryDTO {
	summary, err := f.convs.CreateConversation(ctx, creatorID, &dto.CreateConversationReq{
		Title:          title,
		ParticipantIDs: others,
		Content:        content,
	})
	if err != nil {
		panic(err)
	}
	return summary
}

func mustParseID(t *testing.T, id string) uint64 {
	t.Helper()
	parsed, err := strconv.ParseUint(id, 10, 64)
	require.NoError(t, err)
	return parsed
}

// ---- PreferenceRepo ----

type fakePreferenceRepo struct{ st *memStore }

func (s *fakePreferenceRepo) Get(ctx context.Context, userID uint64) (*model.NotificationPreference, error) {
	return s.st.preferences[userID], nil
}

func (s *fakePreferenceRepo) GetByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*model.NotificationPreference, error) {
	result := make(map[uint64]*model.NotificationPreference)
	for _, id := range userIDs {
		if p, ok := s.st.preferences[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (s *fakePreferenceRepo) Upsert(ctx context.Context, pref *model.NotificationPreference) error {
	s.st.preferences[pref.UserID] = pref
	return nil
}
