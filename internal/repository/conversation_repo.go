package repository

import (
	"Homeport/internal/model"
	"Homeport/internal/pkg/consts"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ConversationQuery 会话列表的过滤条件
type ConversationQuery struct {
	Filter   string
	Search   string
	DraftIDs []uint64 // drafts 过滤时由 MessageRepo 预先算出的会话 ID 集
}

type ConversationRepo interface {
	CreateConversation(ctx context.Context, conv *model.Conversation, participants []*model.ConversationParticipant, first *model.Message, deliveries []*model.MessageDelivery) error
	GetConversation(ctx context.Context, convID uint64) (*model.Conversation, error)
	ListVisible(ctx context.Context, viewerID uint64, q ConversationQuery) ([]*model.Conversation, error)
	IsParticipant(ctx context.Context, convID uint64, userID uint64) (bool, error)
	GetParticipants(ctx context.Context, convID uint64) ([]*model.ConversationParticipant, error)

	BumpThread(ctx context.Context, convID uint64, senderName string, at time.Time) error
	SetStarred(ctx context.Context, convID uint64, starred bool) error
	SetArchived(ctx context.Context, convID uint64, archived bool) error
	TouchLastRead(ctx context.Context, convID uint64, userID uint64, at time.Time) error
	RecountThreads(ctx context.Context) (int64, error)
}

type conversationRepoImpl struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepoImpl{db: db}
}

// CreateConversation 开启事务创建会话、参与者、首条消息及投递行。
// 四步同一事务提交，不存在会话行落库而子行缺失的中间态。
func (s *conversationRepoImpl) CreateConversation(ctx context.Context, conv *model.Conversation, participants []*model.ConversationParticipant, first *model.Message, deliveries []*model.MessageDelivery) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for _, p := range participants {
			p.ConversationID = conv.ID
			if p.JoinedAt.IsZero() {
				p.JoinedAt = time.Now()
			}
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		if first != nil {
			first.ConversationID = conv.ID
			if err := tx.Create(first).Error; err != nil {
				return err
			}
			for _, d := range deliveries {
				d.MessageID = first.ID
				d.ConversationID = conv.ID
				if d.DeliveredAt.IsZero() {
					d.DeliveredAt = time.Now()
				}
				if err := tx.Create(d).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// GetConversation 根据会话 ID 获取会话
func (s *conversationRepoImpl) GetConversation(ctx context.Context, convID uint64) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.WithContext(ctx).First(&conv, convID).Error
	return &conv, err
}

// ListVisible 查看者可见的会话列表。可见性 = 在场参与者（left_at 为空），
// 过滤器语义与前端收件箱完全一致。
func (s *conversationRepoImpl) ListVisible(ctx context.Context, viewerID uint64, q ConversationQuery) ([]*model.Conversation, error) {
	db := s.db.WithContext(ctx).Table("conversations c").
		Select("c.*").
		Joins("JOIN conversation_participants p ON p.conversation_id = c.id").
		Where("p.user_id = ? AND p.left_at IS NULL", viewerID)

	switch q.Filter {
	case consts.FilterStarred:
		db = db.Where("c.is_starred = ?", true)
	case consts.FilterArchived:
		db = db.Where("c.is_archived = ?", true)
	case consts.FilterSent:
		db = db.Where("c.created_by = ? AND c.is_archived = ?", viewerID, false)
	case consts.FilterDrafts:
		// 空草稿集合意味着空结果，绝不能退化成"全部"
		if len(q.DraftIDs) == 0 {
			return []*model.Conversation{}, nil
		}
		db = db.Where("c.id IN ?", q.DraftIDs)
	case consts.FilterMaintenance:
		db = db.Where("c.type = ?", consts.ConversationMaintenance)
	case consts.FilterProperties:
		db = db.Where("c.type = ?", consts.ConversationProperty)
	case consts.FilterTenants:
		db = db.Where("c.type = ?", consts.ConversationTenant)
	default: // inbox：非归档且非本人发起
		db = db.Where("c.is_archived = ? AND c.created_by != ?", false, viewerID)
	}

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		db = db.Where("(LOWER(c.title) LIKE ? OR LOWER(c.last_sender_name) LIKE ?)", pattern, pattern)
	}

	var convs []*model.Conversation
	err := db.Order("c.last_message_at IS NULL, c.last_message_at DESC, c.created_at DESC").
		Find(&convs).Error
	return convs, err
}

// IsParticipant 检查用户是否是会话的在场参与者
func (s *conversationRepoImpl) IsParticipant(ctx context.Context, convID uint64, userID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ? AND left_at IS NULL", convID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetParticipants 获取会话全部在场参与者
func (s *conversationRepoImpl) GetParticipants(ctx context.Context, convID uint64) ([]*model.ConversationParticipant, error) {
	var participants []*model.ConversationParticipant
	err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND left_at IS NULL", convID).
		Find(&participants).Error
	return participants, err
}

// BumpThread 发送成功后的会话摘要更新。
// thread_count 用数据库侧自增表达式，并发发送不丢计数。
func (s *conversationRepoImpl) BumpThread(ctx context.Context, convID uint64, senderName string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ?", convID).
		Updates(map[string]interface{}{
			"thread_count":     gorm.Expr("thread_count + 1"),
			"last_message_at":  at,
			"last_sender_name": senderName,
			"updated_at":       at,
		}).Error
}

// SetStarred 幂等的星标更新
func (s *conversationRepoImpl) SetStarred(ctx context.Context, convID uint64, starred bool) error {
	return s.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ?", convID).
		Updates(map[string]interface{}{
			"is_starred": starred,
			"updated_at": time.Now(),
		}).Error
}

// SetArchived 幂等的归档更新
func (s *conversationRepoImpl) SetArchived(ctx context.Context, convID uint64, archived bool) error {
	return s.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ?", convID).
		Updates(map[string]interface{}{
			"is_archived": archived,
			"updated_at":  time.Now(),
		}).Error
}

// TouchLastRead 更新参与者的最后阅读时间
func (s *conversationRepoImpl) TouchLastRead(ctx context.Context, convID uint64, userID uint64, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Update("last_read_at", at).Error
}

// RecountThreads 对账任务用：按非删除非草稿消息数重算冗余计数
func (s *conversationRepoImpl) RecountThreads(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Exec(
		"UPDATE conversations c SET c.thread_count = (" +
			"SELECT COUNT(*) FROM messages m " +
			"WHERE m.conversation_id = c.id AND m.deleted_at IS NULL AND m.is_draft = 0)")
	return result.RowsAffected, result.Error
}
