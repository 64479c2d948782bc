package repository

import (
	"Homeport/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type MessageRepo interface {
	CreateMessage(ctx context.Context, msg *model.Message, deliveries []*model.MessageDelivery) error
	GetMessageByID(ctx context.Context, msgID uint64) (*model.Message, error)
	ListThread(ctx context.Context, convID uint64, viewerID uint64, draftsOnly bool) ([]*model.Message, error)
	ListThreadPage(ctx context.Context, convID uint64, page int, pageSize int) ([]*model.Message, error)
	LastMessages(ctx context.Context, convIDs []uint64) (map[uint64]*model.Message, error)
	DraftConversationIDs(ctx context.Context, viewerID uint64) ([]uint64, error)
	UpdateContent(ctx context.Context, msgID uint64, content string, editedAt time.Time) error
	SoftDelete(ctx context.Context, msgID uint64) error
	PromoteDraft(ctx context.Context, msgID uint64, at time.Time, deliveries []*model.MessageDelivery) error
	UpdateDraft(ctx context.Context, msgID uint64, content string, subject string, importance string, attachments []model.Attachment) error
	LastDrafts(ctx context.Context, convIDs []uint64, viewerID uint64) (map[uint64]*model.Message, error)
}

type messageRepoImpl struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepoImpl{db: db}
}

// CreateMessage 事务写入消息及其投递行，投递行的 message_id 在事务内回填
func (s *messageRepoImpl) CreateMessage(ctx context.Context, msg *model.Message, deliveries []*model.MessageDelivery) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		for _, d := range deliveries {
			d.MessageID = msg.ID
			d.ConversationID = msg.ConversationID
			if d.DeliveredAt.IsZero() {
				d.DeliveredAt = time.Now()
			}
			if err := tx.Create(d).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetMessageByID 按 ID 获取消息。软删除的消息仍可按 ID 取到，
// 列表查询则各自排除 deleted_at。
func (s *messageRepoImpl) GetMessageByID(ctx context.Context, msgID uint64) (*model.Message, error) {
	var msg model.Message
	err := s.db.WithContext(ctx).Unscoped().First(&msg, msgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &msg, err
}

// ListThread 会话消息的时间正序全量视图。
// draftsOnly 时只返回查看者本人的草稿，否则只返回已发送消息。
func (s *messageRepoImpl) ListThread(ctx context.Context, convID uint64, viewerID uint64, draftsOnly bool) ([]*model.Message, error) {
	db := s.db.WithContext(ctx).Where("conversation_id = ?", convID)
	if draftsOnly {
		db = db.Where("is_draft = ? AND sender_id = ?", true, viewerID)
	} else {
		db = db.Where("is_draft = ?", false)
	}
	var msgs []*model.Message
	err := db.Order("created_at ASC, id ASC").Find(&msgs).Error
	return msgs, err
}

// ListThreadPage 倒序分页，page 从 0 开始
func (s *messageRepoImpl) ListThreadPage(ctx context.Context, convID uint64, page int, pageSize int) ([]*model.Message, error) {
	var msgs []*model.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND is_draft = ?", convID, false).
		Order("created_at DESC, id DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&msgs).Error
	return msgs, err
}

// LastMessages 一次查询取回每个会话的最新非草稿消息，供列表富化使用
func (s *messageRepoImpl) LastMessages(ctx context.Context, convIDs []uint64) (map[uint64]*model.Message, error) {
	result := make(map[uint64]*model.Message)
	if len(convIDs) == 0 {
		return result, nil
	}
	var msgs []*model.Message
	err := s.db.WithContext(ctx).Raw(
		"SELECT t.* FROM ("+
			"SELECT m.*, ROW_NUMBER() OVER (PARTITION BY m.conversation_id ORDER BY m.created_at DESC, m.id DESC) AS rn "+
			"FROM messages m "+
			"WHERE m.conversation_id IN ? AND m.is_draft = 0 AND m.deleted_at IS NULL"+
			") t WHERE t.rn = 1", convIDs).
		Scan(&msgs).Error
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		result[m.ConversationID] = m
	}
	return result, nil
}

// DraftConversationIDs 查看者持有草稿的会话 ID 集合
func (s *messageRepoImpl) DraftConversationIDs(ctx context.Context, viewerID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Message{}).
		Where("sender_id = ? AND is_draft = ?", viewerID, true).
		Distinct().
		Pluck("conversation_id", &ids).Error
	return ids, err
}

// UpdateContent 编辑消息正文并记录编辑时间
func (s *messageRepoImpl) UpdateContent(ctx context.Context, msgID uint64, content string, editedAt time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", msgID).
		Updates(map[string]interface{}{
			"content":   content,
			"edited_at": editedAt,
		}).Error
}

// SoftDelete 软删除消息，按 ID 仍可取回
func (s *messageRepoImpl) SoftDelete(ctx context.Context, msgID uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Message{}, msgID).Error
}

// PromoteDraft 草稿转正：同一事务里翻转 is_draft、把发送时刻写回 created_at，
// 并补齐全体参与者的投递行
func (s *messageRepoImpl) PromoteDraft(ctx context.Context, msgID uint64, at time.Time, deliveries []*model.MessageDelivery) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Message{}).
			Where("id = ? AND is_draft = ?", msgID, true).
			Updates(map[string]interface{}{
				"is_draft":   false,
				"created_at": at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		for _, d := range deliveries {
			d.MessageID = msgID
			if d.DeliveredAt.IsZero() {
				d.DeliveredAt = at
			}
			if err := tx.Create(d).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LastDrafts 每个会话里查看者最新的一条草稿，drafts 过滤的预览用
func (s *messageRepoImpl) LastDrafts(ctx context.Context, convIDs []uint64, viewerID uint64) (map[uint64]*model.Message, error) {
	result := make(map[uint64]*model.Message)
	if len(convIDs) == 0 {
		return result, nil
	}
	var msgs []*model.Message
	err := s.db.WithContext(ctx).Raw(
		"SELECT t.* FROM ("+
			"SELECT m.*, ROW_NUMBER() OVER (PARTITION BY m.conversation_id ORDER BY m.updated_at DESC, m.id DESC) AS rn "+
			"FROM messages m "+
			"WHERE m.conversation_id IN ? AND m.sender_id = ? AND m.is_draft = 1 AND m.deleted_at IS NULL"+
			") t WHERE t.rn = 1", convIDs, viewerID).
		Scan(&msgs).Error
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		result[m.ConversationID] = m
	}
	return result, nil
}

// UpdateDraft 覆盖保存草稿内容
func (s *messageRepoImpl) UpdateDraft(ctx context.Context, msgID uint64, content string, subject string, importance string, attachments []model.Attachment) error {
	return s.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ? AND is_draft = ?", msgID, true).
		Select("content", "subject", "importance", "attachments").
		Updates(&model.Message{Content: content, Subject: subject, Importance: importance, Attachments: attachments}).Error
}
