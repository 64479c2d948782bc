package repository

import (
	"Homeport/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type DeliveryRepo interface {
	UnreadCounts(ctx context.Context, viewerID uint64, convIDs []uint64) (map[uint64]int64, error)
	UnreadTotal(ctx context.Context, viewerID uint64) (int64, error)
	MarkConversationRead(ctx context.Context, viewerID uint64, convID uint64, at time.Time) (int64, error)
}

type deliveryRepoImpl struct {
	db *gorm.DB
}

func NewDeliveryRepo(db *gorm.DB) DeliveryRepo {
	return &deliveryRepoImpl{db: db}
}

type unreadRow struct {
	ConversationID uint64
	Cnt            int64
}

// UnreadCounts 分组统计查看者在各会话的未读数。
// 未读 = 投递行 read_at 为空，且消息是已发送且未删除的。
func (s *deliveryRepoImpl) UnreadCounts(ctx context.Context, viewerID uint64, convIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64)
	if len(convIDs) == 0 {
		return result, nil
	}
	var rows []unreadRow
	err := s.db.WithContext(ctx).Raw(
		"SELECT d.conversation_id, COUNT(*) AS cnt "+
			"FROM message_deliveries d "+
			"JOIN messages m ON m.id = d.message_id "+
			"WHERE d.user_id = ? AND d.conversation_id IN ? AND d.read_at IS NULL "+
			"AND m.is_draft = 0 AND m.deleted_at IS NULL "+
			"GROUP BY d.conversation_id", viewerID, convIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		result[r.ConversationID] = r.Cnt
	}
	return result, nil
}

// UnreadTotal 查看者全部会话的未读总数，角标用
func (s *deliveryRepoImpl) UnreadTotal(ctx context.Context, viewerID uint64) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.MessageDelivery{}).
		Joins("JOIN messages m ON m.id = message_deliveries.message_id").
		Where("message_deliveries.user_id = ? AND message_deliveries.read_at IS NULL", viewerID).
		Where("m.is_draft = ? AND m.deleted_at IS NULL", false).
		Count(&total).Error
	return total, err
}

// MarkConversationRead 批量已读，只改查看者自己的未读行，天然幂等。
// 返回本次实际置读的行数。
func (s *deliveryRepoImpl) MarkConversationRead(ctx context.Context, viewerID uint64, convID uint64, at time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.MessageDelivery{}).
		Where("user_id = ? AND conversation_id = ? AND read_at IS NULL", viewerID, convID).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}
