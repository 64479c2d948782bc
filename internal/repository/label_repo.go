package repository

import (
	"Homeport/internal/model"
	"context"

	"gorm.io/gorm"
)

type LabelRepo interface {
	Add(ctx context.Context, userID uint64, convID uint64, label string) error
	Remove(ctx context.Context, userID uint64, convID uint64, label string) error
	GetLabels(ctx context.Context, userID uint64, convID uint64) ([]string, error)
	ListByViewer(ctx context.Context, userID uint64, convIDs []uint64) (map[uint64][]string, error)
	HasLabel(ctx context.Context, userID uint64, convID uint64, label string) (bool, error)
}

type labelRepoImpl struct {
	db *gorm.DB
}

func NewLabelRepo(db *gorm.DB) LabelRepo {
	return &labelRepoImpl{db: db}
}

// Add 添加标签，重复添加靠唯一索引与 FirstOrCreate 保持幂等
func (s *labelRepoImpl) Add(ctx context.Context, userID uint64, convID uint64, label string) error {
	return s.db.WithContext(ctx).
		Where(&model.ConversationLabel{UserID: userID, ConversationID: convID, Label: label}).
		FirstOrCreate(&model.ConversationLabel{UserID: userID, ConversationID: convID, Label: label}).Error
}

// Remove 移除标签，标签不存在时静默成功
func (s *labelRepoImpl) Remove(ctx context.Context, userID uint64, convID uint64, label string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ? AND label = ?", userID, convID, label).
		Delete(&model.ConversationLabel{}).Error
}

// GetLabels 单个会话上查看者的全部标签
func (s *labelRepoImpl) GetLabels(ctx context.Context, userID uint64, convID uint64) ([]string, error) {
	var labels []string
	err := s.db.WithContext(ctx).Model(&model.ConversationLabel{}).
		Where("user_id = ? AND conversation_id = ?", userID, convID).
		Order("label ASC").
		Pluck("label", &labels).Error
	return labels, err
}

// ListByViewer 按会话分组取回查看者标签，列表富化一次查完
func (s *labelRepoImpl) ListByViewer(ctx context.Context, userID uint64, convIDs []uint64) (map[uint64][]string, error) {
	result := make(map[uint64][]string)
	if len(convIDs) == 0 {
		return result, nil
	}
	var rows []*model.ConversationLabel
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id IN ?", userID, convIDs).
		Order("label ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		result[r.ConversationID] = append(result[r.ConversationID], r.Label)
	}
	return result, nil
}

// HasLabel 查看者在会话上是否持有指定标签
func (s *labelRepoImpl) HasLabel(ctx context.Context, userID uint64, convID uint64, label string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ConversationLabel{}).
		Where("user_id = ? AND conversation_id = ? AND label = ?", userID, convID, label).
		Count(&count).Error
	return count > 0, err
}
