package service

import (
	"Homeport/internal/model"
	"Homeport/internal/pkg/consts"
	"Homeport/internal/pkg/kafka"
	"Homeport/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// NotifyService 新消息旁路通知。发布失败只影响通知，不回滚消息本身。
type NotifyService interface {
	PublishNewMessage(ctx context.Context, conv *model.Conversation, msg *model.Message, senderName string, recipients []uint64)
}

type notifyServiceImpl struct {
	preferenceRepo repository.PreferenceRepo
	labelRepo      repository.LabelRepo
	producer       kafka.NotifyProducer
}

func NewNotifyService(preferenceRepo repository.PreferenceRepo, labelRepo repository.LabelRepo, producer kafka.NotifyProducer) NotifyService {
	return &notifyServiceImpl{
		preferenceRepo: preferenceRepo,
		labelRepo:      labelRepo,
		producer:       producer,
	}
}

// PublishNewMessage 为每个未静音的接收者投一条通知事件，
// 偏好在发布时快照进事件，消费侧不再回查
func (s *notifyServiceImpl) PublishNewMessage(ctx context.Context, conv *model.Conversation, msg *model.Message, senderName string, recipients []uint64) {
	if len(recipients) == 0 {
		return
	}

	prefs, err := s.preferenceRepo.GetByIDs(ctx, recipients)
	if err != nil {
		log.Error("load notify preferences error", "conversation_id", conv.ID, "err", err)
		prefs = map[uint64]*model.NotificationPreference{}
	}

	now := time.Now()
	for _, recipient := range recipients {
		if recipient == msg.SenderID {
			continue
		}

		pref, ok := prefs[recipient]
		if !ok {
			pref = model.DefaultPreference(recipient)
		}
		if pref.MutedUntil != nil && pref.MutedUntil.After(now) {
			continue
		}

		muted, err := s.labelRepo.HasLabel(ctx, recipient, conv.ID, consts.MuteLabel)
		if err != nil {
			log.Error("check mute label error", "recipient_id", recipient, "err", err)
		}
		if muted {
			continue
		}

		event := &kafka.NotifyEvent{
			Type:           eventType(conv.Type),
			RecipientID:    recipient,
			SenderID:       msg.SenderID,
			SenderName:     senderName,
			ConversationID: conv.ID,
			MessageID:      msg.ID,
			Title:          conv.Title,
			Preview:        truncatePreview(msg.Content),
			EmailEnabled:   pref.EmailEnabled,
			SMSEnabled:     pref.SMSEnabled,
			PushEnabled:    pref.PushEnabled,
			OccurredAt:     now,
		}
		if err := s.producer.SendNotify(event); err != nil {
			log.Error("publish notify event error", "recipient_id", recipient, "err", err)
		}
	}
}

func eventType(convType string) string {
	switch convType {
	case consts.ConversationBroadcast:
		return kafka.EventBroadcast
	case consts.ConversationMaintenance:
		return kafka.EventMaintenance
	default:
		return kafka.EventNewMessage
	}
}
