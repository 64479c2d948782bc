package kafka

import (
	"Homeport/internal/pkg/gateway"
	mongodb "Homeport/internal/pkg/mongo"
	"Homeport/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// NotifyHandler 消费通知事件：落通知盒子，再按偏好走外部网关。
// 盒子写入失败会重试整条消息，网关失败只记日志不阻塞位点。
type NotifyHandler struct {
	noticeRepo  mongodb.NoticeRepo
	profileRepo repository.ProfileRepo
	gateway     *gateway.Client
}

func NewNotifyHandler(noticeRepo mongodb.NoticeRepo, profileRepo repository.ProfileRepo, gw *gateway.Client) sarama.ConsumerGroupHandler {
	return &NotifyHandler{
		noticeRepo:  noticeRepo,
		profileRepo: profileRepo,
		gateway:     gw,
	}
}

func (s *NotifyHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (s *NotifyHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (s *NotifyHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.handle)
}

func (s *NotifyHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event NotifyEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// 毒消息没有重试价值，记日志后跳过
		log.Error("unmarshal notify event error", "err", err)
		return nil
	}

	notice := &mongodb.NoticeModel{
		ReceiverID:     event.RecipientID,
		SenderID:       event.SenderID,
		Type:           noticeType(event.Type),
		ConversationID: event.ConversationID,
		MessageID:      event.MessageID,
		Content:        event.Preview,
		Payload:        map[string]any{"title": event.Title, "sender_name": event.SenderName},
		IsRead:         false,
		CreatedAt:      time.Now(),
	}
	if err := s.noticeRepo.CreateNotice(ctx, notice); err != nil {
		return err
	}

	s.dispatchExternal(ctx, &event)
	return nil
}

// dispatchExternal 按事件里快照的偏好外发，外发失败降级为日志
func (s *NotifyHandler) dispatchExternal(ctx context.Context, event *NotifyEvent) {
	if !event.EmailEnabled && !event.SMSEnabled && !event.PushEnabled {
		return
	}

	profile, err := s.profileRepo.GetByID(ctx, event.RecipientID)
	if err != nil || profile == nil {
		log.Error("resolve notify recipient error", "recipient_id", event.RecipientID, "err", err)
		return
	}

	subject := fmt.Sprintf("%s: %s", event.SenderName, event.Title)
	if event.EmailEnabled && profile.Email != "" {
		if err := s.gateway.Dispatch(ctx, gateway.ChannelEmail, profile.Email, subject, event.Preview); err != nil {
			log.Error("dispatch email error", "recipient_id", event.RecipientID, "err", err)
		}
	}
	if event.SMSEnabled && profile.Phone != "" {
		if err := s.gateway.Dispatch(ctx, gateway.ChannelSMS, profile.Phone, "", event.Preview); err != nil {
			log.Error("dispatch sms error", "recipient_id", event.RecipientID, "err", err)
		}
	}
	if event.PushEnabled {
		if err := s.gateway.Dispatch(ctx, gateway.ChannelPush, fmt.Sprintf("user:%d", event.RecipientID), subject, event.Preview); err != nil {
			log.Error("dispatch push error", "recipient_id", event.RecipientID, "err", err)
		}
	}
}

func noticeType(eventType string) int8 {
	switch eventType {
	case EventBroadcast:
		return mongodb.NoticeBroadcast
	case EventMaintenance:
		return mongodb.NoticeMaintenance
	default:
		return mongodb.NoticeNewMessage
	}
}
