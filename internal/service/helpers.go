package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/model"
	"Homeport/internal/pkg/consts"
	"Homeport/internal/pkg/minio"
	"Homeport/internal/repository"
	"context"
	"strconv"
	"time"
)

// 缓存键布局：
//   inbox:<viewer>:<filter>:<search>
//   thread:<conversation>:<viewer>[:page:<n>]
// thread 键第二段放会话 ID，同一会话的全部查看者视图可按前缀整体失效。
func threadKey(convID, viewerID uint64) string {
	return "thread:" + strconv.FormatUint(convID, 10) + ":" + strconv.FormatUint(viewerID, 10)
}

func threadPageKey(convID, viewerID uint64, page int) string {
	return threadKey(convID, viewerID) + ":page:" + strconv.Itoa(page)
}

func threadPrefix(convID uint64) string {
	return "thread:" + strconv.FormatUint(convID, 10) + ":"
}

func inboxPrefix(viewerID uint64) string {
	return "inbox:" + strconv.FormatUint(viewerID, 10) + ":"
}

// importanceOrDefault 请求未携带重要级别时落默认值
func importanceOrDefault(importance string) string {
	if importance == "" {
		return consts.ImportanceNormal
	}
	return importance
}

// resolveDisplayName 发送者显示名，资料缺失用占位名
func resolveDisplayName(ctx context.Context, profileRepo repository.ProfileRepo, userID uint64) string {
	profile, err := profileRepo.GetByID(ctx, userID)
	if err != nil || profile == nil || profile.DisplayName == "" {
		return consts.UnknownUserName
	}
	return profile.DisplayName
}

func toModelAttachments(attachments []dto.AttachmentDTO) []model.Attachment {
	if len(attachments) == 0 {
		return nil
	}
	result := make([]model.Attachment, 0, len(attachments))
	for _, a := range attachments {
		result = append(result, model.Attachment{
			MimeType:  a.MimeType,
			ObjectKey: a.ObjectKey,
			Name:      a.Name,
			Size:      a.Size,
		})
	}
	return result
}

func toAttachmentDTOs(attachments []model.Attachment) []dto.AttachmentDTO {
	result := make([]dto.AttachmentDTO, 0, len(attachments))
	for _, a := range attachments {
		result = append(result, dto.AttachmentDTO{
			MimeType:  a.MimeType,
			ObjectKey: a.ObjectKey,
			Name:      a.Name,
			Size:      a.Size,
			URL:       minio.GetPublicURL(a.ObjectKey),
		})
	}
	return result
}

func toMessageDTO(msg *model.Message, senderName string) *dto.MessageDTO {
	return &dto.MessageDTO{
		ID:             strconv.FormatUint(msg.ID, 10),
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		SenderName:     senderName,
		Content:        msg.Content,
		Subject:        msg.Subject,
		Importance:     msg.Importance,
		Attachments:    toAttachmentDTOs(msg.Attachments),
		IsDraft:        msg.IsDraft,
		Deleted:        msg.DeletedAt.Valid,
		EditedAt:       msg.EditedAt,
		CreatedAt:      msg.CreatedAt,
	}
}

// buildDeliveries 为全体在场参与者生成投递行，发送者的行预置为已读
func buildDeliveries(participants []*model.ConversationParticipant, senderID uint64, at time.Time) []*model.MessageDelivery {
	deliveries := make([]*model.MessageDelivery, 0, len(participants))
	for _, p := range participants {
		d := &model.MessageDelivery{
			UserID:      p.UserID,
			DeliveredAt: at,
		}
		if p.UserID == senderID {
			readAt := at
			d.ReadAt = &readAt
		}
		deliveries = append(deliveries, d)
	}
	return deliveries
}
