package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifySkipsTimeBoxedMute(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")
	carol := f.st.addProfile("Carol")

	until := time.Now().Add(time.Hour)
	f.st.preferences[bob.ID] = &model.NotificationPreference{
		UserID:       bob.ID,
		EmailEnabled: true,
		PushEnabled:  true,
		MutedUntil:   &until,
	}
	expired := time.Now().Add(-time.Hour)
	f.st.preferences[carol.ID] = &model.NotificationPreference{
		UserID:     carol.ID,
		SMSEnabled: true,
		MutedUntil: &expired,
	}

	conv := f.createConversation(ctx, alice.ID, "Announcements", []uint64{bob.ID, carol.ID}, "new rules")

	// Bob 静音期内被跳过，Carol 的静音已过期照常投递
	require.Len(t, f.producer.events, 1)
	event := f.producer.events[0]
	assert.Equal(t, carol.ID, event.RecipientID)
	assert.Equal(t, conv.ID, event.ConversationID)
	assert.Equal(t, "Alice", event.SenderName)

	// 偏好在发布时快照进事件
	assert.True(t, event.SMSEnabled)
	assert.False(t, event.EmailEnabled)
	assert.False(t, event.PushEnabled)
}

func TestNotifyPreviewTruncation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	long := make([]rune, 0, 200)
	for i := 0; i < 200; i++ {
		long = append(long, '字')
	}
	conv := f.createConversation(ctx, alice.ID, "Long one", []uint64{bob.ID}, string(long))
	require.NotZero(t, conv.ID)

	require.Len(t, f.producer.events, 1)
	preview := []rune(f.producer.events[0].Preview)
	assert.Len(t, preview, previewMaxRunes+1)
	assert.Equal(t, '…', preview[len(preview)-1])
}

func TestSendMessageWithAttachments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	conv := f.createConversation(ctx, alice.ID, "Lease docs", []uint64{bob.ID}, "see attached")
	sent, err := f.messages.SendMessage(ctx, alice.ID, &dto.SendMessageReq{
		ConversationID: conv.ID,
		Content:        "signed copy",
		Attachments: []dto.AttachmentDTO{
			{MimeType: "application/pdf", Name: "lease.pdf", Size: 1024},
		},
	})
	require.NoError(t, err)
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, "lease.pdf", sent.Attachments[0].Name)

	stored := f.st.messages[mustParseID(t, sent.ID)]
	require.Len(t, stored.Attachments, 1)
	assert.Equal(t, "application/pdf", stored.Attachments[0].MimeType)
}
