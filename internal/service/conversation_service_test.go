package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/pkg/consts"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConversationDeduplicatesParticipants(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	// 重复的接收者与创建者自己都会被去重
	summary, err := f.convs.CreateConversation(ctx, alice.ID, &dto.CreateConversationReq{
		Title:          "Move-in checklist",
		ParticipantIDs: []uint64{bob.ID, bob.ID, alice.ID},
		Content:        "Welcome!",
	})
	require.NoError(t, err)

	participants, err := (&fakeConvRepo{st: f.st}).GetParticipants(ctx, summary.ID)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, alice.ID, participants[0].UserID)
	assert.Equal(t, consts.ParticipantAdmin, participants[0].Role)
	assert.Equal(t, bob.ID, participants[1].UserID)
	assert.Equal(t, consts.ParticipantMember, participants[1].Role)

	// 会话、首消息与投递原子落库
	assert.Equal(t, uint64(1), summary.ThreadCount)
	assert.Equal(t, "Welcome!", summary.LastMessagePreview)
	assert.Equal(t, "Alice", summary.LastSenderName)
	assert.Len(t, f.st.deliveries, 2)
}

func TestCreateConversationWithoutTitle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	// 点对点会话可以不命名
	summary, err := f.convs.CreateConversation(ctx, alice.ID, &dto.CreateConversationReq{
		ParticipantIDs: []uint64{bob.ID},
		Content:        "quick question",
	})
	require.NoError(t, err)
	assert.Empty(t, summary.Title)
	assert.Equal(t, consts.ConversationDirect, summary.Type)

	resp, err := f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, summary.ID, resp.Conversations[0].ID)
}

func TestCreateConversationRequiresOtherParticipant(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")

	_, err := f.convs.CreateConversation(ctx, alice.ID, &dto.CreateConversationReq{
		Title:          "Talking to myself",
		ParticipantIDs: []uint64{alice.ID},
		Content:        "hi",
	})
	assert.ErrorIs(t, err, ErrNoParticipants)

	_, err = f.convs.CreateConversation(ctx, alice.ID, &dto.CreateConversationReq{
		Title:          "No body",
		ParticipantIDs: []uint64{alice.ID + 1},
	})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestGetConversationEnrichment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")
	eve := f.st.addProfile("Eve")

	conv := f.createConversation(ctx, alice.ID, "Heating issue", []uint64{bob.ID}, "No heat in unit 4B")
	require.NoError(t, f.convs.AddLabel(ctx, bob.ID, conv.ID, "urgent"))

	got, err := f.convs.GetConversation(ctx, bob.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.UnreadCount)
	assert.Equal(t, []string{"urgent"}, got.Labels)
	assert.Equal(t, "No heat in unit 4B", got.LastMessagePreview)
	assert.False(t, got.IsMuted)

	// 标签是查看者私有的
	fromAlice, err := f.convs.GetConversation(ctx, alice.ID, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, fromAlice.Labels)
	assert.Equal(t, int64(0), fromAlice.UnreadCount)

	_, err = f.convs.GetConversation(ctx, eve.ID, conv.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
	_, err = f.convs.GetConversation(ctx, eve.ID, 404)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestMarkReadIsIdempotentAndViewerScoped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")
	carol := f.st.addProfile("Carol")

	conv := f.createConversation(ctx, alice.ID, "Building notice", []uint64{bob.ID, carol.ID}, "Water off Friday")
	_, err := f.messages.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ConversationID: conv.ID, Content: "9am to noon"})
	require.NoError(t, err)

	resp, err := f.convs.MarkRead(ctx, bob.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Marked)

	// 再标一次没有可置读的行
	resp, err = f.convs.MarkRead(ctx, bob.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Marked)

	// 只动自己的投递行，Carol 的未读不受影响
	carolUnread, _ := (&fakeDeliveryRepo{st: f.st}).UnreadTotal(ctx, carol.ID)
	assert.Equal(t, int64(2), carolUnread)
	bobUnread, _ := (&fakeDeliveryRepo{st: f.st}).UnreadTotal(ctx, bob.ID)
	assert.Equal(t, int64(0), bobUnread)
}

func TestToggleMuteFlipsLabel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	conv := f.createConversation(ctx, alice.ID, "Chatty neighbors", []uint64{bob.ID}, "hello")

	muted, err := f.convs.ToggleMute(ctx, bob.ID, conv.ID)
	require.NoError(t, err)
	assert.True(t, muted)

	got, err := f.convs.GetConversation(ctx, bob.ID, conv.ID)
	require.NoError(t, err)
	assert.True(t, got.IsMuted)
	assert.Contains(t, got.Labels, consts.MuteLabel)

	muted, err = f.convs.ToggleMute(ctx, bob.ID, conv.ID)
	require.NoError(t, err)
	assert.False(t, muted)

	got, _ = f.convs.GetConversation(ctx, bob.ID, conv.ID)
	assert.False(t, got.IsMuted)
	assert.Empty(t, got.Labels)
}

func TestMutedRecipientSkipsNotification(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")
	carol := f.st.addProfile("Carol")

	conv := f.createConversation(ctx, alice.ID, "Group chat", []uint64{bob.ID, carol.ID}, "hi all")
	baseline := len(f.producer.events)

	_, err := f.convs.ToggleMute(ctx, bob.ID, conv.ID)
	require.NoError(t, err)

	_, err = f.messages.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ConversationID: conv.ID, Content: "anyone there?"})
	require.NoError(t, err)

	// 静音的 Bob 收不到通知事件，Carol 照常
	sent := f.producer.events[baseline:]
	require.Len(t, sent, 1)
	assert.Equal(t, carol.ID, sent[0].RecipientID)
	assert.Equal(t, "anyone there?", sent[0].Preview)
	assert.True(t, sent[0].EmailEnabled)
	assert.True(t, sent[0].PushEnabled)
	assert.False(t, sent[0].SMSEnabled)
}

func TestStarAndArchiveGates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")
	eve := f.st.addProfile("Eve")

	conv := f.createConversation(ctx, alice.ID, "Gym access", []uint64{bob.ID}, "fob request")

	require.NoError(t, f.convs.SetStarred(ctx, bob.ID, conv.ID, true))
	assert.True(t, f.st.conversations[conv.ID].IsStarred)
	require.NoError(t, f.convs.SetArchived(ctx, bob.ID, conv.ID, true))
	assert.True(t, f.st.conversations[conv.ID].IsArchived)

	assert.ErrorIs(t, f.convs.SetStarred(ctx, eve.ID, conv.ID, true), ErrNotParticipant)
	assert.ErrorIs(t, f.convs.SetArchived(ctx, eve.ID, conv.ID, true), ErrNotParticipant)
	assert.ErrorIs(t, f.convs.AddLabel(ctx, eve.ID, conv.ID, "x"), ErrNotParticipant)
}
