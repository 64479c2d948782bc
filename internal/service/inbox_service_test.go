package service

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/pkg/consts"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboxFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	received := f.createConversation(ctx, alice.ID, "From Alice", []uint64{bob.ID}, "hello bob")
	sent := f.createConversation(ctx, bob.ID, "From Bob", []uint64{alice.ID}, "hello alice")
	archived := f.createConversation(ctx, alice.ID, "Old thread", []uint64{bob.ID}, "done deal")
	require.NoError(t, f.convs.SetArchived(ctx, bob.ID, archived.ID, true))
	require.NoError(t, f.convs.SetStarred(ctx, bob.ID, received.ID, true))

	// inbox：排除自己发起的和已归档的
	resp, err := f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, received.ID, resp.Conversations[0].ID)
	assert.True(t, resp.Conversations[0].IsStarred)

	// sent：自己发起的未归档会话
	resp, err = f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{Filter: consts.FilterSent})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, sent.ID, resp.Conversations[0].ID)

	// starred / archived
	resp, err = f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{Filter: consts.FilterStarred})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, received.ID, resp.Conversations[0].ID)

	resp, err = f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{Filter: consts.FilterArchived})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, archived.ID, resp.Conversations[0].ID)
}

func TestInboxDraftsFilter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	conv := f.createConversation(ctx, alice.ID, "Repairs", []uint64{bob.ID}, "list of repairs")

	// 没有任何草稿时 drafts 过滤返回空列表，而不是全部会话
	resp, err := f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{Filter: consts.FilterDrafts})
	require.NoError(t, err)
	assert.Empty(t, resp.Conversations)

	_, err = f.messages.SaveDraft(ctx, bob.ID, &dto.SaveDraftReq{
		ConversationID: conv.ID,
		Content:        "half-written reply",
	})
	require.NoError(t, err)

	// 预览展示草稿本身而不是最后一条已发送消息
	resp, err = f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{Filter: consts.FilterDrafts})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, conv.ID, resp.Conversations[0].ID)
	assert.Equal(t, "half-written reply", resp.Conversations[0].LastMessagePreview)
}

func TestInboxUnreadCountsAndTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	first := f.createConversation(ctx, alice.ID, "Thread one", []uint64{bob.ID}, "one")
	second := f.createConversation(ctx, alice.ID, "Thread two", []uint64{bob.ID}, "two")
	_, err := f.messages.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ConversationID: second.ID, Content: "two again"})
	require.NoError(t, err)

	resp, err := f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.UnreadTotal)

	byID := make(map[uint64]*dto.ConversationSummaryDTO)
	for _, c := range resp.Conversations {
		byID[c.ID] = c
	}
	assert.Equal(t, int64(1), byID[first.ID].UnreadCount)
	assert.Equal(t, int64(2), byID[second.ID].UnreadCount)

	// 已读后缓存失效，未读数立刻归零
	_, err = f.convs.MarkRead(ctx, bob.ID, second.ID)
	require.NoError(t, err)
	resp, err = f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.UnreadTotal)
}

func TestInboxCacheInvalidatedOnNewMessage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	conv := f.createConversation(ctx, alice.ID, "Fresh", []uint64{bob.ID}, "first")

	resp, err := f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.UnreadTotal)

	_, err = f.messages.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ConversationID: conv.ID, Content: "second"})
	require.NoError(t, err)

	// TTL 未到也能看到新消息，靠发送路径的前缀失效
	resp, err = f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.UnreadTotal)
	assert.Equal(t, "second", resp.Conversations[0].LastMessagePreview)
}

func TestInboxOrderingNullsLast(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	older := f.createConversation(ctx, alice.ID, "Older", []uint64{bob.ID}, "a")
	newer := f.createConversation(ctx, alice.ID, "Newer", []uint64{bob.ID}, "b")
	_, err := f.messages.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ConversationID: newer.ID, Content: "bump"})
	require.NoError(t, err)

	// 从未有过消息的会话沉底
	quiet := f.createConversation(ctx, alice.ID, "Quiet", []uint64{bob.ID}, "ignored")
	f.st.conversations[quiet.ID].LastMessageAt = nil
	f.cache.InvalidatePrefix("inbox:")

	resp, err := f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 3)
	assert.Equal(t, newer.ID, resp.Conversations[0].ID)
	assert.Equal(t, older.ID, resp.Conversations[1].ID)
	assert.Equal(t, quiet.ID, resp.Conversations[2].ID)
}

func TestInboxSearchIsCaseInsensitive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice Smith")
	bob := f.st.addProfile("Bob")

	plumbing := f.createConversation(ctx, alice.ID, "Plumbing Quote", []uint64{bob.ID}, "quote attached")
	f.createConversation(ctx, alice.ID, "Paint colors", []uint64{bob.ID}, "swatches")

	resp, err := f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{Search: "pLuMb"})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, plumbing.ID, resp.Conversations[0].ID)

	// 最后发送者的显示名也参与匹配
	resp, err = f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{Search: "smith"})
	require.NoError(t, err)
	assert.Len(t, resp.Conversations, 2)

	resp, err = f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{Search: "no such thing"})
	require.NoError(t, err)
	assert.Empty(t, resp.Conversations)
}

func TestInboxFallsBackToUnknownUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	conv := f.createConversation(ctx, alice.ID, "Orphaned", []uint64{bob.ID}, "last words")

	// 冗余显示名缺失且资料已删除
	f.st.conversations[conv.ID].LastSenderName = ""
	delete(f.st.profiles, alice.ID)

	resp, err := f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, consts.UnknownUserName, resp.Conversations[0].LastSenderName)
}

func TestInboxMutedAndLabels(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.st.addProfile("Alice")
	bob := f.st.addProfile("Bob")

	conv := f.createConversation(ctx, alice.ID, "Labelled", []uint64{bob.ID}, "hello")
	require.NoError(t, f.convs.AddLabel(ctx, bob.ID, conv.ID, "vendor"))
	_, err := f.convs.ToggleMute(ctx, bob.ID, conv.ID)
	require.NoError(t, err)

	resp, err := f.inbox.ListConversations(ctx, bob.ID, &dto.InboxQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.True(t, resp.Conversations[0].IsMuted)
	assert.ElementsMatch(t, []string{"vendor", consts.MuteLabel}, resp.Conversations[0].Labels)

	// 标签属于查看者，创建者视角干干净净
	resp, err = f.inbox.ListConversations(ctx, alice.ID, &dto.InboxQuery{Filter: consts.FilterSent})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.False(t, resp.Conversations[0].IsMuted)
	assert.Empty(t, resp.Conversations[0].Labels)
}
