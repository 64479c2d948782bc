package consts

const (
	InboxUnreadKey     = "inbox:unread:"
	NotifyPrefKey      = "notify:pref:"
	ProfileNameKey     = "profile:name:"
	ConversationKey    = "inbox:conversation:"
	ThreadRecountLock  = "lock:thread:recount"
	ThreadRecountDirty = "thread:recount:dirty"
)
