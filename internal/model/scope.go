package model

// Scope identifies who sent a request and from which chat.
type Scope struct {
	UserID      int64
	Username    string
	ChatID      int64 // private chat with the user
	GroupChatID int64 // non-zero when the message came from a group
	Timezone    string
	// Guest requests are answered but never persisted.
	Guest bool
}

// ReminderScope is the scope a reminder created from this request gets.
func (sc Scope) ReminderScope() ReminderScope {
	if sc.GroupChatID != 0 {
		return ScopeGroup
	}
	return ScopePrivate
}
