package domain

// MsgID is a message identifier. Server-assigned ids are positive;
// ids assigned client-side before server acknowledgment are negative,
// a disjoint space.
type MsgID int64

func IsClientMsgID(id MsgID) bool { return id < 0 }
func IsServerMsgID(id MsgID) bool { return id > 0 }

// GroupID ties album members together; zero means no album.
type GroupID int64

// MessageFlags is the message state bitset.
type MessageFlags uint32

const (
	FlagOut MessageFlags = 1 << iota
	FlagMentioned
	FlagMediaUnread
	FlagPost
	FlagPostAuthor
	FlagLegacy
	FlagHasReplyMarkup

	// Client-side flags, never received from the wire.
	FlagSending
	FlagFailed
	FlagClientSideUnread
)

const notificationTextLimit = 255

// ForwardedInfo records the original provenance of a forwarded
// message, distinct from the forwarding message's own sender/date/id.
type ForwardedInfo struct {
	OriginalSender *Peer // nil when the origin is hidden
	OriginalDate   int64
	OriginalID     MsgID
	OriginalAuthor string
	SavedFromPeer  *Peer
	HiddenSender   *HiddenSenderInfo
}

// ReplyMarkup is the reply-keyboard component.
type ReplyMarkup struct {
	Inline  bool
	Buttons [][]string
}

// ViaBot marks a message sent through an inline bot.
type ViaBot struct {
	Bot *Peer
}

// PostSignature carries the author signature of a channel post.
type PostSignature struct {
	Author string
}

// Message is one item of a conversation history. All mutation happens
// on the UI-owning goroutine; construction goes through the acceptance
// pipeline in the telegram adapter, never directly.
type Message struct {
	id      MsgID
	history *History
	from    *Peer
	flags   MessageFlags
	date    int64

	text     string
	entities []TextEntity
	media    *Media

	service     bool
	serviceText string

	replyToID MsgID
	groupID   GroupID

	// Optional components, a closed set (no open attachment registry).
	forwarded *ForwardedInfo
	markup    *ReplyMarkup
	via       *ViaBot
	signature *PostSignature
}

func (m *Message) ID() MsgID              { return m.id }
func (m *Message) History() *History      { return m.history }
func (m *Message) From() *Peer            { return m.from }
func (m *Message) Flags() MessageFlags    { return m.flags }
func (m *Message) Date() int64            { return m.date }
func (m *Message) Text() string           { return m.text }
func (m *Message) Entities() []TextEntity { return m.entities }
func (m *Message) Media() *Media          { return m.media }
func (m *Message) ReplyToID() MsgID       { return m.replyToID }
func (m *Message) GroupID() GroupID       { return m.groupID }
func (m *Message) IsService() bool        { return m.service }
func (m *Message) ServiceText() string    { return m.serviceText }

func (m *Message) Out() bool       { return m.flags&FlagOut != 0 }
func (m *Message) IsPost() bool    { return m.flags&FlagPost != 0 }
func (m *Message) IsLegacy() bool  { return m.flags&FlagLegacy != 0 }
func (m *Message) IsSending() bool { return m.flags&FlagSending != 0 }
func (m *Message) IsFailed() bool  { return m.flags&FlagFailed != 0 }

func (m *Message) Forwarded() *ForwardedInfo { return m.forwarded }
func (m *Message) ReplyMarkup() *ReplyMarkup { return m.markup }

func (m *Message) FullID() FullMsgID {
	return FullMsgID{PeerID: m.history.Peer.ID, MsgID: m.id}
}

// SetGroupID registers the message in its album. A group id is set at
// most once; reassignment is a caller bug.
func (m *Message) SetGroupID(groupID GroupID) {
	if m.groupID != 0 {
		panic("history: message group id reassigned")
	}
	m.groupID = groupID
	m.history.registerGroupMember(m)
}

// FinishEdition marks the item (and, if grouped, the album leader) for
// a view refresh and drops the cached chat-list preview. Idempotent.
func (m *Message) FinishEdition() {
	m.history.notifier.RequestItemViewRefresh(m)
	m.InvalidateChatListEntry()
	if leader := m.history.groupLeader(m.groupID); leader != nil && leader != m {
		m.history.notifier.RequestItemViewRefresh(leader)
		leader.InvalidateChatListEntry()
	}
}

// InvalidateChatListEntry drops the dialogs preview cache when it was
// built from this item.
func (m *Message) InvalidateChatListEntry() {
	if m.history.textCachedFor == m {
		m.history.textCachedFor = nil
	}
	m.history.notifier.HistoryChanged(m.history)
}

// AssignServerID migrates a locally-pending message to its
// server-assigned id. Valid exactly once, while the item is still in
// the client id space with the sending flag set; anything else is a
// caller bug.
func (m *Message) AssignServerID(newID MsgID) {
	if m.flags&FlagSending == 0 {
		panic("history: server id assigned to a message that is not sending")
	}
	if !IsClientMsgID(m.id) {
		panic("history: server id assigned twice")
	}
	oldID := m.id
	m.id = newID
	m.flags &^= FlagSending
	if IsServerMsgID(m.id) {
		m.history.unregisterLocalMessage(oldID)
		m.history.reindexItem(m, oldID)
	}
	m.history.notifier.ItemIDChanged(m, oldID)
	m.history.notifier.RepaintItem(m)
}

// MarkFailedToSend flips sending to failed. Valid only while sending
// and not yet failed.
func (m *Message) MarkFailedToSend() {
	if m.flags&FlagSending == 0 {
		panic("history: send failed on a message that is not sending")
	}
	if m.flags&FlagFailed != 0 {
		panic("history: send failed twice")
	}
	m.flags = (m.flags | FlagFailed) &^ FlagSending
	m.history.notifier.RepaintItem(m)
}

// Destroy removes the item through its owning history, which unlinks
// groups and indices before reclaiming it.
func (m *Message) Destroy() {
	m.history.destroyMessage(m)
}

// IndexAsNewItem registers a freshly received server item in the
// unread-mention index.
func (m *Message) IndexAsNewItem() {
	if !IsServerMsgID(m.id) {
		return
	}
	if m.IsUnreadMention() {
		m.history.addUnreadMention(m.id)
	}
}

// MentionsMe reports the mentioned flag.
func (m *Message) MentionsMe() bool {
	return m.flags&FlagMentioned != 0
}

// IsUnreadMention reports a mention that still carries the
// media-unread flag.
func (m *Message) IsUnreadMention() bool {
	return m.MentionsMe() && m.flags&FlagMediaUnread != 0
}

// HasUnreadMediaFlag reports the media-unread flag, except in channels
// where the flag expires after the configured period.
func (m *Message) HasUnreadMediaFlag(now int64) bool {
	if m.history.Peer.IsChannel() {
		if now-m.date >= m.history.cfg.ChannelsReadMediaPeriod {
			return false
		}
	}
	return m.flags&FlagMediaUnread != 0
}

// IsUnreadMedia reports whether a voice/video note is still unlistened.
func (m *Message) IsUnreadMedia(now int64) bool {
	if !m.HasUnreadMediaFlag(now) {
		return false
	}
	if m.media != nil {
		if d := m.media.Document; d != nil {
			if d.IsVoiceMessage() || d.IsVideoMessage() {
				return m.media.WebPage == nil
			}
		}
	}
	return false
}

// MarkMediaRead clears the media-unread flag and unindexes the
// mention.
func (m *Message) MarkMediaRead() {
	m.flags &^= FlagMediaUnread
	if m.MentionsMe() {
		m.history.eraseFromUnreadMentions(m.id)
		m.history.notifier.HistoryChanged(m.history)
	}
}

// MarkClientSideAsRead clears the local unread flag of a pending
// outgoing message.
func (m *Message) MarkClientSideAsRead() {
	m.flags &^= FlagClientSideUnread
}

// Unread derives the read state.
func (m *Message) Unread() bool {
	// Messages in the self conversation are always read.
	if m.history.Peer.IsSelf() {
		return false
	}

	if m.Out() {
		// Outgoing messages in converted chats are always read.
		if m.history.Peer.MigratedTo != 0 {
			return false
		}
		if IsServerMsgID(m.id) {
			if !m.history.IsServerSideUnread(m) {
				return false
			}
			peer := m.history.Peer
			if peer.IsUser() && peer.Bot {
				return false
			}
			if peer.IsChannel() && !peer.Megagroup {
				return false
			}
		}
		return true
	}

	if IsServerMsgID(m.id) {
		return m.history.IsServerSideUnread(m)
	}
	return m.flags&FlagClientSideUnread != 0
}

// NeedCheck reports whether a sent-state checkmark renders for the
// item.
func (m *Message) NeedCheck() bool {
	return m.Out() || (IsClientMsgID(m.id) && m.history.Peer.IsSelf())
}

// Author is the channel peer for channel posts, the sending peer
// otherwise.
func (m *Message) Author() *Peer {
	if m.IsPost() {
		return m.history.Peer
	}
	return m.from
}

// DateOriginal falls back to the forward origin date.
func (m *Message) DateOriginal() int64 {
	if m.forwarded != nil {
		return m.forwarded.OriginalDate
	}
	return m.date
}

// IDOriginal falls back to the forward origin id.
func (m *Message) IDOriginal() MsgID {
	if m.forwarded != nil {
		return m.forwarded.OriginalID
	}
	return m.id
}

// SenderOriginal is the forward origin peer if forwarded, else the
// broadcast channel for channel posts, else the direct sender.
func (m *Message) SenderOriginal() *Peer {
	if m.forwarded != nil {
		return m.forwarded.OriginalSender
	}
	if peer := m.history.Peer; peer.IsBroadcast() {
		return peer
	}
	return m.from
}

// FromOriginal is the origin sender when it is a user, else the direct
// sender.
func (m *Message) FromOriginal() *Peer {
	if m.forwarded != nil && m.forwarded.OriginalSender != nil {
		if m.forwarded.OriginalSender.IsUser() {
			return m.forwarded.OriginalSender
		}
	}
	return m.from
}

// AuthorOriginal is the origin post signature, falling back to the
// item's own signature.
func (m *Message) AuthorOriginal() string {
	if m.forwarded != nil {
		return m.forwarded.OriginalAuthor
	}
	if m.signature != nil {
		return m.signature.Author
	}
	return ""
}

// HiddenForwardedInfo is set when the origin sender hid their account.
func (m *Message) HiddenForwardedInfo() *HiddenSenderInfo {
	if m.forwarded != nil {
		return m.forwarded.HiddenSender
	}
	return nil
}

// DiscussionPostOriginalSender is the source channel of a discussion
// megagroup repost.
func (m *Message) DiscussionPostOriginalSender() *Peer {
	if !m.history.Peer.IsChannel() || !m.history.Peer.Megagroup {
		return nil
	}
	if m.forwarded != nil && m.forwarded.SavedFromPeer != nil {
		if m.forwarded.SavedFromPeer.IsChannel() {
			return m.forwarded.SavedFromPeer
		}
	}
	return nil
}

// DisplayFrom is the peer shown as the sender in list views.
func (m *Message) DisplayFrom() *Peer {
	if sender := m.DiscussionPostOriginalSender(); sender != nil {
		return sender
	}
	if m.history.Peer.IsSelf() {
		return m.SenderOriginal()
	}
	return m.Author()
}

// ViaBotPeer is the inline bot this message was sent through.
func (m *Message) ViaBotPeer() *Peer {
	if m.via != nil {
		return m.via.Bot
	}
	return nil
}

// GetMessageBot resolves the bot associated with the message.
func (m *Message) GetMessageBot() *Peer {
	if bot := m.ViaBotPeer(); bot != nil {
		return bot
	}
	bot := m.from
	if bot == nil || !bot.IsUser() {
		bot = m.history.Peer
	}
	if bot != nil && bot.IsUser() && bot.Bot {
		return bot
	}
	return nil
}

// CanDelete reports whether deleting for self is allowed.
func (m *Message) CanDelete() bool {
	if !IsServerMsgID(m.id) && m.service {
		return false
	}
	peer := m.history.Peer
	if !peer.IsChannel() {
		return true
	}
	if m.id == 1 {
		return false
	}
	if peer.CanDeleteMessages {
		return true
	}
	if m.Out() && !m.service {
		return true
	}
	return false
}

// CanDeleteForEveryone reports whether revoking for all participants
// is allowed at the given time.
func (m *Message) CanDeleteForEveryone(now int64) bool {
	peer := m.history.Peer
	messageToMyself := peer.IsSelf()
	messageTooOld := false
	if !messageToMyself {
		limit := m.history.cfg.RevokeTimeLimit
		if peer.IsUser() {
			limit = m.history.cfg.RevokePrivateTimeLimit
		}
		messageTooOld = now-m.date >= limit
	}
	if IsClientMsgID(m.id) || messageToMyself || messageTooOld || m.IsPost() {
		return false
	}
	if peer.IsChannel() {
		return false
	}
	if peer.IsUser() && peer.Bot && !peer.Support {
		// Bots receive all messages and there is no sense in revoking
		// them.
		return false
	}
	if !peer.IsUser() {
		if m.service {
			return false
		}
		if m.media != nil && !m.media.AllowsRevoke() {
			return false
		}
	}
	if !m.Out() {
		if peer.IsChat() {
			if !peer.Creator && !peer.CanDeleteMessages {
				return false
			}
		} else if peer.IsUser() {
			return peer.RevokePrivateInbox
		} else {
			return false
		}
	}
	return true
}

// IsEmpty reports an item with nothing to render.
func (m *Message) IsEmpty() bool {
	return m.text == "" && m.media == nil && m.serviceText == ""
}

// NotificationText is the clamped single-line preview.
func (m *Message) NotificationText() string {
	var result string
	switch {
	case m.service:
		result = m.serviceText
	case m.media != nil && m.media.NotificationText() != "":
		result = m.media.NotificationText()
	default:
		result = m.text
	}
	runes := []rune(result)
	if len(runes) <= notificationTextLimit {
		return result
	}
	return string(runes[:notificationTextLimit]) + "..."
}

// InDialogsText is the chat-list preview, with the sender name
// prepended when the list shows one.
func (m *Message) InDialogsText(withSender bool) string {
	var plain string
	switch {
	case m.service:
		plain = m.serviceText
	case m.media != nil:
		if m.groupID != 0 {
			plain = "Album"
		} else if t := m.media.NotificationText(); t != "" {
			plain = t
		} else {
			plain = m.text
		}
	default:
		plain = m.text
	}

	var sender *Peer
	switch {
	case m.IsPost() || m.IsEmpty() || !withSender:
	case !m.history.Peer.IsUser() || m.Out():
		sender = m.DisplayFrom()
	case m.history.Peer.IsSelf() && m.forwarded == nil:
		sender = m.SenderOriginal()
	}
	if sender != nil {
		name := sender.Name
		if sender.IsSelf() {
			name = "You"
		}
		return name + ": " + plain
	}
	return plain
}
