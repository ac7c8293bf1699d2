package domain

import "sort"

// HistoryConfig carries the tunable limits the read-state and revoke
// derivations depend on. Values are seconds.
type HistoryConfig struct {
	RevokeTimeLimit         int64
	RevokePrivateTimeLimit  int64
	ChannelsReadMediaPeriod int64
}

// DefaultHistoryConfig mirrors the server-side defaults.
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		RevokeTimeLimit:         2 * 24 * 60 * 60,
		RevokePrivateTimeLimit:  2 * 24 * 60 * 60,
		ChannelsReadMediaPeriod: 7 * 24 * 60 * 60,
	}
}

// History is one conversation thread. It owns the lifetime of its
// items: all registration, grouping, unread indexing and destruction
// go through it. Single-goroutine access only.
type History struct {
	Peer *Peer

	// Read markers received from the server.
	InboxReadTill  MsgID
	OutboxReadTill MsgID

	cfg      HistoryConfig
	notifier ViewNotifier

	items         map[MsgID]*Message
	localMessages map[MsgID]*Message
	groups        map[GroupID][]*Message
	unreadMention map[MsgID]struct{}
	order         []MsgID

	// Cache owner for the dialogs preview text; dropped when the item
	// it was built from changes.
	textCachedFor *Message
	textCache     string

	nextLocalID MsgID
}

// NewHistory creates an empty conversation for the peer.
func NewHistory(peer *Peer, cfg HistoryConfig, notifier ViewNotifier) *History {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &History{
		Peer:          peer,
		cfg:           cfg,
		notifier:      notifier,
		items:         make(map[MsgID]*Message),
		localMessages: make(map[MsgID]*Message),
		groups:        make(map[GroupID][]*Message),
		unreadMention: make(map[MsgID]struct{}),
		nextLocalID:   -1,
	}
}

func (h *History) Config() HistoryConfig { return h.cfg }

// Len is the number of owned items.
func (h *History) Len() int { return len(h.items) }

// Item looks an item up by id.
func (h *History) Item(id MsgID) *Message { return h.items[id] }

// Items returns the owned items in ascending id order. Client-local
// (negative) ids sort before server ids, matching their pending state.
func (h *History) Items() []*Message {
	ids := make([]MsgID, 0, len(h.items))
	for id := range h.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Message, len(ids))
	for i, id := range ids {
		out[i] = h.items[id]
	}
	return out
}

// NextLocalID allocates a fresh client-side id.
func (h *History) NextLocalID() MsgID {
	id := h.nextLocalID
	h.nextLocalID--
	return id
}

// AddMessage builds a normal message item. Construction is expected to
// come through the acceptance pipeline; AddMessage itself never
// rejects, malformed payloads have been degraded before this point.
func (h *History) AddMessage(
	id MsgID,
	flags MessageFlags,
	date int64,
	from *Peer,
	text string,
	entities []TextEntity,
	media *Media,
) *Message {
	m := &Message{
		id:       id,
		history:  h,
		from:     h.resolveFrom(from),
		flags:    flags,
		date:     date,
		text:     text,
		entities: entities,
		media:    media,
	}
	h.register(m)
	return m
}

// AddServiceMessage builds a service/system item.
func (h *History) AddServiceMessage(
	id MsgID,
	flags MessageFlags,
	date int64,
	from *Peer,
	text string,
) *Message {
	m := &Message{
		id:          id,
		history:     h,
		from:        h.resolveFrom(from),
		flags:       flags,
		date:        date,
		service:     true,
		serviceText: text,
	}
	h.register(m)
	return m
}

func (h *History) resolveFrom(from *Peer) *Peer {
	if from != nil {
		return from
	}
	return h.Peer
}

func (h *History) register(m *Message) {
	h.items[m.id] = m
	if IsClientMsgID(m.id) {
		h.localMessages[m.id] = m
	}
}

// WithForwarded attaches forward provenance. Returns the message for
// construction chaining.
func (m *Message) WithForwarded(f *ForwardedInfo) *Message {
	m.forwarded = f
	return m
}

// WithReplyMarkup attaches a reply keyboard.
func (m *Message) WithReplyMarkup(markup *ReplyMarkup) *Message {
	m.markup = markup
	m.flags |= FlagHasReplyMarkup
	return m
}

// WithViaBot attaches the inline bot the message was sent through.
func (m *Message) WithViaBot(bot *Peer) *Message {
	if bot != nil {
		m.via = &ViaBot{Bot: bot}
	}
	return m
}

// WithSignature attaches a channel post signature.
func (m *Message) WithSignature(author string) *Message {
	if author != "" {
		m.signature = &PostSignature{Author: author}
	}
	return m
}

// WithReplyTo records the replied-to id.
func (m *Message) WithReplyTo(id MsgID) *Message {
	m.replyToID = id
	return m
}

func (h *History) unregisterLocalMessage(id MsgID) {
	delete(h.localMessages, id)
}

// LocalMessage finds a still-pending item by its client id.
func (h *History) LocalMessage(id MsgID) *Message {
	return h.localMessages[id]
}

func (h *History) reindexItem(m *Message, oldID MsgID) {
	delete(h.items, oldID)
	h.items[m.id] = m
}

func (h *History) registerGroupMember(m *Message) {
	h.groups[m.groupID] = append(h.groups[m.groupID], m)
}

// groupLeader is the album member driving shared refresh: the last
// item of the group.
func (h *History) groupLeader(id GroupID) *Message {
	if id == 0 {
		return nil
	}
	members := h.groups[id]
	if len(members) == 0 {
		return nil
	}
	return members[len(members)-1]
}

// GroupMembers returns the album members in registration order.
func (h *History) GroupMembers(id GroupID) []*Message {
	return h.groups[id]
}

// IsServerSideUnread compares the item against the matching read
// marker.
func (h *History) IsServerSideUnread(m *Message) bool {
	if m.Out() {
		return m.id > h.OutboxReadTill
	}
	return m.id > h.InboxReadTill
}

// ApplyInboxRead advances the inbox read marker.
func (h *History) ApplyInboxRead(upTo MsgID) {
	if upTo > h.InboxReadTill {
		h.InboxReadTill = upTo
		h.notifier.HistoryChanged(h)
	}
}

// ApplyOutboxRead advances the outbox read marker.
func (h *History) ApplyOutboxRead(upTo MsgID) {
	if upTo > h.OutboxReadTill {
		h.OutboxReadTill = upTo
		h.notifier.HistoryChanged(h)
	}
}

func (h *History) addUnreadMention(id MsgID) {
	h.unreadMention[id] = struct{}{}
}

func (h *History) eraseFromUnreadMentions(id MsgID) {
	delete(h.unreadMention, id)
}

// UnreadMentionsCount is the number of indexed unread mentions.
func (h *History) UnreadMentionsCount() int { return len(h.unreadMention) }

// destroyMessage unlinks the item from every index before dropping it.
// Dependent views are notified first so no weak reference outlives the
// owner's removal.
func (h *History) destroyMessage(m *Message) {
	h.notifier.ItemRemoved(m)
	if m.groupID != 0 {
		members := h.groups[m.groupID]
		for i, member := range members {
			if member == m {
				h.groups[m.groupID] = append(members[:i], members[i+1:]...)
				break
			}
		}
		if len(h.groups[m.groupID]) == 0 {
			delete(h.groups, m.groupID)
		}
	}
	h.eraseFromUnreadMentions(m.id)
	if IsClientMsgID(m.id) {
		h.unregisterLocalMessage(m.id)
	}
	if h.textCachedFor == m {
		h.textCachedFor = nil
	}
	delete(h.items, m.id)
	h.notifier.HistoryChanged(h)
}

// CachedDialogText returns the dialogs preview, rebuilt only when the
// top item changed.
func (h *History) CachedDialogText(top *Message) string {
	if top == nil {
		return ""
	}
	if h.textCachedFor != top {
		h.textCachedFor = top
		h.textCache = top.InDialogsText(true)
	}
	return h.textCache
}
