package domain

// PeerKind discriminates the conversation partner type.
type PeerKind int

const (
	PeerUser PeerKind = iota
	PeerChat
	PeerChannel
)

// Peer represents a user, a basic group or a channel/supergroup.
type Peer struct {
	ID   int64
	Kind PeerKind
	Name string

	// NameVersion increases every time Name changes; views compare it
	// against a cached copy to decide when to re-render name labels.
	NameVersion int

	// User traits
	Self    bool
	Bot     bool
	Support bool

	// Channel traits
	Megagroup bool

	// Chat traits
	Creator            bool
	CanDeleteMessages  bool
	MigratedTo         int64 // non-zero: basic group upgraded to a supergroup
	RevokePrivateInbox bool  // peer allows revoking incoming private messages
}

func (p *Peer) IsUser() bool    { return p.Kind == PeerUser }
func (p *Peer) IsChat() bool    { return p.Kind == PeerChat }
func (p *Peer) IsChannel() bool { return p.Kind == PeerChannel }

// IsBroadcast reports a broadcast channel (a channel that is not a
// megagroup).
func (p *Peer) IsBroadcast() bool {
	return p.Kind == PeerChannel && !p.Megagroup
}

func (p *Peer) IsSelf() bool { return p.Kind == PeerUser && p.Self }

// SetName bumps the name generation.
func (p *Peer) SetName(name string) {
	if p.Name == name {
		return
	}
	p.Name = name
	p.NameVersion++
}

// HiddenSenderInfo carries the display data of a forward origin that
// chose not to disclose its identity.
type HiddenSenderInfo struct {
	Name string
}

// FullMsgID addresses a message across conversations.
type FullMsgID struct {
	PeerID int64
	MsgID  MsgID
}

func (f FullMsgID) Zero() bool { return f.PeerID == 0 && f.MsgID == 0 }
