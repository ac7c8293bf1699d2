package telegram

import (
	"fmt"

	"tg-overview/internal/domain"

	"github.com/gotd/td/tg"
)

// MediaCheckResult classifies a wire media payload before any domain
// value is built from it.
type MediaCheckResult int

const (
	MediaGood MediaCheckResult = iota
	MediaUnsupported
	MediaEmpty
	MediaHasTimeToLive
)

const unsupportedMessageText = "This message is not supported by your " +
	"version of the app. Please update to the latest version at " +
	"https://desktop.telegram.org"

const emptyMessageText = "Empty Message"

// CheckMessageMedia inspects a wire media payload for variants that
// must not reach normal item construction: unsupported ones degrade to
// a placeholder, empty ones to a service notice, and self-destructing
// ones to an expiry notice.
func CheckMessageMedia(media tg.MessageMediaClass) MediaCheckResult {
	checkGeo := func(geo tg.GeoPointClass) MediaCheckResult {
		if _, ok := geo.(*tg.GeoPointEmpty); ok {
			return MediaEmpty
		}
		return MediaGood
	}
	switch m := media.(type) {
	case *tg.MessageMediaEmpty, *tg.MessageMediaContact:
		return MediaGood
	case *tg.MessageMediaGeo:
		return checkGeo(m.Geo)
	case *tg.MessageMediaVenue:
		return checkGeo(m.Geo)
	case *tg.MessageMediaGeoLive:
		return checkGeo(m.Geo)
	case *tg.MessageMediaPhoto:
		if _, ok := m.GetTTLSeconds(); ok {
			return MediaHasTimeToLive
		}
		photo, ok := m.GetPhoto()
		if !ok {
			return MediaEmpty
		}
		if _, ok := photo.(*tg.Photo); !ok {
			return MediaEmpty
		}
		return MediaGood
	case *tg.MessageMediaDocument:
		if _, ok := m.GetTTLSeconds(); ok {
			return MediaHasTimeToLive
		}
		document, ok := m.GetDocument()
		if !ok {
			return MediaEmpty
		}
		if _, ok := document.(*tg.Document); !ok {
			return MediaEmpty
		}
		return MediaGood
	case *tg.MessageMediaWebPage:
		if _, ok := m.Webpage.(*tg.WebPageNotModified); ok {
			return MediaUnsupported
		}
		return MediaGood
	case *tg.MessageMediaGame, *tg.MessageMediaInvoice, *tg.MessageMediaPoll:
		return MediaGood
	case *tg.MessageMediaUnsupported:
		return MediaUnsupported
	}
	return MediaUnsupported
}

// CreateItem materializes one wire message into the history, degrading
// malformed payloads instead of rejecting them. Returns nil only for
// wire variants carrying no identity at all.
func (c *converter) CreateItem(h *domain.History, msg tg.MessageClass) *domain.Message {
	switch m := msg.(type) {
	case *tg.Message:
		checked := MediaGood
		if media, ok := m.GetMedia(); ok {
			checked = CheckMessageMedia(media)
		}
		switch checked {
		case MediaUnsupported:
			return c.createUnsupported(h, m)
		case MediaEmpty:
			return h.AddServiceMessage(
				domain.MsgID(m.ID),
				c.flags(m),
				int64(m.Date),
				c.fromPeer(m),
				emptyMessageText,
			)
		case MediaHasTimeToLive:
			return h.AddServiceMessage(
				domain.MsgID(m.ID),
				c.flags(m),
				int64(m.Date),
				c.fromPeer(m),
				selfDestructText(m),
			)
		}
		return c.createMessage(h, m)
	case *tg.MessageService:
		if _, ok := m.Action.(*tg.MessageActionPhoneCall); ok {
			return c.createCallMessage(h, m)
		}
		var flags domain.MessageFlags
		if m.Out {
			flags |= domain.FlagOut
		}
		var from *domain.Peer
		if p, ok := m.GetFromID(); ok {
			from = c.peers.peer(p)
		}
		return h.AddServiceMessage(
			domain.MsgID(m.ID),
			flags,
			int64(m.Date),
			from,
			serviceActionText(m.Action),
		)
	case *tg.MessageEmpty:
		return h.AddServiceMessage(domain.MsgID(m.ID), 0, 0, nil, emptyMessageText)
	}
	return nil
}

func (c *converter) fromPeer(m *tg.Message) *domain.Peer {
	if p, ok := m.GetFromID(); ok {
		return c.peers.peer(p)
	}
	return nil
}

func (c *converter) createMessage(h *domain.History, m *tg.Message) *domain.Message {
	var media *domain.Media
	if mc, ok := m.GetMedia(); ok {
		media = c.media(mc)
	}
	item := h.AddMessage(
		domain.MsgID(m.ID),
		c.flags(m),
		int64(m.Date),
		c.fromPeer(m),
		m.Message,
		c.entities(m.Message, m.Entities),
		media,
	)
	c.attachComponents(item, m)
	if grouped, ok := m.GetGroupedID(); ok {
		item.SetGroupID(domain.GroupID(grouped))
	}
	return item
}

// createUnsupported replaces the payload with an italicized placeholder
// text. The post-author flag is stripped and the legacy flag forced so
// downstream rendering treats the item as degraded.
func (c *converter) createUnsupported(h *domain.History, m *tg.Message) *domain.Message {
	flags := c.flags(m)
	flags &^= domain.FlagPostAuthor
	flags |= domain.FlagLegacy
	text := unsupportedMessageText
	entities := []domain.TextEntity{{
		Type:   domain.EntityItalic,
		Offset: 0,
		Length: len([]rune(text)),
	}}
	item := h.AddMessage(
		domain.MsgID(m.ID),
		flags,
		int64(m.Date),
		c.fromPeer(m),
		text,
		entities,
		nil,
	)
	c.attachComponents(item, m)
	return item
}

func (c *converter) createCallMessage(h *domain.History, m *tg.MessageService) *domain.Message {
	action := m.Action.(*tg.MessageActionPhoneCall)
	var flags domain.MessageFlags
	if m.Out {
		flags |= domain.FlagOut
	}
	var from *domain.Peer
	if p, ok := m.GetFromID(); ok {
		from = c.peers.peer(p)
	}
	text := "Incoming call"
	if m.Out {
		text = "Outgoing call"
	}
	if duration, ok := action.GetDuration(); ok && duration > 0 {
		text = fmt.Sprintf("%s (%d:%02d)", text, duration/60, duration%60)
	}
	return h.AddMessage(domain.MsgID(m.ID), flags, int64(m.Date), from, text, nil, nil)
}

func (c *converter) attachComponents(item *domain.Message, m *tg.Message) {
	if fwd, ok := m.GetFwdFrom(); ok {
		item.WithForwarded(c.forwarded(&fwd))
	}
	if markup, ok := m.GetReplyMarkup(); ok {
		if converted := c.replyMarkup(markup); converted != nil {
			item.WithReplyMarkup(converted)
		}
	}
	if viaBotID, ok := m.GetViaBotID(); ok {
		item.WithViaBot(c.peers.user(viaBotID))
	}
	if author, ok := m.GetPostAuthor(); ok {
		item.WithSignature(author)
	}
	if reply, ok := m.GetReplyTo(); ok {
		if header, ok := reply.(*tg.MessageReplyHeader); ok {
			if id, ok := header.GetReplyToMsgID(); ok {
				item.WithReplyTo(domain.MsgID(id))
			}
		}
	}
}

func selfDestructText(m *tg.Message) string {
	switch m.Media.(type) {
	case *tg.MessageMediaPhoto:
		return "Self-destructing photo"
	case *tg.MessageMediaDocument:
		return "Self-destructing video"
	}
	return "Self-destructing media"
}

func serviceActionText(action tg.MessageActionClass) string {
	switch a := action.(type) {
	case *tg.MessageActionChatCreate:
		return "created the group «" + a.Title + "»"
	case *tg.MessageActionChatEditTitle:
		return "changed the group name to «" + a.Title + "»"
	case *tg.MessageActionChatEditPhoto:
		return "updated the group photo"
	case *tg.MessageActionChatDeletePhoto:
		return "removed the group photo"
	case *tg.MessageActionChatAddUser:
		return "invited a member"
	case *tg.MessageActionChatDeleteUser:
		return "removed a member"
	case *tg.MessageActionChatJoinedByLink:
		return "joined the group via invite link"
	case *tg.MessageActionChannelCreate:
		return "created the channel «" + a.Title + "»"
	case *tg.MessageActionChatMigrateTo:
		return "upgraded the group to a supergroup"
	case *tg.MessageActionChannelMigrateFrom:
		return "upgraded the group to a supergroup"
	case *tg.MessageActionPinMessage:
		return "pinned a message"
	case *tg.MessageActionHistoryClear:
		return "cleared the history"
	case *tg.MessageActionScreenshotTaken:
		return "took a screenshot"
	case *tg.MessageActionContactSignUp:
		return "joined Telegram"
	}
	return "performed an action"
}
