package telegram

import (
	"fmt"
	"strings"

	"tg-overview/internal/domain"

	"github.com/gotd/td/tg"
)

// TransferFactory builds the FileState collaborator for a remote file.
// A nil factory leaves payloads with an inert state.
type TransferFactory interface {
	DocumentState(doc *tg.Document) domain.FileState
	PhotoState(photo *tg.Photo) domain.FileState
}

// peerStore resolves wire peer references against the users/chats
// carried alongside a dialogs or history response.
type peerStore struct {
	users map[int64]*domain.Peer
	chats map[int64]*domain.Peer

	inputPeers map[int64]tg.InputPeerClass
}

func newPeerStore() *peerStore {
	return &peerStore{
		users:      make(map[int64]*domain.Peer),
		chats:      make(map[int64]*domain.Peer),
		inputPeers: make(map[int64]tg.InputPeerClass),
	}
}

func (s *peerStore) addUsers(users []tg.UserClass) {
	for _, uc := range users {
		u, ok := uc.(*tg.User)
		if !ok {
			continue
		}
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if name == "" {
			name, _ = u.GetUsername()
		}
		peer := s.users[u.ID]
		if peer == nil {
			peer = &domain.Peer{ID: u.ID, Kind: domain.PeerUser}
			s.users[u.ID] = peer
		}
		peer.SetName(name)
		peer.Self = u.Self
		peer.Bot = u.Bot
		peer.Support = u.Support
		if hash, ok := u.GetAccessHash(); ok {
			s.inputPeers[u.ID] = &tg.InputPeerUser{UserID: u.ID, AccessHash: hash}
		}
	}
}

func (s *peerStore) addChats(chats []tg.ChatClass) {
	for _, cc := range chats {
		switch c := cc.(type) {
		case *tg.Chat:
			peer := s.chats[c.ID]
			if peer == nil {
				peer = &domain.Peer{ID: c.ID, Kind: domain.PeerChat}
				s.chats[c.ID] = peer
			}
			peer.SetName(c.Title)
			peer.Creator = c.Creator
			if rights, ok := c.GetAdminRights(); ok {
				peer.CanDeleteMessages = rights.DeleteMessages
			}
			if migrated, ok := c.GetMigratedTo(); ok {
				if ch, ok := migrated.(*tg.InputChannel); ok {
					peer.MigratedTo = ch.ChannelID
				}
			}
			s.inputPeers[c.ID] = &tg.InputPeerChat{ChatID: c.ID}
		case *tg.Channel:
			peer := s.chats[c.ID]
			if peer == nil {
				peer = &domain.Peer{ID: c.ID, Kind: domain.PeerChannel}
				s.chats[c.ID] = peer
			}
			peer.SetName(c.Title)
			peer.Megagroup = c.Megagroup
			peer.Creator = c.Creator
			if rights, ok := c.GetAdminRights(); ok {
				peer.CanDeleteMessages = rights.DeleteMessages
			}
			if hash, ok := c.GetAccessHash(); ok {
				s.inputPeers[c.ID] = &tg.InputPeerChannel{ChannelID: c.ID, AccessHash: hash}
			}
		}
	}
}

func (s *peerStore) user(id int64) *domain.Peer { return s.users[id] }

func (s *peerStore) peer(p tg.PeerClass) *domain.Peer {
	switch v := p.(type) {
	case *tg.PeerUser:
		return s.users[v.UserID]
	case *tg.PeerChat:
		return s.chats[v.ChatID]
	case *tg.PeerChannel:
		return s.chats[v.ChannelID]
	}
	return nil
}

func (s *peerStore) inputPeer(id int64) (tg.InputPeerClass, bool) {
	p, ok := s.inputPeers[id]
	return p, ok
}

// converter turns wire payloads into domain values.
type converter struct {
	peers     *peerStore
	transfers TransferFactory
}

func (c *converter) documentState(doc *tg.Document) domain.FileState {
	if c.transfers == nil {
		return &domain.NoTransfer{}
	}
	return c.transfers.DocumentState(doc)
}

func (c *converter) photoState(photo *tg.Photo) domain.FileState {
	if c.transfers == nil {
		return &domain.NoTransfer{}
	}
	return c.transfers.PhotoState(photo)
}

func (c *converter) flags(m *tg.Message) domain.MessageFlags {
	var flags domain.MessageFlags
	if m.Out {
		flags |= domain.FlagOut
	}
	if m.Mentioned {
		flags |= domain.FlagMentioned
	}
	if m.MediaUnread {
		flags |= domain.FlagMediaUnread
	}
	if m.Post {
		flags |= domain.FlagPost
	}
	if m.Legacy {
		flags |= domain.FlagLegacy
	}
	if _, ok := m.GetPostAuthor(); ok {
		flags |= domain.FlagPostAuthor
	}
	return flags
}

// utf16RuneIndex maps UTF-16 code unit offsets (the wire encoding of
// entity spans) to rune indexes of the text.
func utf16RuneIndex(text string) []int {
	idx := make([]int, 0, len(text)+1)
	runeIndex := 0
	for _, r := range text {
		idx = append(idx, runeIndex)
		if r > 0xFFFF {
			idx = append(idx, runeIndex)
		}
		runeIndex++
	}
	idx = append(idx, runeIndex)
	return idx
}

func (c *converter) entities(text string, entities []tg.MessageEntityClass) []domain.TextEntity {
	if len(entities) == 0 {
		return nil
	}
	idx := utf16RuneIndex(text)
	at := func(off int) int {
		if off < 0 {
			return 0
		}
		if off >= len(idx) {
			return idx[len(idx)-1]
		}
		return idx[off]
	}
	out := make([]domain.TextEntity, 0, len(entities))
	for _, ec := range entities {
		var (
			typ domain.EntityType
			url string
		)
		switch e := ec.(type) {
		case *tg.MessageEntityURL:
			typ = domain.EntityURL
		case *tg.MessageEntityTextURL:
			typ = domain.EntityCustomURL
			url = e.URL
		case *tg.MessageEntityEmail:
			typ = domain.EntityEmail
		case *tg.MessageEntityBold:
			typ = domain.EntityBold
		case *tg.MessageEntityItalic:
			typ = domain.EntityItalic
		case *tg.MessageEntityCode:
			typ = domain.EntityCode
		case *tg.MessageEntityMention:
			typ = domain.EntityMention
		default:
			continue
		}
		offset := at(ec.GetOffset())
		length := at(ec.GetOffset()+ec.GetLength()) - offset
		if length <= 0 {
			continue
		}
		out = append(out, domain.TextEntity{Type: typ, Offset: offset, Length: length, URL: url})
	}
	return out
}

func (c *converter) photo(p *tg.Photo) *domain.Photo {
	photo := &domain.Photo{ID: p.ID, State: c.photoState(p)}
	for _, sc := range p.Sizes {
		var (
			typ  string
			w, h int
			size int64
		)
		switch s := sc.(type) {
		case *tg.PhotoSize:
			typ, w, h, size = s.Type, s.W, s.H, int64(s.Size)
		case *tg.PhotoSizeProgressive:
			typ, w, h = s.Type, s.W, s.H
			if n := len(s.Sizes); n > 0 {
				size = int64(s.Sizes[n-1])
			}
		case *tg.PhotoCachedSize:
			typ, w, h, size = s.Type, s.W, s.H, int64(len(s.Bytes))
		default:
			continue
		}
		img := &domain.Image{
			Key:    fmt.Sprintf("photo:%d:%s", p.ID, typ),
			Width:  w,
			Height: h,
		}
		switch typ {
		case "s", "a":
			photo.Thumb = img
		case "m", "b":
			photo.Medium = img
		default:
			photo.Full = img
			photo.Size = size
		}
	}
	if photo.Full == nil {
		photo.Full = photo.Medium
	}
	if photo.Thumb == nil {
		photo.Thumb = photo.Medium
	}
	return photo
}

func (c *converter) document(d *tg.Document) *domain.Document {
	doc := &domain.Document{
		ID:       d.ID,
		MIME:     d.MimeType,
		Size:     d.Size,
		Date:     int64(d.Date),
		Duration: -1,
		State:    c.documentState(d),
	}
	for _, ac := range d.Attributes {
		switch a := ac.(type) {
		case *tg.DocumentAttributeFilename:
			doc.Name = a.FileName
		case *tg.DocumentAttributeAudio:
			doc.Duration = int64(a.Duration)
			if a.Voice {
				doc.Voice = true
			} else {
				title, _ := a.GetTitle()
				performer, _ := a.GetPerformer()
				doc.Song = &domain.SongInfo{
					Performer: performer,
					Title:     title,
					Duration:  int64(a.Duration),
				}
			}
		case *tg.DocumentAttributeVideo:
			doc.Video = true
			doc.RoundVideo = a.RoundMessage
			doc.Duration = int64(a.Duration)
		case *tg.DocumentAttributeSticker:
			doc.Sticker = true
		}
	}
	thumbs, _ := d.GetThumbs()
	for _, sc := range thumbs {
		if s, ok := sc.(*tg.PhotoSize); ok {
			doc.Thumb = &domain.Image{
				Key:    fmt.Sprintf("doc:%d:%s", d.ID, s.Type),
				Width:  s.W,
				Height: s.H,
			}
			break
		}
	}
	return doc
}

func (c *converter) webPage(w *tg.WebPage) *domain.WebPage {
	page := &domain.WebPage{ID: w.ID, URL: w.URL}
	page.Type, _ = w.GetType()
	page.SiteName, _ = w.GetSiteName()
	page.Title, _ = w.GetTitle()
	page.Description, _ = w.GetDescription()
	if pc, ok := w.GetPhoto(); ok {
		if p, ok := pc.(*tg.Photo); ok {
			page.Photo = c.photo(p)
		}
	}
	if dc, ok := w.GetDocument(); ok {
		if d, ok := dc.(*tg.Document); ok {
			page.Document = c.document(d)
		}
	}
	return page
}

// media decodes an accepted wire media payload. Callers run
// CheckMessageMedia first; malformed variants never reach this point.
func (c *converter) media(mc tg.MessageMediaClass) *domain.Media {
	switch m := mc.(type) {
	case *tg.MessageMediaEmpty:
		return nil
	case *tg.MessageMediaPhoto:
		pc, ok := m.GetPhoto()
		if !ok {
			return nil
		}
		p, ok := pc.(*tg.Photo)
		if !ok {
			return nil
		}
		return &domain.Media{Kind: domain.MediaPhoto, Photo: c.photo(p)}
	case *tg.MessageMediaDocument:
		dc, ok := m.GetDocument()
		if !ok {
			return nil
		}
		d, ok := dc.(*tg.Document)
		if !ok {
			return nil
		}
		return &domain.Media{Kind: domain.MediaDocument, Document: c.document(d)}
	case *tg.MessageMediaWebPage:
		if w, ok := m.Webpage.(*tg.WebPage); ok {
			return &domain.Media{Kind: domain.MediaWebPage, WebPage: c.webPage(w)}
		}
		return nil
	case *tg.MessageMediaGeo:
		if g, ok := m.Geo.(*tg.GeoPoint); ok {
			return &domain.Media{Kind: domain.MediaGeo, Geo: &domain.GeoPoint{Lat: g.Lat, Long: g.Long}}
		}
		return nil
	case *tg.MessageMediaGeoLive:
		if g, ok := m.Geo.(*tg.GeoPoint); ok {
			return &domain.Media{Kind: domain.MediaGeoLive, Geo: &domain.GeoPoint{Lat: g.Lat, Long: g.Long}}
		}
		return nil
	case *tg.MessageMediaVenue:
		media := &domain.Media{Kind: domain.MediaVenue, Title: m.Title}
		if g, ok := m.Geo.(*tg.GeoPoint); ok {
			media.Geo = &domain.GeoPoint{Lat: g.Lat, Long: g.Long}
		}
		return media
	case *tg.MessageMediaContact:
		return &domain.Media{
			Kind:  domain.MediaContact,
			Title: strings.TrimSpace(m.FirstName + " " + m.LastName),
			Phone: m.PhoneNumber,
		}
	case *tg.MessageMediaGame:
		return &domain.Media{Kind: domain.MediaGame, Title: m.Game.Title}
	case *tg.MessageMediaInvoice:
		return &domain.Media{Kind: domain.MediaInvoice, Title: m.Title}
	case *tg.MessageMediaPoll:
		return &domain.Media{Kind: domain.MediaPoll, Title: m.Poll.Question.Text}
	}
	return nil
}

func (c *converter) forwarded(fwd *tg.MessageFwdHeader) *domain.ForwardedInfo {
	info := &domain.ForwardedInfo{OriginalDate: int64(fwd.Date)}
	if from, ok := fwd.GetFromID(); ok {
		info.OriginalSender = c.peers.peer(from)
	}
	if info.OriginalSender == nil {
		if name, ok := fwd.GetFromName(); ok {
			info.HiddenSender = &domain.HiddenSenderInfo{Name: name}
		}
	}
	if post, ok := fwd.GetChannelPost(); ok {
		info.OriginalID = domain.MsgID(post)
	}
	if author, ok := fwd.GetPostAuthor(); ok {
		info.OriginalAuthor = author
	}
	if saved, ok := fwd.GetSavedFromPeer(); ok {
		info.SavedFromPeer = c.peers.peer(saved)
	}
	return info
}

func (c *converter) replyMarkup(mc tg.ReplyMarkupClass) *domain.ReplyMarkup {
	rows := func(in []tg.KeyboardButtonRow, inline bool) *domain.ReplyMarkup {
		markup := &domain.ReplyMarkup{Inline: inline}
		for _, row := range in {
			var buttons []string
			for _, b := range row.Buttons {
				buttons = append(buttons, b.GetText())
			}
			markup.Buttons = append(markup.Buttons, buttons)
		}
		return markup
	}
	switch m := mc.(type) {
	case *tg.ReplyInlineMarkup:
		return rows(m.Rows, true)
	case *tg.ReplyKeyboardMarkup:
		return rows(m.Rows, false)
	}
	return nil
}
