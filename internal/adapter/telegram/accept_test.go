package telegram

import (
	"testing"

	"tg-overview/internal/domain"

	"github.com/gotd/td/tg"
)

func testHistory() *domain.History {
	return domain.NewHistory(&domain.Peer{ID: 1, Kind: domain.PeerUser, Name: "Alice"},
		domain.DefaultHistoryConfig(), nil)
}

func testConverter() *converter {
	return &converter{peers: newPeerStore()}
}

// TestCheckMessageMedia verifies the wire media classification.
func TestCheckMessageMedia(t *testing.T) {
	ttlPhoto := &tg.MessageMediaPhoto{}
	ttlPhoto.SetTTLSeconds(60)
	ttlPhoto.SetPhoto(&tg.Photo{ID: 1})
	goodPhoto := &tg.MessageMediaPhoto{}
	goodPhoto.SetPhoto(&tg.Photo{ID: 1})
	emptyClassPhoto := &tg.MessageMediaPhoto{}
	emptyClassPhoto.SetPhoto(&tg.PhotoEmpty{ID: 1})
	goodDoc := &tg.MessageMediaDocument{}
	goodDoc.SetDocument(&tg.Document{ID: 2})
	emptyClassDoc := &tg.MessageMediaDocument{}
	emptyClassDoc.SetDocument(&tg.DocumentEmpty{ID: 2})

	cases := []struct {
		name  string
		media tg.MessageMediaClass
		want  MediaCheckResult
	}{
		{"empty media", &tg.MessageMediaEmpty{}, MediaGood},
		{"contact", &tg.MessageMediaContact{}, MediaGood},
		{"geo", &tg.MessageMediaGeo{Geo: &tg.GeoPoint{Lat: 1}}, MediaGood},
		{"empty geo", &tg.MessageMediaGeo{Geo: &tg.GeoPointEmpty{}}, MediaEmpty},
		{"empty venue geo", &tg.MessageMediaVenue{Geo: &tg.GeoPointEmpty{}}, MediaEmpty},
		{"photo", goodPhoto, MediaGood},
		{"photo with ttl", ttlPhoto, MediaHasTimeToLive},
		{"photo missing", &tg.MessageMediaPhoto{}, MediaEmpty},
		{"photo empty class", emptyClassPhoto, MediaEmpty},
		{"document", goodDoc, MediaGood},
		{"document missing", &tg.MessageMediaDocument{}, MediaEmpty},
		{"document empty class", emptyClassDoc, MediaEmpty},
		{"webpage", &tg.MessageMediaWebPage{Webpage: &tg.WebPage{ID: 3}}, MediaGood},
		{"webpage not modified", &tg.MessageMediaWebPage{Webpage: &tg.WebPageNotModified{}}, MediaUnsupported},
		{"poll", &tg.MessageMediaPoll{}, MediaGood},
		{"unsupported", &tg.MessageMediaUnsupported{}, MediaUnsupported},
	}
	for _, c := range cases {
		if got := CheckMessageMedia(c.media); got != c.want {
			t.Fatalf("%s: CheckMessageMedia = %v, want %v", c.name, got, c.want)
		}
	}
}

// TestCreateItemUnsupported verifies the degraded placeholder: italic
// notice text, forced legacy flag, stripped post-author flag.
func TestCreateItemUnsupported(t *testing.T) {
	h := testHistory()
	c := testConverter()

	m := &tg.Message{ID: 5, Date: 1000, Message: "whatever", Out: true}
	m.SetMedia(&tg.MessageMediaUnsupported{})
	m.SetPostAuthor("Editor")

	item := c.CreateItem(h, m)
	if item == nil || item.IsService() {
		t.Fatalf("unsupported message did not yield a normal item")
	}
	if item.Text() != unsupportedMessageText {
		t.Fatalf("placeholder text = %q", item.Text())
	}
	if !item.IsLegacy() {
		t.Fatalf("legacy flag not forced")
	}
	if item.Flags()&domain.FlagPostAuthor != 0 {
		t.Fatalf("post-author flag survived degradation")
	}
	ents := item.Entities()
	if len(ents) != 1 || ents[0].Type != domain.EntityItalic ||
		ents[0].Offset != 0 || ents[0].Length != len([]rune(unsupportedMessageText)) {
		t.Fatalf("placeholder entities = %+v", ents)
	}
}

// TestCreateItemSelfDestruct verifies TTL media degrades to a service
// notice naming the media kind.
func TestCreateItemSelfDestruct(t *testing.T) {
	h := testHistory()
	c := testConverter()

	media := &tg.MessageMediaPhoto{}
	media.SetTTLSeconds(60)
	media.SetPhoto(&tg.Photo{ID: 1})
	m := &tg.Message{ID: 5, Date: 1000}
	m.SetMedia(media)

	item := c.CreateItem(h, m)
	if !item.IsService() || item.ServiceText() != "Self-destructing photo" {
		t.Fatalf("ttl item = service=%v text=%q", item.IsService(), item.ServiceText())
	}
}

// TestCreateItemEmptyMedia verifies a missing payload degrades to the
// empty-message service notice.
func TestCreateItemEmptyMedia(t *testing.T) {
	h := testHistory()
	c := testConverter()

	m := &tg.Message{ID: 5, Date: 1000}
	m.SetMedia(&tg.MessageMediaPhoto{})

	item := c.CreateItem(h, m)
	if !item.IsService() || item.ServiceText() != emptyMessageText {
		t.Fatalf("empty media item = service=%v text=%q", item.IsService(), item.ServiceText())
	}

	empty := c.CreateItem(h, &tg.MessageEmpty{ID: 6})
	if !empty.IsService() || empty.ServiceText() != emptyMessageText {
		t.Fatalf("empty message item = service=%v text=%q", empty.IsService(), empty.ServiceText())
	}
}

// TestCreateItemPhoneCall verifies calls materialize as normal messages
// with a duration label, unlike other service actions.
func TestCreateItemPhoneCall(t *testing.T) {
	h := testHistory()
	c := testConverter()

	action := &tg.MessageActionPhoneCall{}
	action.SetDuration(65)
	call := &tg.MessageService{ID: 7, Date: 2000, Out: true, Action: action}

	item := c.CreateItem(h, call)
	if item.IsService() {
		t.Fatalf("call materialized as a service item")
	}
	if item.Text() != "Outgoing call (1:05)" {
		t.Fatalf("call text = %q", item.Text())
	}
	if !item.Out() {
		t.Fatalf("out flag lost")
	}

	pinned := &tg.MessageService{ID: 8, Date: 2000, Action: &tg.MessageActionPinMessage{}}
	service := c.CreateItem(h, pinned)
	if !service.IsService() || service.ServiceText() != "pinned a message" {
		t.Fatalf("service item = service=%v text=%q", service.IsService(), service.ServiceText())
	}
}

// TestCreateItemGrouping verifies album ids and flags carry over.
func TestCreateItemGrouping(t *testing.T) {
	h := testHistory()
	c := testConverter()

	media := &tg.MessageMediaPhoto{}
	media.SetPhoto(&tg.Photo{ID: 1})
	m := &tg.Message{ID: 9, Date: 3000, Out: true, Mentioned: true}
	m.SetMedia(media)
	m.SetGroupedID(77)

	item := c.CreateItem(h, m)
	if item.GroupID() != 77 {
		t.Fatalf("group id = %d", item.GroupID())
	}
	if !item.Out() || !item.MentionsMe() {
		t.Fatalf("flags = %b", item.Flags())
	}
	if members := h.GroupMembers(77); len(members) != 1 || members[0] != item {
		t.Fatalf("album registration = %v", members)
	}
}

// TestEntityOffsets verifies UTF-16 wire offsets convert to rune spans.
func TestEntityOffsets(t *testing.T) {
	c := testConverter()
	text := "\U0001F600 https://example.com"

	// The emoji occupies two UTF-16 units but one rune.
	ents := c.entities(text, []tg.MessageEntityClass{
		&tg.MessageEntityURL{Offset: 3, Length: 19},
	})
	if len(ents) != 1 {
		t.Fatalf("entities = %+v", ents)
	}
	if ents[0].Offset != 2 || ents[0].Length != 19 {
		t.Fatalf("span = (%d, %d), want (2, 19)", ents[0].Offset, ents[0].Length)
	}
	runes := []rune(text)
	if got := string(runes[ents[0].Offset : ents[0].Offset+ents[0].Length]); got != "https://example.com" {
		t.Fatalf("span text = %q", got)
	}
}
