package layout

import (
	"testing"

	"tg-overview/internal/domain"
)

func testVoice(state domain.FileState) *domain.Document {
	return &domain.Document{
		ID:       40,
		MIME:     "audio/ogg",
		Size:     2048,
		Date:     1000000,
		Duration: 3,
		Voice:    true,
		State:    state,
	}
}

// TestVoiceTileRejectsNonVoice verifies the constructor precondition.
func TestVoiceTileRejectsNonVoice(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a non-voice document")
		}
	}()
	doc := testFile(&domain.NoTransfer{})
	NewVoiceTile(doc, testMessage(t, &domain.Media{Kind: domain.MediaDocument, Document: doc}))
}

// TestVoiceTileUnreadDot verifies the dot renders next to the details
// while the note is unlistened and disappears once media-read.
func TestVoiceTileUnreadDot(t *testing.T) {
	voice := testVoice(&domain.NoTransfer{Complete: true})
	h := domain.NewHistory(&domain.Peer{ID: 1, Kind: domain.PeerUser, Name: "Alice"},
		domain.DefaultHistoryConfig(), nil)
	msg := h.AddMessage(1, domain.FlagMediaUnread, 1000000, nil, "", nil,
		&domain.Media{Kind: domain.MediaDocument, Document: voice})

	tile := NewVoiceTile(voice, msg)
	tile.Layout(300)
	ctx := &PaintContext{MS: 1000, Now: 1000100}

	s := &recSurface{}
	tile.Paint(s, wholeClip(), 0, ctx)
	if got := len(s.find("ellipse")); got != 2 {
		t.Fatalf("ellipses with unread dot = %d, want 2", got)
	}

	msg.MarkMediaRead()
	s = &recSurface{}
	tile.Paint(s, wholeClip(), 0, ctx)
	if got := len(s.find("ellipse")); got != 1 {
		t.Fatalf("ellipses after read = %d, want 1", got)
	}
}

// TestVoiceTileName verifies the sender label, the forward variants and
// the refresh on a name change.
func TestVoiceTileName(t *testing.T) {
	h := domain.NewHistory(&domain.Peer{ID: 1, Kind: domain.PeerChat, Name: "Group"},
		domain.DefaultHistoryConfig(), nil)
	sender := &domain.Peer{ID: 2, Kind: domain.PeerUser, Name: "Bob"}

	voice := testVoice(&domain.NoTransfer{Complete: true})
	msg := h.AddMessage(1, 0, 1000000, sender, "", nil,
		&domain.Media{Kind: domain.MediaDocument, Document: voice})
	tile := NewVoiceTile(voice, msg)
	tile.Layout(300)

	s := &recSurface{}
	tile.Paint(s, wholeClip(), 0, &PaintContext{MS: 1000, Now: 1000100})
	if !s.hasText("Bob") {
		t.Fatalf("sender name missing; texts: %v", s.find("text"))
	}

	sender.SetName("Robert")
	s = &recSurface{}
	tile.Paint(s, wholeClip(), 0, &PaintContext{MS: 1100, Now: 1000100})
	if !s.hasText("Robert") {
		t.Fatalf("renamed sender not refreshed; texts: %v", s.find("text"))
	}

	origin := &domain.Peer{ID: 3, Kind: domain.PeerUser, Name: "Eve"}
	voice2 := testVoice(&domain.NoTransfer{Complete: true})
	fwd := h.AddMessage(2, 0, 1000000, sender, "", nil,
		&domain.Media{Kind: domain.MediaDocument, Document: voice2}).
		WithForwarded(&domain.ForwardedInfo{OriginalSender: origin, OriginalDate: 900000, OriginalID: 5})
	ftile := NewVoiceTile(voice2, fwd)
	ftile.Layout(300)

	s = &recSurface{}
	ftile.Paint(s, wholeClip(), 0, &PaintContext{MS: 1000, Now: 1000100})
	if !s.hasText("Forwarded from Eve") {
		t.Fatalf("forward label missing; texts: %v", s.find("text"))
	}

	channel := &domain.Peer{ID: 4, Kind: domain.PeerChannel, Name: "News"}
	voice3 := testVoice(&domain.NoTransfer{Complete: true})
	repost := h.AddMessage(3, 0, 1000000, channel, "", nil,
		&domain.Media{Kind: domain.MediaDocument, Document: voice3}).
		WithForwarded(&domain.ForwardedInfo{HiddenSender: &domain.HiddenSenderInfo{Name: "News"}})
	ctile := NewVoiceTile(voice3, repost)
	ctile.Layout(300)

	s = &recSurface{}
	ctile.Paint(s, wholeClip(), 0, &PaintContext{MS: 1000, Now: 1000100})
	if !s.hasText("Forwarded from channel News") {
		t.Fatalf("channel forward label missing; texts: %v", s.find("text"))
	}
}

// TestVoiceTileHitTest verifies circle and status-row resolution.
func TestVoiceTileHitTest(t *testing.T) {
	state := &fakeState{}
	voice := testVoice(state)
	h := domain.NewHistory(&domain.Peer{ID: 1, Kind: domain.PeerUser, Name: "Alice"},
		domain.DefaultHistoryConfig(), nil)
	msg := h.AddMessage(1, 0, 1000000, nil, "", nil,
		&domain.Media{Kind: domain.MediaDocument, Document: voice})
	tile := NewVoiceTile(voice, msg)
	tile.Layout(300)

	inner := Point{X: stMsgFilePaddingLeft + 2, Y: stMsgFilePaddingTop + 2}

	// Idle: the circle starts playback (downloading on demand).
	if handle, _ := tile.HitTest(inner.X, inner.Y); handle.Kind != HandleOpenMedia {
		t.Fatalf("idle circle hit = %+v, want open", handle)
	}
	state.loading = true
	if handle, _ := tile.HitTest(inner.X, inner.Y); handle.Kind != HandleCancelTransfer {
		t.Fatalf("loading circle hit = %+v, want cancel", handle)
	}
	state.loading = false
	state.loaded = true
	if handle, _ := tile.HitTest(inner.X, inner.Y); handle.Kind != HandleOpenMedia {
		t.Fatalf("loaded circle hit = %+v, want open", handle)
	}

	// Status row resolves to the message while idle or loaded.
	nameleft := stMsgFilePaddingLeft + stMsgFileSize + stMsgFilePaddingLeft
	handle, cursor := tile.HitTest(nameleft+2, stMsgFileStatusTop+2)
	if handle.Kind != HandleOpenMessage || cursor != CursorText {
		t.Fatalf("status row hit = %+v, %v", handle, cursor)
	}
}
