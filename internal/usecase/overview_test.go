package usecase

import (
	"testing"
	"time"

	"tg-overview/internal/domain"
	"tg-overview/internal/layout"
)

func day(t *testing.T, value string) int64 {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed.Unix()
}

func photoMedia() *domain.Media {
	return &domain.Media{Kind: domain.MediaPhoto, Photo: &domain.Photo{State: &domain.NoTransfer{}}}
}

func fileMedia(name string) *domain.Media {
	return &domain.Media{Kind: domain.MediaDocument, Document: &domain.Document{
		Name: name, Size: 10, Duration: -1, State: &domain.NoTransfer{},
	}}
}

func voiceMedia() *domain.Media {
	return &domain.Media{Kind: domain.MediaDocument, Document: &domain.Document{
		Voice: true, Duration: 3, Size: 10, State: &domain.NoTransfer{},
	}}
}

func buildHistory(t *testing.T) *domain.History {
	t.Helper()
	h := domain.NewHistory(&domain.Peer{ID: 1, Kind: domain.PeerUser, Name: "Alice"},
		domain.DefaultHistoryConfig(), nil)

	h.AddMessage(1, 0, day(t, "2024-03-01"), nil, "", nil, photoMedia())
	h.AddMessage(2, 0, day(t, "2024-03-02"), nil, "", nil, fileMedia("report.pdf"))
	h.AddMessage(3, 0, day(t, "2024-03-02"), nil, "", nil, voiceMedia())
	h.AddMessage(4, 0, day(t, "2024-04-05"), nil, "", nil, photoMedia())
	h.AddMessage(5, 0, day(t, "2024-04-05"), nil,
		"see https://example.com",
		[]domain.TextEntity{{Type: domain.EntityURL, Offset: 4, Length: 19}}, nil)
	h.AddServiceMessage(6, 0, day(t, "2024-04-06"), nil, "pinned a message")
	return h
}

// TestParseSection verifies the command-name mapping.
func TestParseSection(t *testing.T) {
	cases := map[string]Section{
		"media": SectionMedia,
		"files": SectionFiles,
		"voice": SectionVoice,
		"links": SectionLinks,
	}
	for name, want := range cases {
		got, ok := ParseSection(name)
		if !ok || got != want {
			t.Fatalf("ParseSection(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseSection("stickers"); ok {
		t.Fatalf("unknown command accepted")
	}
}

// TestBuildSectionFiltering verifies each section picks only its own
// media kinds and skips service items.
func TestBuildSectionFiltering(t *testing.T) {
	h := buildHistory(t)
	o := NewOverview(h)

	count := func(section Section) (dates, tiles int) {
		for _, item := range o.Build(section) {
			if _, ok := item.(*layout.DateTile); ok {
				dates++
			} else {
				tiles++
			}
		}
		return dates, tiles
	}

	if dates, tiles := count(SectionMedia); tiles != 2 || dates != 2 {
		t.Fatalf("media section = %d tiles, %d separators", tiles, dates)
	}
	if dates, tiles := count(SectionFiles); tiles != 1 || dates != 1 {
		t.Fatalf("files section = %d tiles, %d separators", tiles, dates)
	}
	if dates, tiles := count(SectionVoice); tiles != 1 || dates != 1 {
		t.Fatalf("voice section = %d tiles, %d separators", tiles, dates)
	}
	if dates, tiles := count(SectionLinks); tiles != 1 || dates != 1 {
		t.Fatalf("links section = %d tiles, %d separators", tiles, dates)
	}
}

// TestBuildTileTypes verifies the concrete tile type per section.
func TestBuildTileTypes(t *testing.T) {
	h := buildHistory(t)
	o := NewOverview(h)

	media := o.Build(SectionMedia)
	if _, ok := media[1].(*layout.PhotoTile); !ok {
		t.Fatalf("media tile type = %T", media[1])
	}
	files := o.Build(SectionFiles)
	if _, ok := files[1].(*layout.DocumentTile); !ok {
		t.Fatalf("files tile type = %T", files[1])
	}
	voice := o.Build(SectionVoice)
	if _, ok := voice[1].(*layout.VoiceTile); !ok {
		t.Fatalf("voice tile type = %T", voice[1])
	}
	links := o.Build(SectionLinks)
	if _, ok := links[1].(*layout.LinkTile); !ok {
		t.Fatalf("links tile type = %T", links[1])
	}
}

// TestBuildDateSeparators verifies day granularity for lists and month
// granularity for the media grid.
func TestBuildDateSeparators(t *testing.T) {
	h := domain.NewHistory(&domain.Peer{ID: 1, Kind: domain.PeerUser, Name: "Alice"},
		domain.DefaultHistoryConfig(), nil)
	h.AddMessage(1, 0, day(t, "2024-03-01"), nil, "", nil, photoMedia())
	h.AddMessage(2, 0, day(t, "2024-03-02"), nil, "", nil, photoMedia())
	h.AddMessage(3, 0, day(t, "2024-03-01"), nil, "", nil, fileMedia("a.txt"))
	h.AddMessage(4, 0, day(t, "2024-03-02"), nil, "", nil, fileMedia("b.txt"))
	o := NewOverview(h)

	// Same month: the grid gets one separator for both photos.
	var mediaDates int
	for _, item := range o.Build(SectionMedia) {
		if _, ok := item.(*layout.DateTile); ok {
			mediaDates++
		}
	}
	if mediaDates != 1 {
		t.Fatalf("media separators = %d, want 1", mediaDates)
	}

	// Different days: the files list separates per day.
	var fileDates int
	for _, item := range o.Build(SectionFiles) {
		if _, ok := item.(*layout.DateTile); ok {
			fileDates++
		}
	}
	if fileDates != 2 {
		t.Fatalf("files separators = %d, want 2", fileDates)
	}
}

// TestBuildVideoTile verifies videos land in the media grid while
// round video notes do not.
func TestBuildVideoTile(t *testing.T) {
	h := domain.NewHistory(&domain.Peer{ID: 1, Kind: domain.PeerUser, Name: "Alice"},
		domain.DefaultHistoryConfig(), nil)
	h.AddMessage(1, 0, day(t, "2024-03-01"), nil, "", nil, &domain.Media{
		Kind: domain.MediaDocument,
		Document: &domain.Document{
			Video: true, Duration: 10, Size: 10, State: &domain.NoTransfer{},
		},
	})
	h.AddMessage(2, 0, day(t, "2024-03-01"), nil, "", nil, &domain.Media{
		Kind: domain.MediaDocument,
		Document: &domain.Document{
			Video: true, RoundVideo: true, Duration: 10, Size: 10, State: &domain.NoTransfer{},
		},
	})

	items := NewOverview(h).Build(SectionMedia)
	var videos int
	for _, item := range items {
		if _, ok := item.(*layout.VideoTile); ok {
			videos++
		}
	}
	if videos != 1 {
		t.Fatalf("video tiles = %d, want 1", videos)
	}
}
