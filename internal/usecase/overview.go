package usecase

import (
	"time"

	"tg-overview/internal/domain"
	"tg-overview/internal/layout"
)

// Section selects which shared-media slice of a conversation the
// overview shows.
type Section int

const (
	SectionMedia Section = iota
	SectionFiles
	SectionVoice
	SectionLinks
)

// ParseSection maps a command name onto a section.
func ParseSection(name string) (Section, bool) {
	switch name {
	case "media":
		return SectionMedia, true
	case "files":
		return SectionFiles, true
	case "voice":
		return SectionVoice, true
	case "links":
		return SectionLinks, true
	}
	return 0, false
}

// Overview builds the tile list of one section over a loaded history.
type Overview struct {
	history *domain.History
}

func NewOverview(h *domain.History) *Overview {
	return &Overview{history: h}
}

// Build walks the history in ascending id order, wraps matching items
// into layout tiles and inserts a date separator whenever the day (or,
// for the media grid, the month) changes.
func (o *Overview) Build(section Section) []layout.Item {
	monthly := section == SectionMedia

	var (
		tiles    []layout.Item
		lastYear int
		lastPart int // month or day of year
	)
	for _, msg := range o.history.Items() {
		tile := buildTile(section, msg)
		if tile == nil {
			continue
		}
		date := time.Unix(msg.Date(), 0)
		part := date.YearDay()
		if monthly {
			part = int(date.Month())
		}
		if date.Year() != lastYear || part != lastPart {
			lastYear, lastPart = date.Year(), part
			tiles = append(tiles, layout.NewDateTile(date, monthly))
		}
		tiles = append(tiles, tile)
	}
	return tiles
}

func buildTile(section Section, msg *domain.Message) layout.Item {
	if msg.IsService() {
		return nil
	}
	media := msg.Media()
	switch section {
	case SectionMedia:
		if media == nil {
			return nil
		}
		if media.Kind == domain.MediaPhoto && media.Photo != nil {
			return layout.NewPhotoTile(media.Photo, msg)
		}
		if d := media.Document; d != nil && d.Video && !d.RoundVideo && !d.Sticker {
			return layout.NewVideoTile(d, msg)
		}
	case SectionFiles:
		if media == nil || media.Kind != domain.MediaDocument {
			return nil
		}
		d := media.Document
		if d == nil || d.Voice || d.RoundVideo || d.Sticker {
			return nil
		}
		return layout.NewDocumentTile(d, msg)
	case SectionVoice:
		if d := media.GetDocument(); d != nil && d.IsVoiceMessage() {
			return layout.NewVoiceTile(d, msg)
		}
	case SectionLinks:
		if hasLink(msg) {
			return layout.NewLinkTile(media, msg)
		}
	}
	return nil
}

func hasLink(msg *domain.Message) bool {
	if page := msg.Media().GetWebPage(); page != nil {
		return true
	}
	for _, e := range msg.Entities() {
		switch e.Type {
		case domain.EntityURL, domain.EntityCustomURL, domain.EntityEmail:
			return true
		}
	}
	return false
}
