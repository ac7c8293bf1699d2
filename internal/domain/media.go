package domain

// MediaKind discriminates the decoded media payload attached to a
// message. The wire-level classification (good/empty/unsupported/ttl)
// happens in the telegram adapter before any of these are built.
type MediaKind int

const (
	MediaPhoto MediaKind = iota
	MediaDocument
	MediaWebPage
	MediaGeo
	MediaGeoLive
	MediaVenue
	MediaContact
	MediaGame
	MediaInvoice
	MediaPoll
)

// EntityType tags a formatting span inside message text.
type EntityType int

const (
	EntityItalic EntityType = iota
	EntityBold
	EntityURL
	EntityCustomURL
	EntityEmail
	EntityCode
	EntityMention
)

// TextEntity is a formatting span over [Offset, Offset+Length) runes.
type TextEntity struct {
	Type   EntityType
	Offset int
	Length int
	URL    string // CustomURL target
}

// Image is a remote image descriptor. Pixels live with the loader; the
// layout layer only needs dimensions, a cache key and load state.
type Image struct {
	Key    string
	Width  int
	Height int

	loaded bool
}

func (i *Image) Loaded() bool { return i != nil && i.loaded }

// SetLoaded is called by the loader collaborator (marshaled back to
// the UI thread) once pixel data is available.
func (i *Image) SetLoaded() { i.loaded = true }

// Photo is a photo payload with three quality levels.
type Photo struct {
	ID     int64
	Full   *Image
	Medium *Image
	Thumb  *Image
	Size   int64

	State FileState
}

// Loaded reports full-quality availability.
func (p *Photo) Loaded() bool { return p.State != nil && p.State.Loaded() }

// SongInfo is set for audio documents with tags.
type SongInfo struct {
	Performer string
	Title     string
	Duration  int64 // seconds
}

// Document is a file payload: plain file, voice note, video or song.
type Document struct {
	ID         int64
	Name       string
	MIME       string
	Size       int64
	Date       int64
	Thumb      *Image
	Duration   int64 // seconds, for voice/video; -1 otherwise
	Voice      bool
	Video      bool
	RoundVideo bool
	Sticker    bool
	Song       *SongInfo

	State FileState
}

func (d *Document) IsVoiceMessage() bool { return d.Voice }
func (d *Document) IsVideoMessage() bool { return d.RoundVideo }
func (d *Document) IsSong() bool         { return d.Song != nil }

// WebPage is a link preview payload.
type WebPage struct {
	ID          int64
	URL         string
	SiteName    string
	Title       string
	Description string
	Type        string // "photo", "video", "profile", ...
	Photo       *Photo
	Document    *Document
}

// GeoPoint is a resolved (non-empty) location.
type GeoPoint struct {
	Lat  float64
	Long float64
}

// Media is the decoded media envelope carried by a message. Exactly
// one payload field matching Kind is set.
type Media struct {
	Kind     MediaKind
	Photo    *Photo
	Document *Document
	WebPage  *WebPage
	Geo      *GeoPoint
	Title    string // venue/game/invoice/poll display title
	Phone    string // contact
}

// Document payloads of a webpage media are reachable for rendering.
func (m *Media) GetDocument() *Document {
	if m == nil {
		return nil
	}
	if m.Document != nil {
		return m.Document
	}
	if m.WebPage != nil {
		return m.WebPage.Document
	}
	return nil
}

func (m *Media) GetWebPage() *WebPage {
	if m == nil {
		return nil
	}
	return m.WebPage
}

// AllowsRevoke reports whether deleting for everyone may be offered
// for a message carrying this media.
func (m *Media) AllowsRevoke() bool {
	if m == nil {
		return true
	}
	switch m.Kind {
	case MediaGeoLive, MediaPoll:
		return false
	}
	return true
}

// NotificationText is the single-line description used in previews.
func (m *Media) NotificationText() string {
	switch m.Kind {
	case MediaPhoto:
		return "Photo"
	case MediaDocument:
		d := m.Document
		switch {
		case d == nil:
			return "File"
		case d.Voice:
			return "Voice message"
		case d.RoundVideo:
			return "Video message"
		case d.Video:
			return "Video"
		case d.Sticker:
			return "Sticker"
		case d.Song != nil:
			return "Audio file"
		case d.Name != "":
			return d.Name
		default:
			return "File"
		}
	case MediaWebPage:
		return ""
	case MediaGeo, MediaVenue:
		return "Location"
	case MediaGeoLive:
		return "Live location"
	case MediaContact:
		return "Contact"
	case MediaGame:
		return "\U0001F3AE " + m.Title
	case MediaInvoice:
		return m.Title
	case MediaPoll:
		return "\U0001F4CA " + m.Title
	}
	return ""
}
