package layout

import (
	"regexp"
	"strings"
	"unicode"

	"tg-overview/internal/domain"
)

// Trailing punctuation runs after the last link entity are cut from
// the preview text. The second pattern drops a fully punctuational
// text when no entity survives.
var (
	reTrailingPunct = regexp.MustCompile("^[,.\\s_=+\\-;:`'\"()\\[\\]{}<>*&^%$#@!\\\\/]+$")
	reOnlyPunct     = regexp.MustCompile("^[,.\\s\\-;:`'\"()\\[\\]{}<>*&^%$#@!\\\\/]+$")
)

type linkRow struct {
	text  string
	url   string
	width int
}

// LinkTile is the shared-links row of a message: a site thumb or
// letter square, the page title, up to three preview lines and the
// link URLs themselves.
type LinkTile struct {
	itemBase

	page *domain.WebPage

	photoHandle Handle

	letter string
	title  string
	titlew int

	text  string
	lines []string

	links []linkRow

	pixw, pixh int
	pix        Pix
}

// NewLinkTile builds the row from the message text entities and the
// attached web page preview, if any.
func NewLinkTile(media *domain.Media, parent *domain.Message) *LinkTile {
	t := &LinkTile{}
	t.parent = parent

	text := []rune(parent.Text())
	entities := parent.Entities()

	for _, e := range entities {
		if e.Type != domain.EntityURL && e.Type != domain.EntityCustomURL && e.Type != domain.EntityEmail {
			continue
		}
		part := string(text[e.Offset : e.Offset+e.Length])
		url := e.URL
		if url == "" {
			url = part
		}
		t.links = append(t.links, linkRow{
			text:  part,
			url:   url,
			width: stNormalFont.Width(part),
		})
	}

	// Cut trailing punctuation left over after the link entities.
	from, till, lnk := 0, len(text), len(entities)
	for lnk > 0 && till > from {
		lnk--
		e := entities[lnk]
		if e.Type != domain.EntityURL && e.Type != domain.EntityCustomURL && e.Type != domain.EntityEmail {
			lnk++
			break
		}
		afterLink := e.Offset + e.Length
		if till > afterLink {
			if !reTrailingPunct.MatchString(string(text[afterLink:till])) {
				lnk++
				break
			}
		}
		till = e.Offset
	}
	if lnk == 0 {
		if reOnlyPunct.MatchString(string(text[from:till])) {
			till = from
		}
	}

	if media != nil {
		t.page = media.GetWebPage()
	}
	if t.page != nil {
		switch {
		case t.page.Document != nil:
			t.photoHandle = t.openHandle()
		case t.page.Photo != nil:
			if t.page.Type == "profile" || t.page.Type == "video" {
				t.photoHandle = Handle{Kind: HandleOpenURL, URL: t.page.URL}
			} else if t.page.Type == "photo" || t.page.SiteName == "Twitter" || t.page.SiteName == "Facebook" {
				t.photoHandle = t.openHandle()
			} else {
				t.photoHandle = Handle{Kind: HandleOpenURL, URL: t.page.URL}
			}
		default:
			t.photoHandle = Handle{Kind: HandleOpenURL, URL: t.page.URL}
		}
	} else if len(t.links) > 0 {
		t.photoHandle = Handle{Kind: HandleOpenURL, URL: t.links[0].url}
	}

	if from >= till && t.page != nil {
		text = []rune(t.page.Description)
		from, till = 0, len(text)
	}
	if till > from {
		t.text = string(text[from:till])
	}

	var tw, th int
	if t.page != nil && t.page.Photo != nil {
		tw, th = t.page.Photo.Thumb.Width, t.page.Photo.Thumb.Height
	} else if t.page != nil && t.page.Document != nil && t.page.Document.Thumb != nil {
		tw, th = t.page.Document.Thumb.Width, t.page.Document.Thumb.Height
	}
	if tw > stDlgPhotoSize {
		if th > tw {
			th = th * stDlgPhotoSize / tw
			tw = stDlgPhotoSize
		} else if th > stDlgPhotoSize {
			tw = tw * stDlgPhotoSize / th
			th = stDlgPhotoSize
		}
	}
	t.pixw = maxInt(tw, 1)
	t.pixh = maxInt(th, 1)

	if t.page != nil {
		t.title = t.page.Title
	}
	var url string
	if t.page != nil {
		url = t.page.URL
	} else if len(t.links) > 0 {
		url = t.links[0].url
	}
	if parts := strings.Split(url, "/"); len(parts) > 0 {
		host := parts[0]
		if len(parts) > 2 && strings.HasSuffix(host, ":") && parts[1] == "" {
			host = parts[2]
		}
		at := strings.Split(host, "@")
		segments := strings.Split(at[len(at)-1], ".")
		if len(segments) > 1 {
			name := []rune(segments[len(segments)-2])
			if len(name) > 0 {
				t.letter = string(unicode.ToUpper(name[0]))
				if t.title == "" {
					t.title = t.letter + string(name[1:])
				}
			}
		}
	}
	t.titlew = stSemiboldFont.Width(t.title)

	t.maxw = stLinksMaxWidth
	t.minh = t.contentHeight(t.maxw)
	return t
}

// contentHeight is the stacked row height at the given tile width.
func (t *LinkTile) contentHeight(width int) int {
	h := 0
	if t.title != "" {
		h += stSemiboldFont.Height
	}
	if t.text != "" {
		w := width - stDlgPhotoSize - stDlgPhotoPadding
		h += minInt(3*stNormalFont.Height, stNormalFont.Height*len(wrapLines(t.text, w, stNormalFont)))
	}
	h += len(t.links) * stNormalFont.Height
	return maxInt(h, stDlgPhotoSize) + stLinksMarginTop + stLinksMarginBot + stLinksBorder
}

func (t *LinkTile) Layout(width int) int {
	t.width = minInt(width, t.maxw)
	w := t.width - stDlgPhotoSize - stDlgPhotoPadding
	if t.text != "" {
		t.lines = wrapLines(t.text, w, stNormalFont)
		if len(t.lines) > 3 {
			t.lines = t.lines[:3]
			t.lines[2] = stNormalFont.Elided(t.lines[2]+"…", w)
		}
	}
	t.height = t.contentHeight(t.width)
	return t.height
}

func (t *LinkTile) Paint(s Surface, clip Rect, sel Selection, ctx *PaintContext) {
	left := stDlgPhotoSize + stDlgPhotoPadding
	top := stLinksMarginTop + stLinksBorder
	w := t.width - left

	thumb := Rect{X: 0, Y: top, W: stDlgPhotoSize, H: stDlgPhotoSize}
	if clip.Intersects(thumb) {
		if t.page != nil && t.page.Photo != nil {
			src := t.page.Photo.Thumb
			if t.page.Photo.Medium.Loaded() {
				src = t.page.Photo.Medium
			} else if t.page.Photo.Loaded() && t.page.Photo.Full != nil {
				src = t.page.Photo.Full
			}
			if !t.pix.Valid || t.pix.Key != src.Key {
				t.pix = Pix{Key: src.Key, Size: stDlgPhotoSize * DeviceScale, Valid: true}
			}
			s.DrawPix(thumb.X, thumb.Y, t.pix)
		} else if t.page != nil && t.page.Document != nil && t.page.Document.Thumb != nil && t.page.Document.Thumb.Key != "" {
			if !t.pix.Valid {
				t.pix = Pix{Key: t.page.Document.Thumb.Key, Size: stDlgPhotoSize * DeviceScale, Valid: true}
			}
			s.DrawPix(thumb.X, thumb.Y, t.pix)
		} else {
			index := 0
			if t.letter != "" {
				index = int([]rune(t.letter)[0]) % 4
			}
			s.FillRect(thumb, linkColor(index))
			if t.letter != "" {
				s.DrawTextLeft(thumb.X+(thumb.W-stSemiboldFont.Width(t.letter))/2, thumb.Y+(thumb.H-stSemiboldFont.Height)/2, t.width, t.letter)
			}
		}

		if sel == FullSelection {
			s.FillRect(thumb, colSelectOverlay)
			s.DrawIcon(Point{X: stDlgPhotoSize, Y: top + stDlgPhotoSize}, iconChecked)
		} else if ctx.Selecting {
			s.DrawIcon(Point{X: stDlgPhotoSize, Y: top + stDlgPhotoSize}, iconCheck)
		}
	}

	if t.title != "" && t.text == "" && len(t.links) == 1 {
		top += (stDlgPhotoSize - stSemiboldFont.Height - stNormalFont.Height) / 2
	} else {
		top = stLinksTextTop
	}

	if t.title != "" {
		row := Rect{X: left, Y: top, W: minInt(w, t.titlew), H: stSemiboldFont.Height}
		if clip.Intersects(row) {
			if w < t.titlew {
				s.DrawTextLeft(left, top, t.width, stSemiboldFont.Elided(t.title, w))
			} else {
				s.DrawTextLeft(left, top, t.width, t.title)
			}
		}
		top += stSemiboldFont.Height
	}
	if t.text != "" {
		h := stNormalFont.Height * len(t.lines)
		if clip.Intersects(Rect{X: left, Y: top, W: w, H: h}) {
			for i, line := range t.lines {
				s.DrawTextLeft(left, top+i*stNormalFont.Height, t.width, line)
			}
		}
		top += h
	}

	for _, l := range t.links {
		if clip.Intersects(Rect{X: left, Y: top, W: minInt(w, l.width), H: stNormalFont.Height}) {
			if w < l.width {
				s.DrawTextLeft(left, top, t.width, stNormalFont.Elided(l.text, w))
			} else {
				s.DrawTextLeft(left, top, t.width, l.text)
			}
		}
		top += stNormalFont.Height
	}

	border := Rect{X: left, Y: 0, W: w, H: stLinksBorder}
	if !ctx.IsAfterDate && clip.Intersects(border) {
		s.FillRect(border, colLinksBorder)
	}
}

func (t *LinkTile) HitTest(x, y int) (Handle, Cursor) {
	left := stDlgPhotoSize + stDlgPhotoPadding
	top := stLinksMarginTop + stLinksBorder
	w := t.width - left

	if (Rect{X: 0, Y: top, W: stDlgPhotoSize, H: stDlgPhotoSize}).Contains(x, y) {
		if !t.photoHandle.Zero() {
			return t.photoHandle, CursorPointer
		}
		return Handle{}, CursorDefault
	}

	if t.title != "" && t.text == "" && len(t.links) == 1 {
		top += (stDlgPhotoSize - stSemiboldFont.Height - stNormalFont.Height) / 2
	}
	if t.title != "" {
		row := Rect{X: left, Y: top, W: minInt(w, t.titlew), H: stSemiboldFont.Height}
		if row.Contains(x, y) && !t.photoHandle.Zero() {
			return t.photoHandle, CursorPointer
		}
		top += stSemiboldFont.Height
	}
	if t.text != "" {
		top += stNormalFont.Height * len(t.lines)
	}
	for _, l := range t.links {
		row := Rect{X: left, Y: top, W: minInt(w, l.width), H: stNormalFont.Height}
		if row.Contains(x, y) {
			return Handle{Kind: HandleOpenURL, URL: l.url}, CursorPointer
		}
		top += stNormalFont.Height
	}
	return Handle{}, CursorDefault
}

// wrapLines breaks text into greedy word-wrapped lines at the width.
func wrapLines(text string, width int, font Font) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		if line == "" {
			line = word
			continue
		}
		if font.Width(line+" "+word) <= width {
			line += " " + word
		} else {
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
