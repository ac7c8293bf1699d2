package layout

import "tg-overview/internal/domain"

// PhotoTile is the square gallery tile of a photo message.
type PhotoTile struct {
	itemBase

	data *domain.Photo

	// goodLoaded is the generation flag of the cached pixmap: the
	// cache is valid only while the full-quality state it was built
	// from still holds.
	goodLoaded bool
	pix        Pix
}

// NewPhotoTile wraps the photo of the message for gallery display.
func NewPhotoTile(photo *domain.Photo, parent *domain.Message) *PhotoTile {
	t := &PhotoTile{data: photo}
	t.parent = parent
	t.maxw = 2 * stOverviewPhotoMinSize
	t.minh = t.maxw
	return t
}

// Layout keeps the tile square: height equals the clamped width.
func (t *PhotoTile) Layout(width int) int {
	width = minInt(width, t.maxw)
	if width != t.width || width != t.height {
		t.width = width
		t.height = t.width
	}
	return t.height
}

func (t *PhotoTile) Paint(s Surface, clip Rect, sel Selection, ctx *PaintContext) {
	good := t.data.Loaded()
	if !good {
		if t.data.State != nil {
			t.data.State.AutomaticLoad(ctx.loadCtx())
		}
		good = t.data.Medium.Loaded()
	}

	size := t.width * DeviceScale
	if (good && !t.goodLoaded) || t.pix.Size != size {
		t.goodLoaded = good
		if t.goodLoaded || t.data.Thumb.Loaded() {
			src := t.bestImage()
			t.pix = Pix{
				Key:     src.Key,
				Size:    size,
				Crop:    squareCrop(src.Width, src.Height),
				Blurred: !t.goodLoaded,
				Valid:   true,
			}
		} else {
			t.pix = Pix{}
		}
	}

	if t.pix.Valid {
		s.DrawPix(0, 0, t.pix)
	} else {
		s.FillRect(Rect{W: t.width, H: t.height}, colPhotoBg)
	}

	if sel == FullSelection {
		s.FillRect(Rect{W: t.width, H: t.height}, colSelectOverlay)
		s.DrawIcon(Point{X: t.width, Y: t.height}, iconChecked)
	} else if ctx.Selecting {
		s.DrawIcon(Point{X: t.width, Y: t.height}, iconCheck)
	}
}

func (t *PhotoTile) bestImage() *domain.Image {
	if t.data.Loaded() && t.data.Full != nil {
		return t.data.Full
	}
	if t.data.Medium.Loaded() {
		return t.data.Medium
	}
	return t.data.Thumb
}

func (t *PhotoTile) HitTest(x, y int) (Handle, Cursor) {
	if t.hasPoint(x, y) {
		return t.openHandle(), CursorPointer
	}
	return Handle{}, CursorDefault
}
