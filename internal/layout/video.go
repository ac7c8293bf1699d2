package layout

import "tg-overview/internal/domain"

// VideoTile is the square gallery tile of a video message: blurred
// thumbnail, duration label, and a radial transfer indicator.
type VideoTile struct {
	fileItem

	data     *domain.Document
	duration string

	thumbLoaded bool
	pix         Pix
}

// NewVideoTile wraps the video document of the message.
func NewVideoTile(video *domain.Document, parent *domain.Message) *VideoTile {
	t := &VideoTile{
		data:     video,
		duration: FormatDurationText(video.Duration),
	}
	t.parent = parent
	t.maxw = 2 * stOverviewPhotoMinSize
	t.minh = t.maxw
	return t
}

func (t *VideoTile) Layout(width int) int {
	t.width = minInt(width, t.maxw)
	t.height = t.width
	return t.height
}

func (t *VideoTile) Paint(s Surface, clip Rect, sel Selection, ctx *PaintContext) {
	selected := sel == FullSelection
	thumbLoaded := t.data.Thumb.Loaded()

	t.data.State.AutomaticLoad(ctx.loadCtx())
	loaded, displayLoading := t.data.State.Loaded(), t.data.State.DisplayLoading()
	if displayLoading {
		t.ensureRadial(t.data.State.Progress(), ctx.MS)
	}
	t.updateStatusText()
	radial := t.isRadialAnimation(t.data.State, ctx.MS)

	size := t.width * DeviceScale
	if (thumbLoaded && !t.thumbLoaded) || t.pix.Size != size {
		t.thumbLoaded = thumbLoaded
		if t.thumbLoaded && t.data.Thumb != nil {
			// The gallery thumb always renders blurred.
			t.pix = Pix{
				Key:     t.data.Thumb.Key,
				Size:    size,
				Crop:    squareCrop(t.data.Thumb.Width, t.data.Thumb.Height),
				Blurred: true,
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

	if selected {
		s.FillRect(Rect{W: t.width, H: t.height}, colSelectOverlay)
	}

	if !selected && !ctx.Selecting && !loaded {
		statusW := stNormalFont.Width(t.statusText) + 2*stMsgDateImgPaddingX
		statusX := t.width - statusW + stMsgDateImgPaddingX
		statusY := t.height - stNormalFont.Height - stMsgDateImgPaddingY
		row := Rect{X: 0, Y: t.height - stNormalFont.Height, W: t.width, H: stNormalFont.Height}
		if clip.Intersects(row) {
			s.FillRect(Rect{
				X: statusX - stMsgDateImgPaddingX,
				Y: statusY - stMsgDateImgPaddingY,
				W: statusW,
				H: stNormalFont.Height + 2*stMsgDateImgPaddingY,
			}, colDateBg)
			s.DrawTextLeft(statusX, statusY, t.width, t.statusText)
		}
	}
	if clip.Intersects(Rect{W: t.width, H: stNormalFont.Height}) {
		durW := stNormalFont.Width(t.duration) + 2*stMsgDateImgPaddingX
		s.FillRect(Rect{W: durW, H: stNormalFont.Height + 2*stMsgDateImgPaddingY}, colDateBg)
		s.DrawTextLeft(stMsgDateImgPaddingX, stMsgDateImgPaddingY, t.width, t.duration)
	}

	inner := Rect{
		X: (t.width - stMsgFileSize) / 2,
		Y: (t.height - stMsgFileSize) / 2,
		W: stMsgFileSize,
		H: stMsgFileSize,
	}
	if clip.Intersects(inner) {
		s.DrawEllipse(inner, colDateBg)
		var icon string
		if radial {
			icon = iconCancel
		} else if loaded {
			icon = iconPlay
		} else {
			icon = iconDownload
		}
		s.DrawIcon(inner.Center(), icon)
		if radial {
			s.DrawRadial(inner.Shrunk(stMsgFileRadialLine), t.radial.Progress(), colFileInBg)
		}
	}

	if selected {
		s.DrawIcon(Point{X: t.width, Y: t.height}, iconChecked)
	} else if ctx.Selecting {
		s.DrawIcon(Point{X: t.width, Y: t.height}, iconCheck)
	}
}

func (t *VideoTile) HitTest(x, y int) (Handle, Cursor) {
	if !t.hasPoint(x, y) {
		return Handle{}, CursorDefault
	}
	if t.data.State.Loaded() {
		return t.openHandle(), CursorPointer
	}
	if t.data.State.Loading() {
		return t.cancelHandle(), CursorPointer
	}
	return t.saveHandle(), CursorPointer
}

// updateStatusText recomputes the cached status line when the derived
// status size changed. An in-flight offset below the clamp renders as
// a plain size text of the bytes received so far.
func (t *VideoTile) updateStatusText() {
	statusSize := deriveTransferStatus(t.data.State)
	if statusSize != t.statusSize {
		status, size := statusSize, t.data.Size
		if statusSize >= 0 && statusSize < fileStatusClamp {
			size = status
			status = FileStatusSizeReady
		}
		t.setStatusSize(status, size, -1, 0)
		t.statusSize = statusSize
	}
}
