package layout

import (
	"time"

	"tg-overview/internal/domain"
)

// DocumentTile is the list row of a document message. Songs render as
// a play circle with name and status; other files render as a thumb
// or accent square with name, status and date rows.
type DocumentTile struct {
	fileItem

	data *domain.Document

	name  string
	date  string
	namew int
	datew int

	ext        string
	extw       int
	colorIndex int

	thumbw         int
	thumbForLoaded bool
	thumb          Pix
}

// NewDocumentTile wraps the document of the message for list display.
func NewDocumentTile(document *domain.Document, parent *domain.Message) *DocumentTile {
	t := &DocumentTile{
		data: document,
		name: DocumentName(document),
		date: time.Unix(document.Date, 0).Format("2 Jan 06 15:04"),
	}
	t.parent = parent
	t.namew = stSemiboldFont.Width(t.name)
	t.datew = stNormalFont.Width(t.date)
	t.colorIndex, t.ext = DocumentColorIndex(document)

	duration := int64(-1)
	if document.IsSong() {
		duration = document.Song.Duration
	}
	t.setStatusSize(FileStatusSizeReady, document.Size, duration, 0)

	if t.withThumb() {
		tw, th := document.Thumb.Width, document.Thumb.Height
		if tw > th {
			t.thumbw = tw * stOverviewFileSize / th
		} else {
			t.thumbw = stOverviewFileSize
		}
	}

	t.extw = stFileExtFont.Width(t.ext)
	if t.extw > stOverviewFileSize-2*stOverviewFileExtPadding {
		t.ext = stFileExtFont.ElidedMiddle(t.ext, stOverviewFileSize-2*stOverviewFileExtPadding)
		t.extw = stFileExtFont.Width(t.ext)
	}

	t.maxw = stProfileMaxWidth
	if document.IsSong() {
		t.minh = stMsgFilePaddingTop + stMsgFileSize + stMsgFilePaddingTop
	} else {
		t.minh = stOverviewFilePaddingTop + stOverviewFileSize + stOverviewFilePaddingTop + stLineWidth
	}
	return t
}

func (t *DocumentTile) withThumb() bool {
	return !t.data.IsSong() && t.data.Thumb != nil && t.data.Thumb.Key != ""
}

func (t *DocumentTile) Layout(width int) int {
	t.width = minInt(width, t.maxw)
	t.height = t.minh
	return t.height
}

func (t *DocumentTile) Paint(s Surface, clip Rect, sel Selection, ctx *PaintContext) {
	selected := sel == FullSelection

	t.data.State.AutomaticLoad(ctx.loadCtx())
	loaded, displayLoading := t.data.State.Loaded(), t.data.State.DisplayLoading()
	if displayLoading {
		t.ensureRadial(t.data.State.Progress(), ctx.MS)
	}
	showPause := t.updateStatusText(ctx.Audio)
	radial := t.isRadialAnimation(t.data.State, ctx.MS)

	var nameleft, nametop, nameright, statustop, datetop int
	wthumb := t.withThumb()

	if t.data.IsSong() {
		nameleft = stMsgFilePaddingLeft + stMsgFileSize + stMsgFilePaddingLeft
		nameright = stMsgFilePaddingLeft
		nametop = stMsgFileNameTop
		statustop = stMsgFileStatusTop
		datetop = -1

		if selected {
			s.FillRect(Rect{W: t.width, H: t.height}, colInBgSelected)
		}

		inner := Rect{X: stMsgFilePaddingLeft, Y: stMsgFilePaddingTop, W: stMsgFileSize, H: stMsgFileSize}
		if clip.Intersects(inner) {
			s.DrawEllipse(inner, colFileInBg)
			if radial {
				s.DrawRadial(inner.Shrunk(stMsgFileRadialLine), t.radial.Progress(), colFileInBg)
			}
			var icon string
			switch {
			case showPause:
				icon = iconPause
			case loaded:
				icon = iconPlay
			case t.data.State.Loading():
				icon = iconCancel
			default:
				icon = iconDownload
			}
			s.DrawIcon(inner.Center(), icon)
		}
	} else {
		nameleft = stOverviewFileSize + stOverviewFilePadRight
		nametop = stLinksBorder + stOverviewFileNameTop
		statustop = stLinksBorder + stOverviewFileStatusTop
		datetop = stLinksBorder + stOverviewFileDateTop

		border := Rect{X: nameleft, Y: 0, W: t.width - nameleft, H: stLinksBorder}
		if !ctx.IsAfterDate && clip.Intersects(border) {
			s.FillRect(border, colLinksBorder)
		}

		rthumb := Rect{X: 0, Y: stLinksBorder + stOverviewFilePaddingTop, W: stOverviewFileSize, H: stOverviewFileSize}
		if clip.Intersects(rthumb) {
			if wthumb {
				if t.data.Thumb.Loaded() {
					if !t.thumb.Valid || loaded != t.thumbForLoaded {
						t.thumbForLoaded = loaded
						t.thumb = Pix{
							Key:     t.data.Thumb.Key,
							Size:    t.thumbw * DeviceScale,
							Crop:    squareCrop(t.data.Thumb.Width, t.data.Thumb.Height),
							Blurred: !t.thumbForLoaded,
							Valid:   true,
						}
					}
					s.DrawPix(rthumb.X, rthumb.Y, t.thumb)
				} else {
					s.FillRect(rthumb, colPhotoBg)
				}
			} else {
				s.FillRect(rthumb, documentColor(t.colorIndex))
				if !radial && loaded && t.ext != "" {
					s.DrawTextLeft(rthumb.X+(rthumb.W-t.extw)/2, rthumb.Y+stOverviewFileExtTop, t.width, t.ext)
				}
			}
			if selected {
				s.FillRect(rthumb, colSelectOverlay)
			}

			if radial || (!loaded && !t.data.State.Loading()) {
				inner := Rect{
					X: rthumb.X + (rthumb.W-stMsgFileSize)/2,
					Y: rthumb.Y + (rthumb.H-stMsgFileSize)/2,
					W: stMsgFileSize,
					H: stMsgFileSize,
				}
				if clip.Intersects(inner) {
					s.DrawEllipse(inner, colDateBg)
					var icon string
					if loaded || t.data.State.Loading() {
						icon = iconCancel
					} else {
						icon = iconDownload
					}
					s.DrawIcon(inner.Center(), icon)
					if radial {
						s.DrawRadial(inner.Shrunk(stMsgFileRadialLine), t.radial.Progress(), colFileInBg)
					}
				}
			}
			if selected {
				s.DrawIcon(Point{X: rthumb.W, Y: rthumb.Y + rthumb.H}, iconChecked)
			} else if ctx.Selecting {
				s.DrawIcon(Point{X: rthumb.W, Y: rthumb.Y + rthumb.H}, iconCheck)
			}
		}
	}

	namewidth := t.width - nameleft - nameright

	if clip.Intersects(Rect{X: nameleft, Y: nametop, W: minInt(namewidth, t.namew), H: stSemiboldFont.Height}) {
		if namewidth < t.namew {
			s.DrawTextLeft(nameleft, nametop, t.width, stSemiboldFont.Elided(t.name, namewidth))
		} else {
			s.DrawTextLeft(nameleft, nametop, t.width, t.name)
		}
	}

	if clip.Intersects(Rect{X: nameleft, Y: statustop, W: namewidth, H: stNormalFont.Height}) {
		s.DrawTextLeft(nameleft, statustop, t.width, t.statusText)
	}
	if datetop >= 0 && clip.Intersects(Rect{X: nameleft, Y: datetop, W: t.datew, H: stNormalFont.Height}) {
		s.DrawTextLeft(nameleft, datetop, t.width, t.date)
	}
}

func (t *DocumentTile) HitTest(x, y int) (Handle, Cursor) {
	loaded := t.data.State.Loaded()
	t.updateStatusText(nil)

	if t.data.IsSong() {
		inner := Rect{X: stMsgFilePaddingLeft, Y: stMsgFilePaddingTop, W: stMsgFileSize, H: stMsgFileSize}
		if inner.Contains(x, y) {
			if !loaded && (t.data.State.Loading() || t.data.State.Uploading()) {
				return t.cancelHandle(), CursorPointer
			}
			return t.openHandle(), CursorPointer
		}
		if t.hasPoint(x, y) && !t.data.State.Loading() {
			return t.openHandle(), CursorPointer
		}
		return Handle{}, CursorDefault
	}

	nameleft := stOverviewFileSize + stOverviewFilePadRight
	nameright := 0
	nametop := stLinksBorder + stOverviewFileNameTop
	datetop := stLinksBorder + stOverviewFileDateTop

	rthumb := Rect{X: 0, Y: stLinksBorder + stOverviewFilePaddingTop, W: stOverviewFileSize, H: stOverviewFileSize}
	if rthumb.Contains(x, y) {
		if loaded {
			return t.openHandle(), CursorPointer
		}
		if t.data.State.Loading() || t.data.State.Uploading() {
			return t.cancelHandle(), CursorPointer
		}
		return t.saveHandle(), CursorPointer
	}

	if !t.data.State.UploadFailed() {
		if (Rect{X: nameleft, Y: datetop, W: t.datew, H: stNormalFont.Height}).Contains(x, y) {
			return t.messageHandle(), CursorPointer
		}
	}
	if !t.data.State.Loading() {
		if loaded && (Rect{X: 0, Y: stLinksBorder, W: nameleft, H: t.height - stLinksBorder}).Contains(x, y) {
			return t.openHandle(), CursorPointer
		}
		nameRow := Rect{X: nameleft, Y: nametop, W: minInt(t.width-nameleft-nameright, t.namew), H: stSemiboldFont.Height}
		if nameRow.Contains(x, y) {
			return t.openHandle(), CursorPointer
		}
	}
	return Handle{}, CursorDefault
}

// updateStatusText recomputes the cached status line, deriving an
// elapsed-position status when this song is the one playing.
func (t *DocumentTile) updateStatusText(audio domain.AudioPlayer) bool {
	showPause := false
	var statusSize, realDuration int64
	switch {
	case t.data.State.DownloadFailed() || t.data.State.UploadFailed():
		statusSize = FileStatusSizeFailed
	case t.data.State.Uploading():
		statusSize = t.data.State.UploadOffset()
	case t.data.State.Loading():
		statusSize = t.data.State.LoadOffset()
	case t.data.State.Loaded():
		statusSize = FileStatusSizeLoaded
		if t.data.IsSong() && audio != nil {
			playing, state, position, duration, frequency := audio.CurrentState()
			freq := int64(frequency)
			if freq == 0 {
				freq = domain.AudioVoiceMsgFrequency
			}
			if playing == t.parent.FullID() && !state.StoppedOrPaused() && state != domain.PlayerFinishing {
				statusSize = -1 - position/freq
				realDuration = duration / freq
				showPause = state == domain.PlayerPlaying ||
					state == domain.PlayerResuming ||
					state == domain.PlayerStarting
			}
		}
	default:
		statusSize = FileStatusSizeReady
	}
	if statusSize != t.statusSize {
		duration := int64(-1)
		if t.data.IsSong() {
			duration = t.data.Song.Duration
		}
		t.setStatusSize(statusSize, t.data.Size, duration, realDuration)
	}
	return showPause
}
