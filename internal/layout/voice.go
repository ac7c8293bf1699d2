package layout

import (
	"time"

	"tg-overview/internal/domain"
)

// VoiceTile is the list row of a voice note: a play/download circle,
// the sender name and a status/details line.
type VoiceTile struct {
	fileItem

	data *domain.Document

	name        string
	nameVersion int
	details     string
}

// NewVoiceTile wraps the voice document of the message.
func NewVoiceTile(voice *domain.Document, parent *domain.Message) *VoiceTile {
	if !voice.IsVoiceMessage() {
		panic("layout: voice tile over a non-voice document")
	}
	t := &VoiceTile{data: voice}
	t.parent = parent
	t.maxw = stProfileMaxWidth
	t.minh = stMsgFilePaddingTop + stMsgFileSize + stMsgFilePaddingTop + stLineWidth
	t.updateName()
	t.details = time.Unix(voice.Date, 0).Format("2 Jan 06 15:04") +
		", " + FormatDurationText(voice.Duration)
	return t
}

func (t *VoiceTile) Layout(width int) int {
	t.width = minInt(width, t.maxw)
	t.height = t.minh
	return t.height
}

func (t *VoiceTile) Paint(s Surface, clip Rect, sel Selection, ctx *PaintContext) {
	selected := sel == FullSelection

	t.data.State.AutomaticLoad(ctx.loadCtx())
	displayLoading := t.data.State.DisplayLoading()
	if displayLoading {
		t.ensureRadial(t.data.State.Progress(), ctx.MS)
	}
	showPause := t.updateStatusText(ctx.Audio)
	if v := t.parent.FromOriginal().NameVersion; v > t.nameVersion {
		t.updateName()
	}
	radial := t.isRadialAnimation(t.data.State, ctx.MS)

	nameleft := stMsgFilePaddingLeft + stMsgFileSize + stMsgFilePaddingLeft
	nameright := stMsgFilePaddingLeft
	nametop := stMsgFileNameTop
	statustop := stMsgFileStatusTop

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
		case t.statusSize < 0 || t.statusSize == FileStatusSizeLoaded:
			icon = iconPlay
		case t.data.State.Loading():
			icon = iconCancel
		default:
			icon = iconDownload
		}
		s.DrawIcon(inner.Center(), icon)
	}

	namewidth := t.width - nameleft - nameright
	if clip.Intersects(Rect{X: nameleft, Y: nametop, W: namewidth, H: stSemiboldFont.Height}) {
		s.DrawTextLeft(nameleft, nametop, t.width, stSemiboldFont.Elided(t.name, namewidth))
	}

	if clip.Intersects(Rect{X: nameleft, Y: statustop, W: namewidth, H: stNormalFont.Height}) {
		unreadx := nameleft
		if t.statusSize == FileStatusSizeLoaded || t.statusSize == FileStatusSizeReady {
			s.DrawTextLeft(nameleft, statustop, t.width, stNormalFont.Elided(t.details, namewidth))
			unreadx += stNormalFont.Width(t.details)
		} else {
			s.DrawTextLeft(nameleft, statustop, t.width, t.statusText)
			unreadx += stNormalFont.Width(t.statusText)
		}
		if t.parent.IsUnreadMedia(ctx.Now) && unreadx+stMediaUnreadSkip+stMediaUnreadSize <= t.width {
			s.DrawEllipse(Rect{
				X: unreadx + stMediaUnreadSkip,
				Y: statustop + stMediaUnreadTop,
				W: stMediaUnreadSize,
				H: stMediaUnreadSize,
			}, colFileInBg)
		}
	}
}

func (t *VoiceTile) HitTest(x, y int) (Handle, Cursor) {
	loaded := t.data.State.Loaded()
	t.updateStatusText(nil)

	nameleft := stMsgFilePaddingLeft + stMsgFileSize + stMsgFilePaddingLeft
	nameright := stMsgFilePaddingLeft
	statustop := stMsgFileStatusTop

	inner := Rect{X: stMsgFilePaddingLeft, Y: stMsgFilePaddingTop, W: stMsgFileSize, H: stMsgFileSize}
	if inner.Contains(x, y) {
		if loaded {
			return t.openHandle(), CursorPointer
		}
		if t.data.State.Loading() || t.data.State.Uploading() {
			return t.cancelHandle(), CursorPointer
		}
		return t.openHandle(), CursorPointer
	}
	statusRow := Rect{X: nameleft, Y: statustop, W: t.width - nameleft - nameright, H: stNormalFont.Height}
	if statusRow.Contains(x, y) {
		if t.statusSize == FileStatusSizeLoaded || t.statusSize == FileStatusSizeReady {
			return t.messageHandle(), CursorText
		}
	}
	// An inert tile still resolves to the default open action.
	if t.hasPoint(x, y) && !t.data.State.Loading() {
		return t.openHandle(), CursorPointer
	}
	return Handle{}, CursorDefault
}

// updateName rebuilds the name label and records the sender's name
// generation it was built from.
func (t *VoiceTile) updateName() {
	from := t.parent.FromOriginal()
	if t.parent.Forwarded() != nil {
		if from.IsChannel() {
			t.name = "Forwarded from channel " + from.Name
		} else {
			t.name = "Forwarded from " + from.Name
		}
	} else {
		t.name = t.parent.From().Name
	}
	t.nameVersion = from.NameVersion
}

// updateStatusText recomputes the cached status line, deriving an
// elapsed-position status when this voice note is the one playing.
func (t *VoiceTile) updateStatusText(audio domain.AudioPlayer) bool {
	showPause := false
	var statusSize, realDuration int64
	switch {
	case t.data.State.DownloadFailed() || t.data.State.UploadFailed():
		statusSize = FileStatusSizeFailed
	case t.data.State.Loaded():
		statusSize = FileStatusSizeLoaded
		if audio != nil {
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
		t.setStatusSize(statusSize, t.data.Size, t.data.Duration, realDuration)
	}
	return showPause
}
