package layout

import "tg-overview/internal/domain"

// Status size sentinels. Values >= 0 below the clamp are a download
// offset in bytes; negative values encode a playback position as
// -1-position.
const (
	FileStatusSizeReady  int64 = 0x7FFFFFF0
	FileStatusSizeLoaded int64 = 0x7FFFFFF1
	FileStatusSizeFailed int64 = 0x7FFFFFF2

	fileStatusClamp int64 = 0x7F000000
)

// fileItem is the shared state of tiles backed by a transferable file:
// the cached status line and the lazily owned radial indicator. The
// status text is recomputed only when the derived status size differs
// from the cached one, keeping per-frame polling cheap.
type fileItem struct {
	itemBase

	statusSize int64
	statusText string

	radial *RadialProgress
}

// setStatusSize rebuilds the cached status text for the new derived
// size. duration < 0 means no duration (-1) or an animation (< -1).
func (f *fileItem) setStatusSize(newSize, fullSize, duration, realDuration int64) {
	f.statusSize = newSize
	switch {
	case f.statusSize == FileStatusSizeReady:
		if duration >= 0 {
			f.statusText = FormatDurationAndSizeText(duration, fullSize)
		} else if duration < -1 {
			f.statusText = FormatGifAndSizeText(fullSize)
		} else {
			f.statusText = FormatSizeText(fullSize)
		}
	case f.statusSize == FileStatusSizeLoaded:
		if duration >= 0 {
			f.statusText = FormatDurationText(duration)
		} else if duration < -1 {
			f.statusText = "GIF"
		} else {
			f.statusText = FormatSizeText(fullSize)
		}
	case f.statusSize == FileStatusSizeFailed:
		f.statusText = "Failed"
	case f.statusSize >= 0:
		f.statusText = FormatDownloadText(f.statusSize, fullSize)
	default:
		f.statusText = FormatPlayedText(-f.statusSize-1, realDuration)
	}
}

// ensureRadial constructs the indicator on first need.
func (f *fileItem) ensureRadial(progress float64, ms int64) {
	if f.radial == nil {
		f.radial = NewRadialProgress(progress, ms)
	} else if !f.radial.Animating() {
		f.radial.Start(progress, ms)
	}
}

// isRadialAnimation advances the indicator for this frame and reports
// whether it should draw. The indicator is dropped only once the
// transfer terminated and the animation has fully ended.
func (f *fileItem) isRadialAnimation(state domain.FileState, ms int64) bool {
	if f.radial == nil {
		return false
	}
	f.radial.Update(state.Progress(), !state.Loading() && !state.Uploading(), ms)
	if !f.radial.Animating() && state.Loaded() {
		f.radial = nil
		return false
	}
	return true
}

// deriveTransferStatus maps a polled transfer state onto a status
// size, without playback handling.
func deriveTransferStatus(state domain.FileState) int64 {
	switch {
	case state.DownloadFailed() || state.UploadFailed():
		return FileStatusSizeFailed
	case state.Uploading():
		return state.UploadOffset()
	case state.Loading():
		return state.LoadOffset()
	case state.Loaded():
		return FileStatusSizeLoaded
	default:
		return FileStatusSizeReady
	}
}
