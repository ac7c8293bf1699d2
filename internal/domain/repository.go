package domain

import "context"

// FileState exposes the transfer state of one remote file. The loader
// collaborator owns the transfer; the model/layout layer polls this at
// paint time and never observes concurrent mutation.
type FileState interface {
	// AutomaticLoad may start a background download if policy allows.
	AutomaticLoad(ctx context.Context)

	Loaded() bool
	Loading() bool
	LoadOffset() int64

	Uploading() bool
	UploadOffset() int64

	DownloadFailed() bool
	UploadFailed() bool

	// DisplayLoading reports whether a progress indicator should show.
	DisplayLoading() bool
	// Progress is the transfer completion fraction in [0, 1].
	Progress() float64

	Cancel()
}

// PlayerState is the audio collaborator's playback state.
type PlayerState int

const (
	PlayerStopped PlayerState = iota
	PlayerStarting
	PlayerPlaying
	PlayerResuming
	PlayerPausing
	PlayerPaused
	PlayerFinishing
)

// StoppedOrPaused reports states that render as a play icon.
func (s PlayerState) StoppedOrPaused() bool {
	return s == PlayerStopped || s == PlayerPausing || s == PlayerPaused
}

// AudioPlayer answers which track is playing and where. Used only to
// pick a play/pause icon and an elapsed-time status string.
type AudioPlayer interface {
	// CurrentState returns the identity of the playing message, the
	// playback state, position and duration in samples, and the sample
	// frequency (0 means the default voice frequency).
	CurrentState() (playing FullMsgID, state PlayerState, position, duration int64, frequency int32)
}

// AudioVoiceMsgFrequency is the default voice note sample rate.
const AudioVoiceMsgFrequency = 48000

// ViewNotifier receives repaint/refresh requests from the model. The
// console adapter implements it; a windowed client would invalidate
// widgets here.
type ViewNotifier interface {
	RequestItemViewRefresh(item *Message)
	RepaintItem(item *Message)
	ItemIDChanged(item *Message, oldID MsgID)
	ItemRemoved(item *Message)
	HistoryChanged(h *History)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) RequestItemViewRefresh(*Message) {}
func (NopNotifier) RepaintItem(*Message)            {}
func (NopNotifier) ItemIDChanged(*Message, MsgID)   {}
func (NopNotifier) ItemRemoved(*Message)            {}
func (NopNotifier) HistoryChanged(*History)         {}

// DialogInfo is one entry of the chat list.
type DialogInfo struct {
	Peer        *Peer
	TopMessage  MsgID
	UnreadCount int
}

// MessageSource fetches wire messages and materializes them into a
// History through the acceptance pipeline.
type MessageSource interface {
	ListDialogs(ctx context.Context) ([]DialogInfo, error)
	// LoadHistory fetches up to limit newest messages of h.Peer and
	// adds them to h.
	LoadHistory(ctx context.Context, h *History, limit int) error
	Close() error
}

// ProgressTask tracks one transfer for display.
type ProgressTask interface {
	Increment(n int)
	SetCurrent(current int64)
	Complete()
}

// ProgressReporter creates display tasks for long transfers.
type ProgressReporter interface {
	Start(name string, total int64) ProgressTask
	Wait()
}
