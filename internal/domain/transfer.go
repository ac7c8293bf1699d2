package domain

import "context"

// NoTransfer is an inert FileState for media that has no loader wired,
// either because it is already on disk or because nothing will ever
// fetch it.
type NoTransfer struct {
	Complete bool
}

func (t *NoTransfer) AutomaticLoad(context.Context) {}
func (t *NoTransfer) Loaded() bool                  { return t.Complete }
func (t *NoTransfer) Loading() bool                 { return false }
func (t *NoTransfer) LoadOffset() int64             { return 0 }
func (t *NoTransfer) Uploading() bool               { return false }
func (t *NoTransfer) UploadOffset() int64           { return 0 }
func (t *NoTransfer) DownloadFailed() bool          { return false }
func (t *NoTransfer) UploadFailed() bool            { return false }
func (t *NoTransfer) DisplayLoading() bool          { return false }
func (t *NoTransfer) Progress() float64             { return 0 }
func (t *NoTransfer) Cancel()                       {}
