package loader

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"tg-overview/internal/adapter/filesystem"
	"tg-overview/internal/domain"
	"tg-overview/internal/pkg/retry"

	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader downloads remote media into the on-disk cache. Transfers run
// on a bounded worker group; their state is published through atomics
// and polled by the layout layer at paint time.
type Loader struct {
	api   *tg.Client
	cache *filesystem.Cache
	log   *zap.Logger

	group *errgroup.Group
	gctx  context.Context

	autoLimit int64

	mu        sync.Mutex
	transfers map[string]*Transfer
	reporter  domain.ProgressReporter
}

func New(cache *filesystem.Cache, log *zap.Logger, workers int, autoLimit int64) *Loader {
	if workers <= 0 {
		workers = 1
	}
	group, gctx := errgroup.WithContext(context.Background())
	group.SetLimit(workers)
	return &Loader{
		cache:     cache,
		log:       log,
		group:     group,
		gctx:      gctx,
		autoLimit: autoLimit,
		transfers: make(map[string]*Transfer),
	}
}

// Bind wires the raw API client once the connection is up.
func (l *Loader) Bind(api *tg.Client) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.api = api
}

func (l *Loader) SetReporter(r domain.ProgressReporter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reporter = r
}

// Wait blocks until all started transfers finish.
func (l *Loader) Wait() error {
	return l.group.Wait()
}

// DocumentState returns the shared transfer state of the document.
func (l *Loader) DocumentState(doc *tg.Document) domain.FileState {
	key := fmt.Sprintf("docfile:%d", doc.ID)
	name := key
	auto := doc.Size <= l.autoLimit
	for _, ac := range doc.Attributes {
		switch a := ac.(type) {
		case *tg.DocumentAttributeFilename:
			name = a.FileName
		case *tg.DocumentAttributeAudio:
			if a.Voice {
				// Voice notes always load eagerly.
				auto = true
			}
		}
	}
	return l.transfer(key, name, doc.Size, doc.AsInputDocumentFileLocation(), auto)
}

// PhotoState returns the shared transfer state of the photo's largest
// size.
func (l *Loader) PhotoState(photo *tg.Photo) domain.FileState {
	var (
		thumbType string
		size      int64
	)
	for _, sc := range photo.Sizes {
		switch s := sc.(type) {
		case *tg.PhotoSize:
			if int64(s.Size) >= size {
				thumbType, size = s.Type, int64(s.Size)
			}
		case *tg.PhotoSizeProgressive:
			if n := len(s.Sizes); n > 0 && int64(s.Sizes[n-1]) >= size {
				thumbType, size = s.Type, int64(s.Sizes[n-1])
			}
		}
	}
	loc := &tg.InputPhotoFileLocation{
		ID:            photo.ID,
		AccessHash:    photo.AccessHash,
		FileReference: photo.FileReference,
		ThumbSize:     thumbType,
	}
	key := fmt.Sprintf("photofile:%d:%s", photo.ID, thumbType)
	return l.transfer(key, key, size, loc, size <= l.autoLimit)
}

func (l *Loader) transfer(key, name string, size int64, loc tg.InputFileLocationClass, auto bool) *Transfer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.transfers[key]; ok {
		return t
	}
	t := &Transfer{
		ld:   l,
		key:  key,
		name: name,
		size: size,
		loc:  loc,
		auto: auto,
	}
	if l.cache.Has(key) {
		t.loaded.Store(true)
		t.offset.Store(l.cache.Size(key))
	}
	l.transfers[key] = t
	return t
}

// startDownload runs on the loader's own context: the paint-time
// context that triggered the load is per-frame and must not cancel the
// transfer.
func (l *Loader) startDownload(t *Transfer) {
	l.mu.Lock()
	api := l.api
	reporter := l.reporter
	l.mu.Unlock()
	if api == nil {
		t.loading.Store(false)
		t.failed.Store(true)
		return
	}

	dctx, cancel := context.WithCancel(l.gctx)
	t.cancelFn.Store(cancel)

	l.group.Go(func() error {
		defer cancel()

		var task domain.ProgressTask
		if reporter != nil {
			task = reporter.Start(t.name, t.size)
		}

		op := func() error {
			t.offset.Store(0)
			pr, pw := io.Pipe()
			counting := &countingWriter{w: pw, n: &t.offset, task: task}

			done := make(chan error, 1)
			go func() {
				_, err := l.cache.Put(t.key, pr)
				done <- err
			}()

			dl := downloader.NewDownloader()
			_, err := dl.Download(api, t.loc).Stream(dctx, counting)
			if err != nil {
				pw.CloseWithError(err)
				<-done
				return err
			}
			pw.Close()
			return <-done
		}

		err := retry.WithRetry(dctx, l.log, "download "+t.name, op, 3, time.Second)
		if task != nil {
			task.Complete()
		}
		t.loading.Store(false)
		if err != nil {
			t.failed.Store(true)
			l.log.Warn("download failed", zap.String("file", t.name), zap.Error(err))
			// A failed transfer must not tear down the group.
			return nil
		}
		t.loaded.Store(true)
		l.log.Debug("download finished",
			zap.String("file", t.name),
			zap.Int64("size", t.offset.Load()))
		return nil
	})
}

// Transfer is the download state of one remote file. All fields the
// layout layer reads are atomics; the worker goroutine publishes, the
// UI goroutine polls.
type Transfer struct {
	ld   *Loader
	key  string
	name string
	size int64
	loc  tg.InputFileLocationClass
	auto bool

	loaded   atomic.Bool
	loading  atomic.Bool
	failed   atomic.Bool
	offset   atomic.Int64
	cancelFn atomic.Value // context.CancelFunc
}

func (t *Transfer) AutomaticLoad(context.Context) {
	if !t.auto || t.loaded.Load() || t.failed.Load() {
		return
	}
	t.Load()
}

// Load starts the download unless one already ran or is running. A new
// attempt clears any failure left by the previous one, so an explicit
// retry renders as loading again instead of staying failed.
func (t *Transfer) Load() {
	if !t.loading.CompareAndSwap(false, true) {
		return
	}
	if t.loaded.Load() {
		t.loading.Store(false)
		return
	}
	t.failed.Store(false)
	t.ld.startDownload(t)
}

func (t *Transfer) Loaded() bool        { return t.loaded.Load() }
func (t *Transfer) Loading() bool       { return t.loading.Load() }
func (t *Transfer) LoadOffset() int64   { return t.offset.Load() }
func (t *Transfer) Uploading() bool     { return false }
func (t *Transfer) UploadOffset() int64 { return 0 }

func (t *Transfer) DownloadFailed() bool { return t.failed.Load() }
func (t *Transfer) UploadFailed() bool   { return false }

func (t *Transfer) DisplayLoading() bool { return t.loading.Load() }

func (t *Transfer) Progress() float64 {
	if t.size <= 0 {
		return 0
	}
	p := float64(t.offset.Load()) / float64(t.size)
	if p > 1 {
		p = 1
	}
	return p
}

func (t *Transfer) Cancel() {
	if cancel, ok := t.cancelFn.Load().(context.CancelFunc); ok {
		cancel()
	}
}

// Path is the cached file location once loaded.
func (t *Transfer) Path() string {
	return t.ld.cache.Path(t.key)
}

type countingWriter struct {
	w    io.Writer
	n    *atomic.Int64
	task domain.ProgressTask
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n.Add(int64(n))
	if c.task != nil {
		c.task.Increment(n)
	}
	return n, err
}
