package loader

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tg-overview/internal/adapter/filesystem"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
)

// fakeInvoker answers upload.getFile with canned bytes. In failing
// mode it reports an error after running onFail, which tests wire to
// the transfer's Cancel so the retry loop stops at once.
type fakeInvoker struct {
	mu     sync.Mutex
	fail   bool
	onFail func()
	data   []byte
	calls  int
}

func (f *fakeInvoker) Invoke(_ context.Context, _ bin.Encoder, output bin.Decoder) error {
	f.mu.Lock()
	fail, onFail, data := f.fail, f.onFail, f.data
	f.calls++
	f.mu.Unlock()
	if fail {
		if onFail != nil {
			onFail()
		}
		return errors.New("link down")
	}
	var b bin.Buffer
	res := &tg.UploadFile{Type: &tg.StorageFilePartial{}, Bytes: data}
	if err := res.Encode(&b); err != nil {
		return err
	}
	return output.Decode(&b)
}

func (f *fakeInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeInvoker) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func newTestLoader(t *testing.T, autoLimit int64) (*Loader, *filesystem.Cache) {
	t.Helper()
	cache, err := filesystem.NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return New(cache, zap.NewNop(), 1, autoLimit), cache
}

func testDocument(id, size int64, voice bool) *tg.Document {
	doc := &tg.Document{ID: id, Size: size, MimeType: "application/pdf"}
	doc.Attributes = []tg.DocumentAttributeClass{
		&tg.DocumentAttributeFilename{FileName: "report.pdf"},
	}
	if voice {
		doc.MimeType = "audio/ogg"
		doc.Attributes = append(doc.Attributes,
			&tg.DocumentAttributeAudio{Voice: true, Duration: 5})
	}
	return doc
}

// waitTerminal polls the atomics until the worker published a terminal
// state for the transfer.
func waitTerminal(t *testing.T, tr *Transfer) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !tr.Loaded() && !tr.DownloadFailed() {
		if time.Now().After(deadline) {
			t.Fatalf("transfer did not reach a terminal state")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// TestDocumentStateCacheSeed verifies a transfer whose file is already
// cached starts out loaded, with the offset at the cached size.
func TestDocumentStateCacheSeed(t *testing.T) {
	l, cache := newTestLoader(t, 1024)
	if _, err := cache.Put("docfile:42", strings.NewReader("hello")); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	st := l.DocumentState(testDocument(42, 512, false))
	if !st.Loaded() {
		t.Fatalf("cached file not reported loaded")
	}
	if st.LoadOffset() != 5 {
		t.Fatalf("offset = %d, want 5", st.LoadOffset())
	}
	if st.Loading() || st.DisplayLoading() || st.DownloadFailed() {
		t.Fatalf("cached transfer reports activity")
	}
}

// TestAutomaticLoadThreshold verifies the eager-load rules: small
// files and voice notes load on sight, files over the limit wait for a
// click.
func TestAutomaticLoadThreshold(t *testing.T) {
	l, _ := newTestLoader(t, 1024)
	fake := &fakeInvoker{data: []byte("media bytes")}
	l.Bind(tg.NewClient(fake))

	small := l.DocumentState(testDocument(1, 512, false)).(*Transfer)
	small.AutomaticLoad(context.Background())
	waitTerminal(t, small)
	if !small.Loaded() {
		t.Fatalf("small file not loaded automatically")
	}

	big := l.DocumentState(testDocument(2, 4096, false)).(*Transfer)
	calls := fake.callCount()
	big.AutomaticLoad(context.Background())
	if big.Loading() || big.Loaded() || big.DownloadFailed() {
		t.Fatalf("oversize file started loading automatically")
	}
	if fake.callCount() != calls {
		t.Fatalf("oversize file hit the network")
	}

	voice := l.DocumentState(testDocument(3, 4096, true)).(*Transfer)
	voice.AutomaticLoad(context.Background())
	waitTerminal(t, voice)
	if !voice.Loaded() {
		t.Fatalf("voice note not loaded automatically")
	}
}

// TestLoadRetryAfterFailure verifies a failed download can be retried:
// the failure flag clears when the new attempt starts and the retry
// completes normally.
func TestLoadRetryAfterFailure(t *testing.T) {
	l, cache := newTestLoader(t, 0)
	fake := &fakeInvoker{fail: true, data: []byte("second time lucky")}
	l.Bind(tg.NewClient(fake))

	tr := l.DocumentState(testDocument(7, 2048, false)).(*Transfer)
	fake.onFail = tr.Cancel

	tr.Load()
	waitTerminal(t, tr)
	if !tr.DownloadFailed() || tr.Loaded() {
		t.Fatalf("first attempt did not fail")
	}
	if n := fake.callCount(); n != 1 {
		t.Fatalf("cancelled transfer kept retrying: %d calls", n)
	}

	// A failed transfer must not restart on its own.
	calls := fake.callCount()
	tr.AutomaticLoad(context.Background())
	if fake.callCount() != calls {
		t.Fatalf("automatic load re-attempted a failed transfer")
	}

	fake.setFail(false)
	tr.Load()
	if tr.DownloadFailed() {
		t.Fatalf("failure flag survived the new attempt")
	}
	waitTerminal(t, tr)
	if tr.DownloadFailed() || !tr.Loaded() {
		t.Fatalf("retry did not complete")
	}
	if got := cache.Size("docfile:7"); got != int64(len("second time lucky")) {
		t.Fatalf("cached size = %d", got)
	}
}

// TestPhotoStatePicksLargest verifies the photo transfer targets the
// largest size and keys on its thumb type.
func TestPhotoStatePicksLargest(t *testing.T) {
	l, _ := newTestLoader(t, 1024)
	photo := &tg.Photo{ID: 9, Sizes: []tg.PhotoSizeClass{
		&tg.PhotoSize{Type: "m", Size: 100},
		&tg.PhotoSizeProgressive{Type: "y", Sizes: []int{50, 2000}},
	}}

	tr := l.PhotoState(photo).(*Transfer)
	if tr.key != "photofile:9:y" {
		t.Fatalf("key = %q", tr.key)
	}
	if tr.size != 2000 {
		t.Fatalf("size = %d, want 2000", tr.size)
	}
	if tr.auto {
		t.Fatalf("2000-byte photo marked for automatic load with limit 1024")
	}
}
