package ui

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"tg-overview/internal/domain"
	"tg-overview/internal/layout"

	"github.com/manifoldco/promptui"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ConsoleUI handles user interaction via the terminal: auth prompts,
// dialog selection, transfer progress and tile rendering.
type ConsoleUI struct {
	progress       *mpb.Progress
	nonInteractive bool

	mu     sync.Mutex
	dirty  map[domain.FullMsgID]struct{}
	remade bool
}

func NewConsoleUI(nonInteractive bool) *ConsoleUI {
	var p *mpb.Progress
	if !nonInteractive {
		p = mpb.New(mpb.WithWidth(64))
	}
	return &ConsoleUI{
		progress:       p,
		nonInteractive: nonInteractive,
		dirty:          make(map[domain.FullMsgID]struct{}),
	}
}

// Progress Reporter Implementation

func (u *ConsoleUI) Start(name string, total int64) domain.ProgressTask {
	if u.nonInteractive {
		return &nonInteractiveTask{
			name:      name,
			total:     total,
			startTime: time.Now(),
		}
	}

	bar := u.progress.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1}),
			decor.Counters(decor.SizeB1024(0), "% .2f / % .2f", decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.OnComplete(
				decor.Percentage(decor.WCSyncSpace), "done",
			),
			decor.AverageSpeed(decor.SizeB1024(0), "% .2f", decor.WCSyncSpace),
		),
	)
	return &mpbTask{bar: bar}
}

func (u *ConsoleUI) Wait() {
	if u.nonInteractive {
		return
	}
	u.progress.Wait()
	u.progress = mpb.New(mpb.WithWidth(64))
}

type mpbTask struct {
	bar *mpb.Bar
}

func (t *mpbTask) Increment(n int) {
	t.bar.IncrBy(n)
}

func (t *mpbTask) SetCurrent(current int64) {
	t.bar.SetCurrent(current)
}

func (t *mpbTask) Complete() {
	t.bar.SetTotal(-1, true)
}

type nonInteractiveTask struct {
	name      string
	total     int64
	current   int64
	startTime time.Time
}

func (t *nonInteractiveTask) Increment(n int) {
	t.current += int64(n)
}

func (t *nonInteractiveTask) SetCurrent(current int64) {
	t.current = current
}

func (t *nonInteractiveTask) Complete() {
	elapsed := time.Since(t.startTime).Seconds()
	speed := float64(t.current) / elapsed
	fmt.Printf("Finished: %s | Size: %s | Speed: %s/s\n",
		t.name,
		layout.FormatSizeText(t.current),
		layout.FormatSizeText(int64(speed)),
	)
}

// View Notifier Implementation
//
// The terminal re-renders whole lists on demand, so notifications only
// accumulate a dirty set consulted before the next render.

func (u *ConsoleUI) RequestItemViewRefresh(item *domain.Message) {
	u.markDirty(item.FullID())
}

func (u *ConsoleUI) RepaintItem(item *domain.Message) {
	u.markDirty(item.FullID())
}

func (u *ConsoleUI) ItemIDChanged(item *domain.Message, oldID domain.MsgID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.dirty, domain.FullMsgID{PeerID: item.History().Peer.ID, MsgID: oldID})
	u.dirty[item.FullID()] = struct{}{}
}

func (u *ConsoleUI) ItemRemoved(item *domain.Message) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.dirty, item.FullID())
	u.remade = true
}

func (u *ConsoleUI) HistoryChanged(*domain.History) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.remade = true
}

func (u *ConsoleUI) markDirty(id domain.FullMsgID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.dirty[id] = struct{}{}
}

// TakeDirty drains the dirty set, reporting whether the whole list
// needs rebuilding.
func (u *ConsoleUI) TakeDirty() (map[domain.FullMsgID]struct{}, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	dirty := u.dirty
	remade := u.remade
	u.dirty = make(map[domain.FullMsgID]struct{})
	u.remade = false
	return dirty, remade
}

// Auth Input Implementation

// GetPhoneNumber prompts the user for their phone number.
func (u *ConsoleUI) GetPhoneNumber() (string, error) {
	prompt := promptui.Prompt{
		Label: "Enter Phone Number (international format, e.g. +39...)",
		Validate: func(input string) error {
			if len(input) < 5 {
				return errors.New("phone number too short")
			}
			return nil
		},
	}
	return prompt.Run()
}

// GetCode prompts the user for the authentication code.
func (u *ConsoleUI) GetCode() (string, error) {
	prompt := promptui.Prompt{
		Label: "Enter Code",
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("code cannot be empty")
			}
			return nil
		},
	}
	return prompt.Run()
}

// GetPassword prompts the user for their 2FA password.
func (u *ConsoleUI) GetPassword() (string, error) {
	prompt := promptui.Prompt{
		Label: "Enter 2FA Password",
		Mask:  '*',
	}
	return prompt.Run()
}

// SelectDialog prompts the user to pick a conversation.
func (u *ConsoleUI) SelectDialog(dialogs []domain.DialogInfo) (domain.DialogInfo, error) {
	if len(dialogs) == 0 {
		return domain.DialogInfo{}, errors.New("no dialogs available")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "\U0001F449 {{ .Peer.Name | cyan }}",
		Inactive: "  {{ .Peer.Name | white }}",
		Selected: "\U0001F44D {{ .Peer.Name | green | cyan }}",
	}

	prompt := promptui.Select{
		Label:     "Select Chat",
		Items:     dialogs,
		Templates: templates,
		Size:      10,
		Searcher: func(input string, index int) bool {
			name := strings.Replace(strings.ToLower(dialogs[index].Peer.Name), " ", "", -1)
			input = strings.Replace(strings.ToLower(input), " ", "", -1)
			return strings.Contains(name, input)
		},
	}

	i, _, err := prompt.Run()
	if err != nil {
		return domain.DialogInfo{}, err
	}
	return dialogs[i], nil
}

// Tile Rendering

// textOp is one recorded semantic paint operation.
type textOp struct {
	y, x int
	text string
}

// recordSurface implements layout.Surface by capturing text and icon
// operations; geometry-only fills are dropped, a terminal has no
// pixels to fill.
type recordSurface struct {
	ops []textOp
}

func (s *recordSurface) FillRect(layout.Rect, string) {}

func (s *recordSurface) DrawPix(x, y int, pix layout.Pix) {
	s.ops = append(s.ops, textOp{y: y, x: x, text: "[img " + pix.Key + "]"})
}

func (s *recordSurface) DrawTextLeft(x, y, _ int, text string) {
	if text != "" {
		s.ops = append(s.ops, textOp{y: y, x: x, text: text})
	}
}

func (s *recordSurface) DrawIcon(center layout.Point, name string) {
	s.ops = append(s.ops, textOp{y: center.Y, x: center.X, text: "(" + name + ")"})
}

func (s *recordSurface) DrawEllipse(layout.Rect, string) {}

func (s *recordSurface) DrawRadial(_ layout.Rect, progress float64, _ string) {
	s.ops = append(s.ops, textOp{y: -1, x: -1, text: fmt.Sprintf("(%.0f%%)", progress*100)})
}

// line flattens the recorded operations into one row, left to right,
// top to bottom.
func (s *recordSurface) line() string {
	sort.SliceStable(s.ops, func(i, j int) bool {
		if s.ops[i].y != s.ops[j].y {
			return s.ops[i].y < s.ops[j].y
		}
		return s.ops[i].x < s.ops[j].x
	})
	parts := make([]string, 0, len(s.ops))
	for _, op := range s.ops {
		parts = append(parts, op.text)
	}
	return strings.Join(parts, "  ")
}

// RenderItems lays the tiles out at the width and prints one line per
// tile.
func (u *ConsoleUI) RenderItems(items []layout.Item, width int, ctx *layout.PaintContext) {
	prevDate := false
	for _, item := range items {
		h := item.Layout(width)
		ctx.IsAfterDate = prevDate
		_, prevDate = item.(*layout.DateTile)

		s := &recordSurface{}
		clip := layout.Rect{W: item.Width(), H: h}
		item.Paint(s, clip, 0, ctx)

		if _, isDate := item.(*layout.DateTile); isDate {
			fmt.Println("--- " + s.line())
			continue
		}
		fmt.Println("  " + s.line())
	}
}
