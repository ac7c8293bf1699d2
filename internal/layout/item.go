package layout

import (
	"context"

	"tg-overview/internal/domain"
)

// Point is a surface coordinate.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned surface rectangle.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func (r Rect) Shrunk(by int) Rect {
	return Rect{X: r.X + by, Y: r.Y + by, W: r.W - 2*by, H: r.H - 2*by}
}

// Selection is the tile selection state passed into Paint.
type Selection uint32

// FullSelection marks the tile fully selected.
const FullSelection Selection = 0xFFFFFFFF

// Pix is a cached derived pixel buffer descriptor. The actual pixels
// live with the surface; the layout layer tracks the parameters they
// were produced from, and rebuilds when they change.
type Pix struct {
	Key     string
	Size    int // device-scaled edge, or width for non-square
	Crop    Rect
	Blurred bool
	Valid   bool
}

// Surface is the paint target. Implementations render however they
// like (terminal cells here); the layout layer only issues semantic
// operations.
type Surface interface {
	FillRect(r Rect, color string)
	DrawPix(x, y int, pix Pix)
	DrawTextLeft(x, y, outerW int, text string)
	DrawIcon(center Point, name string)
	DrawEllipse(r Rect, color string)
	DrawRadial(r Rect, progress float64, color string)
}

// PaintContext carries per-frame paint state.
type PaintContext struct {
	Ctx         context.Context
	MS          int64 // frame timestamp, milliseconds
	Now         int64 // frame timestamp, unix seconds
	Selecting   bool
	IsAfterDate bool
	Audio       domain.AudioPlayer
}

func (c *PaintContext) loadCtx() context.Context {
	if c == nil || c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// HandleKind discriminates the action resolved by a hit test.
type HandleKind int

const (
	HandleNone HandleKind = iota
	HandleOpenMedia
	HandleSaveMedia
	HandleCancelTransfer
	HandleOpenMessage
	HandleOpenURL
)

// Handle is the action target a click resolves to.
type Handle struct {
	Kind HandleKind
	Msg  domain.FullMsgID
	URL  string
}

func (h Handle) Zero() bool { return h.Kind == HandleNone }

// Cursor is the pointer shape to show over a hit-test position.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorText
)

// Item is one overview tile. Layout is idempotent: the same width
// yields the same height without recomputing caches; Paint may lazily
// rebuild derived pixmaps and status text but never touches model
// state.
type Item interface {
	Measure() (maxWidth, minHeight int)
	Layout(width int) (height int)
	Paint(s Surface, clip Rect, sel Selection, ctx *PaintContext)
	HitTest(x, y int) (Handle, Cursor)
	Width() int
	Height() int
	Parent() *domain.Message
}

// itemBase carries the shared geometry state of all tiles. The parent
// reference is non-owning: the message's history controls both
// lifetimes and a tile is dropped before its message is destroyed.
type itemBase struct {
	parent *domain.Message

	width  int
	height int
	maxw   int
	minh   int
}

func (b *itemBase) Measure() (int, int)         { return b.maxw, b.minh }
func (b *itemBase) Width() int                  { return b.width }
func (b *itemBase) Height() int                 { return b.height }
func (b *itemBase) Parent() *domain.Message     { return b.parent }
func (b *itemBase) hasPoint(x, y int) bool {
	return Rect{W: b.width, H: b.height}.Contains(x, y)
}

func (b *itemBase) openHandle() Handle {
	return Handle{Kind: HandleOpenMedia, Msg: b.parent.FullID()}
}

func (b *itemBase) cancelHandle() Handle {
	return Handle{Kind: HandleCancelTransfer, Msg: b.parent.FullID()}
}

func (b *itemBase) saveHandle() Handle {
	return Handle{Kind: HandleSaveMedia, Msg: b.parent.FullID()}
}

func (b *itemBase) messageHandle() Handle {
	return Handle{Kind: HandleOpenMessage, Msg: b.parent.FullID()}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// squareCrop is the symmetric crop around the center of the shorter
// axis, producing a square source rect.
func squareCrop(w, h int) Rect {
	if w > h {
		return Rect{X: (w - h) / 2, Y: 0, W: h, H: h}
	}
	if h > w {
		return Rect{X: 0, Y: (h - w) / 2, W: w, H: w}
	}
	return Rect{W: w, H: h}
}
