package layout

import "time"

// DateTile is the separator row between overview sections of
// different days or months.
type DateTile struct {
	itemBase

	date time.Time
	text string
}

// NewDateTile builds a separator for the date; month collapses it to
// the month name.
func NewDateTile(date time.Time, month bool) *DateTile {
	t := &DateTile{date: date}
	if month {
		t.text = date.Format("January 2006")
	} else {
		t.text = date.Format("2 January 2006")
	}
	t.maxw = stNormalFont.Width(t.text)
	t.minh = stLinksDateMarginTop + stNormalFont.Height + stLinksDateMarginBot + stLinksBorder
	return t
}

func (t *DateTile) Layout(width int) int {
	t.width = width
	t.height = t.minh
	return t.height
}

func (t *DateTile) Paint(s Surface, clip Rect, sel Selection, ctx *PaintContext) {
	row := Rect{X: 0, Y: stLinksDateMarginTop, W: t.width, H: stNormalFont.Height}
	if clip.Intersects(row) {
		s.DrawTextLeft(0, stLinksDateMarginTop, t.width, t.text)
	}
}

func (t *DateTile) HitTest(x, y int) (Handle, Cursor) {
	return Handle{}, CursorDefault
}
