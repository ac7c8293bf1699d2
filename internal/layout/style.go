package layout

// Font carries the fixed metrics of a text style on the abstract
// surface. Widths are monospace approximations: the console surface
// renders cell text, a pixel surface would substitute real metrics.
type Font struct {
	Height int
	CharW  int
}

func (f Font) Width(s string) int {
	return len([]rune(s)) * f.CharW
}

// Elided cuts the string from the right to fit width, appending an
// ellipsis.
func (f Font) Elided(s string, width int) string {
	runes := []rune(s)
	if f.Width(s) <= width {
		return s
	}
	keep := width/f.CharW - 1
	if keep < 0 {
		keep = 0
	}
	if keep > len(runes) {
		keep = len(runes)
	}
	return string(runes[:keep]) + "…"
}

// ElidedMiddle cuts from the middle, keeping both ends.
func (f Font) ElidedMiddle(s string, width int) string {
	runes := []rune(s)
	if f.Width(s) <= width {
		return s
	}
	keep := width/f.CharW - 1
	if keep < 0 {
		keep = 0
	}
	left := keep / 2
	right := keep - left
	if left+right >= len(runes) {
		return s
	}
	return string(runes[:left]) + "…" + string(runes[len(runes)-right:])
}

// DeviceScale is the device pixel ratio applied to cached pixmaps.
var DeviceScale = 1

// Fixed style metrics of the overview tiles.
var (
	stNormalFont   = Font{Height: 13, CharW: 7}
	stSemiboldFont = Font{Height: 13, CharW: 7}
	stFileExtFont  = Font{Height: 12, CharW: 7}
)

const (
	stOverviewPhotoMinSize = 100
	stProfileMaxWidth      = 360
	stLinksMaxWidth        = 360

	stMsgFileSize        = 44
	stMsgFilePaddingLeft = 14
	stMsgFilePaddingTop  = 12
	stMsgFileNameTop     = 16
	stMsgFileStatusTop   = 37
	stMsgFileRadialLine  = 3

	stOverviewFileSize       = 70
	stOverviewFilePaddingTop = 5
	stOverviewFilePadRight   = 12
	stOverviewFileNameTop    = 7
	stOverviewFileStatusTop  = 24
	stOverviewFileDateTop    = 43
	stOverviewFileExtPadding = 5
	stOverviewFileExtTop     = 24

	stDlgPhotoSize    = 46
	stDlgPhotoPadding = 12

	stLinksBorder        = 1
	stLinksDateMarginTop = 8
	stLinksDateMarginBot = 8
	stLinksMarginTop     = 8
	stLinksMarginBot     = 5
	stLinksTextTop       = 6

	stMsgDateImgPaddingX = 8
	stMsgDateImgPaddingY = 2

	stMediaUnreadSkip = 5
	stMediaUnreadSize = 5
	stMediaUnreadTop  = 4

	stLineWidth = 1
)

// Color and icon names understood by Surface implementations.
const (
	colPhotoBg        = "photo-bg"
	colSelectOverlay  = "select-overlay"
	colDateBg         = "date-bg"
	colDateBgSelected = "date-bg-selected"
	colInBgSelected   = "in-bg-selected"
	colFileInBg       = "file-in-bg"
	colLinksBorder    = "links-border"
	colLinkFg         = "link-fg"

	iconDownload = "download"
	iconCancel   = "cancel"
	iconPlay     = "play"
	iconPause    = "pause"
	iconChecked  = "checked"
	iconCheck    = "check"
)

// Accent palette names for the four document color indexes.
var docColors = [4]string{"doc-blue", "doc-green", "doc-red", "doc-yellow"}

func documentColor(colorIndex int) string {
	return docColors[colorIndex&3]
}

// The link thumb placeholder palette uses a different order, matching
// the letter-derived index.
var linkColors = [4]string{"doc-red", "doc-yellow", "doc-green", "doc-blue"}

func linkColor(index int) string {
	return linkColors[index&3]
}
