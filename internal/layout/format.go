package layout

import (
	"fmt"
	"strings"

	"tg-overview/internal/domain"
)

// FormatSizeText renders a byte count with one decimal above 1 KB.
func FormatSizeText(size int64) string {
	if size >= 1024*1024 { // more than 1 MB
		sizeTenthMB := size * 10 / (1024 * 1024)
		return fmt.Sprintf("%d.%d MB", sizeTenthMB/10, sizeTenthMB%10)
	}
	if size >= 1024 {
		sizeTenthKB := size * 10 / 1024
		return fmt.Sprintf("%d.%d KB", sizeTenthKB/10, sizeTenthKB%10)
	}
	return fmt.Sprintf("%d B", size)
}

// FormatDownloadText renders "ready / total unit" progress; the unit
// follows the total.
func FormatDownloadText(ready, total int64) string {
	var readyStr, totalStr, unit string
	if total >= 1024*1024 { // more than 1 MB
		readyTenthMB, totalTenthMB := ready*10/(1024*1024), total*10/(1024*1024)
		readyStr = fmt.Sprintf("%d.%d", readyTenthMB/10, readyTenthMB%10)
		totalStr = fmt.Sprintf("%d.%d", totalTenthMB/10, totalTenthMB%10)
		unit = "MB"
	} else if total >= 1024 {
		readyStr = fmt.Sprintf("%d", ready/1024)
		totalStr = fmt.Sprintf("%d", total/1024)
		unit = "KB"
	} else {
		readyStr = fmt.Sprintf("%d", ready)
		totalStr = fmt.Sprintf("%d", total)
		unit = "B"
	}
	return fmt.Sprintf("%s / %s %s", readyStr, totalStr, unit)
}

// FormatDurationText renders seconds as m:ss, or h:mm:ss past an hour.
func FormatDurationText(duration int64) string {
	hours := duration / 3600
	minutes := (duration % 3600) / 60
	seconds := duration % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatDurationAndSizeText joins duration and size.
func FormatDurationAndSizeText(duration, size int64) string {
	return FormatDurationText(duration) + ", " + FormatSizeText(size)
}

// FormatGifAndSizeText is the animation variant of the above.
func FormatGifAndSizeText(size int64) string {
	return "GIF, " + FormatSizeText(size)
}

// FormatPlayedText renders elapsed vs total playback time.
func FormatPlayedText(played, duration int64) string {
	return FormatDurationText(played) + " / " + FormatDurationText(duration)
}

// DocumentName is the display name of a document: song tags when
// present, the file name otherwise.
func DocumentName(d *domain.Document) string {
	song := d.Song
	if song == nil || (song.Title == "" && song.Performer == "") {
		if d.Name == "" {
			return "Unknown File"
		}
		return d.Name
	}
	if song.Performer == "" {
		return song.Title
	}
	title := song.Title
	if title == "" {
		title = "Unknown Track"
	}
	return song.Performer + " – " + title
}

// DocumentColorIndex derives the 0-3 accent index of a document with
// no thumbnail, and the lowercase extension label. Deterministic in
// the name and MIME alone.
func DocumentColorIndex(d *domain.Document) (colorIndex int, ext string) {
	name := "Empty File"
	mime := ""
	if d != nil {
		if d.Name != "" {
			name = d.Name
		} else if d.Sticker {
			name = "Sticker"
		} else {
			name = "Unknown File"
		}
		mime = strings.ToLower(d.MIME)
	}
	name = strings.ToLower(name)
	lastDot := strings.LastIndexByte(name, '.')

	switch {
	case hasAnySuffix(name, ".doc", ".txt", ".psd") || strings.HasPrefix(mime, "text/"):
		colorIndex = 0
	case hasAnySuffix(name, ".xls", ".csv"):
		colorIndex = 1
	case hasAnySuffix(name, ".pdf", ".ppt", ".key"):
		colorIndex = 2
	case hasAnySuffix(name, ".zip", ".rar", ".ai", ".mp3", ".mov", ".avi"):
		colorIndex = 3
	default:
		runes := []rune(name)
		var ch rune
		if lastDot >= 0 && lastDot+1 < len(name) {
			ch = rune(name[lastDot+1])
		} else if len(runes) > 0 {
			ch = runes[0]
		} else if mime != "" {
			ch = rune(mime[0])
		} else {
			ch = '0'
		}
		colorIndex = int(ch) % 4
	}

	if d != nil {
		if lastDot < 0 || lastDot+2 > len(name) {
			ext = name
		} else {
			ext = name[lastDot+1:]
		}
	}
	return colorIndex, ext
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
