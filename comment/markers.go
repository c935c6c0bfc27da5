package comment

import "strings"

// markerReplacer strips every known comment marker from a text fragment.
var markerReplacer = strings.NewReplacer(
	"//", "",
	"#", "",
	`"""`, "",
	"'''", "",
	"/*", "",
	"*/", "",
)

// CleanMarkers removes comment markers from text before it is sent to a
// translation backend. Markers are put back by the per-extractor Replace
// methods, never by the translation layer.
func CleanMarkers(text string) string {
	return strings.TrimSpace(markerReplacer.Replace(text))
}
