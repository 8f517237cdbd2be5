package nowplaying

import (
	"regexp"
	"strings"
)

// Audio extensions recognized when stripping filenames down to titles.
var audioExts = []string{".mp3", ".wav", ".flac", ".ogg", ".m4a", ".aac"}

var wsRun = regexp.MustCompile(`\s+`)

// Normalize canonicalizes a raw track title for equality comparison.
// File-path-derived titles ("vanzo_-_me_and_you.mp3") and display titles
// ("Vanzo - Me And You") must normalize to the same key. Idempotent:
// normalizing an already-normalized string returns it unchanged.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = lastPathSegment(s)
	s = stripAudioExt(s)
	// "_-_" is the filename convention for "Artist - Track".
	s = strings.ReplaceAll(s, "_-_", " - ")
	s = strings.ReplaceAll(s, "_", " ")
	s = wsRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return strings.ToLower(s)
}

func lastPathSegment(s string) string {
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// stripAudioExt removes trailing audio extensions, repeating so that
// "track.mp3.mp3" converges in one call and Normalize stays idempotent.
func stripAudioExt(s string) string {
	for {
		stripped := false
		lower := strings.ToLower(s)
		for _, ext := range audioExts {
			if strings.HasSuffix(lower, ext) && len(s) > len(ext) {
				s = s[:len(s)-len(ext)]
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

// SameTrack reports whether two raw titles refer to the same track. An empty
// normalized form never matches anything, including another empty string.
func SameTrack(a, b string) bool {
	na := Normalize(a)
	if na == "" {
		return false
	}
	return na == Normalize(b)
}
