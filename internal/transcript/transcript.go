package transcript

import (
	"fmt"
	"strings"
)

// Sentinel speaker labels.
const (
	// SpeakerUnknown is assigned when diarization covers no part of a
	// transcription segment's midpoint.
	SpeakerUnknown = "Unknown"
	// SpeakerSystem is assigned to chat lines that match no speaker pattern.
	SpeakerSystem = "System"
)

// Utterance is one speaker-attributed span of text with optional timing.
//
// Audio utterances populate Start/End; chat utterances populate Timestamp
// with the raw bracketed token when the source line had one. Timestamp is
// deliberately not parsed into a numeric type.
type Utterance struct {
	Timestamp string   `json:"timestamp,omitempty"`
	Start     *float64 `json:"start,omitempty"`
	End       *float64 `json:"end,omitempty"`
	Speaker   string   `json:"speaker"`
	Text      string   `json:"text"`
}

// Timed reports whether the utterance carries audio timing.
func (u Utterance) Timed() bool {
	return u.Start != nil
}

// Line renders a single utterance the way the audit model sees it.
func (u Utterance) Line() string {
	switch {
	case u.Start != nil:
		return fmt.Sprintf("[%.1fs] %s: %s", *u.Start, u.Speaker, u.Text)
	case u.Timestamp != "":
		return fmt.Sprintf("[%s] %s: %s", u.Timestamp, u.Speaker, u.Text)
	default:
		return fmt.Sprintf("%s: %s", u.Speaker, u.Text)
	}
}

// Render flattens utterances into line-oriented transcript text.
func Render(utterances []Utterance) string {
	if len(utterances) == 0 {
		return ""
	}
	lines := make([]string, 0, len(utterances))
	for _, u := range utterances {
		lines = append(lines, u.Line())
	}
	return strings.Join(lines, "\n")
}

// Prefix returns at most limit runes of text. It is used to bound the
// retrieval query built from a transcript.
func Prefix(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// Speakers returns the distinct speaker labels in first-appearance order.
func Speakers(utterances []Utterance) []string {
	seen := make(map[string]struct{}, 4)
	var out []string
	for _, u := range utterances {
		if _, ok := seen[u.Speaker]; ok {
			continue
		}
		seen[u.Speaker] = struct{}{}
		out = append(out, u.Speaker)
	}
	return out
}
