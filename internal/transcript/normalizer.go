package transcript

import (
	"regexp"
	"strings"
)

var (
	timestampedLine = regexp.MustCompile(`^\[(.*?)\]\s*([^:]+):\s*(.*)$`)
	simpleLine      = regexp.MustCompile(`^([^:]+):\s*(.*)$`)
)

// Normalize parses raw chat-log text into utterances.
//
// Each non-blank line yields exactly one utterance. Lines are matched first
// against the timestamped form "[when] speaker: text", then against the simple
// form "speaker: text"; a line matching neither becomes a System utterance
// whose text is the whole line. Speaker matching is greedy up to the first
// colon, so "Alice: hi there: yes" attributes "hi there: yes" to Alice.
func Normalize(raw string) []Utterance {
	var utterances []Utterance
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := timestampedLine.FindStringSubmatch(line); m != nil {
			utterances = append(utterances, Utterance{
				Timestamp: strings.TrimSpace(m[1]),
				Speaker:   strings.TrimSpace(m[2]),
				Text:      m[3],
			})
			continue
		}
		if m := simpleLine.FindStringSubmatch(line); m != nil {
			utterances = append(utterances, Utterance{
				Speaker: strings.TrimSpace(m[1]),
				Text:    m[2],
			})
			continue
		}
		utterances = append(utterances, Utterance{
			Speaker: SpeakerSystem,
			Text:    line,
		})
	}
	return utterances
}
