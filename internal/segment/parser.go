package segment

import (
	"bufio"
	"errors"
	"strings"
)

// returned when a text asset yields no usable segments
var ErrEmptyContent = errors.New("text content contains no segments")

// Parse converts raw text content into an ordered segment sequence.
//
// One segment per line. A blank line becomes a line-break segment. Non-blank
// lines split on the first two commas only:
//
//	audioRef,text,furigana
//
// With one comma the furigana is absent; with none the whole line doubles as
// both audio reference and display text. Commas inside the furigana field are
// preserved verbatim. Lines whose display text ends up empty are dropped.
func Parse(content string) ([]Segment, error) {
	var segments []Segment

	scanner := bufio.NewScanner(strings.NewReader(content))
	first := true
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}

		if line == "" {
			segments = append(segments, Segment{IsLineBreak: true})
			continue
		}

		seg := parseLine(line)
		if seg.Text == "" {
			continue
		}
		segments = append(segments, seg)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !hasText(segments) {
		return nil, ErrEmptyContent
	}
	return segments, nil
}

func parseLine(line string) Segment {
	parts := strings.SplitN(line, ",", 3)
	switch len(parts) {
	case 1:
		trimmed := strings.TrimSpace(line)
		return Segment{Text: trimmed, AudioRef: trimmed}
	case 2:
		return Segment{
			AudioRef: strings.TrimSpace(parts[0]),
			Text:     strings.TrimSpace(parts[1]),
		}
	default:
		return Segment{
			AudioRef: strings.TrimSpace(parts[0]),
			Text:     strings.TrimSpace(parts[1]),
			Furigana: strings.TrimSpace(parts[2]),
		}
	}
}

// at least one non-line-break segment required
func hasText(segments []Segment) bool {
	for _, s := range segments {
		if !s.IsLineBreak {
			return true
		}
	}
	return false
}
