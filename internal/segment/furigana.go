package segment

import (
	"strings"
)

// Annotation attaches a reading to one ideograph within a segment's text.
type Annotation struct {
	Index   int // rune index within the text
	Rune    rune
	Reading string
}

// CJK Unified Ideographs block
func isIdeograph(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

// Annotate aligns furigana readings with the ideographs of text.
//
// A furigana string without commas is applied as the reading of the first
// ideograph only. With commas, the i-th reading annotates the i-th ideograph
// in left-to-right order; an empty slot skips its ideograph, surplus readings
// are ignored, and ideographs beyond the last reading stay unannotated.
func Annotate(text, furigana string) []Annotation {
	if furigana == "" {
		return nil
	}

	runes := []rune(text)

	if !strings.Contains(furigana, ",") {
		for i, r := range runes {
			if isIdeograph(r) {
				return []Annotation{{Index: i, Rune: r, Reading: furigana}}
			}
		}
		return nil
	}

	readings := strings.Split(furigana, ",")
	var annotations []Annotation
	slot := 0
	for i, r := range runes {
		if !isIdeograph(r) {
			continue
		}
		if slot >= len(readings) {
			break
		}
		reading := strings.TrimSpace(readings[slot])
		slot++
		if reading == "" {
			continue
		}
		annotations = append(annotations, Annotation{Index: i, Rune: r, Reading: reading})
	}
	return annotations
}

// Render writes each reading inline after its ideograph, e.g. 学(がっ)校(こう)の.
func Render(text, furigana string) string {
	annotations := Annotate(text, furigana)
	if len(annotations) == 0 {
		return text
	}

	readingAt := make(map[int]string, len(annotations))
	for _, a := range annotations {
		readingAt[a.Index] = a.Reading
	}

	var b strings.Builder
	for i, r := range []rune(text) {
		b.WriteRune(r)
		if reading, ok := readingAt[i]; ok {
			b.WriteString("(")
			b.WriteString(reading)
			b.WriteString(")")
		}
	}
	return b.String()
}
