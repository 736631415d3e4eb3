package segment

// one displayable unit of text, optionally paired with audio and furigana
type Segment struct {
	Text        string
	AudioRef    string
	Furigana    string
	IsLineBreak bool
}

// reports whether the segment names an audio asset
func (s Segment) HasAudio() bool {
	return !s.IsLineBreak && s.AudioRef != ""
}

// reports whether the segment carries a reading annotation
func (s Segment) HasFurigana() bool {
	return s.Furigana != ""
}
