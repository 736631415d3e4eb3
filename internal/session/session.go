package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yutokawamata/TextStimulationApp/internal/assets"
	"github.com/yutokawamata/TextStimulationApp/internal/logging"
	"github.com/yutokawamata/TextStimulationApp/internal/segment"
)

// session-wide voice setting
type VoiceMode string

const (
	VoiceOn  VoiceMode = "voice-on"
	VoiceOff VoiceMode = "voice-off"
	FullText VoiceMode = "full-text"
)

func ParseVoiceMode(s string) (VoiceMode, error) {
	switch VoiceMode(s) {
	case VoiceOn, VoiceOff, FullText:
		return VoiceMode(s), nil
	default:
		return "", fmt.Errorf("unknown voice mode %q", s)
	}
}

// Settings select the story and how it is read. Produced by the surrounding
// screen layer; read-only here.
type Settings struct {
	GradeFolder   string
	StoryFilename string
	VoiceMode     VoiceMode
}

// CompletionFunc fires when the reader advances past the last segment.
// The elapsed time since the text became visible is meaningful in
// full-text mode.
type CompletionFunc func(elapsed time.Duration)

// Audio is the playback surface the session drives; playback.Controller
// implements it.
type Audio interface {
	Play(ctx context.Context, index int, audioRef string) error
	Preload(ctx context.Context, segments []segment.Segment)
	Stop()
}

// Session owns one reading pass through a story: the parsed segment
// sequence, the current position, and the audio controller driving it.
type Session struct {
	settings   Settings
	store      *assets.Store
	audio      Audio
	log        *logging.Logger
	onComplete CompletionFunc

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	segments  []segment.Segment
	index     int
	started   time.Time
	completed bool
}

func New(
	store *assets.Store,
	audio Audio,
	settings Settings,
	log *logging.Logger,
	onComplete CompletionFunc,
) *Session {
	return &Session{
		settings:   settings,
		store:      store,
		audio:      audio,
		log:        log,
		onComplete: onComplete,
	}
}

// Load fetches and parses the story text, positions the session on the
// first readable segment, and in voice-on mode starts preloading and plays
// the first segment's audio.
func (s *Session) Load(ctx context.Context) error {
	content, err := s.store.FetchText(
		ctx,
		s.settings.GradeFolder,
		s.settings.StoryFilename,
	)
	if err != nil {
		return fmt.Errorf("load story text: %w", err)
	}

	segments, err := segment.Parse(content)
	if err != nil {
		return err
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	s.mu.Lock()
	s.segments = segments
	s.index = firstReadable(segments)
	s.started = time.Now()
	s.completed = false
	s.mu.Unlock()

	if s.settings.VoiceMode == VoiceOn {
		go s.audio.Preload(s.ctx, segments)
		s.playCurrent()
	}
	return nil
}

// Segments returns the full parsed sequence (full-text mode shows all of it
// at once).
func (s *Session) Segments() []segment.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.segments
}

// Current returns the displayed segment; ok is false once the session has
// completed.
func (s *Session) Current() (segment.Segment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.index >= len(s.segments) {
		return segment.Segment{}, false
	}
	return s.segments[s.index], true
}

// Advance moves to the next readable segment, skipping line breaks. It
// returns false when the session completes, after firing the completion
// callback exactly once.
func (s *Session) Advance() bool {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return false
	}

	next := s.index + 1
	for next < len(s.segments) && s.segments[next].IsLineBreak {
		next++
	}

	if next >= len(s.segments) {
		s.completed = true
		elapsed := time.Since(s.started)
		s.mu.Unlock()
		s.finish(elapsed)
		return false
	}

	s.index = next
	s.mu.Unlock()

	if s.settings.VoiceMode == VoiceOn {
		s.playCurrent()
	}
	return true
}

// Finish ends the session immediately, firing the completion callback.
// Full-text mode uses this once the reader is done with the whole text.
func (s *Session) Finish() {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	s.completed = true
	elapsed := time.Since(s.started)
	s.mu.Unlock()
	s.finish(elapsed)
}

// Close disposes the session: in-flight preloading is cancelled and any
// playing audio stops. The shared decoded-buffer cache is untouched.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.audio.Stop()
}

func (s *Session) finish(elapsed time.Duration) {
	s.audio.Stop()
	if s.onComplete != nil {
		s.onComplete(elapsed)
	}
}

func (s *Session) playCurrent() {
	s.mu.Lock()
	index := s.index
	var seg segment.Segment
	if index < len(s.segments) {
		seg = s.segments[index]
	}
	ctx := s.ctx
	s.mu.Unlock()

	if !seg.HasAudio() || ctx == nil {
		return
	}
	if err := s.audio.Play(ctx, index, seg.AudioRef); err != nil {
		// audio is an enhancement; the reading flow never blocks on it
		s.log.Debugw("segment plays silently", "index", index, "error", err)
	}
}

// index of the first non-line-break segment
func firstReadable(segments []segment.Segment) int {
	for i, seg := range segments {
		if !seg.IsLineBreak {
			return i
		}
	}
	return len(segments)
}
