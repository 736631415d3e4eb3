package playback

import (
	"context"
	"sync"

	"github.com/yutokawamata/TextStimulationApp/internal/assets"
	"github.com/yutokawamata/TextStimulationApp/internal/audio"
	"github.com/yutokawamata/TextStimulationApp/internal/logging"
	"github.com/yutokawamata/TextStimulationApp/internal/segment"
)

// AudioSystem is the surface the controller drives. Implemented by
// audio.Subsystem; faked in tests.
type AudioSystem interface {
	Enable() error
	Decode(data []byte) (*audio.Buffer, error)
	Cached(path string) (*audio.Buffer, bool)
	Store(path string, buf *audio.Buffer)
	NewSource(url string, buf *audio.Buffer) audio.Source
}

// Controller resolves, preloads and plays the audio matching the currently
// displayed segment of one reading session. The resolved-path cache lives
// and dies with the controller; decoded buffers live in the shared
// subsystem cache.
type Controller struct {
	store *assets.Store
	sys   AudioSystem
	log   *logging.Logger
	grade string
	story string

	mu      sync.Mutex
	paths   map[int]string
	current audio.Source
}

func NewController(
	store *assets.Store,
	sys AudioSystem,
	log *logging.Logger,
	grade, story string,
) *Controller {
	return &Controller{
		store: store,
		sys:   sys,
		log:   log,
		grade: grade,
		story: story,
		paths: make(map[int]string),
	}
}

// Play starts audio for the segment at index. Any currently playing source
// is stopped first; at most one source is ever active. A resolution failure
// is returned so the caller can log it, but the session keeps advancing.
func (c *Controller) Play(ctx context.Context, index int, audioRef string) error {
	if err := c.sys.Enable(); err != nil {
		// the fallback source may still work without the engine
		c.log.Debugw("audio engine unavailable", "error", err)
	}

	c.Stop()

	url, err := c.Resolve(ctx, index, audioRef)
	if err != nil {
		return err
	}

	buf, ok := c.sys.Cached(url)
	if !ok {
		buf = c.fetchAndDecode(ctx, url)
	}

	src := c.sys.NewSource(url, buf)
	c.mu.Lock()
	c.current = src
	c.mu.Unlock()

	if err := src.Start(); err != nil {
		// fallback errors never block segment advancement
		c.log.Debugw("playback start failed", "url", url, "error", err)
	}
	return nil
}

// Stop halts the active source, if any.
func (c *Controller) Stop() {
	c.mu.Lock()
	src := c.current
	c.current = nil
	c.mu.Unlock()

	if src != nil {
		src.Stop()
	}
}

// Preload eagerly resolves and decodes audio for every segment in order,
// best effort: one bad segment does not halt the rest. Cancelling ctx stops
// the loop between steps.
func (c *Controller) Preload(ctx context.Context, segments []segment.Segment) {
	for i, seg := range segments {
		if ctx.Err() != nil {
			return
		}
		if !seg.HasAudio() {
			continue
		}

		url, err := c.Resolve(ctx, i, seg.AudioRef)
		if err != nil {
			c.log.Debugw("preload: no audio for segment", "index", i, "ref", seg.AudioRef)
			continue
		}
		if _, ok := c.sys.Cached(url); ok {
			continue
		}
		if buf := c.fetchAndDecode(ctx, url); buf != nil {
			c.log.Debugw("preloaded", "index", i, "url", url)
		}
	}
}

// returns nil when the asset cannot be fetched or decoded; the caller then
// degrades to the fallback source
func (c *Controller) fetchAndDecode(ctx context.Context, url string) *audio.Buffer {
	data, err := c.store.FetchAudio(ctx, url)
	if err != nil {
		c.log.Debugw("audio fetch failed", "url", url, "error", err)
		return nil
	}
	buf, err := c.sys.Decode(data)
	if err != nil {
		c.log.Debugw("audio decode failed", "url", url, "error", err)
		return nil
	}
	c.sys.Store(url, buf)
	return buf
}
