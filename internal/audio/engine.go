package audio

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/yutokawamata/TextStimulationApp/internal/logging"
)

// playback format every decoded buffer is normalized to
const (
	SampleRate    = 44100
	ChannelCount  = 2
	bytesPerFrame = ChannelCount * 2 // int16 samples

	// how long Enable waits for the device before assuming it is usable
	enableTimeout = 5 * time.Second
)

var errEngineUnavailable = errors.New("audio engine unavailable")

// Player is the surface a playing sound exposes to its source.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// Engine owns the process audio device context. It is created once, lazily,
// and lives for the rest of the process.
type Engine struct {
	log *logging.Logger

	once    sync.Once
	ctx     *oto.Context
	initErr error
}

func NewEngine(log *logging.Logger) *Engine {
	return &Engine{log: log}
}

// Enable initializes the device context if needed. Idempotent. Waiting for
// the device is bounded; on timeout playback proceeds optimistically.
func (e *Engine) Enable() error {
	e.once.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: ChannelCount,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			e.initErr = err
			return
		}

		select {
		case <-ready:
		case <-time.After(enableTimeout):
			e.log.Warnw("audio device not ready in time, continuing anyway")
		}
		e.ctx = ctx
	})
	return e.initErr
}

// Available reports whether the device context came up.
func (e *Engine) Available() bool {
	return e.ctx != nil
}

func (e *Engine) NewPlayer(r io.Reader) (Player, error) {
	if e.ctx == nil {
		return nil, errEngineUnavailable
	}
	return e.ctx.NewPlayer(r), nil
}
