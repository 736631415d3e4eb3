package audio

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	"github.com/yutokawamata/TextStimulationApp/internal/logging"
)

// Source is one playable occurrence of a segment's audio. Start is called
// at most once; Stop may be called any number of times.
type Source interface {
	Start() error
	Stop()
	Done() <-chan struct{}
}

// bufferSource plays a decoded buffer through the engine. This is the
// preferred path: no network or decode latency at playback time.
type bufferSource struct {
	newPlayer func() (Player, error)

	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

func newBufferSource(engine *Engine, buf *Buffer) *bufferSource {
	return &bufferSource{
		newPlayer: func() (Player, error) { return engine.NewPlayer(buf.Reader()) },
		done:      make(chan struct{}),
		stop:      make(chan struct{}),
	}
}

func (s *bufferSource) Start() error {
	player, err := s.newPlayer()
	if err != nil {
		close(s.done)
		return err
	}
	player.Play()

	go func() {
		defer close(s.done)
		defer player.Close()

		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				player.Pause()
				return
			case <-ticker.C:
				if !player.IsPlaying() {
					return
				}
			}
		}
	}()
	return nil
}

func (s *bufferSource) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *bufferSource) Done() <-chan struct{} { return s.done }

// commandSource hands the asset URL to an external media player process.
// Fallback path for when the engine is unavailable or decoding failed;
// failures here are logged, never surfaced.
type commandSource struct {
	log *logging.Logger
	url string

	done     chan struct{}
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// candidate players, tried in order
var fallbackPlayers = [][]string{
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"mpv", "--no-video", "--really-quiet"},
	{"mpg123", "-q"},
	{"afplay"},
}

var errNoFallbackPlayer = errors.New("no fallback media player found")

func newCommandSource(log *logging.Logger, url string) *commandSource {
	return &commandSource{
		log:  log,
		url:  url,
		done: make(chan struct{}),
	}
}

func (s *commandSource) Start() error {
	name, args, err := lookupFallbackPlayer()
	if err != nil {
		close(s.done)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, name, append(args, s.url)...)
	if err := cmd.Start(); err != nil {
		cancel()
		close(s.done)
		return err
	}
	s.cancel = cancel
	s.log.Debugw("fallback playback", "player", name, "url", s.url)

	go func() {
		defer close(s.done)
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			s.log.Debugw("fallback player exited with error", "error", err)
		}
	}()
	return nil
}

func (s *commandSource) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

func (s *commandSource) Done() <-chan struct{} { return s.done }

func lookupFallbackPlayer() (string, []string, error) {
	for _, candidate := range fallbackPlayers {
		if path, err := exec.LookPath(candidate[0]); err == nil {
			return path, candidate[1:], nil
		}
	}
	return "", nil, errNoFallbackPlayer
}
