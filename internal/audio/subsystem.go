package audio

import (
	"github.com/yutokawamata/TextStimulationApp/internal/logging"
)

// Subsystem bundles the process-wide audio state: the device engine and the
// decoded-buffer cache. One instance is created at startup and injected into
// every playback controller; sessions come and go, the subsystem stays.
type Subsystem struct {
	engine *Engine
	cache  *Cache
	log    *logging.Logger
}

func NewSubsystem(log *logging.Logger) *Subsystem {
	return &Subsystem{
		engine: NewEngine(log),
		cache:  NewCache(),
		log:    log,
	}
}

// Enable brings up the device context; see Engine.Enable.
func (s *Subsystem) Enable() error {
	return s.engine.Enable()
}

func (s *Subsystem) Decode(data []byte) (*Buffer, error) {
	return Decode(data)
}

func (s *Subsystem) Cached(path string) (*Buffer, bool) {
	return s.cache.Get(path)
}

func (s *Subsystem) Store(path string, buf *Buffer) {
	s.cache.Put(path, buf)
}

// NewSource picks the playback mechanism: buffered playback through the
// engine when a decoded buffer and a working device exist, otherwise the
// external-player fallback.
func (s *Subsystem) NewSource(url string, buf *Buffer) Source {
	if buf != nil && s.engine.Available() {
		return newBufferSource(s.engine, buf)
	}
	return newCommandSource(s.log, url)
}
