package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/youpy/go-wav"
)

// returned when a fetched payload is not decodable audio
var ErrDecode = errors.New("payload is not decodable audio")

// Buffer holds decoded PCM in the engine playback format
// (44.1kHz, stereo, s16le).
type Buffer struct {
	PCM []byte
}

func (b *Buffer) Duration() time.Duration {
	frames := len(b.PCM) / bytesPerFrame
	return time.Duration(frames) * time.Second / SampleRate
}

func (b *Buffer) Reader() *bytes.Reader {
	return bytes.NewReader(b.PCM)
}

// Decode sniffs the payload and decodes it. MP3 is tried first, then WAV,
// matching the catalog's two container formats.
func Decode(data []byte) (*Buffer, error) {
	if samples, rate, err := decodeMP3(data); err == nil {
		return normalize(samples, rate), nil
	}
	if samples, rate, err := decodeWAV(data); err == nil {
		return normalize(samples, rate), nil
	}
	return nil, ErrDecode
}

// Sniff reports whether the byte head looks like one of the supported
// containers. Used to accept byte-range probes when the server omits a
// content type.
func Sniff(head []byte) bool {
	if len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WAVE" {
		return true
	}
	if len(head) >= 3 && string(head[0:3]) == "ID3" {
		return true
	}
	// bare MPEG frame sync
	if len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0 {
		return true
	}
	return false
}

// go-mp3 always yields interleaved 16-bit stereo at the source rate
func decodeMP3(data []byte) ([]int16, int, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
	}
	return samples, decoder.SampleRate(), nil
}

func decodeWAV(data []byte) ([]int16, int, error) {
	reader := wav.NewReader(bytes.NewReader(data))
	format, err := reader.Format()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var samples []int16
	for {
		chunk, err := reader.ReadSamples()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		for _, sample := range chunk {
			left := sampleToInt16(reader.FloatValue(sample, 0))
			right := left
			if format.NumChannels > 1 {
				right = sampleToInt16(reader.FloatValue(sample, 1))
			}
			samples = append(samples, left, right)
		}
	}
	if len(samples) == 0 {
		return nil, 0, fmt.Errorf("%w: wav file has no samples", ErrDecode)
	}
	return samples, int(format.SampleRate), nil
}

func sampleToInt16(v float64) int16 {
	switch {
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}
	return int16(v * 32767)
}

// normalize resamples interleaved stereo samples to the engine rate and
// packs them little-endian.
func normalize(samples []int16, rate int) *Buffer {
	if rate != SampleRate && rate > 0 {
		samples = resampleStereo(samples, rate, SampleRate)
	}

	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		pcm[2*i] = byte(s)
		pcm[2*i+1] = byte(s >> 8)
	}
	return &Buffer{PCM: pcm}
}

// linear interpolation per channel; good enough for speech recordings
func resampleStereo(in []int16, from, to int) []int16 {
	frames := len(in) / ChannelCount
	if frames == 0 {
		return nil
	}

	outFrames := int(int64(frames) * int64(to) / int64(from))
	out := make([]int16, outFrames*ChannelCount)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * float64(from) / float64(to)
		base := int(pos)
		frac := pos - float64(base)
		next := base + 1
		if next >= frames {
			next = frames - 1
		}
		for ch := 0; ch < ChannelCount; ch++ {
			a := float64(in[base*ChannelCount+ch])
			b := float64(in[next*ChannelCount+ch])
			out[i*ChannelCount+ch] = int16(a + (b-a)*frac)
		}
	}
	return out
}
