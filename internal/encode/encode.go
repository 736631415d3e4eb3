package encode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/yutokawamata/TextStimulationApp/internal/ffmpeg"
)

// settings for transcoding an input recording into a catalog asset
type Options struct {
	Format     string // mp3 or wav
	SampleRate int
	Channels   int
	Bitrate    string // lossy formats only
}

// the convention the playback side expects
func CatalogDefaults() Options {
	return Options{
		Format:     "mp3",
		SampleRate: 44100,
		Channels:   2,
		Bitrate:    "128k",
	}
}

// ToCatalogAudio transcodes inputPath into outputPath using the given
// options. The input may be any container ffmpeg understands.
func ToCatalogAudio(ctx context.Context, inputPath, outputPath string, opts Options) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	kwargs := ffmpeg.KwArgs{
		"vn": "",
		"ar": opts.SampleRate,
		"ac": opts.Channels,
		"y":  "",
	}
	switch opts.Format {
	case "wav":
		kwargs["acodec"] = "pcm_s16le"
	case "mp3", "":
		kwargs["acodec"] = "libmp3lame"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	default:
		return fmt.Errorf("unsupported catalog format %q", opts.Format)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(inputPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("transcode failed: %w", err)
	}
	return nil
}

// OutputName maps an input recording to its catalog file name.
func OutputName(inputPath, format string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if format == "" {
		format = "mp3"
	}
	return stem + "." + format
}

// NeedsTranscode reports whether the input already matches a supported
// catalog container.
func NeedsTranscode(inputPath, format string) bool {
	ext := strings.ToLower(filepath.Ext(inputPath))
	return ext != "."+format
}
