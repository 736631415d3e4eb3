package playback

import (
	"context"
	"errors"
	"path"
	"regexp"
	"strings"

	"github.com/yutokawamata/TextStimulationApp/internal/assets"
	"github.com/yutokawamata/TextStimulationApp/internal/audio"
)

// no candidate path was accepted; the segment plays silently
var ErrResolutionExhausted = errors.New("no audio asset matched any candidate path")

// extension priority when the audio reference carries none
var audioExtensions = []string{".wav", ".mp3"}

var numericPrefix = regexp.MustCompile(`^[0-9]+_?`)

// Resolve maps an audio reference to a concrete asset URL by probing every
// directory and file-name candidate in fixed order. Hits are cached per
// segment index for the rest of the session.
func (c *Controller) Resolve(ctx context.Context, index int, audioRef string) (string, error) {
	c.mu.Lock()
	cached, ok := c.paths[index]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	for _, dir := range storyDirCandidates(c.story) {
		for _, file := range fileCandidates(audioRef) {
			if err := ctx.Err(); err != nil {
				return "", err
			}

			url := c.store.VoiceURL(c.grade, dir, file)
			res, err := c.store.Probe(ctx, url)
			if err != nil {
				c.log.Debugw("probe failed", "url", url, "error", err)
				continue
			}
			if !res.OK || !acceptable(res) {
				continue
			}

			c.mu.Lock()
			c.paths[index] = url
			c.mu.Unlock()
			return url, nil
		}
	}
	return "", ErrResolutionExhausted
}

// a probe hit counts when the server says audio, or says nothing and the
// bytes look like audio (some servers omit content-type on range responses)
func acceptable(res assets.ProbeResult) bool {
	if res.ContentType != "" {
		return strings.HasPrefix(res.ContentType, "audio/")
	}
	return audio.Sniff(res.Head)
}

// storyDirCandidates derives audio directory names from the story filename:
// the base name, and the base name with its numeric prefix stripped.
// Catalogs are inconsistently named, so both are tried.
func storyDirCandidates(story string) []string {
	base := strings.TrimSuffix(story, path.Ext(story))
	candidates := []string{base}
	if stripped := numericPrefix.ReplaceAllString(base, ""); stripped != base && stripped != "" {
		candidates = append(candidates, stripped)
	}
	return candidates
}

// fileCandidates lists audio file names to try for a reference. A reference
// that already names a supported container is tried as-is first; otherwise
// both extensions are synthesized in priority order.
func fileCandidates(audioRef string) []string {
	ext := strings.ToLower(path.Ext(audioRef))
	stem := audioRef

	var candidates []string
	if ext == ".wav" || ext == ".mp3" {
		candidates = append(candidates, audioRef)
		stem = strings.TrimSuffix(audioRef, path.Ext(audioRef))
	}
	for _, e := range audioExtensions {
		candidates = append(candidates, stem+e)
	}
	return dedupe(candidates)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
