package playback

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/yutokawamata/TextStimulationApp/internal/assets"
	"github.com/yutokawamata/TextStimulationApp/internal/logging"
)

func TestStoryDirCandidates(t *testing.T) {
	tests := []struct {
		story string
		want  []string
	}{
		{"05_もりのがっこう.txt", []string{"05_もりのがっこう", "もりのがっこう"}},
		{"05もり.txt", []string{"05もり", "もり"}},
		{"もり.txt", []string{"もり"}},
		{"story.txt", []string{"story"}},
		{"07_.txt", []string{"07_"}},
	}

	for _, tt := range tests {
		got := storyDirCandidates(tt.story)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("storyDirCandidates(%q) = %v, want %v", tt.story, got, tt.want)
		}
	}
}

func TestFileCandidates(t *testing.T) {
	tests := []struct {
		ref  string
		want []string
	}{
		{"001", []string{"001.wav", "001.mp3"}},
		{"001.mp3", []string{"001.mp3", "001.wav"}},
		{"001.wav", []string{"001.wav", "001.mp3"}},
		{"intro.WAV", []string{"intro.WAV", "intro.wav", "intro.mp3"}},
	}

	for _, tt := range tests {
		got := fileCandidates(tt.ref)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("fileCandidates(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

// records requested paths and serves only the ones in files
type voiceServer struct {
	mu    sync.Mutex
	paths []string
	files map[string]string // path -> content type ("" = omit header)
}

func (v *voiceServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v.mu.Lock()
		v.paths = append(v.paths, r.URL.Path)
		v.mu.Unlock()

		ct, ok := v.files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if ct != "" {
			w.Header().Set("Content-Type", ct)
		} else {
			w.Header()["Content-Type"] = nil // suppress net/http sniffing so the header is truly absent
		}
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte{0xFF, 0xFB, 0x90, 0x00}) // mpeg frame sync
	})
}

func (v *voiceServer) requests() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.paths...)
}

func newTestController(t *testing.T, v *voiceServer, story string) (*Controller, *fakeSystem) {
	t.Helper()
	server := httptest.NewServer(v.handler())
	t.Cleanup(server.Close)

	sys := newFakeSystem()
	ctrl := NewController(assets.NewStore(server.URL), sys, logging.NewNop(), "grade1", story)
	return ctrl, sys
}

func TestResolveFallsThroughExtensions(t *testing.T) {
	v := &voiceServer{files: map[string]string{
		"/data/voice/grade1/story/001.mp3": "audio/mpeg",
	}}
	ctrl, _ := newTestController(t, v, "story.txt")

	url, err := ctrl.Resolve(context.Background(), 0, "001")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !endsWith(url, "/data/voice/grade1/story/001.mp3") {
		t.Errorf("resolved %q, want the .mp3 candidate", url)
	}

	// the .wav candidate must have been probed first
	reqs := v.requests()
	if len(reqs) != 2 ||
		reqs[0] != "/data/voice/grade1/story/001.wav" ||
		reqs[1] != "/data/voice/grade1/story/001.mp3" {
		t.Errorf("probe order = %v", reqs)
	}
}

func TestResolveStripsDirectoryPrefix(t *testing.T) {
	v := &voiceServer{files: map[string]string{
		// net/http hands the handler the decoded path
		"/data/voice/grade1/もり/001.wav": "audio/wav",
	}}
	ctrl, _ := newTestController(t, v, "05_もり.txt")

	url, err := ctrl.Resolve(context.Background(), 0, "001")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !endsWith(url, "/%E3%82%82%E3%82%8A/001.wav") {
		t.Errorf("resolved %q, want the prefix-stripped directory", url)
	}
}

func TestResolveSniffsWhenContentTypeAbsent(t *testing.T) {
	v := &voiceServer{files: map[string]string{
		"/data/voice/grade1/story/001.wav": "", // no content type; bytes must decide
	}}
	ctrl, _ := newTestController(t, v, "story.txt")

	if _, err := ctrl.Resolve(context.Background(), 0, "001"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
}

func TestResolveRejectsNonAudioContentType(t *testing.T) {
	v := &voiceServer{files: map[string]string{
		"/data/voice/grade1/story/001.wav": "text/html",
		"/data/voice/grade1/story/001.mp3": "text/html",
	}}
	ctrl, _ := newTestController(t, v, "story.txt")

	_, err := ctrl.Resolve(context.Background(), 0, "001")
	if !errors.Is(err, ErrResolutionExhausted) {
		t.Errorf("expected ErrResolutionExhausted, got %v", err)
	}
}

func TestResolveCachesPerIndex(t *testing.T) {
	v := &voiceServer{files: map[string]string{
		"/data/voice/grade1/story/001.wav": "audio/wav",
	}}
	ctrl, _ := newTestController(t, v, "story.txt")

	first, err := ctrl.Resolve(context.Background(), 3, "001")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	probes := len(v.requests())

	second, err := ctrl.Resolve(context.Background(), 3, "001")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if second != first {
		t.Errorf("cache returned %q, want %q", second, first)
	}
	if len(v.requests()) != probes {
		t.Errorf("cache hit still probed the network: %v", v.requests())
	}
}

func TestResolveExhausted(t *testing.T) {
	v := &voiceServer{files: map[string]string{}}
	ctrl, _ := newTestController(t, v, "story.txt")

	_, err := ctrl.Resolve(context.Background(), 0, "001")
	if !errors.Is(err, ErrResolutionExhausted) {
		t.Errorf("expected ErrResolutionExhausted, got %v", err)
	}
}

func endsWith(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
