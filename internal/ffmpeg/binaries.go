package ffmpeg

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	releaseVersion = "6.1"
	releaseBaseURL = "https://github.com/ffbinaries/ffbinaries-prebuilt/releases/download"
)

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath string
)

// FFmpegPath returns a usable ffmpeg binary: the one on PATH if present,
// otherwise a prebuilt download cached under the user cache directory.
func FFmpegPath() (string, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = ensure()
	})
	return ensurePath, ensureErr
}

func ensure() (string, error) {
	if path, err := lookPath(); err == nil {
		return path, nil
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	installDir := filepath.Join(cacheDir, "yomu", "ffmpeg-"+releaseVersion)
	binary := filepath.Join(installDir, "ffmpeg"+executableSuffix())

	if fileExists(binary) {
		return binary, nil
	}

	asset, err := assetForPlatform(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "", err
	}
	if err := downloadAndExtract(asset, installDir); err != nil {
		return "", err
	}
	if !fileExists(binary) {
		return "", fmt.Errorf("ffmpeg missing from extracted archive %s", asset)
	}
	return binary, nil
}

func lookPath() (string, error) {
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		candidate := filepath.Join(dir, "ffmpeg"+executableSuffix())
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", errors.New("ffmpeg not on PATH")
}

func assetForPlatform(goos, goarch string) (string, error) {
	switch {
	case goos == "linux" && goarch == "amd64":
		return fmt.Sprintf("v%s/ffmpeg-%s-linux-64.zip", releaseVersion, releaseVersion), nil
	case goos == "linux" && goarch == "arm64":
		return fmt.Sprintf("v%s/ffmpeg-%s-linux-arm-64.zip", releaseVersion, releaseVersion), nil
	case goos == "darwin":
		return fmt.Sprintf("v%s/ffmpeg-%s-macos-64.zip", releaseVersion, releaseVersion), nil
	case goos == "windows" && goarch == "amd64":
		return fmt.Sprintf("v%s/ffmpeg-%s-win-64.zip", releaseVersion, releaseVersion), nil
	default:
		return "", fmt.Errorf("no prebuilt ffmpeg for %s/%s", goos, goarch)
	}
}

func downloadAndExtract(asset, installDir string) error {
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return fmt.Errorf("create install dir: %w", err)
	}

	url := releaseBaseURL + "/" + asset
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download ffmpeg: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download ffmpeg: unexpected status %s", resp.Status)
	}

	archive := filepath.Join(installDir, filepath.Base(asset))
	f, err := os.Create(archive)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	f.Close()
	defer os.Remove(archive)

	return extractArchive(archive, installDir)
}

func extractArchive(archivePath, installDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		name := filepath.Base(file.Name)
		if !strings.HasPrefix(name, "ffmpeg") {
			continue
		}
		if err := extractFile(file, filepath.Join(installDir, name)); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, dest string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s in archive: %w", file.Name, err)
	}
	defer src.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("extract %s: %w", dest, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
