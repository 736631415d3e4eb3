package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yutokawamata/TextStimulationApp/internal/encode"
	"github.com/yutokawamata/TextStimulationApp/internal/github"
	"github.com/yutokawamata/TextStimulationApp/internal/segment"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [text_file]",
	Short: "Push a story and its audio to the catalog repository",
	Long: `Upload a story text file to data/text/{grade}/ in the catalog
repository. The file is validated against the segment format before
anything is written.

With --audio-dir, every recording in that directory is transcoded to the
catalog's mp3 convention (when needed) and uploaded to the story's
data/voice directory, named after the audio references in the text.

Examples:
  yomu upload 03_うみ.txt --grade grade1
  yomu upload 03_うみ.txt --grade grade1 --audio-dir ./recordings`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringP("grade", "g", "", "Grade folder to upload into (required)")
	uploadCmd.Flags().String("audio-dir", "", "Directory of recordings to transcode and upload")
	uploadCmd.MarkFlagRequired("grade")
}

func runUpload(cmd *cobra.Command, args []string) error {
	textPath := args[0]
	grade, _ := cmd.Flags().GetString("grade")
	audioDir, _ := cmd.Flags().GetString("audio-dir")

	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(textPath)
	if err != nil {
		return fmt.Errorf("read story file: %w", err)
	}

	// refuse to publish a file the reader could not open
	if _, err := segment.Parse(string(content)); err != nil {
		return fmt.Errorf("%s is not a valid story file: %w", textPath, err)
	}

	ctx := cmd.Context()
	storyName := filepath.Base(textPath)
	remoteText := fmt.Sprintf("data/text/%s/%s", grade, storyName)
	message := fmt.Sprintf("Add %s", storyName)

	if err := client.Upload(ctx, remoteText, content, message); err != nil {
		return err
	}
	fmt.Printf("uploaded %s\n", remoteText)

	if audioDir == "" {
		return nil
	}
	return uploadAudio(cmd, client, grade, storyName, audioDir)
}

func uploadAudio(
	cmd *cobra.Command,
	client *github.Client,
	grade, storyName, audioDir string,
) error {
	recordings, err := os.ReadDir(audioDir)
	if err != nil {
		return fmt.Errorf("read audio dir: %w", err)
	}

	ctx := cmd.Context()
	opts := encode.CatalogDefaults()
	storyDir := strings.TrimSuffix(storyName, filepath.Ext(storyName))
	tmpDir, err := os.MkdirTemp("", "yomu-upload-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	uploaded := 0
	for _, entry := range recordings {
		if entry.IsDir() {
			continue
		}
		inputPath := filepath.Join(audioDir, entry.Name())

		localPath := inputPath
		if encode.NeedsTranscode(inputPath, opts.Format) {
			localPath = filepath.Join(tmpDir, encode.OutputName(inputPath, opts.Format))
			if err := encode.ToCatalogAudio(ctx, inputPath, localPath, opts); err != nil {
				logger.Warnw("skipping recording", "file", entry.Name(), "error", err)
				continue
			}
		}

		data, err := os.ReadFile(localPath)
		if err != nil {
			return fmt.Errorf("read transcoded audio: %w", err)
		}

		remote := fmt.Sprintf(
			"data/voice/%s/%s/%s",
			grade,
			storyDir,
			filepath.Base(localPath),
		)
		message := fmt.Sprintf("Add audio for %s", storyName)
		if err := client.Upload(ctx, remote, data, message); err != nil {
			return err
		}
		uploaded++
	}

	fmt.Printf("uploaded %d audio files to data/voice/%s/%s\n", uploaded, grade, storyDir)
	return nil
}
