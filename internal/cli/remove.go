package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [story_file]",
	Short: "Delete a story and its audio from the catalog repository",
	Long: `Delete a story's text file and every audio file in its voice
directory from the catalog repository.

Examples:
  yomu remove 03_うみ.txt --grade grade1`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().StringP("grade", "g", "", "Grade folder the story lives in (required)")
	removeCmd.MarkFlagRequired("grade")
}

func runRemove(cmd *cobra.Command, args []string) error {
	storyName := args[0]
	grade, _ := cmd.Flags().GetString("grade")

	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	message := fmt.Sprintf("Remove %s", storyName)

	textPath := fmt.Sprintf("data/text/%s/%s", grade, storyName)
	if err := client.Delete(ctx, textPath, message); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", textPath)

	// best effort: a story may have no recordings at all
	storyDir := strings.TrimSuffix(storyName, filepath.Ext(storyName))
	voiceDir := fmt.Sprintf("data/voice/%s/%s", grade, storyDir)
	entries, err := client.List(ctx, voiceDir)
	if err != nil {
		logger.Debugw("no voice directory to clean up", "dir", voiceDir, "error", err)
		return nil
	}

	for _, entry := range entries {
		if entry.Type != "file" {
			continue
		}
		if err := client.Delete(ctx, entry.Path, message); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", entry.Path)
	}
	return nil
}
