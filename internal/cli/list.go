package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List grades and stories in the catalog repository",
	Long: `List the contents of the catalog repository: without flags the grade
folders under data/text, with --grade the story files of one grade.

Examples:
  yomu list
  yomu list --grade grade1`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("grade", "g", "", "List the stories of this grade folder")
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	grade, _ := cmd.Flags().GetString("grade")
	dir := "data/text"
	if grade != "" {
		dir += "/" + grade
	}

	entries, err := client.List(cmd.Context(), dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("(empty)")
		return nil
	}

	for _, e := range entries {
		if e.Type == "dir" {
			fmt.Printf("%s/\n", e.Name)
			continue
		}
		fmt.Println(e.Name)
	}
	return nil
}
