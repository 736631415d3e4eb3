package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder [story...]",
	Short: "Rewrite the numeric story order of a grade",
	Long: `Renumber the NN_ prefixes of a grade's story files so they follow
the given order. Stories are named without prefix or extension; stories not
listed keep their relative order after the listed ones.

Renames go through the contents API as copy-then-delete, so each one shows
up as two commits.

Examples:
  yomu reorder --grade grade1 うみ もり そら`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReorder,
}

func init() {
	rootCmd.AddCommand(reorderCmd)

	reorderCmd.Flags().StringP("grade", "g", "", "Grade folder to renumber (required)")
	reorderCmd.MarkFlagRequired("grade")
}

func runReorder(cmd *cobra.Command, args []string) error {
	grade, _ := cmd.Flags().GetString("grade")

	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	dir := "data/text/" + grade
	if err := client.Reorder(cmd.Context(), dir, args); err != nil {
		return err
	}
	fmt.Printf("reordered %s\n", dir)
	return nil
}
