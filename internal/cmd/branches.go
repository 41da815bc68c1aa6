package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scmkit/scmkit/internal/vcs"
)

var branchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "List branches, marking the current one",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := vcs.Detect(repoPath)
		if err != nil {
			return err
		}
		branches, err := repo.Branches()
		if err != nil {
			return err
		}
		current, err := repo.CurrentBranch()
		if err != nil {
			return err
		}
		for _, branch := range branches {
			marker := "  "
			if branch == current {
				marker = "* "
			}
			fmt.Printf("%s%s\n", marker, branch)
		}
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := vcs.Detect(repoPath)
		if err != nil {
			return err
		}
		tags, err := repo.Tags()
		if err != nil {
			return err
		}
		for _, tag := range tags {
			fmt.Println(tag)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(tagsCmd)
}
