package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/scmkit/scmkit/internal/vcs"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working copy status",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := vcs.Detect(repoPath)
		if err != nil {
			return err
		}
		status, err := repo.Status()
		if err != nil {
			return err
		}
		paths := make([]string, 0, len(status))
		for path := range status {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			fmt.Printf("%-10s %s\n", status[path], path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
