package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scmkit/scmkit/internal/models"
	"github.com/scmkit/scmkit/internal/vcs"
)

var (
	logLimit     int
	logRef       string
	logWithFiles bool
)

var logCmd = &cobra.Command{
	Use:   "log [paths...]",
	Short: "Show the commit history as parsed records",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := vcs.Detect(repoPath)
		if err != nil {
			return err
		}
		opts := vcs.LogOptions{
			Limit:     logLimit,
			Ref:       logRef,
			Paths:     args,
			WithFiles: logWithFiles,
		}
		// Stream records so large histories print as they parse.
		return repo.EachCommit(opts, func(c models.Commit) error {
			fmt.Printf("%s  %s  %s\n", c.ID(), c.When().Format(time.RFC3339), c.Author())
			fmt.Printf("    %s\n", c.Summary())
			if logWithFiles && len(c.ChangedFiles()) > 0 {
				fmt.Printf("    files: %s\n", strings.Join(c.ChangedFiles(), ", "))
			}
			return nil
		})
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "maximum number of commits")
	logCmd.Flags().StringVarP(&logRef, "ref", "r", "", "branch, revision or commit to log from")
	logCmd.Flags().BoolVar(&logWithFiles, "files", false, "include changed file lists")
	rootCmd.AddCommand(logCmd)
}
