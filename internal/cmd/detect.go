package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scmkit/scmkit/internal/vcs"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Report which VCS manages the repository path",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := vcs.Detect(repoPath)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", repo.Kind(), repo.Path())
		return nil
	},
}

var (
	cloneBare     bool
	cloneMirror   bool
	cloneDepth    int
	cloneBranch   string
	cloneRevision string
)

var cloneCmd = &cobra.Command{
	Use:   "clone <uri> [dest]",
	Short: "Clone or check out a remote repository, dispatching on its URI",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := ""
		if len(args) > 1 {
			dest = args[1]
		}
		opts := vcs.CloneOptions{
			Bare:     cloneBare,
			Mirror:   cloneMirror,
			Depth:    cloneDepth,
			Branch:   cloneBranch,
			Revision: cloneRevision,
		}
		repo, err := vcs.CloneURI(args[0], dest, opts)
		if err != nil {
			return err
		}
		fmt.Printf("cloned %s repository into %s\n", repo.Kind(), repo.Path())
		return nil
	},
}

func init() {
	cloneCmd.Flags().BoolVar(&cloneBare, "bare", false, "create a bare repository (git only)")
	cloneCmd.Flags().BoolVar(&cloneMirror, "mirror", false, "create a mirror (git only)")
	cloneCmd.Flags().IntVar(&cloneDepth, "depth", 0, "create a shallow clone (git only)")
	cloneCmd.Flags().StringVar(&cloneBranch, "branch", "", "check out the named branch")
	cloneCmd.Flags().StringVar(&cloneRevision, "revision", "", "revision to check out (svn only)")
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(cloneCmd)
}
