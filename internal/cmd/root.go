package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scmkit/scmkit/internal/config"
	"github.com/scmkit/scmkit/internal/logger"
)

var repoPath string

var rootCmd = &cobra.Command{
	Use:   "scmkit",
	Short: "Uniform interface over git, hg and svn repositories",
	Long: `scmkit wraps the git, hg and svn command line tools behind one
operation set: status, branches, tags, commit history and remote sync.
The backing VCS is detected from the repository's control directory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logger.LogLevel(config.Default().LogLevel)
		if envLevel := logger.GetLogLevelFromEnv(); envLevel == logger.LevelDebug {
			level = envLevel
		}
		logger.Configure(level, true)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&repoPath, "path", "C", ".", "repository path")
}
