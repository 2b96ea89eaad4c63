package cmd

import (
	"fmt"
	"os"

	"github.com/pgschema/pgreconcile/cmd/diff"
	"github.com/pgschema/pgreconcile/internal/logger"
	"github.com/pgschema/pgreconcile/internal/version"
	"github.com/spf13/cobra"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "pgreconcile",
	Short: "PostgreSQL schema reconciliation tool",
	Long: fmt.Sprintf(`pgreconcile compares the schemas of two PostgreSQL databases and prints the
DDL that turns the source schema into the target schema.

Version: %s@%s %s %s

Commands:
  diff     Generate DDL from source to target
  version  Show version information

Use "pgreconcile [command] --help" for more information about a command.`,
		version.App(), version.GitCommit, version.Platform(), version.BuildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(cmd)
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(diff.DiffCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger(cmd *cobra.Command) {
	logger.SetGlobal(logger.New(cmd.ErrOrStderr(), Debug), Debug)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
