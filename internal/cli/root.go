// Package cli wires the yatube command tree.
package cli

import (
	"fmt"
	"os"

	"yatube/internal/config"
	"yatube/internal/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	success = color.New(color.FgGreen).SprintFunc()
	failure = color.New(color.FgRed, color.Bold).SprintFunc()
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "yatube",
		Short:         "Yatube blog server and management commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newLoadDataCommand(),
		newCreateUserCommand(),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failure("Error:"), err)
		os.Exit(1)
	}
}

// openDatabase connects and ensures the schema exists.
func openDatabase(cfg config.Config) error {
	if err := database.InitDB(cfg.Database); err != nil {
		return err
	}
	if err := database.CreateTables(); err != nil {
		database.CloseDB()
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
