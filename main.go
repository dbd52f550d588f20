package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/minq/depmap/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "depmap",
		Short: "depmap - file dependency graphs for multi-language codebases",
		Long: `depmap indexes a source tree, extracts import relationships with
lightweight per-language heuristics, and answers dependency questions:
what a file depends on, what breaks when it changes, where the cycles
are, and in what order files can be processed.`,
	}

	// Global flags
	rootCmd.PersistentFlags().String("project", ".", "Project root to index")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Additional directory names to skip")
	rootCmd.PersistentFlags().Int("concurrency", 8, "Parallel file reads during indexing")
	rootCmd.PersistentFlags().Bool("self-edge-cycles", false, "Treat self-imports as circular dependencies")
	rootCmd.PersistentFlags().Bool("no-gitignore", false, "Ignore the project's .gitignore during walks")

	// Bind flags to viper.
	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
	viper.BindPFlag("self-edge-cycles", rootCmd.PersistentFlags().Lookup("self-edge-cycles"))
	viper.BindPFlag("no-gitignore", rootCmd.PersistentFlags().Lookup("no-gitignore"))

	// Env vars: DEPMAP_PROJECT, DEPMAP_CONCURRENCY, etc.
	viper.SetEnvPrefix("DEPMAP")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".depmap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	cmd.RegisterCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
