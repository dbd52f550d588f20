// Package cmd holds the depmap subcommands.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/minq/depmap/internal/indexer"
)

// RegisterCommands adds all subcommands to the root command.
func RegisterCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(depsCmd())
	rootCmd.AddCommand(impactCmd())
	rootCmd.AddCommand(cyclesCmd())
	rootCmd.AddCommand(orderCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(reindexCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(versionCmd())
}

// serviceConfig builds the indexer configuration from viper-resolved
// settings (flags, DEPMAP_* env vars, optional .depmap.yaml).
func serviceConfig() indexer.Config {
	cfg := indexer.DefaultConfig()
	if exclude := viper.GetStringSlice("exclude"); len(exclude) > 0 {
		cfg.ExcludeDirs = append(cfg.ExcludeDirs, exclude...)
	}
	if c := viper.GetInt("concurrency"); c > 0 {
		cfg.Concurrency = c
	}
	cfg.SelfEdgeCycles = viper.GetBool("self-edge-cycles")
	cfg.UseGitignore = !viper.GetBool("no-gitignore")
	return cfg
}

// projectRoot resolves the project path from args or the project setting.
func projectRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if p := viper.GetString("project"); p != "" {
		return p
	}
	return "."
}

// indexedService runs a full index of root and reports diagnostics on
// stderr. Queries hold the index in process; there is no on-disk state
// beyond explicit snapshots.
func indexedService(cmd *cobra.Command, root string) (*indexer.Service, error) {
	svc := indexer.New(serviceConfig())
	sum, err := svc.IndexProject(context.Background(), root)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", root, err)
	}
	for _, d := range sum.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", d)
	}
	return svc, nil
}
