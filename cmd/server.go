package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minq/depmap/internal/indexer"
	"github.com/minq/depmap/internal/mcp"
	"github.com/minq/depmap/internal/watcher"
	"github.com/minq/depmap/internal/web"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp [project-path]",
		Short: "Start the MCP (Model Context Protocol) server",
		Long: `Start an MCP server over stdio so coding assistants can query the
project's dependency graph directly.

Tools:
  - deps:   what a file imports, directly and transitively
  - impact: what is affected when a file changes
  - search: find files by name, path, or exported symbol
  - cycles: list circular dependencies
  - order:  dependencies-first file ordering`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Index once; the assistant queries the in-memory graph.
			svc, err := indexedService(cmd, projectRoot(args))
			if err != nil {
				return err
			}
			return mcp.NewServer(svc).Run()
		},
	}

	return cmd
}

func watchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch [project-path]",
		Short: "Watch for file changes and keep the index current",
		Long: `Index the project, then watch it. Each saved file is re-indexed on
its own: only its outgoing edges are replaced, and the files it impacts
are printed. Event bursts are debounced so one save triggers one
re-index.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot(args)
			svc, err := indexedService(cmd, root)
			if err != nil {
				return err
			}
			absRoot, err := svc.Root()
			if err != nil {
				return err
			}

			stats, _ := svc.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (%d files, %d edges)\n", absRoot, stats.Files, stats.Edges)

			w, err := watcher.New(absRoot, svc,
				watcher.WithDebounceDelay(time.Duration(debounceMs)*time.Millisecond),
				watcher.WithOnReindexed(func(path string, res *indexer.ReindexResult) {
					if res.Record == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
						return
					}
					fmt.Fprintf(cmd.OutOrStdout(), "re-indexed %s (%d impacted)\n",
						res.Record.Identity, len(res.Impacted))
					for _, d := range res.Diagnostics {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", d)
					}
				}),
				watcher.WithOnError(func(err error) {
					fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
				}),
			)
			if err != nil {
				return err
			}
			w.Start()
			defer w.Stop()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			fmt.Fprintln(cmd.OutOrStdout(), "stopping")
			return nil
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 500, "Debounce delay in milliseconds")

	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Serve the dependency graph as a JSON HTTP API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := indexedService(cmd, projectRoot(args))
			if err != nil {
				return err
			}
			return web.NewServer(svc, port).Run()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8640, "Port to listen on")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the depmap version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "depmap 1.0.0")
		},
	}
}
