package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minq/depmap/internal/export"
	"github.com/minq/depmap/internal/indexer"
)

func exportCmd() *cobra.Command {
	var format string
	var output string
	var projectName string
	var noMermaid bool

	cmd := &cobra.Command{
		Use:   "export [project-path]",
		Short: "Export the dependency graph as markdown, dot, or json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := indexedService(cmd, projectRoot(args))
			if err != nil {
				return err
			}
			exporter := export.NewExporter(svc)

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "markdown":
				opts := export.DefaultMarkdownOptions()
				opts.IncludeMermaid = !noMermaid
				if projectName != "" {
					opts.ProjectName = projectName
				}
				return exporter.Markdown(w, opts)
			case "dot":
				return exporter.DOT(w)
			case "json":
				return exporter.WriteSnapshot(w)
			default:
				return fmt.Errorf("unknown format %q: want markdown, dot, or json", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Export format (markdown/dot/json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&projectName, "name", "", "Project name used in the report title")
	cmd.Flags().BoolVar(&noMermaid, "no-mermaid", false, "Omit the Mermaid directory diagram")

	return cmd
}

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save or load a JSON snapshot of the dependency graph",
	}

	var saveOut string
	save := &cobra.Command{
		Use:   "save [project-path]",
		Short: "Index a project and write its graph snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := indexedService(cmd, projectRoot(args))
			if err != nil {
				return err
			}
			if err := export.NewExporter(svc).SaveSnapshot(saveOut); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot written to %s\n", saveOut)
			return nil
		},
	}
	save.Flags().StringVarP(&saveOut, "output", "o", "depmap.json", "Snapshot file to write")

	load := &cobra.Command{
		Use:   "load <snapshot-file>",
		Short: "Load a snapshot and summarize the restored graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := indexer.New(serviceConfig())
			if err := export.LoadSnapshot(args[0], svc); err != nil {
				return err
			}

			stats, err := svc.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d nodes and %d edges\n", stats.Nodes, stats.Edges)

			cycles, err := svc.DetectCycles()
			if err != nil {
				return err
			}
			if len(cycles) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Circular dependencies: %d\n", len(cycles))
			}
			return nil
		},
	}

	cmd.AddCommand(save)
	cmd.AddCommand(load)
	return cmd
}
