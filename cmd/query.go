package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minq/depmap/internal/display"
	"github.com/minq/depmap/internal/indexer"
)

func depsCmd() *cobra.Command {
	var depth int
	var format string
	var reverse bool

	cmd := &cobra.Command{
		Use:   "deps <file>",
		Short: "Show what a file depends on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			svc, err := indexedService(cmd, projectRoot(nil))
			if err != nil {
				return err
			}
			if _, err := svc.Record(file); err != nil {
				return err
			}

			switch format {
			case "json":
				direct, err := svc.Dependencies(file)
				if err != nil {
					return err
				}
				all, err := svc.AllDependencies(file)
				if err != nil {
					return err
				}
				return outputJSON(cmd, map[string]any{
					"file":       file,
					"direct":     direct,
					"transitive": all,
				})
			default:
				tree, err := display.DependencyTree(svc, file, depth, reverse)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), display.FormatTree(tree))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 7, "Tree depth")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text/json)")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Show dependents instead of dependencies")

	return cmd
}

func impactCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "impact <file>",
		Short: "Show everything affected if a file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			svc, err := indexedService(cmd, projectRoot(nil))
			if err != nil {
				return err
			}
			if _, err := svc.Record(file); err != nil {
				return err
			}

			direct, err := svc.Dependents(file)
			if err != nil {
				return err
			}
			impacted, err := svc.ImpactedFiles(file)
			if err != nil {
				return err
			}

			if format == "json" {
				return outputJSON(cmd, map[string]any{
					"file":     file,
					"direct":   direct,
					"impacted": impacted,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Impact of changing %s\n\n", file)
			if len(impacted) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing depends on this file.")
				return nil
			}
			directSet := make(map[string]struct{}, len(direct))
			for _, d := range direct {
				directSet[d] = struct{}{}
			}
			for _, id := range impacted {
				marker := "transitive"
				if _, ok := directSet[id]; ok {
					marker = "direct"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %s\n", marker, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text/json)")

	return cmd
}

func cyclesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "List circular dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := indexedService(cmd, projectRoot(nil))
			if err != nil {
				return err
			}
			cycles, err := svc.DetectCycles()
			if err != nil {
				return err
			}

			if format == "json" {
				if cycles == nil {
					cycles = [][]string{}
				}
				return outputJSON(cmd, cycles)
			}

			if len(cycles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No circular dependencies.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d circular dependencies:\n\n", len(cycles))
			for _, cycle := range cycles {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s\n", strings.Join(cycle, " -> "), cycle[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text/json)")

	return cmd
}

func orderCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print files in dependencies-first order",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := indexedService(cmd, projectRoot(nil))
			if err != nil {
				return err
			}
			order, ok, err := svc.TopologicalSort()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no valid ordering: the project has circular dependencies (run 'depmap cycles')")
			}

			if format == "json" {
				return outputJSON(cmd, order)
			}
			for _, id := range order {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text/json)")

	return cmd
}

func searchCmd() *cobra.Command {
	var limit int
	var format string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find files by name, path, or exported symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := indexedService(cmd, projectRoot(nil))
			if err != nil {
				return err
			}
			matches, err := svc.Search(args[0], indexer.SearchOptions{Limit: limit})
			if err != nil {
				return err
			}

			if format == "json" {
				if matches == nil {
					matches = []indexer.Match{}
				}
				return outputJSON(cmd, matches)
			}

			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
				return nil
			}
			for _, m := range matches {
				if m.Symbol != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s) %s\n", m.Identity, m.Language, m.Symbol)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s)\n", m.Identity, m.Language)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of results")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text/json)")

	return cmd
}
