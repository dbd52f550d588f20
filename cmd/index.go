package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/minq/depmap/internal/scm"
)

func indexCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "index [project-path]",
		Short: "Index a project and report its dependency graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot(args)
			svc, err := indexedService(cmd, root)
			if err != nil {
				return err
			}

			stats, err := svc.Stats()
			if err != nil {
				return err
			}
			if asJSON {
				return outputJSON(cmd, stats)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s\n", stats.Root)
			fmt.Fprintf(cmd.OutOrStdout(), "  files: %d\n", stats.Files)
			fmt.Fprintf(cmd.OutOrStdout(), "  dependency edges: %d\n", stats.Edges)

			cycles, err := svc.DetectCycles()
			if err != nil {
				return err
			}
			if len(cycles) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  circular dependencies: %d (run 'depmap cycles' for details)\n", len(cycles))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print index statistics as JSON")

	return cmd
}

func reindexCmd() *cobra.Command {
	var gitBase string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "reindex [file...]",
		Short: "Re-index changed files and show what they impact",
		Long: `Re-index builds the project index, then re-runs extraction for the
named files (or, with --git, for files git reports as changed) and
prints everything affected by each change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot(nil)
			svc, err := indexedService(cmd, root)
			if err != nil {
				return err
			}
			absRoot, err := svc.Root()
			if err != nil {
				return err
			}

			files := args
			if useGit {
				changes, err := scm.Changed(absRoot, gitBase)
				if err != nil {
					return err
				}
				if !changes.HasChanges() {
					fmt.Fprintln(cmd.OutOrStdout(), "No changed files.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", changes)
				for _, f := range changes.Files {
					files = append(files, filepath.Join(absRoot, f))
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no files given: name files to re-index or pass --git")
			}

			for _, f := range files {
				res, err := svc.ReindexFile(f)
				if err != nil {
					return err
				}
				if res.Record == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: removed from index\n", f)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d imports\n", res.Record.Identity, len(res.Record.Imports))
				}
				for _, d := range res.Diagnostics {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", d)
				}
				if len(res.Impacted) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "  impacts: nothing")
					continue
				}
				for _, id := range res.Impacted {
					fmt.Fprintf(cmd.OutOrStdout(), "  impacts: %s\n", id)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useGit, "git", false, "Re-index the files git reports as changed")
	cmd.Flags().StringVar(&gitBase, "base", "", "Git ref to diff against (default HEAD)")

	return cmd
}
