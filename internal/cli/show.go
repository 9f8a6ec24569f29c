package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/forPelevin/mdlv/internal/domain/project"
	"github.com/forPelevin/mdlv/internal/report"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project>",
		Short: "List a project's filters with their frame ranges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asYAML, _ := cmd.Flags().GetBool("yaml")

			d, err := project.ReadFile(args[0])
			if err != nil {
				return err
			}
			if asYAML {
				return report.Write(cmd.OutOrStdout(), report.Build(args[0], d))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "movie:\t%s\n", d.MoviePath)
			fmt.Fprintf(w, "jump:\t%d\n\n", d.JumpSize)
			fmt.Fprintln(w, "START\tEND\tFILTER")
			entries := d.Filters.Entries()
			for i, e := range entries {
				end := "-"
				if i+1 < len(entries) {
					end = fmt.Sprint(entries[i+1].Start - 1)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", e.Start, end, e.Filter)
			}
			if d.Filters.HasReview() {
				fmt.Fprintln(w, "\nreview regions pending")
			}
			return w.Flush()
		},
	}
	cmd.Flags().Bool("yaml", false, "Print the project summary as YAML")
	return cmd
}

func newAtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "at <project> <frame>",
		Short: "Show the filter active at frame",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := parseFrame(args[1])
			if err != nil {
				return err
			}
			d, err := project.ReadFile(args[0])
			if err != nil {
				return err
			}
			e, ok := d.Filters.FilterForFrame(frame)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "frame %d: no filter\n", frame)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "frame %d: %s (from %d)\n", frame, e.Filter, e.Start)
			return nil
		},
	}
}
