package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show usage of the last 100 processed images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			stats, err := c.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}

			plan := "Free"
			if stats.IsPro {
				plan = "Pro"
			}
			tools := make([]string, 0, len(stats.ToolsUsed))
			for _, t := range stats.ToolsUsed {
				tools = append(tools, string(t))
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Plan\t%s\n", plan)
			fmt.Fprintf(w, "Processed\t%d\n", stats.TotalProcessed)
			fmt.Fprintf(w, "Tools used\t%s\n", strings.Join(tools, ", "))
			fmt.Fprintf(w, "Total size\t%.2f MB\n", stats.TotalSizeMB)
			fmt.Fprintf(w, "Avg time\t%.0f ms\n", stats.AverageProcessingTime)

			if len(stats.RecentLogs) > 0 {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "WHEN\tTOOL\tINPUT\tOUTPUT\tSIZE\tTIME")
				for _, l := range stats.RecentLogs {
					output := "-"
					if l.OutputFormat != nil {
						output = *l.OutputFormat
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f MB\t%d ms\n",
						l.CreatedAt.Local().Format("2006-01-02 15:04"), l.ToolType, l.InputFormat, output, l.FileSizeMB, l.ProcessingTimeMs)
				}
			}
			return w.Flush()
		},
	}
}
