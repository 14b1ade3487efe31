package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/leaddesk/internal/board"
)

func newDashboardCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show lead counts for the active tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			counts := board.Dashboard(ctx, c.app.Leads, c.app.Tenant(ctx))

			out := cmd.OutOrStdout()
			name := counts.Tenant
			if t, ok := c.app.Registry.Lookup(counts.Tenant); ok {
				name = t.Name
			}
			fmt.Fprintf(out, "Dashboard · %s · %s\n", name, time.Now().Format("Jan 2, 2006"))
			if sess, err := c.app.Auth.Current(ctx); err == nil {
				fmt.Fprintf(out, "Welcome back, %s\n", sess.User.DisplayName())
			}

			w := newTable(out)
			fmt.Fprintf(w, "Total Leads\t%d\n", counts.Total)
			for _, sc := range counts.ByStatus {
				fmt.Fprintf(w, "%s\t%d\n", sc.Status, sc.Count)
			}
			if counts.Other > 0 {
				fmt.Fprintf(w, "Other\t%d\n", counts.Other)
			}
			fmt.Fprintln(w, "\t")
			for _, pc := range counts.ByProgress {
				fmt.Fprintf(w, "%s\t%d\n", pc.Progress, pc.Count)
			}
			return w.Flush()
		},
	}
}
