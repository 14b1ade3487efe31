package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aryan0dhankhar/leaddesk/internal/board"
	"github.com/aryan0dhankhar/leaddesk/internal/domain"
)

func newLeadsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List, add and update leads of the active tenant",
	}
	cmd.AddCommand(newLeadsListCmd(c), newLeadsAddCmd(c), newLeadsUpdateCmd(c))
	return cmd
}

func bindFilterFlags(fs *pflag.FlagSet, f *domain.LeadFilters) {
	fs.StringVar(&f.Search, "search", "", "Free-text search")
	fs.StringVar(&f.LeadStatus, "status", "", "Lead status filter")
	fs.StringVar(&f.LeadType, "type", "", "Lead type filter")
	fs.StringVar(&f.LeadProgress, "progress", "", "Lead progress filter")
	fs.StringVar(&f.Province, "province", "", "Province filter")
	fs.StringVar(&f.City, "city", "", "City filter")
}

func newLeadsListCmd(c *cli) *cobra.Command {
	var (
		filters domain.LeadFilters
		tabName string
		page    int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := board.ParseTab(tabName)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			b := c.app.Board(ctx)
			b.SetQuery(tab, filters)
			b.Load(ctx)
			b.GoTo(page)
			return printBoard(cmd.OutOrStdout(), b.View())
		},
	}
	bindFilterFlags(cmd.Flags(), &filters)
	cmd.Flags().StringVar(&tabName, "tab", string(board.TabAll), "Tab: All, Open, Converted, Rejected or Discarded")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func printBoard(out io.Writer, v board.View) error {
	fmt.Fprintf(out, "Leads · %s · %s\n", v.Tenant, v.Tab)
	for _, k := range domain.FilterKeys {
		if val := v.Filters.Get(k); val != "" {
			fmt.Fprintf(out, "  filter %s=%s\n", k, val)
		}
	}
	fmt.Fprintln(out, v.Summary)
	if len(v.Leads) == 0 {
		fmt.Fprintln(out, v.Empty)
		return nil
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tMOBILE\tCITY\tTYPE\tSTATUS\tPROGRESS\tAPPOINTMENT")
	for _, l := range v.Leads {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.FullName(), l.Email, l.MobileNo, l.City,
			l.LeadType, l.LeadStatus, l.LeadProgress, orDash(board.FormatDate(l.AppointmentDate)))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Page %d of %d · %d / page\n", v.Page, max(v.TotalPages, 1), board.PageSize)
	return nil
}

func bindLeadFlags(fs *pflag.FlagSet, in *domain.LeadInput) {
	fs.StringVar(&in.FirstName, "first-name", "", "First name")
	fs.StringVar(&in.LastName, "last-name", "", "Last name")
	fs.StringVar(&in.Email, "email", "", "Email")
	fs.StringVar(&in.MobileNo, "mobile", "", "Mobile number, 10 digits")
	fs.StringVar(&in.LandlineNo, "landline", "", "Landline number")
	fs.StringVar(&in.Province, "province", "", "Province")
	fs.StringVar(&in.City, "city", "", "City")
	fs.StringVar((*string)(&in.LeadType), "type", "", "Lead type (default Support)")
	fs.StringVar((*string)(&in.LeadStatus), "status", "", "Lead status (default Open)")
	fs.StringVar((*string)(&in.LeadProgress), "progress", "", "Lead progress (default New Lead Entry)")
	fs.StringVar(&in.AllocatorRemarks, "allocator-remarks", "", "Allocator remarks")
	fs.StringVar(&in.UserRemarks, "user-remarks", "", "User remarks")
	fs.StringVar(&in.AppointmentDate, "appointment", "", "Appointment date YYYY-MM-DD (default today)")
}

func newLeadsAddCmd(c *cli) *cobra.Command {
	var in domain.LeadInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a lead",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lead, err := c.app.Board(ctx).Add(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Lead created: %s (%s)\n", lead.FullName(), lead.ID)
			return nil
		},
	}
	bindLeadFlags(cmd.Flags(), &in)
	return cmd
}

func newLeadsUpdateCmd(c *cli) *cobra.Command {
	var patch domain.LeadInput
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an existing lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			b := c.app.Board(ctx)
			b.Load(ctx)

			current, ok := b.Lead(id)
			if !ok {
				return fmt.Errorf("lead %s not found for tenant %s", id, b.Tenant())
			}

			in := mergeLead(domain.InputFromLead(&current), patch, cmd.Flags())
			lead, err := b.Update(ctx, id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Lead updated: %s · %s · %s\n", lead.FullName(), lead.LeadStatus, lead.LeadProgress)
			return nil
		},
	}
	bindLeadFlags(cmd.Flags(), &patch)
	return cmd
}

// mergeLead overlays the flags the user actually set
func mergeLead(base, patch domain.LeadInput, fs *pflag.FlagSet) domain.LeadInput {
	set := map[string]func(){
		"first-name":        func() { base.FirstName = patch.FirstName },
		"last-name":         func() { base.LastName = patch.LastName },
		"email":             func() { base.Email = patch.Email },
		"mobile":            func() { base.MobileNo = patch.MobileNo },
		"landline":          func() { base.LandlineNo = patch.LandlineNo },
		"province":          func() { base.Province = patch.Province },
		"city":              func() { base.City = patch.City },
		"type":              func() { base.LeadType = patch.LeadType },
		"status":            func() { base.LeadStatus = patch.LeadStatus },
		"progress":          func() { base.LeadProgress = patch.LeadProgress },
		"allocator-remarks": func() { base.AllocatorRemarks = patch.AllocatorRemarks },
		"user-remarks":      func() { base.UserRemarks = patch.UserRemarks },
		"appointment":       func() { base.AppointmentDate = patch.AppointmentDate },
	}
	for name, apply := range set {
		if fs.Changed(name) {
			apply()
		}
	}
	return base
}
