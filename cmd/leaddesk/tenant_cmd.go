package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newTenantCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "List, inspect and switch tenants",
	}
	cmd.AddCommand(newTenantListCmd(c), newTenantCurrentCmd(c), newTenantSwitchCmd(c))
	return cmd
}

func newTenantListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			active := c.app.Tenant(cmd.Context())
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "\tKEY\tNAME\tBACKEND\tREGISTRATION")
			for _, t := range c.app.Registry.List() {
				marker := ""
				if t.Key == active {
					marker = "*"
				}
				reg := "no"
				if t.Registrable {
					reg = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, t.Key, t.Name, t.BackendID, reg)
			}
			return w.Flush()
		},
	}
}

func newTenantCurrentCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the active tenant and where it was resolved from",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key, source := c.app.Resolver.ResolveWithSource(ctx)
			name := key
			if t, ok := c.app.Registry.Lookup(key); ok {
				name = t.Name
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintf(w, "TENANT\t%s\n", key)
			fmt.Fprintf(w, "NAME\t%s\n", name)
			fmt.Fprintf(w, "BACKEND\t%s\n", c.app.Registry.BackendID(key))
			fmt.Fprintf(w, "SOURCE\t%s\n", source)
			fmt.Fprintf(w, "API\t%s\n", c.app.API.BaseURL())
			return w.Flush()
		},
	}
}

func newTenantSwitchCmd(c *cli) *cobra.Command {
	var preserveAuth bool
	cmd := &cobra.Command{
		Use:   "switch <key>",
		Short: "Select another tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if _, ok := c.app.Registry.Lookup(key); !ok {
				c.app.Logger.Warn("switching to a tenant the client does not know", slog.String("tenant", key))
			}
			cleared, err := c.app.SwitchTenant(cmd.Context(), key, preserveAuth)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Switched to %s\n", key)
			if cleared {
				fmt.Fprintln(cmd.OutOrStdout(), "Session cleared, please log in again")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&preserveAuth, "preserve-auth", false, "Keep the current session; requests stay blocked until you switch back")
	return cmd
}
