package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
	"github.com/aryan0dhankhar/leaddesk/internal/validation"
)

func newAuthCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, register and inspect the current session",
	}
	cmd.AddCommand(newLoginCmd(c), newRegisterCmd(c), newLogoutCmd(c), newWhoamiCmd(c))
	return cmd
}

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in under the active tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if password == "" {
				var err error
				if password, err = c.prompt(cmd, "Password: "); err != nil {
					return err
				}
			}
			tenantKey := c.app.Tenant(ctx)
			sess, err := c.app.Auth.Login(ctx, email, password, tenantKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s (%s)\n", sess.User.DisplayName(), sess.TenantID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when empty)")
	return cmd
}

func newRegisterCmd(c *cli) *cobra.Command {
	var in validation.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if in.Tenant == "" {
				in.Tenant = c.app.Tenant(ctx)
			}
			if t, ok := c.app.Registry.Lookup(in.Tenant); !ok || !t.Registrable {
				var keys []string
				for _, r := range c.app.Registry.Registrable() {
					keys = append(keys, r.Key)
				}
				return fmt.Errorf("tenant %q does not accept registrations (choose one of: %s)", in.Tenant, strings.Join(keys, ", "))
			}
			if in.Password == "" {
				var err error
				if in.Password, err = c.prompt(cmd, "Password: "); err != nil {
					return err
				}
			}
			if in.ConfirmPassword == "" {
				var err error
				if in.ConfirmPassword, err = c.prompt(cmd, "Confirm password: "); err != nil {
					return err
				}
			}
			res, err := c.app.Auth.Register(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", res.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (prompted when empty)")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm-password", "", "Password again (prompted when empty)")
	cmd.Flags().StringVar(&in.Tenant, "for-tenant", "", "Tenant to register with; defaults to the active tenant")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.app.Auth.Current(cmd.Context())
			if errors.Is(err, domain.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			if err != nil {
				return err
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintf(w, "NAME\t%s\n", sess.User.DisplayName())
			fmt.Fprintf(w, "EMAIL\t%s\n", orDash(sess.User.Email))
			fmt.Fprintf(w, "USER ID\t%s\n", orDash(sess.User.ID))
			fmt.Fprintf(w, "TENANT\t%s\n", sess.TenantID)
			return w.Flush()
		},
	}
}
