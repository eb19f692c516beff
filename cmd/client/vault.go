package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// errPasswordMismatch is returned when the confirmation differs from the
// first password entry.
var errPasswordMismatch = errors.New("passwords do not match")

func (c *cli) vaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Create, list and remove vaults",
	}
	cmd.AddCommand(c.vaultCreateCmd(), c.vaultListCmd(), c.vaultRemoveCmd())
	return cmd
}

func (c *cli) vaultCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a vault protected by a new password",
		Long: `Creates a vault with a fresh random key and wraps that key under the
password you choose. The password cannot be recovered: without it the vault
cannot be opened.`,
		Args: cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string) error {
			pw, err := c.prompt("New vault password: ")
			if err != nil {
				return err
			}
			confirm, err := c.prompt("Repeat password: ")
			if err != nil {
				return err
			}
			if pw != confirm {
				return errPasswordMismatch
			}

			id, err := c.app.Vaults().CreateVault(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}

			c.success("Created vault %s (%s)", color.YellowString(args[0]), id)
			c.hint("Add an item: %s", color.YellowString("zkvault item add --vault %s --label <label>", args[0]))
			return nil
		}),
	}
}

func (c *cli) vaultListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vaults in the configured store",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, args []string) error {
			vaults, err := c.app.Vaults().ListVaults(cmd.Context())
			if err != nil {
				return err
			}
			if len(vaults) == 0 {
				c.hint("No vaults yet. Create one with %s", color.YellowString("zkvault vault create <name>"))
				return nil
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCREATED")
			for _, v := range vaults {
				created := "-"
				if v.CreatedAt != nil {
					created = v.CreatedAt.Local().Format(time.DateTime)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", v.ID, v.Name, created)
			}
			return tw.Flush()
		}),
	}
}

func (c *cli) vaultRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name|id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a vault and all of its items",
		Long: `Removes a vault together with every item in it. The vault password is
asked for and must open the vault before anything is deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string) error {
			summary, err := c.app.ResolveVault(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			pw, err := c.prompt(fmt.Sprintf("Password for vault %q: ", summary.Name))
			if err != nil {
				return err
			}
			if err = c.app.Vaults().DeleteVault(cmd.Context(), summary.ID, pw); err != nil {
				return err
			}

			c.success("Removed vault %s (%s)", color.YellowString(summary.Name), summary.ID)
			return nil
		}),
	}
}
