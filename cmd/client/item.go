package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const maskedPassword = "••••••••"

func (c *cli) itemCmd() *cobra.Command {
	var vaultRef string

	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage items of a vault",
		Long:  `Adds, lists, shows, copies, edits and removes vault items. Every command asks for the vault password.`,
	}
	cmd.PersistentFlags().StringVarP(&vaultRef, "vault", "V", "", "vault name or ID (default: the only vault)")

	cmd.AddCommand(
		c.itemAddCmd(&vaultRef),
		c.itemListCmd(&vaultRef),
		c.itemShowCmd(&vaultRef),
		c.itemCopyCmd(&vaultRef),
		c.itemEditCmd(&vaultRef),
		c.itemRemoveCmd(&vaultRef),
	)
	return cmd
}

func (c *cli) itemAddCmd(vaultRef *string) *cobra.Command {
	var (
		label    string
		website  string
		username string
		generate int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, args []string) error {
			if _, err := c.unlock(cmd.Context(), *vaultRef); err != nil {
				return err
			}

			item := models.Item{
				Label:    label,
				Website:  optionalFlag(cmd, "website", website),
				Username: optionalFlag(cmd, "username", username),
			}

			var err error
			if item.Password, err = c.itemPassword(generate); err != nil {
				return err
			}

			id, err := c.app.Vaults().AddItem(cmd.Context(), item)
			if err != nil {
				return err
			}
			c.success("Added item %s (%s)", color.YellowString(label), id)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "item label (required)")
	cmd.Flags().StringVarP(&website, "website", "w", "", "website")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().IntVarP(&generate, "generate", "g", 0, "generate a password of this length instead of prompting")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func (c *cli) itemListCmd(vaultRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items with their passwords hidden",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, args []string) error {
			if _, err := c.unlock(cmd.Context(), *vaultRef); err != nil {
				return err
			}

			items, err := c.app.Vaults().ListItems(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				c.hint("Vault is empty")
				return nil
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tWEBSITE\tUSERNAME")
			for _, it := range items {
				if it.Corrupted {
					fmt.Fprintf(tw, "%s\t%s\t\t\n", it.ID, color.RedString("(unreadable)"))
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Label, valueOrDash(it.Website), valueOrDash(it.Username))
			}
			return tw.Flush()
		}),
	}
}

func (c *cli) itemShowCmd(vaultRef *string) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string) error {
			if _, err := c.unlock(cmd.Context(), *vaultRef); err != nil {
				return err
			}

			item, err := c.app.Vaults().RevealItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			password := maskedPassword
			if reveal {
				password = item.Password
			}
			fmt.Fprintf(c.out, "Label:    %s\n", item.Label)
			fmt.Fprintf(c.out, "Website:  %s\n", valueOrDash(item.Website))
			fmt.Fprintf(c.out, "Username: %s\n", valueOrDash(item.Username))
			fmt.Fprintf(c.out, "Password: %s\n", password)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&reveal, "reveal", "r", false, "print the password in clear text")
	return cmd
}

func (c *cli) itemCopyCmd(vaultRef *string) *cobra.Command {
	var fieldName string

	cmd := &cobra.Command{
		Use:   "copy <item-id>",
		Short: "Copy a field to the clipboard",
		Long: `Copies one field of an item to the clipboard. When a clear delay is
configured the command waits and blanks the clipboard again, unless something
else was copied in the meantime. Interrupting the wait clears it right away.`,
		Args: cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string) error {
			field, err := service.ParseField(fieldName)
			if err != nil {
				return err
			}
			if _, err = c.unlock(cmd.Context(), *vaultRef); err != nil {
				return err
			}

			if err = c.app.Vaults().CopyField(cmd.Context(), args[0], field); err != nil {
				return err
			}
			c.app.Vaults().Lock()
			c.success("Copied %s to clipboard", field)

			if d := c.app.ClipboardClearAfter(); d > 0 {
				c.hint("Clipboard clears in %s", d)
				if err = c.app.WaitClipboard(cmd.Context()); err != nil {
					c.app.FlushClipboard()
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&fieldName, "field", "F", string(service.FieldPassword), "field to copy: password, username, website or label")
	return cmd
}

func (c *cli) itemEditCmd(vaultRef *string) *cobra.Command {
	var (
		label       string
		website     string
		username    string
		newPassword bool
		generate    int
	)

	cmd := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Edit an item",
		Long: `Changes the fields given as flags and keeps the others. Pass an empty
--website or --username to remove that field. The password changes only with
--password or --generate.`,
		Args: cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := c.unlock(ctx, *vaultRef); err != nil {
				return err
			}

			current, err := c.app.Vaults().RevealItem(ctx, args[0])
			if err != nil {
				return err
			}

			update := models.ItemUpdate{
				Label:    current.Label,
				Website:  current.Website,
				Username: current.Username,
			}
			if cmd.Flags().Changed("label") {
				update.Label = label
			}
			if cmd.Flags().Changed("website") {
				update.Website = nonEmpty(website)
			}
			if cmd.Flags().Changed("username") {
				update.Username = nonEmpty(username)
			}
			if newPassword || generate > 0 {
				pw, err := c.itemPassword(generate)
				if err != nil {
					return err
				}
				update.Password = &pw
			}

			if err = c.app.Vaults().UpdateItem(ctx, args[0], update); err != nil {
				return err
			}
			c.success("Updated item %s", args[0])
			return nil
		}),
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "new label")
	cmd.Flags().StringVarP(&website, "website", "w", "", "new website, empty to remove")
	cmd.Flags().StringVarP(&username, "username", "u", "", "new username, empty to remove")
	cmd.Flags().BoolVarP(&newPassword, "password", "p", false, "prompt for a new password")
	cmd.Flags().IntVarP(&generate, "generate", "g", 0, "generate a new password of this length")
	return cmd
}

func (c *cli) itemRemoveCmd(vaultRef *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <item-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string) error {
			if _, err := c.unlock(cmd.Context(), *vaultRef); err != nil {
				return err
			}
			if err := c.app.Vaults().DeleteItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.success("Removed item %s", args[0])
			return nil
		}),
	}
}

// errEmptyPassword is returned when an item password prompt is left empty.
var errEmptyPassword = errors.New("item password must not be empty")

// itemPassword generates a password of length n, or prompts for one when n
// is zero.
func (c *cli) itemPassword(n int) (string, error) {
	if n > 0 {
		return c.app.Vaults().GeneratePassword(n)
	}

	pw, err := c.prompt("Item password: ")
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", errEmptyPassword
	}
	return pw, nil
}

// optionalFlag returns nil for a flag that was not given, so an absent field
// stays distinct from an empty one.
func optionalFlag(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func nonEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func valueOrDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}
