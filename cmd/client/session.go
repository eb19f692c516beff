package main

import (
	"github.com/spf13/cobra"
)

func (c *cli) sessionCmd() *cobra.Command {
	var vaultRef string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Open an interactive session on a vault",
		Long: `Opens a full-screen session on a vault. The vault locks again after the
configured idle time, as soon as the terminal loses focus, or on L.`,
		Args: cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, args []string) error {
			return c.app.Run(cmd.Context(), vaultRef)
		}),
	}
	cmd.Flags().StringVarP(&vaultRef, "vault", "V", "", "vault name or ID (default: the only vault)")
	return cmd
}
