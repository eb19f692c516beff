package main

import (
	"fmt"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/spf13/cobra"
)

func (c *cli) generateCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := crypto.NewSecretGenerator().GeneratePassword(length)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, pw)
			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "length", "n", service.DefaultPasswordLength, "password length")
	return cmd
}
