package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <value>",
		Short: "Bcrypt-hash a bearer token for use in config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(h))
			return nil
		},
	}
}
