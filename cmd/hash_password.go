package cmd

import (
	"errors"
	"fmt"

	"github.com/frahmantamala/employee-directory/internal/auth"
	"github.com/spf13/cobra"
)

var hashCost int

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args[0]) < auth.MinPasswordLength {
			return errors.New("password must be at least 8 characters")
		}
		hash, err := auth.HashPassword(args[0], hashCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", auth.DefaultBCryptCost, "bcrypt cost factor")
}
