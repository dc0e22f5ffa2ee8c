package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netskillet/skilletgen/pkg/hashes"
	"github.com/netskillet/skilletgen/pkg/prompt"
)

func newHashCmd() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Produce a phash for a password without rendering anything",
		Long: `hash prompts for a password and prints its salted hash in the selected
format, ready to paste into a phash field.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := prompt.NewSurveyDriver()
			password, err := driver.Password(cmd.Context(), "Enter the password to hash:")
			if err != nil {
				return err
			}
			hash, err := hashes.Hash(hashes.Algorithm(algorithm), password)
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", string(hashes.SHA512), "Hash algorithm: md5, des, or sha512")
	return cmd
}
