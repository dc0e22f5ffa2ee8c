package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netskillet/skilletgen/pkg/assets"
)

func newInitCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a starter templates tree and variables file",
		Long: `init writes a working starter project: sample variables, per-mode load
orders, snippet templates, baselines and full configuration templates.
Existing files are never overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := assets.Scaffold(dir); err != nil {
				return err
			}
			fmt.Printf("starter tree written to %s\n", dir)
			fmt.Println("edit my_variables.yaml, then run: skilletgen build")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to scaffold into")
	return cmd
}
