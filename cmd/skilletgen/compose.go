package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netskillet/skilletgen/pkg/compose"
	"github.com/netskillet/skilletgen/pkg/loadorder"
)

func newComposeCmd() *cobra.Command {
	var modes []string

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Rebuild the full configuration templates from baseline and snippets",
		Long: `compose attaches each snippet template to the mode's baseline document at
its load-order xpath and writes the result as the full configuration
template. Run it after editing snippets so the full template stays in
sync.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			requested := loadorder.SupportedModes()
			if len(modes) > 0 {
				requested = make([]loadorder.Mode, len(modes))
				for i, m := range modes {
					requested[i] = loadorder.Mode(m)
				}
			}

			composer := compose.NewComposer(templatesDir)
			for _, mode := range requested {
				outPath, err := composer.Compose(mode)
				if err != nil {
					return err
				}
				fmt.Printf("composed %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&modes, "mode", nil, "Device modes to compose (default: panos and panorama)")
	return cmd
}
