package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netskillet/skilletgen/pkg/config"
	"github.com/netskillet/skilletgen/pkg/loadorder"
	"github.com/netskillet/skilletgen/pkg/orchestrator"
)

func newBuildCmd() *cobra.Command {
	var modes []string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render snippets and full configurations for each device mode",
		Long: `build prompts for the administrator credentials, renders every snippet
in load order plus the full configuration template for each device mode,
and archives the results under a timestamped folder.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := config.Load(varsPath)
			if err != nil {
				return err
			}

			options := []orchestrator.Option{}
			if len(modes) > 0 {
				requested := make([]loadorder.Mode, len(modes))
				for i, m := range modes {
					requested[i] = loadorder.Mode(m)
				}
				options = append(options, orchestrator.WithModes(requested...))
			}

			o, err := orchestrator.New(vars, templatesDir, outputDir, options...)
			if err != nil {
				return err
			}
			archivePath, err := o.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("\nconfigs have been created and can be found in %s\n", archivePath)
			fmt.Println("along with the variables used to render them")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&modes, "mode", nil, "Device modes to build (default: panos and panorama)")
	return cmd
}
