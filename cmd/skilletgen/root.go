package main

import (
	"github.com/spf13/cobra"

	"github.com/netskillet/skilletgen/pkg/logging"
)

var (
	verbosity    int
	templatesDir string
	varsPath     string
	outputDir    string

	rootCmd = &cobra.Command{
		Use:   "skilletgen",
		Short: "Render PAN-OS and Panorama day-one configurations from templates",
		Long: `skilletgen renders network-device configuration templates with the
values from a variables file, producing loadable full configurations
and per-feature XML snippets for the panos and panorama device modes.

Each run archives its output under a timestamped folder together with
the variables used, and hashes the administrator password before
embedding it.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity)
		},
		SilenceUsage: true,
	}
)

// Execute runs the root command; called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v DEBUG, -vv TRACE)")
	rootCmd.PersistentFlags().StringVar(&templatesDir, "templates", "templates", "Path to the templates directory")
	rootCmd.PersistentFlags().StringVar(&varsPath, "vars", "my_variables.yaml", "Path to the variables file")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "my_configs", "Directory that receives the archived configs")

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newComposeCmd())
	rootCmd.AddCommand(newHashCmd())
	rootCmd.AddCommand(newInitCmd())
}
