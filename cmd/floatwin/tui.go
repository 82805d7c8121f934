package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/floatwin/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive dashboard for the floating window",
	Long: `Open a terminal dashboard showing live window status.

Pick a size preset (from the presets config key) and press enter to force
resize, or r for a normal resize; c enters a custom WIDTHxHEIGHT.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		return tui.Run(client, cfg.Presets)
	},
}
