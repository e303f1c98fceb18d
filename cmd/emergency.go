package cmd

import (
	"github.com/spf13/cobra"

	"smartcampus/emergency"
	"smartcampus/views"
)

var emergencyCmd = &cobra.Command{
	Use:   "emergency",
	Short: "Show the active danger zone, quick-dial contacts and safety protocols",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := current.cfg
		overlay, err := emergency.Load(cfg.EmergencyConfig, cfg.CampusCenter)
		if err != nil {
			return err
		}
		renderEmergency(cmd.OutOrStdout(), overlay, views.MapURL(cfg.MapsAPIKey, overlay.Zone.Center, 17, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(emergencyCmd)
}
