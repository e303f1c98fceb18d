package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"smartcampus/issuesync"
	"smartcampus/models"
	"smartcampus/store"
	"smartcampus/views"
)

const dashboardZoom = 16

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show issue counters, the issue list and the campus map link",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showDashboard(cmd.Context(), cmd.OutOrStdout(), newSyncer(), current.cfg.MapsAPIKey, current.cfg.CampusCenter)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func showDashboard(ctx context.Context, w io.Writer, s *issuesync.Syncer, mapsKey string, center models.LatLng) error {
	unsubscribe := s.Store().Subscribe(func(snap store.Snapshot) {
		renderDashboard(w, snap, mapsKey, center)
	})
	defer unsubscribe()
	return s.Load(ctx)
}

func renderDashboard(w io.Writer, snap store.Snapshot, mapsKey string, center models.LatLng) {
	fmt.Fprintln(w, headerStyle.Render("Smart Campus dashboard"))
	renderCounters(w, views.Summarize(snap))
	renderItems(w, views.Items(snap))
	if u := views.MapURL(mapsKey, center, dashboardZoom, views.Markers(snap)); u != "" {
		fmt.Fprintln(w, "\nMap: "+u)
	} else {
		fmt.Fprintln(w, dimStyle.Render("\nMap unavailable: MAPS_API_KEY is not set."))
	}
}
