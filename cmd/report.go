package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"smartcampus/issuesync"
	"smartcampus/models"
	"smartcampus/report"
)

type reportInput struct {
	title, description, location, category, priority string
	position                                         *models.LatLng
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report a campus issue",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		in := reportInput{}
		in.title, _ = f.GetString("title")
		in.description, _ = f.GetString("description")
		in.location, _ = f.GetString("location")
		in.category, _ = f.GetString("category")
		in.priority, _ = f.GetString("priority")
		if f.Changed("lat") || f.Changed("lng") {
			pos := current.cfg.CampusCenter
			if f.Changed("lat") {
				pos.Lat, _ = f.GetFloat64("lat")
			}
			if f.Changed("lng") {
				pos.Lng, _ = f.GetFloat64("lng")
			}
			in.position = &pos
		}
		return submitReport(cmd.Context(), cmd.OutOrStdout(), newSyncer(), current.cfg.CampusCenter, in)
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringP("title", "t", "", "short title (required)")
	f.StringP("description", "d", "", "what is wrong")
	f.StringP("location", "l", "", "building or landmark")
	f.String("category", "", "category (default Infrastructure)")
	f.StringP("priority", "p", "", "Low, Medium, High or Emergency (default Low)")
	f.Float64("lat", 0, "latitude of the issue (default campus center)")
	f.Float64("lng", 0, "longitude of the issue (default campus center)")
	rootCmd.AddCommand(reportCmd)
}

func submitReport(ctx context.Context, w io.Writer, s *issuesync.Syncer, center models.LatLng, in reportInput) error {
	flow := report.New(s, center)
	for _, set := range []func() error{
		func() error { return flow.SetTitle(in.title) },
		func() error { return flow.SetDescription(in.description) },
		func() error { return flow.SetLocationName(in.location) },
		func() error { return flow.SetCategory(in.category) },
		func() error { return flow.SetPriority(models.Priority(in.priority)) },
	} {
		if err := set(); err != nil {
			return err
		}
	}
	if in.position != nil {
		if err := flow.Place(*in.position); err != nil {
			return err
		}
	}

	issue, err := flow.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Reported %q as %s (id %s).\n", issue.Title, issue.Status, issue.ID)

	if err := s.Load(ctx); err != nil {
		fmt.Fprintln(w, "The issue was saved but the list could not be refreshed:", err)
		return nil
	}
	fmt.Fprintf(w, "%d issues on record.\n", s.Store().Snapshot().Len())
	return nil
}
