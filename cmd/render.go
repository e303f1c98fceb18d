package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smartcampus/emergency"
	"smartcampus/models"
	"smartcampus/views"
)

var markerColors = map[string]lipgloss.Color{
	"green":  lipgloss.Color("2"),
	"yellow": lipgloss.Color("3"),
	"orange": lipgloss.Color("208"),
	"red":    lipgloss.Color("1"),
	"blue":   lipgloss.Color("4"),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	counterBox  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func markerStyle(s views.MarkerStyle) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(markerColors[s.Color])
}

func renderItems(w io.Writer, items []views.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No issues reported."))
		return
	}
	for _, it := range items {
		badge := markerStyle(it.Style).Render(fmt.Sprintf("%s %-9s", it.Style.Icon, it.Priority))
		fmt.Fprintf(w, "%s  %-12s %s\n", badge, it.Status, it.Title)
		line := "id " + it.ID.String()
		if it.Subtitle != "" {
			line += " · " + it.Subtitle
		}
		fmt.Fprintln(w, "   "+dimStyle.Render(line))
	}
}

func renderCounters(w io.Writer, s views.Summary) {
	boxes := []string{
		counterBox.Render(fmt.Sprintf("Total\n%d", s.Total)),
		counterBox.Render(fmt.Sprintf("Ongoing\n%d", s.Ongoing)),
		counterBox.Render(fmt.Sprintf("Resolved\n%d", s.Resolved)),
		counterBox.Render(fmt.Sprintf("Urgent\n%d", s.Urgent)),
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
}

func renderHealthSummary(w io.Writer, s *models.HealthSummary) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Campus health, last %d days", s.WindowDays)))
	fmt.Fprintf(w, "Reports: %d\n", s.TotalReports)
	if s.Outbreak.Active {
		fmt.Fprintln(w, alertStyle.Render("⚠ "+s.Outbreak.Message))
	}

	fmt.Fprintln(w, "\nBy illness type")
	for _, t := range models.IllnessTypes {
		if n := s.ByIllnessType[t]; n > 0 {
			fmt.Fprintf(w, "  %-18s %s %d\n", t, bar(n, s.TotalReports), n)
		}
	}
	fmt.Fprintln(w, "\nBy severity")
	for _, sev := range models.Severities {
		fmt.Fprintf(w, "  %-18s %d\n", sev, s.BySeverity[sev])
	}
	if len(s.BySymptom) > 0 {
		fmt.Fprintln(w, "\nTop symptoms")
		for _, kv := range topSymptoms(s.BySymptom, 5) {
			fmt.Fprintf(w, "  %-18s %d\n", kv.name, kv.count)
		}
	}
}

type symptomCount struct {
	name  string
	count int
}

func topSymptoms(m map[string]int, n int) []symptomCount {
	out := make([]symptomCount, 0, len(m))
	for k, v := range m {
		out = append(out, symptomCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func bar(n, total int) string {
	if total <= 0 {
		return ""
	}
	return strings.Repeat("█", (n*20+total-1)/total)
}

func renderEmergency(w io.Writer, o emergency.Overlay, mapURL string) {
	fmt.Fprintln(w, alertStyle.Render("⚠ "+o.Zone.Headline))
	fmt.Fprintln(w, o.Zone.Detail)
	fmt.Fprintf(w, "Danger zone: %.0f m around %.4f, %.4f\n", o.Zone.RadiusMeters, o.Zone.Center.Lat, o.Zone.Center.Lng)
	if mapURL != "" {
		fmt.Fprintln(w, dimStyle.Render(mapURL))
	}

	fmt.Fprintln(w, "\n"+headerStyle.Render("Quick dial"))
	for _, c := range o.Contacts {
		fmt.Fprintf(w, "  %-18s %s\n", c.Title, c.Number)
	}
	fmt.Fprintln(w, "\n"+headerStyle.Render("Safety protocols"))
	for _, p := range o.Protocols {
		fmt.Fprintf(w, "  %s: %s\n", p.Title, p.Description)
	}
}
