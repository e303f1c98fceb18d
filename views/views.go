// Package views holds pure projections over a store snapshot. Nothing here
// mutates the store.
package views

import (
	"fmt"
	"net/url"
	"strings"

	"smartcampus/models"
	"smartcampus/store"
)

// Summary holds the dashboard counters.
type Summary struct {
	Total    int
	Ongoing  int
	Resolved int
	Urgent   int
}

func Summarize(snap store.Snapshot) Summary {
	s := Summary{Total: snap.Len()}
	for _, i := range snap.Issues {
		if i.Resolved() {
			s.Resolved++
		} else {
			s.Ongoing++
		}
		if i.Priority.Urgent() {
			s.Urgent++
		}
	}
	return s
}

// MarkerStyle is the visual key of a priority on the map.
type MarkerStyle struct {
	Color string
	Icon  string
	Label string
}

var markerStyles = map[models.Priority]MarkerStyle{
	models.Low:       {Color: "green", Icon: "●", Label: "L"},
	models.Medium:    {Color: "yellow", Icon: "▲", Label: "M"},
	models.High:      {Color: "orange", Icon: "◆", Label: "H"},
	models.Emergency: {Color: "red", Icon: "✖", Label: "E"},
}

// DefaultMarkerStyle is used for priorities the client does not know.
var DefaultMarkerStyle = MarkerStyle{Color: "blue", Icon: "○", Label: "?"}

func StyleFor(p models.Priority) MarkerStyle {
	if s, ok := markerStyles[p]; ok {
		return s
	}
	return DefaultMarkerStyle
}

type Marker struct {
	ID       models.IssueID
	Title    string
	Position models.LatLng
	Style    MarkerStyle
}

// Markers returns one marker per issue, in store order.
func Markers(snap store.Snapshot) []Marker {
	out := make([]Marker, 0, snap.Len())
	for _, i := range snap.Issues {
		out = append(out, Marker{
			ID:       i.ID,
			Title:    i.Title,
			Position: i.Position(),
			Style:    StyleFor(i.Priority),
		})
	}
	return out
}

// Item is one row of the issue list.
type Item struct {
	ID       models.IssueID
	Title    string
	Subtitle string
	Priority models.Priority
	Status   models.IssueStatus
	Style    MarkerStyle
}

func Items(snap store.Snapshot) []Item {
	out := make([]Item, 0, snap.Len())
	for _, i := range snap.Issues {
		var parts []string
		for _, p := range []string{i.Category, i.LocationName} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		out = append(out, Item{
			ID:       i.ID,
			Title:    i.Title,
			Subtitle: strings.Join(parts, " · "),
			Priority: i.Priority,
			Status:   i.Status,
			Style:    StyleFor(i.Priority),
		})
	}
	return out
}

// Filter narrows a snapshot by status and priority. Empty fields match all.
type Filter struct {
	Status   models.IssueStatus
	Priority models.Priority
	// Active keeps only issues that are not resolved.
	Active bool
}

func (f Filter) Match(i models.Issue) bool {
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.Priority != "" && i.Priority != f.Priority {
		return false
	}
	if f.Active && i.Resolved() {
		return false
	}
	return true
}

// Apply returns a snapshot holding only the matching issues, at the same version.
func (f Filter) Apply(snap store.Snapshot) store.Snapshot {
	out := store.Snapshot{Version: snap.Version, Issues: make([]models.Issue, 0, snap.Len())}
	for _, i := range snap.Issues {
		if f.Match(i) {
			out.Issues = append(out.Issues, i)
		}
	}
	return out
}

const staticMapsURL = "https://maps.googleapis.com/maps/api/staticmap"

// MapURL builds a static map image URL centred on center with one marker per
// issue. It returns "" when no key is configured.
func MapURL(key string, center models.LatLng, zoom int, markers []Marker) string {
	if key == "" {
		return ""
	}
	q := url.Values{}
	q.Set("center", latLng(center))
	q.Set("zoom", fmt.Sprint(zoom))
	q.Set("size", "640x480")
	q.Set("key", key)
	for _, m := range markers {
		q.Add("markers", fmt.Sprintf("color:%s|label:%s|%s", m.Style.Color, m.Style.Label, latLng(m.Position)))
	}
	return staticMapsURL + "?" + q.Encode()
}

func latLng(p models.LatLng) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}
