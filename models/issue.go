package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// Priority enum, ordered from least to most urgent
type Priority string

const (
	Low       Priority = "Low"
	Medium    Priority = "Medium"
	High      Priority = "High"
	Emergency Priority = "Emergency"
)

// Priorities lists the known priorities in ascending order.
var Priorities = []Priority{Low, Medium, High, Emergency}

// Rank returns the position of p in Priorities, or -1 for an unknown value.
func (p Priority) Rank() int {
	for i, known := range Priorities {
		if p == known {
			return i
		}
	}
	return -1
}

func (p Priority) Valid() bool { return p.Rank() >= 0 }

// Urgent is true for High and Emergency.
func (p Priority) Urgent() bool { return p == High || p == Emergency }

// IssueStatus enum. Only the backend moves an issue between states.
type IssueStatus string

const (
	Submitted  IssueStatus = "Submitted"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
)

const DefaultCategory = "Infrastructure"

// LatLng is a map position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CampusCenter is the default position for new reports.
var CampusCenter = LatLng{Lat: 26.0812, Lng: 91.5620}

// IssueID is the backend-assigned identifier. Backends that number their issues
// are accepted too; the number is kept in its decimal form.
type IssueID string

func (id *IssueID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = IssueID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("issue id: unsupported value %s", data)
	}
	*id = IssueID(data)
	return nil
}

func (id IssueID) String() string { return string(id) }

// Issue represents a reported campus problem
type Issue struct {
	ID           IssueID     `bson:"_id" json:"id"`
	Title        string      `bson:"title" json:"title"`
	Description  string      `bson:"description" json:"description"`
	LocationName string      `bson:"locationName" json:"locationName"`
	Category     string      `bson:"category" json:"category"`
	Priority     Priority    `bson:"priority" json:"priority"`
	Status       IssueStatus `bson:"status" json:"status"`
	Lat          float64     `bson:"lat" json:"lat"`
	Lng          float64     `bson:"lng" json:"lng"`
	CreatedBy    string      `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt    time.Time   `bson:"createdAt" json:"createdAt"`
}

func (i Issue) Resolved() bool { return i.Status == Resolved }

func (i Issue) Position() LatLng { return LatLng{Lat: i.Lat, Lng: i.Lng} }

// IssueDraft is the body of a create request. The backend fills in id, status
// and createdAt.
type IssueDraft struct {
	Title        string   `json:"title" validate:"notblank" binding:"required"`
	Description  string   `json:"description"`
	LocationName string   `json:"locationName"`
	Category     string   `json:"category"`
	Priority     Priority `json:"priority" validate:"omitempty,oneof=Low Medium High Emergency"`
	Lat          float64  `json:"lat" validate:"latitude"`
	Lng          float64  `json:"lng" validate:"longitude"`
}

// WithDefaults fills the fields a user may leave unset.
func (d IssueDraft) WithDefaults() IssueDraft {
	if d.Category == "" {
		d.Category = DefaultCategory
	}
	if d.Priority == "" {
		d.Priority = Low
	}
	return d
}
