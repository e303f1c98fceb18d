package report

import (
	"context"
	"sync"

	"smartcampus/errs"
	"smartcampus/models"
)

type State int

const (
	Editing State = iota
	Submitting
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Creator sends a validated draft to the backend. *issuesync.Syncer satisfies it.
type Creator interface {
	Create(ctx context.Context, draft models.IssueDraft) (*models.Issue, error)
}

// Flow is the state of one issue report form. Field edits are accepted in
// Editing and Failed; a failed submit keeps every field so the user can retry.
type Flow struct {
	mu      sync.Mutex
	creator Creator
	center  models.LatLng

	draft   models.IssueDraft
	placed  bool
	state   State
	err     error
	created *models.Issue
}

// New returns a flow whose location defaults to center until the user places
// or drags the marker.
func New(creator Creator, center models.LatLng) *Flow {
	return &Flow{creator: creator, center: center}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err is the error that moved the flow to Failed, if any.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Created is the backend issue once the flow is Done.
func (f *Flow) Created() *models.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// CanSubmit is false while a submission is in flight or after it succeeded,
// which is when the submit control should be disabled.
func (f *Flow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editable()
}

func (f *Flow) SetTitle(v string) error       { return f.edit(func(d *models.IssueDraft) { d.Title = v }) }
func (f *Flow) SetDescription(v string) error { return f.edit(func(d *models.IssueDraft) { d.Description = v }) }
func (f *Flow) SetLocationName(v string) error {
	return f.edit(func(d *models.IssueDraft) { d.LocationName = v })
}
func (f *Flow) SetCategory(v string) error { return f.edit(func(d *models.IssueDraft) { d.Category = v }) }

func (f *Flow) SetPriority(p models.Priority) error {
	if p != "" && !p.Valid() {
		return errs.Validation("set priority", "priority")
	}
	return f.edit(func(d *models.IssueDraft) { d.Priority = p })
}

// Place records a click on the map.
func (f *Flow) Place(pos models.LatLng) error { return f.setPosition(pos) }

// Drag records the marker being dragged to pos. It writes the same fields as
// Place; whichever happens last wins.
func (f *Flow) Drag(pos models.LatLng) error { return f.setPosition(pos) }

func (f *Flow) setPosition(pos models.LatLng) error {
	return f.edit(func(d *models.IssueDraft) {
		d.Lat, d.Lng = pos.Lat, pos.Lng
		f.placed = true
	})
}

// Position is where the marker currently is.
func (f *Flow) Position() models.LatLng {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position()
}

// Draft is the draft Submit would send, defaults applied.
func (f *Flow) Draft() models.IssueDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.build()
}

// Submit validates the draft and creates the issue. A missing title fails
// locally without a request and leaves the flow editable. Submit while one is
// in flight, or after one succeeded, returns errs.ErrBusy.
func (f *Flow) Submit(ctx context.Context) (*models.Issue, error) {
	f.mu.Lock()
	if !f.editable() {
		f.mu.Unlock()
		return nil, errs.Busy("submit report")
	}
	draft := f.build()
	if err := models.Validate("submit report", draft); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.state = Submitting
	f.err = nil
	f.mu.Unlock()

	issue, err := f.creator.Create(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Failed
		f.err = err
		return nil, err
	}
	f.state = Done
	f.created = issue
	return issue, nil
}

// Reset clears the form for a new report.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return
	}
	f.draft = models.IssueDraft{}
	f.placed = false
	f.state = Editing
	f.err = nil
	f.created = nil
}

func (f *Flow) edit(fn func(*models.IssueDraft)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.editable() {
		return errs.Busy("edit report")
	}
	fn(&f.draft)
	if f.state == Failed {
		f.state = Editing
	}
	return nil
}

func (f *Flow) editable() bool {
	return f.state == Editing || f.state == Failed
}

func (f *Flow) position() models.LatLng {
	if !f.placed {
		return f.center
	}
	return models.LatLng{Lat: f.draft.Lat, Lng: f.draft.Lng}
}

func (f *Flow) build() models.IssueDraft {
	d := f.draft.WithDefaults()
	pos := f.position()
	d.Lat, d.Lng = pos.Lat, pos.Lng
	return d
}
