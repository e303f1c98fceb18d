package health

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"smartcampus/errs"
	"smartcampus/models"
)

// Reporter sends an anonymous health report. *api.Client satisfies it.
type Reporter interface {
	SubmitHealthReport(ctx context.Context, report models.HealthReport) error
}

// Defaults is the blank health report the form starts from.
func Defaults() models.HealthReport {
	return models.HealthReport{
		IllnessType: models.Viral,
		Severity:    models.Mild,
		Symptoms:    []string{},
	}
}

// Form is the health report draft. It is shared with Chat, which sends the
// current draft along with every message.
type Form struct {
	mu       sync.Mutex
	reporter Reporter
	draft    models.HealthReport
}

func NewForm(reporter Reporter) *Form {
	return &Form{reporter: reporter, draft: Defaults()}
}

// Snapshot returns a copy of the current draft.
func (f *Form) Snapshot() models.HealthReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Form) SetIllnessType(t models.IllnessType) error {
	if !contains(models.IllnessTypes, t) {
		return errs.Validation("set illness type", "illnessType")
	}
	f.mu.Lock()
	f.draft.IllnessType = t
	f.mu.Unlock()
	return nil
}

func (f *Form) SetSeverity(s models.Severity) error {
	if !contains(models.Severities, s) {
		return errs.Validation("set severity", "severity")
	}
	f.mu.Lock()
	f.draft.Severity = s
	f.mu.Unlock()
	return nil
}

func (f *Form) SetLocation(loc string) {
	f.mu.Lock()
	f.draft.Location = loc
	f.mu.Unlock()
}

// ToggleSymptom adds name if absent and removes it if present. It reports
// whether the symptom is selected afterwards.
func (f *Form) ToggleSymptom(name string) (bool, error) {
	if !models.KnownSymptom(name) {
		return false, errs.Validation("toggle symptom", "symptoms")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for n, s := range f.draft.Symptoms {
		if s == name {
			next := make([]string, 0, len(f.draft.Symptoms)-1)
			next = append(next, f.draft.Symptoms[:n]...)
			f.draft.Symptoms = append(next, f.draft.Symptoms[n+1:]...)
			return false, nil
		}
	}
	f.draft.Symptoms = append(append([]string(nil), f.draft.Symptoms...), name)
	return true, nil
}

// Selected reports whether name is currently selected.
func (f *Form) Selected(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.draft.Symptoms {
		if s == name {
			return true
		}
	}
	return false
}

// Submit sends the current draft. Only a confirmed success resets the form,
// and only if the draft was not edited while the report was in flight; on
// failure the draft is kept and the error returned.
func (f *Form) Submit(ctx context.Context) error {
	report := f.Snapshot()
	if err := models.Validate("submit health report", report); err != nil {
		return err
	}
	if err := f.reporter.SubmitHealthReport(ctx, report); err != nil {
		zap.S().Warnw("health report not delivered, draft kept", "error", err)
		return fmt.Errorf("submit health report: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !sameReport(f.draft, report) {
		zap.S().Infow("health report sent, newer edits kept in the form")
		return nil
	}
	f.draft = Defaults()
	return nil
}

func sameReport(a, b models.HealthReport) bool {
	return a.IllnessType == b.IllnessType &&
		a.Severity == b.Severity &&
		a.Location == b.Location &&
		slices.Equal(a.Symptoms, b.Symptoms)
}

func (f *Form) snapshotLocked() models.HealthReport {
	r := f.draft
	r.Symptoms = append([]string{}, f.draft.Symptoms...)
	return r
}

func contains[T comparable](list []T, v T) bool {
	return slices.Contains(list, v)
}
