package health

import (
	"context"
	"fmt"
	"time"

	"smartcampus/config"
	"smartcampus/models"
)

// SummarySource provides the campus health summary. The live API client and
// MockSource are interchangeable behind it.
type SummarySource interface {
	Summary(ctx context.Context) (*models.HealthSummary, error)
}

// MockSource serves a fixed summary, for demos and offline development.
type MockSource struct {
	Now func() time.Time
}

func (m MockSource) Summary(ctx context.Context) (*models.HealthSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return &models.HealthSummary{
		TotalReports: 42,
		WindowDays:   7,
		ByIllnessType: map[models.IllnessType]int{
			models.Viral:            18,
			models.Respiratory:      11,
			models.VectorBorne:      6,
			models.Gastrointestinal: 5,
			models.OtherIllness:     2,
		},
		BySeverity: map[models.Severity]int{
			models.Mild:     27,
			models.Moderate: 12,
			models.Severe:   3,
		},
		BySymptom: map[string]int{
			"Fever":     21,
			"Cough":     14,
			"Headache":  12,
			"Cold":      9,
			"Fatigue":   8,
			"Body Pain": 6,
		},
		Outbreak: models.OutbreakAlert{
			Active:      true,
			IllnessType: models.Viral,
			Count:       9,
			Message:     "Viral fever cases rising in hostels. Visit the Medical Center if symptoms persist.",
		},
		GeneratedAt: now().UTC(),
	}, nil
}

// NewSummarySource picks the source named by cfg.SummarySource.
func NewSummarySource(cfg *config.Config, live SummarySource) (SummarySource, error) {
	switch cfg.SummarySource {
	case config.SummaryLive:
		return live, nil
	case config.SummaryMock:
		return MockSource{}, nil
	}
	return nil, fmt.Errorf("health: unknown summary source %q", cfg.SummarySource)
}
