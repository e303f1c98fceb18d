package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"smartcampus/models"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	reports := []models.HealthReport{
		{IllnessType: models.Viral, Severity: models.Mild, Symptoms: []string{"Fever"}, CreatedAt: now.Add(-time.Hour)},
		{IllnessType: models.Viral, Severity: models.Moderate, Symptoms: []string{"Fever", "Cough"}, CreatedAt: now.Add(-2 * time.Hour)},
		{IllnessType: models.Viral, Severity: models.Mild, CreatedAt: now.Add(-72 * time.Hour)},
		{IllnessType: models.Respiratory, Severity: models.Severe, Symptoms: []string{"Cough"}, CreatedAt: now.Add(-3 * time.Hour)},
	}

	s := Summarize(reports, now, 2)
	assert.Equal(t, 4, s.TotalReports)
	assert.Equal(t, 7, s.WindowDays)
	assert.Equal(t, 3, s.ByIllnessType[models.Viral])
	assert.Equal(t, 2, s.BySeverity[models.Mild])
	assert.Equal(t, 2, s.BySymptom["Cough"])
	assert.True(t, s.Outbreak.Active)
	assert.Equal(t, models.Viral, s.Outbreak.IllnessType)
	assert.Equal(t, 2, s.Outbreak.Count)

	assert.False(t, Summarize(reports, now, 3).Outbreak.Active)
	assert.False(t, Summarize(reports, now, 0).Outbreak.Active)
	assert.False(t, Summarize(nil, now, 1).Outbreak.Active)
}

func TestReply(t *testing.T) {
	tests := []struct {
		name string
		req  models.ChatRequest
		want string
	}{
		{"red flag", models.ChatRequest{Message: "I have chest pain"}, "urgent care"},
		{"symptom in message", models.ChatRequest{Message: "bad cough since monday"}, "Warm fluids"},
		{"symptom from form", models.ChatRequest{Message: "what should I do?", FormContext: models.HealthReport{Symptoms: []string{"Vomiting"}}}, "rehydration"},
		{"severe", models.ChatRequest{Message: "help", FormContext: models.HealthReport{Severity: models.Severe}}, "Medical Center"},
		{"nothing known", models.ChatRequest{Message: "hello"}, "Tell me your symptoms"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, Reply(tc.req), tc.want)
		})
	}
}
