package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartcampus/models"
	"smartcampus/repository"
)

const (
	summaryWindowDays = 7
	outbreakWindow    = 24 * time.Hour
)

type HealthController struct {
	Reports           repository.HealthRepository
	OutbreakThreshold int
	Now               func() time.Time
}

func NewHealthController(reports repository.HealthRepository, outbreakThreshold int) *HealthController {
	return &HealthController{Reports: reports, OutbreakThreshold: outbreakThreshold, Now: time.Now}
}

// Status answers liveness checks.
func Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Backend running"})
}

// SubmitReport stores an anonymous health report.
func (hc *HealthController) SubmitReport(c *gin.Context) {
	var report models.HealthReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if report.Symptoms == nil {
		report.Symptoms = []string{}
	}
	if err := models.Validate("health report", report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report.CreatedAt = hc.Now().UTC()

	if err := hc.Reports.Insert(c.Request.Context(), report); err != nil {
		zap.S().Errorw("store health report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store report"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Report received"})
}

// Summary aggregates the reports of the last week.
func (hc *HealthController) Summary(c *gin.Context) {
	now := hc.Now().UTC()
	reports, err := hc.Reports.Since(c.Request.Context(), now.AddDate(0, 0, -summaryWindowDays))
	if err != nil {
		zap.S().Errorw("load health reports", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, Summarize(reports, now, hc.OutbreakThreshold))
}

// Summarize counts reports by illness type, severity and symptom. The outbreak
// alert fires when one illness type reaches threshold reports within the last
// 24 hours before now.
func Summarize(reports []models.HealthReport, now time.Time, threshold int) models.HealthSummary {
	s := models.HealthSummary{
		TotalReports:  len(reports),
		WindowDays:    summaryWindowDays,
		ByIllnessType: map[models.IllnessType]int{},
		BySeverity:    map[models.Severity]int{},
		BySymptom:     map[string]int{},
		GeneratedAt:   now,
	}
	recent := map[models.IllnessType]int{}
	for _, r := range reports {
		s.ByIllnessType[r.IllnessType]++
		s.BySeverity[r.Severity]++
		for _, sym := range r.Symptoms {
			s.BySymptom[sym]++
		}
		if now.Sub(r.CreatedAt) <= outbreakWindow {
			recent[r.IllnessType]++
		}
	}

	if threshold <= 0 {
		return s
	}
	var top models.IllnessType
	for _, t := range models.IllnessTypes {
		if recent[t] > recent[top] {
			top = t
		}
	}
	if n := recent[top]; top != "" && n >= threshold {
		s.Outbreak = models.OutbreakAlert{
			Active:      true,
			IllnessType: top,
			Count:       n,
			Message: fmt.Sprintf("%d %s cases reported in the last 24 hours. Visit the Medical Center if symptoms persist.",
				n, strings.ToLower(string(top))),
		}
	}
	return s
}

// Chat answers the assistant with a rule-based reply.
func (hc *HealthController) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.ChatReply{Reply: Reply(req)})
}

const medicalCenter = "Medical Center (+91 98765 43211)"

var redFlags = []string{"chest pain", "breath", "unconscious", "faint", "bleeding", "seizure"}

var advice = []struct {
	symptoms []string
	text     string
}{
	{[]string{"fever"}, "For fever, rest, drink plenty of fluids and check your temperature every few hours."},
	{[]string{"cough", "cold", "sore throat"}, "Warm fluids and steam help with cough and sore throat. Wear a mask around others."},
	{[]string{"vomiting", "diarrhea"}, "Sip oral rehydration solution in small amounts and avoid mess food until it settles."},
	{[]string{"headache", "body pain", "fatigue"}, "Get some sleep and stay hydrated; screens and skipped meals make headaches worse."},
	{[]string{"rash"}, "Keep the rash clean and dry and avoid scratching. Show it to a doctor if it spreads."},
}

// Reply builds the assistant answer from the message and the report form the
// user is filling in.
func Reply(req models.ChatRequest) string {
	text := strings.ToLower(req.Message)
	for _, f := range redFlags {
		if strings.Contains(text, f) {
			return "This may need urgent care. Call the " + medicalCenter + " now or ask someone to take you there."
		}
	}

	mentioned := map[string]bool{}
	for _, s := range req.FormContext.Symptoms {
		mentioned[strings.ToLower(s)] = true
	}
	for _, s := range models.Symptoms {
		if strings.Contains(text, strings.ToLower(s)) {
			mentioned[strings.ToLower(s)] = true
		}
	}

	var parts []string
	for _, a := range advice {
		for _, s := range a.symptoms {
			if mentioned[s] {
				parts = append(parts, a.text)
				break
			}
		}
	}
	if req.FormContext.Severity == models.Severe {
		parts = append(parts, "Since you marked this as severe, please visit the "+medicalCenter+" today.")
	}
	if len(parts) == 0 {
		return "Tell me your symptoms, or pick them in the report form, and I'll suggest what to do next."
	}
	return strings.Join(parts, " ")
}
