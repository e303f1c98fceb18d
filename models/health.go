package models

import "time"

type IllnessType string

const (
	Viral            IllnessType = "Viral"
	Respiratory      IllnessType = "Respiratory"
	VectorBorne      IllnessType = "Vector-borne"
	Gastrointestinal IllnessType = "Gastrointestinal"
	OtherIllness     IllnessType = "Other"
)

var IllnessTypes = []IllnessType{Viral, Respiratory, VectorBorne, Gastrointestinal, OtherIllness}

type Severity string

const (
	Mild     Severity = "Mild"
	Moderate Severity = "Moderate"
	Severe   Severity = "Severe"
)

var Severities = []Severity{Mild, Moderate, Severe}

// Symptoms is the fixed vocabulary a health report may pick from.
var Symptoms = []string{
	"Fever",
	"Cold",
	"Cough",
	"Headache",
	"Body Pain",
	"Sore Throat",
	"Fatigue",
	"Vomiting",
	"Diarrhea",
	"Rash",
}

// KnownSymptom reports whether name is part of Symptoms.
func KnownSymptom(name string) bool {
	for _, s := range Symptoms {
		if s == name {
			return true
		}
	}
	return false
}

// HealthReport is an anonymous symptom report. It carries no identifying fields.
type HealthReport struct {
	IllnessType IllnessType `bson:"illnessType" json:"illnessType" validate:"oneof=Viral Respiratory Vector-borne Gastrointestinal Other" binding:"required"`
	Severity    Severity    `bson:"severity" json:"severity" validate:"oneof=Mild Moderate Severe" binding:"required"`
	Location    string      `bson:"location" json:"location"`
	Symptoms    []string    `bson:"symptoms" json:"symptoms" validate:"unique,dive,symptom"`
	CreatedAt   time.Time   `bson:"createdAt" json:"-"`
}

// HealthSummary is computed by the backend; clients render it as is.
type HealthSummary struct {
	TotalReports  int                 `json:"totalReports"`
	WindowDays    int                 `json:"windowDays"`
	ByIllnessType map[IllnessType]int `json:"byIllnessType"`
	BySeverity    map[Severity]int    `json:"bySeverity"`
	BySymptom     map[string]int      `json:"bySymptom"`
	Outbreak      OutbreakAlert       `json:"outbreakAlert"`
	GeneratedAt   time.Time           `json:"generatedAt"`
}

type OutbreakAlert struct {
	Active      bool        `json:"active"`
	IllnessType IllnessType `json:"illnessType,omitempty"`
	Count       int         `json:"count,omitempty"`
	Message     string      `json:"message,omitempty"`
}

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is the body of POST /api/health/chat.
type ChatRequest struct {
	Message     string        `json:"message" binding:"required"`
	ChatHistory []ChatMessage `json:"chatHistory"`
	FormContext HealthReport  `json:"formContext" binding:"-"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}
