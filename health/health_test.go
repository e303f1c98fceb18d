package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcampus/config"
	"smartcampus/errs"
	"smartcampus/models"
)

type stubReporter struct {
	reports []models.HealthReport
	err     error
}

func (s *stubReporter) SubmitHealthReport(ctx context.Context, r models.HealthReport) error {
	s.reports = append(s.reports, r)
	return s.err
}

func TestForm_ToggleTwiceRestores(t *testing.T) {
	for _, symptom := range models.Symptoms {
		t.Run(symptom, func(t *testing.T) {
			f := NewForm(&stubReporter{})
			_, err := f.ToggleSymptom("Cough")
			require.NoError(t, err)
			before := f.Snapshot().Symptoms

			_, err = f.ToggleSymptom(symptom)
			require.NoError(t, err)
			_, err = f.ToggleSymptom(symptom)
			require.NoError(t, err)

			assert.ElementsMatch(t, before, f.Snapshot().Symptoms)
		})
	}
}

func TestForm_ToggleSemantics(t *testing.T) {
	f := NewForm(&stubReporter{})

	on, err := f.ToggleSymptom("Fever")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, f.Selected("Fever"))

	on, err = f.ToggleSymptom("Fever")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, f.Snapshot().Symptoms)

	_, err = f.ToggleSymptom("Sneezing")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestForm_SnapshotIsACopy(t *testing.T) {
	f := NewForm(&stubReporter{})
	_, _ = f.ToggleSymptom("Fever")

	snap := f.Snapshot()
	snap.Symptoms[0] = "Rash"

	assert.True(t, f.Selected("Fever"))
}

func TestForm_SettersValidate(t *testing.T) {
	f := NewForm(&stubReporter{})
	assert.ErrorIs(t, f.SetIllnessType("Flu"), errs.ErrValidation)
	assert.ErrorIs(t, f.SetSeverity("Critical"), errs.ErrValidation)
	require.NoError(t, f.SetIllnessType(models.Respiratory))
	require.NoError(t, f.SetSeverity(models.Severe))
	f.SetLocation("Hostel B")

	got := f.Snapshot()
	assert.Equal(t, models.Respiratory, got.IllnessType)
	assert.Equal(t, models.Severe, got.Severity)
	assert.Equal(t, "Hostel B", got.Location)
}

func TestForm_SubmitSuccessResets(t *testing.T) {
	r := &stubReporter{}
	f := NewForm(r)
	require.NoError(t, f.SetSeverity(models.Moderate))
	_, _ = f.ToggleSymptom("Fever")

	require.NoError(t, f.Submit(context.Background()))

	require.Len(t, r.reports, 1)
	assert.Equal(t, models.Moderate, r.reports[0].Severity)
	assert.Equal(t, []string{"Fever"}, r.reports[0].Symptoms)
	assert.Equal(t, Defaults(), f.Snapshot())
}

func TestForm_SubmitFailurePreservesDraft(t *testing.T) {
	r := &stubReporter{err: errs.Server("POST /api/health/report", 500, "")}
	f := NewForm(r)
	require.NoError(t, f.SetIllnessType(models.Gastrointestinal))
	_, _ = f.ToggleSymptom("Vomiting")
	f.SetLocation("Mess")
	before := f.Snapshot()

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, errs.ErrServer)
	assert.Equal(t, before, f.Snapshot())
}

// gatedReporter holds the report until release is closed.
type gatedReporter struct {
	entered chan struct{}
	release chan struct{}
	sent    models.HealthReport
}

func (g *gatedReporter) SubmitHealthReport(ctx context.Context, r models.HealthReport) error {
	g.sent = r
	close(g.entered)
	<-g.release
	return nil
}

func TestForm_EditDuringSubmitIsKept(t *testing.T) {
	r := &gatedReporter{entered: make(chan struct{}), release: make(chan struct{})}
	f := NewForm(r)
	_, _ = f.ToggleSymptom("Cough")

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	<-r.entered

	_, err := f.ToggleSymptom("Fever")
	require.NoError(t, err)
	close(r.release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"Cough"}, r.sent.Symptoms)
	assert.Equal(t, []string{"Cough", "Fever"}, f.Snapshot().Symptoms)
}

// blockingAssistant answers once release is closed.
type blockingAssistant struct {
	requests []models.ChatRequest
	entered  chan struct{}
	release  chan struct{}
	reply    string
	err      error
}

func (b *blockingAssistant) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	b.requests = append(b.requests, req)
	if b.entered != nil {
		close(b.entered)
	}
	if b.release != nil {
		<-b.release
	}
	return b.reply, b.err
}

type change struct {
	length  int
	enabled bool
}

func TestChat_InputDisabledWhileAwaitingReply(t *testing.T) {
	a := &blockingAssistant{entered: make(chan struct{}), release: make(chan struct{}), reply: "Rest and drink fluids."}
	form := NewForm(&stubReporter{})
	_, _ = form.ToggleSymptom("Fever")
	c := NewChat(a, form)

	var changes []change
	c.OnChange(func(tr []models.ChatMessage, enabled bool) {
		changes = append(changes, change{len(tr), enabled})
	})
	assert.True(t, c.InputEnabled())

	done := make(chan error, 1)
	go func() {
		_, err := c.Send(context.Background(), "I have a fever")
		done <- err
	}()
	<-a.entered

	assert.False(t, c.InputEnabled())
	_, err := c.Send(context.Background(), "hello?")
	assert.ErrorIs(t, err, errs.ErrBusy)
	assert.Len(t, c.Transcript(), 1)

	close(a.release)
	require.NoError(t, <-done)

	assert.True(t, c.InputEnabled())
	assert.Equal(t, []change{{1, false}, {2, true}}, changes)
	assert.Equal(t, []models.ChatMessage{
		{Role: models.RoleUser, Text: "I have a fever"},
		{Role: models.RoleBot, Text: "Rest and drink fluids."},
	}, c.Transcript())

	require.Len(t, a.requests, 1)
	assert.Equal(t, "I have a fever", a.requests[0].Message)
	assert.Len(t, a.requests[0].ChatHistory, 1)
	assert.Equal(t, []string{"Fever"}, a.requests[0].FormContext.Symptoms)
}

func TestChat_FailureAppendsApology(t *testing.T) {
	a := &blockingAssistant{err: errs.Network("POST /api/health/chat", errors.New("refused"))}
	c := NewChat(a, nil)

	msg, err := c.Send(context.Background(), "hello")

	assert.ErrorIs(t, err, errs.ErrNetwork)
	assert.Equal(t, models.ChatMessage{Role: models.RoleBot, Text: Apology}, msg)
	assert.Len(t, c.Transcript(), 2)
	assert.True(t, c.InputEnabled())
}

func TestChat_EmptyReplyIsAFailure(t *testing.T) {
	c := NewChat(&blockingAssistant{reply: "  "}, nil)

	msg, err := c.Send(context.Background(), "hello")

	assert.ErrorIs(t, err, errs.ErrDecode)
	assert.Equal(t, Apology, msg.Text)
}

func TestChat_BlankMessageIgnored(t *testing.T) {
	a := &blockingAssistant{reply: "hi"}
	c := NewChat(a, nil)

	_, err := c.Send(context.Background(), "   ")

	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Empty(t, c.Transcript())
	assert.Empty(t, a.requests)
}

type liveStub struct{}

func (liveStub) Summary(ctx context.Context) (*models.HealthSummary, error) {
	return &models.HealthSummary{TotalReports: 1}, nil
}

func TestNewSummarySource(t *testing.T) {
	src, err := NewSummarySource(&config.Config{SummarySource: config.SummaryLive}, liveStub{})
	require.NoError(t, err)
	s, err := src.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalReports)

	src, err = NewSummarySource(&config.Config{SummarySource: config.SummaryMock}, liveStub{})
	require.NoError(t, err)
	assert.IsType(t, MockSource{}, src)

	_, err = NewSummarySource(&config.Config{SummarySource: "cache"}, liveStub{})
	assert.Error(t, err)
}

func TestMockSource(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	s, err := MockSource{Now: func() time.Time { return now }}.Summary(context.Background())
	require.NoError(t, err)

	total := 0
	for _, n := range s.ByIllnessType {
		total += n
	}
	assert.Equal(t, s.TotalReports, total)
	assert.True(t, s.Outbreak.Active)
	assert.Equal(t, now, s.GeneratedAt)
}
