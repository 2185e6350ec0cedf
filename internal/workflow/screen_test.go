package workflow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/client"
	"github.com/jonathan/resume-analyzer/internal/runlog"
	"github.com/jonathan/resume-analyzer/internal/session"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/validation"
)

var testSession = session.New("token")

func pdf() *types.FileBlob {
	return &types.FileBlob{Name: "valid.pdf", MimeType: types.PDFMimeType, Data: []byte("%PDF-1.4")}
}

// fakePipeline answers every run with payload or err, counting calls.
type fakePipeline struct {
	calls   atomic.Int32
	payload types.RawPayload
	err     error
	block   chan struct{}
}

func (f *fakePipeline) Run(ctx context.Context, sess session.Session, req *client.Request, log *runlog.Log) (types.RawPayload, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	log.Add("fake run")
	if f.err != nil {
		return nil, f.err
	}
	if req.Interpret != nil {
		if err := req.Interpret(f.payload); err != nil {
			return nil, err
		}
	}
	return f.payload, nil
}

func TestAnalysis_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"overview":{"matchScore":85,"summary":"Strong match"}}}`))
	}))
	defer server.Close()

	screen := NewAnalysisScreen(client.New(server.URL))
	require.NoError(t, screen.SelectFile(pdf()))
	screen.SetJobDescription("Senior backend engineer")

	state, err := screen.Start(context.Background(), testSession)
	require.NoError(t, err)

	success, ok := state.(Success[types.AnalysisResult])
	require.True(t, ok, "got %T", state)
	assert.Equal(t, 85.0, success.Result.MatchScore)
	assert.Equal(t, "Strong match", success.Result.Summary)
	assert.False(t, success.Result.NeedsImprovement())

	lines := runlog.Lines(success.Logs)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[len(lines)-1], "Analysis process completed.")
	assert.Equal(t, StatusSuccess, screen.State().Status())
}

func TestAnalysis_MistypedSectionStillSucceeds(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{name: "keywords as string", body: `{"data":{"overview":{"matchScore":85},"missingKeywords":"rust"}}`, want: 85},
		{name: "overview as string", body: `{"data":{"overview":"x","atsScore":55}}`, want: 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			screen := NewAnalysisScreen(client.New(server.URL))
			require.NoError(t, screen.SelectFile(pdf()))
			screen.SetJobDescription("jd")

			state, err := screen.Start(context.Background(), testSession)
			require.NoError(t, err)
			success, ok := state.(Success[types.AnalysisResult])
			require.True(t, ok, "got %T", state)
			assert.Equal(t, tt.want, success.Result.MatchScore)
			assert.Empty(t, success.Result.MissingKeywords)
		})
	}
}

func TestStart_ValidationBlocksPipeline(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(s *QuestionsScreen)
		notice string
	}{
		{
			name:   "no file",
			setup:  func(s *QuestionsScreen) { s.SetJobDescription("jd") },
			notice: validation.MsgMissingResume,
		},
		{
			name: "blank job description",
			setup: func(s *QuestionsScreen) {
				_ = s.SelectFile(pdf())
				s.SetJobDescription("   ")
			},
			notice: validation.MsgMissingJobDesc,
		},
		{
			name: "zero years",
			setup: func(s *QuestionsScreen) {
				_ = s.SelectFile(pdf())
				s.SetJobDescription("jd")
				s.SetAuxField(types.AuxYearsOfExperience, "0")
			},
			notice: validation.MsgInvalidExperience,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &fakePipeline{}
			screen := NewQuestionsScreen(pipeline)
			tt.setup(screen)

			state, err := screen.Start(context.Background(), testSession)
			require.Error(t, err)

			idle, ok := state.(Idle)
			require.True(t, ok)
			assert.Equal(t, tt.notice, idle.Notice)
			assert.Equal(t, int32(0), pipeline.calls.Load())
			assert.False(t, screen.Busy())
		})
	}
}

func TestStart_RequiresSession(t *testing.T) {
	pipeline := &fakePipeline{}
	screen := NewAnalysisScreen(pipeline)

	_, err := screen.Start(context.Background(), session.Session{})
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
	assert.Equal(t, int32(0), pipeline.calls.Load())
}

func TestStart_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "server message", body: `{"message":"Resume could not be parsed"}`, wantMsg: "Resume could not be parsed"},
		{name: "default message", body: `not json`, wantMsg: client.DefaultAnalyzeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			screen := NewAnalysisScreen(client.New(server.URL))
			require.NoError(t, screen.SelectFile(pdf()))
			screen.SetJobDescription("jd")

			state, err := screen.Start(context.Background(), testSession)
			require.Error(t, err)

			failure, ok := state.(Failure)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, failure.Message)
			assert.Contains(t, runlog.Lines(failure.Logs)[len(failure.Logs)-2], "Error: "+tt.wantMsg)

			// entered values survive a failure
			in := screen.Input()
			assert.Equal(t, "jd", in.JobDescription)
			assert.NotNil(t, in.PrimaryFile)
		})
	}
}

func TestStart_RetryAfterFailureClearsLog(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("boom")}
	screen := NewAnalysisScreen(pipeline)
	require.NoError(t, screen.SelectFile(pdf()))
	screen.SetJobDescription("jd")

	state, err := screen.Start(context.Background(), testSession)
	require.Error(t, err)
	assert.Len(t, state.Entries(), 1)

	pipeline.err = nil
	pipeline.payload = types.RawPayload{"atsScore": 40.0, "fileId": "f-1"}
	state, err = screen.Start(context.Background(), testSession)
	require.NoError(t, err)
	assert.Len(t, state.Entries(), 1)
	assert.Equal(t, StatusSuccess, state.Status())
	assert.NotEqual(t, "", state.(Success[types.AnalysisResult]).RunID)
}

func TestStart_NormalizerFailure(t *testing.T) {
	pipeline := &fakePipeline{payload: types.RawPayload{"overview": map[string]any{}}}
	screen := NewAnalysisScreen(pipeline)
	require.NoError(t, screen.SelectFile(pdf()))
	screen.SetJobDescription("jd")

	state, err := screen.Start(context.Background(), testSession)
	require.Error(t, err)
	assert.Equal(t, StatusFailure, state.Status())
}

func TestStart_FromSuccessRequiresReset(t *testing.T) {
	pipeline := &fakePipeline{payload: types.RawPayload{"atsScore": 90.0}}
	screen := NewAnalysisScreen(pipeline)
	require.NoError(t, screen.SelectFile(pdf()))
	screen.SetJobDescription("jd")

	_, err := screen.Start(context.Background(), testSession)
	require.NoError(t, err)

	_, err = screen.Start(context.Background(), testSession)
	assert.ErrorIs(t, err, ErrResetRequired)
	assert.Equal(t, int32(1), pipeline.calls.Load())
}

func TestReset(t *testing.T) {
	for _, pipeline := range []*fakePipeline{
		{payload: types.RawPayload{"atsScore": 90.0}},
		{err: errors.New("boom")},
	} {
		screen := NewAnalysisScreen(pipeline)
		require.NoError(t, screen.SelectFile(pdf()))
		screen.SetJobDescription("jd")
		_, _ = screen.Start(context.Background(), testSession)

		screen.Reset()

		state := screen.State()
		assert.Equal(t, Idle{}, state)
		assert.Empty(t, state.Entries())
		assert.Equal(t, types.WorkflowInput{}, screen.Input())
		_, ok := screen.Result()
		assert.False(t, ok)
	}
}

func TestStart_BusyRejectsSecondRun(t *testing.T) {
	pipeline := &fakePipeline{payload: types.RawPayload{"atsScore": 90.0}, block: make(chan struct{})}
	screen := NewAnalysisScreen(pipeline)
	require.NoError(t, screen.SelectFile(pdf()))
	screen.SetJobDescription("jd")

	started := make(chan struct{})
	screen.Subscribe(func(s State) {
		if s.Status() == StatusRunning {
			select {
			case <-started:
			default:
				close(started)
			}
		}
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := screen.Start(context.Background(), testSession)
		assert.NoError(t, err)
	}()

	<-started
	_, err := screen.Start(context.Background(), testSession)
	assert.ErrorIs(t, err, ErrBusy)

	close(pipeline.block)
	wg.Wait()
	assert.Equal(t, int32(1), pipeline.calls.Load())
}

func TestReset_DiscardsStaleSettlement(t *testing.T) {
	pipeline := &fakePipeline{payload: types.RawPayload{"atsScore": 90.0}, block: make(chan struct{})}
	screen := NewAnalysisScreen(pipeline)
	require.NoError(t, screen.SelectFile(pdf()))
	screen.SetJobDescription("jd")

	started := make(chan struct{})
	var once sync.Once
	screen.Subscribe(func(s State) {
		if s.Status() == StatusRunning {
			once.Do(func() { close(started) })
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := screen.Start(context.Background(), testSession)
		done <- err
	}()

	<-started
	screen.Reset()
	close(pipeline.block)

	assert.True(t, IsStale(<-done))
	assert.Equal(t, Idle{}, screen.State())
}

// heldPipeline holds its first run until release is closed; later runs answer at once.
type heldPipeline struct {
	calls   atomic.Int32
	release chan struct{}
	first   types.RawPayload
	later   types.RawPayload
}

func (p *heldPipeline) Run(ctx context.Context, sess session.Session, req *client.Request, log *runlog.Log) (types.RawPayload, error) {
	payload := p.later
	if p.calls.Add(1) == 1 {
		<-p.release
		payload = p.first
		log.Add("old run")
	} else {
		log.Add("new run")
	}
	if err := req.Interpret(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func TestReset_OldRunCannotOverwriteNewResult(t *testing.T) {
	pipeline := &heldPipeline{
		release: make(chan struct{}),
		first:   types.RawPayload{"atsScore": 90.0},
		later:   types.RawPayload{"atsScore": 60.0},
	}
	screen := NewAnalysisScreen(pipeline)
	fill := func() {
		require.NoError(t, screen.SelectFile(pdf()))
		screen.SetJobDescription("jd")
	}
	fill()

	started := make(chan struct{})
	var once sync.Once
	screen.Subscribe(func(s State) {
		if s.Status() == StatusRunning {
			once.Do(func() { close(started) })
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := screen.Start(context.Background(), testSession)
		done <- err
	}()

	<-started
	screen.Reset()
	fill()
	state, err := screen.Start(context.Background(), testSession)
	require.NoError(t, err)
	before, ok := state.(Success[types.AnalysisResult])
	require.True(t, ok, "got %T", state)
	assert.Equal(t, 60.0, before.Result.MatchScore)

	close(pipeline.release)
	assert.True(t, IsStale(<-done))

	after, ok := screen.State().(Success[types.AnalysisResult])
	require.True(t, ok)
	assert.Equal(t, before.RunID, after.RunID)
	assert.Equal(t, 60.0, after.Result.MatchScore)
	lines := runlog.Lines(after.Logs)
	assert.Contains(t, lines, "new run")
	assert.NotContains(t, lines, "old run")
	assert.Equal(t, int32(2), pipeline.calls.Load())
}

func TestSelectFile(t *testing.T) {
	screen := NewAnalysisScreen(&fakePipeline{})

	err := screen.SelectFile(&types.FileBlob{Name: "cv.docx", MimeType: "application/msword"})
	require.Error(t, err)
	assert.Equal(t, Idle{Notice: validation.MsgNotPDF}, screen.State())
	assert.Nil(t, screen.Input().PrimaryFile)

	require.NoError(t, screen.SelectFile(pdf()))
	assert.Equal(t, Idle{}, screen.State())
	assert.NotNil(t, screen.Input().PrimaryFile)
}

func TestQuestions_LogScript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"yearsOfExperience":4,"questions":{
			"companyName":"Acme",
			"jobDescriptionBased":{"easy":["q1"]},
			"dsaAndSystemDesign":{"dsa":["q2"],"systemDesign":["q3"]}
		}}}`))
	}))
	defer server.Close()

	screen := NewQuestionsScreen(client.New(server.URL))
	require.NoError(t, screen.SelectFile(pdf()))
	screen.SetJobDescription("jd")
	screen.SetAuxField(types.AuxYearsOfExperience, "4")
	screen.SetAuxField(types.AuxCompanyName, "Acme")

	state, err := screen.Start(context.Background(), testSession)
	require.NoError(t, err)

	success := state.(Success[types.QuestionSet])
	assert.Equal(t, 3, success.Result.Total())

	var messages []string
	for _, e := range success.Logs {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{
		"Starting question generation...",
		"Uploading resume and job description...",
		"Sending request to server...",
		"Server response status: 200",
		"Parsing response...",
		"Company identified: Acme",
		"Questions generated successfully!",
		"Total questions: 3",
		"Question generation process completed.",
	}, messages)
}

func TestQuestions_MissingQuestions(t *testing.T) {
	pipeline := &fakePipeline{payload: types.RawPayload{}}
	screen := NewQuestionsScreen(pipeline)
	require.NoError(t, screen.SelectFile(pdf()))
	screen.SetJobDescription("jd")
	screen.SetAuxField(types.AuxYearsOfExperience, "2")

	state, err := screen.Start(context.Background(), testSession)
	require.Error(t, err)

	failure := state.(Failure)
	assert.Equal(t, "No questions in response", failure.Message)
	assert.Contains(t, runlog.Lines(failure.Logs)[1], "Warning: No questions in response")
}
