package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/runlog"
	"github.com/jonathan/resume-analyzer/internal/session"
	"github.com/jonathan/resume-analyzer/internal/types"
)

func testInput() *types.WorkflowInput {
	return &types.WorkflowInput{
		PrimaryFile:    &types.FileBlob{Name: "resume.pdf", MimeType: types.PDFMimeType, Data: []byte("%PDF-1.4 test")},
		JobDescription: "Go engineer",
		AuxFields: map[string]string{
			types.AuxYearsOfExperience: " 3 ",
			types.AuxCompanyName:       "  Acme ",
		},
	}
}

func fixedClock() runlog.Option {
	return runlog.WithClock(func() time.Time { return time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC) })
}

func TestRun_AnalysisSuccess(t *testing.T) {
	var gotAuth, gotJD, gotFileType, gotFileName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+PathAnalyze, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotJD = r.FormValue("jobDescription")
		file, header, err := r.FormFile("resume")
		require.NoError(t, err)
		defer file.Close()
		gotFileName = header.Filename
		gotFileType = header.Header.Get("Content-Type")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"fileId":"f-1","overview":{"matchScore":85}}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	log := runlog.New(fixedClock())
	payload, err := c.Run(context.Background(), session.New("tok"), AnalysisRequest(testInput()), log)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "Go engineer", gotJD)
	assert.Equal(t, "resume.pdf", gotFileName)
	assert.Equal(t, types.PDFMimeType, gotFileType)
	assert.Equal(t, "f-1", payload["fileId"])

	assert.Equal(t, []string{
		"Starting resume analysis...",
		"Preparing resume and job description...",
		"Uploading files to server...",
		"Server response status: 200",
		"Parsing analysis results...",
		"Analysis completed successfully!",
		"Analysis process completed.",
	}, messages(log))
	assert.Equal(t, "[09:30:00] Starting resume analysis...", log.Entries()[0].String())
}

func TestRun_QuestionsFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+PathMockQuestions, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "3", r.FormValue("yearsOfExperience"))
		assert.Equal(t, "Acme", r.FormValue("companyName"))
		assert.Equal(t, "Go engineer", r.FormValue("jobDescription"))
		_, _ = w.Write([]byte(`{"data":{"questions":{}}}`))
	}))
	defer server.Close()

	log := runlog.New()
	_, err := New(server.URL).Run(context.Background(), session.New("tok"), QuestionsRequest(testInput()), log)
	require.NoError(t, err)

	assert.Equal(t, "Question generation process completed.", log.Entries()[log.Len()-1].Message)
}

func TestRun_ServerRejection(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "server message", body: `{"message":"File too large"}`, wantMsg: "File too large"},
		{name: "no message", body: `{}`, wantMsg: DefaultAnalyzeError},
		{name: "not json", body: `<html>oops</html>`, wantMsg: DefaultAnalyzeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			log := runlog.New()
			_, err := New(server.URL).Run(context.Background(), session.New("tok"), AnalysisRequest(testInput()), log)
			require.Error(t, err)

			var rejected *ServerRejectedError
			require.True(t, errors.As(err, &rejected))
			assert.Equal(t, http.StatusBadRequest, rejected.Status)
			assert.Equal(t, tt.wantMsg, rejected.Error())

			lines := messages(log)
			assert.Contains(t, lines, "Server response status: 400")
			assert.Contains(t, lines, "Error: "+tt.wantMsg)
			assert.NotContains(t, lines, "Parsing analysis results...")
			assert.Equal(t, "Analysis process completed.", lines[len(lines)-1])
		})
	}
}

func TestRun_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"data":`},
		{name: "missing data", body: `{"result":{}}`},
		{name: "data not object", body: `{"data":[1,2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			log := runlog.New()
			_, err := New(server.URL).Run(context.Background(), session.New("tok"), AnalysisRequest(testInput()), log)

			var malformed *MalformedResponseError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, http.StatusOK, malformed.Status)
			assert.NotContains(t, messages(log), "Analysis completed successfully!")
		})
	}
}

func TestRun_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	log := runlog.New()
	_, err := New(url).Run(context.Background(), session.New("tok"), AnalysisRequest(testInput()), log)

	var transport *TransportError
	require.True(t, errors.As(err, &transport))
	lines := messages(log)
	assert.NotContains(t, lines, "Server response status: 200")
	assert.Equal(t, "Analysis process completed.", lines[len(lines)-1])
}

func TestRun_InterpretErrorFailsRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	req := AnalysisRequest(testInput())
	req.Interpret = func(types.RawPayload) error { return errors.New("no score") }

	log := runlog.New()
	_, err := New(server.URL).Run(context.Background(), session.New("tok"), req, log)
	require.EqualError(t, err, "no score")

	lines := messages(log)
	assert.Contains(t, lines, "Error: no score")
	assert.NotContains(t, lines, "Analysis completed successfully!")
}

func TestGenerateImprovedResume(t *testing.T) {
	t.Run("returns artifact bytes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/"+PathGenerateImproved, r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

			var body types.DerivedArtifactRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "f-1", body.FileID)
			assert.Equal(t, []string{"kubernetes"}, body.MissingKeywords)

			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-improved"))
		}))
		defer server.Close()

		data, err := New(server.URL).GenerateImprovedResume(context.Background(), session.New("tok"), &types.DerivedArtifactRequest{
			FileID:          "f-1",
			MissingKeywords: []string{"kubernetes"},
			JobDescription:  "Go engineer",
		})
		require.NoError(t, err)
		assert.Equal(t, "%PDF-improved", string(data))
	})

	t.Run("rejection falls back to default", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := New(server.URL).GenerateImprovedResume(context.Background(), session.New("tok"), &types.DerivedArtifactRequest{FileID: "f-1"})
		require.EqualError(t, err, DefaultImproveError)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/"+PathLogin, r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"email":"a@b.c","password":"secret"}`, string(body))
			_, _ = w.Write([]byte(`{"token":"abc"}`))
		}))
		defer server.Close()

		sess, err := New(server.URL).Login(context.Background(), &types.LoginRequest{Email: "a@b.c", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "abc", sess.Token)
	})

	t.Run("server error key", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
		}))
		defer server.Close()

		_, err := New(server.URL).Login(context.Background(), &types.LoginRequest{Email: "a@b.c", Password: "x"})
		require.EqualError(t, err, "Invalid credentials")
	})

	t.Run("missing token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"user":"a"}`))
		}))
		defer server.Close()

		_, err := New(server.URL).Login(context.Background(), &types.LoginRequest{Email: "a@b.c", Password: "x"})
		var malformed *MalformedResponseError
		assert.True(t, errors.As(err, &malformed))
	})
}

func TestSignup_DefaultError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.NotContains(t, string(body), "confirm")
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	_, err := New(server.URL).Signup(context.Background(), &types.SignupRequest{Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret1"})
	require.EqualError(t, err, DefaultSignupError)
}

func messages(log *runlog.Log) []string {
	entries := log.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestWithTimeout_CopiesInstalledClient(t *testing.T) {
	shared := &http.Client{}
	c := New("http://localhost", WithHTTPClient(shared), WithTimeout(5*time.Second))

	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.Zero(t, shared.Timeout)
	assert.NotSame(t, shared, c.httpClient)
}
