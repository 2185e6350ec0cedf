package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/session"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Default messages used when a rejection carries none.
const (
	DefaultAnalyzeError   = "Failed to analyze resume"
	DefaultQuestionsError = "Failed to generate questions"
	DefaultImproveError   = "Failed to generate improved PDF"
	DefaultLoginError     = "Login failed"
	DefaultSignupError    = "Signup failed"
)

// AnalysisScript is the run log of a resume analysis.
var AnalysisScript = Script{
	Start:        []string{"Starting resume analysis...", "Preparing resume and job description..."},
	Sending:      "Uploading files to server...",
	Parsing:      "Parsing analysis results...",
	Completed:    "Analysis completed successfully!",
	Finally:      "Analysis process completed.",
	DefaultError: DefaultAnalyzeError,
}

// QuestionsScript is the run log of mock question generation. Completion lines depend on
// the normalized question set and are written by the caller's Interpret hook.
var QuestionsScript = Script{
	Start:        []string{"Starting question generation...", "Uploading resume and job description..."},
	Sending:      "Sending request to server...",
	Parsing:      "Parsing response...",
	Finally:      "Question generation process completed.",
	DefaultError: DefaultQuestionsError,
}

// AnalysisRequest builds the multipart analyze request {resume, jobDescription}.
func AnalysisRequest(in *types.WorkflowInput) *Request {
	return &Request{
		Path:      PathAnalyze,
		FileField: "resume",
		File:      in.PrimaryFile,
		Fields: []Part{
			{Name: "jobDescription", Value: in.JobDescription},
		},
		Envelope: schemas.AnalysisEnvelope,
		Script:   AnalysisScript,
	}
}

// QuestionsRequest builds the multipart mock questions request
// {resume, jobDescription, yearsOfExperience, companyName}.
func QuestionsRequest(in *types.WorkflowInput) *Request {
	return &Request{
		Path:      PathMockQuestions,
		FileField: "resume",
		File:      in.PrimaryFile,
		Fields: []Part{
			{Name: "jobDescription", Value: in.JobDescription},
			{Name: "yearsOfExperience", Value: strings.TrimSpace(in.Aux(types.AuxYearsOfExperience))},
			{Name: "companyName", Value: strings.TrimSpace(in.Aux(types.AuxCompanyName))},
		},
		Envelope: schemas.QuestionsEnvelope,
		Script:   QuestionsScript,
	}
}

// GenerateImprovedResume posts req as JSON and returns the binary artifact.
func (c *Client) GenerateImprovedResume(ctx context.Context, sess session.Session, req *types.DerivedArtifactRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode improved resume request: %w", err)
	}

	resp, err := c.post(ctx, PathGenerateImproved, &sess, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return nil, rejection(resp, "message", DefaultImproveError)
	}
	return readBody(resp)
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, req *types.LoginRequest) (session.Session, error) {
	return c.authenticate(ctx, PathLogin, req, DefaultLoginError)
}

// Signup registers an account and returns its session.
func (c *Client) Signup(ctx context.Context, req *types.SignupRequest) (session.Session, error) {
	return c.authenticate(ctx, PathSignup, req, DefaultSignupError)
}

func (c *Client) authenticate(ctx context.Context, path string, payload any, fallback string) (session.Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to encode credentials: %w", err)
	}

	resp, err := c.post(ctx, path, nil, bytes.NewReader(body), "application/json")
	if err != nil {
		return session.Session{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	// auth endpoints report failures under "error", not "message"
	if !isSuccess(resp.StatusCode) {
		return session.Session{}, rejection(resp, "error", fallback)
	}

	data, err := readBody(resp)
	if err != nil {
		return session.Session{}, err
	}

	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return session.Session{}, &MalformedResponseError{Status: resp.StatusCode, Message: "body is not valid JSON", Cause: err}
	}
	if err := schemas.ValidateDocument(schemas.TokenEnvelope, document); err != nil {
		return session.Session{}, &MalformedResponseError{Status: resp.StatusCode, Message: "token missing from response", Cause: err}
	}

	var tr types.TokenResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return session.Session{}, &MalformedResponseError{Status: resp.StatusCode, Message: "token missing from response", Cause: err}
	}
	return session.New(tr.Token), nil
}
