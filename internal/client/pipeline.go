package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/runlog"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/session"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Script is the set of run-log lines one pipeline run emits.
type Script struct {
	Start        []string // before the body is assembled
	Sending      string   // after the body is assembled, before the POST
	Parsing      string   // after a 2xx status
	Completed    string   // after the payload was accepted; empty to skip
	Finally      string   // always, last
	DefaultError string   // rejection message when the server sends none
}

// Part is a text field of a multipart body.
type Part struct {
	Name  string
	Value string
}

// Request describes one upload, process and parse run against the service.
type Request struct {
	Path      string
	FileField string
	File      *types.FileBlob
	Fields    []Part
	Envelope  *schemas.Schema
	Script    Script

	// Interpret, when set, runs on the accepted payload before the completion line is logged.
	// Its error fails the run.
	Interpret func(types.RawPayload) error
}

// Run executes req once: log, assemble a multipart body, POST it with the session's bearer
// token, map the status, parse and check the envelope, then hand the `data` object to
// Interpret. The Finally line is logged whether the run succeeded or not. Nothing is retried.
func (c *Client) Run(ctx context.Context, sess session.Session, req *Request, log *runlog.Log) (payload types.RawPayload, err error) {
	if log == nil {
		log = runlog.New()
	}
	logger := c.logger.With(zap.String("path", req.Path), zap.String("trace_id", uuid.NewString()))

	defer func() {
		if err != nil {
			log.Addf("Error: %s", err.Error())
			logger.Warn("pipeline run failed", zap.Error(err))
		}
		log.Add(req.Script.Finally)
	}()

	for _, line := range req.Script.Start {
		log.Add(line)
	}

	body, contentType, err := encodeMultipart(req)
	if err != nil {
		return nil, &TransportError{URL: c.endpoint(req.Path), Message: "failed to encode request", Cause: err}
	}
	logger.Debug("multipart body assembled", zap.Int("bytes", body.Len()))

	if req.Script.Sending != "" {
		log.Add(req.Script.Sending)
	}

	resp, err := c.post(ctx, req.Path, &sess, body, contentType)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	log.Addf("Server response status: %d", resp.StatusCode)

	if !isSuccess(resp.StatusCode) {
		return nil, rejection(resp, "message", req.Script.DefaultError)
	}

	if req.Script.Parsing != "" {
		log.Add(req.Script.Parsing)
	}

	data, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	payload, err = parseEnvelope(resp.StatusCode, data, req.Envelope)
	if err != nil {
		return nil, err
	}

	if req.Interpret != nil {
		if err := req.Interpret(payload); err != nil {
			return nil, err
		}
	}

	if req.Script.Completed != "" {
		log.Add(req.Script.Completed)
	}
	return payload, nil
}

// parseEnvelope decodes a 2xx body, checks it against envelope and returns its data object.
func parseEnvelope(status int, data []byte, envelope *schemas.Schema) (types.RawPayload, error) {
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, &MalformedResponseError{Status: status, Message: "body is not valid JSON", Cause: err}
	}

	if envelope != nil {
		if err := schemas.ValidateDocument(envelope, document); err != nil {
			var vErr *schemas.ValidationError
			if errors.As(err, &vErr) {
				return nil, &MalformedResponseError{Status: status, Message: vErr.Summary()}
			}
			return nil, &MalformedResponseError{Status: status, Message: "envelope check failed", Cause: err}
		}
	}

	root, ok := document.(map[string]any)
	if !ok {
		return nil, &MalformedResponseError{Status: status, Message: "body is not a JSON object"}
	}
	obj, ok := root["data"].(map[string]any)
	if !ok {
		return nil, &MalformedResponseError{Status: status, Message: "response has no data object"}
	}
	return types.RawPayload(obj), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(req *Request) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if req.File != nil {
		field := req.FileField
		if field == "" {
			field = "file"
		}
		contentType := req.File.MimeType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(req.File.Name)))
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(req.File.Data); err != nil {
			return nil, "", err
		}
	}

	for _, f := range req.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
