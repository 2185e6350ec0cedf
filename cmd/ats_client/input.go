package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/workflow"
)

// inputFlags are shared by the workflow commands.
type inputFlags struct {
	resume         string
	jobDescription string
	jobFile        string
	jsonOutput     bool
}

// readResume loads a resume from disk. The MIME type is sniffed from content, so a renamed
// file is still rejected.
func readResume(path string) (*types.FileBlob, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	return &types.FileBlob{
		Name:     filepath.Base(path),
		MimeType: mimetype.Detect(data).String(),
		Data:     data,
	}, nil
}

// normalizeMIME strips parameters such as "; charset=utf-8".
func normalizeMIME(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		return strings.TrimSpace(mime[:i])
	}
	return mime
}

func readJobDescription(text, path string) (string, error) {
	if text != "" && path != "" {
		return "", errors.New("cannot use --job-description with --job-file")
	}
	if path == "" {
		return text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return string(data), nil
}

// fillScreen loads the shared inputs into screen.
func fillScreen[T any](screen *workflow.Screen[T], flags *inputFlags) error {
	blob, err := readResume(flags.resume)
	if err != nil {
		return err
	}
	if blob != nil {
		blob.MimeType = normalizeMIME(blob.MimeType)
		if err := screen.SelectFile(blob); err != nil {
			app.logger.Debug("resume rejected at selection", zap.String("mime", blob.MimeType))
			return err
		}
	}

	jd, err := readJobDescription(flags.jobDescription, flags.jobFile)
	if err != nil {
		return err
	}
	screen.SetJobDescription(jd)
	return nil
}

// streamLogs prints run log entries as they are appended, when verbose.
func streamLogs[T any](screen *workflow.Screen[T], printer *observability.Printer) {
	if !app.cfg.Verbose {
		return
	}
	printed := 0
	screen.Subscribe(func(s workflow.State) {
		entries := s.Entries()
		if len(entries) > printed {
			printer.PrintLogs(entries[printed:])
			printed = len(entries)
		}
	})
}

// settle turns the outcome of Start into a command error. A non-verbose text run prints the
// tail of its log, as a progress view would have shown it.
func settle[T any](screen *workflow.Screen[T], state workflow.State, err error, jsonOutput bool) error {
	switch st := state.(type) {
	case nil:
		return err
	case workflow.Idle:
		return errors.New(st.Notice)
	}

	if !app.cfg.Verbose && !jsonOutput {
		app.printer.PrintLogs(screen.Tail(observability.LogTail))
	}
	if failure, ok := state.(workflow.Failure); ok {
		return errors.New(failure.Message)
	}
	return err
}
