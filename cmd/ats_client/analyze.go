package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/workflow"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job description",
	Long:  "Upload a resume PDF and a job description, then show the ATS match score and the full analysis. With --improve, a resume scoring below 70 is rewritten and saved as a PDF.",
	RunE:  runAnalyze,
}

var (
	analyzeInput   inputFlags
	analyzeImprove bool
	analyzeOut     string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput.resume, "resume", "r", "", "Path to resume PDF (required)")
	analyzeCmd.Flags().StringVarP(&analyzeInput.jobDescription, "job-description", "j", "", "Job description text")
	analyzeCmd.Flags().StringVar(&analyzeInput.jobFile, "job-file", "", "Path to a file containing the job description")
	analyzeCmd.Flags().BoolVar(&analyzeInput.jsonOutput, "json", false, "Print the canonical result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeImprove, "improve", false, "Generate an improved resume when the score is below 70")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Where to save the improved resume (default <output_dir>/"+workflow.ImprovedResumeFile+")")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}

	screen := workflow.NewAnalysisScreen(app.client, workflow.WithLogger(app.logger))
	if err := fillScreen(screen, &analyzeInput); err != nil {
		return err
	}
	streamLogs(screen, app.printer)

	ctx := context.Background()
	state, err := screen.Start(ctx, sess)
	if err := settle(screen, state, err, analyzeInput.jsonOutput); err != nil {
		return err
	}

	result, _ := screen.Result()
	if analyzeInput.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		app.printer.PrintAnalysis(result)
	}

	if !analyzeImprove {
		return nil
	}
	return improveResume(ctx, screen, result)
}

func improveResume(ctx context.Context, screen *workflow.AnalysisScreen, result *types.AnalysisResult) error {
	if !result.NeedsImprovement() {
		app.printer.PrintNotice(fmt.Sprintf("Score %g is at or above %d, no improved resume needed", result.MatchScore, types.ImprovementThreshold))
		return nil
	}

	out := analyzeOut
	if out == "" {
		out = filepath.Join(app.cfg.OutputDir, workflow.ImprovedResumeFile)
	}

	action := workflow.NewImproveAction(screen, app.client, func(_ string, data []byte) error {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write improved resume: %w", err)
		}
		return nil
	}, app.logger)

	sess, err := requireSession()
	if err != nil {
		return err
	}

	app.printer.PrintNotice("Generating improved resume...")
	if _, err := action.Run(ctx, sess); err != nil {
		app.logger.Debug("improve action failed", zap.Error(err))
		return errors.New(workflow.UserMessage(err))
	}
	app.printer.PrintNotice(fmt.Sprintf("Improved resume saved to %s", out))
	return nil
}
