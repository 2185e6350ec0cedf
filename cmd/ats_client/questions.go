package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/workflow"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate mock interview questions",
	Long:  "Upload a resume PDF and a job description, then generate mock interview questions grouped by difficulty, plus DSA and system design questions.",
	RunE:  runQuestions,
}

var (
	questionsInput   inputFlags
	questionsYears   string
	questionsCompany string
)

func init() {
	questionsCmd.Flags().StringVarP(&questionsInput.resume, "resume", "r", "", "Path to resume PDF (required)")
	questionsCmd.Flags().StringVarP(&questionsInput.jobDescription, "job-description", "j", "", "Job description text")
	questionsCmd.Flags().StringVar(&questionsInput.jobFile, "job-file", "", "Path to a file containing the job description")
	questionsCmd.Flags().BoolVar(&questionsInput.jsonOutput, "json", false, "Print the canonical result as JSON")
	questionsCmd.Flags().StringVarP(&questionsYears, "years", "y", "", "Years of experience (required, greater than 0)")
	questionsCmd.Flags().StringVar(&questionsCompany, "company", "", "Company name, used to pick company-specific questions")

	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}

	screen := workflow.NewQuestionsScreen(app.client, workflow.WithLogger(app.logger))
	if err := fillScreen(screen, &questionsInput); err != nil {
		return err
	}
	screen.SetAuxField(types.AuxYearsOfExperience, questionsYears)
	screen.SetAuxField(types.AuxCompanyName, questionsCompany)
	streamLogs(screen, app.printer)

	state, err := screen.Start(context.Background(), sess)
	if err := settle(screen, state, err, questionsInput.jsonOutput); err != nil {
		return err
	}

	set, _ := screen.Result()
	if questionsInput.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(set); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}
	app.printer.PrintQuestions(set)
	return nil
}
