// Package observability renders workflow results, run logs and failures for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jonathan/resume-analyzer/internal/runlog"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// LogTail is how many run log lines the progress view shows
	LogTail = 5
)

// Printer handles formatted output for the CLI.
type Printer struct {
	out      io.Writer
	colorize bool
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, colorize: !color.NoColor}
}

// WithoutColor disables ANSI colors.
func (p *Printer) WithoutColor() *Printer {
	p.colorize = false
	return p
}

func (p *Printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// BandColor returns the display color of a score band.
func BandColor(band types.ScoreBand) color.Attribute {
	switch band {
	case types.BandStrong:
		return color.FgGreen
	case types.BandModerate:
		return color.FgYellow
	default:
		return color.FgRed
	}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, wrapped)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits a line on word boundaries so each piece fits width bytes.
func wrap(line string, width int) []string {
	if len(line) <= width {
		return []string{line}
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	var out []string
	cur := ""
	for _, word := range strings.Fields(line) {
		switch {
		case cur == "":
			cur = indent + word
		case len(cur)+1+len(word) <= width:
			cur += " " + word
		default:
			out = append(out, cur)
			cur = indent + "  " + word
		}
		for len(cur) > width {
			out = append(out, cur[:width])
			cur = cur[width:]
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

// writeList appends a titled bullet list, truncated to limit items.
func writeList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintScore outputs the match score line in its band color.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintScore(result *types.AnalysisResult) {
	if result == nil {
		return
	}
	band := result.Band()
	p.paint(BandColor(band), color.Bold).Fprintf(p.out, "Match Score: %g%% (%s)\n", result.MatchScore, band)
}

// PrintAnalysis outputs every section of an analysis result that is present.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	p.PrintScore(result)

	var sb strings.Builder
	if result.Summary != "" {
		sb.WriteString(result.Summary + "\n\n")
	}
	if r := result.RadarScores; r != nil {
		sb.WriteString(fmt.Sprintf("Content: %g  Format: %g  Style: %g  Sections: %g  Skills: %g\n\n",
			r.Content, r.Format, r.Style, r.Sections, r.Skills))
	}
	writeList(&sb, "Highlights", result.Highlights, maxItemsToShow)
	writeList(&sb, "Improvements", result.Improvements, maxItemsToShow)
	p.printBox("OVERVIEW", strings.TrimSuffix(sb.String(), "\n"))

	if len(result.MatchedKeywords) > 0 || len(result.MissingKeywords) > 0 {
		sb.Reset()
		if len(result.MatchedKeywords) > 0 {
			sb.WriteString("Matched: " + strings.Join(result.MatchedKeywords, ", ") + "\n")
		}
		if len(result.MissingKeywords) > 0 {
			sb.WriteString("Missing: " + strings.Join(result.MissingKeywords, ", ") + "\n")
		}
		p.printBox("KEYWORDS", strings.TrimSuffix(sb.String(), "\n"))
	}

	if len(result.SkillsComparison) > 0 {
		sb.Reset()
		sb.WriteString(fmt.Sprintf("%-28s %6s %6s  %s\n", "Skill", "JD", "Resume", "Status"))
		for _, s := range result.SkillsComparison {
			name := s.Skill
			if s.Required {
				name += " (Required)"
			}
			if len(name) > 28 {
				name = name[:25] + "..."
			}
			mark := "✗"
			if s.Matched() {
				mark = "✓"
			}
			sb.WriteString(fmt.Sprintf("%-28s %6d %6d  %s\n", name, s.JobDescriptionCount, s.ResumeCount, mark))
		}
		p.printBox("SKILLS COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
	}

	if m := result.ResponsibilityMatch; m != nil {
		sb.Reset()
		writeList(&sb, "Covered", m.GoodAreas, maxItemsToShow)
		writeList(&sb, "Missing", m.MissingAreas, maxItemsToShow)
		p.printBox("RESPONSIBILITY MATCH", strings.TrimSuffix(sb.String(), "\n\n"))
	}

	if g := result.GapAnalysis; g != nil {
		sb.Reset()
		for _, row := range [][2]string{
			{"Experience", g.Experience},
			{"Tech stack", g.TechStack},
			{"Domain knowledge", g.DomainKnowledge},
			{"Certifications", g.Certifications},
		} {
			if row[1] != "" {
				sb.WriteString(fmt.Sprintf("%s: %s\n", row[0], row[1]))
			}
		}
		p.printBox("GAP ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
	}

	if d := result.ExperienceDetails; d != nil {
		sb.Reset()
		years := "N/A"
		if d.TotalYears != nil {
			years = fmt.Sprintf("%g", *d.TotalYears)
		}
		sb.WriteString(fmt.Sprintf("Total years: %s\n", years))
		if d.CurrentRole != "" {
			sb.WriteString(fmt.Sprintf("Current role: %s\n", d.CurrentRole))
		}
		if d.IncludesInternships {
			sb.WriteString("Includes internships\n")
		}
		for _, pos := range d.Positions {
			line := fmt.Sprintf("  • %s at %s", pos.Title, pos.Company)
			if pos.IsCurrent {
				line += " (Current)"
			}
			sb.WriteString(line + "\n")
			if pos.Dates != "" || pos.Duration != "" {
				sb.WriteString(fmt.Sprintf("    %s %s\n", pos.Dates, pos.Duration))
			}
		}
		p.printBox("EXPERIENCE", strings.TrimSuffix(sb.String(), "\n"))
	}

	if sg := result.SpellingGrammar; sg != nil {
		sb.Reset()
		sb.WriteString(fmt.Sprintf("Total errors found: %d\n", sg.TotalErrors))
		for _, e := range sg.Errors {
			kind := "Grammar"
			if e.IsSpelling() {
				kind = "Spelling"
			}
			sb.WriteString(fmt.Sprintf("  • [%s] %s", kind, e.Word))
			if e.Correction != "" {
				sb.WriteString(" -> " + e.Correction)
			}
			sb.WriteString("\n")
		}
		p.printBox("SPELLING & GRAMMAR", strings.TrimSuffix(sb.String(), "\n"))
	}

	if len(result.RewrittenBulletPoints) > 0 {
		sb.Reset()
		writeList(&sb, "Suggested bullets", result.RewrittenBulletPoints, maxItemsToShow)
		p.printBox("REWRITTEN BULLET POINTS", strings.TrimSuffix(sb.String(), "\n\n"))
	}

	if result.FinalVerdict != "" {
		p.printBox("FINAL VERDICT", result.FinalVerdict)
	}
}

// PrintQuestions outputs a generated question set grouped by category and difficulty.
func (p *Printer) PrintQuestions(set *types.QuestionSet) {
	if set == nil {
		return
	}

	var sb strings.Builder
	if set.YearsOfExperience != nil {
		sb.WriteString(fmt.Sprintf("Candidate experience: %g years\n", *set.YearsOfExperience))
	}
	if set.CompanyName != "" {
		sb.WriteString(fmt.Sprintf("Company: %s\n", set.CompanyName))
	}
	sb.WriteString(fmt.Sprintf("Total questions: %d", set.Total()))
	p.printBox("MOCK INTERVIEW QUESTIONS", sb.String())

	p.printTiered("JOB DESCRIPTION BASED", set.JobDescriptionBased)
	p.printTiered("RESUME BASED", set.ResumeBased)

	if set.DSAAndSystemDesign.Count() > 0 {
		sb.Reset()
		writeList(&sb, "DSA", set.DSAAndSystemDesign.DSA, len(set.DSAAndSystemDesign.DSA))
		writeList(&sb, "System design", set.DSAAndSystemDesign.SystemDesign, len(set.DSAAndSystemDesign.SystemDesign))
		p.printBox("DSA & SYSTEM DESIGN", strings.TrimSuffix(sb.String(), "\n\n"))
	}
}

func (p *Printer) printTiered(title string, t types.TieredQuestions) {
	if t.Count() == 0 {
		return
	}
	var sb strings.Builder
	for _, tier := range []struct {
		name  string
		items []string
	}{{"Easy", t.Easy}, {"Medium", t.Medium}, {"Hard", t.Hard}} {
		writeList(&sb, fmt.Sprintf("%s (%d questions)", tier.name, len(tier.items)), tier.items, len(tier.items))
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintLogs outputs run log entries, one "[HH:MM:SS] message" line each.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintLogs(entries []runlog.Entry) {
	for _, line := range runlog.Lines(entries) {
		fmt.Fprintln(p.out, line)
	}
}

// PrintFailure outputs the user-facing failure message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFailure(message string) {
	p.paint(color.FgRed, color.Bold).Fprintf(p.out, "Error: %s\n", message)
}

// PrintNotice outputs an informational line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintNotice(message string) {
	p.paint(color.FgCyan).Fprintln(p.out, message)
}
