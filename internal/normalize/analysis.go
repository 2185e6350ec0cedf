// Package normalize turns raw service payloads into canonical results. Every function here is
// pure: the same payload always yields the same result.
package normalize

import (
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Analysis resolves an analyze-resume `data` object into an AnalysisResult.
// The score is passed through unclamped.
func Analysis(raw types.RawPayload) (*types.AnalysisResult, error) {
	root := object(raw)

	score, ok := resolveNum(root, matchScoreSources)
	if !ok {
		return nil, &Error{Field: "matchScore", Message: MsgNoScore}
	}

	result := &types.AnalysisResult{
		MatchScore:             score,
		Summary:                resolveStr(root, summarySources),
		Improvements:           resolveStrs(root, improvementsSources),
		MatchedKeywords:        root.strs("matchedKeywords"),
		MissingKeywords:        root.strs("missingKeywords"),
		ImprovementSuggestions: root.strs("improvementSuggestions"),
		RewrittenBulletPoints:  root.strs("rewrittenBulletPoints"),
		SkillsComparison:       skillsComparison(root),
		ResponsibilityMatch:    responsibilityMatch(root),
		GapAnalysis:            gapAnalysis(root),
		ExperienceDetails:      experienceDetails(root),
		SpellingGrammar:        spellingGrammar(root),
	}
	result.FileID, _ = root.str("fileId")
	result.FinalVerdict, _ = root.str("finalVerdict")

	if overview, ok := root.obj("overview"); ok {
		result.Highlights = overview.strs("highlights")
		result.RadarScores = radarScores(overview)
	}

	return result, nil
}

func radarScores(overview object) *types.RadarScores {
	o, ok := overview.obj("radarScores")
	if !ok {
		return nil
	}
	// missing dimensions plot as zero
	r := &types.RadarScores{}
	r.Content, _ = o.num("content")
	r.Format, _ = o.num("format")
	r.Style, _ = o.num("style")
	r.Sections, _ = o.num("sections")
	r.Skills, _ = o.num("skills")
	return r
}

func skillsComparison(root object) []types.SkillComparison {
	rows := root.objs("skillsComparison")
	if len(rows) == 0 {
		return nil
	}
	out := make([]types.SkillComparison, 0, len(rows))
	for _, row := range rows {
		skill, _ := row.str("skill")
		status, _ := row.str("status")
		out = append(out, types.SkillComparison{
			Skill:               skill,
			Status:              status,
			Required:            row.boolean("required"),
			ResumeCount:         row.integer("resumeCount"),
			JobDescriptionCount: row.integer("jobDescriptionCount"),
		})
	}
	return out
}

func responsibilityMatch(root object) *types.ResponsibilityMatch {
	o, ok := root.obj("responsibilityMatch")
	if !ok {
		return nil
	}
	m := &types.ResponsibilityMatch{
		GoodAreas:    o.strs("goodAreas"),
		MissingAreas: o.strs("missingAreas"),
	}
	if len(m.GoodAreas) == 0 && len(m.MissingAreas) == 0 {
		return nil
	}
	return m
}

func gapAnalysis(root object) *types.GapAnalysis {
	o, ok := root.obj("gapAnalysis")
	if !ok {
		return nil
	}
	g := &types.GapAnalysis{}
	g.Experience, _ = o.str("experience")
	g.TechStack, _ = o.str("techStack")
	g.DomainKnowledge, _ = o.str("domainKnowledge")
	g.Certifications, _ = o.str("certifications")
	if *g == (types.GapAnalysis{}) {
		return nil
	}
	return g
}

func experienceDetails(root object) *types.ExperienceDetails {
	o, ok := root.obj("experienceDetails")
	if !ok {
		return nil
	}
	d := &types.ExperienceDetails{IncludesInternships: o.boolean("includesInternships")}
	if years, ok := o.num("totalYears"); ok {
		d.TotalYears = &years
	}
	d.CurrentRole, _ = o.str("currentRole")
	for _, p := range o.objs("positions") {
		pos := types.Position{IsCurrent: p.boolean("isCurrent")}
		pos.Title, _ = p.str("title")
		pos.Company, _ = p.str("company")
		pos.Dates, _ = p.str("dates")
		pos.Duration, _ = p.str("duration")
		d.Positions = append(d.Positions, pos)
	}
	return d
}

func spellingGrammar(root object) *types.SpellingGrammar {
	o, ok := root.obj("spellingGrammar")
	if !ok {
		return nil
	}
	sg := &types.SpellingGrammar{TotalErrors: o.integer("totalErrors")}
	for _, e := range o.objs("errors") {
		f := types.LanguageFinding{}
		f.Type, _ = e.str("type")
		f.Word, _ = e.str("word")
		f.Correction, _ = e.str("correction")
		f.Context, _ = e.str("context")
		sg.Errors = append(sg.Errors, f)
	}
	return sg
}
