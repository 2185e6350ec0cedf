package validation

import (
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/spf13/cast"

	"github.com/jonathan/resume-analyzer/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// notblank is not part of the baked-in tag set.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Rule checks one field of a WorkflowInput. It returns nil when the field is acceptable.
type Rule func(in *types.WorkflowInput) *Error

// AnalysisRules are the rules gating a resume analysis run, in evaluation order.
var AnalysisRules = []Rule{RequirePDF, RequireJobDescription}

// QuestionRules are the rules gating a mock question run, in evaluation order.
var QuestionRules = []Rule{RequirePDF, RequireJobDescription, RequirePositiveExperience}

// Validate evaluates rules in order and returns the first failure.
func Validate(in *types.WorkflowInput, rules []Rule) error {
	for _, rule := range rules {
		if err := rule(in); err != nil {
			return err
		}
	}
	return nil
}

// Collect evaluates every rule and returns all failures.
func Collect(in *types.WorkflowInput, rules []Rule) []*Error {
	var errs []*Error
	for _, rule := range rules {
		if err := rule(in); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// CheckFile checks a file at selection time. A nil file is reported as a type error too.
func CheckFile(f *types.FileBlob) error {
	if f == nil {
		return newError(InvalidFileType, MsgNotPDF, nil)
	}
	if err := validate.Var(f.MimeType, "eq="+types.PDFMimeType); err != nil {
		return newError(InvalidFileType, MsgNotPDF, err)
	}
	return nil
}

// RequirePDF fails when no file is selected or the file is not a PDF.
func RequirePDF(in *types.WorkflowInput) *Error {
	if in == nil || in.PrimaryFile == nil {
		return newError(InvalidFileType, MsgMissingResume, nil)
	}
	if err := validate.Var(in.PrimaryFile.MimeType, "eq="+types.PDFMimeType); err != nil {
		return newError(InvalidFileType, MsgNotPDF, err)
	}
	return nil
}

// RequireJobDescription fails when the job description is blank after trimming.
func RequireJobDescription(in *types.WorkflowInput) *Error {
	jd := ""
	if in != nil {
		jd = in.JobDescription
	}
	if err := validate.Var(jd, "notblank"); err != nil {
		return newError(MissingJobDescription, MsgMissingJobDesc, err)
	}
	return nil
}

// RequirePositiveExperience fails unless years of experience parses as a finite number > 0.
func RequirePositiveExperience(in *types.WorkflowInput) *Error {
	raw := strings.TrimSpace(in.Aux(types.AuxYearsOfExperience))
	if err := validate.Var(raw, "required"); err != nil {
		return newError(InvalidExperienceValue, MsgInvalidExperience, err)
	}
	years, err := cast.ToFloat64E(raw)
	if err != nil {
		return newError(InvalidExperienceValue, MsgInvalidExperience, err)
	}
	if math.IsNaN(years) || math.IsInf(years, 0) || years <= 0 {
		return newError(InvalidExperienceValue, MsgInvalidExperience, nil)
	}
	return nil
}
