package types

// PDFMimeType is the only content type accepted for a resume upload.
const PDFMimeType = "application/pdf"

// Aux field keys used by the workflows.
const (
	AuxYearsOfExperience = "yearsOfExperience"
	AuxCompanyName       = "companyName"
)

// FileBlob is an in-memory binary upload.
type FileBlob struct {
	Name     string
	MimeType string
	Data     []byte
}

// WorkflowInput holds everything a user has entered on a workflow screen.
type WorkflowInput struct {
	PrimaryFile    *FileBlob
	JobDescription string
	AuxFields      map[string]string
}

// Aux returns the value of an aux field, or "" when unset.
func (in *WorkflowInput) Aux(key string) string {
	if in == nil || in.AuxFields == nil {
		return ""
	}
	return in.AuxFields[key]
}

// Clone returns a copy that shares the file bytes but not the aux map.
func (in WorkflowInput) Clone() WorkflowInput {
	out := in
	if in.AuxFields != nil {
		out.AuxFields = make(map[string]string, len(in.AuxFields))
		for k, v := range in.AuxFields {
			out.AuxFields[k] = v
		}
	}
	return out
}

// RawPayload is the undecoded `data` object of a service response.
type RawPayload map[string]any

// DerivedArtifactRequest is the body of POST api/generate-improved-resume.
type DerivedArtifactRequest struct {
	FileID                 string   `json:"fileId"`
	MissingKeywords        []string `json:"missingKeywords"`
	ImprovementSuggestions []string `json:"improvementSuggestions"`
	JobDescription         string   `json:"jobDescription"`
}
