package schemas

import (
	"embed"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed envelopes/*.schema.json
var envelopeFS embed.FS

// Schema is an embedded JSON Schema compiled on first use.
type Schema struct {
	Name string
	path string

	once     sync.Once
	compiled *gojsonschema.Schema
	err      error
}

// Response envelopes of the analysis service.
var (
	AnalysisEnvelope  = &Schema{Name: "analysis", path: "envelopes/analysis.schema.json"}
	QuestionsEnvelope = &Schema{Name: "questions", path: "envelopes/questions.schema.json"}
	TokenEnvelope     = &Schema{Name: "token", path: "envelopes/token.schema.json"}
)

func (s *Schema) compile() (*gojsonschema.Schema, error) {
	s.once.Do(func() {
		content, err := envelopeFS.ReadFile(s.path)
		if err != nil {
			s.err = &SchemaLoadError{Name: s.Name, Message: "embedded schema missing", Cause: err}
			return
		}
		s.compiled, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
		if err != nil {
			s.err = &SchemaLoadError{Name: s.Name, Message: "invalid schema", Cause: err}
		}
	})
	return s.compiled, s.err
}
