package normalize

// Messages of normalizer failures.
const (
	MsgNoScore     = "No match score in response"
	MsgNoQuestions = "No questions in response"
)

// Error means a 2xx payload lacked something the canonical result requires.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
