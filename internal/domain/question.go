package domain

import "fmt"

// QuestionType identifies the answer format of a generated question.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
)

// IsValid reports whether t is one of the supported question types.
func (t QuestionType) IsValid() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeShortAnswer
}

// MultipleChoiceOptionCount is the number of options a multiple-choice
// question must carry to be accepted.
const MultipleChoiceOptionCount = 4

// Question is a single generated quiz question. The Verification field is
// attached exactly once by the verifier; the value is never mutated after
// acceptance.
type Question struct {
	ID            string              `json:"id"`
	Question      string              `json:"question"`
	Options       []string            `json:"options,omitempty"`
	CorrectAnswer string              `json:"correct_answer"`
	Explanation   string              `json:"explanation"`
	Type          QuestionType        `json:"question_type"`
	Verification  *VerificationResult `json:"verification,omitempty"`
}

// Validate checks the structural shape of a parsed question before any
// verification spend. Multiple-choice questions must carry exactly four
// options and the correct answer must be one of them.
func (q *Question) Validate() error {
	if q.Question == "" {
		return NewInvalidInputError("question text cannot be empty")
	}
	if q.CorrectAnswer == "" {
		return NewInvalidInputError("correct_answer cannot be empty")
	}
	if !q.Type.IsValid() {
		return NewInvalidInputError(fmt.Sprintf("unknown question_type: %s", q.Type))
	}
	if q.Type == QuestionTypeMultipleChoice {
		if len(q.Options) != MultipleChoiceOptionCount {
			return NewInvalidInputError(fmt.Sprintf(
				"multiple_choice question must have exactly %d options, got %d",
				MultipleChoiceOptionCount, len(q.Options)))
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return NewInvalidInputError("correct_answer is not among the options")
		}
	}
	return nil
}

// ContextChunk is a bounded contiguous slice of a document used as a
// retrieval unit, together with its relevance to the ranking query.
type ContextChunk struct {
	Text      string  `json:"text"`
	Relevance float64 `json:"relevance"`
}
