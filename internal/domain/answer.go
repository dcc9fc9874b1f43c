package domain

// Correctness is the 3-valued grading verdict.
type Correctness string

const (
	CorrectnessTrue    Correctness = "true"
	CorrectnessPartial Correctness = "partial"
	CorrectnessFalse   Correctness = "false"
)

// Score maps a verdict onto its point value.
func (c Correctness) Score() float64 {
	switch c {
	case CorrectnessTrue:
		return 1.0
	case CorrectnessPartial:
		return 0.5
	default:
		return 0.0
	}
}

// AnswerSubmission is one caller-supplied answer to grade. Immutable.
type AnswerSubmission struct {
	Question      string       `json:"question"`
	UserAnswer    string       `json:"user_answer"`
	CorrectAnswer string       `json:"correct_answer"`
	Type          QuestionType `json:"question_type"`
}

// GradedAnswer is the grading verdict for one submission. Similarity is
// attached only when a short answer was not an exact match.
type GradedAnswer struct {
	Question      string       `json:"question"`
	UserAnswer    string       `json:"user_answer"`
	CorrectAnswer string       `json:"correct_answer"`
	IsCorrect     Correctness  `json:"is_correct"`
	Score         float64      `json:"score"`
	Similarity    *float64     `json:"similarity,omitempty"`
	Feedback      string       `json:"feedback"`
}
