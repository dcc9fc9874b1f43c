package dto

import "quizcraft/internal/domain"

// GenerateQuestionsRequest is the request body for question generation.
// @Description Request body for generating quiz questions from a document
type GenerateQuestionsRequest struct {
	Content       string   `json:"content"`
	NumQuestions  int      `json:"num_questions"`
	QuestionTypes []string `json:"question_types"`
}

// RejectedQuestion summarizes why a generated candidate was dropped.
// Stage is one of "schema", "verification", "verifier_error".
type RejectedQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Stage    string `json:"stage"`
	Reason   string `json:"reason"`
}

// GenerateQuestionsResponse carries the accepted questions together with a
// summary of the dropped candidates.
type GenerateQuestionsResponse struct {
	Questions []*domain.Question `json:"questions"`
	Rejected  []RejectedQuestion `json:"rejected,omitempty"`
}

// CheckAnswersRequest is the request body for answer grading.
// @Description Request body for grading a batch of answers
type CheckAnswersRequest struct {
	Answers []domain.AnswerSubmission `json:"answers"`
}

// CheckAnswersResponse is the grading result for a whole batch.
type CheckAnswersResponse struct {
	Answers         []domain.GradedAnswer `json:"answers"`
	TotalScore      float64               `json:"total_score"`
	TotalQuestions  int                   `json:"total_questions"`
	Percentage      float64               `json:"percentage"`
	OverallFeedback string                `json:"overall_feedback"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
