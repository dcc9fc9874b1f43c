package validation

import (
	"strings"

	"quizcraft/internal/domain"
	"quizcraft/internal/dto"
)

// Request bounds; generation cost scales with both values.
const (
	MaxContentLength = 100000
	MinNumQuestions  = 1
	MaxNumQuestions  = 20
	MaxBatchAnswers  = 100
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateRequest validates the question generation request.
func (v *Validator) ValidateGenerateRequest(req *dto.GenerateQuestionsRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Content) == "" {
		errors = append(errors, domain.NewMissingFieldError("content"))
	} else if len(req.Content) > MaxContentLength {
		errors = append(errors, domain.NewOutOfRangeError("content", len(req.Content), 1, MaxContentLength))
	}

	if req.NumQuestions < MinNumQuestions || req.NumQuestions > MaxNumQuestions {
		errors = append(errors, domain.NewOutOfRangeError("num_questions", req.NumQuestions, MinNumQuestions, MaxNumQuestions))
	}

	// An empty list is allowed; the service applies the default types.
	for _, questionType := range req.QuestionTypes {
		if !domain.QuestionType(questionType).IsValid() {
			errors = append(errors, domain.NewInvalidFormatError("question_types", questionType))
		}
	}

	return errors
}

// ValidateCheckAnswersRequest validates the answer grading request.
func (v *Validator) ValidateCheckAnswersRequest(req *dto.CheckAnswersRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(req.Answers) == 0 {
		errors = append(errors, domain.NewMissingFieldError("answers"))
		return errors
	}
	if len(req.Answers) > MaxBatchAnswers {
		errors = append(errors, domain.NewOutOfRangeError("answers", len(req.Answers), 1, MaxBatchAnswers))
		return errors
	}

	for _, answer := range req.Answers {
		if strings.TrimSpace(answer.Question) == "" {
			errors = append(errors, domain.NewMissingFieldError("answers.question"))
		}
		if strings.TrimSpace(answer.CorrectAnswer) == "" {
			errors = append(errors, domain.NewMissingFieldError("answers.correct_answer"))
		}
		if answer.Type != "" && !answer.Type.IsValid() {
			errors = append(errors, domain.NewInvalidFormatError("answers.question_type", string(answer.Type)))
		}
	}

	return errors
}
