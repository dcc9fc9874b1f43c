package validation

import (
	"strings"
	"testing"

	"quizcraft/internal/domain"
	"quizcraft/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGenerateRequest(t *testing.T) {
	v := NewValidator()

	t.Run("valid request", func(t *testing.T) {
		errs := v.ValidateGenerateRequest(&dto.GenerateQuestionsRequest{
			Content:       "Some source material about Go.",
			NumQuestions:  5,
			QuestionTypes: []string{"multiple_choice", "short_answer"},
		})
		assert.Empty(t, errs)
	})

	t.Run("empty question types is allowed", func(t *testing.T) {
		errs := v.ValidateGenerateRequest(&dto.GenerateQuestionsRequest{
			Content:      "Some source material.",
			NumQuestions: 3,
		})
		assert.Empty(t, errs)
	})

	t.Run("missing content", func(t *testing.T) {
		errs := v.ValidateGenerateRequest(&dto.GenerateQuestionsRequest{
			Content:      "   ",
			NumQuestions: 3,
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "content", errs[0].Field)
		assert.Equal(t, domain.CodeMissingField, errs[0].Code)
	})

	t.Run("content too long", func(t *testing.T) {
		errs := v.ValidateGenerateRequest(&dto.GenerateQuestionsRequest{
			Content:      strings.Repeat("a", MaxContentLength+1),
			NumQuestions: 3,
		})
		require.Len(t, errs, 1)
		assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)
	})

	t.Run("num questions out of range", func(t *testing.T) {
		for _, n := range []int{0, -1, MaxNumQuestions + 1} {
			errs := v.ValidateGenerateRequest(&dto.GenerateQuestionsRequest{
				Content:      "material",
				NumQuestions: n,
			})
			require.Len(t, errs, 1, "num_questions=%d", n)
			assert.Equal(t, "num_questions", errs[0].Field)
		}
	})

	t.Run("unknown question type", func(t *testing.T) {
		errs := v.ValidateGenerateRequest(&dto.GenerateQuestionsRequest{
			Content:       "material",
			NumQuestions:  3,
			QuestionTypes: []string{"multiple_choice", "essay"},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "question_types", errs[0].Field)
		assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
	})

	t.Run("multiple violations accumulate", func(t *testing.T) {
		errs := v.ValidateGenerateRequest(&dto.GenerateQuestionsRequest{})
		assert.Len(t, errs, 2)
	})
}

func TestValidateCheckAnswersRequest(t *testing.T) {
	v := NewValidator()

	valid := domain.AnswerSubmission{
		Question:      "What is the capital of France?",
		UserAnswer:    "Paris",
		CorrectAnswer: "Paris",
		Type:          domain.QuestionTypeShortAnswer,
	}

	t.Run("valid request", func(t *testing.T) {
		errs := v.ValidateCheckAnswersRequest(&dto.CheckAnswersRequest{
			Answers: []domain.AnswerSubmission{valid},
		})
		assert.Empty(t, errs)
	})

	t.Run("empty user answer is allowed", func(t *testing.T) {
		answer := valid
		answer.UserAnswer = ""
		errs := v.ValidateCheckAnswersRequest(&dto.CheckAnswersRequest{
			Answers: []domain.AnswerSubmission{answer},
		})
		assert.Empty(t, errs)
	})

	t.Run("missing type is allowed", func(t *testing.T) {
		answer := valid
		answer.Type = ""
		errs := v.ValidateCheckAnswersRequest(&dto.CheckAnswersRequest{
			Answers: []domain.AnswerSubmission{answer},
		})
		assert.Empty(t, errs)
	})

	t.Run("empty batch", func(t *testing.T) {
		errs := v.ValidateCheckAnswersRequest(&dto.CheckAnswersRequest{})
		require.Len(t, errs, 1)
		assert.Equal(t, "answers", errs[0].Field)
	})

	t.Run("batch too large", func(t *testing.T) {
		answers := make([]domain.AnswerSubmission, MaxBatchAnswers+1)
		for i := range answers {
			answers[i] = valid
		}
		errs := v.ValidateCheckAnswersRequest(&dto.CheckAnswersRequest{Answers: answers})
		require.Len(t, errs, 1)
		assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)
	})

	t.Run("missing question and correct answer", func(t *testing.T) {
		errs := v.ValidateCheckAnswersRequest(&dto.CheckAnswersRequest{
			Answers: []domain.AnswerSubmission{{UserAnswer: "Paris"}},
		})
		assert.Len(t, errs, 2)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		answer := valid
		answer.Type = "essay"
		errs := v.ValidateCheckAnswersRequest(&dto.CheckAnswersRequest{
			Answers: []domain.AnswerSubmission{answer},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "answers.question_type", errs[0].Field)
	})
}
