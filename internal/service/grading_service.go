package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"quizcraft/internal/domain"
	"quizcraft/internal/dto"
	"quizcraft/internal/logger"
	"quizcraft/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Similarity thresholds for short-answer partial credit.
const (
	SimilarityFullCredit    = 0.8
	SimilarityPartialCredit = 0.6
)

const defaultFeedback = "Feedback is unavailable for this answer right now."
const defaultOverallFeedback = "Overall feedback is unavailable right now."

// GradingService grades a batch of free-text answers against their
// reference answers. Every submission yields a result; per-answer failures
// degrade to an incorrect verdict or default feedback, never to a request
// failure.
type GradingService interface {
	GradeAnswers(ctx context.Context, req *dto.CheckAnswersRequest) (*dto.CheckAnswersResponse, error)
}

type gradingService struct {
	embeddingService domain.EmbeddingService
	textGen          domain.TextGenerator
	concurrency      int
}

// NewGradingService creates a new GradingService. concurrency bounds the
// per-answer worker pool; values below 1 are treated as 1.
func NewGradingService(embeddingService domain.EmbeddingService, textGen domain.TextGenerator, concurrency int) GradingService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &gradingService{
		embeddingService: embeddingService,
		textGen:          textGen,
		concurrency:      concurrency,
	}
}

var (
	parentheticalRe      = regexp.MustCompile(`\s*\([^)]*\)`)
	trailingPunctSpaceRe = regexp.MustCompile(`[.,!?;:\s]+$`)
)

// Normalize canonicalizes an answer for comparison: lowercase, drop
// parenthetical asides, collapse whitespace runs and trim trailing
// sentence punctuation. Normalize is idempotent.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = parentheticalRe.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")
	text = trailingPunctSpaceRe.ReplaceAllString(text, "")
	return text
}

// GradeAnswers grades all submissions concurrently with a bounded worker
// pool, preserving submission order, then requests one aggregate feedback
// string for the batch.
func (s *gradingService) GradeAnswers(ctx context.Context, req *dto.CheckAnswersRequest) (*dto.CheckAnswersResponse, error) {
	graded := make([]domain.GradedAnswer, len(req.Answers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, submission := range req.Answers {
		g.Go(func() error {
			graded[i] = s.gradeOne(gctx, submission)
			return nil
		})
	}
	// Workers never return errors; per-answer failures degrade in place.
	_ = g.Wait()

	totalScore := 0.0
	for _, answer := range graded {
		totalScore += answer.Score
	}
	totalQuestions := len(graded)
	percentage := 0.0
	if totalQuestions > 0 {
		percentage = totalScore / float64(totalQuestions) * 100
	}

	return &dto.CheckAnswersResponse{
		Answers:         graded,
		TotalScore:      totalScore,
		TotalQuestions:  totalQuestions,
		Percentage:      percentage,
		OverallFeedback: s.overallFeedback(ctx, totalScore, totalQuestions, percentage),
	}, nil
}

// gradeOne grades a single submission. It never fails: embedding errors
// default the verdict to incorrect and feedback errors fall back to a
// static string.
func (s *gradingService) gradeOne(ctx context.Context, submission domain.AnswerSubmission) domain.GradedAnswer {
	l := logger.Get()

	userAnswer := strings.TrimSpace(submission.UserAnswer)
	correctAnswer := strings.TrimSpace(submission.CorrectAnswer)

	normalizedUser := Normalize(userAnswer)
	normalizedCorrect := Normalize(correctAnswer)

	verdict := domain.CorrectnessFalse
	var similarity *float64

	if normalizedUser != "" && normalizedUser == normalizedCorrect {
		verdict = domain.CorrectnessTrue
	} else if submission.Type == domain.QuestionTypeShortAnswer {
		sim, err := s.answerSimilarity(ctx, normalizedUser, normalizedCorrect)
		if err != nil {
			l.Warn("Similarity check failed, grading answer as incorrect",
				zap.Error(err),
				zap.String("question", submission.Question))
		} else {
			switch {
			case sim >= SimilarityFullCredit:
				verdict = domain.CorrectnessTrue
			case sim >= SimilarityPartialCredit:
				verdict = domain.CorrectnessPartial
				similarity = &sim
			default:
				verdict = domain.CorrectnessFalse
				similarity = &sim
			}
		}
	}

	return domain.GradedAnswer{
		Question:      submission.Question,
		UserAnswer:    userAnswer,
		CorrectAnswer: correctAnswer,
		IsCorrect:     verdict,
		Score:         verdict.Score(),
		Similarity:    similarity,
		Feedback:      s.answerFeedback(ctx, submission, userAnswer, correctAnswer, verdict),
	}
}

func (s *gradingService) answerSimilarity(ctx context.Context, normalizedUser, normalizedCorrect string) (float64, error) {
	if normalizedUser == "" || normalizedCorrect == "" {
		return 0, domain.NewEmbeddingError(fmt.Errorf("cannot embed empty answer text"))
	}
	vectors, err := s.embeddingService.GenerateBatch(ctx, []string{normalizedUser, normalizedCorrect})
	if err != nil {
		return 0, err
	}
	similarity, err := util.CosineSimilarity(vectors[0], vectors[1])
	if err != nil {
		return 0, domain.NewEmbeddingError(err)
	}
	return similarity, nil
}

func (s *gradingService) answerFeedback(ctx context.Context, submission domain.AnswerSubmission, userAnswer, correctAnswer string, verdict domain.Correctness) string {
	verdictText := "incorrect"
	switch verdict {
	case domain.CorrectnessTrue:
		verdictText = "correct"
	case domain.CorrectnessPartial:
		verdictText = "partially correct"
	}

	prompt := fmt.Sprintf(`Provide brief feedback on the following question and answer:

Question: %s
Student's answer: %s
Correct answer: %s
Verdict: %s

Give 1-2 sentences of specific feedback that would help the student.`,
		submission.Question, userAnswer, correctAnswer, verdictText)

	feedback, err := s.textGen.GenerateText(ctx, prompt)
	if err != nil {
		logger.Get().Warn("Per-answer feedback call failed, using default feedback",
			zap.Error(err),
			zap.String("question", submission.Question))
		return defaultFeedback
	}
	return strings.TrimSpace(feedback)
}

func (s *gradingService) overallFeedback(ctx context.Context, totalScore float64, totalQuestions int, percentage float64) string {
	prompt := fmt.Sprintf(`The student scored %.1f out of %d questions (accuracy: %.1f%%).

Provide 2-3 sentences of educational, encouraging feedback on the student's overall understanding and what to improve.`,
		totalScore, totalQuestions, percentage)

	feedback, err := s.textGen.GenerateText(ctx, prompt)
	if err != nil {
		logger.Get().Warn("Overall feedback call failed, using default feedback", zap.Error(err))
		return defaultOverallFeedback
	}
	return strings.TrimSpace(feedback)
}
