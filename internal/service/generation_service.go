package service

import (
	"context"
	"fmt"
	"strings"

	"quizcraft/internal/domain"
	"quizcraft/internal/dto"
	"quizcraft/internal/logger"
	"quizcraft/internal/parser"
	"quizcraft/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Drop stages surfaced in the generation response.
const (
	StageSchema        = "schema"
	StageVerification  = "verification"
	StageVerifierError = "verifier_error"
)

// GenerationService turns a source document into verified quiz questions.
type GenerationService interface {
	GenerateQuestions(ctx context.Context, req *dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error)
}

type generationService struct {
	textGen     domain.TextGenerator
	verifier    Verifier
	concurrency int
}

// NewGenerationService creates a new GenerationService. concurrency bounds
// the verification worker pool; values below 1 are treated as 1.
func NewGenerationService(textGen domain.TextGenerator, verifier Verifier, concurrency int) GenerationService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &generationService{
		textGen:     textGen,
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// questionsEnvelope is the JSON document the generation prompt asks for.
type questionsEnvelope struct {
	Questions []*domain.Question `json:"questions"`
}

// GenerateQuestions issues one generation call, retries the parse exactly
// once with a stricter reformatting prompt, then verifies every candidate
// independently. Only questions with a valid verdict are returned; dropped
// candidates are summarized in the response.
func (s *generationService) GenerateQuestions(ctx context.Context, req *dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error) {
	l := logger.Get()

	questionTypes := req.QuestionTypes
	if len(questionTypes) == 0 {
		questionTypes = []string{
			string(domain.QuestionTypeMultipleChoice),
			string(domain.QuestionTypeShortAnswer),
		}
	}

	rawResponse, err := s.textGen.GenerateText(ctx, buildGenerationPrompt(req.Content, req.NumQuestions, questionTypes))
	if err != nil {
		return nil, err
	}

	var envelope questionsEnvelope
	if parseErr := parser.Parse(rawResponse, &envelope); parseErr != nil {
		l.Warn("Generation response could not be parsed, issuing one reformatting retry",
			zap.Error(parseErr))

		// Exactly one retry with a stricter format-only prompt. The system
		// commits to at most two model calls per generation request.
		retryResponse, retryErr := s.textGen.GenerateText(ctx, buildRetryPrompt())
		if retryErr != nil {
			return nil, domain.NewGenerationFailedError(retryErr)
		}
		if parseErr = parser.Parse(retryResponse, &envelope); parseErr != nil {
			return nil, domain.NewGenerationFailedError(parseErr)
		}
	}

	accepted, rejected := s.verifyAll(ctx, envelope.Questions, req.Content)

	l.Info("Question generation finished",
		zap.Int("candidates", len(envelope.Questions)),
		zap.Int("accepted", len(accepted)),
		zap.Int("rejected", len(rejected)))

	return &dto.GenerateQuestionsResponse{
		Questions: accepted,
		Rejected:  rejected,
	}, nil
}

// verifyAll runs schema validation and verification for every candidate.
// Candidates have no data dependency on each other, so verification uses a
// bounded worker pool. Output order follows candidate order.
func (s *generationService) verifyAll(ctx context.Context, candidates []*domain.Question, content string) ([]*domain.Question, []dto.RejectedQuestion) {
	outcomes := make([]domain.VerificationOutcome, len(candidates))

	var rejected []dto.RejectedQuestion

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, candidate := range candidates {
		candidate.ID = util.NewULID()

		if err := candidate.Validate(); err != nil {
			rejected = append(rejected, dto.RejectedQuestion{
				ID:       candidate.ID,
				Question: candidate.Question,
				Stage:    StageSchema,
				Reason:   err.Error(),
			})
			continue
		}

		g.Go(func() error {
			outcomes[i] = s.verifier.Verify(gctx, candidate, content)
			return nil
		})
	}

	// Workers never return errors; verification faults are outcome values.
	_ = g.Wait()

	var accepted []*domain.Question
	for i, candidate := range candidates {
		outcome := outcomes[i]
		switch outcome.Status {
		case domain.OutcomeAccepted:
			candidate.Verification = outcome.Result
			accepted = append(accepted, candidate)
		case domain.OutcomeRejected:
			rejected = append(rejected, dto.RejectedQuestion{
				ID:       candidate.ID,
				Question: candidate.Question,
				Stage:    StageVerification,
				Reason:   outcome.Reason,
			})
		case domain.OutcomeError:
			rejected = append(rejected, dto.RejectedQuestion{
				ID:       candidate.ID,
				Question: candidate.Question,
				Stage:    StageVerifierError,
				Reason:   outcome.Reason,
			})
		}
	}
	return accepted, rejected
}

const questionsJSONFormat = `{
    "questions": [
        {
            "question": "the question text",
            "options": ["option 1", "option 2", "option 3", "option 4"],
            "correct_answer": "the correct answer",
            "explanation": "explanation of the correct answer",
            "question_type": "multiple_choice or short_answer"
        }
    ]
}`

func buildGenerationPrompt(content string, numQuestions int, questionTypes []string) string {
	return fmt.Sprintf(`Generate %d quiz questions based on the following text.

[TEXT]
%s

Question types: %s

Return every question in the following JSON format:
%s

Requirements:
1. Create complex and challenging questions.
2. Every question must be clearly grounded in the provided text.
3. Multiple-choice questions must have exactly 4 options.
4. Short-answer questions must be answerable with a short answer (1-3 words).
5. Explanations of correct answers must be detailed and educational.

Return ONLY JSON in the format shown above. Do not include any other explanation or text.`,
		numQuestions, content, strings.Join(questionTypes, ", "), questionsJSONFormat)
}

func buildRetryPrompt() string {
	return fmt.Sprintf(`The previous response could not be parsed. Respond with ONLY valid JSON in the following format:

%s

Follow the format above exactly. Return pure JSON with no other text and no markdown code fences.`,
		questionsJSONFormat)
}
