package service

import (
	"context"
	"fmt"
	"strings"

	"quizcraft/internal/config"
	"quizcraft/internal/domain"
	"quizcraft/internal/logger"
	"quizcraft/internal/parser"
	"quizcraft/internal/util"

	"go.uber.org/zap"
)

// Verifier renders an accept/reject verdict for a single generated
// question against its source document.
type Verifier interface {
	Verify(ctx context.Context, question *domain.Question, docContext string) domain.VerificationOutcome
}

// questionVerifier fuses an embedding-similarity signal with a second
// model's structured judgment. A failure of the verifier itself never
// propagates; it is converted into an Error outcome so that the
// surrounding batch keeps running.
type questionVerifier struct {
	embeddingService domain.EmbeddingService
	textGen          domain.TextGenerator
	chunker          *Chunker
	cfg              config.VerificationConfig
}

// NewVerifier creates a new question verifier.
func NewVerifier(
	embeddingService domain.EmbeddingService,
	textGen domain.TextGenerator,
	chunker *Chunker,
	cfg config.VerificationConfig,
) Verifier {
	return &questionVerifier{
		embeddingService: embeddingService,
		textGen:          textGen,
		chunker:          chunker,
		cfg:              cfg,
	}
}

// judgmentResponse is the JSON schema the judgment call must return.
type judgmentResponse struct {
	HallucinationCheck  domain.HallucinationCheck  `json:"hallucination_check"`
	QualityCheck        domain.QualityCheck        `json:"quality_check"`
	SemanticConsistency domain.SemanticConsistency `json:"semantic_consistency"`
}

func (v *questionVerifier) Verify(ctx context.Context, question *domain.Question, docContext string) (outcome domain.VerificationOutcome) {
	l := logger.Get()

	defer func() {
		if r := recover(); r != nil {
			l.Error("Panic during question verification",
				zap.Any("panic", r),
				zap.String("question_id", question.ID))
			outcome = errorOutcome(fmt.Sprintf("verifier panic: %v", r))
		}
	}()

	condensed := v.condenseContext(ctx, question, docContext)

	embSim, err := v.embeddingSignal(ctx, condensed, question)
	if err != nil {
		l.Warn("Embedding signal failed during verification",
			zap.Error(err),
			zap.String("question_id", question.ID))
		return errorOutcome(err.Error())
	}

	rawJudgment, err := v.textGen.GenerateText(ctx, buildVerificationPrompt(condensed, question))
	if err != nil {
		l.Warn("Judgment call failed during verification",
			zap.Error(err),
			zap.String("question_id", question.ID))
		return errorOutcome(err.Error())
	}

	var judgment judgmentResponse
	if parseErr := parser.Parse(rawJudgment, &judgment); parseErr != nil {
		// Degraded path: the question is scored on the embedding signal
		// alone instead of being rejected outright.
		l.Warn("Judgment response could not be parsed, falling back to embedding signal",
			zap.Error(parseErr),
			zap.String("question_id", question.ID))

		result := &domain.VerificationResult{
			EmbeddingSimilarity: embSim,
			TotalScore:          embSim.Average,
			IsValid:             embSim.Average >= domain.ValidityThreshold,
			Error:               "judgment response could not be parsed; scored on embedding signal only",
		}
		return verdictOutcome(result)
	}

	total := domain.FuseScores(judgment.HallucinationCheck, judgment.QualityCheck, judgment.SemanticConsistency)
	result := &domain.VerificationResult{
		EmbeddingSimilarity: embSim,
		HallucinationCheck:  &judgment.HallucinationCheck,
		QualityCheck:        &judgment.QualityCheck,
		SemanticConsistency: &judgment.SemanticConsistency,
		TotalScore:          total,
		IsValid:             total >= domain.ValidityThreshold,
	}
	return verdictOutcome(result)
}

// condenseContext reduces long documents to the chunks most relevant to
// the question before scoring. Retrieval failures fall back to the full
// document rather than failing verification.
func (v *questionVerifier) condenseContext(ctx context.Context, question *domain.Question, docContext string) string {
	if v.chunker == nil || v.cfg.LongDocumentWords <= 0 {
		return docContext
	}
	if len(strings.Fields(docContext)) <= v.cfg.LongDocumentWords {
		return docContext
	}

	chunks, err := v.chunker.ExtractRelevantContext(ctx, question.Question, docContext, v.cfg.ChunkSizeWords, v.cfg.TopKChunks)
	if err != nil || len(chunks) == 0 {
		logger.Get().Warn("Context condensation failed, using full document",
			zap.Error(err),
			zap.String("question_id", question.ID))
		return docContext
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	return strings.Join(texts, "\n\n")
}

// embeddingSignal computes the cosine similarity between the context and
// each question component in one batched embedding call. The average is
// 2-way when the explanation is empty, else 3-way.
func (v *questionVerifier) embeddingSignal(ctx context.Context, docContext string, question *domain.Question) (*domain.EmbeddingSimilarity, error) {
	texts := []string{docContext, question.Question, question.CorrectAnswer}
	hasExplanation := strings.TrimSpace(question.Explanation) != ""
	if hasExplanation {
		texts = append(texts, question.Explanation)
	}

	vectors, err := v.embeddingService.GenerateBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	contextVector := vectors[0]

	qSim, err := util.CosineSimilarity(contextVector, vectors[1])
	if err != nil {
		return nil, domain.NewEmbeddingError(err)
	}
	aSim, err := util.CosineSimilarity(contextVector, vectors[2])
	if err != nil {
		return nil, domain.NewEmbeddingError(err)
	}

	sim := &domain.EmbeddingSimilarity{Question: qSim, Answer: aSim}
	if hasExplanation {
		eSim, err := util.CosineSimilarity(contextVector, vectors[3])
		if err != nil {
			return nil, domain.NewEmbeddingError(err)
		}
		sim.Explanation = eSim
		sim.Average = (qSim + aSim + eSim) / 3
	} else {
		sim.Average = (qSim + aSim) / 2
	}
	return sim, nil
}

func verdictOutcome(result *domain.VerificationResult) domain.VerificationOutcome {
	if result.IsValid {
		return domain.VerificationOutcome{
			Status: domain.OutcomeAccepted,
			Result: result,
		}
	}
	return domain.VerificationOutcome{
		Status: domain.OutcomeRejected,
		Reason: fmt.Sprintf("total score %.2f below acceptance threshold %.2f", result.TotalScore, domain.ValidityThreshold),
		Result: result,
	}
}

func errorOutcome(reason string) domain.VerificationOutcome {
	return domain.VerificationOutcome{
		Status: domain.OutcomeError,
		Reason: reason,
		Result: &domain.VerificationResult{
			IsValid: false,
			Error:   reason,
		},
	}
}

func buildVerificationPrompt(docContext string, question *domain.Question) string {
	jsonFormat := `{
  "hallucination_check": {
    "result": "Y or N",
    "evidence": "the part of the source material the judgment is based on",
    "explanation": "why you judged it this way"
  },
  "quality_check": {
    "rating": "very_appropriate/appropriate/inappropriate",
    "reasoning": "why you rated it this way"
  },
  "semantic_consistency": {
    "content_relevance": 0.0,
    "factual_accuracy": 0.0,
    "context_alignment": 0.0,
    "average_score": 0.0
  }
}`

	return fmt.Sprintf(`You are an expert validator of educational quiz questions. Review the source material and the generated question below, and evaluate the question's accuracy and quality.

[SOURCE MATERIAL]
%s

[GENERATED QUESTION]
Question: %s
Correct answer: %s
Explanation: %s

Evaluation criteria:
1. Hallucination check (2-scale): is the question grounded in the source material? (Y/N)
2. Quality check (3-scale): overall quality of the question (very_appropriate/appropriate/inappropriate)
3. Semantic consistency (0.0-1.0): score the question's content relevance, factual accuracy and context alignment between 0.0 and 1.0

Present your evaluation in the following JSON format:
%s

Respond with ONLY JSON in the format above. Do not include any other text.`,
		docContext, question.Question, question.CorrectAnswer, question.Explanation, jsonFormat)
}
