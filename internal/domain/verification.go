package domain

// HallucinationResult is the binary verdict of whether a question is
// grounded in the source material. Y means grounded.
type HallucinationResult string

const (
	HallucinationGrounded   HallucinationResult = "Y"
	HallucinationUngrounded HallucinationResult = "N"
)

// QualityRating is the 3-level quality verdict from the judgment call.
type QualityRating string

const (
	QualityVeryAppropriate QualityRating = "very_appropriate"
	QualityAppropriate     QualityRating = "appropriate"
	QualityInappropriate   QualityRating = "inappropriate"
)

// Score maps a quality rating onto its contribution to the fused score.
// Unknown ratings score the same as inappropriate.
func (r QualityRating) Score() float64 {
	switch r {
	case QualityVeryAppropriate:
		return 1.0
	case QualityAppropriate:
		return 0.7
	default:
		return 0.3
	}
}

// Fusion weights and the acceptance threshold. There is exactly one source
// of truth for the scoring formula: FuseScores below.
const (
	WeightHallucination = 0.4
	WeightQuality       = 0.3
	WeightSemantic      = 0.3

	ValidityThreshold = 0.6
)

// EmbeddingSimilarity holds the per-component cosine similarities between
// the source context and the question parts. Average is a 2-way average
// when the explanation is empty, else 3-way.
type EmbeddingSimilarity struct {
	Question    float64 `json:"question"`
	Answer      float64 `json:"answer"`
	Explanation float64 `json:"explanation"`
	Average     float64 `json:"average"`
}

// HallucinationCheck is the structured hallucination verdict.
type HallucinationCheck struct {
	Result      HallucinationResult `json:"result"`
	Evidence    string              `json:"evidence"`
	Explanation string              `json:"explanation"`
}

// QualityCheck is the structured quality verdict.
type QualityCheck struct {
	Rating    QualityRating `json:"rating"`
	Reasoning string        `json:"reasoning"`
}

// SemanticConsistency holds the three 0-1 sub-scores and their average.
type SemanticConsistency struct {
	ContentRelevance float64 `json:"content_relevance"`
	FactualAccuracy  float64 `json:"factual_accuracy"`
	ContextAlignment float64 `json:"context_alignment"`
	AverageScore     float64 `json:"average_score"`
}

// VerificationResult is the fused verdict for one question. Created once,
// never mutated. Invariant: IsValid == (TotalScore >= ValidityThreshold)
// unless Error reports a verifier fault, in which case IsValid is false.
type VerificationResult struct {
	EmbeddingSimilarity *EmbeddingSimilarity `json:"embedding_similarity,omitempty"`
	HallucinationCheck  *HallucinationCheck  `json:"hallucination_check,omitempty"`
	QualityCheck        *QualityCheck        `json:"quality_check,omitempty"`
	SemanticConsistency *SemanticConsistency `json:"semantic_consistency,omitempty"`
	TotalScore          float64              `json:"total_score"`
	IsValid             bool                 `json:"is_valid"`
	Error               string               `json:"error,omitempty"`
}

// FuseScores combines the three judgment signals into the weighted total.
func FuseScores(h HallucinationCheck, q QualityCheck, s SemanticConsistency) float64 {
	hallucinationScore := 0.0
	if h.Result == HallucinationGrounded {
		hallucinationScore = 1.0
	}
	return WeightHallucination*hallucinationScore +
		WeightQuality*q.Rating.Score() +
		WeightSemantic*s.AverageScore
}

// OutcomeStatus tags what happened to a single question during verification.
type OutcomeStatus string

const (
	// OutcomeAccepted means the question passed the quality bar.
	OutcomeAccepted OutcomeStatus = "accepted"
	// OutcomeRejected means the question was scored and failed the bar,
	// or failed schema validation before scoring.
	OutcomeRejected OutcomeStatus = "rejected"
	// OutcomeError means the verifier itself faulted; the question was
	// dropped without a meaningful score.
	OutcomeError OutcomeStatus = "error"
)

// VerificationOutcome distinguishes "failed the quality bar" from "the
// verifier errored" instead of conflating both into one boolean.
type VerificationOutcome struct {
	Status OutcomeStatus
	Reason string
	Result *VerificationResult
}
