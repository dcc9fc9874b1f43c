package handler

import (
	"quizcraft/internal/dto"
	"quizcraft/internal/logger"
	"quizcraft/internal/service"
	"quizcraft/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles question generation and answer grading requests.
type QuizHandler struct {
	generation service.GenerationService
	grading    service.GradingService
	validator  *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(generation service.GenerationService, grading service.GradingService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		generation: generation,
		grading:    grading,
		validator:  validator,
	}
}

// GenerateQuestions godoc
// @Summary Generate quiz questions from a document
// @Description Generates and verifies quiz questions grounded in the supplied text
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuestionsRequest true "Generation request"
// @Success 200 {object} dto.GenerateQuestionsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /questions/generate [post]
func (h *QuizHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if errs := h.validator.ValidateGenerateRequest(&req); len(errs) > 0 {
		return errs
	}

	logger.Get().Info("Generating questions",
		zap.Int("num_questions", req.NumQuestions),
		zap.Int("content_length", len(req.Content)),
		zap.Strings("question_types", req.QuestionTypes))

	resp, err := h.generation.GenerateQuestions(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// CheckAnswers godoc
// @Summary Grade a batch of answers
// @Description Grades each submitted answer against its reference answer with partial credit
// @Tags answers
// @Accept json
// @Produce json
// @Param request body dto.CheckAnswersRequest true "Grading request"
// @Success 200 {object} dto.CheckAnswersResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /answers/check [post]
func (h *QuizHandler) CheckAnswers(c *fiber.Ctx) error {
	var req dto.CheckAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if errs := h.validator.ValidateCheckAnswersRequest(&req); len(errs) > 0 {
		return errs
	}

	logger.Get().Info("Grading answers", zap.Int("count", len(req.Answers)))

	resp, err := h.grading.GradeAnswers(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}
