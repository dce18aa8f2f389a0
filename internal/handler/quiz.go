package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/service"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(svc service.QuizService) *QuizHandler {
	return &QuizHandler{service: svc}
}

// RegisterRoutes wires the quiz routes onto the given router group.
// The preview route is registered before the id route so "preview" is
// never captured as an id parameter.
func (h *QuizHandler) RegisterRoutes(api fiber.Router) {
	quiz := api.Group("/quiz")
	quiz.Post("/generate", h.GenerateQuiz)
	quiz.Get("/history", h.GetQuizHistory)
	quiz.Get("/preview/url", h.PreviewURL)
	quiz.Get("/:id", h.GetQuizDetail)
}

// GenerateQuiz godoc
// @Summary Generate a quiz from a Wikipedia article URL
// @Description Scrapes the article, generates questions and entities via the model, stores and returns the quiz. Repeated requests for the same URL return the stored quiz.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Wikipedia article URL"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body must be JSON with a url field")
	}

	resp, err := h.service.GenerateQuiz(c.Context(), req.URL)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuizHistory godoc
// @Summary List previously generated quizzes
// @Description Returns abbreviated records for all stored quizzes, newest first.
// @Tags quiz
// @Produce json
// @Success 200 {array} dto.QuizListItem
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/history [get]
func (h *QuizHandler) GetQuizHistory(c *fiber.Ctx) error {
	items, err := h.service.GetQuizHistory(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// GetQuizDetail godoc
// @Summary Get the full record of a quiz
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuizDetail(c *fiber.Ctx) error {
	id := c.Params("id")
	resp, err := h.service.GetQuizByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// PreviewURL godoc
// @Summary Validate a Wikipedia URL and fetch its title
// @Description Fetches just the article title without full scraping, for fast URL validation.
// @Tags quiz
// @Produce json
// @Param url query string true "Wikipedia article URL"
// @Success 200 {object} dto.PreviewResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /quiz/preview/url [get]
func (h *QuizHandler) PreviewURL(c *fiber.Ctx) error {
	url := c.Query("url")

	resp, err := h.service.PreviewURL(c.Context(), url)
	if err != nil {
		// Preview reports any unreachable or unparseable URL as invalid
		// input rather than an upstream failure.
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) &&
			(domainErr.Code == domain.CodeConnection || domainErr.Code == domain.CodeExtraction) {
			logger.Get().Warn("URL preview failed",
				zap.String("url", url),
				zap.Error(err),
			)
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: domainErr.Message,
			})
		}
		return err
	}
	return c.JSON(resp)
}
