package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/handler"
	"wikiquiz/internal/middleware"
)

// stubQuizService implements service.QuizService with per-test behavior.
type stubQuizService struct {
	generateQuiz   func(ctx context.Context, url string) (*dto.QuizResponse, error)
	getQuizHistory func(ctx context.Context) ([]dto.QuizListItem, error)
	getQuizByID    func(ctx context.Context, id string) (*dto.QuizResponse, error)
	previewURL     func(ctx context.Context, url string) (*dto.PreviewResponse, error)
}

func (s *stubQuizService) GenerateQuiz(ctx context.Context, url string) (*dto.QuizResponse, error) {
	return s.generateQuiz(ctx, url)
}

func (s *stubQuizService) GetQuizHistory(ctx context.Context) ([]dto.QuizListItem, error) {
	return s.getQuizHistory(ctx)
}

func (s *stubQuizService) GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error) {
	return s.getQuizByID(ctx, id)
}

func (s *stubQuizService) PreviewURL(ctx context.Context, url string) (*dto.PreviewResponse, error) {
	return s.previewURL(ctx, url)
}

func newTestApp(svc *stubQuizService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.NewQuizHandler(svc)
	h.RegisterRoutes(app.Group("/api"))
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func sampleQuizResponse() *dto.QuizResponse {
	return &dto.QuizResponse{
		ID:      "01QUIZ",
		URL:     "https://en.wikipedia.org/wiki/Go_(programming_language)",
		Title:   "Go (programming language)",
		Summary: "Go is a statically typed language.",
		KeyEntities: dto.KeyEntitiesResponse{
			People:        []string{"Rob Pike"},
			Organizations: []string{},
			Locations:     []string{},
		},
		Sections: []string{"History"},
		Quiz: []dto.QuestionResponse{
			{Question: "Who designed Go?", Options: []string{"a", "b", "c", "d"}, Answer: "a", Difficulty: "easy", Explanation: "e"},
		},
		RelatedTopics: []string{"Programming languages"},
		CreatedAt:     time.Now().UTC(),
	}
}

func TestGenerateQuizOK(t *testing.T) {
	svc := &stubQuizService{
		generateQuiz: func(ctx context.Context, url string) (*dto.QuizResponse, error) {
			assert.Equal(t, "https://en.wikipedia.org/wiki/Go_(programming_language)", url)
			return sampleQuizResponse(), nil
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/generate",
		strings.NewReader(`{"url":"https://en.wikipedia.org/wiki/Go_(programming_language)"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.QuizResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "01QUIZ", body.ID)
	require.Len(t, body.Quiz, 1)
	assert.Equal(t, "Who designed Go?", body.Quiz[0].Question)
}

func TestGenerateQuizInvalidBody(t *testing.T) {
	svc := &stubQuizService{}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/generate", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateQuizValidationError(t *testing.T) {
	svc := &stubQuizService{
		generateQuiz: func(ctx context.Context, url string) (*dto.QuizResponse, error) {
			return nil, domain.ValidationErrors{domain.NewMissingFieldError("url")}
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/generate", strings.NewReader(`{"url":""}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, string(domain.CodeValidation), body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "url", body.Errors[0].Field)
}

func TestGenerateQuizUpstreamFailure(t *testing.T) {
	svc := &stubQuizService{
		generateQuiz: func(ctx context.Context, url string) (*dto.QuizResponse, error) {
			return nil, domain.NewConnectionError("Failed to fetch the article", nil)
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/generate",
		strings.NewReader(`{"url":"https://en.wikipedia.org/wiki/Go"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body middleware.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, string(domain.CodeConnection), body.Code)
}

func TestGenerateQuizEmptyResult(t *testing.T) {
	svc := &stubQuizService{
		generateQuiz: func(ctx context.Context, url string) (*dto.QuizResponse, error) {
			return nil, domain.NewEmptyQuizError()
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/generate",
		strings.NewReader(`{"url":"https://en.wikipedia.org/wiki/Go"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGetQuizHistoryOK(t *testing.T) {
	svc := &stubQuizService{
		getQuizHistory: func(ctx context.Context) ([]dto.QuizListItem, error) {
			return []dto.QuizListItem{
				{ID: "01B", Title: "B", QuestionCount: 7},
				{ID: "01A", Title: "A", QuestionCount: 5},
			}, nil
		},
	}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quiz/history", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var items []dto.QuizListItem
	decodeBody(t, resp, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "01B", items[0].ID)
}

func TestGetQuizDetailOK(t *testing.T) {
	svc := &stubQuizService{
		getQuizByID: func(ctx context.Context, id string) (*dto.QuizResponse, error) {
			assert.Equal(t, "01QUIZ", id)
			return sampleQuizResponse(), nil
		},
	}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quiz/01QUIZ", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetQuizDetailNotFound(t *testing.T) {
	svc := &stubQuizService{
		getQuizByID: func(ctx context.Context, id string) (*dto.QuizResponse, error) {
			return nil, domain.NewQuizNotFoundError(id)
		},
	}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quiz/01MISSING", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body middleware.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, string(domain.CodeQuizNotFound), body.Code)
}

func TestPreviewURLOK(t *testing.T) {
	svc := &stubQuizService{
		previewURL: func(ctx context.Context, url string) (*dto.PreviewResponse, error) {
			return &dto.PreviewResponse{Title: "Go (programming language)", URL: url, Valid: true}, nil
		},
	}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/quiz/preview/url?url=https://en.wikipedia.org/wiki/Go", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.PreviewResponse
	decodeBody(t, resp, &body)
	assert.True(t, body.Valid)
	assert.Equal(t, "Go (programming language)", body.Title)
}

func TestPreviewURLUnreachable(t *testing.T) {
	svc := &stubQuizService{
		previewURL: func(ctx context.Context, url string) (*dto.PreviewResponse, error) {
			return nil, domain.NewConnectionError("Failed to fetch the article", nil)
		},
	}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/quiz/preview/url?url=https://en.wikipedia.org/wiki/Unreachable", nil))
	require.NoError(t, err)

	// A dead URL is reported as invalid input on preview, not as an
	// upstream failure.
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Failed to fetch the article", body.Error)
}

func TestPreviewRouteNotCapturedByDetail(t *testing.T) {
	svc := &stubQuizService{
		previewURL: func(ctx context.Context, url string) (*dto.PreviewResponse, error) {
			return &dto.PreviewResponse{Title: "t", URL: url, Valid: true}, nil
		},
		getQuizByID: func(ctx context.Context, id string) (*dto.QuizResponse, error) {
			t.Fatal("detail route must not handle preview requests")
			return nil, nil
		},
	}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/quiz/preview/url?url=https://en.wikipedia.org/wiki/Go", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
