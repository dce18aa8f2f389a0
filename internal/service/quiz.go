package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"wikiquiz/internal/cache"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/llm"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/scraper"
	"wikiquiz/internal/util"
	"wikiquiz/internal/validation"
)

// defaultQuestionCount is the number of questions requested per quiz.
const defaultQuestionCount = 7

// historySummaryLen caps the summary text in history list items.
const historySummaryLen = 200

// QuizService defines the quiz-facing operations exposed over HTTP.
type QuizService interface {
	GenerateQuiz(ctx context.Context, url string) (*dto.QuizResponse, error)
	GetQuizHistory(ctx context.Context) ([]dto.QuizListItem, error)
	GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error)
	PreviewURL(ctx context.Context, url string) (*dto.PreviewResponse, error)
}

// quizService implements QuizService
type quizService struct {
	repo      domain.QuizRepository
	txManager domain.TransactionManager
	scraper   scraper.ArticleScraper
	generator llm.QuizGenerator
	cache     domain.Cache
	cacheTTL  time.Duration
	validator *validation.Validator

	// generateGroup deduplicates concurrent generation requests for the
	// same URL: two simultaneous first-time requests perform only one
	// scrape and one model run.
	generateGroup singleflight.Group
}

// NewQuizService creates a new instance of quizService. quizCache may be
// nil, in which case the service reads straight from the store.
func NewQuizService(
	repo domain.QuizRepository,
	txManager domain.TransactionManager,
	articleScraper scraper.ArticleScraper,
	generator llm.QuizGenerator,
	quizCache domain.Cache,
	cacheTTL time.Duration,
) QuizService {
	return &quizService{
		repo:      repo,
		txManager: txManager,
		scraper:   articleScraper,
		generator: generator,
		cache:     quizCache,
		cacheTTL:  cacheTTL,
		validator: validation.NewValidator(),
	}
}

// GenerateQuiz implements QuizService. Repeated requests for the same URL
// return the stored quiz without re-scraping or re-calling the model.
func (s *quizService) GenerateQuiz(ctx context.Context, rawURL string) (*dto.QuizResponse, error) {
	url := strings.TrimSpace(rawURL)
	if errs := s.validator.ValidateQuizURL(url); len(errs) > 0 {
		return nil, errs
	}

	if resp := s.getCachedResponse(ctx, url); resp != nil {
		return resp, nil
	}

	existing, err := s.repo.GetQuizByURL(ctx, url)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up quiz by URL", err)
	}
	if existing != nil {
		resp := buildQuizResponse(existing)
		s.setCachedResponse(ctx, url, resp)
		return resp, nil
	}

	result, err, shared := s.generateGroup.Do(url, func() (interface{}, error) {
		return s.generateAndStore(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Info("Quiz generation deduplicated in flight", zap.String("url", url))
	}
	return result.(*dto.QuizResponse), nil
}

// generateAndStore runs the full pipeline for a never-seen URL:
// scrape -> generate -> persist -> cache.
func (s *quizService) generateAndStore(ctx context.Context, url string) (*dto.QuizResponse, error) {
	article, err := s.scraper.ScrapeArticle(ctx, url)
	if err != nil {
		return nil, err
	}

	generated := s.generator.Generate(ctx, article.Title, article.FullText, defaultQuestionCount)
	if len(generated.Questions) == 0 {
		return nil, domain.NewEmptyQuizError()
	}

	quiz := &domain.Quiz{
		URL:           url,
		Title:         article.Title,
		Summary:       article.Summary,
		KeyEntities:   generated.KeyEntities,
		Sections:      article.Sections,
		RelatedTopics: generated.RelatedTopics,
		RawHTML:       article.RawHTML,
		Questions:     generated.Questions,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.SaveQuiz(txCtx, quiz)
	})
	if err != nil {
		// The unique constraint on url means a concurrent writer on
		// another instance may have won; serve its record if so.
		stored, lookupErr := s.repo.GetQuizByURL(ctx, url)
		if lookupErr == nil && stored != nil {
			logger.Get().Warn("Quiz insert lost a concurrent write, serving stored record",
				zap.String("url", url))
			return buildQuizResponse(stored), nil
		}
		return nil, domain.NewInternalError("Failed to store generated quiz", err)
	}

	resp := buildQuizResponse(quiz)
	s.setCachedResponse(ctx, url, resp)

	logger.Get().Info("Generated and stored quiz",
		zap.String("url", url),
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(quiz.Questions)),
	)
	return resp, nil
}

// GetQuizHistory implements QuizService
func (s *quizService) GetQuizHistory(ctx context.Context) ([]dto.QuizListItem, error) {
	summaries, err := s.repo.ListQuizzes(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}

	items := make([]dto.QuizListItem, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, dto.QuizListItem{
			ID:            summary.ID,
			URL:           summary.URL,
			Title:         summary.Title,
			Summary:       util.TruncateWithEllipsis(summary.Summary, historySummaryLen),
			QuestionCount: summary.QuestionCount,
			CreatedAt:     summary.CreatedAt,
		})
	}
	return items, nil
}

// GetQuizByID implements QuizService
func (s *quizService) GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error) {
	quiz, err := s.repo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return buildQuizResponse(quiz), nil
}

// PreviewURL implements QuizService. Only the title is fetched; no full
// scrape, no model call.
func (s *quizService) PreviewURL(ctx context.Context, rawURL string) (*dto.PreviewResponse, error) {
	url := strings.TrimSpace(rawURL)
	if errs := s.validator.ValidateQuizURL(url); len(errs) > 0 {
		return nil, errs
	}

	title, err := s.scraper.FetchTitle(ctx, url)
	if err != nil {
		return nil, err
	}

	return &dto.PreviewResponse{
		Title: title,
		URL:   url,
		Valid: true,
	}, nil
}

func (s *quizService) getCachedResponse(ctx context.Context, url string) *dto.QuizResponse {
	if s.cache == nil {
		return nil
	}
	key := cache.QuizResponseKey(url)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != domain.ErrCacheMiss {
			logger.Get().Warn("Quiz cache read failed", zap.Error(err), zap.String("url", url))
		}
		return nil
	}

	var resp dto.QuizResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		logger.Get().Warn("Quiz cache entry is corrupt, dropping it",
			zap.Error(err), zap.String("url", url))
		_ = s.cache.Delete(ctx, key)
		return nil
	}
	return &resp
}

func (s *quizService) setCachedResponse(ctx context.Context, url string, resp *dto.QuizResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.QuizResponseKey(url), string(raw), s.cacheTTL); err != nil {
		logger.Get().Warn("Quiz cache write failed", zap.Error(err), zap.String("url", url))
	}
}

func buildQuizResponse(quiz *domain.Quiz) *dto.QuizResponse {
	questions := make([]dto.QuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, dto.QuestionResponse{
			Question:    q.Text,
			Options:     q.Options,
			Answer:      q.Answer,
			Difficulty:  q.Difficulty,
			Explanation: q.Explanation,
		})
	}

	return &dto.QuizResponse{
		ID:      quiz.ID,
		URL:     quiz.URL,
		Title:   quiz.Title,
		Summary: quiz.Summary,
		KeyEntities: dto.KeyEntitiesResponse{
			People:        quiz.KeyEntities.People,
			Organizations: quiz.KeyEntities.Organizations,
			Locations:     quiz.KeyEntities.Locations,
		},
		Sections:      quiz.Sections,
		Quiz:          questions,
		RelatedTopics: quiz.RelatedTopics,
		CreatedAt:     quiz.CreatedAt,
	}
}
