package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wikiquiz/internal/domain"
)

// --- mocks ---

type mockQuizRepository struct {
	mock.Mock
}

func (m *mockQuizRepository) GetQuizByURL(ctx context.Context, url string) (*domain.Quiz, error) {
	args := m.Called(ctx, url)
	quiz, _ := args.Get(0).(*domain.Quiz)
	return quiz, args.Error(1)
}

func (m *mockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	quiz, _ := args.Get(0).(*domain.Quiz)
	return quiz, args.Error(1)
}

func (m *mockQuizRepository) ListQuizzes(ctx context.Context) ([]*domain.QuizSummary, error) {
	args := m.Called(ctx)
	summaries, _ := args.Get(0).([]*domain.QuizSummary)
	return summaries, args.Error(1)
}

func (m *mockQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	if args.Error(0) == nil {
		quiz.ID = "01STOREDQUIZID0000000000AA"
		quiz.CreatedAt = time.Now().UTC()
	}
	return args.Error(0)
}

type mockTransactionManager struct {
	mock.Mock
}

func (m *mockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

type mockScraper struct {
	mock.Mock
}

func (m *mockScraper) ScrapeArticle(ctx context.Context, url string) (*domain.ArticleContent, error) {
	args := m.Called(ctx, url)
	article, _ := args.Get(0).(*domain.ArticleContent)
	return article, args.Error(1)
}

func (m *mockScraper) FetchTitle(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, title, content string, questionCount int) domain.GeneratedQuiz {
	args := m.Called(ctx, title, content, questionCount)
	return args.Get(0).(domain.GeneratedQuiz)
}

// --- fixtures ---

const articleURL = "https://en.wikipedia.org/wiki/Go_(programming_language)"

func testArticle() *domain.ArticleContent {
	return &domain.ArticleContent{
		URL:      articleURL,
		Title:    "Go (programming language)",
		Summary:  "Go is a statically typed, compiled programming language.",
		Sections: []string{"History", "Design"},
		FullText: "Go is a statically typed, compiled programming language.\n\n## History\nDesigned at Google.",
		RawHTML:  "<html></html>",
	}
}

func testGenerated() domain.GeneratedQuiz {
	g := domain.NewGeneratedQuiz()
	g.Questions = []domain.Question{
		{Text: "Who designed Go?", Options: []string{"a", "b", "c", "d"}, Answer: "a", Difficulty: "easy", Explanation: "e"},
	}
	g.KeyEntities.People = []string{"Rob Pike"}
	g.RelatedTopics = []string{"Programming languages"}
	return g
}

func storedQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:      "01EXISTINGQUIZ00000000AAAA",
		URL:     articleURL,
		Title:   "Go (programming language)",
		Summary: "Go is a statically typed, compiled programming language.",
		KeyEntities: domain.EntityBundle{
			People: []string{"Rob Pike"}, Organizations: []string{}, Locations: []string{},
		},
		Sections: []string{"History"},
		Questions: []domain.Question{
			{Text: "Who designed Go?", Options: []string{"a", "b", "c", "d"}, Answer: "a", Difficulty: "easy", Explanation: "e"},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func newTestService(repo *mockQuizRepository, tm *mockTransactionManager, sc *mockScraper, gen *mockGenerator) QuizService {
	return NewQuizService(repo, tm, sc, gen, nil, time.Hour)
}

// --- tests ---

func TestGenerateQuizInvalidURL(t *testing.T) {
	repo := new(mockQuizRepository)
	sc := new(mockScraper)
	svc := newTestService(repo, new(mockTransactionManager), sc, new(mockGenerator))

	_, err := svc.GenerateQuiz(context.Background(), "https://example.com/not-wiki")
	require.Error(t, err)

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "url", errs[0].Field)

	// Nothing downstream runs for an invalid URL.
	repo.AssertNotCalled(t, "GetQuizByURL", mock.Anything, mock.Anything)
	sc.AssertNotCalled(t, "ScrapeArticle", mock.Anything, mock.Anything)
}

func TestGenerateQuizExistingURL(t *testing.T) {
	repo := new(mockQuizRepository)
	sc := new(mockScraper)
	gen := new(mockGenerator)
	svc := newTestService(repo, new(mockTransactionManager), sc, gen)

	repo.On("GetQuizByURL", mock.Anything, articleURL).Return(storedQuiz(), nil)

	resp, err := svc.GenerateQuiz(context.Background(), articleURL)
	require.NoError(t, err)
	assert.Equal(t, "01EXISTINGQUIZ00000000AAAA", resp.ID)
	require.Len(t, resp.Quiz, 1)
	assert.Equal(t, "Who designed Go?", resp.Quiz[0].Question)

	// A stored quiz is served without re-scraping or re-generating.
	sc.AssertNotCalled(t, "ScrapeArticle", mock.Anything, mock.Anything)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateQuizFullPipeline(t *testing.T) {
	repo := new(mockQuizRepository)
	tm := new(mockTransactionManager)
	sc := new(mockScraper)
	gen := new(mockGenerator)
	svc := newTestService(repo, tm, sc, gen)

	repo.On("GetQuizByURL", mock.Anything, articleURL).Return(nil, nil).Once()
	sc.On("ScrapeArticle", mock.Anything, articleURL).Return(testArticle(), nil)
	gen.On("Generate", mock.Anything, "Go (programming language)", mock.Anything, 7).Return(testGenerated())
	tm.On("WithTransaction", mock.Anything).Return(nil)
	repo.On("SaveQuiz", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.GenerateQuiz(context.Background(), articleURL)
	require.NoError(t, err)
	assert.Equal(t, "01STOREDQUIZID0000000000AA", resp.ID)
	assert.Equal(t, articleURL, resp.URL)
	assert.Equal(t, []string{"Rob Pike"}, resp.KeyEntities.People)
	assert.Equal(t, []string{"Programming languages"}, resp.RelatedTopics)
	require.Len(t, resp.Quiz, 1)
	assert.False(t, resp.CreatedAt.IsZero())

	repo.AssertExpectations(t)
	tm.AssertExpectations(t)
}

func TestGenerateQuizScrapeFailure(t *testing.T) {
	repo := new(mockQuizRepository)
	sc := new(mockScraper)
	gen := new(mockGenerator)
	svc := newTestService(repo, new(mockTransactionManager), sc, gen)

	repo.On("GetQuizByURL", mock.Anything, articleURL).Return(nil, nil)
	sc.On("ScrapeArticle", mock.Anything, articleURL).
		Return(nil, domain.NewConnectionError("fetch failed", errors.New("dial tcp: timeout")))

	_, err := svc.GenerateQuiz(context.Background(), articleURL)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeConnection, domainErr.Code)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateQuizNoValidQuestions(t *testing.T) {
	repo := new(mockQuizRepository)
	tm := new(mockTransactionManager)
	sc := new(mockScraper)
	gen := new(mockGenerator)
	svc := newTestService(repo, tm, sc, gen)

	repo.On("GetQuizByURL", mock.Anything, articleURL).Return(nil, nil)
	sc.On("ScrapeArticle", mock.Anything, articleURL).Return(testArticle(), nil)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything, 7).Return(domain.NewGeneratedQuiz())

	_, err := svc.GenerateQuiz(context.Background(), articleURL)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeEmptyQuiz, domainErr.Code)

	// An empty quiz is never persisted.
	repo.AssertNotCalled(t, "SaveQuiz", mock.Anything, mock.Anything)
}

func TestGenerateQuizRecoverFromLostInsertRace(t *testing.T) {
	repo := new(mockQuizRepository)
	tm := new(mockTransactionManager)
	sc := new(mockScraper)
	gen := new(mockGenerator)
	svc := newTestService(repo, tm, sc, gen)

	// First lookup misses, save loses the unique-constraint race, second
	// lookup finds the concurrent writer's record.
	repo.On("GetQuizByURL", mock.Anything, articleURL).Return(nil, nil).Once()
	sc.On("ScrapeArticle", mock.Anything, articleURL).Return(testArticle(), nil)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything, 7).Return(testGenerated())
	tm.On("WithTransaction", mock.Anything).Return(nil)
	repo.On("SaveQuiz", mock.Anything, mock.Anything).
		Return(errors.New(`duplicate key value violates unique constraint "quizzes_url_key"`))
	repo.On("GetQuizByURL", mock.Anything, articleURL).Return(storedQuiz(), nil).Once()

	resp, err := svc.GenerateQuiz(context.Background(), articleURL)
	require.NoError(t, err)
	assert.Equal(t, "01EXISTINGQUIZ00000000AAAA", resp.ID)
}

func TestGetQuizHistory(t *testing.T) {
	repo := new(mockQuizRepository)
	svc := newTestService(repo, new(mockTransactionManager), new(mockScraper), new(mockGenerator))

	longSummary := strings.Repeat("a", 300)
	repo.On("ListQuizzes", mock.Anything).Return([]*domain.QuizSummary{
		{ID: "01B", URL: "https://en.wikipedia.org/wiki/B", Title: "B", Summary: longSummary, QuestionCount: 7},
		{ID: "01A", URL: "https://en.wikipedia.org/wiki/A", Title: "A", Summary: "short", QuestionCount: 5},
	}, nil)

	items, err := svc.GetQuizHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Long summaries are truncated for the list view, short ones untouched.
	assert.Len(t, items[0].Summary, 203)
	assert.True(t, strings.HasSuffix(items[0].Summary, "..."))
	assert.Equal(t, "short", items[1].Summary)
	assert.Equal(t, 7, items[0].QuestionCount)
}

func TestGetQuizHistoryEmpty(t *testing.T) {
	repo := new(mockQuizRepository)
	svc := newTestService(repo, new(mockTransactionManager), new(mockScraper), new(mockGenerator))

	repo.On("ListQuizzes", mock.Anything).Return([]*domain.QuizSummary{}, nil)

	items, err := svc.GetQuizHistory(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGetQuizByIDFound(t *testing.T) {
	repo := new(mockQuizRepository)
	svc := newTestService(repo, new(mockTransactionManager), new(mockScraper), new(mockGenerator))

	repo.On("GetQuizByID", mock.Anything, "01EXISTINGQUIZ00000000AAAA").Return(storedQuiz(), nil)

	resp, err := svc.GetQuizByID(context.Background(), "01EXISTINGQUIZ00000000AAAA")
	require.NoError(t, err)
	assert.Equal(t, "Go (programming language)", resp.Title)
}

func TestGetQuizByIDNotFound(t *testing.T) {
	repo := new(mockQuizRepository)
	svc := newTestService(repo, new(mockTransactionManager), new(mockScraper), new(mockGenerator))

	repo.On("GetQuizByID", mock.Anything, "01MISSING").Return(nil, nil)

	_, err := svc.GetQuizByID(context.Background(), "01MISSING")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
}

func TestPreviewURL(t *testing.T) {
	sc := new(mockScraper)
	svc := newTestService(new(mockQuizRepository), new(mockTransactionManager), sc, new(mockGenerator))

	sc.On("FetchTitle", mock.Anything, articleURL).Return("Go (programming language)", nil)

	resp, err := svc.PreviewURL(context.Background(), articleURL)
	require.NoError(t, err)
	assert.Equal(t, "Go (programming language)", resp.Title)
	assert.Equal(t, articleURL, resp.URL)
	assert.True(t, resp.Valid)
}

func TestPreviewURLInvalid(t *testing.T) {
	sc := new(mockScraper)
	svc := newTestService(new(mockQuizRepository), new(mockTransactionManager), sc, new(mockGenerator))

	_, err := svc.PreviewURL(context.Background(), "")
	require.Error(t, err)
	sc.AssertNotCalled(t, "FetchTitle", mock.Anything, mock.Anything)
}

func TestPreviewURLFetchFailure(t *testing.T) {
	sc := new(mockScraper)
	svc := newTestService(new(mockQuizRepository), new(mockTransactionManager), sc, new(mockGenerator))

	sc.On("FetchTitle", mock.Anything, articleURL).
		Return("", domain.NewConnectionError("fetch failed", errors.New("503")))

	_, err := svc.PreviewURL(context.Background(), articleURL)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeConnection, domainErr.Code)
}
