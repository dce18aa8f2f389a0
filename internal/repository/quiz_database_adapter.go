package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/repository/models"
	"wikiquiz/internal/util"
)

const quizColumns = `id, url, title, summary, key_entities, sections, related_topics, raw_html, created_at`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx over
// Postgres.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// GetQuizByURL implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByURL(ctx context.Context, url string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)

	var modelQuiz models.Quiz
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE url = $1`
	if err := exec.GetContext(ctx, &modelQuiz, query, url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by URL %s: %w", url, err)
	}

	questions, err := a.loadQuestions(ctx, exec, modelQuiz.ID)
	if err != nil {
		return nil, err
	}
	return toDomainQuiz(&modelQuiz, questions), nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)

	var modelQuiz models.Quiz
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = $1`
	if err := exec.GetContext(ctx, &modelQuiz, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}

	questions, err := a.loadQuestions(ctx, exec, modelQuiz.ID)
	if err != nil {
		return nil, err
	}
	return toDomainQuiz(&modelQuiz, questions), nil
}

// ListQuizzes implements domain.QuizRepository. Results are ordered newest
// first with question counts aggregated in the query.
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context) ([]*domain.QuizSummary, error) {
	exec := GetExecutor(ctx, a.db)

	var rows []models.QuizSummary
	query := `SELECT
		q.id,
		q.url,
		q.title,
		q.summary,
		COUNT(que.id) AS question_count,
		q.created_at
	FROM quizzes q
	LEFT JOIN questions que ON que.quiz_id = q.id
	GROUP BY q.id, q.url, q.title, q.summary, q.created_at
	ORDER BY q.created_at DESC`
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	summaries := make([]*domain.QuizSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, &domain.QuizSummary{
			ID:            row.ID,
			URL:           row.URL,
			Title:         row.Title,
			Summary:       row.Summary,
			QuestionCount: row.QuestionCount,
			CreatedAt:     row.CreatedAt,
		})
	}
	return summaries, nil
}

// SaveQuiz implements domain.QuizRepository. IDs and CreatedAt are
// assigned here; question positions follow slice order. Run it inside
// TransactionManager.WithTransaction so the quiz and its questions commit
// atomically.
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	exec := GetExecutor(ctx, a.db)

	modelQuiz := toModelQuiz(quiz)
	modelQuiz.ID = util.NewULID()
	modelQuiz.CreatedAt = time.Now().UTC()

	quizQuery := `INSERT INTO quizzes (
		id, url, title, summary, key_entities, sections, related_topics, raw_html, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9
	)`
	_, err := exec.ExecContext(ctx, quizQuery,
		modelQuiz.ID,
		modelQuiz.URL,
		modelQuiz.Title,
		modelQuiz.Summary,
		modelQuiz.KeyEntities,
		modelQuiz.Sections,
		modelQuiz.RelatedTopics,
		modelQuiz.RawHTML,
		modelQuiz.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}

	questionQuery := `INSERT INTO questions (
		id, quiz_id, position, question, options, answer, difficulty, explanation, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9
	)`
	for i, q := range quiz.Questions {
		_, err := exec.ExecContext(ctx, questionQuery,
			util.NewULID(),
			modelQuiz.ID,
			i,
			q.Text,
			models.StringSlice(q.Options),
			q.Answer,
			q.Difficulty,
			q.Explanation,
			modelQuiz.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save question %d: %w", i, err)
		}
	}

	quiz.ID = modelQuiz.ID
	quiz.CreatedAt = modelQuiz.CreatedAt
	return nil
}

func (a *QuizDatabaseAdapter) loadQuestions(ctx context.Context, exec DBTX, quizID string) ([]domain.Question, error) {
	var modelQuestions []models.Question
	query := `SELECT id, quiz_id, position, question, options, answer, difficulty, explanation, created_at
	FROM questions
	WHERE quiz_id = $1
	ORDER BY position ASC`
	if err := exec.SelectContext(ctx, &modelQuestions, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to load questions for quiz %s: %w", quizID, err)
	}

	questions := make([]domain.Question, 0, len(modelQuestions))
	for _, mq := range modelQuestions {
		questions = append(questions, domain.Question{
			Text:        mq.Question,
			Options:     mq.Options,
			Answer:      mq.Answer,
			Difficulty:  mq.Difficulty,
			Explanation: mq.Explanation,
		})
	}
	return questions, nil
}

func toDomainQuiz(m *models.Quiz, questions []domain.Question) *domain.Quiz {
	return &domain.Quiz{
		ID:      m.ID,
		URL:     m.URL,
		Title:   m.Title,
		Summary: m.Summary,
		KeyEntities: domain.EntityBundle{
			People:        emptyIfNil(m.KeyEntities.People),
			Organizations: emptyIfNil(m.KeyEntities.Organizations),
			Locations:     emptyIfNil(m.KeyEntities.Locations),
		},
		Sections:      m.Sections,
		RelatedTopics: m.RelatedTopics,
		RawHTML:       m.RawHTML.String,
		Questions:     questions,
		CreatedAt:     m.CreatedAt,
	}
}

func toModelQuiz(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:      q.ID,
		URL:     q.URL,
		Title:   q.Title,
		Summary: q.Summary,
		KeyEntities: models.Entities{
			People:        q.KeyEntities.People,
			Organizations: q.KeyEntities.Organizations,
			Locations:     q.KeyEntities.Locations,
		},
		Sections:      models.StringSlice(q.Sections),
		RelatedTopics: models.StringSlice(q.RelatedTopics),
		RawHTML:       util.StringToNullString(q.RawHTML),
		CreatedAt:     q.CreatedAt,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
