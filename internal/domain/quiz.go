package domain

import (
	"context"
	"time"
)

// Quiz is the persisted aggregate: article metadata plus its generated
// question set. It exclusively owns its Questions (cascade delete).
type Quiz struct {
	ID            string
	URL           string
	Title         string
	Summary       string
	KeyEntities   EntityBundle
	Sections      []string
	RelatedTopics []string
	RawHTML       string
	Questions     []Question
	CreatedAt     time.Time
}

// QuestionCount returns the number of questions owned by the quiz.
func (q *Quiz) QuestionCount() int {
	return len(q.Questions)
}

// QuizRepository defines the persistence operations for quizzes.
// Lookup methods return (nil, nil) when no record exists.
type QuizRepository interface {
	// GetQuizByURL looks up a quiz by its natural key. The pipeline is a
	// write-once cache keyed by URL.
	GetQuizByURL(ctx context.Context, url string) (*Quiz, error)
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	// ListQuizzes returns all stored quizzes, newest first, with question
	// counts populated but child questions omitted.
	ListQuizzes(ctx context.Context) ([]*QuizSummary, error)
	// SaveQuiz persists the quiz and its questions. IDs and CreatedAt are
	// assigned during the call.
	SaveQuiz(ctx context.Context, quiz *Quiz) error
}

// QuizSummary is the abbreviated projection used by the history listing.
type QuizSummary struct {
	ID            string
	URL           string
	Title         string
	Summary       string
	QuestionCount int
	CreatedAt     time.Time
}

// TransactionManager runs a function inside a single store transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
