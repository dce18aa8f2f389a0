package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"
)

// interCallDelay separates the two model calls to reduce burst
// rate-limiting. It is unconditional, not retry-triggered.
const interCallDelay = 3 * time.Second

// QuizGenerator produces a complete GeneratedQuiz from article content.
type QuizGenerator interface {
	Generate(ctx context.Context, title, content string, questionCount int) domain.GeneratedQuiz
}

// Pipeline orchestrates the two-call generation sequence: quiz questions,
// then entities and related topics. Model-call and parse failures degrade
// to empty defaults per half; the pipeline itself never fails.
type Pipeline struct {
	caller *Caller
	sleep  func(time.Duration)
}

// NewPipeline creates a Pipeline around the given completion client.
func NewPipeline(completer Completer) *Pipeline {
	return &Pipeline{
		caller: NewCaller(completer),
		sleep:  time.Sleep,
	}
}

// Generate implements QuizGenerator.
func (p *Pipeline) Generate(ctx context.Context, title, content string, questionCount int) domain.GeneratedQuiz {
	l := logger.Get()
	result := domain.NewGeneratedQuiz()

	questions, err := p.generateQuestions(ctx, title, content, questionCount)
	if err != nil {
		l.Error("Quiz question generation failed, continuing with empty question list",
			zap.String("title", title),
			zap.Error(err),
		)
	} else {
		result.Questions = questions
	}

	p.sleep(interCallDelay)

	entities, topics, err := p.extractEntities(ctx, title, content)
	if err != nil {
		l.Error("Entity extraction failed, continuing with empty entity bundle",
			zap.String("title", title),
			zap.Error(err),
		)
	} else {
		result.KeyEntities = entities
		result.RelatedTopics = topics
	}

	return result
}

// generateQuestions runs the quiz half of the pipeline and returns an
// explicit error so the orchestrator can log the failure while continuing
// with a default value.
func (p *Pipeline) generateQuestions(ctx context.Context, title, content string, questionCount int) ([]domain.Question, error) {
	prompt := BuildQuizPrompt(title, content, questionCount)
	raw, err := p.caller.Call(ctx, prompt, "Quiz")
	if err != nil {
		return nil, err
	}

	doc, err := ParseJSONObject(raw)
	if err != nil {
		return nil, err
	}

	candidates, _ := doc["quiz"].([]interface{})
	questions := ValidateQuestions(candidates)
	logger.Get().Info("Validated quiz questions",
		zap.Int("candidates", len(candidates)),
		zap.Int("survived", len(questions)),
	)
	return questions, nil
}

func (p *Pipeline) extractEntities(ctx context.Context, title, content string) (domain.EntityBundle, []string, error) {
	prompt := BuildEntityPrompt(title, content)
	raw, err := p.caller.Call(ctx, prompt, "Entities")
	if err != nil {
		return domain.NewEntityBundle(), nil, err
	}

	doc, err := ParseJSONObject(raw)
	if err != nil {
		return domain.NewEntityBundle(), nil, err
	}

	bundle, topics := ValidateEntities(doc)
	return bundle, topics, nil
}

var _ QuizGenerator = (*Pipeline)(nil)
