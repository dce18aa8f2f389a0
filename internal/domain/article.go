package domain

// ArticleContent is the structured content extracted from a Wikipedia page.
// It is a transient value object: it exists only within a single pipeline
// run and is never persisted on its own.
type ArticleContent struct {
	URL      string
	Title    string
	Summary  string
	Sections []string
	FullText string
	RawHTML  string
}

// Difficulty levels accepted for a question. Anything else is coerced to
// DifficultyMedium during validation.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is a single multiple-choice question. Constructed once from
// validated model output, immutable thereafter.
type Question struct {
	Text        string
	Options     []string
	Answer      string
	Difficulty  string
	Explanation string
}

// EntityBundle holds the categorized entities extracted from the article.
type EntityBundle struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// NewEntityBundle returns an EntityBundle with every list empty rather
// than nil, so it always serializes as arrays.
func NewEntityBundle() EntityBundle {
	return EntityBundle{
		People:        []string{},
		Organizations: []string{},
		Locations:     []string{},
	}
}

// GeneratedQuiz is the complete output of the model pipeline. Questions may
// be empty on total failure; the caller decides whether that is fatal.
type GeneratedQuiz struct {
	Questions     []Question
	KeyEntities   EntityBundle
	RelatedTopics []string
}

// NewGeneratedQuiz returns a GeneratedQuiz with empty defaults.
func NewGeneratedQuiz() GeneratedQuiz {
	return GeneratedQuiz{
		Questions:     []Question{},
		KeyEntities:   NewEntityBundle(),
		RelatedTopics: []string{},
	}
}
