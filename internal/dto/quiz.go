package dto

import "time"

// GenerateQuizRequest is the request body for quiz generation
// @Description Request body for generating a quiz from a Wikipedia URL
type GenerateQuizRequest struct {
	URL string `json:"url"`
}

// QuestionResponse represents a single quiz question in the API response
type QuestionResponse struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// KeyEntitiesResponse represents the extracted key entities
type KeyEntitiesResponse struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// QuizResponse is the full quiz representation returned by generate and
// detail lookups
// @Description Full quiz with questions, entities and related topics
type QuizResponse struct {
	ID            string             `json:"id"`
	URL           string             `json:"url"`
	Title         string             `json:"title"`
	Summary       string             `json:"summary"`
	KeyEntities   KeyEntitiesResponse `json:"key_entities"`
	Sections      []string           `json:"sections"`
	Quiz          []QuestionResponse `json:"quiz"`
	RelatedTopics []string           `json:"related_topics"`
	CreatedAt     time.Time          `json:"created_at"`
}

// QuizListItem is the abbreviated history record
type QuizListItem struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// PreviewResponse is returned by the URL preview endpoint
type PreviewResponse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Valid bool   `json:"valid"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
