package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"
)

// Document is the untyped JSON object recovered from model output. It is
// deliberately only pattern-matched at this boundary; validated values are
// converted to domain types immediately and the untyped shape never leaks
// further.
type Document map[string]interface{}

var (
	fenceOpenPattern  = regexp.MustCompile("```json\\s*")
	fenceClosePattern = regexp.MustCompile("```\\s*")
)

// ParseJSONObject recovers a JSON object embedded in model output text.
// It strips markdown code fences, then tries the substring between the
// first '{' and the last '}', then the whole trimmed text.
func ParseJSONObject(raw string) (Document, error) {
	text := fenceOpenPattern.ReplaceAllString(raw, "")
	text = fenceClosePattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		var doc Document
		if err := json.Unmarshal([]byte(text[start:end+1]), &doc); err == nil {
			return doc, nil
		}
	}

	var doc Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, domain.NewMalformedResponseError("No parseable JSON object in model response", err)
	}
	return doc, nil
}

// requiredQuestionFields must all be present on a candidate or it is
// dropped, never repaired.
var requiredQuestionFields = []string{"question", "options", "answer", "difficulty", "explanation"}

// ValidateQuestions converts raw question candidates into domain Questions.
// Candidates missing a required field or lacking exactly 4 options are
// discarded; invalid difficulty values are coerced to medium. Order of
// surviving questions matches input order.
func ValidateQuestions(candidates []interface{}) []domain.Question {
	l := logger.Get()
	questions := []domain.Question{}

	for _, candidate := range candidates {
		obj, ok := candidate.(map[string]interface{})
		if !ok {
			continue
		}
		if !hasRequiredFields(obj) {
			l.Warn("Dropping question candidate with missing fields")
			continue
		}

		text, ok := obj["question"].(string)
		if !ok || text == "" {
			continue
		}
		answer, ok := obj["answer"].(string)
		if !ok {
			continue
		}
		explanation, ok := obj["explanation"].(string)
		if !ok {
			continue
		}

		options := toStringList(obj["options"])
		if len(options) != 4 {
			l.Warn("Dropping question candidate without exactly 4 options",
				zap.Int("options", len(options)))
			continue
		}

		difficulty, _ := obj["difficulty"].(string)
		switch difficulty {
		case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
		default:
			difficulty = domain.DifficultyMedium
		}

		// The model is instructed, but not forced, to make the answer
		// match one of the options verbatim. Mismatches are kept.
		if !containsString(options, answer) {
			l.Warn("Question answer does not match any option",
				zap.String("question", text),
				zap.String("answer", answer),
			)
		}

		questions = append(questions, domain.Question{
			Text:        text,
			Options:     options,
			Answer:      answer,
			Difficulty:  difficulty,
			Explanation: explanation,
		})
	}

	return questions
}

// ValidateEntities extracts the entity bundle and related topics from a
// parsed document, defaulting every list to empty when absent.
func ValidateEntities(doc Document) (domain.EntityBundle, []string) {
	bundle := domain.NewEntityBundle()

	if entities, ok := doc["key_entities"].(map[string]interface{}); ok {
		bundle.People = toStringList(entities["people"])
		bundle.Organizations = toStringList(entities["organizations"])
		bundle.Locations = toStringList(entities["locations"])
	}

	topics := toStringList(doc["related_topics"])
	return bundle, topics
}

func hasRequiredFields(obj map[string]interface{}) bool {
	for _, field := range requiredQuestionFields {
		if _, present := obj[field]; !present {
			return false
		}
	}
	return true
}

func toStringList(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
