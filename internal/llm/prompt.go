package llm

import "fmt"

// Question count bounds applied before prompt substitution.
const (
	minQuestionCount = 5
	maxQuestionCount = 10
)

const quizPromptTemplate = `You are an expert quiz creator. Your task is to generate high-quality
multiple-choice quiz questions from Wikipedia article content.

RULES:
- Generate exactly %d questions.
- Each question MUST be directly answerable from the provided article text.
- Do NOT invent facts or use knowledge outside the article.
- Questions should cover different sections and topics from the article.
- Distribute difficulty levels: roughly 30%% easy, 40%% medium, 30%% hard.
- Each question must have exactly 4 options (A-D) with only one correct answer.
- Explanations should reference which part of the article contains the answer.
- Options should be plausible and not obviously wrong.

OUTPUT FORMAT - respond with ONLY valid JSON (no markdown, no extra text):
{
  "quiz": [
    {
      "question": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "The correct option text (must exactly match one of the options)",
      "difficulty": "easy|medium|hard",
      "explanation": "Brief explanation referencing the article content."
    }
  ]
}

Generate a quiz from this Wikipedia article:

TITLE: %s

ARTICLE CONTENT:
%s

Generate exactly %d questions. Return ONLY valid JSON.`

const entityPromptTemplate = `You are an expert at extracting structured information from text.
Extract key entities and suggest related Wikipedia topics from the article.

RULES:
- Extract real entities mentioned in the article text only.
- Categorize entities into: people, organizations, locations.
- Suggest 3-5 related Wikipedia topics that a reader might find interesting.
- Related topics should be real Wikipedia article subjects.

OUTPUT FORMAT - respond with ONLY valid JSON (no markdown, no extra text):
{
  "key_entities": {
    "people": ["Person 1", "Person 2"],
    "organizations": ["Org 1", "Org 2"],
    "locations": ["Location 1", "Location 2"]
  },
  "related_topics": ["Topic 1", "Topic 2", "Topic 3"]
}

Extract entities and suggest related topics from this Wikipedia article:

TITLE: %s

ARTICLE CONTENT:
%s

Return ONLY valid JSON.`

// ClampQuestionCount bounds the requested count to the supported range.
func ClampQuestionCount(count int) int {
	if count < minQuestionCount {
		return minQuestionCount
	}
	if count > maxQuestionCount {
		return maxQuestionCount
	}
	return count
}

// BuildQuizPrompt renders the quiz-generation prompt. Pure templating,
// no I/O.
func BuildQuizPrompt(title, content string, questionCount int) string {
	n := ClampQuestionCount(questionCount)
	return fmt.Sprintf(quizPromptTemplate, n, title, content, n)
}

// BuildEntityPrompt renders the entity/topic-extraction prompt.
func BuildEntityPrompt(title, content string) string {
	return fmt.Sprintf(entityPromptTemplate, title, content)
}
