package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	key := GenerateCacheKey("quiz", "url", "abc")
	assert.Equal(t, "wikiquiz:quiz:url:abc", key)
}

func TestQuizResponseKeyIsDeterministic(t *testing.T) {
	url := "https://en.wikipedia.org/wiki/Go_(programming_language)"
	assert.Equal(t, QuizResponseKey(url), QuizResponseKey(url))
	assert.NotEqual(t, QuizResponseKey(url), QuizResponseKey(url+"x"))
}

func TestQuizResponseKeyHashesURL(t *testing.T) {
	key := QuizResponseKey("https://en.wikipedia.org/wiki/Colon:In:Title")
	assert.True(t, strings.HasPrefix(key, "wikiquiz:quiz:url:"))

	// The identifier segment is a hex digest, never the raw URL.
	identifier := strings.TrimPrefix(key, "wikiquiz:quiz:url:")
	assert.Len(t, identifier, 40)
	assert.NotContains(t, identifier, ":")
}
