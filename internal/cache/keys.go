package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "wikiquiz"
)

// GenerateCacheKey generates a cache key for a given service, object type,
// and identifier, joined by ":" under the global prefix.
func GenerateCacheKey(serviceName, objectType, identifier string) string {
	return strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
}

// QuizResponseKey is the cache key for a serialized quiz response. The URL
// is hashed so arbitrary article URLs cannot blow up key length or inject
// separator characters.
func QuizResponseKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return GenerateCacheKey("quiz", "url", hex.EncodeToString(sum[:]))
}
