package cache

import "strings"

const (
	GlobalKeyPrefix = "qbank"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// ExtractionKey is the key of the text extracted from a document with the
// given content hash.
func ExtractionKey(contentHash string) string {
	return GenerateCacheKey("extractor", "text", contentHash)
}
