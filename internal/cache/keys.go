package cache

import "strings"

const (
	GlobalKeyPrefix = "interviewcoach"
)

// GenerateCacheKey builds "interviewcoach:<service>:<object>:<id>". Extra params are
// joined by "_" and appended as a final segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// Keys shared between services.
func QuestionListKey() string {
	return GenerateCacheKey("question", "list", "all")
}

func RevokedSessionKey(sessionID string) string {
	return GenerateCacheKey("auth", "revoked", sessionID)
}

func PasswordResetKey(token string) string {
	return GenerateCacheKey("auth", "reset", token)
}
