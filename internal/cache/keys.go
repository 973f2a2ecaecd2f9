package cache

import "fmt"

// QuizTreeKey is the cache key for a fully-loaded quiz tree.
func QuizTreeKey(quizID string) string {
	return fmt.Sprintf("quiz:tree:%s", quizID)
}

// GuestSessionKey is the cache key mapping a session ID to its durable
// guest label.
func GuestSessionKey(sessionID string) string {
	return fmt.Sprintf("session:guest:%s", sessionID)
}
