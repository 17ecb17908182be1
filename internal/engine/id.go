package engine

import "github.com/google/uuid"

// generateID creates a short random ID for tagging a run in the logs.
func generateID() string {
	return uuid.NewString()[:8]
}
