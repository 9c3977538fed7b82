package pkg

import "github.com/google/uuid"

// GenerateSessionID - generates a new random identifier for a game session.
func GenerateSessionID() string {
	return uuid.NewString()
}
