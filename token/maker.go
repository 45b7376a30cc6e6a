package token

import (
	"time"

	"github.com/google/uuid"
)

// Maker is the contract for anything that can create and verify tokens.
// Keeping it behind an interface lets the token implementation change
// without touching the rest of the application.
type Maker interface {
	CreateToken(userID uuid.UUID, email string, role string, duration time.Duration) (string, error)

	VerifyToken(token string) (*Payload, error)
}
