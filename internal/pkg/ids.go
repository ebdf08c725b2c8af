package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const gameIDDigits = 8

// GenerateGameID returns a numeric join code with a fixed number of digits.
func GenerateGameID() (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(gameIDDigits), nil)

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate game id: %w", err)
	}

	return fmt.Sprintf("%0*d", gameIDDigits, n), nil
}

func GenerateConnectionID() string {
	return uuid.NewString()
}
