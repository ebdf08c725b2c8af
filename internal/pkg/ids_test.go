package pkg

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGameID(t *testing.T) {
	t.Run("Game id is eight digits", func(t *testing.T) {
		id, err := GenerateGameID()

		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^\d{8}$`), id)
	})
}

func TestGenerateConnectionID(t *testing.T) {
	t.Run("Connection ids are distinct uuids", func(t *testing.T) {
		first := GenerateConnectionID()
		second := GenerateConnectionID()

		_, err := uuid.Parse(first)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}
