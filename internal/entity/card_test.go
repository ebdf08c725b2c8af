package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(cards []Card) []string {
	result := make([]string, 0, len(cards))
	for _, card := range cards {
		result = append(result, card.Title)
	}

	return result
}

func TestCardDeck(t *testing.T) {
	t.Run("Standard decks have the expected sizes", func(t *testing.T) {
		assert.Len(t, ChanceCards(), 11)
		assert.Len(t, CommunityCards(), 16)
	})

	t.Run("Draw N+1 repeats the first card", func(t *testing.T) {
		// Given: a freshly shuffled deck of N cards
		deck := NewCardDeck(CommunityCards(), newTestRand())

		// When: drawing N+1 cards
		first := deck.Draw()
		for i := 1; i < deck.Len(); i++ {
			deck.Draw()
		}
		again := deck.Draw()

		// Then: the cycle starts over with the same card
		assert.Equal(t, first, again)
	})

	t.Run("A full cycle is a permutation of the deck", func(t *testing.T) {
		// Given: a shuffled chance deck
		deck := NewCardDeck(ChanceCards(), newTestRand())

		// When: drawing one full cycle
		drawn := make([]Card, 0, deck.Len())
		for i := 0; i < deck.Len(); i++ {
			drawn = append(drawn, deck.Draw())
		}

		// Then: every card appears exactly once
		assert.ElementsMatch(t, titles(ChanceCards()), titles(drawn))
	})

	t.Run("Shuffle rewinds the cursor", func(t *testing.T) {
		// Given: a deck with two cards drawn
		deck := NewCardDeck(ChanceCards(), newTestRand())
		deck.Draw()
		deck.Draw()

		// When: shuffling again
		deck.Shuffle(newTestRand())

		// Then: the next draw is the head of the new order
		head := deck.Cards()[0]
		assert.Equal(t, head, deck.Draw())
	})

	t.Run("Reset rebuilds both board decks", func(t *testing.T) {
		// Given: a board with a partly drawn chance deck
		board := newTestBoard(t)
		board.DrawCard(CardChance)

		// When: resetting
		board.ResetCardDecks()

		// Then: both decks are complete again
		require.NotNil(t, board.Deck(CardChance))
		assert.Equal(t, 11, board.Deck(CardChance).Len())
		assert.Equal(t, 16, board.Deck(CardCommunity).Len())
	})
}
