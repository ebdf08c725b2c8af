package entity

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reachableGame plays a few actions so that every snapshot field is populated.
func reachableGame(t *testing.T) *GameState {
	t.Helper()

	game := newTestGame(t, WithDiceRoller(diceSequence([2]int{5, 6})))
	players := withPlayers(t, game, "a", "b")
	players[1].OwnedProperties = []OwnedProperty{{ID: 1, Houses: 2}, {ID: 3}, {ID: 5, Mortgaged: true}}
	players[1].AddPardon()
	game.AddMessage(Message{User: "a", Type: MessagePlayer, Title: "hi", Description: "hello"})
	require.NoError(t, game.MovePlayer(nil))
	require.NoError(t, game.ProposeTrade(Trade{Proposer: "a", SelectedPlayer: "b", GetProperties: []int{5}, GiveMoney: intPtr(100)}, nil))

	return game
}

func TestGameState_SnapshotRoundTrip(t *testing.T) {
	t.Run("Import of an export reproduces the state", func(t *testing.T) {
		// Given: a game in the middle of a turn
		game := reachableGame(t)
		data, err := game.ToJSON()
		require.NoError(t, err)

		// When: another peer imports it
		peer := newTestGame(t)
		require.NoError(t, peer.ImportFromJSON(data))

		// Then: both states are field-wise equal
		assert.Equal(t, game.Snapshot(), peer.Snapshot())

		again, err := peer.ToJSON()
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(again))
	})

	t.Run("Wire format uses the shared field names", func(t *testing.T) {
		game := reachableGame(t)
		data, err := game.ToJSON()
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))

		for _, key := range []string{
			"players", "messages", "currentPlayerIndex", "dice", "gameLocked",
			"selectedProperty", "board", "proposedTrade", "bids",
		} {
			assert.Contains(t, raw, key)
		}
		assert.EqualValues(t, 11, raw["selectedProperty"])

		board, ok := raw["board"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, 40, board["totalSquares"])
	})

	t.Run("Import keeps the local card decks", func(t *testing.T) {
		game := reachableGame(t)
		data, err := game.ToJSON()
		require.NoError(t, err)

		peer := newTestGame(t)
		deck := peer.Board().Deck(CardChance)
		require.NoError(t, peer.ImportFromJSON(data))

		assert.Same(t, deck, peer.Board().Deck(CardChance))
	})
}

func TestGameState_ImportFailures(t *testing.T) {
	mutate := func(t *testing.T, change func(s *Snapshot)) []byte {
		t.Helper()

		snapshot := reachableGame(t).Snapshot()
		change(&snapshot)

		data, err := json.Marshal(snapshot)
		require.NoError(t, err)

		return data
	}

	cases := []struct {
		name   string
		change func(s *Snapshot)
		err    error
	}{
		{
			name:   "Unknown square type",
			change: func(s *Snapshot) { s.Board.Squares[4].Type = "casino" },
			err:    ErrUnknownSquareType,
		},
		{
			name:   "Missing square",
			change: func(s *Snapshot) { s.Board.Squares = s.Board.Squares[:39] },
			err:    ErrBoardLayout,
		},
		{
			name:   "Square count does not fit the size",
			change: func(s *Snapshot) { s.Board.Size = 12 },
			err:    ErrInvalidSnapshot,
		},
		{
			name:   "Property owned twice",
			change: func(s *Snapshot) { s.Players[0].OwnedProperties = []OwnedProperty{{ID: 1}} },
			err:    ErrInvalidPlayer,
		},
		{
			name:   "Improved and mortgaged",
			change: func(s *Snapshot) { s.Players[1].OwnedProperties[0].Mortgaged = true },
			err:    ErrInvalidPlayer,
		},
		{
			name:   "Duplicate colour",
			change: func(s *Snapshot) { s.Players[1].Colour = s.Players[0].Colour },
			err:    ErrInvalidPlayer,
		},
		{
			name:   "Current player out of range",
			change: func(s *Snapshot) { s.CurrentPlayerIndex = 2 },
			err:    ErrInvalidSnapshot,
		},
		{
			name:   "Selection on a card square",
			change: func(s *Snapshot) { s.SelectedProperty = intPtr(7) },
			err:    ErrNotBuyable,
		},
		{
			name:   "Trade with an unknown party",
			change: func(s *Snapshot) { s.ProposedTrade.SelectedPlayer = "ghost" },
			err:    ErrInvalidTrade,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name+" leaves the state untouched", func(t *testing.T) {
			// Given: a peer with a known state
			peer := reachableGame(t)
			before := peer.Snapshot()

			// When: importing a broken snapshot
			err := peer.ImportFromJSON(mutate(t, tc.change))

			// Then: the import fails and nothing changed
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, before, peer.Snapshot())
		})
	}

	t.Run("Malformed JSON", func(t *testing.T) {
		peer := newTestGame(t)

		err := peer.ImportFromJSON([]byte(`{"players":`))

		assert.ErrorIs(t, err, ErrInvalidSnapshot)
	})
}

func TestGameState_Decks(t *testing.T) {
	t.Run("Restored decks continue where the saved ones stopped", func(t *testing.T) {
		// Given: a game with three chance cards drawn
		game := newTestGame(t)
		for range 3 {
			game.Board().DrawCard(CardChance)
		}

		data, err := game.DecksToJSON()
		require.NoError(t, err)

		// When: a fresh game with its own shuffle restores the saved decks
		restored := newTestGame(t, WithRand(rand.New(rand.NewPCG(7, 8))))
		require.NoError(t, restored.ImportDecksFromJSON(data))

		// Then: both draw the same remaining cards
		for range ChanceCards() {
			assert.Equal(t, game.Board().DrawCard(CardChance), restored.Board().DrawCard(CardChance))
		}
		assert.Equal(t, game.Decks(), restored.Decks())
	})

	t.Run("Order that is not a permutation is rejected", func(t *testing.T) {
		// Given: saved decks where one chance card appears twice
		game := newTestGame(t)
		decks := game.Decks()
		decks.Chance.Order[0] = decks.Chance.Order[1]

		data, err := json.Marshal(decks)
		require.NoError(t, err)

		before := game.Decks()

		// When: importing them
		err = game.ImportDecksFromJSON(data)

		// Then: the import fails and the decks are unchanged
		require.ErrorIs(t, err, ErrInvalidDeckState)
		assert.Equal(t, before, game.Decks())
	})

	t.Run("Cursor past the end is rejected", func(t *testing.T) {
		game := newTestGame(t)
		decks := game.Decks()
		decks.Community.Cursor = len(decks.Community.Order)

		data, err := json.Marshal(decks)
		require.NoError(t, err)

		assert.ErrorIs(t, game.ImportDecksFromJSON(data), ErrInvalidDeckState)
	})

	t.Run("Decks are not part of the snapshot", func(t *testing.T) {
		data, err := newTestGame(t).ToJSON()
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))

		assert.NotContains(t, raw, "decks")
		assert.NotContains(t, raw, "chance")
	})
}
