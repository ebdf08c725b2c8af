package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestGameState_ProposeTrade(t *testing.T) {
	t.Run("Only one trade can be pending", func(t *testing.T) {
		game := newTestGame(t)
		players := withPlayers(t, game, "a", "b")
		players[0].OwnedProperties = []OwnedProperty{{ID: 1}}
		trade := Trade{Proposer: "a", SelectedPlayer: "b", GiveProperties: []int{1}, GetMoney: intPtr(100)}

		require.NoError(t, game.ProposeTrade(trade, nil))
		err := game.ProposeTrade(trade, nil)

		assert.ErrorIs(t, err, ErrTradePending)
	})

	t.Run("Offering a property you do not own is invalid", func(t *testing.T) {
		game := newTestGame(t)
		withPlayers(t, game, "a", "b")

		err := game.ProposeTrade(Trade{Proposer: "a", SelectedPlayer: "b", GiveProperties: []int{1}}, nil)

		assert.ErrorIs(t, err, ErrInvalidTrade)
		_, pending := game.ProposedTrade()
		assert.False(t, pending)
	})

	t.Run("Trading with yourself is invalid", func(t *testing.T) {
		game := newTestGame(t)
		withPlayers(t, game, "a")

		err := game.ProposeTrade(Trade{Proposer: "a", SelectedPlayer: "a", GiveMoney: intPtr(10)}, nil)

		assert.ErrorIs(t, err, ErrInvalidTrade)
	})

	t.Run("Negative money is invalid", func(t *testing.T) {
		game := newTestGame(t)
		withPlayers(t, game, "a", "b")

		err := game.ProposeTrade(Trade{Proposer: "a", SelectedPlayer: "b", GiveMoney: intPtr(-10)}, nil)

		assert.ErrorIs(t, err, ErrInvalidTrade)
	})
}

func TestGameState_ExecuteTrade(t *testing.T) {
	t.Run("Properties and money change hands", func(t *testing.T) {
		// Given: a trades Old Kent Road plus 50 for b's mortgaged Mayfair
		game := newTestGame(t)
		players := withPlayers(t, game, "a", "b")
		a, b := players[0], players[1]
		a.OwnedProperties = []OwnedProperty{{ID: 1}, {ID: 6, Houses: 2}}
		b.OwnedProperties = []OwnedProperty{{ID: 39, Mortgaged: true}}
		trade := Trade{Proposer: "a", SelectedPlayer: "b", GiveProperties: []int{1, 6}, GetProperties: []int{39}, GiveMoney: intPtr(50)}
		require.NoError(t, game.ProposeTrade(trade, nil))

		// When: executing it
		ok, err := game.ExecuteTrade(nil)

		// Then: records keep their level and mortgage, cash is netted and the slot is free
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []OwnedProperty{{ID: 39, Mortgaged: true}}, a.OwnedProperties)
		assert.ElementsMatch(t, []OwnedProperty{{ID: 1}, {ID: 6, Houses: 2}}, b.OwnedProperties)
		assert.Equal(t, DefaultStartingMoney-50, a.Money)
		assert.Equal(t, DefaultStartingMoney+50, b.Money)
		_, pending := game.ProposedTrade()
		assert.False(t, pending)
	})

	t.Run("Stale trade leaves everything untouched", func(t *testing.T) {
		// Given: a pending trade for a property the counterparty has since lost
		game := newTestGame(t)
		players := withPlayers(t, game, "a", "b", "c")
		a, b, c := players[0], players[1], players[2]
		a.OwnedProperties = []OwnedProperty{{ID: 1}}
		b.OwnedProperties = []OwnedProperty{{ID: 39}}
		trade := Trade{Proposer: "a", SelectedPlayer: "b", GiveProperties: []int{1}, GetProperties: []int{39}, GetMoney: intPtr(20)}
		require.NoError(t, game.ProposeTrade(trade, nil))
		moved, _ := b.removeProperty(39)
		c.addProperty(moved)

		// When: executing it
		ok, err := game.ExecuteTrade(nil)

		// Then: it fails and no party changed
		assert.ErrorIs(t, err, ErrTradeStale)
		assert.False(t, ok)
		assert.Equal(t, []OwnedProperty{{ID: 1}}, a.OwnedProperties)
		assert.Empty(t, b.OwnedProperties)
		assert.Equal(t, DefaultStartingMoney, a.Money)
		assert.Equal(t, DefaultStartingMoney, b.Money)
	})

	t.Run("Counterparty short of cash refuses", func(t *testing.T) {
		game := newTestGame(t)
		players := withPlayers(t, game, "a", "b")
		players[0].OwnedProperties = []OwnedProperty{{ID: 1}}
		require.NoError(t, game.ProposeTrade(Trade{Proposer: "a", SelectedPlayer: "b", GiveProperties: []int{1}, GetMoney: intPtr(100)}, nil))
		players[1].Money = 50
		rec := &recorder{}

		ok, err := game.ExecuteTrade(rec.notifier())

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, []OwnedProperty{{ID: 1}}, players[0].OwnedProperties)
		assert.Equal(t, 50, players[1].Money)
		assert.Equal(t, []string{"Insufficient Funds"}, rec.titles())
	})

	t.Run("Nothing to execute", func(t *testing.T) {
		game := newTestGame(t)

		_, err := game.ExecuteTrade(nil)

		assert.ErrorIs(t, err, ErrNoTradePending)
	})
}

func TestGameState_DenyTrade(t *testing.T) {
	t.Run("Deny clears the slot", func(t *testing.T) {
		game := newTestGame(t)
		players := withPlayers(t, game, "a", "b")
		players[0].OwnedProperties = []OwnedProperty{{ID: 1}}
		require.NoError(t, game.ProposeTrade(Trade{Proposer: "a", SelectedPlayer: "b", GiveProperties: []int{1}}, nil))

		require.NoError(t, game.DenyTrade(nil))

		_, pending := game.ProposedTrade()
		assert.False(t, pending)
		assert.ErrorIs(t, game.DenyTrade(nil), ErrNoTradePending)
	})
}

func TestGameState_TradeValue(t *testing.T) {
	t.Run("Values include buildings and cash", func(t *testing.T) {
		game := newTestGame(t)
		players := withPlayers(t, game, "a", "b")
		players[0].OwnedProperties = []OwnedProperty{{ID: 1, Houses: 2}, {ID: 3}}
		players[1].OwnedProperties = []OwnedProperty{{ID: 5}}

		give, get := game.TradeValue(Trade{
			Proposer: "a", SelectedPlayer: "b", GiveProperties: []int{1}, GetProperties: []int{5}, GetMoney: intPtr(10),
		})

		assert.Equal(t, 160, give)
		assert.Equal(t, 210, get)
	})
}
