package entity

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diceSequence replays the given rolls in order, cycling at the end.
func diceSequence(rolls ...[2]int) DiceRoller {
	next := 0

	return func(*rand.Rand) [2]int {
		roll := rolls[next%len(rolls)]
		next++

		return roll
	}
}

func newTestGame(t *testing.T, opts ...Option) *GameState {
	t.Helper()

	game, err := NewGameState(ThemeUK, append([]Option{WithRand(newTestRand())}, opts...)...)
	require.NoError(t, err)

	return game
}

func withPlayers(t *testing.T, game *GameState, ids ...string) []*Player {
	t.Helper()

	players := make([]*Player, 0, len(ids))
	for _, id := range ids {
		player, err := game.AddPlayer(id, "Player "+id)
		require.NoError(t, err)

		players = append(players, player)
	}

	return players
}

type recorder struct {
	items []Notification
}

func (r *recorder) notifier() Notifier {
	return func(n Notification) { r.items = append(r.items, n) }
}

func (r *recorder) titles() []string {
	result := make([]string, 0, len(r.items))
	for _, n := range r.items {
		result = append(result, n.Title)
	}

	return result
}

func TestGameState_AddPlayer(t *testing.T) {
	t.Run("Players get distinct colours in join order", func(t *testing.T) {
		// Given: a new game
		game := newTestGame(t)

		// When: two players join
		players := withPlayers(t, game, "b", "a")

		// Then: they are seated in join order with the first palette colours
		assert.Equal(t, "bg-red-500", players[0].Colour)
		assert.Equal(t, "bg-orange-500", players[1].Colour)
		assert.Equal(t, DefaultStartingMoney, players[0].Money)

		current, err := game.CurrentPlayer()
		require.NoError(t, err)
		assert.Equal(t, "b", current.ID)
	})

	t.Run("Duplicate id is rejected", func(t *testing.T) {
		game := newTestGame(t)
		withPlayers(t, game, "a")

		_, err := game.AddPlayer("a", "again")

		assert.ErrorIs(t, err, ErrDuplicatePlayer)
	})

	t.Run("Game is full once the palette is used up", func(t *testing.T) {
		// Given: a session palette with two colours
		rules := DefaultRules()
		rules.Palette = []string{"red", "blue"}
		game := newTestGame(t, WithRules(rules))
		withPlayers(t, game, "a", "b")

		// When: a third player joins
		_, err := game.AddPlayer("c", "Carol")

		// Then: ErrGameFull is returned
		assert.ErrorIs(t, err, ErrGameFull)
	})

	t.Run("A freed colour is reused", func(t *testing.T) {
		game := newTestGame(t)
		withPlayers(t, game, "a", "b")
		require.NoError(t, game.RemovePlayer("a"))

		player, err := game.AddPlayer("c", "Carol")

		require.NoError(t, err)
		assert.Equal(t, "bg-red-500", player.Colour)
	})
}

func TestGameState_RemovePlayer(t *testing.T) {
	t.Run("Removing an earlier player keeps the current one", func(t *testing.T) {
		// Given: three players with the second on turn
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{1, 2})))
		withPlayers(t, game, "a", "b", "c")
		require.NoError(t, game.MovePlayer(nil))
		require.NoError(t, game.PassProperty())
		require.NoError(t, game.EndTurn())

		// When: the first player leaves
		require.NoError(t, game.RemovePlayer("a"))

		// Then: "b" is still current
		current, err := game.CurrentPlayer()
		require.NoError(t, err)
		assert.Equal(t, "b", current.ID)
	})

	t.Run("Removing the last seated current player wraps the turn", func(t *testing.T) {
		game := newTestGame(t)
		withPlayers(t, game, "a", "b")
		game.currentPlayerIndex = 1

		require.NoError(t, game.RemovePlayer("b"))

		assert.Equal(t, 0, game.CurrentPlayerIndex())
		assert.False(t, game.IsLocked())
	})

	t.Run("Leaving cancels a trade and releases properties", func(t *testing.T) {
		game := newTestGame(t)
		players := withPlayers(t, game, "a", "b")
		players[1].OwnedProperties = []OwnedProperty{{ID: 39}}
		require.NoError(t, game.ProposeTrade(Trade{Proposer: "a", SelectedPlayer: "b", GetProperties: []int{39}}, nil))

		require.NoError(t, game.RemovePlayer("b"))

		_, pending := game.ProposedTrade()
		assert.False(t, pending)
		assert.Nil(t, game.Owner(39))
	})

	t.Run("Unknown player", func(t *testing.T) {
		game := newTestGame(t)

		assert.ErrorIs(t, game.RemovePlayer("ghost"), ErrPlayerNotFound)
	})
}

func TestGameState_MovePlayer(t *testing.T) {
	t.Run("Pass GO bonus is credited once", func(t *testing.T) {
		// Given: a player on 35
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{4, 6})))
		players := withPlayers(t, game, "a")
		players[0].SetPosition(35)

		// When: rolling a ten
		require.NoError(t, game.MovePlayer(nil))

		// Then: the player lands on 5 with exactly one bonus
		assert.Equal(t, 5, players[0].Position)
		assert.Equal(t, DefaultStartingMoney+DefaultPassGoBonus, players[0].Money)
		assert.True(t, game.IsLocked())
	})

	t.Run("Go To Jail relocates without a bonus", func(t *testing.T) {
		// Given: a player three squares before Go To Jail
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{1, 2})))
		players := withPlayers(t, game, "a")
		players[0].SetPosition(27)
		rec := &recorder{}

		// When: rolling a three
		require.NoError(t, game.MovePlayer(rec.notifier()))

		// Then: the player is in jail and was paid nothing
		assert.Equal(t, 10, players[0].Position)
		assert.Equal(t, DefaultStartingMoney, players[0].Money)
		assert.False(t, players[0].PassedGo(game.Board().JailPosition()))
		assert.Contains(t, rec.titles(), "Go to Jail")
	})

	t.Run("Landing on an unowned square awaits a decision", func(t *testing.T) {
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{5, 6})))
		withPlayers(t, game, "a")

		require.NoError(t, game.MovePlayer(nil))

		selected, ok := game.SelectedProperty()
		require.True(t, ok)
		assert.Equal(t, 11, selected)
	})

	t.Run("Rolling again on a locked turn is refused", func(t *testing.T) {
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{1, 3})))
		withPlayers(t, game, "a")
		require.NoError(t, game.MovePlayer(nil))

		assert.ErrorIs(t, game.MovePlayer(nil), ErrTurnLocked)
	})

	t.Run("Rolling while a purchase is pending is refused", func(t *testing.T) {
		// Given: a double landing on The Angel Islington
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{3, 3})))
		withPlayers(t, game, "a")
		require.NoError(t, game.MovePlayer(nil))
		require.False(t, game.IsLocked())

		// When: rolling again before deciding
		err := game.MovePlayer(nil)

		// Then: the roll is refused
		assert.ErrorIs(t, err, ErrTurnLocked)
	})

	t.Run("Rolling without players fails", func(t *testing.T) {
		game := newTestGame(t)

		assert.ErrorIs(t, game.MovePlayer(nil), ErrNoPlayers)
	})
}

func TestGameState_Doubles(t *testing.T) {
	t.Run("A double grants another roll", func(t *testing.T) {
		// Given: a double then a plain roll
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{3, 3}, [2]int{1, 2})))
		withPlayers(t, game, "a", "b")

		// When: rolling a double
		require.NoError(t, game.MovePlayer(nil))
		require.NoError(t, game.PassProperty())

		// Then: the turn can not end yet
		assert.False(t, game.IsLocked())
		assert.Equal(t, 1, game.DoublesRolled())
		assert.ErrorIs(t, game.EndTurn(), ErrTurnNotFinished)

		// When: rolling again without a double
		require.NoError(t, game.MovePlayer(nil))
		require.NoError(t, game.PassProperty())

		// Then: the turn ends and passes on
		require.NoError(t, game.EndTurn())
		assert.Equal(t, 1, game.CurrentPlayerIndex())
		assert.Equal(t, 0, game.DoublesRolled())
	})

	t.Run("Too many doubles send the player to jail", func(t *testing.T) {
		// Given: three doubles in a row
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{2, 2})))
		players := withPlayers(t, game, "a")
		rec := &recorder{}

		// When: rolling three times
		require.NoError(t, game.MovePlayer(rec.notifier()))
		require.NoError(t, game.MovePlayer(rec.notifier()))
		require.NoError(t, game.PassProperty())
		require.NoError(t, game.MovePlayer(rec.notifier()))

		// Then: the third double jails the player and locks the turn
		assert.Equal(t, 10, players[0].Position)
		assert.True(t, game.IsLocked())
		assert.Equal(t, DefaultStartingMoney-200, players[0].Money)
		assert.Equal(t, VariantDestructive, rec.items[len(rec.items)-1].Variant)
		require.NoError(t, game.EndTurn())
	})
}

func TestGameState_EndTurn(t *testing.T) {
	t.Run("Negative balance blocks the end of the turn", func(t *testing.T) {
		// Given: a player who rolled and is in debt
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{1, 3})))
		players := withPlayers(t, game, "a", "b")
		require.NoError(t, game.MovePlayer(nil))
		players[0].Money = -5

		// When: ending the turn
		err := game.EndTurn()

		// Then: it is refused and the turn stays
		assert.ErrorIs(t, err, ErrNegativeBalance)
		assert.Equal(t, 0, game.CurrentPlayerIndex())
	})

	t.Run("Turn can not end before rolling", func(t *testing.T) {
		game := newTestGame(t)
		withPlayers(t, game, "a")

		assert.ErrorIs(t, game.EndTurn(), ErrTurnNotFinished)
	})

	t.Run("Turn can not end with a pending purchase", func(t *testing.T) {
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{5, 6})))
		withPlayers(t, game, "a")
		require.NoError(t, game.MovePlayer(nil))

		assert.ErrorIs(t, game.EndTurn(), ErrTurnNotFinished)
	})

	t.Run("Turns rotate in join order", func(t *testing.T) {
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{1, 3})))
		withPlayers(t, game, "z", "a")

		require.NoError(t, game.MovePlayer(nil))
		require.NoError(t, game.EndTurn())
		current, err := game.CurrentPlayer()
		require.NoError(t, err)
		assert.Equal(t, "a", current.ID)

		require.NoError(t, game.MovePlayer(nil))
		require.NoError(t, game.EndTurn())
		current, err = game.CurrentPlayer()
		require.NoError(t, err)
		assert.Equal(t, "z", current.ID)
	})
}

func TestGameState_BuyProperty(t *testing.T) {
	t.Run("Buying the selected property", func(t *testing.T) {
		// Given: a player on Pall Mall awaiting a decision
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{5, 6})))
		players := withPlayers(t, game, "a")
		require.NoError(t, game.MovePlayer(nil))

		// When: buying
		ok, err := game.BuyProperty(nil)

		// Then: ownership is recorded and the selection cleared
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, DefaultStartingMoney-140, players[0].Money)
		assert.Same(t, players[0], game.Owner(11))
		_, pending := game.SelectedProperty()
		assert.False(t, pending)
	})

	t.Run("Buying without funds keeps the decision pending", func(t *testing.T) {
		game := newTestGame(t, WithDiceRoller(diceSequence([2]int{5, 6})))
		players := withPlayers(t, game, "a")
		players[0].Money = 100
		require.NoError(t, game.MovePlayer(nil))
		rec := &recorder{}

		ok, err := game.BuyProperty(rec.notifier())

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, []string{"Insufficient Funds"}, rec.titles())
		_, pending := game.SelectedProperty()
		assert.True(t, pending)
	})

	t.Run("Buying without a selection fails", func(t *testing.T) {
		game := newTestGame(t)
		withPlayers(t, game, "a")

		_, err := game.BuyProperty(nil)

		assert.ErrorIs(t, err, ErrNoPendingPurchase)
		assert.ErrorIs(t, game.PassProperty(), ErrNoPendingPurchase)
	})
}

func TestGameState_BuyHouseAndMortgage(t *testing.T) {
	t.Run("Building requires the colour set", func(t *testing.T) {
		game := newTestGame(t)
		players := withPlayers(t, game, "a")
		players[0].OwnedProperties = []OwnedProperty{{ID: 1}}
		rec := &recorder{}

		ok, err := game.BuyHouse(1, rec.notifier())

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, DefaultStartingMoney, players[0].Money)
		assert.Equal(t, VariantDestructive, rec.items[0].Variant)
	})

	t.Run("Building on a full set", func(t *testing.T) {
		game := newTestGame(t)
		players := withPlayers(t, game, "a")
		players[0].OwnedProperties = []OwnedProperty{{ID: 1}, {ID: 3}}

		ok, err := game.BuyHouse(1, nil)

		require.NoError(t, err)
		assert.True(t, ok)
		owned, _ := players[0].Owned(1)
		assert.Equal(t, 1, owned.Houses)
	})

	t.Run("Building on a station is an invariant violation", func(t *testing.T) {
		game := newTestGame(t)
		withPlayers(t, game, "a")

		_, err := game.BuyHouse(5, nil)

		assert.ErrorIs(t, err, ErrNotProperty)
	})

	t.Run("Mortgage toggles through the game", func(t *testing.T) {
		game := newTestGame(t)
		players := withPlayers(t, game, "a")
		players[0].OwnedProperties = []OwnedProperty{{ID: 11}}

		ok, err := game.Mortgage(11, nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, DefaultStartingMoney+70, players[0].Money)

		ok, err = game.Mortgage(11, nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, DefaultStartingMoney, players[0].Money)
	})

	t.Run("Mortgaging an improved property is refused", func(t *testing.T) {
		game := newTestGame(t)
		players := withPlayers(t, game, "a")
		players[0].OwnedProperties = []OwnedProperty{{ID: 1, Houses: 2}, {ID: 3}}

		ok, err := game.Mortgage(1, nil)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, players[0].IsMortgaged(1))
	})

	t.Run("Mortgaging a tax square is an invariant violation", func(t *testing.T) {
		game := newTestGame(t)
		withPlayers(t, game, "a")

		_, err := game.Mortgage(4, nil)

		assert.ErrorIs(t, err, ErrNotBuyable)
	})
}

func TestGameState_Messages(t *testing.T) {
	t.Run("Trim keeps the newest messages", func(t *testing.T) {
		game := newTestGame(t)
		for _, title := range []string{"one", "two", "three"} {
			game.AddMessage(Message{User: "a", Type: MessagePlayer, Title: title})
		}

		game.TrimMessages(2)

		messages := game.Messages()
		require.Len(t, messages, 2)
		assert.Equal(t, "two", messages[0].Title)
		assert.Equal(t, "three", messages[1].Title)
	})
}
