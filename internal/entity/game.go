package entity

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// DiceRoller produces the two die values of a roll.
type DiceRoller func(rng *rand.Rand) [2]int

// RollDice rolls two independent fair six-sided dice.
func RollDice(rng *rand.Rand) [2]int {
	return [2]int{rng.IntN(6) + 1, rng.IntN(6) + 1}
}

type Option func(*GameState)

func WithRand(rng *rand.Rand) Option {
	return func(g *GameState) { g.rng = rng }
}

func WithRules(rules Rules) Option {
	return func(g *GameState) { g.rules = rules }
}

func WithBoardSize(size int) Option {
	return func(g *GameState) { g.boardSize = size }
}

func WithDiceRoller(roller DiceRoller) Option {
	return func(g *GameState) { g.roller = roller }
}

// GameState is the authoritative aggregate of one session. It is not safe for concurrent use.
type GameState struct {
	board     *Board
	boardSize int
	rules     Rules
	rng       *rand.Rand
	roller    DiceRoller

	players            []*Player
	currentPlayerIndex int
	dice               [2]int
	gameLocked         bool
	doublesRolled      int
	selectedProperty   *int
	proposedTrade      *Trade
	messages           []Message
	bids               []Bid
}

func NewGameState(theme Theme, opts ...Option) (*GameState, error) {
	game := &GameState{
		boardSize: DefaultBoardSize,
		rules:     DefaultRules(),
		roller:    RollDice,
		dice:      [2]int{1, 1},
		players:   []*Player{},
		messages:  []Message{},
	}

	for _, opt := range opts {
		opt(game)
	}

	if game.rng == nil {
		game.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	board, err := NewBoard(theme, game.boardSize, game.rng)
	if err != nil {
		return nil, err
	}

	game.board = board

	return game, nil
}

func (that *GameState) Board() *Board {
	return that.board
}

func (that *GameState) Rules() Rules {
	return that.rules
}

// Players returns the players in turn order.
func (that *GameState) Players() []*Player {
	return slices.Clone(that.players)
}

func (that *GameState) Player(id string) (*Player, error) {
	for _, player := range that.players {
		if player.ID == id {
			return player, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
}

func (that *GameState) CurrentPlayer() (*Player, error) {
	if len(that.players) == 0 {
		return nil, ErrNoPlayers
	}

	return that.players[that.currentPlayerIndex], nil
}

func (that *GameState) CurrentPlayerIndex() int {
	return that.currentPlayerIndex
}

func (that *GameState) Dice() [2]int {
	return that.dice
}

func (that *GameState) DiceTotal() int {
	return that.dice[0] + that.dice[1]
}

func (that *GameState) IsLocked() bool {
	return that.gameLocked
}

func (that *GameState) DoublesRolled() int {
	return that.doublesRolled
}

// SelectedProperty returns the square awaiting a buy or pass decision.
func (that *GameState) SelectedProperty() (int, bool) {
	if that.selectedProperty == nil {
		return 0, false
	}

	return *that.selectedProperty, true
}

func (that *GameState) ProposedTrade() (Trade, bool) {
	if that.proposedTrade == nil {
		return Trade{}, false
	}

	return that.proposedTrade.clone(), true
}

func (that *GameState) Messages() []Message {
	return slices.Clone(that.messages)
}

func (that *GameState) AddMessage(msg Message) {
	that.messages = append(that.messages, msg)
}

// TrimMessages keeps only the newest limit messages. A limit of zero keeps everything.
func (that *GameState) TrimMessages(limit int) {
	if limit > 0 && len(that.messages) > limit {
		that.messages = slices.Clone(that.messages[len(that.messages)-limit:])
	}
}

// Owner finds the player holding squareID, or nil when it is unowned.
func (that *GameState) Owner(squareID int) *Player {
	for _, player := range that.players {
		if player.OwnsProperty(squareID) {
			return player
		}
	}

	return nil
}

func (that *GameState) ResetCardDecks() {
	that.board.ResetCardDecks()
}

// AddPlayer seats a new player at the end of the turn order with the first free palette colour.
func (that *GameState) AddPlayer(id, name string) (*Player, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidPlayer)
	}

	if _, err := that.Player(id); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
	}

	colour, ok := that.freeColour()
	if !ok {
		return nil, ErrGameFull
	}

	player := NewPlayer(id, name, colour, that.rules.StartingMoney)
	that.players = append(that.players, player)

	return player, nil
}

func (that *GameState) freeColour() (string, bool) {
	for _, colour := range that.rules.Palette {
		taken := slices.ContainsFunc(that.players, func(p *Player) bool { return p.Colour == colour })
		if !taken {
			return colour, true
		}
	}

	return "", false
}

// RemovePlayer drops a player together with their properties and any trade they are part of.
func (that *GameState) RemovePlayer(id string) error {
	idx := slices.IndexFunc(that.players, func(p *Player) bool { return p.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}

	wasCurrent := idx == that.currentPlayerIndex
	that.players = slices.Delete(that.players, idx, idx+1)

	if that.proposedTrade != nil && that.proposedTrade.involves(id) {
		that.proposedTrade = nil
	}

	switch {
	case len(that.players) == 0:
		that.currentPlayerIndex = 0
		that.resetTurn()
	case idx < that.currentPlayerIndex:
		that.currentPlayerIndex--
	case wasCurrent:
		if that.currentPlayerIndex >= len(that.players) {
			that.currentPlayerIndex = 0
		}
		that.resetTurn()
	}

	return nil
}

func (that *GameState) resetTurn() {
	that.gameLocked = false
	that.doublesRolled = 0
	that.selectedProperty = nil
}

// MovePlayer rolls the dice for the current player, moves them and resolves the landing square.
// A double leaves the turn open for another roll, unless it is one double too many.
func (that *GameState) MovePlayer(notify Notifier) error {
	player, err := that.CurrentPlayer()
	if err != nil {
		return err
	}

	if that.gameLocked || that.selectedProperty != nil {
		return ErrTurnLocked
	}

	that.dice = that.roller(that.rng)
	total := that.DiceTotal()
	doubles := that.dice[0] == that.dice[1]

	if !doubles {
		that.doublesRolled = 0
		that.gameLocked = true
	} else {
		that.doublesRolled++
		if that.rules.MaxDoubles > 0 && that.doublesRolled >= that.rules.MaxDoubles {
			that.sendToJail(player)
			notify.warn("Go to Jail", fmt.Sprintf("%s rolled %d doubles in a row and has been sent to jail!",
				player.Name, that.doublesRolled))

			return nil
		}
	}

	player.MoveForward(total, that.board)

	if player.PassedGo(that.board.JailPosition()) {
		player.AddMoney(that.rules.PassGoBonus)
		notify.notify("Passing GO", fmt.Sprintf("%s collected £%d for passing GO!", player.Name, that.rules.PassGoBonus))
	}

	return that.handleLanding(player, total, notify)
}

// EndTurn passes the turn to the next player in join order.
func (that *GameState) EndTurn() error {
	player, err := that.CurrentPlayer()
	if err != nil {
		return err
	}

	if !that.gameLocked || that.selectedProperty != nil {
		return ErrTurnNotFinished
	}

	if player.Money < 0 {
		return fmt.Errorf("%w: %s has £%d", ErrNegativeBalance, player.Name, player.Money)
	}

	that.currentPlayerIndex = (that.currentPlayerIndex + 1) % len(that.players)
	that.resetTurn()

	return nil
}

// BuyProperty buys the pending square for the current player.
func (that *GameState) BuyProperty(notify Notifier) (bool, error) {
	if that.selectedProperty == nil {
		return false, ErrNoPendingPurchase
	}

	player, err := that.CurrentPlayer()
	if err != nil {
		return false, err
	}

	square, err := that.board.BuyableAt(*that.selectedProperty)
	if err != nil {
		return false, err
	}

	if owner := that.Owner(square.Index()); owner != nil {
		return false, fmt.Errorf("%w: %s by %s", ErrAlreadyOwned, square.Title(), owner.Name)
	}

	if !player.BuyProperty(square) {
		notify.warn("Insufficient Funds", fmt.Sprintf("%s can not afford %s for £%d", player.Name, square.Title(), square.Cost()))
		return false, nil
	}

	that.selectedProperty = nil
	notify.notify("Property Purchased", fmt.Sprintf("%s bought %s for £%d", player.Name, square.Title(), square.Cost()))

	return true, nil
}

// PassProperty declines the pending purchase.
func (that *GameState) PassProperty() error {
	if that.selectedProperty == nil {
		return ErrNoPendingPurchase
	}

	that.selectedProperty = nil

	return nil
}

// BuyHouse improves a property of the current player by one level.
func (that *GameState) BuyHouse(propertyID int, notify Notifier) (bool, error) {
	player, err := that.CurrentPlayer()
	if err != nil {
		return false, err
	}

	property, err := that.board.PropertyAt(propertyID)
	if err != nil {
		return false, err
	}

	owned, ok := player.Owned(propertyID)

	switch {
	case !ok:
		notify.warn("Can Not Build", fmt.Sprintf("%s does not own %s", player.Name, property.Name))
		return false, nil
	case !player.OwnsPropertyGroup(property.Group, that.board):
		notify.warn("Can Not Build", fmt.Sprintf("%s needs every %s property to build", player.Name, property.Group))
		return false, nil
	case owned.Mortgaged:
		notify.warn("Can Not Build", fmt.Sprintf("%s is mortgaged", property.Name))
		return false, nil
	case owned.Houses >= MaxImprovementLevel:
		notify.warn("Can Not Build", fmt.Sprintf("%s already has a hotel", property.Name))
		return false, nil
	}

	if !player.BuyHouse(property, that.board) {
		notify.warn("Insufficient Funds", fmt.Sprintf("%s can not afford a house for £%d", player.Name, property.HouseCost))
		return false, nil
	}

	notify.notify("House Built", fmt.Sprintf("%s improved %s to level %d", player.Name, property.Name, owned.Houses))

	return true, nil
}

// Mortgage toggles the mortgage of a square owned by the current player.
func (that *GameState) Mortgage(squareID int, notify Notifier) (bool, error) {
	player, err := that.CurrentPlayer()
	if err != nil {
		return false, err
	}

	square, err := that.board.BuyableAt(squareID)
	if err != nil {
		return false, err
	}

	owned, ok := player.Owned(squareID)
	if !ok {
		notify.warn("Can Not Mortgage", fmt.Sprintf("%s does not own %s", player.Name, square.Title()))
		return false, nil
	}

	if !owned.Mortgaged && owned.Houses > 0 {
		notify.warn("Can Not Mortgage", fmt.Sprintf("%s has buildings on it", square.Title()))
		return false, nil
	}

	wasMortgaged := owned.Mortgaged
	if !player.Mortgage(square) {
		notify.warn("Insufficient Funds", fmt.Sprintf("%s needs £%d to lift the mortgage on %s",
			player.Name, square.Cost()/2, square.Title()))
		return false, nil
	}

	if wasMortgaged {
		notify.notify("Mortgage Lifted", fmt.Sprintf("%s paid £%d for %s", player.Name, square.Cost()/2, square.Title()))
	} else {
		notify.notify("Property Mortgaged", fmt.Sprintf("%s received £%d for %s", player.Name, square.Cost()/2, square.Title()))
	}

	return true, nil
}

func (that *GameState) sendToJail(player *Player) {
	player.SetPosition(that.board.JailPosition())
	that.gameLocked = true
}

// charge debits a mandatory payment, driving the balance negative when the player is short.
func (that *GameState) charge(player *Player, amount int, notify Notifier) {
	if player.RemoveMoney(amount) {
		return
	}

	player.ForceRemoveMoney(amount)
	notify.warn("Insufficient Funds", fmt.Sprintf("%s owes £%d and is now at £%d", player.Name, amount, player.Money))
}
