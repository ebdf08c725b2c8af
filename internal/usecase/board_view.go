package usecase

import (
	"context"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// SquareView is one square as a client draws it, with its current holder.
type SquareView struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	Type          entity.SquareType `json:"type"`
	Edge          entity.Edge       `json:"edge"`
	Corner        bool              `json:"corner"`
	MortgageValue int               `json:"mortgageValue,omitempty"`
	NextStation   int               `json:"nextStation"`

	Owner     string `json:"owner,omitempty"`
	Houses    int    `json:"houses,omitempty"`
	Mortgaged bool   `json:"mortgaged,omitempty"`
}

type HoldingsView struct {
	PlayerID  string `json:"playerId"`
	Stations  int    `json:"stations"`
	Utilities int    `json:"utilities"`
	Buildable []int  `json:"buildable"`
}

type TradeView struct {
	entity.Trade
	GiveValue int `json:"giveValue"`
	GetValue  int `json:"getValue"`
}

// BoardView is a read-only projection of a game for rendering. It is derived, never stored.
type BoardView struct {
	GameID   string         `json:"gameId"`
	Squares  []SquareView   `json:"squares"`
	Holdings []HoldingsView `json:"holdings"`
	Trade    *TradeView     `json:"trade,omitempty"`
}

func (that *GameManager) GetBoard(ctx context.Context, gameID string) (*BoardView, error) {
	game, err := that.load(ctx, gameID)
	if err != nil {
		return nil, err
	}

	return newBoardView(gameID, game), nil
}

func newBoardView(gameID string, game *entity.GameState) *BoardView {
	board := game.Board()

	view := &BoardView{
		GameID:   gameID,
		Squares:  make([]SquareView, 0, board.TotalSquares()),
		Holdings: make([]HoldingsView, 0, len(game.Players())),
	}

	for _, sq := range board.Squares() {
		square := SquareView{
			ID:            sq.Index(),
			Name:          sq.Title(),
			Type:          sq.Type(),
			Edge:          board.EdgeOf(sq.Index()),
			Corner:        board.IsCorner(sq.Index()),
			MortgageValue: board.MortgageValue(sq.Index()),
			NextStation:   board.NextSquareOfType(sq.Index(), entity.SquareStation),
		}

		if owner := game.Owner(sq.Index()); owner != nil {
			owned, _ := owner.Owned(sq.Index())
			square.Owner = owner.ID
			square.Houses = owned.Houses
			square.Mortgaged = owned.Mortgaged
		}

		view.Squares = append(view.Squares, square)
	}

	for _, player := range game.Players() {
		view.Holdings = append(view.Holdings, holdingsOf(player, board))
	}

	if trade, ok := game.ProposedTrade(); ok {
		give, get := game.TradeValue(trade)
		view.Trade = &TradeView{Trade: trade, GiveValue: give, GetValue: get}
	}

	return view
}

func holdingsOf(player *entity.Player, board *entity.Board) HoldingsView {
	holdings := HoldingsView{PlayerID: player.ID, Buildable: []int{}}

	for _, station := range board.Stations() {
		if player.OwnsProperty(station.ID) {
			holdings.Stations++
		}
	}

	for _, utility := range board.Utilities() {
		if player.OwnsProperty(utility.ID) {
			holdings.Utilities++
		}
	}

	for _, property := range board.BuildableProperties() {
		owned, ok := player.Owned(property.ID)
		if !ok || owned.Mortgaged || owned.Houses >= entity.MaxImprovementLevel {
			continue
		}

		if player.OwnsPropertyGroup(property.Group, board) {
			holdings.Buildable = append(holdings.Buildable, property.ID)
		}
	}

	return holdings
}
