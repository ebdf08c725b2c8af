package entity

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var ErrBoardLayout = errors.New("squares do not cover the board")

type Edge string

const (
	EdgeCorner Edge = "corner"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeTop    Edge = "top"
	EdgeRight  Edge = "right"
)

// Board is the immutable square layout of a session plus its two card decks.
type Board struct {
	size         int
	totalSquares int
	squares      []Square

	rng       *rand.Rand
	chance    *CardDeck
	community *CardDeck
}

func NewBoard(theme Theme, size int, rng *rand.Rand) (*Board, error) {
	squares, err := ThemeSquares(theme)
	if err != nil {
		return nil, err
	}

	board, err := newBoard(size, squares, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s board: %w", theme, err)
	}

	return board, nil
}

func newBoard(size int, squares []Square, rng *rand.Rand) (*Board, error) {
	total := (size - 1) * 4
	if err := validateLayout(total, squares); err != nil {
		return nil, err
	}

	board := &Board{
		size:         size,
		totalSquares: total,
		squares:      squares,
		rng:          rng,
	}
	board.ResetCardDecks()

	return board, nil
}

// validateLayout expects squares ordered by index, covering 0..total-1 exactly once.
func validateLayout(total int, squares []Square) error {
	if total <= 0 || total%4 != 0 {
		return fmt.Errorf("%w: invalid square count %d", ErrBoardLayout, total)
	}

	if len(squares) != total {
		return fmt.Errorf("%w: %d squares for %d positions", ErrBoardLayout, len(squares), total)
	}

	for idx, sq := range squares {
		if sq == nil || sq.Index() != idx {
			return fmt.Errorf("%w: position %d", ErrBoardLayout, idx)
		}
	}

	return nil
}

func (that *Board) Size() int {
	return that.size
}

func (that *Board) TotalSquares() int {
	return that.totalSquares
}

func (that *Board) Squares() []Square {
	return append([]Square(nil), that.squares...)
}

func (that *Board) SquareAt(index int) (Square, error) {
	if index < 0 || index >= len(that.squares) {
		return nil, fmt.Errorf("%w: %d", ErrSquareNotFound, index)
	}

	return that.squares[index], nil
}

// BuyableAt returns the ownable square at index.
func (that *Board) BuyableAt(index int) (Buyable, error) {
	sq, err := that.SquareAt(index)
	if err != nil {
		return nil, err
	}

	buyable, ok := AsBuyable(sq)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotBuyable, sq.Title())
	}

	return buyable, nil
}

func (that *Board) PropertyAt(index int) (*PropertySquare, error) {
	sq, err := that.SquareAt(index)
	if err != nil {
		return nil, err
	}

	prop, ok := sq.(*PropertySquare)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotProperty, sq.Title())
	}

	return prop, nil
}

// PositionAfterMove wraps around the board. Negative steps are allowed.
func (that *Board) PositionAfterMove(position, steps int) int {
	next := (position + steps) % that.totalSquares
	if next < 0 {
		next += that.totalSquares
	}

	return next
}

// JailPosition is the corner a quarter of the way around the board.
func (that *Board) JailPosition() int {
	return that.totalSquares / 4
}

func (that *Board) PropertiesByGroup(group Group) []*PropertySquare {
	var result []*PropertySquare
	for _, sq := range that.squares {
		if prop, ok := sq.(*PropertySquare); ok && prop.Group == group {
			result = append(result, prop)
		}
	}

	return result
}

// HasMonopoly reports whether ownedIDs includes every property of the group.
func (that *Board) HasMonopoly(group Group, ownedIDs []int) bool {
	props := that.PropertiesByGroup(group)
	if len(props) == 0 {
		return false
	}

	owned := make(map[int]struct{}, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = struct{}{}
	}

	for _, prop := range props {
		if _, ok := owned[prop.ID]; !ok {
			return false
		}
	}

	return true
}

func (that *Board) BuildableProperties() []*PropertySquare {
	var result []*PropertySquare
	for _, sq := range that.squares {
		if prop, ok := sq.(*PropertySquare); ok {
			result = append(result, prop)
		}
	}

	return result
}

func (that *Board) Stations() []*StationSquare {
	var result []*StationSquare
	for _, sq := range that.squares {
		if st, ok := sq.(*StationSquare); ok {
			result = append(result, st)
		}
	}

	return result
}

func (that *Board) Utilities() []*UtilitySquare {
	var result []*UtilitySquare
	for _, sq := range that.squares {
		if ut, ok := sq.(*UtilitySquare); ok {
			result = append(result, ut)
		}
	}

	return result
}

// MortgageValue is half the price of an ownable square, zero for anything else.
func (that *Board) MortgageValue(index int) int {
	buyable, err := that.BuyableAt(index)
	if err != nil {
		return 0
	}

	return buyable.Cost() / 2
}

// NextSquareOfType scans forward from position and returns position itself when nothing matches.
func (that *Board) NextSquareOfType(position int, kind SquareType) int {
	for step := 1; step < that.totalSquares; step++ {
		next := that.PositionAfterMove(position, step)
		if that.squares[next].Type() == kind {
			return next
		}
	}

	return position
}

func (that *Board) IsCorner(position int) bool {
	sq, err := that.SquareAt(position)
	if err != nil {
		return false
	}

	_, ok := sq.(*CornerSquare)

	return ok
}

func (that *Board) EdgeOf(position int) Edge {
	side := that.totalSquares / 4

	switch {
	case position%side == 0:
		return EdgeCorner
	case position < side:
		return EdgeBottom
	case position < side*2:
		return EdgeLeft
	case position < side*3:
		return EdgeTop
	default:
		return EdgeRight
	}
}

// ResetCardDecks rebuilds and reshuffles both decks.
func (that *Board) ResetCardDecks() {
	that.chance = NewCardDeck(ChanceCards(), that.rng)
	that.community = NewCardDeck(CommunityCards(), that.rng)
}

func (that *Board) Deck(kind CardType) *CardDeck {
	if kind == CardChance {
		return that.chance
	}

	return that.community
}

func (that *Board) DrawCard(kind CardType) Card {
	return that.Deck(kind).Draw()
}
