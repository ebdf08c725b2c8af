package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
	ErrUnknownSquareType = errors.New("unknown square type")
)

// Snapshot is the wire and storage form of a GameState.
type Snapshot struct {
	Players            []Player      `json:"players"`
	Messages           []Message     `json:"messages"`
	CurrentPlayerIndex int           `json:"currentPlayerIndex"`
	Dice               [2]int        `json:"dice"`
	GameLocked         bool          `json:"gameLocked"`
	SelectedProperty   *int          `json:"selectedProperty"`
	Board              BoardSnapshot `json:"board"`
	ProposedTrade      *Trade        `json:"proposedTrade"`
	Bids               []Bid         `json:"bids"`
	DoublesRolled      int           `json:"doublesRolled,omitempty"`
}

type BoardSnapshot struct {
	Size         int            `json:"size"`
	TotalSquares int            `json:"totalSquares"`
	Squares      []SquareRecord `json:"squares"`
}

// SquareRecord is a square tagged with its type. Only the fields of that type are set.
type SquareRecord struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Type        SquareType `json:"type"`
	Price       int        `json:"price,omitempty"`
	Rent        []int      `json:"rent,omitempty"`
	HouseCost   int        `json:"houseCost,omitempty"`
	Group       Group      `json:"group,omitempty"`
	Multipliers []int      `json:"multipliers,omitempty"`
	Amount      int        `json:"amount,omitempty"`
	CardType    CardType   `json:"cardType,omitempty"`
	Action      string     `json:"action,omitempty"`
}

func RecordOf(square Square) SquareRecord {
	record := SquareRecord{ID: square.Index(), Name: square.Title(), Type: square.Type()}

	switch sq := square.(type) {
	case *CornerSquare:
		record.Action = sq.Action
	case *PropertySquare:
		record.Price = sq.Price
		record.Rent = slices.Clone(sq.Rent)
		record.HouseCost = sq.HouseCost
		record.Group = sq.Group
	case *StationSquare:
		record.Price = sq.Price
		record.Rent = slices.Clone(sq.Rent)
	case *UtilitySquare:
		record.Price = sq.Price
		record.Multipliers = slices.Clone(sq.Multipliers)
	case *TaxSquare:
		record.Amount = sq.Amount
	case *CardSquare:
		record.CardType = sq.CardType
	}

	return record
}

// Square rebuilds the typed square, rejecting records that miss the fields of their type.
func (that SquareRecord) Square() (Square, error) {
	switch that.Type {
	case SquareCorner:
		return &CornerSquare{ID: that.ID, Name: that.Name, Action: that.Action}, nil
	case SquareProperty:
		if that.Price <= 0 || len(that.Rent) != MaxImprovementLevel+1 || that.HouseCost < 0 {
			return nil, fmt.Errorf("property %d: price, rent table or house cost out of range", that.ID)
		}

		return &PropertySquare{
			ID: that.ID, Name: that.Name, Price: that.Price, Rent: slices.Clone(that.Rent),
			HouseCost: that.HouseCost, Group: that.Group,
		}, nil
	case SquareStation:
		if that.Price <= 0 || len(that.Rent) == 0 {
			return nil, fmt.Errorf("station %d: missing price or rent table", that.ID)
		}

		return &StationSquare{ID: that.ID, Name: that.Name, Price: that.Price, Rent: slices.Clone(that.Rent)}, nil
	case SquareUtility:
		if that.Price <= 0 || len(that.Multipliers) == 0 {
			return nil, fmt.Errorf("utility %d: missing price or multipliers", that.ID)
		}

		return &UtilitySquare{ID: that.ID, Name: that.Name, Price: that.Price, Multipliers: slices.Clone(that.Multipliers)}, nil
	case SquareTax:
		return &TaxSquare{ID: that.ID, Name: that.Name, Amount: that.Amount}, nil
	case SquareCard:
		if that.CardType != CardChance && that.CardType != CardCommunity {
			return nil, fmt.Errorf("card square %d: unknown card type %q", that.ID, that.CardType)
		}

		return &CardSquare{ID: that.ID, Name: that.Name, CardType: that.CardType}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSquareType, that.Type)
	}
}

func (that *GameState) Snapshot() Snapshot {
	players := make([]Player, 0, len(that.players))
	for _, player := range that.players {
		players = append(players, *player.clone())
	}

	squares := make([]SquareRecord, 0, len(that.board.squares))
	for _, sq := range that.board.squares {
		squares = append(squares, RecordOf(sq))
	}

	snapshot := Snapshot{
		Players:            players,
		Messages:           slices.Clone(that.messages),
		CurrentPlayerIndex: that.currentPlayerIndex,
		Dice:               that.dice,
		GameLocked:         that.gameLocked,
		Board: BoardSnapshot{
			Size:         that.board.size,
			TotalSquares: that.board.totalSquares,
			Squares:      squares,
		},
		Bids:          slices.Clone(that.bids),
		DoublesRolled: that.doublesRolled,
	}

	if snapshot.Messages == nil {
		snapshot.Messages = []Message{}
	}

	if that.selectedProperty != nil {
		selected := *that.selectedProperty
		snapshot.SelectedProperty = &selected
	}

	if that.proposedTrade != nil {
		trade := that.proposedTrade.clone()
		snapshot.ProposedTrade = &trade
	}

	return snapshot
}

func (that *GameState) ToJSON() ([]byte, error) {
	data, err := json.Marshal(that.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return data, nil
}

// ImportFromJSON replaces the whole state with a serialized snapshot.
// On error the current state is left untouched.
func (that *GameState) ImportFromJSON(data []byte) error {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	return that.Import(snapshot)
}

// Import validates a snapshot completely and only then swaps it in.
// Card decks are local to the process and survive the import.
func (that *GameState) Import(snapshot Snapshot) error {
	board, err := that.importBoard(snapshot.Board)
	if err != nil {
		return err
	}

	players, err := importPlayers(snapshot.Players, board)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	if err := validateTurn(snapshot, players, board); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	that.board = board
	that.boardSize = board.size
	that.players = players
	that.currentPlayerIndex = snapshot.CurrentPlayerIndex
	that.dice = snapshot.Dice
	that.gameLocked = snapshot.GameLocked
	that.doublesRolled = snapshot.DoublesRolled
	that.messages = slices.Clone(snapshot.Messages)
	that.bids = slices.Clone(snapshot.Bids)
	that.selectedProperty = nil
	that.proposedTrade = nil

	if that.messages == nil {
		that.messages = []Message{}
	}

	if snapshot.SelectedProperty != nil {
		selected := *snapshot.SelectedProperty
		that.selectedProperty = &selected
	}

	if snapshot.ProposedTrade != nil {
		trade := snapshot.ProposedTrade.clone()
		that.proposedTrade = &trade
	}

	return nil
}

// Decks is the draw state of both card decks. It is stored next to the snapshot
// and never sent to peers, so the upcoming cards stay hidden.
type Decks struct {
	Chance    DeckState `json:"chance"`
	Community DeckState `json:"community"`
}

func (that *GameState) Decks() Decks {
	return Decks{
		Chance:    that.board.chance.State(),
		Community: that.board.community.State(),
	}
}

func (that *GameState) DecksToJSON() ([]byte, error) {
	data, err := json.Marshal(that.Decks())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal decks: %w", err)
	}

	return data, nil
}

// ImportDecksFromJSON continues both decks from a saved state. On error neither deck changes.
func (that *GameState) ImportDecksFromJSON(data []byte) error {
	var decks Decks
	if err := json.Unmarshal(data, &decks); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDeckState, err)
	}

	if err := that.board.chance.validate(decks.Chance); err != nil {
		return fmt.Errorf("chance: %w", err)
	}

	if err := that.board.community.validate(decks.Community); err != nil {
		return fmt.Errorf("community: %w", err)
	}

	_ = that.board.chance.Restore(decks.Chance)
	_ = that.board.community.Restore(decks.Community)

	return nil
}

func (that *GameState) importBoard(snapshot BoardSnapshot) (*Board, error) {
	squares := make([]Square, 0, len(snapshot.Squares))
	for _, record := range snapshot.Squares {
		sq, err := record.Square()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}

		squares = append(squares, sq)
	}

	if snapshot.TotalSquares != (snapshot.Size-1)*4 {
		return nil, fmt.Errorf("%w: %d squares do not fit a board of size %d",
			ErrInvalidSnapshot, snapshot.TotalSquares, snapshot.Size)
	}

	if err := validateLayout(snapshot.TotalSquares, squares); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	board := &Board{
		size:         snapshot.Size,
		totalSquares: snapshot.TotalSquares,
		squares:      squares,
		rng:          that.rng,
	}

	if that.board != nil {
		board.chance = that.board.chance
		board.community = that.board.community
	} else {
		board.ResetCardDecks()
	}

	return board, nil
}

func importPlayers(records []Player, board *Board) ([]*Player, error) {
	players := make([]*Player, 0, len(records))
	owners := make(map[int]string)
	colours := make(map[string]string, len(records))
	ids := make(map[string]struct{}, len(records))

	for idx := range records {
		player := records[idx].clone()

		if player.ID == "" {
			return nil, fmt.Errorf("%w: player %d has no id", ErrInvalidPlayer, idx)
		}

		if _, dup := ids[player.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, player.ID)
		}
		ids[player.ID] = struct{}{}

		if other, taken := colours[player.Colour]; taken && player.Colour != "" {
			return nil, fmt.Errorf("%w: colour %s used by %s and %s", ErrInvalidPlayer, player.Colour, other, player.ID)
		}
		colours[player.Colour] = player.ID

		if !onBoard(board, player.Position) || (player.PreviousPosition != nil && !onBoard(board, *player.PreviousPosition)) {
			return nil, fmt.Errorf("%w: %s is off the board", ErrInvalidPlayer, player.ID)
		}

		if player.Pardons < 0 {
			return nil, fmt.Errorf("%w: %s has negative pardons", ErrInvalidPlayer, player.ID)
		}

		for _, owned := range player.OwnedProperties {
			if err := validateOwned(owned, board); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPlayer, player.ID, err)
			}

			if other, taken := owners[owned.ID]; taken {
				return nil, fmt.Errorf("%w: square %d owned by %s and %s", ErrInvalidPlayer, owned.ID, other, player.ID)
			}
			owners[owned.ID] = player.ID
		}

		players = append(players, player)
	}

	return players, nil
}

func validateOwned(owned OwnedProperty, board *Board) error {
	square, err := board.BuyableAt(owned.ID)
	if err != nil {
		return err
	}

	if owned.Houses < 0 || owned.Houses > MaxImprovementLevel {
		return fmt.Errorf("square %d: improvement level %d out of range", owned.ID, owned.Houses)
	}

	if owned.Houses > 0 && square.Type() != SquareProperty {
		return fmt.Errorf("square %d: only properties can be improved", owned.ID)
	}

	if owned.Houses > 0 && owned.Mortgaged {
		return fmt.Errorf("square %d: improved and mortgaged", owned.ID)
	}

	return nil
}

func validateTurn(snapshot Snapshot, players []*Player, board *Board) error {
	if len(players) == 0 && snapshot.CurrentPlayerIndex != 0 {
		return fmt.Errorf("current player %d without players", snapshot.CurrentPlayerIndex)
	}

	if len(players) > 0 && (snapshot.CurrentPlayerIndex < 0 || snapshot.CurrentPlayerIndex >= len(players)) {
		return fmt.Errorf("current player %d out of range", snapshot.CurrentPlayerIndex)
	}

	for _, die := range snapshot.Dice {
		if die < 1 || die > 6 {
			return fmt.Errorf("die value %d out of range", die)
		}
	}

	if snapshot.DoublesRolled < 0 {
		return errors.New("negative doubles count")
	}

	if snapshot.SelectedProperty != nil {
		if _, err := board.BuyableAt(*snapshot.SelectedProperty); err != nil {
			return fmt.Errorf("selected property: %w", err)
		}
	}

	if trade := snapshot.ProposedTrade; trade != nil {
		if trade.Proposer == trade.SelectedPlayer {
			return fmt.Errorf("%w: a player can not trade with themselves", ErrInvalidTrade)
		}

		for _, id := range []string{trade.Proposer, trade.SelectedPlayer} {
			if !slices.ContainsFunc(players, func(p *Player) bool { return p.ID == id }) {
				return fmt.Errorf("%w: unknown party %q", ErrInvalidTrade, id)
			}
		}
	}

	return nil
}

func onBoard(board *Board, position int) bool {
	return position >= 0 && position < board.totalSquares
}
