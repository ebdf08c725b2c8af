package entity

type SquareType string

const (
	SquareCorner   SquareType = "corner"
	SquareProperty SquareType = "property"
	SquareStation  SquareType = "station"
	SquareUtility  SquareType = "utility"
	SquareTax      SquareType = "tax"
	SquareCard     SquareType = "card"
)

const cornerActionJail = "jail"

// Square is a fixed board position. The set of implementations is closed.
type Square interface {
	Index() int
	Title() string
	Type() SquareType

	square()
}

// Buyable is a square that can be owned: property, station or utility.
type Buyable interface {
	Square
	Cost() int
}

type CornerSquare struct {
	ID     int
	Name   string
	Action string
}

type PropertySquare struct {
	ID        int
	Name      string
	Price     int
	Rent      []int // indexed by improvement level 0..5
	HouseCost int
	Group     Group
}

type StationSquare struct {
	ID    int
	Name  string
	Price int
	Rent  []int // indexed by stations owned - 1
}

type UtilitySquare struct {
	ID          int
	Name        string
	Price       int
	Multipliers []int // indexed by utilities owned - 1
}

type TaxSquare struct {
	ID     int
	Name   string
	Amount int
}

type CardSquare struct {
	ID       int
	Name     string
	CardType CardType
}

func (s *CornerSquare) Index() int { return s.ID }
func (s *CornerSquare) Title() string { return s.Name }
func (s *CornerSquare) Type() SquareType { return SquareCorner }
func (s *CornerSquare) square() {}

// SendsToJail reports whether landing here relocates the player to jail.
func (s *CornerSquare) SendsToJail() bool {
	return s.Action == cornerActionJail || s.Name == "Go To Jail"
}

func (s *PropertySquare) Index() int { return s.ID }
func (s *PropertySquare) Title() string { return s.Name }
func (s *PropertySquare) Type() SquareType { return SquareProperty }
func (s *PropertySquare) Cost() int { return s.Price }
func (s *PropertySquare) square() {}

// RentAt returns the rent for an improvement level; out of range levels charge nothing.
func (s *PropertySquare) RentAt(level int) int {
	if level < 0 || level >= len(s.Rent) {
		return 0
	}
	return s.Rent[level]
}

// Value is the price plus the cost of the buildings standing on it.
func (s *PropertySquare) Value(level int) int {
	return s.Price + level*s.HouseCost
}

func (s *StationSquare) Index() int { return s.ID }
func (s *StationSquare) Title() string { return s.Name }
func (s *StationSquare) Type() SquareType { return SquareStation }
func (s *StationSquare) Cost() int { return s.Price }
func (s *StationSquare) square() {}

// RentFor returns the rent charged by an owner holding count stations, capped at the table size.
func (s *StationSquare) RentFor(count int) int {
	if count <= 0 || len(s.Rent) == 0 {
		return 0
	}
	return s.Rent[min(count, len(s.Rent))-1]
}

func (s *UtilitySquare) Index() int { return s.ID }
func (s *UtilitySquare) Title() string { return s.Name }
func (s *UtilitySquare) Type() SquareType { return SquareUtility }
func (s *UtilitySquare) Cost() int { return s.Price }
func (s *UtilitySquare) square() {}

// RentFor multiplies the dice total by the multiplier for count utilities owned.
func (s *UtilitySquare) RentFor(count, diceTotal int) int {
	if count <= 0 || len(s.Multipliers) == 0 {
		return 0
	}
	return s.Multipliers[min(count, len(s.Multipliers))-1] * diceTotal
}

func (s *TaxSquare) Index() int { return s.ID }
func (s *TaxSquare) Title() string { return s.Name }
func (s *TaxSquare) Type() SquareType { return SquareTax }
func (s *TaxSquare) square() {}

func (s *CardSquare) Index() int { return s.ID }
func (s *CardSquare) Title() string { return s.Name }
func (s *CardSquare) Type() SquareType { return SquareCard }
func (s *CardSquare) square() {}

// AsBuyable returns the square as Buyable when it can be owned.
func AsBuyable(sq Square) (Buyable, bool) {
	b, ok := sq.(Buyable)
	return b, ok
}
