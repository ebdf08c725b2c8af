package entity

// OwnedProperty is the ownership record of one buyable square.
// Houses is the improvement level: 1-4 houses, 5 a hotel. Only property squares are improved.
type OwnedProperty struct {
	ID        int  `json:"id"`
	Houses    int  `json:"houses,omitempty"`
	Mortgaged bool `json:"mortgaged,omitempty"`
}

type Player struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Position         int             `json:"position"`
	PreviousPosition *int            `json:"previousPosition,omitempty"`
	Colour           string          `json:"colour"`
	Money            int             `json:"money"`
	OwnedProperties  []OwnedProperty `json:"ownedProperties"`
	Pardons          int             `json:"pardons"`
}

func NewPlayer(id, name, colour string, money int) *Player {
	return &Player{
		ID:              id,
		Name:            name,
		Colour:          colour,
		Money:           money,
		OwnedProperties: []OwnedProperty{},
	}
}

// SetPosition relocates the player and remembers where they came from.
func (that *Player) SetPosition(position int) {
	previous := that.Position
	that.PreviousPosition = &previous
	that.Position = position
}

func (that *Player) MoveForward(steps int, board *Board) {
	that.SetPosition(board.PositionAfterMove(that.Position, steps))
}

// PassedGo reports whether the last move wrapped past the start square.
// A relocation to jail never counts even though the position decreased.
func (that *Player) PassedGo(jailPosition int) bool {
	if that.PreviousPosition == nil {
		return false
	}

	return *that.PreviousPosition > that.Position && that.Position != jailPosition
}

func (that *Player) AddMoney(amount int) {
	that.Money += amount
}

// RemoveMoney debits amount only when the player can cover it.
func (that *Player) RemoveMoney(amount int) bool {
	if that.Money < amount {
		return false
	}

	that.Money -= amount

	return true
}

// ForceRemoveMoney debits amount even if the balance goes negative.
func (that *Player) ForceRemoveMoney(amount int) {
	that.Money -= amount
}

func (that *Player) Owned(squareID int) (*OwnedProperty, bool) {
	for idx := range that.OwnedProperties {
		if that.OwnedProperties[idx].ID == squareID {
			return &that.OwnedProperties[idx], true
		}
	}

	return nil, false
}

func (that *Player) OwnsProperty(squareID int) bool {
	_, ok := that.Owned(squareID)
	return ok
}

func (that *Player) IsMortgaged(squareID int) bool {
	owned, ok := that.Owned(squareID)
	return ok && owned.Mortgaged
}

func (that *Player) OwnedIDs() []int {
	ids := make([]int, 0, len(that.OwnedProperties))
	for _, owned := range that.OwnedProperties {
		ids = append(ids, owned.ID)
	}

	return ids
}

func (that *Player) addProperty(owned OwnedProperty) {
	that.OwnedProperties = append(that.OwnedProperties, owned)
}

func (that *Player) removeProperty(squareID int) (OwnedProperty, bool) {
	for idx, owned := range that.OwnedProperties {
		if owned.ID == squareID {
			that.OwnedProperties = append(that.OwnedProperties[:idx], that.OwnedProperties[idx+1:]...)
			return owned, true
		}
	}

	return OwnedProperty{}, false
}

func (that *Player) OwnsPropertyGroup(group Group, board *Board) bool {
	return board.HasMonopoly(group, that.OwnedIDs())
}

// PropertyCount counts owned squares of a given type.
func (that *Player) PropertyCount(kind SquareType, board *Board) int {
	count := 0
	for _, owned := range that.OwnedProperties {
		sq, err := board.SquareAt(owned.ID)
		if err == nil && sq.Type() == kind {
			count++
		}
	}

	return count
}

func (that *Player) BuyProperty(square Buyable) bool {
	if that.OwnsProperty(square.Index()) || !that.RemoveMoney(square.Cost()) {
		return false
	}

	that.addProperty(OwnedProperty{ID: square.Index()})

	return true
}

// BuyHouse raises the improvement level by one. The player must hold the whole colour set,
// the property must be unmortgaged and below a hotel, and the house must be affordable.
func (that *Player) BuyHouse(property *PropertySquare, board *Board) bool {
	owned, ok := that.Owned(property.ID)
	if !ok || owned.Mortgaged || owned.Houses >= MaxImprovementLevel {
		return false
	}

	if !that.OwnsPropertyGroup(property.Group, board) {
		return false
	}

	if !that.RemoveMoney(property.HouseCost) {
		return false
	}

	owned.Houses++

	return true
}

// Mortgage toggles the mortgage flag. Mortgaging credits half the price, lifting it debits
// the same amount. Improved properties can not be mortgaged.
func (that *Player) Mortgage(square Buyable) bool {
	owned, ok := that.Owned(square.Index())
	if !ok {
		return false
	}

	value := square.Cost() / 2

	if owned.Mortgaged {
		if !that.RemoveMoney(value) {
			return false
		}

		owned.Mortgaged = false

		return true
	}

	if owned.Houses > 0 {
		return false
	}

	that.AddMoney(value)
	owned.Mortgaged = true

	return true
}

// Buildings returns the number of houses and hotels standing on the player's properties.
func (that *Player) Buildings() (houses, hotels int) {
	for _, owned := range that.OwnedProperties {
		switch {
		case owned.Houses >= MaxImprovementLevel:
			hotels++
		case owned.Houses > 0:
			houses += owned.Houses
		}
	}

	return houses, hotels
}

func (that *Player) AddPardon() {
	that.Pardons++
}

func (that *Player) clone() *Player {
	cp := *that
	if that.PreviousPosition != nil {
		previous := *that.PreviousPosition
		cp.PreviousPosition = &previous
	}

	cp.OwnedProperties = append([]OwnedProperty{}, that.OwnedProperties...)

	return &cp
}
