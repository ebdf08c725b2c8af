package entity

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var ErrInvalidDeckState = errors.New("invalid deck state")

type CardType string

const (
	CardChance    CardType = "chance"
	CardCommunity CardType = "community"
)

type CardKind string

const (
	CardMove           CardKind = "move"
	CardMoveRelative   CardKind = "moveRelative"
	CardCollect        CardKind = "collect"
	CardPay            CardKind = "pay"
	CardJail           CardKind = "jail"
	CardPardon         CardKind = "pardon"
	CardPayPerBuilding CardKind = "payPerBuilding"
	CardBirthday       CardKind = "birthday"
)

// Card is an immutable effect descriptor. Only the fields relevant to Kind are set.
type Card struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Kind        CardKind `json:"type"`

	Destination   int  `json:"destinationPosition,omitempty"`
	CollectPassGo bool `json:"collectPassGo,omitempty"`
	Spaces        int  `json:"spaces,omitempty"`
	Amount        int  `json:"amount,omitempty"`
	PerHouse      int  `json:"perHouse,omitempty"`
	PerHotel      int  `json:"perHotel,omitempty"`
}

// CardDeck is shuffled once and then drawn through a cyclic cursor, so it never runs out.
type CardDeck struct {
	cards  []Card
	order  []int
	cursor int
}

// DeckState is the draw order of a deck as indices into its card set, plus the next position.
type DeckState struct {
	Order  []int `json:"order"`
	Cursor int   `json:"cursor"`
}

func NewCardDeck(cards []Card, rng *rand.Rand) *CardDeck {
	deck := &CardDeck{
		cards: append([]Card(nil), cards...),
		order: make([]int, len(cards)),
	}
	for i := range deck.order {
		deck.order[i] = i
	}
	deck.Shuffle(rng)

	return deck
}

// Shuffle reorders the deck with Fisher-Yates and rewinds the cursor.
func (that *CardDeck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(that.order), func(i, j int) {
		that.order[i], that.order[j] = that.order[j], that.order[i]
	})
	that.cursor = 0
}

func (that *CardDeck) Draw() Card {
	card := that.cards[that.order[that.cursor]]
	that.cursor = (that.cursor + 1) % len(that.order)

	return card
}

func (that *CardDeck) Len() int {
	return len(that.cards)
}

// Cards returns the deck in its current draw order.
func (that *CardDeck) Cards() []Card {
	cards := make([]Card, 0, len(that.order))
	for _, idx := range that.order {
		cards = append(cards, that.cards[idx])
	}

	return cards
}

func (that *CardDeck) State() DeckState {
	return DeckState{Order: append([]int(nil), that.order...), Cursor: that.cursor}
}

// Restore continues the deck from a saved state. The state must be a permutation of this deck.
func (that *CardDeck) Restore(state DeckState) error {
	if err := that.validate(state); err != nil {
		return err
	}

	that.order = append([]int(nil), state.Order...)
	that.cursor = state.Cursor

	return nil
}

func (that *CardDeck) validate(state DeckState) error {
	if len(state.Order) != len(that.cards) {
		return fmt.Errorf("%w: %d cards in a deck of %d", ErrInvalidDeckState, len(state.Order), len(that.cards))
	}

	if state.Cursor < 0 || state.Cursor >= len(state.Order) {
		return fmt.Errorf("%w: cursor %d out of range", ErrInvalidDeckState, state.Cursor)
	}

	seen := make([]bool, len(that.cards))
	for _, idx := range state.Order {
		if idx < 0 || idx >= len(seen) || seen[idx] {
			return fmt.Errorf("%w: order is not a permutation", ErrInvalidDeckState)
		}
		seen[idx] = true
	}

	return nil
}

func moveCard(title, description string, destination int) Card {
	return Card{Title: title, Description: description, Kind: CardMove, Destination: destination, CollectPassGo: true}
}

func ChanceCards() []Card {
	return []Card{
		moveCard("Advance to GO", "Advance to GO. Collect £200.", 0),
		moveCard("Advance to Trafalgar Square", "Advance to Trafalgar Square. If you pass GO, collect £200.", 24),
		moveCard("Advance to Mayfair", "Advance to Mayfair.", 39),
		moveCard("Advance to Pall Mall", "Advance to Pall Mall. If you pass GO, collect £200.", 11),
		{Title: "Go Back 3 Spaces", Description: "Go back 3 spaces.", Kind: CardMoveRelative, Spaces: -3},
		{Title: "Go to Jail", Description: "Go directly to Jail. Do not pass GO. Do not collect £200.", Kind: CardJail},
		{
			Title:       "Make general repairs",
			Description: "Make general repairs on all your property. For each house pay £25. For each hotel pay £100.",
			Kind:        CardPayPerBuilding,
			PerHouse:    25,
			PerHotel:    100,
		},
		{Title: "Pay speeding fine", Description: "Pay speeding fine of £15.", Kind: CardPay, Amount: 15},
		{Title: "Bank pays you dividend", Description: "Bank pays you dividend of £50.", Kind: CardCollect, Amount: 50},
		{Title: "Get Out of Jail Free", Description: "This card may be kept until needed or traded.", Kind: CardPardon},
		{Title: "It's your birthday", Description: "It's your birthday. Collect £10 from each player.", Kind: CardBirthday, Amount: 10},
	}
}

func CommunityCards() []Card {
	return []Card{
		moveCard("Advance to GO", "Advance to GO. Collect £200.", 0),
		{Title: "Bank error in your favor", Description: "Bank error in your favor. Collect £200.", Kind: CardCollect, Amount: 200},
		{Title: "Doctor's fee", Description: "Doctor's fee. Pay £50.", Kind: CardPay, Amount: 50},
		{Title: "From sale of stock you get", Description: "From sale of stock you get £50.", Kind: CardCollect, Amount: 50},
		{Title: "Get Out of Jail Free", Description: "This card may be kept until needed or traded.", Kind: CardPardon},
		{Title: "Go to Jail", Description: "Go directly to Jail. Do not pass GO. Do not collect £200.", Kind: CardJail},
		{
			Title:       "Grand Opera Night",
			Description: "Grand Opera Night. Collect £50 from every player for opening night seats.",
			Kind:        CardBirthday,
			Amount:      50,
		},
		{Title: "Holiday fund matures", Description: "Holiday fund matures. Receive £100.", Kind: CardCollect, Amount: 100},
		{Title: "Income tax refund", Description: "Income tax refund. Collect £20.", Kind: CardCollect, Amount: 20},
		{Title: "Life insurance matures", Description: "Life insurance matures. Collect £100.", Kind: CardCollect, Amount: 100},
		{Title: "Pay hospital fees", Description: "Pay hospital fees of £100.", Kind: CardPay, Amount: 100},
		{Title: "Pay school fees", Description: "Pay school fees of £50.", Kind: CardPay, Amount: 50},
		{Title: "Receive consultancy fee", Description: "Receive consultancy fee of £25.", Kind: CardCollect, Amount: 25},
		{
			Title:       "You are assessed for street repairs",
			Description: "You are assessed for street repairs. £40 per house. £115 per hotel.",
			Kind:        CardPayPerBuilding,
			PerHouse:    40,
			PerHotel:    115,
		},
		{
			Title:       "You have won second prize in a beauty contest",
			Description: "You have won second prize in a beauty contest. Collect £10.",
			Kind:        CardCollect,
			Amount:      10,
		},
		{Title: "You inherit", Description: "You inherit £100.", Kind: CardCollect, Amount: 100},
	}
}
