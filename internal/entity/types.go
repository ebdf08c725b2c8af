package entity

import "errors"

const (
	DefaultBoardSize     = 11
	DefaultStartingMoney = 1500
	DefaultPassGoBonus   = 200
	DefaultMaxDoubles    = 3

	MaxImprovementLevel = 5 // hotel
)

var (
	ErrSquareNotFound    = errors.New("square not found")
	ErrNotBuyable        = errors.New("square can not be owned")
	ErrNotProperty       = errors.New("square is not a property")
	ErrNoPendingPurchase = errors.New("no property is awaiting a purchase decision")
	ErrAlreadyOwned      = errors.New("property is already owned")
	ErrNotOwner          = errors.New("property is not owned by the player")
	ErrTurnLocked        = errors.New("turn is locked until it is ended")
	ErrTurnNotFinished   = errors.New("turn can not be ended yet")
	ErrNegativeBalance   = errors.New("player has a negative balance")
	ErrNoPlayers         = errors.New("game has no players")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrDuplicatePlayer   = errors.New("player already joined")
	ErrGameFull          = errors.New("no colours left for a new player")
	ErrInvalidPlayer     = errors.New("invalid player")
)

// Group is a colour set tag shared by property squares.
type Group string

const (
	GroupBrown     Group = "brown"
	GroupLightBlue Group = "light-blue"
	GroupPink      Group = "pink"
	GroupOrange    Group = "orange"
	GroupRed       Group = "red"
	GroupYellow    Group = "yellow"
	GroupGreen     Group = "green"
	GroupDarkBlue  Group = "dark-blue"
)

type MessageType string

const (
	MessageSystem MessageType = "system"
	MessagePlayer MessageType = "player"
)

// Message is one entry of the shared game log.
type Message struct {
	User        string      `json:"user"`
	Type        MessageType `json:"type,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// Notification is a user-facing outcome of an action, such as rent paid or a card drawn.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

const VariantDestructive = "destructive"

// Notifier receives notifications while an action runs. A nil Notifier is allowed.
type Notifier func(Notification)

func (n Notifier) notify(title, description string) {
	if n != nil {
		n(Notification{Title: title, Description: description})
	}
}

func (n Notifier) warn(title, description string) {
	if n != nil {
		n(Notification{Title: title, Description: description, Variant: VariantDestructive})
	}
}

// Bid is an auction offer. Bids are carried in snapshots but not used by the rules.
type Bid struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

// DefaultPalette lists the colours handed out to joining players, in order.
var DefaultPalette = []string{
	"bg-red-500",
	"bg-orange-500",
	"bg-yellow-500",
	"bg-green-500",
	"bg-blue-500",
	"bg-purple-500",
	"bg-pink-500",
	"bg-gray-500",
	"bg-black",
}

// Rules holds the tunable numbers of a session.
type Rules struct {
	StartingMoney int
	PassGoBonus   int
	// MaxDoubles consecutive doubles send the player to jail. Zero disables the rule.
	MaxDoubles int
	Palette    []string
}

func DefaultRules() Rules {
	return Rules{
		StartingMoney: DefaultStartingMoney,
		PassGoBonus:   DefaultPassGoBonus,
		MaxDoubles:    DefaultMaxDoubles,
		Palette:       append([]string(nil), DefaultPalette...),
	}
}
