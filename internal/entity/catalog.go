package entity

import (
	"errors"
	"fmt"
	"slices"
)

var ErrUnknownTheme = errors.New("unknown board theme")

// Theme selects the square names of a board. Prices, rents and decks are shared by every theme.
type Theme string

const (
	ThemeUK    Theme = "uk"
	ThemeUS    Theme = "us"
	ThemeWorld Theme = "world"
	ThemeBry   Theme = "bry"
)

func Themes() []Theme {
	return []Theme{ThemeUK, ThemeUS, ThemeWorld, ThemeBry}
}

func ParseTheme(name string) (Theme, error) {
	theme := Theme(name)
	if !slices.Contains(Themes(), theme) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	return theme, nil
}

var (
	stationRent      = []int{25, 50, 100, 200}
	utilityMultiples = []int{4, 10}
)

// slot is a theme independent square description.
type slot struct {
	kind      SquareType
	price     int
	rent      []int
	houseCost int
	group     Group
	amount    int
	cardType  CardType
	action    string
}

func corner(action string) slot { return slot{kind: SquareCorner, action: action} }

func property(price, houseCost int, group Group, rent ...int) slot {
	return slot{kind: SquareProperty, price: price, rent: rent, houseCost: houseCost, group: group}
}

func station() slot { return slot{kind: SquareStation, price: 200, rent: stationRent} }
func utility() slot { return slot{kind: SquareUtility, price: 150, rent: utilityMultiples} }
func tax(amount int) slot { return slot{kind: SquareTax, amount: amount} }
func chance() slot { return slot{kind: SquareCard, cardType: CardChance} }
func community() slot { return slot{kind: SquareCard, cardType: CardCommunity} }

var classicLayout = []slot{
	corner(""),
	property(60, 50, GroupBrown, 2, 10, 30, 90, 160, 250),
	community(),
	property(60, 50, GroupBrown, 4, 20, 60, 180, 320, 450),
	tax(200),
	station(),
	property(100, 50, GroupLightBlue, 6, 30, 90, 270, 400, 550),
	chance(),
	property(100, 50, GroupLightBlue, 6, 30, 90, 270, 400, 550),
	property(120, 50, GroupLightBlue, 8, 40, 100, 300, 450, 600),
	corner(""),
	property(140, 100, GroupPink, 10, 50, 150, 450, 625, 750),
	utility(),
	property(140, 100, GroupPink, 10, 50, 150, 450, 625, 750),
	property(160, 100, GroupPink, 12, 60, 180, 500, 700, 900),
	station(),
	property(180, 100, GroupOrange, 14, 70, 200, 550, 750, 950),
	community(),
	property(180, 100, GroupOrange, 14, 70, 200, 550, 750, 950),
	property(200, 100, GroupOrange, 16, 80, 220, 600, 800, 1000),
	corner(""),
	property(220, 150, GroupRed, 18, 90, 250, 700, 875, 1050),
	chance(),
	property(220, 150, GroupRed, 18, 90, 250, 700, 875, 1050),
	property(240, 150, GroupRed, 20, 100, 300, 750, 925, 1100),
	station(),
	property(260, 150, GroupYellow, 22, 110, 330, 800, 975, 1150),
	property(260, 150, GroupYellow, 22, 110, 330, 800, 975, 1150),
	utility(),
	property(280, 150, GroupYellow, 24, 120, 360, 850, 1025, 1200),
	corner(cornerActionJail),
	property(300, 200, GroupGreen, 26, 130, 390, 900, 1100, 1275),
	property(300, 200, GroupGreen, 26, 130, 390, 900, 1100, 1275),
	community(),
	property(320, 200, GroupGreen, 28, 150, 450, 1000, 1200, 1400),
	station(),
	chance(),
	property(350, 200, GroupDarkBlue, 35, 175, 500, 1100, 1300, 1500),
	tax(100),
	property(400, 200, GroupDarkBlue, 50, 200, 600, 1400, 1700, 2000),
}

var classicNames = []string{
	"Go", "Old Kent Road", "Community Chest", "Whitechapel Road", "Income Tax",
	"King's Cross Station", "The Angel Islington", "Chance", "Euston Road", "Pentonville Road",
	"Jail", "Pall Mall", "Electric Company", "Whitehall", "Northumberland Avenue",
	"Marylebone Station", "Bow Street", "Community Chest", "Marlborough Street", "Vine Street",
	"Free Parking", "Strand", "Chance", "Fleet Street", "Trafalgar Square",
	"Fenchurch St. Station", "Leicester Square", "Coventry Street", "Water Works", "Piccadilly",
	"Go To Jail", "Regent Street", "Oxford Street", "Community Chest", "Bond Street",
	"Liverpool St. Station", "Chance", "Park Lane", "Super Tax", "Mayfair",
}

// themeNames overrides classicNames by board index.
var themeNames = map[Theme]map[int]string{
	ThemeUK: {},
	ThemeUS: {
		1: "Mediterranean Avenue", 3: "Baltic Avenue", 5: "Reading Railroad",
		6: "Oriental Avenue", 8: "Vermont Avenue", 9: "Connecticut Avenue",
		11: "St. Charles Place", 13: "States Avenue", 14: "Virginia Avenue",
		15: "Pennsylvania Railroad", 16: "St. James Place", 18: "Tennessee Avenue",
		19: "New York Avenue", 21: "Kentucky Avenue", 23: "Indiana Avenue",
		24: "Illinois Avenue", 25: "B&O Railroad", 26: "Atlantic Avenue",
		27: "Ventnor Avenue", 29: "Marvin Gardens", 31: "Pacific Avenue",
		32: "North Carolina Avenue", 34: "Pennsylvania Avenue", 35: "Short Line",
		37: "Park Place", 38: "Luxury Tax", 39: "Boardwalk",
	},
	ThemeWorld: {
		1: "Tokyo", 3: "New York", 5: "Tokyo Station", 6: "London", 8: "Paris",
		9: "Berlin", 11: "Sydney", 13: "Rio de Janeiro", 14: "Cape Town",
		15: "London Station", 16: "Moscow", 18: "Beijing", 19: "Dubai",
		21: "Los Angeles", 23: "Toronto", 24: "Mexico City", 25: "New York Station",
		26: "Bangkok", 27: "Singapore", 29: "Hong Kong", 31: "Berlin",
		32: "Madrid", 34: "Rome", 35: "Paris Station", 37: "Istanbul",
		38: "Luxury Tax", 39: "Cairo",
	},
	ThemeBry: {
		1: "Room 6", 3: "Room 8", 10: "Detention", 20: "Free Cafe",
		30: "Go To Detention", 37: "Cowley", 39: "Grosvenor",
	},
}

// ThemeSquares returns a fresh copy of the squares of a theme, ordered by board index.
func ThemeSquares(theme Theme) ([]Square, error) {
	overrides, ok := themeNames[theme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}

	squares := make([]Square, 0, len(classicLayout))
	for idx, s := range classicLayout {
		name := classicNames[idx]
		if override, ok := overrides[idx]; ok {
			name = override
		}

		squares = append(squares, s.build(idx, name))
	}

	return squares, nil
}

func (s slot) build(id int, name string) Square {
	switch s.kind {
	case SquareProperty:
		return &PropertySquare{
			ID: id, Name: name, Price: s.price, Rent: slices.Clone(s.rent), HouseCost: s.houseCost, Group: s.group,
		}
	case SquareStation:
		return &StationSquare{ID: id, Name: name, Price: s.price, Rent: slices.Clone(s.rent)}
	case SquareUtility:
		return &UtilitySquare{ID: id, Name: name, Price: s.price, Multipliers: slices.Clone(s.rent)}
	case SquareTax:
		return &TaxSquare{ID: id, Name: name, Amount: s.amount}
	case SquareCard:
		return &CardSquare{ID: id, Name: name, CardType: s.cardType}
	default:
		return &CornerSquare{ID: id, Name: name, Action: s.action}
	}
}
