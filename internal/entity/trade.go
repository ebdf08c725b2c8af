package entity

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrTradePending   = errors.New("a trade is already pending")
	ErrNoTradePending = errors.New("no trade is pending")
	ErrInvalidTrade   = errors.New("invalid trade")
	ErrTradeStale     = errors.New("trade no longer matches ownership")
)

// Trade is a bilateral offer. The proposer hands over GiveProperties and GiveMoney
// and receives GetProperties and GetMoney from SelectedPlayer. Nil money means no cash.
type Trade struct {
	Proposer       string `json:"proposer"`
	SelectedPlayer string `json:"selectedPlayer"`
	GiveProperties []int  `json:"giveProperties"`
	GetProperties  []int  `json:"getProperties"`
	GiveMoney      *int   `json:"giveMoney"`
	GetMoney       *int   `json:"getMoney"`
}

func (that Trade) involves(playerID string) bool {
	return that.Proposer == playerID || that.SelectedPlayer == playerID
}

func (that Trade) giveAmount() int {
	if that.GiveMoney == nil {
		return 0
	}

	return *that.GiveMoney
}

func (that Trade) getAmount() int {
	if that.GetMoney == nil {
		return 0
	}

	return *that.GetMoney
}

func (that Trade) clone() Trade {
	cp := that
	cp.GiveProperties = slices.Clone(that.GiveProperties)
	cp.GetProperties = slices.Clone(that.GetProperties)

	if that.GiveMoney != nil {
		give := *that.GiveMoney
		cp.GiveMoney = &give
	}

	if that.GetMoney != nil {
		get := *that.GetMoney
		cp.GetMoney = &get
	}

	return cp
}

// ProposeTrade stores a trade in the single pending slot.
func (that *GameState) ProposeTrade(trade Trade, notify Notifier) error {
	if that.proposedTrade != nil {
		return ErrTradePending
	}

	proposer, counterparty, err := that.tradeParties(trade)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTrade, err)
	}

	if trade.giveAmount() < 0 || trade.getAmount() < 0 {
		return fmt.Errorf("%w: negative money", ErrInvalidTrade)
	}

	if len(trade.GiveProperties) == 0 && len(trade.GetProperties) == 0 &&
		trade.giveAmount() == 0 && trade.getAmount() == 0 {
		return fmt.Errorf("%w: empty offer", ErrInvalidTrade)
	}

	if err := that.checkTradeProperties(trade.GiveProperties, proposer); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTrade, err)
	}

	if err := that.checkTradeProperties(trade.GetProperties, counterparty); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTrade, err)
	}

	pending := trade.clone()
	that.proposedTrade = &pending

	notify.notify("Trade Proposed", fmt.Sprintf("%s proposed a trade to %s", proposer.Name, counterparty.Name))

	return nil
}

// ExecuteTrade applies the pending trade atomically. Ownership changes since the proposal
// fail with ErrTradeStale and nothing is moved. A party short of cash refuses the trade.
func (that *GameState) ExecuteTrade(notify Notifier) (bool, error) {
	if that.proposedTrade == nil {
		return false, ErrNoTradePending
	}

	trade := *that.proposedTrade

	proposer, counterparty, err := that.tradeParties(trade)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrTradeStale, err)
	}

	if err := that.checkTradeProperties(trade.GiveProperties, proposer); err != nil {
		return false, fmt.Errorf("%w: %w", ErrTradeStale, err)
	}

	if err := that.checkTradeProperties(trade.GetProperties, counterparty); err != nil {
		return false, fmt.Errorf("%w: %w", ErrTradeStale, err)
	}

	if proposer.Money < trade.giveAmount() {
		notify.warn("Insufficient Funds", fmt.Sprintf("%s can not cover £%d", proposer.Name, trade.giveAmount()))
		return false, nil
	}

	if counterparty.Money < trade.getAmount() {
		notify.warn("Insufficient Funds", fmt.Sprintf("%s can not cover £%d", counterparty.Name, trade.getAmount()))
		return false, nil
	}

	transferProperties(trade.GiveProperties, proposer, counterparty)
	transferProperties(trade.GetProperties, counterparty, proposer)

	net := trade.getAmount() - trade.giveAmount()
	proposer.AddMoney(net)
	counterparty.AddMoney(-net)

	that.proposedTrade = nil
	notify.notify("Trade Accepted", fmt.Sprintf("%s and %s completed a trade", proposer.Name, counterparty.Name))

	return true, nil
}

// DenyTrade discards the pending trade.
func (that *GameState) DenyTrade(notify Notifier) error {
	if that.proposedTrade == nil {
		return ErrNoTradePending
	}

	that.proposedTrade = nil
	notify.notify("Trade Denied", "The proposed trade was denied")

	return nil
}

// TradeValue sums each side of a trade: square value including buildings plus cash.
func (that *GameState) TradeValue(trade Trade) (give, get int) {
	give = trade.giveAmount() + that.propertiesValue(trade.GiveProperties, trade.Proposer)
	get = trade.getAmount() + that.propertiesValue(trade.GetProperties, trade.SelectedPlayer)

	return give, get
}

func (that *GameState) propertiesValue(ids []int, ownerID string) int {
	owner, _ := that.Player(ownerID)

	total := 0
	for _, id := range ids {
		square, err := that.board.BuyableAt(id)
		if err != nil {
			continue
		}

		prop, ok := square.(*PropertySquare)
		if !ok || owner == nil {
			total += square.Cost()
			continue
		}

		level := 0
		if owned, ok := owner.Owned(id); ok {
			level = owned.Houses
		}

		total += prop.Value(level)
	}

	return total
}

func (that *GameState) tradeParties(trade Trade) (proposer, counterparty *Player, err error) {
	if trade.Proposer == trade.SelectedPlayer {
		return nil, nil, errors.New("a player can not trade with themselves")
	}

	proposer, err = that.Player(trade.Proposer)
	if err != nil {
		return nil, nil, err
	}

	counterparty, err = that.Player(trade.SelectedPlayer)
	if err != nil {
		return nil, nil, err
	}

	return proposer, counterparty, nil
}

func (that *GameState) checkTradeProperties(ids []int, owner *Player) error {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("square %d listed twice", id)
		}
		seen[id] = struct{}{}

		if _, err := that.board.BuyableAt(id); err != nil {
			return err
		}

		if !owner.OwnsProperty(id) {
			return fmt.Errorf("%w: %s does not own square %d", ErrNotOwner, owner.Name, id)
		}
	}

	return nil
}

// transferProperties moves ownership records keeping their level and mortgage flag.
func transferProperties(ids []int, from, to *Player) {
	for _, id := range ids {
		if owned, ok := from.removeProperty(id); ok {
			to.addProperty(owned)
		}
	}
}
