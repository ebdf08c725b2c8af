package entity

import (
	"fmt"
)

func (that *GameState) handleLanding(player *Player, diceTotal int, notify Notifier) error {
	square, err := that.board.SquareAt(player.Position)
	if err != nil {
		return err
	}

	switch sq := square.(type) {
	case *CornerSquare:
		if sq.SendsToJail() {
			that.sendToJail(player)
			notify.notify("Go to Jail", fmt.Sprintf("%s has been sent to jail!", player.Name))
		}
	case *PropertySquare:
		that.landOnBuyable(player, sq, diceTotal, notify)
	case *StationSquare:
		that.landOnBuyable(player, sq, diceTotal, notify)
	case *UtilitySquare:
		that.landOnBuyable(player, sq, diceTotal, notify)
	case *TaxSquare:
		that.charge(player, sq.Amount, notify)
		notify.notify("Tax Paid", fmt.Sprintf("%s paid £%d in %s", player.Name, sq.Amount, sq.Name))
	case *CardSquare:
		return that.applyCard(player, that.board.DrawCard(sq.CardType), notify)
	}

	return nil
}

func (that *GameState) landOnBuyable(player *Player, square Buyable, diceTotal int, notify Notifier) {
	owner := that.Owner(square.Index())
	if owner == nil {
		id := square.Index()
		that.selectedProperty = &id

		return
	}

	if owner.ID == player.ID {
		return
	}

	that.payRent(player, owner, square, that.rent(owner, square, diceTotal), notify)
}

// rent is the amount owed to owner for a landing on square, ignoring mortgages.
func (that *GameState) rent(owner *Player, square Buyable, diceTotal int) int {
	switch sq := square.(type) {
	case *PropertySquare:
		owned, _ := owner.Owned(sq.ID)
		return sq.RentAt(owned.Houses)
	case *StationSquare:
		return sq.RentFor(owner.PropertyCount(SquareStation, that.board))
	case *UtilitySquare:
		return sq.RentFor(owner.PropertyCount(SquareUtility, that.board), diceTotal)
	}

	return 0
}

// payRent settles rent in full. A payer who is short is driven negative rather than let off.
func (that *GameState) payRent(payer, owner *Player, square Buyable, amount int, notify Notifier) {
	if owner.IsMortgaged(square.Index()) {
		notify.notify("Rent Waived", fmt.Sprintf("%s is mortgaged, no rent is due", square.Title()))
		return
	}

	if !payer.RemoveMoney(amount) {
		notify.warn("Insufficient Funds", fmt.Sprintf("%s can not afford £%d rent for %s", payer.Name, amount, square.Title()))
		payer.ForceRemoveMoney(amount)
	}

	owner.AddMoney(amount)
	notify.notify("Rent Paid", fmt.Sprintf("%s paid £%d to %s for staying at %s", payer.Name, amount, owner.Name, square.Title()))
}

func (that *GameState) applyCard(player *Player, card Card, notify Notifier) error {
	switch card.Kind {
	case CardMove:
		if _, err := that.board.SquareAt(card.Destination); err != nil {
			return fmt.Errorf("failed to apply card %q: %w", card.Title, err)
		}

		if card.CollectPassGo && card.Destination < player.Position {
			player.AddMoney(that.rules.PassGoBonus)
			notify.notify("Passing GO", fmt.Sprintf("%s collected £%d for passing GO!", player.Name, that.rules.PassGoBonus))
		}

		player.SetPosition(card.Destination)
		notify.notify(card.Title, card.Description)

		return that.handleLanding(player, that.DiceTotal(), notify)
	case CardMoveRelative:
		player.SetPosition(that.board.PositionAfterMove(player.Position, card.Spaces))
		notify.notify(card.Title, card.Description)

		return that.handleLanding(player, that.DiceTotal(), notify)
	case CardCollect:
		player.AddMoney(card.Amount)
		notify.notify(card.Title, card.Description)
	case CardPay:
		that.charge(player, card.Amount, notify)
		notify.notify(card.Title, card.Description)
	case CardJail:
		that.sendToJail(player)
		notify.notify(card.Title, card.Description)
	case CardPardon:
		player.AddPardon()
		notify.notify(card.Title, card.Description)
	case CardPayPerBuilding:
		houses, hotels := player.Buildings()
		total := houses*card.PerHouse + hotels*card.PerHotel
		that.charge(player, total, notify)
		notify.notify(card.Title, fmt.Sprintf("%s - Paid £%d for %d houses and %d hotels.", card.Description, total, houses, hotels))
	case CardBirthday:
		collected := 0
		for _, other := range that.players {
			if other.ID == player.ID {
				continue
			}

			that.charge(other, card.Amount, notify)
			collected += card.Amount
		}

		player.AddMoney(collected)
		notify.notify(card.Title, fmt.Sprintf("%s - Collected £%d from other players.", card.Description, collected))
	default:
		return fmt.Errorf("failed to apply card %q: unknown kind %q", card.Title, card.Kind)
	}

	return nil
}
