package apperror

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrDecksNotFound   = errors.New("card decks not found")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrNotTradeParty   = errors.New("player is not a party of the trade")
	ErrInvalidAction   = errors.New("invalid action")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrPlayerNotInGame = errors.New("player is not in the game")
)
