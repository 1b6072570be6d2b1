package engine

import "errors"

var (
	ErrCellOutOfRange     = errors.New("cell index out of range")
	ErrCellInactive       = errors.New("cell is not selectable")
	ErrNotPlayerTurn      = errors.New("not the player's turn")
	ErrGameOver           = errors.New("game is over")
	ErrMatchClosed        = errors.New("match is closed")
	ErrPlacementExhausted = errors.New("could not place fleet on board")
	ErrInvalidLayout      = errors.New("invalid fleet layout")
)
