package dama

import "errors"

var (
	ErrWrongTurn        = errors.New("not your turn")
	ErrIllegalMove      = errors.New("illegal move")
	ErrMandatoryCapture = errors.New("a capture is available and must be taken")
	ErrGameOver         = errors.New("game is over")
)
