package handshape

import "errors"

// ErrInvalidShape is returned when the cards do not form any legal combination
var ErrInvalidShape = errors.New("invalid card combination")

// ErrShapeMismatch is returned when a non-bomb play does not match the shape of the last play
var ErrShapeMismatch = errors.New("card combination does not match the last play")

// ErrLengthMismatch is returned when a straight does not have as many cards as the straight it must beat
var ErrLengthMismatch = errors.New("straight must have the same number of cards as the last play")

// ErrBombRequired is returned when anything but a bomb is played on a bomb
var ErrBombRequired = errors.New("only a bigger bomb can beat a bomb")

// ErrTwoNeedsJoker is returned when a single 2 is challenged by anything but a joker
var ErrTwoNeedsJoker = errors.New("a single 2 can only be beaten by a joker or a bomb")

// ErrTooSmall is returned when the cards are not high enough to beat the last play
var ErrTooSmall = errors.New("cards are not high enough to beat the last play")
