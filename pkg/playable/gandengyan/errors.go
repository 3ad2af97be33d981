package gandengyan

import (
	"errors"

	"gandengyan-server/pkg/playable/gandengyan/handshape"
)

// Violation classifies why an action was rejected
type Violation int

// violation constants
const (
	// TurnViolation is an action by a player whose turn it is not
	TurnViolation Violation = iota + 1
	// PhaseViolation is an action that is not valid in the current phase
	PhaseViolation
	// OwnershipViolation is a play naming cards the player does not hold
	OwnershipViolation
	// ShapeViolation is a play whose cards do not form a combination
	ShapeViolation
	// BeatViolation is a play that does not beat the last play
	BeatViolation
	// CapacityViolation is a join on a full room or by a seated player
	CapacityViolation
)

func (v Violation) String() string {
	switch v {
	case TurnViolation:
		return "turn"
	case PhaseViolation:
		return "phase"
	case OwnershipViolation:
		return "ownership"
	case ShapeViolation:
		return "shape"
	case BeatViolation:
		return "beat"
	case CapacityViolation:
		return "capacity"
	default:
		return "unknown"
	}
}

// ActionError is returned when an action is rejected
// The session is left untouched whenever an ActionError is returned
type ActionError struct {
	Violation Violation
	Err       error
}

func (e *ActionError) Error() string {
	return e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func newActionError(v Violation, msg string) *ActionError {
	return &ActionError{Violation: v, Err: errors.New(msg)}
}

// ErrNotPlayersTurn is returned when it's not the player's turn
var ErrNotPlayersTurn = newActionError(TurnViolation, "it is not your turn")

// ErrPlayerNotFound is returned when the player is not seated in the room
var ErrPlayerNotFound = newActionError(TurnViolation, "player is not in the game")

// ErrGameNotStarted is returned when cards are played or passed outside of a running game
var ErrGameNotStarted = newActionError(PhaseViolation, "the game has not started")

// ErrGameInProgress is returned when a player joins or the game is started after dealing
var ErrGameInProgress = newActionError(PhaseViolation, "the game has already started")

// ErrGameNotOver is returned when a rematch is requested before the game ends
var ErrGameNotOver = newActionError(PhaseViolation, "the game is not over")

// ErrNotEnoughPlayers is returned when the game is started with fewer than two players
var ErrNotEnoughPlayers = newActionError(PhaseViolation, "need at least two players to start")

// ErrMustLead is returned when the player opening a round tries to pass
var ErrMustLead = newActionError(PhaseViolation, "you must play cards to open the round")

// ErrCardNotInHand happens when the player tries to play a card they don't have
var ErrCardNotInHand = newActionError(OwnershipViolation, "card is not in your hand")

// ErrRoomFull is returned when a player joins a full room
var ErrRoomFull = newActionError(CapacityViolation, "the room is full")

// ErrAlreadySeated is returned when a player joins a room they are already in
var ErrAlreadySeated = newActionError(CapacityViolation, "player is already in the room")

// ruleViolation wraps an error from the card rules
func ruleViolation(err error) error {
	if errors.Is(err, handshape.ErrInvalidShape) {
		return &ActionError{Violation: ShapeViolation, Err: err}
	}

	return &ActionError{Violation: BeatViolation, Err: err}
}

// ViolationOf returns the violation behind err, or 0 if err is not an ActionError
func ViolationOf(err error) Violation {
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr.Violation
	}

	return 0
}

// Result is the outcome of an action in the shape relayed to clients
type Result struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Violation string `json:"violation,omitempty"`
}

// ResultOf converts the error returned by an action into a Result
func ResultOf(err error) Result {
	if err == nil {
		return Result{Success: true}
	}

	res := Result{Error: err.Error()}
	if v := ViolationOf(err); v != 0 {
		res.Violation = v.String()
	}

	return res
}
