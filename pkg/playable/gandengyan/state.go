package gandengyan

import (
	"gandengyan-server/pkg/deck"
	"gandengyan-server/pkg/playable"
)

// GameState is the state of the room visible to everybody
type GameState struct {
	RoomID            string             `json:"roomId"`
	Players           []*GameStatePlayer `json:"players"`
	CurrentTurn       int                `json:"currentTurn"`
	CurrentPlayerID   string             `json:"currentPlayerId"`
	LastPlay          *Play              `json:"lastPlay"`
	Phase             Phase              `json:"phase"`
	Winner            string             `json:"winner"`
	LastWinner        string             `json:"lastWinner"`
	DrawPileCount     int                `json:"drawPileCount"`
	DiscardPileCount  int                `json:"discardPileCount"`
	ConsecutivePasses int                `json:"consecutivePasses"`
	LastPlayerID      string             `json:"lastPlayerId"`
	MaxPlayers        int                `json:"maxPlayers"`
}

// GameStatePlayer is a seated player
// Hand is only set for the player the state was built for
type GameStatePlayer struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CardCount    int          `json:"cardCount"`
	WantsRematch bool         `json:"wantsRematch"`
	Hand         []*deck.Card `json:"hand,omitempty"`
}

// Response is sent to each client
type Response struct {
	GameState *GameState   `json:"gameState"`
	Hand      []*deck.Card `json:"hand"`
	IsTurn    bool         `json:"isTurn"`
	CanPass   bool         `json:"canPass"`
}

// State returns the state of the room as seen by the player
// Other players' hands are reduced to a card count
func (s *Session) State(playerID string) *Response {
	players := make([]*GameStatePlayer, len(s.players))
	for i, p := range s.players {
		players[i] = &GameStatePlayer{
			ID:           p.ID,
			Name:         p.Name,
			CardCount:    p.CardCount(),
			WantsRematch: p.wantsRematch,
		}

		if p.ID == playerID {
			players[i].Hand = p.Hand()
		}
	}

	res := &Response{
		GameState: &GameState{
			RoomID:            s.id,
			Players:           players,
			CurrentTurn:       s.currentPlayerIndex,
			CurrentPlayerID:   s.CurrentPlayerID(),
			LastPlay:          s.LastPlay(),
			Phase:             s.phase,
			Winner:            s.winner,
			LastWinner:        s.lastWinner,
			DrawPileCount:     s.DrawPileCount(),
			DiscardPileCount:  s.DiscardPileCount(),
			ConsecutivePasses: len(s.passed),
			LastPlayerID:      s.lastPlayerID,
			MaxPlayers:        s.options.MaxPlayers,
		},
	}

	if p, ok := s.idToPlayer[playerID]; ok {
		res.Hand = p.Hand()
		res.IsTurn = s.phase == PhasePlaying && s.currentPlayer() == p
		res.CanPass = res.IsTurn && s.lastPlay != nil
	}

	return res
}

// GetPlayerState returns the current state of the game for the player
func (s *Session) GetPlayerState(playerID string) (*playable.Response, error) {
	return &playable.Response{
		Key:   "game",
		Value: s.Name(),
		Data:  s.State(playerID),
	}, nil
}
