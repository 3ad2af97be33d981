package room

import (
	"gandengyan-server/pkg/playable"
)

// message keys sent to clients
const (
	keyJoined           = "joined"
	keyLog              = "log"
	keyYourTurn         = "yourTurn"
	keyTurnTimeout      = "turnTimeout"
	keyGameOver         = "gameOver"
	keyRematchRequested = "rematchRequested"
	keyRematchStarted   = "rematchStarted"
)

type joinedPayload struct {
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers"`
}

type yourTurnPayload struct {
	CanPass     bool  `json:"canPass"`
	TimeoutSecs int64 `json:"timeoutSecs"`
}

type gameOverPayload struct {
	Winner     string `json:"winner"`
	WinnerName string `json:"winnerName"`
}

type playerPayload struct {
	PlayerID string `json:"playerId"`
}

func newResponse(key string, data interface{}) *playable.Response {
	return &playable.Response{
		Key:  key,
		Data: data,
	}
}
