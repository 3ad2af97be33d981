package mux

import (
	"net/http"

	"gandengyan-server/pkg/room"

	gmux "github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
}

// NewMux returns a new HTTP mux
func NewMux(version string, opts room.Options) *Mux {
	pitBoss := room.NewPitBoss(logrus.StandardLogger(), opts)
	pitBoss.StartShift()

	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/api").Handler(this.getAPI())
	r.Methods(http.MethodGet).Path("/ws").Handler(this.getWS())

	return this
}

// Close stops every room
func (m *Mux) Close() {
	m.pitBoss.EndShift()
}
