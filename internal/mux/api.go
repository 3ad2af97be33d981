package mux

import (
	"net/http"

	"gandengyan-server/pkg/room"
)

type apiResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	room.Stats
}

func (m *Mux) getAPI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, apiResponse{
			Name:    "gandengyan",
			Version: m.version,
			Stats:   m.pitBoss.Stats(),
		})
	}
}
