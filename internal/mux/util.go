package mux

import (
	"encoding/json"
	"errors"
	"net/http"

	"gandengyan-server/pkg/playable"

	"github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

// errorResponse is the error message clients get over the websocket with the HTTP status attached
type errorResponse struct {
	*playable.Response
	StatusCode int `json:"statusCode"`
}

func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
		err = nil
	}

	if err == nil {
		err = errors.New(http.StatusText(statusCode))
	}

	writeJSON(w, statusCode, errorResponse{
		Response:   playable.ErrorResponse("", err),
		StatusCode: statusCode,
	})
}
