package handler

import (
	"net/http"

	"github.com/google/uuid"
)

type ContextKey string

var (
	trainerIDKey ContextKey = "trainerID"
	clientIDKey  ContextKey = "clientID"
)

func trainerIDFrom(r *http.Request) uuid.UUID {
	id, _ := r.Context().Value(trainerIDKey).(uuid.UUID)
	return id
}

func clientIDFrom(r *http.Request) uuid.UUID {
	id, _ := r.Context().Value(clientIDKey).(uuid.UUID)
	return id
}
