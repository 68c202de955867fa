package handler

import (
	"net/http"

	"github.com/cbrief/chain-daily/internal/transport/response"
)

type Health struct{}

func NewHealth() *Health {
	return &Health{}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, "ok", nil)
}
