package handler

import (
	"net/http"

	"github.com/cbrief/chain-daily/internal/repository"
	"github.com/cbrief/chain-daily/internal/transport/response"
)

type Runs struct {
	archive repository.Archive
}

func NewRuns(archive repository.Archive) *Runs {
	return &Runs{archive: archive}
}

// ServeHTTP lists the slugs with archived artifacts.
func (h *Runs) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		response.WriteError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	slugs, err := h.archive.ListRuns(r.Context())
	if err != nil {
		response.WriteInternalError(w, err.Error())
		return
	}

	response.WriteSuccess(w, "archived runs", slugs)
}
