package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cbrief/chain-daily/internal/model"
	"github.com/cbrief/chain-daily/internal/transport/response"
)

// Runner executes one pipeline run for a date.
type Runner interface {
	Run(ctx context.Context, date time.Time) (*model.RunRecord, error)
}

type Run struct {
	runner Runner
}

func NewRun(runner Runner) *Run {
	return &Run{runner: runner}
}

type runRequest struct {
	Date string `json:"date,omitempty"`
}

// ServeHTTP triggers a run. The optional date field backfills a past
// day; an empty body runs for today.
func (h *Run) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	date := time.Now()

	if r.Body != nil && r.ContentLength != 0 {
		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteBadRequest(w, "Invalid JSON")
			return
		}
		if req.Date != "" {
			parsed, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				response.WriteBadRequest(w, "date must be YYYY-MM-DD")
				return
			}
			date = parsed
		}
	}

	record, err := h.runner.Run(r.Context(), date)
	if err != nil {
		response.WriteJSON(w, http.StatusUnprocessableEntity, response.Response{
			Status: "aborted",
			Error:  err.Error(),
			Data:   record,
		})
		return
	}

	response.WriteSuccess(w, record.Summary(), record)
}
