package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/tracking"
)

type TrackingInputDTO struct {
	Input    string `json:"input"`
	Accepted bool   `json:"accepted"`
	Complete bool   `json:"complete"`
}

// GET /api/v1/tracking?input=AB123
// Tells the form whether the typed text can still become a valid number.
func (h *Handler) CheckTrackingInput(w http.ResponseWriter, r *http.Request) {
	in := r.URL.Query().Get("input")
	respondJSON(w, r, http.StatusOK, TrackingInputDTO{
		Input:    tracking.Normalize(in),
		Accepted: tracking.AcceptsInput(in),
		Complete: tracking.Validate(in) == nil,
	})
}

// GET /api/v1/tracking/{number}
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	st, err := tracking.Track(chi.URLParam(r, "number"))
	if err != nil {
		respondFields(w, r, "invalid_tracking_number", err.Error(), map[string]string{"trackingNumber": err.Error()})
		return
	}
	respondJSON(w, r, http.StatusOK, st)
}
