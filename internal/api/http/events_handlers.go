package http

import (
	"net/http"
	"strconv"

	syncx "github.com/CipherCosmos/dsaba-lms-04-sub003/internal/sync"
)

// GET /events?since=OFFSET&limit=N is the poll endpoint for recompute
// workers and report exporters.
func ListEventsHandler(repo *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		events, err := repo.ListSince(r.Context(), since, limit)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}
