package http

import (
	"net/http"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/marks"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/rbac"
)

type batchResult struct {
	Moved  []marks.InternalMark   `json:"moved"`
	Failed []marks.BatchItemError `json:"failed,omitempty"`
}

// POST /marks/internal/submit {subject_id, component_type} or {mark_ids}
func SubmitMarksHandler(wf *marks.Workflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SubjectID     int64   `json:"subject_id"`
			ComponentType string  `json:"component_type"`
			MarkIDs       []int64 `json:"mark_ids"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		by := rbac.UserFromContext(r.Context())

		var moved []marks.InternalMark
		var failed []marks.BatchItemError
		var err error
		if len(req.MarkIDs) > 0 {
			moved, failed, err = wf.SubmitMarks(r.Context(), req.MarkIDs, by)
		} else {
			moved, failed, err = wf.Submit(r.Context(), req.SubjectID, req.ComponentType, by)
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, batchResult{Moved: moved, Failed: failed})
	}
}

func ApproveMarkHandler(wf *marks.Workflow) http.HandlerFunc {
	return transitionHandler(func(r *http.Request, markID int64, by string) (marks.InternalMark, error) {
		return wf.Approve(r.Context(), markID, by)
	})
}

func FreezeMarkHandler(wf *marks.Workflow) http.HandlerFunc {
	return transitionHandler(func(r *http.Request, markID int64, by string) (marks.InternalMark, error) {
		return wf.Freeze(r.Context(), markID, by)
	})
}

func PublishMarkHandler(wf *marks.Workflow) http.HandlerFunc {
	return transitionHandler(func(r *http.Request, markID int64, by string) (marks.InternalMark, error) {
		return wf.Publish(r.Context(), markID, by)
	})
}

func RejectMarkHandler(wf *marks.Workflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markID, err := pathID(r, "markID")
		if err != nil {
			writeErr(w, err)
			return
		}
		var req struct {
			Reason string `json:"reason" validate:"required,min=10"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		by := rbac.UserFromContext(r.Context())
		m, err := wf.Reject(r.Context(), markID, by, req.Reason)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func transitionHandler(do func(r *http.Request, markID int64, by string) (marks.InternalMark, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markID, err := pathID(r, "markID")
		if err != nil {
			writeErr(w, err)
			return
		}
		m, err := do(r, markID, rbac.UserFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}
