package http

import (
	"net/http"
	"strconv"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/marks"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/rbac"
)

func RecordQuestionMarkHandler(ledger *marks.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID int64   `json:"question_id" validate:"required,gt=0"`
			StudentID  int64   `json:"student_id" validate:"required,gt=0"`
			Obtained   float64 `json:"marks_obtained" validate:"gte=0"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		actor := rbac.UserFromContext(r.Context())
		m, err := ledger.RecordQuestionMark(r.Context(), req.QuestionID, req.StudentID, req.Obtained, actor)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func UpdateQuestionMarkHandler(ledger *marks.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markID, err := pathID(r, "markID")
		if err != nil {
			writeErr(w, err)
			return
		}
		var req struct {
			Obtained float64 `json:"marks_obtained" validate:"gte=0"`
			Reason   string  `json:"reason" validate:"required"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		actor := rbac.UserFromContext(r.Context())
		if err := ledger.UpdateQuestionMark(r.Context(), markID, req.Obtained, actor, req.Reason); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func EnterInternalMarkHandler(ledger *marks.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StudentID     int64   `json:"student_id" validate:"required,gt=0"`
			SubjectID     int64   `json:"subject_id" validate:"required,gt=0"`
			ComponentType string  `json:"component_type" validate:"required,oneof=ia1 ia2 assignment"`
			Obtained      float64 `json:"marks_obtained" validate:"gte=0"`
			MaxMarks      float64 `json:"max_marks" validate:"required,gt=0"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		actor := rbac.UserFromContext(r.Context())
		m, err := ledger.EnterInternalMark(r.Context(), marks.InternalMark{
			StudentID:     req.StudentID,
			SubjectID:     req.SubjectID,
			ComponentType: req.ComponentType,
			MarksObtained: req.Obtained,
			MaxMarks:      req.MaxMarks,
		}, actor)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func UpdateInternalMarkHandler(ledger *marks.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markID, err := pathID(r, "markID")
		if err != nil {
			writeErr(w, err)
			return
		}
		var req struct {
			Obtained float64 `json:"marks_obtained" validate:"gte=0"`
			Reason   string  `json:"reason" validate:"required"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		actor := rbac.UserFromContext(r.Context())
		if err := ledger.UpdateInternalMark(r.Context(), markID, req.Obtained, actor, req.Reason); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func GetInternalMarkHandler(ledger *marks.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markID, err := pathID(r, "markID")
		if err != nil {
			writeErr(w, err)
			return
		}
		m, err := ledger.GetInternalMark(r.Context(), markID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// GET /audit?mark_table=&mark_id=&student_id=&exam_id=&changed_by=&limit=&offset=
func AuditTrailHandler(ledger *marks.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := marks.AuditQuery{
			MarkTable: r.URL.Query().Get("mark_table"),
			ChangedBy: r.URL.Query().Get("changed_by"),
		}
		q.MarkID, _ = strconv.ParseInt(r.URL.Query().Get("mark_id"), 10, 64)
		q.StudentID, _ = strconv.ParseInt(r.URL.Query().Get("student_id"), 10, 64)
		q.ExamID, _ = strconv.ParseInt(r.URL.Query().Get("exam_id"), 10, 64)
		q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
		q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

		entries, err := ledger.AuditTrail(r.Context(), q)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
